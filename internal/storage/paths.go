// ABOUTME: Default on-disk locations for the model and semantic map
// ABOUTME: XDG data directory with an env override for testing
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DataDir returns the base data directory. EQUIVOCAL_DATA_DIR wins,
// then XDG_DATA_HOME, then the platform XDG default.
func DataDir() string {
	if dir := os.Getenv("EQUIVOCAL_DATA_DIR"); dir != "" {
		return dir
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "equivocal")
}

// DefaultModelPath returns where the persisted model lives unless
// overridden.
func DefaultModelPath() string {
	return filepath.Join(DataDir(), "model.json")
}

// DefaultMapPath returns where an edited semantic map is looked for.
func DefaultMapPath() string {
	return filepath.Join(DataDir(), "semantic_map.yaml")
}
