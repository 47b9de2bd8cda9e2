// ABOUTME: Init-map command writing the built-in semantic map to disk
// ABOUTME: Gives users a starting vocabulary file they can edit
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/malbsmeyer/equivocal/internal/config"
	"github.com/malbsmeyer/equivocal/internal/core"
)

var initMapForce bool

// NewInitMapCmd creates the init-map command
func NewInitMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-map",
		Short: "Write the built-in semantic map to a file you can edit",
		Long: `Write the built-in semantic map to the configured map path
(EQUIVOCAL_MAP_PATH). Compose and listen pick the file up automatically;
edit it to change how prompt terms resolve to categories.

Examples:
  equivocal init-map
  equivocal init-map --force`,
		RunE: runInitMap,
	}

	cmd.Flags().BoolVar(&initMapForce, "force", false, "Overwrite an existing map file")

	return cmd
}

func runInitMap(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := cfg.MapPath
	if _, err := os.Stat(path); err == nil && !initMapForce {
		return fmt.Errorf("semantic map already exists at %s (use --force to overwrite)", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create map directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(core.DefaultSemanticMapYAML()), 0644); err != nil {
		return fmt.Errorf("failed to write semantic map: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Semantic map written to %s\n", path)
		fmt.Fprintln(cmd.OutOrStdout(), "Edit it to adjust how prompt terms resolve to categories")
	}
	return nil
}
