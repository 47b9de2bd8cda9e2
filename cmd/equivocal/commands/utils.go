// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Model and map loading, JSON printing, and table formatting helpers
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/malbsmeyer/equivocal/internal/config"
	"github.com/malbsmeyer/equivocal/internal/core"
	"github.com/malbsmeyer/equivocal/internal/models"
	"github.com/malbsmeyer/equivocal/internal/storage"
)

// openModel loads the persisted model, failing with a hint when none
// has been trained yet.
func openModel(cfg *config.Config) (*storage.ModelStore, error) {
	store := storage.NewModelStore(cfg.SampleRate)
	if err := store.Load(cfg.ModelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no trained model at %s (run 'equivocal train <tier-dir>' first)", cfg.ModelPath)
		}
		return nil, err
	}
	return store, nil
}

// openOrCreateModel loads the persisted model when present, or starts
// an empty store at the configured sample rate.
func openOrCreateModel(cfg *config.Config) (*storage.ModelStore, error) {
	store := storage.NewModelStore(cfg.SampleRate)
	err := store.Load(cfg.ModelPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return store, nil
}

// openSemanticMap loads the user's map file when one exists, falling
// back to the built-in vocabulary.
func openSemanticMap(cfg *config.Config) (*core.SemanticMap, error) {
	if _, err := os.Stat(cfg.MapPath); err == nil {
		return core.LoadSemanticMap(cfg.MapPath)
	}
	return core.DefaultSemanticMap()
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// printInterpretation renders the seven aspect labels in canonical order
func printInterpretation(w io.Writer, interp models.Interpretation) {
	for _, aspect := range interp.Aspects() {
		_, _ = fmt.Fprintf(w, "  %-10s %s\n", aspect.Name+":", aspect.Label)
	}
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
