// ABOUTME: Export command writing the trained model to YAML or Markdown
// ABOUTME: Output format is chosen from the target file extension
package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/malbsmeyer/equivocal/internal/config"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <output-file>",
		Short: "Export the trained model to YAML or Markdown",
		Long: `Export every trained prototype to a human-readable file. A .md or
.markdown extension produces Markdown; anything else produces YAML.

Examples:
  equivocal export model.yaml
  equivocal export report.md`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openModel(cfg)
	if err != nil {
		return err
	}

	path := args[0]
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		err = store.ExportToMarkdown(path)
	default:
		err = store.ExportToYAML(path)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d categories to %s\n", store.Count(), path)
	}
	return nil
}
