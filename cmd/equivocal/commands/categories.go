// ABOUTME: Categories command listing every trained prototype in the model
// ABOUTME: Shows sample counts and training recency in table or JSON form
package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/malbsmeyer/equivocal/internal/config"
)

// NewCategoriesCmd creates the categories command
func NewCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List trained categories",
		Long: `List every trained category in the model with its sample count
and when it was last trained.

Examples:
  equivocal categories
  equivocal categories --format json`,
		RunE: runCategories,
	}

	return cmd
}

func runCategories(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openOrCreateModel(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if store.Count() == 0 {
		if outputFormat == "json" {
			return printJSON(out, []categoryReport{})
		}
		if !quiet {
			fmt.Fprintln(out, "No trained categories")
			fmt.Fprintln(out, "Run 'equivocal train <tier-dir>' to train a model")
		}
		return nil
	}

	reports := make([]categoryReport, 0, store.Count())
	for _, name := range store.Categories() {
		proto, err := store.Get(name)
		if err != nil {
			return err
		}
		reports = append(reports, categoryReport{
			Category:    name,
			SampleCount: proto.SampleCount,
			TrainedAt:   proto.TrainedAt,
		})
	}

	if outputFormat == "json" {
		return printJSON(out, reports)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CATEGORY\tSAMPLES\tTRAINED\n")
	fmt.Fprintf(w, "--------\t-------\t-------\n")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%d\t%s\n", r.Category, r.SampleCount, formatTime(r.TrainedAt))
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(out, "\nTotal: %d categories\n", len(reports))
	}
	return nil
}

type categoryReport struct {
	Category    string    `json:"category"`
	SampleCount int       `json:"sample_count"`
	TrainedAt   time.Time `json:"trained_at"`
}
