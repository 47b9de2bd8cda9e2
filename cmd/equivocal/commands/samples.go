// ABOUTME: Samples command reporting catalog bookkeeping from training runs
// ABOUTME: Shows per-category stats, per-category sample lists, or failures
package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/malbsmeyer/equivocal/internal/config"
	"github.com/malbsmeyer/equivocal/internal/storage/catalog"
)

var (
	samplesFailed   bool
	samplesCategory string
)

// NewSamplesCmd creates the samples command
func NewSamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Show the training sample catalog",
		Long: `Show what the model was trained on, from the sample catalog
recorded during training.

By default prints per-category statistics. Use --category for every
sample of one category, or --failed for samples that failed to decode
or extract.

Examples:
  equivocal samples
  equivocal samples --category whale_song
  equivocal samples --failed`,
		RunE: runSamples,
	}

	cmd.Flags().BoolVar(&samplesFailed, "failed", false, "List samples that failed during training")
	cmd.Flags().StringVar(&samplesCategory, "category", "", "List every recorded sample for one category")
	cmd.MarkFlagsMutuallyExclusive("failed", "category")

	return cmd
}

func runSamples(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to open sample catalog: %w", err)
	}
	defer func() { _ = db.Close() }()
	cat := catalog.NewCatalog(db)

	out := cmd.OutOrStdout()
	switch {
	case samplesFailed:
		records, err := cat.FailedSamples()
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return printJSON(out, sampleReports(records))
		}
		if len(records) == 0 {
			if !quiet {
				fmt.Fprintln(out, "No failed samples")
			}
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "PATH\tCATEGORY\tERROR\n")
		fmt.Fprintf(w, "----\t--------\t-----\n")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Path, r.Category, truncate(r.Error, 60))
		}
		_ = w.Flush()

	case samplesCategory != "":
		records, err := cat.SamplesForCategory(samplesCategory)
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return printJSON(out, sampleReports(records))
		}
		if len(records) == 0 {
			if !quiet {
				fmt.Fprintf(out, "No samples recorded for %s\n", samplesCategory)
			}
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "PATH\tSTATUS\tSECONDS\tRECORDED\n")
		fmt.Fprintf(w, "----\t------\t-------\t--------\n")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\n", r.Path, r.Status, r.ClipSeconds, formatTime(r.CreatedAt))
		}
		_ = w.Flush()

	default:
		stats, err := cat.Stats()
		if err != nil {
			return err
		}
		if outputFormat == "json" {
			return printJSON(out, statsReports(stats))
		}
		if len(stats) == 0 {
			if !quiet {
				fmt.Fprintln(out, "No training runs recorded")
			}
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "CATEGORY\tRUNS\tSAMPLES\tFAILED\tLAST TRAINED\n")
		fmt.Fprintf(w, "--------\t----\t-------\t------\t------------\n")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
				s.Category, s.RunCount, s.SampleCount, s.FailedCount, formatTime(s.LastTrained))
		}
		_ = w.Flush()
	}
	return nil
}

type sampleReport struct {
	Path        string    `json:"path"`
	Category    string    `json:"category"`
	RunID       string    `json:"run_id"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	ClipSeconds float64   `json:"clip_seconds"`
	RecordedAt  time.Time `json:"recorded_at"`
}

func sampleReports(records []catalog.SampleRecord) []sampleReport {
	reports := make([]sampleReport, len(records))
	for i, r := range records {
		reports[i] = sampleReport{
			Path:        r.Path,
			Category:    r.Category,
			RunID:       r.RunID,
			Status:      r.Status,
			Error:       r.Error,
			ClipSeconds: r.ClipSeconds,
			RecordedAt:  r.CreatedAt,
		}
	}
	return reports
}

type statsReport struct {
	Category    string    `json:"category"`
	RunCount    int       `json:"run_count"`
	SampleCount int       `json:"sample_count"`
	FailedCount int       `json:"failed_count"`
	LastTrained time.Time `json:"last_trained"`
}

func statsReports(stats []catalog.CategoryStats) []statsReport {
	reports := make([]statsReport, len(stats))
	for i, s := range stats {
		reports[i] = statsReport{
			Category:    s.Category,
			RunCount:    s.RunCount,
			SampleCount: s.SampleCount,
			FailedCount: s.FailedCount,
			LastTrained: s.LastTrained,
		}
	}
	return reports
}
