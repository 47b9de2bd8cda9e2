// ABOUTME: Train command that builds category prototypes from tier directories
// ABOUTME: Runs parallel feature extraction and persists the updated model
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/malbsmeyer/equivocal/internal/config"
	"github.com/malbsmeyer/equivocal/internal/storage/catalog"
	"github.com/malbsmeyer/equivocal/internal/training"
)

var (
	trainWorkers   int
	trainModelPath string
	trainNoCatalog bool
)

// NewTrainCmd creates the train command
func NewTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <tier-dir>...",
		Short: "Train category prototypes from directories of audio clips",
		Long: `Train category prototypes from one or more tier directories.

Each tier directory holds one subdirectory per category, and every WAV
or MP3 clip inside becomes a training sample for that category.
Retraining a category replaces its prototype with the average of the
new samples.

Examples:
  equivocal train ./Tier_1
  equivocal train ./Tier_1 ./Tier_2 --workers 8
  equivocal train ./samples --model ./soundscape.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTrain,
	}

	cmd.Flags().IntVar(&trainWorkers, "workers", 0, "Extraction workers (default EQUIVOCAL_TRAIN_WORKERS)")
	cmd.Flags().StringVar(&trainModelPath, "model", "", "Model file to update (default EQUIVOCAL_MODEL_PATH)")
	cmd.Flags().BoolVar(&trainNoCatalog, "no-catalog", false, "Skip recording sample outcomes in the catalog")

	return cmd
}

func runTrain(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if trainModelPath != "" {
		cfg.ModelPath = trainModelPath
	}
	workers := cfg.TrainWorkers
	if trainWorkers != 0 {
		if err := validatePositiveInt(trainWorkers, "workers"); err != nil {
			return err
		}
		workers = trainWorkers
	}

	store, err := openOrCreateModel(cfg)
	if err != nil {
		return err
	}

	// Catalog trouble never blocks training, it only loses bookkeeping.
	var cat *catalog.Catalog
	if !trainNoCatalog {
		db, err := catalog.Open(cfg.CatalogPath)
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "Warning: sample catalog unavailable: %v\n", err)
			}
		} else {
			defer func() { _ = db.Close() }()
			cat = catalog.NewCatalog(db)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := training.NewRunner(store, cat, workers)
	results, err := runner.TrainTiers(ctx, args...)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no category directories with audio found under %s", strings.Join(args, ", "))
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		if err := printJSON(out, trainReports(results)); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "CATEGORY\tTIER\tOK\tFAILED\tTIME\n")
		fmt.Fprintf(w, "--------\t----\t--\t------\t----\n")
		for _, res := range results {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
				res.Category, res.Tier, res.Trained, res.Failed, res.Duration.Round(time.Millisecond))
		}
		_ = w.Flush()
	}

	failedCategories := 0
	for _, res := range results {
		if res.Err != nil {
			failedCategories++
			fmt.Fprintf(os.Stderr, "Error: category %s: %v\n", res.Category, res.Err)
		}
		if res.LedgerErr != nil && !quiet {
			fmt.Fprintf(os.Stderr, "Warning: category %s: %v\n", res.Category, res.LedgerErr)
		}
		if verbose {
			for _, o := range res.Outcomes {
				if o.Err != nil {
					fmt.Fprintf(os.Stderr, "  %s: %v\n", o.Path, o.Err)
				}
			}
		}
	}

	if trained := len(results) - failedCategories; trained > 0 {
		if err := store.Persist(cfg.ModelPath); err != nil {
			return fmt.Errorf("failed to save model: %w", err)
		}
		if !quiet {
			fmt.Fprintf(out, "\nModel saved to %s (%d categories)\n", cfg.ModelPath, store.Count())
		}
	}
	if failedCategories > 0 {
		return fmt.Errorf("%d of %d categories failed to train", failedCategories, len(results))
	}
	return nil
}

type trainReport struct {
	Category string  `json:"category"`
	Tier     string  `json:"tier"`
	RunID    string  `json:"run_id,omitempty"`
	Trained  int     `json:"trained"`
	Failed   int     `json:"failed"`
	Seconds  float64 `json:"seconds"`
	Error    string  `json:"error,omitempty"`
}

func trainReports(results []training.CategoryResult) []trainReport {
	reports := make([]trainReport, len(results))
	for i, res := range results {
		reports[i] = trainReport{
			Category: res.Category,
			Tier:     res.Tier,
			RunID:    res.RunID,
			Trained:  res.Trained,
			Failed:   res.Failed,
			Seconds:  res.Duration.Seconds(),
		}
		if res.Err != nil {
			reports[i].Error = res.Err.Error()
		}
	}
	return reports
}
