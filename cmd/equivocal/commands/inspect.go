// ABOUTME: Inspect command showing one trained prototype in full detail
// ABOUTME: Prints descriptor values plus how the prototype reads on its own
package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/malbsmeyer/equivocal/internal/config"
	"github.com/malbsmeyer/equivocal/internal/core"
	"github.com/malbsmeyer/equivocal/internal/models"
	"github.com/malbsmeyer/equivocal/internal/storage"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <category>",
		Short: "Show a trained prototype in detail",
		Long: `Show a trained category's prototype: every descriptor value it
defines, its timbre coefficients, rhythm and pitch records, and how the
prototype reads when interpreted on its own.

Examples:
  equivocal inspect whale_song
  equivocal inspect cafe_ambience --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
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

	proto, err := store.Get(args[0])
	if err != nil {
		if errors.Is(err, storage.ErrCategoryNotFound) {
			return fmt.Errorf("category %q is not trained (see 'equivocal categories')", args[0])
		}
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return printJSON(out, proto)
	}

	fmt.Fprintf(out, "Category: %s\n", proto.Category)
	fmt.Fprintf(out, "Samples:  %d\n", proto.SampleCount)
	fmt.Fprintf(out, "Trained:  %s\n\n", formatTime(proto.TrainedAt))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FEATURE\tVALUE\n")
	fmt.Fprintf(w, "-------\t-----\n")
	for _, key := range models.ScalarKeys() {
		if v, ok := proto.Features.Scalar(key); ok {
			fmt.Fprintf(w, "%s\t%.4f\n", key, v)
		}
	}
	_ = w.Flush()

	if tv := proto.Features.TimbreVector; len(tv) > 0 {
		fmt.Fprintf(out, "\nTimbre (%d coefficients):\n ", len(tv))
		for _, c := range tv {
			fmt.Fprintf(out, " %.3f", c)
		}
		fmt.Fprintln(out)
	}
	if op := proto.Features.OnsetPattern; op != nil {
		fmt.Fprintf(out, "\nOnsets: mean IOI %.3fs, variance %.3f, count %.1f\n",
			op.MeanIOI, op.IOIVariance, op.NumOnsets)
	}
	if pp := proto.Features.PitchProfile; pp != nil {
		fmt.Fprintf(out, "Pitch:  mean %.1f Hz, range %.1f Hz, variance %.1f\n",
			pp.MeanPitch, pp.PitchRange, pp.PitchVariance)
	}

	fmt.Fprintf(out, "\nOn its own it sounds:\n")
	printInterpretation(out, core.NewInterpreter().Interpret(proto.Features))
	return nil
}
