// ABOUTME: Compose command that blends a scene descriptor from a text prompt
// ABOUTME: Optionally narrates the result and writes the scene JSON to a file
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/malbsmeyer/equivocal/internal/config"
	"github.com/malbsmeyer/equivocal/internal/core"
	"github.com/malbsmeyer/equivocal/internal/llm"
	"github.com/malbsmeyer/equivocal/internal/models"
)

var (
	composeNarrate  bool
	composeSceneOut string
)

// NewComposeCmd creates the compose command
func NewComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose <prompt>",
		Short: "Compose a scene descriptor from a free-text prompt",
		Long: `Compose a blended scene descriptor from a free-text prompt.

The prompt is resolved against the semantic map into weighted trained
categories, their prototypes are blended into a single descriptor, and
the result is interpreted as qualitative labels.

Examples:
  equivocal compose "peaceful underwater scene with distant whales"
  equivocal compose --narrate "busy cafe with espresso machines"
  equivocal compose --scene-out scene.json "thunderstorm over a forest"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCompose,
	}

	cmd.Flags().BoolVar(&composeNarrate, "narrate", false, "Narrate the interpretation with OpenAI")
	cmd.Flags().StringVar(&composeSceneOut, "scene-out", "", "Write the composed scene JSON to a file")

	return cmd
}

func runCompose(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists
	_ = godotenv.Load()

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return fmt.Errorf("prompt must not be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := openModel(cfg)
	if err != nil {
		return err
	}
	smap, err := openSemanticMap(cfg)
	if err != nil {
		return err
	}

	composer := core.NewSceneComposer(store, smap)
	scene, err := composer.GenerateSceneFromText(prompt)
	if err != nil {
		return fmt.Errorf("failed to compose scene: %w", err)
	}
	interp := core.NewInterpreter().ListenInternal(scene)

	if composeSceneOut != "" {
		data, err := json.MarshalIndent(scene, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal scene: %w", err)
		}
		if err := os.WriteFile(composeSceneOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write scene file: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Scene written to %s\n", composeSceneOut)
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return printJSON(out, map[string]interface{}{
			"scene":          scene,
			"interpretation": interp,
		})
	}

	fmt.Fprintf(out, "Scene %s\n", scene.SceneID)
	if !quiet {
		fmt.Fprintf(out, "Prompt: %s\n", scene.Prompt)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "CATEGORY\tWEIGHT\n")
	fmt.Fprintf(w, "--------\t------\n")
	for _, c := range scene.Components {
		fmt.Fprintf(w, "%s\t%.3f\n", c.Category, c.Weight)
	}
	_ = w.Flush()

	fmt.Fprintf(out, "\nThe imagined scene sounds:\n")
	printInterpretation(out, interp)

	if composeNarrate {
		narration, err := narrateScene(cfg, scene.Prompt, interp)
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "Warning: narration unavailable: %v\n", err)
			}
		} else {
			fmt.Fprintf(out, "\n%s\n", narration)
		}
	}
	return nil
}

// narrateScene turns the interpretation into prose via OpenAI. Requires
// OPENAI_API_KEY; everything else in the CLI works without it.
func narrateScene(cfg *config.Config, prompt string, interp models.Interpretation) (string, error) {
	if !cfg.HasNarration() {
		return "", fmt.Errorf("OPENAI_API_KEY is not set")
	}
	narrator, err := llm.NewNarratorWithConfig(&llm.ClientConfig{
		APIKey:     cfg.OpenAIKey,
		ChatModel:  cfg.ChatModel,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})
	if err != nil {
		return "", err
	}
	return narrator.Narrate(prompt, interp)
}
