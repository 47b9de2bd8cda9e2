// ABOUTME: Listen command that reads a scene back as qualitative labels
// ABOUTME: Interprets either a fresh prompt or a previously saved scene file
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/malbsmeyer/equivocal/internal/config"
	"github.com/malbsmeyer/equivocal/internal/core"
	"github.com/malbsmeyer/equivocal/internal/models"
)

var listenSceneFile string

// NewListenCmd creates the listen command
func NewListenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen [prompt]",
		Short: "Describe what an imagined scene would sound like",
		Long: `Describe what an imagined scene would sound like, as seven
qualitative labels (mood, energy, pattern, character, evolution,
texture, space).

With a prompt, the scene is composed first. With --scene, a scene file
previously written by 'compose --scene-out' is interpreted instead.

Examples:
  equivocal listen "busy cafe with espresso machines"
  equivocal listen --scene scene.json
  equivocal listen "rain on a tent" --format json`,
		Args: cobra.ArbitraryArgs,
		RunE: runListen,
	}

	cmd.Flags().StringVar(&listenSceneFile, "scene", "", "Interpret a saved scene JSON file instead of a prompt")

	return cmd
}

func runListen(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var scene *models.Scene
	if listenSceneFile != "" {
		scene, err = readSceneFile(listenSceneFile)
		if err != nil {
			return err
		}
	} else {
		prompt := strings.TrimSpace(strings.Join(args, " "))
		if prompt == "" {
			return fmt.Errorf("provide a prompt or --scene <file>")
		}
		store, err := openModel(cfg)
		if err != nil {
			return err
		}
		smap, err := openSemanticMap(cfg)
		if err != nil {
			return err
		}
		scene, err = core.NewSceneComposer(store, smap).GenerateSceneFromText(prompt)
		if err != nil {
			return fmt.Errorf("failed to compose scene: %w", err)
		}
	}

	interp := core.NewInterpreter().ListenInternal(scene)

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return printJSON(out, interp)
	}

	if !quiet && scene.Prompt != "" {
		fmt.Fprintf(out, "Prompt: %s\n\n", scene.Prompt)
	}
	fmt.Fprintf(out, "The imagined scene sounds:\n")
	printInterpretation(out, interp)

	if verbose {
		fmt.Fprintf(out, "\nComponents:\n")
		for _, c := range scene.Components {
			fmt.Fprintf(out, "  %s (%.3f)\n", c.Category, c.Weight)
		}
	}
	return nil
}

func readSceneFile(path string) (*models.Scene, error) {
	data, err := os.ReadFile(path) // #nosec G304 - user-provided scene path
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	var scene models.Scene
	if err := json.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}
	if scene.Features == nil {
		return nil, fmt.Errorf("scene file %s has no features", path)
	}
	return &scene, nil
}
