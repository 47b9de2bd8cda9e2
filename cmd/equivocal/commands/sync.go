// ABOUTME: Sync command group for sharing the trained model via Charm Cloud
// ABOUTME: Provides status, push, and pull subcommands over the KV store
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/malbsmeyer/equivocal/internal/charm"
	"github.com/malbsmeyer/equivocal/internal/config"
	"github.com/malbsmeyer/equivocal/internal/storage"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync the trained model with Charm Cloud",
		Long: `Sync the trained model with Charm Cloud so the same prototypes are
available on every machine linked to your Charm account.

Examples:
  equivocal sync status
  equivocal sync push
  equivocal sync pull`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncPullCmd())

	return cmd
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show cloud sync status",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if it exists
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client, err := openCharm(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			out := cmd.OutOrStdout()
			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(out, "Status: Not connected")
				fmt.Fprintln(out, "Run 'charm link' to connect this machine to your Charm account")
				return nil
			}

			fmt.Fprintln(out, "Status: Connected")
			fmt.Fprintf(out, "User ID: %s\n", id)
			fmt.Fprintf(out, "Host: %s\n", cfg.CharmHost)

			if cats, err := client.ListPrototypes(); err == nil {
				fmt.Fprintf(out, "Synced categories: %d\n", len(cats))
				if verbose {
					for _, c := range cats {
						fmt.Fprintf(out, "  %s\n", c)
					}
				}
			}
			return nil
		},
	}
}

func newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Push the local model to the cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			client, err := openCharm(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Pushing model to Charm Cloud...")
			}
			if err := client.PushModel(store.Document()); err != nil {
				return fmt.Errorf("push failed: %w", err)
			}
			if err := client.Sync(); err != nil && !quiet {
				fmt.Fprintf(os.Stderr, "Warning: cloud sync incomplete: %v\n", err)
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d categories\n", store.Count())
			}
			return nil
		},
	}
}

func newSyncPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Pull the model from the cloud, replacing the local one",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if it exists
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			client, err := openCharm(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Pulling model from Charm Cloud...")
			}
			doc, err := client.PullModel()
			if err != nil {
				return fmt.Errorf("pull failed: %w", err)
			}

			store := storage.NewModelStore(cfg.SampleRate)
			if err := store.ImportDocument(doc); err != nil {
				return fmt.Errorf("pulled model is invalid: %w", err)
			}
			if err := store.Persist(cfg.ModelPath); err != nil {
				return fmt.Errorf("failed to save model: %w", err)
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d categories to %s\n", store.Count(), cfg.ModelPath)
			}
			return nil
		},
	}
}

func openCharm(cfg *config.Config) (*charm.Client, error) {
	client, err := charm.NewClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return client, nil
}
