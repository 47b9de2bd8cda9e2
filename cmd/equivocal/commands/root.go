// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Carries the verbose/quiet/format flags shared by every command
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███████╗ ██████╗ ██╗   ██╗██╗██╗   ██╗ ██████╗  ██████╗ █████╗ ██╗
██╔════╝██╔═══██╗██║   ██║██║██║   ██║██╔═══██╗██╔════╝██╔══██╗██║
█████╗  ██║   ██║██║   ██║██║██║   ██║██║   ██║██║     ███████║██║
██╔══╝  ██║▄▄ ██║██║   ██║██║╚██╗ ██╔╝██║   ██║██║     ██╔══██║██║
███████╗╚██████╔╝╚██████╔╝██║ ╚████╔╝ ╚██████╔╝╚██████╗██║  ██║███████╗
╚══════╝ ╚══▀▀═╝  ╚═════╝ ╚═╝  ╚═══╝   ╚═════╝  ╚═════╝╚═╝  ╚═╝╚══════╝`

// NewRootCmd creates the root command with all subcommands registered
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equivocal",
		Short: "Compose and interpret imagined soundscapes from trained audio categories",
		Long: banner + `

Equivocal distills audio clips into compact semantic descriptors,
averages them into per-category prototypes, blends prototypes into
scenes from free-text prompts, and reads each scene back as qualitative
labels. It describes what a scene would sound like; it never renders
audio.

Typical workflow:
  equivocal train ./Tier_1 ./Tier_2
  equivocal compose "peaceful underwater scene with distant whales"
  equivocal listen "busy cafe with espresso machines"`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, or json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewTrainCmd())
	cmd.AddCommand(NewComposeCmd())
	cmd.AddCommand(NewListenCmd())
	cmd.AddCommand(NewCategoriesCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewSamplesCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewInitMapCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
