// ABOUTME: Version command to display build information
// ABOUTME: Shows version, commit hash, build date, and Go runtime
package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
}

// VersionInfo contains build information
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// SetVersion sets the version information (called from main)
func SetVersion(version, commit, date string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.Date = date
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date for the Equivocal CLI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo
			info.Go = runtime.Version()

			out := cmd.OutOrStdout()
			if outputFormat == "json" {
				return printJSON(out, info)
			}
			fmt.Fprintf(out, "Equivocal %s\n", info.Version)
			fmt.Fprintf(out, "Commit: %s\n", info.Commit)
			fmt.Fprintf(out, "Built:  %s\n", info.Date)
			fmt.Fprintf(out, "Go:     %s\n", info.Go)
			return nil
		},
	}
}
