// ABOUTME: Tests for root CLI command and global flags
// ABOUTME: Verifies command structure, subcommands, and flag handling

package commands

import (
	"bytes"
	"strings"
	"testing"
)

// resetGlobalFlags restores the package-level flag state mutated by
// executing commands, so tests stay order-independent.
func resetGlobalFlags() {
	verbose = false
	quiet = false
	outputFormat = "auto"
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "equivocal" {
		t.Errorf("Use = %q, want %q", cmd.Use, "equivocal")
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("root command should carry short and long descriptions")
	}
	// The banner renders in block characters at the top of the help.
	if !strings.Contains(cmd.Long, "███") {
		t.Error("Long description should contain the ASCII banner")
	}
	if !cmd.SilenceUsage {
		t.Error("SilenceUsage should be true so runtime errors do not dump usage")
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	flags := NewRootCmd().PersistentFlags()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "verbose", shorthand: "v", defValue: "false"},
		{name: "quiet", shorthand: "q", defValue: "false"},
		{name: "format", shorthand: "", defValue: "auto"},
	}
	for _, tt := range tests {
		flag := flags.Lookup(tt.name)
		if flag == nil {
			t.Errorf("--%s flag not registered", tt.name)
			continue
		}
		if flag.Shorthand != tt.shorthand {
			t.Errorf("--%s shorthand = %q, want %q", tt.name, flag.Shorthand, tt.shorthand)
		}
		if flag.DefValue != tt.defValue {
			t.Errorf("--%s default = %q, want %q", tt.name, flag.DefValue, tt.defValue)
		}
	}
}

func TestRootCmd_VerboseQuietExclusive(t *testing.T) {
	run := func(args ...string) error {
		defer resetGlobalFlags()
		cmd := NewRootCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	if err := run("--verbose", "version"); err != nil {
		t.Errorf("--verbose alone should work: %v", err)
	}
	if err := run("--quiet", "version"); err != nil {
		t.Errorf("--quiet alone should work: %v", err)
	}
	if err := run("--verbose", "--quiet", "version"); err == nil {
		t.Error("--verbose with --quiet should be rejected")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	registered := make(map[string]bool)
	for _, sub := range NewRootCmd().Commands() {
		name, _, _ := strings.Cut(sub.Use, " ")
		registered[name] = true
	}

	for _, want := range []string{
		"train", "compose", "listen", "categories", "inspect",
		"export", "samples", "sync", "init-map", "mcp", "version",
	} {
		if !registered[want] {
			t.Errorf("subcommand %q not registered (have %v)", want, registered)
		}
	}
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--help"})

	_ = cmd.Execute()

	// Cobra's help sections plus a few of our own command names.
	for _, want := range []string{"Usage:", "Available Commands:", "Flags:", "compose", "train", "listen"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}
