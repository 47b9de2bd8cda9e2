// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to compose scenes via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
	"github.com/malbsmeyer/equivocal/internal/config"
	"github.com/malbsmeyer/equivocal/internal/core"
	"github.com/malbsmeyer/equivocal/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs Equivocal as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to compose and interpret scenes via stdio.

Configure in Claude Desktop's config file to enable the scene tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  equivocal mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "equivocal": {
  #       "command": "equivocal",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := openOrCreateModel(cfg)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	if store.Count() == 0 {
		log.Printf("Warning: no trained model at %s - compose tools will fail until one is trained", cfg.ModelPath)
	}

	smap, err := openSemanticMap(cfg)
	if err != nil {
		return fmt.Errorf("failed to load semantic map: %w", err)
	}

	composer := core.NewSceneComposer(store, smap)
	interpreter := core.NewInterpreter()

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Equivocal Scene Engine",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, store, composer, interpreter)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Equivocal MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
