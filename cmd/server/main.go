// ABOUTME: Main entry point for the standalone equivocal MCP server
// ABOUTME: Loads the trained model and serves the scene tools over stdio
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/malbsmeyer/equivocal/internal/config"
	"github.com/malbsmeyer/equivocal/internal/core"
	"github.com/malbsmeyer/equivocal/internal/mcp"
	"github.com/malbsmeyer/equivocal/internal/storage"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	store := storage.NewModelStore(cfg.SampleRate)
	if err := store.Load(cfg.ModelPath); err != nil {
		log.Printf("Warning: no trained model at %s - compose tools will fail until one is trained", cfg.ModelPath)
	}

	smap, err := loadMap(cfg)
	if err != nil {
		log.Fatalf("Failed to load semantic map: %v", err)
	}

	composer := core.NewSceneComposer(store, smap)
	interpreter := core.NewInterpreter()

	server := mcpserver.NewMCPServer(
		"Equivocal Scene Engine",
		"0.1.0",
	)

	mcp.RegisterTools(server, store, composer, interpreter)

	log.Println("Equivocal MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadMap prefers the user's map file, falling back to the built-in
// vocabulary.
func loadMap(cfg *config.Config) (*core.SemanticMap, error) {
	if _, err := os.Stat(cfg.MapPath); err == nil {
		return core.LoadSemanticMap(cfg.MapPath)
	}
	return core.DefaultSemanticMap()
}
