// ABOUTME: MCP tool definitions and registration for the equivocal server
// ABOUTME: Defines JSON schemas for the five scene and model tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/malbsmeyer/equivocal/internal/core"
	"github.com/malbsmeyer/equivocal/internal/storage"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, store *storage.ModelStore, composer *core.SceneComposer, interpreter *core.Interpreter) *Handlers {
	handlers := &Handlers{
		store:       store,
		composer:    composer,
		interpreter: interpreter,
	}

	// 1. compose_scene - blend trained prototypes from a text prompt
	server.AddTool(mcp.Tool{
		Name:        "compose_scene",
		Description: "Compose a scene descriptor from a free-text prompt by blending trained category prototypes. Returns the blended feature vector and the weighted components.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "Free-text description of the desired soundscape (e.g. 'peaceful underwater scene with whales')",
				},
			},
			Required: []string{"prompt"},
		},
	}, handlers.ComposeScene)

	// 2. interpret_scene - compose and translate into qualitative labels
	server.AddTool(mcp.Tool{
		Name:        "interpret_scene",
		Description: "Compose a scene from a free-text prompt and interpret the blended descriptor into qualitative labels (mood, energy, pattern, character, evolution, texture, space).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"prompt": map[string]interface{}{
					"type":        "string",
					"description": "Free-text description of the scene to interpret",
				},
			},
			Required: []string{"prompt"},
		},
	}, handlers.InterpretScene)

	// 3. list_categories - trained categories with sample counts
	server.AddTool(mcp.Tool{
		Name:        "list_categories",
		Description: "List all trained sound categories with their sample counts and training times.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListCategories)

	// 4. get_prototype - full prototype record for one category
	server.AddTool(mcp.Tool{
		Name:        "get_prototype",
		Description: "Get the full prototype descriptor for a trained category, including scalar features, timbre coefficients, and onset/pitch records.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Trained category name (e.g. 'whale_song')",
				},
			},
			Required: []string{"category"},
		},
	}, handlers.GetPrototype)

	// 5. model_info - model document metadata
	server.AddTool(mcp.Tool{
		Name:        "model_info",
		Description: "Get model metadata: schema version, extraction sample rate, and the trained category list.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ModelInfo)

	return handlers
}
