// ABOUTME: MCP tool handler implementations for the equivocal server
// ABOUTME: Wraps composing, interpreting, and model inspection with JSON responses
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/malbsmeyer/equivocal/internal/core"
	"github.com/malbsmeyer/equivocal/internal/storage"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	store       *storage.ModelStore
	composer    *core.SceneComposer
	interpreter *core.Interpreter
}

// ComposeScene handles the compose_scene tool
func (h *Handlers) ComposeScene(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError("prompt argument is required and must be a string"), nil
	}

	scene, err := h.composer.GenerateSceneFromText(prompt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compose scene: %v", err)), nil
	}

	response := map[string]interface{}{
		"scene_id":   scene.SceneID,
		"prompt":     scene.Prompt,
		"components": scene.Components,
		"features":   scene.Features,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// InterpretScene handles the interpret_scene tool
func (h *Handlers) InterpretScene(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError("prompt argument is required and must be a string"), nil
	}

	scene, err := h.composer.GenerateSceneFromText(prompt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compose scene: %v", err)), nil
	}

	interp := h.interpreter.ListenInternal(scene)

	response := map[string]interface{}{
		"scene_id":       scene.SceneID,
		"prompt":         scene.Prompt,
		"components":     scene.Components,
		"interpretation": interp,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListCategories handles the list_categories tool
func (h *Handlers) ListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := h.store.Categories()

	categories := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		p, err := h.store.Get(name)
		if err != nil {
			continue
		}
		categories = append(categories, map[string]interface{}{
			"category":     p.Category,
			"sample_count": p.SampleCount,
			"trained_at":   p.TrainedAt.Format(time.RFC3339),
		})
	}

	response := map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// GetPrototype handles the get_prototype tool
func (h *Handlers) GetPrototype(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := request.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("category argument is required and must be a string"), nil
	}

	proto, err := h.store.Get(category)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get prototype: %v", err)), nil
	}

	responseJSON, err := json.Marshal(proto)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ModelInfo handles the model_info tool
func (h *Handlers) ModelInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := h.store.Document()

	response := map[string]interface{}{
		"schema_version": doc.SchemaVersion,
		"sample_rate":    doc.SampleRate,
		"category_count": doc.CategoryCount,
		"categories":     h.store.Categories(),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
