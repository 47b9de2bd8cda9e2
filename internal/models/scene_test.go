// ABOUTME: Tests for Scene construction and ID generation
// ABOUTME: Verifies component copying and the scene_ ID format
package models

import (
	"strings"
	"testing"
)

func TestNewScene(t *testing.T) {
	comps := []SceneComponent{
		{Category: "underwater_ambience", Weight: 0.5},
		{Category: "whale_song", Weight: 0.5},
	}
	features := &FeatureVector{EnergyLevel: Float64Ptr(0.025)}

	scene, err := NewScene("peaceful ocean", comps, features)
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}

	if scene.Prompt != "peaceful ocean" {
		t.Errorf("Prompt = %q, want %q", scene.Prompt, "peaceful ocean")
	}
	if len(scene.Components) != 2 {
		t.Fatalf("Components length = %d, want 2", len(scene.Components))
	}
	if scene.Features != features {
		t.Error("Features should be the vector passed in")
	}
	if scene.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	// The scene owns its component slice.
	comps[0].Weight = 0.99
	if scene.Components[0].Weight == 0.99 {
		t.Error("NewScene() should copy the component slice")
	}
}

func TestNewScene_Invalid(t *testing.T) {
	features := &FeatureVector{}

	if _, err := NewScene("x", nil, features); err == nil {
		t.Error("NewScene() should reject empty components")
	}
	if _, err := NewScene("x", []SceneComponent{{Category: "thunder", Weight: 1}}, nil); err == nil {
		t.Error("NewScene() should reject nil features")
	}
}

func TestScene_SceneIDFormat(t *testing.T) {
	scene, err := NewScene("storm", []SceneComponent{{Category: "thunder", Weight: 1}}, &FeatureVector{})
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}

	parts := strings.Split(scene.SceneID, "_")
	if len(parts) < 3 {
		t.Fatalf("SceneID format unexpected: %s", scene.SceneID)
	}
	if parts[0] != "scene" {
		t.Errorf("SceneID should start with 'scene', got: %s", parts[0])
	}
	if len(parts[1]) != 8 {
		t.Errorf("SceneID date part should be 8 digits, got: %s", parts[1])
	}
	if len(parts[2]) != 6 {
		t.Errorf("SceneID time part should be 6 digits, got: %s", parts[2])
	}
}

func TestNewScene_UniqueIDs(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 10; i++ {
		scene, err := NewScene("x", []SceneComponent{{Category: "thunder", Weight: 1}}, &FeatureVector{})
		if err != nil {
			t.Fatalf("NewScene() error = %v", err)
		}
		if ids[scene.SceneID] {
			t.Errorf("Duplicate SceneID generated: %s", scene.SceneID)
		}
		ids[scene.SceneID] = true
	}
}
