// ABOUTME: Scene is the blended descriptor composed from weighted prototypes
// ABOUTME: Ephemeral inference output; never written into the model store
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SceneComponent records one prototype's share of a blend. Weights are
// normalized so a scene's components sum to 1.
type SceneComponent struct {
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
}

// Scene is a composed descriptor plus its provenance: the prompt that
// selected the components and the normalized weights used.
type Scene struct {
	SceneID    string           `json:"scene_id"`
	Prompt     string           `json:"prompt,omitempty"`
	Components []SceneComponent `json:"components"`
	Features   *FeatureVector   `json:"features"`
	CreatedAt  time.Time        `json:"created_at"`
}

// NewScene creates a Scene with a generated ID.
func NewScene(prompt string, components []SceneComponent, features *FeatureVector) (*Scene, error) {
	if len(components) == 0 {
		return nil, errors.New("scene needs at least one component")
	}
	if features == nil {
		return nil, errors.New("scene has no features")
	}
	comps := make([]SceneComponent, len(components))
	copy(comps, components)
	return &Scene{
		SceneID:    generateSceneID(),
		Prompt:     prompt,
		Components: comps,
		Features:   features,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// generateSceneID generates a unique scene identifier
func generateSceneID() string {
	return fmt.Sprintf("scene_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}
