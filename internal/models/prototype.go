// ABOUTME: Prototype is the averaged descriptor for one trained sound category
// ABOUTME: Immutable once built; retraining replaces the whole record
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Prototype captures what a sound category "sounds like" as the
// key-wise mean of its training sample descriptors.
type Prototype struct {
	Category    string         `json:"category"`
	Features    *FeatureVector `json:"features"`
	SampleCount int            `json:"sample_count"`
	TrainedAt   time.Time      `json:"trained_at"`
}

// NewPrototype creates a validated Prototype.
func NewPrototype(category string, features *FeatureVector, sampleCount int) (*Prototype, error) {
	if strings.TrimSpace(category) == "" {
		return nil, errors.New("category cannot be empty")
	}
	if features == nil {
		return nil, fmt.Errorf("prototype %q has no features", category)
	}
	if sampleCount < 1 {
		return nil, fmt.Errorf("prototype %q needs at least one sample, got %d", category, sampleCount)
	}
	if err := features.Validate(); err != nil {
		return nil, fmt.Errorf("prototype %q: %w", category, err)
	}
	return &Prototype{
		Category:    category,
		Features:    features,
		SampleCount: sampleCount,
		TrainedAt:   time.Now().UTC(),
	}, nil
}

// Validate re-checks an existing record, typically after loading it
// from disk.
func (p *Prototype) Validate() error {
	if p == nil {
		return errors.New("prototype is nil")
	}
	if strings.TrimSpace(p.Category) == "" {
		return errors.New("prototype has empty category")
	}
	if p.Features == nil {
		return fmt.Errorf("prototype %q has no features", p.Category)
	}
	if p.SampleCount < 1 {
		return fmt.Errorf("prototype %q has sample count %d", p.Category, p.SampleCount)
	}
	if err := p.Features.Validate(); err != nil {
		return fmt.Errorf("prototype %q: %w", p.Category, err)
	}
	return nil
}
