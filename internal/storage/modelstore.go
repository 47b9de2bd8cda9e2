// ABOUTME: ModelStore holds trained prototypes keyed by category
// ABOUTME: Read-mostly map behind an RWMutex; persisted as one JSON document
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/malbsmeyer/equivocal/internal/models"
)

// SchemaVersion is the persisted model document version.
const SchemaVersion = 1

var (
	// ErrCategoryNotFound reports a lookup for an untrained category.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCorruptModel reports a persisted document that cannot be
	// trusted: bad JSON, wrong schema version, or invalid prototypes.
	ErrCorruptModel = errors.New("corrupt model")
)

// ModelStore is the durable artifact of training: one prototype per
// category plus the sample rate the features were extracted at. Safe
// for concurrent use; prototypes are immutable once stored.
type ModelStore struct {
	mu         sync.RWMutex
	prototypes map[string]*models.Prototype
	sampleRate int
}

// ModelDocument is the JSON shape of a persisted store.
type ModelDocument struct {
	SchemaVersion int                          `json:"schema_version"`
	SampleRate    int                          `json:"sample_rate"`
	CategoryCount int                          `json:"category_count"`
	Categories    map[string]*models.Prototype `json:"categories"`
}

// NewModelStore creates an empty store for the given extraction sample
// rate.
func NewModelStore(sampleRate int) *ModelStore {
	return &ModelStore{
		prototypes: make(map[string]*models.Prototype),
		sampleRate: sampleRate,
	}
}

// Put stores a prototype, replacing any previous one for its category.
// Readers holding the old pointer keep a consistent snapshot.
func (s *ModelStore) Put(p *models.Prototype) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("refusing to store prototype: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prototypes[p.Category] = p
	return nil
}

// Get returns the prototype for a category.
func (s *ModelStore) Get(category string) (*models.Prototype, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prototypes[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
	}
	return p, nil
}

// Has reports whether a category is trained.
func (s *ModelStore) Has(category string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.prototypes[category]
	return ok
}

// Categories returns the trained category names, sorted.
func (s *ModelStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.prototypes))
	for name := range s.prototypes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of trained categories.
func (s *ModelStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prototypes)
}

// SampleRate returns the extraction sample rate the model was built at.
func (s *ModelStore) SampleRate() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sampleRate
}

// Document snapshots the store into its persistable shape.
func (s *ModelStore) Document() *ModelDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cats := make(map[string]*models.Prototype, len(s.prototypes))
	for name, p := range s.prototypes {
		cats[name] = p
	}
	return &ModelDocument{
		SchemaVersion: SchemaVersion,
		SampleRate:    s.sampleRate,
		CategoryCount: len(cats),
		Categories:    cats,
	}
}

// Persist writes the store to disk as indented JSON, creating parent
// directories as needed.
func (s *ModelStore) Persist(path string) error {
	doc := s.Document()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}

// Load replaces the store's contents with a persisted document. The
// swap is atomic: concurrent readers see the old model or the new one,
// never a mix.
func (s *ModelStore) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model file: %w", err)
	}
	doc, err := parseModelDocument(data)
	if err != nil {
		return err
	}

	prototypes := make(map[string]*models.Prototype, len(doc.Categories))
	for name, p := range doc.Categories {
		prototypes[name] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prototypes = prototypes
	s.sampleRate = doc.SampleRate
	return nil
}

// ImportDocument replaces the store's contents with an already decoded
// document, applying the same validation as Load.
func (s *ModelStore) ImportDocument(doc *ModelDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrCorruptModel)
	}
	if err := validateModelDocument(doc); err != nil {
		return err
	}

	prototypes := make(map[string]*models.Prototype, len(doc.Categories))
	for name, p := range doc.Categories {
		prototypes[name] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prototypes = prototypes
	s.sampleRate = doc.SampleRate
	return nil
}

// parseModelDocument validates a raw document end to end.
func parseModelDocument(data []byte) (*ModelDocument, error) {
	var doc ModelDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrCorruptModel, err)
	}
	if err := validateModelDocument(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func validateModelDocument(doc *ModelDocument) error {
	if doc.SchemaVersion != SchemaVersion {
		return fmt.Errorf("%w: schema version %d, want %d", ErrCorruptModel, doc.SchemaVersion, SchemaVersion)
	}
	if doc.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrCorruptModel, doc.SampleRate)
	}
	if doc.CategoryCount != len(doc.Categories) {
		return fmt.Errorf("%w: category count %d does not match %d categories", ErrCorruptModel, doc.CategoryCount, len(doc.Categories))
	}
	for name, p := range doc.Categories {
		if p == nil {
			return fmt.Errorf("%w: category %q has no prototype", ErrCorruptModel, name)
		}
		if p.Category != name {
			return fmt.Errorf("%w: category key %q holds prototype for %q", ErrCorruptModel, name, p.Category)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptModel, err)
		}
	}
	return nil
}
