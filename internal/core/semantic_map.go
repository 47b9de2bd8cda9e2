// ABOUTME: SemanticMap links prompt vocabulary to sound categories
// ABOUTME: Ships an editable YAML default; terms may span multiple words
package core

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// semanticMapVersion is the supported map document version.
const semanticMapVersion = 1

// SemanticMapDocument is the YAML shape of a semantic map.
type SemanticMapDocument struct {
	Version           int                 `yaml:"version"`
	DefaultCategories []string            `yaml:"default_categories"`
	Terms             map[string][]string `yaml:"terms"`
}

// SemanticMap resolves lowercase terms and phrases to the sound
// categories they suggest. Immutable after construction.
type SemanticMap struct {
	terms        map[string][]string
	defaults     []string
	maxPhraseLen int
}

// NewSemanticMap builds a SemanticMap from a parsed document. Term keys
// are lowercased; empty terms or category lists are rejected.
func NewSemanticMap(doc *SemanticMapDocument) (*SemanticMap, error) {
	if doc == nil {
		return nil, fmt.Errorf("semantic map document is nil")
	}
	if doc.Version != semanticMapVersion {
		return nil, fmt.Errorf("unsupported semantic map version %d, want %d", doc.Version, semanticMapVersion)
	}
	if len(doc.Terms) == 0 {
		return nil, fmt.Errorf("semantic map has no terms")
	}

	m := &SemanticMap{
		terms:    make(map[string][]string, len(doc.Terms)),
		defaults: make([]string, 0, len(doc.DefaultCategories)),
	}
	for term, categories := range doc.Terms {
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" {
			return nil, fmt.Errorf("semantic map contains an empty term")
		}
		if len(categories) == 0 {
			return nil, fmt.Errorf("semantic map term %q lists no categories", term)
		}
		cats := make([]string, len(categories))
		for i, c := range categories {
			c = strings.TrimSpace(c)
			if c == "" {
				return nil, fmt.Errorf("semantic map term %q has an empty category", term)
			}
			cats[i] = c
		}
		m.terms[key] = cats
		if n := len(strings.Fields(key)); n > m.maxPhraseLen {
			m.maxPhraseLen = n
		}
	}
	for _, c := range doc.DefaultCategories {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, fmt.Errorf("semantic map lists an empty default category")
		}
		m.defaults = append(m.defaults, c)
	}
	return m, nil
}

// DefaultSemanticMap parses the built-in vocabulary.
func DefaultSemanticMap() (*SemanticMap, error) {
	var doc SemanticMapDocument
	if err := yaml.Unmarshal([]byte(defaultSemanticMapYAML), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse built-in semantic map: %w", err)
	}
	return NewSemanticMap(&doc)
}

// LoadSemanticMap reads a map document from a YAML file.
func LoadSemanticMap(path string) (*SemanticMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read semantic map: %w", err)
	}
	var doc SemanticMapDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse semantic map %s: %w", path, err)
	}
	m, err := NewSemanticMap(&doc)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic map %s: %w", path, err)
	}
	return m, nil
}

// DefaultSemanticMapYAML returns the built-in map document for writing
// out as an editable starting point.
func DefaultSemanticMapYAML() string {
	return defaultSemanticMapYAML
}

// Categories returns the category list for an exact lowercase term.
func (m *SemanticMap) Categories(term string) ([]string, bool) {
	cats, ok := m.terms[term]
	if !ok {
		return nil, false
	}
	out := make([]string, len(cats))
	copy(out, cats)
	return out, true
}

// Defaults returns the fallback categories used when a prompt matches
// nothing.
func (m *SemanticMap) Defaults() []string {
	out := make([]string, len(m.defaults))
	copy(out, m.defaults)
	return out
}

// MaxPhraseLen returns the word count of the longest term.
func (m *SemanticMap) MaxPhraseLen() int { return m.maxPhraseLen }

// Terms returns every known term, sorted.
func (m *SemanticMap) Terms() []string {
	out := make([]string, 0, len(m.terms))
	for term := range m.terms {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// defaultSemanticMapYAML is the vocabulary shipped with the model.
const defaultSemanticMapYAML = `version: 1

default_categories:
  - cafe_ambience
  - forest_ambience
  - underwater_ambience

terms:
  # Environments
  cafe: [cafe_ambience, cafe_chatter, espresso_machine]
  coffee: [cafe_ambience, espresso_machine]
  coffeeshop: [cafe_ambience, cafe_chatter, espresso_machine]
  coffee shop: [cafe_ambience, cafe_chatter, espresso_machine]
  restaurant: [cafe_ambience, cafe_chatter]
  indoor: [cafe_ambience]
  inside: [cafe_ambience]

  forest: [forest_ambience, bird_chirp]
  woods: [forest_ambience, bird_chirp]
  trees: [forest_ambience]
  nature: [forest_ambience, bird_chirp]
  outdoor: [forest_ambience]
  outside: [forest_ambience]
  wind: [forest_ambience]
  breeze: [forest_ambience]
  leaves: [forest_ambience]

  underwater: [underwater_ambience, whale_song, dolphin_clicks]
  under water: [underwater_ambience, whale_song, dolphin_clicks]
  ocean: [underwater_ambience, whale_song, dolphin_clicks]
  sea: [underwater_ambience, whale_song]
  aquatic: [underwater_ambience, whale_song, dolphin_clicks]
  deep: [underwater_ambience, whale_song]
  water: [underwater_ambience]
  marine: [underwater_ambience, whale_song, dolphin_clicks]

  # Animals
  whale: [whale_song]
  whales: [whale_song]
  humpback: [whale_song]
  dolphin: [dolphin_clicks]
  dolphins: [dolphin_clicks]
  seal: [sealion_shrimp]
  sealion: [sealion_shrimp]
  sea lion: [sealion_shrimp]
  bird: [bird_chirp]
  birds: [bird_chirp]
  chirp: [bird_chirp]
  chirping: [bird_chirp]
  singing: [bird_chirp, whale_song]
  song: [bird_chirp, whale_song]

  # Events
  thunder: [thunder]
  thunderstorm: [thunder, forest_ambience]
  storm: [thunder, forest_ambience]
  lightning: [thunder]
  rain: [forest_ambience]
  raining: [forest_ambience]
  espresso: [espresso_machine]
  steam: [espresso_machine]
  hiss: [espresso_machine]
  machine: [espresso_machine]
  brewing: [espresso_machine]
  chatter: [cafe_chatter]
  talking: [cafe_chatter]
  conversation: [cafe_chatter]
  voices: [cafe_chatter]
  people: [cafe_chatter]
  crowd: [cafe_chatter]
  clicks: [dolphin_clicks]
  clicking: [dolphin_clicks]
  echolocation: [dolphin_clicks]

  # Qualities
  peaceful: [underwater_ambience, forest_ambience]
  calm: [forest_ambience, underwater_ambience]
  quiet: [forest_ambience, underwater_ambience]
  serene: [forest_ambience, underwater_ambience]
  tranquil: [forest_ambience, underwater_ambience]
  busy: [cafe_ambience, cafe_chatter]
  active: [cafe_chatter, bird_chirp]
  lively: [cafe_ambience, cafe_chatter, bird_chirp]
  dramatic: [thunder, whale_song]
  intense: [thunder, whale_song]
  powerful: [thunder, whale_song]
  gentle: [forest_ambience, bird_chirp]
  soft: [forest_ambience]
  loud: [thunder, espresso_machine]
`
