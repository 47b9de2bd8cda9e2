// ABOUTME: Tests for the semantic map vocabulary and its YAML loading
// ABOUTME: Covers the built-in map, validation, and file round-trips
package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultSemanticMap(t *testing.T) {
	m, err := DefaultSemanticMap()
	if err != nil {
		t.Fatalf("DefaultSemanticMap failed: %v", err)
	}

	tests := []struct {
		term string
		want string
	}{
		{term: "cafe", want: "cafe_ambience"},
		{term: "whale", want: "whale_song"},
		{term: "forest", want: "forest_ambience"},
		{term: "ocean", want: "underwater_ambience"},
		{term: "thunder", want: "thunder"},
		{term: "espresso", want: "espresso_machine"},
		{term: "chatter", want: "cafe_chatter"},
		{term: "echolocation", want: "dolphin_clicks"},
		{term: "coffee shop", want: "cafe_ambience"},
		{term: "sea lion", want: "sealion_shrimp"},
		{term: "peaceful", want: "underwater_ambience"},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			cats, ok := m.Categories(tt.term)
			if !ok {
				t.Fatalf("term %q missing from default map", tt.term)
			}
			found := false
			for _, c := range cats {
				if c == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("Categories(%q) = %v, want to include %q", tt.term, cats, tt.want)
			}
		})
	}

	defaults := m.Defaults()
	wantDefaults := []string{"cafe_ambience", "forest_ambience", "underwater_ambience"}
	if len(defaults) != len(wantDefaults) {
		t.Fatalf("Defaults() = %v, want %v", defaults, wantDefaults)
	}
	for i, d := range wantDefaults {
		if defaults[i] != d {
			t.Errorf("Defaults()[%d] = %q, want %q", i, defaults[i], d)
		}
	}

	if m.MaxPhraseLen() < 2 {
		t.Errorf("MaxPhraseLen() = %d, want at least 2 for multi-word terms", m.MaxPhraseLen())
	}
}

func TestNewSemanticMap_Validation(t *testing.T) {
	tests := []struct {
		name    string
		doc     *SemanticMapDocument
		wantErr bool
		errMsg  string
	}{
		{
			name:    "nil document",
			doc:     nil,
			wantErr: true,
			errMsg:  "nil",
		},
		{
			name: "version zero",
			doc: &SemanticMapDocument{
				Version: 0,
				Terms:   map[string][]string{"cafe": {"cafe_ambience"}},
			},
			wantErr: true,
			errMsg:  "unsupported semantic map version",
		},
		{
			name: "future version",
			doc: &SemanticMapDocument{
				Version: 99,
				Terms:   map[string][]string{"cafe": {"cafe_ambience"}},
			},
			wantErr: true,
			errMsg:  "unsupported semantic map version",
		},
		{
			name:    "no terms",
			doc:     &SemanticMapDocument{Version: 1},
			wantErr: true,
			errMsg:  "no terms",
		},
		{
			name: "blank term",
			doc: &SemanticMapDocument{
				Version: 1,
				Terms:   map[string][]string{"  ": {"cafe_ambience"}},
			},
			wantErr: true,
			errMsg:  "empty term",
		},
		{
			name: "term without categories",
			doc: &SemanticMapDocument{
				Version: 1,
				Terms:   map[string][]string{"cafe": {}},
			},
			wantErr: true,
			errMsg:  "lists no categories",
		},
		{
			name: "blank category",
			doc: &SemanticMapDocument{
				Version: 1,
				Terms:   map[string][]string{"cafe": {""}},
			},
			wantErr: true,
			errMsg:  "empty category",
		},
		{
			name: "blank default category",
			doc: &SemanticMapDocument{
				Version:           1,
				DefaultCategories: []string{" "},
				Terms:             map[string][]string{"cafe": {"cafe_ambience"}},
			},
			wantErr: true,
			errMsg:  "empty default category",
		},
		{
			name: "valid minimal",
			doc: &SemanticMapDocument{
				Version: 1,
				Terms:   map[string][]string{"cafe": {"cafe_ambience"}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSemanticMap(tt.doc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSemanticMap_LowercasesTerms(t *testing.T) {
	m, err := NewSemanticMap(&SemanticMapDocument{
		Version: 1,
		Terms:   map[string][]string{"Cafe": {"cafe_ambience"}, " OCEAN ": {"underwater_ambience"}},
	})
	if err != nil {
		t.Fatalf("NewSemanticMap failed: %v", err)
	}

	if _, ok := m.Categories("cafe"); !ok {
		t.Error("lookup of lowercased term should succeed")
	}
	if _, ok := m.Categories("ocean"); !ok {
		t.Error("terms should be trimmed and lowercased")
	}
	if _, ok := m.Categories("Cafe"); ok {
		t.Error("lookup is exact on the lowercased key")
	}
}

func TestSemanticMap_CategoriesReturnsCopy(t *testing.T) {
	m, err := DefaultSemanticMap()
	if err != nil {
		t.Fatalf("DefaultSemanticMap failed: %v", err)
	}

	cats, _ := m.Categories("whale")
	cats[0] = "mutated"

	again, _ := m.Categories("whale")
	if again[0] == "mutated" {
		t.Error("Categories should return a copy, not the internal slice")
	}
}

func TestLoadSemanticMap(t *testing.T) {
	dir := t.TempDir()

	t.Run("round-trips the built-in map", func(t *testing.T) {
		path := filepath.Join(dir, "map.yaml")
		if err := os.WriteFile(path, []byte(DefaultSemanticMapYAML()), 0644); err != nil {
			t.Fatalf("failed to write map: %v", err)
		}

		m, err := LoadSemanticMap(path)
		if err != nil {
			t.Fatalf("LoadSemanticMap failed: %v", err)
		}
		if _, ok := m.Categories("whale"); !ok {
			t.Error("loaded map should contain the built-in terms")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSemanticMap(filepath.Join(dir, "does_not_exist.yaml"))
		if err == nil {
			t.Fatal("expected error for missing file")
		}
		if !strings.Contains(err.Error(), "failed to read semantic map") {
			t.Errorf("error = %q, want read failure", err.Error())
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		if err := os.WriteFile(path, []byte("terms: [unclosed"), 0644); err != nil {
			t.Fatalf("failed to write map: %v", err)
		}
		_, err := LoadSemanticMap(path)
		if err == nil {
			t.Fatal("expected error for malformed yaml")
		}
		if !strings.Contains(err.Error(), "failed to parse semantic map") {
			t.Errorf("error = %q, want parse failure", err.Error())
		}
	})

	t.Run("wrong version", func(t *testing.T) {
		path := filepath.Join(dir, "versioned.yaml")
		content := "version: 7\nterms:\n  cafe: [cafe_ambience]\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write map: %v", err)
		}
		_, err := LoadSemanticMap(path)
		if err == nil {
			t.Fatal("expected error for wrong version")
		}
		if !strings.Contains(err.Error(), "invalid semantic map") {
			t.Errorf("error = %q, want validation failure", err.Error())
		}
	})
}

func TestSemanticMap_Terms(t *testing.T) {
	m, err := DefaultSemanticMap()
	if err != nil {
		t.Fatalf("DefaultSemanticMap failed: %v", err)
	}

	terms := m.Terms()
	if len(terms) == 0 {
		t.Fatal("default map should list its terms")
	}
	for i := 1; i < len(terms); i++ {
		if terms[i-1] > terms[i] {
			t.Fatalf("Terms() not sorted: %q before %q", terms[i-1], terms[i])
		}
	}
	found := false
	for _, term := range terms {
		if term == "coffee shop" {
			found = true
		}
	}
	if !found {
		t.Error("Terms() should include multi-word entries")
	}
}
