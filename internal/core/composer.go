// ABOUTME: SceneComposer blends trained prototypes into scene descriptors
// ABOUTME: Resolves free-text prompts to weighted categories via the semantic map
package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/malbsmeyer/equivocal/internal/models"
	"github.com/malbsmeyer/equivocal/internal/storage"
)

// ErrUnknownCategory reports a blend request naming an untrained
// category.
var ErrUnknownCategory = errors.New("unknown category")

// WeightedCategory is one resolved component of a prompt.
type WeightedCategory struct {
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
}

// SceneComposer builds scene descriptors from the model store and a
// semantic map.
type SceneComposer struct {
	store *storage.ModelStore
	smap  *SemanticMap
}

// NewSceneComposer creates a new SceneComposer instance
func NewSceneComposer(store *storage.ModelStore, smap *SemanticMap) *SceneComposer {
	return &SceneComposer{store: store, smap: smap}
}

// Blend computes the weighted key-wise mean of the named prototypes.
// A nil weights slice means uniform. Each key averages over only the
// prototypes that define it, with their weights renormalized over that
// subset; a key defined by a single prototype copies its value
// exactly.
func (c *SceneComposer) Blend(categories []string, weights []float64) (*models.FeatureVector, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories to blend")
	}
	if weights == nil {
		weights = make([]float64, len(categories))
		for i := range weights {
			weights[i] = 1.0 / float64(len(categories))
		}
	}
	if len(weights) != len(categories) {
		return nil, fmt.Errorf("got %d weights for %d categories", len(weights), len(categories))
	}
	var total float64
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight %v for category %q", w, categories[i])
		}
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("weights sum to zero")
	}

	protos := make([]*models.Prototype, len(categories))
	for i, name := range categories {
		p, err := c.store.Get(name)
		if err != nil {
			if errors.Is(err, storage.ErrCategoryNotFound) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
			}
			return nil, err
		}
		protos[i] = p
	}

	out := &models.FeatureVector{}

	for _, key := range models.ScalarKeys() {
		var weighted, weightSum float64
		var single *float64
		defining := 0
		for i, p := range protos {
			v, ok := p.Features.Scalar(key)
			if !ok {
				continue
			}
			weighted += weights[i] * v
			weightSum += weights[i]
			vv := v
			single = &vv
			defining++
		}
		switch {
		case defining == 1:
			out.SetScalar(key, *single)
		case defining > 1 && weightSum > 0:
			out.SetScalar(key, weighted/weightSum)
		}
	}

	if err := blendTimbre(out, protos, weights); err != nil {
		return nil, err
	}
	blendOnset(out, protos, weights)
	blendPitch(out, protos, weights)

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("blend produced invalid descriptor: %w", err)
	}
	return out, nil
}

func blendTimbre(out *models.FeatureVector, protos []*models.Prototype, weights []float64) error {
	var sum []float64
	var weightSum float64
	var single []float64
	defining := 0
	for i, p := range protos {
		tv := p.Features.TimbreVector
		if tv == nil {
			continue
		}
		if len(tv) != models.TimbreCoefficients {
			return fmt.Errorf("prototype %q has timbre length %d", p.Category, len(tv))
		}
		if sum == nil {
			sum = make([]float64, models.TimbreCoefficients)
		}
		for j, v := range tv {
			sum[j] += weights[i] * v
		}
		weightSum += weights[i]
		single = tv
		defining++
	}
	switch {
	case defining == 1:
		out.TimbreVector = append([]float64(nil), single...)
	case defining > 1 && weightSum > 0:
		for j := range sum {
			sum[j] /= weightSum
		}
		out.TimbreVector = sum
	}
	return nil
}

func blendOnset(out *models.FeatureVector, protos []*models.Prototype, weights []float64) {
	var acc models.OnsetPattern
	var weightSum float64
	var single *models.OnsetPattern
	defining := 0
	for i, p := range protos {
		op := p.Features.OnsetPattern
		if op == nil {
			continue
		}
		acc.MeanIOI += weights[i] * op.MeanIOI
		acc.IOIVariance += weights[i] * op.IOIVariance
		acc.NumOnsets += weights[i] * op.NumOnsets
		weightSum += weights[i]
		single = op
		defining++
	}
	switch {
	case defining == 1:
		cp := *single
		out.OnsetPattern = &cp
	case defining > 1 && weightSum > 0:
		acc.MeanIOI /= weightSum
		acc.IOIVariance /= weightSum
		acc.NumOnsets /= weightSum
		out.OnsetPattern = &acc
	}
}

func blendPitch(out *models.FeatureVector, protos []*models.Prototype, weights []float64) {
	var acc models.PitchProfile
	var weightSum float64
	var single *models.PitchProfile
	defining := 0
	for i, p := range protos {
		pp := p.Features.PitchProfile
		if pp == nil {
			continue
		}
		acc.MeanPitch += weights[i] * pp.MeanPitch
		acc.PitchRange += weights[i] * pp.PitchRange
		acc.PitchVariance += weights[i] * pp.PitchVariance
		weightSum += weights[i]
		single = pp
		defining++
	}
	switch {
	case defining == 1:
		cp := *single
		out.PitchProfile = &cp
	case defining > 1 && weightSum > 0:
		acc.MeanPitch /= weightSum
		acc.PitchRange /= weightSum
		acc.PitchVariance /= weightSum
		out.PitchProfile = &acc
	}
}

// ResolveText maps a free-text prompt to weighted trained categories.
// Never fails: prompts that match nothing fall back to the map's
// default categories, and an empty result means the store itself is
// empty. Deterministic for a fixed map and store snapshot.
func (c *SceneComposer) ResolveText(prompt string) []WeightedCategory {
	trained := c.store.Categories()
	if len(trained) == 0 {
		return nil
	}

	counts := make(map[string]float64)
	tokens := tokenize(prompt)

	i := 0
	for i < len(tokens) {
		matched := 0
		// Longest phrase first so "coffee shop" wins over "coffee".
		for n := c.smap.MaxPhraseLen(); n >= 1; n-- {
			if i+n > len(tokens) {
				continue
			}
			phrase := strings.Join(tokens[i:i+n], " ")
			cats, ok := c.smap.Categories(phrase)
			if !ok {
				continue
			}
			for _, cat := range cats {
				if c.store.Has(cat) {
					counts[cat]++
				}
			}
			matched = n
			break
		}
		if matched > 0 {
			i += matched
			continue
		}
		// Fallback: substring match against trained category names.
		for _, name := range trained {
			if strings.Contains(name, tokens[i]) {
				counts[name]++
			}
		}
		i++
	}

	if len(counts) == 0 {
		for _, cat := range c.smap.Defaults() {
			if c.store.Has(cat) {
				counts[cat] = 1
			}
		}
	}
	if len(counts) == 0 {
		for _, cat := range trained {
			counts[cat] = 1
		}
	}

	var total float64
	for _, n := range counts {
		total += n
	}
	out := make([]WeightedCategory, 0, len(counts))
	for cat, n := range counts {
		out = append(out, WeightedCategory{Category: cat, Weight: n / total})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Weight != out[b].Weight {
			return out[a].Weight > out[b].Weight
		}
		return out[a].Category < out[b].Category
	})
	return out
}

// GenerateSceneFromText resolves a prompt and blends the result into a
// scene.
func (c *SceneComposer) GenerateSceneFromText(prompt string) (*models.Scene, error) {
	resolved := c.ResolveText(prompt)
	if len(resolved) == 0 {
		return nil, fmt.Errorf("no trained categories to compose from")
	}

	categories := make([]string, len(resolved))
	weights := make([]float64, len(resolved))
	components := make([]models.SceneComponent, len(resolved))
	for i, wc := range resolved {
		categories[i] = wc.Category
		weights[i] = wc.Weight
		components[i] = models.SceneComponent{Category: wc.Category, Weight: wc.Weight}
	}

	blended, err := c.Blend(categories, weights)
	if err != nil {
		return nil, fmt.Errorf("failed to blend %q: %w", prompt, err)
	}
	return models.NewScene(prompt, components, blended)
}

// tokenize lowercases a prompt and splits it on anything that is not a
// letter or digit.
func tokenize(prompt string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, prompt)
	return strings.Fields(cleaned)
}
