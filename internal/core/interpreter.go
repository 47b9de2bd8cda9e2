// ABOUTME: Interpreter translates a blended descriptor into qualitative labels
// ABOUTME: Fixed thresholds per aspect; absent features read as zero
package core

import (
	"github.com/malbsmeyer/equivocal/internal/models"
)

// Aspect thresholds. Comparisons are strict, so a value exactly on a
// boundary takes the lower label.
const (
	moodPositiveAbove     = 0.3
	moodNegativeBelow     = -0.3
	energyHighAbove       = 0.15
	energyMediumAbove     = 0.05
	patternComplexAbove   = 0.5
	characterTonalAbove   = 0.6
	characterMixedAbove   = 0.3
	evolutionRisingAbove  = 0.1
	evolutionFallingBelow = -0.1
	textureDenseAbove     = 0.6
	textureModerateAbove  = 0.3
	spaceOpenAbove        = 0.6
	spaceMediumAbove      = 0.3
)

// Interpreter reads descriptors into the seven-aspect vocabulary.
type Interpreter struct{}

// NewInterpreter creates a new Interpreter instance
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// ListenInternal interprets a composed scene without rendering any
// audio. Total: a nil scene or missing features interpret as silence.
func (in *Interpreter) ListenInternal(scene *models.Scene) models.Interpretation {
	if scene == nil || scene.Features == nil {
		return in.Interpret(&models.FeatureVector{})
	}
	return in.Interpret(scene.Features)
}

// Interpret labels each aspect of a descriptor. Deterministic: equal
// input always yields equal output.
func (in *Interpreter) Interpret(fv *models.FeatureVector) models.Interpretation {
	if fv == nil {
		fv = &models.FeatureVector{}
	}
	var out models.Interpretation

	valence := fv.ScalarOr(models.KeyEmotionalValence, 0)
	switch {
	case valence > moodPositiveAbove:
		out.Mood = "positive/uplifting"
	case valence < moodNegativeBelow:
		out.Mood = "negative/melancholic"
	default:
		out.Mood = "neutral/ambient"
	}

	energy := fv.ScalarOr(models.KeyEnergyLevel, 0)
	switch {
	case energy > energyHighAbove:
		out.Energy = "high (active/intense)"
	case energy > energyMediumAbove:
		out.Energy = "medium (moderate)"
	default:
		out.Energy = "low (calm/quiet)"
	}

	complexity := fv.ScalarOr(models.KeyTemporalComplexity, 0)
	if complexity > patternComplexAbove {
		out.Pattern = "complex/unpredictable"
	} else {
		out.Pattern = "simple/regular"
	}

	harmonic := fv.ScalarOr(models.KeyHarmonicRichness, 0)
	switch {
	case harmonic > characterTonalAbove:
		out.Character = "tonal/melodic"
	case harmonic > characterMixedAbove:
		out.Character = "mixed (tonal + noise)"
	default:
		out.Character = "noisy/percussive"
	}

	motion := fv.ScalarOr(models.KeySpectralTrajectory, 0)
	switch {
	case motion > evolutionRisingAbove:
		out.Evolution = "brightening (rising energy)"
	case motion < evolutionFallingBelow:
		out.Evolution = "darkening (falling energy)"
	default:
		out.Evolution = "stable (unchanging)"
	}

	texture := fv.ScalarOr(models.KeyTexturalDensity, 0)
	switch {
	case texture > textureDenseAbove:
		out.Texture = "dense/rich (many layers)"
	case texture > textureModerateAbove:
		out.Texture = "moderate"
	default:
		out.Texture = "sparse/simple (few elements)"
	}

	space := fv.ScalarOr(models.KeySpatialOpenness, 0)
	switch {
	case space > spaceOpenAbove:
		out.Space = "open/expansive (outdoor feeling)"
	case space > spaceMediumAbove:
		out.Space = "medium"
	default:
		out.Space = "enclosed/intimate (indoor feeling)"
	}

	return out
}
