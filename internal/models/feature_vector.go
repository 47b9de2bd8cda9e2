// ABOUTME: FeatureVector is the fixed-schema semantic descriptor for one audio clip
// ABOUTME: Defines the ten feature keys, nested records, and range validation
package models

import (
	"errors"
	"fmt"
	"math"
)

// FeatureKey names one slot in the descriptor schema. The set of legal
// keys is closed; anything else is a programming error.
type FeatureKey string

const (
	KeyEmotionalValence   FeatureKey = "emotional_valence"
	KeyEnergyLevel        FeatureKey = "energy_level"
	KeyTemporalComplexity FeatureKey = "temporal_complexity"
	KeyHarmonicRichness   FeatureKey = "harmonic_richness"
	KeySpectralTrajectory FeatureKey = "spectral_trajectory"
	KeyTexturalDensity    FeatureKey = "textural_density"
	KeySpatialOpenness    FeatureKey = "spatial_openness"
	KeyTimbreVector       FeatureKey = "timbre_vector"
	KeyOnsetPattern       FeatureKey = "onset_pattern"
	KeyPitchProfile       FeatureKey = "pitch_profile"
)

// TimbreCoefficients is the fixed length of a timbre vector.
const TimbreCoefficients = 13

// ScalarKeys returns the scalar feature keys in canonical order.
func ScalarKeys() []FeatureKey {
	return []FeatureKey{
		KeyEmotionalValence,
		KeyEnergyLevel,
		KeyTemporalComplexity,
		KeyHarmonicRichness,
		KeySpectralTrajectory,
		KeyTexturalDensity,
		KeySpatialOpenness,
	}
}

// AllKeys returns every feature key in canonical order.
func AllKeys() []FeatureKey {
	return append(ScalarKeys(), KeyTimbreVector, KeyOnsetPattern, KeyPitchProfile)
}

// PitchProfile summarizes the dominant-pitch statistics of a clip.
// An unpitched clip carries an all-zero record, not a missing one.
type PitchProfile struct {
	MeanPitch     float64 `json:"mean_pitch"`
	PitchRange    float64 `json:"pitch_range"`
	PitchVariance float64 `json:"pitch_variance"`
}

// OnsetPattern summarizes onset timing. Inter-onset intervals are
// measured in analysis frames; fewer than two onsets leaves the IOI
// statistics at zero while NumOnsets reports the actual count.
type OnsetPattern struct {
	MeanIOI     float64 `json:"mean_ioi"`
	IOIVariance float64 `json:"ioi_variance"`
	NumOnsets   float64 `json:"num_onsets"`
}

// FeatureVector holds the semantic descriptor for one clip or one
// blended scene. Scalar fields are pointers so that an absent feature
// is distinguishable from a zero value; absent keys are simply omitted
// from aggregation.
type FeatureVector struct {
	EmotionalValence   *float64      `json:"emotional_valence,omitempty"`
	EnergyLevel        *float64      `json:"energy_level,omitempty"`
	TemporalComplexity *float64      `json:"temporal_complexity,omitempty"`
	HarmonicRichness   *float64      `json:"harmonic_richness,omitempty"`
	SpectralTrajectory *float64      `json:"spectral_trajectory,omitempty"`
	TexturalDensity    *float64      `json:"textural_density,omitempty"`
	SpatialOpenness    *float64      `json:"spatial_openness,omitempty"`
	TimbreVector       []float64     `json:"timbre_vector,omitempty"`
	OnsetPattern       *OnsetPattern `json:"onset_pattern,omitempty"`
	PitchProfile       *PitchProfile `json:"pitch_profile,omitempty"`
}

// Scalar returns the value for a scalar key and whether it is present.
func (fv *FeatureVector) Scalar(key FeatureKey) (float64, bool) {
	p := fv.scalarField(key)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// ScalarOr returns the value for a scalar key, or def when absent.
func (fv *FeatureVector) ScalarOr(key FeatureKey, def float64) float64 {
	if v, ok := fv.Scalar(key); ok {
		return v
	}
	return def
}

// SetScalar stores a value under a scalar key. Non-scalar keys are
// rejected so aggregation code cannot silently misfile a record.
func (fv *FeatureVector) SetScalar(key FeatureKey, value float64) error {
	p := fv.scalarField(key)
	if p == nil {
		return fmt.Errorf("feature key %q is not scalar", key)
	}
	v := value
	*p = &v
	return nil
}

func (fv *FeatureVector) scalarField(key FeatureKey) **float64 {
	switch key {
	case KeyEmotionalValence:
		return &fv.EmotionalValence
	case KeyEnergyLevel:
		return &fv.EnergyLevel
	case KeyTemporalComplexity:
		return &fv.TemporalComplexity
	case KeyHarmonicRichness:
		return &fv.HarmonicRichness
	case KeySpectralTrajectory:
		return &fv.SpectralTrajectory
	case KeyTexturalDensity:
		return &fv.TexturalDensity
	case KeySpatialOpenness:
		return &fv.SpatialOpenness
	default:
		return nil
	}
}

// Clone returns a deep copy. Mutating the copy never touches the
// original's slices or records.
func (fv *FeatureVector) Clone() *FeatureVector {
	if fv == nil {
		return nil
	}
	out := &FeatureVector{}
	for _, key := range ScalarKeys() {
		if v, ok := fv.Scalar(key); ok {
			out.SetScalar(key, v)
		}
	}
	if fv.TimbreVector != nil {
		out.TimbreVector = make([]float64, len(fv.TimbreVector))
		copy(out.TimbreVector, fv.TimbreVector)
	}
	if fv.OnsetPattern != nil {
		op := *fv.OnsetPattern
		out.OnsetPattern = &op
	}
	if fv.PitchProfile != nil {
		pp := *fv.PitchProfile
		out.PitchProfile = &pp
	}
	return out
}

// Validate checks every present field against its documented range.
// An empty vector is valid; a vector with any non-finite or
// out-of-range value is not.
func (fv *FeatureVector) Validate() error {
	if fv == nil {
		return errors.New("feature vector is nil")
	}
	checks := []struct {
		key    FeatureKey
		lo, hi float64
	}{
		{KeyEmotionalValence, -1, 1},
		{KeyTemporalComplexity, 0, 1},
		{KeyHarmonicRichness, 0, 1},
		{KeySpectralTrajectory, -1, 1},
		{KeyTexturalDensity, 0, 1},
		{KeySpatialOpenness, 0, 1},
	}
	for _, c := range checks {
		v, ok := fv.Scalar(c.key)
		if !ok {
			continue
		}
		if err := checkRange(c.key, v, c.lo, c.hi); err != nil {
			return err
		}
	}
	// Energy is unnormalized: bounded below only.
	if v, ok := fv.Scalar(KeyEnergyLevel); ok {
		if err := checkRange(KeyEnergyLevel, v, 0, math.Inf(1)); err != nil {
			return err
		}
	}
	if fv.TimbreVector != nil {
		if len(fv.TimbreVector) != TimbreCoefficients {
			return fmt.Errorf("timbre_vector has %d coefficients, want %d", len(fv.TimbreVector), TimbreCoefficients)
		}
		for i, v := range fv.TimbreVector {
			if !isFinite(v) {
				return fmt.Errorf("timbre_vector[%d] is not finite", i)
			}
		}
	}
	if op := fv.OnsetPattern; op != nil {
		for _, f := range []struct {
			name string
			v    float64
		}{
			{"onset_pattern.mean_ioi", op.MeanIOI},
			{"onset_pattern.ioi_variance", op.IOIVariance},
			{"onset_pattern.num_onsets", op.NumOnsets},
		} {
			if err := checkRange(FeatureKey(f.name), f.v, 0, math.Inf(1)); err != nil {
				return err
			}
		}
	}
	if pp := fv.PitchProfile; pp != nil {
		for _, f := range []struct {
			name string
			v    float64
		}{
			{"pitch_profile.mean_pitch", pp.MeanPitch},
			{"pitch_profile.pitch_range", pp.PitchRange},
			{"pitch_profile.pitch_variance", pp.PitchVariance},
		} {
			if err := checkRange(FeatureKey(f.name), f.v, 0, math.Inf(1)); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkRange(key FeatureKey, v, lo, hi float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%s is not finite", key)
	}
	if v < lo || v > hi {
		return fmt.Errorf("%s = %v outside [%v, %v]", key, v, lo, hi)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Float64Ptr returns a pointer to v. Convenience for building vectors
// literally in callers and tests.
func Float64Ptr(v float64) *float64 {
	return &v
}
