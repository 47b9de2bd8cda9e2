// ABOUTME: PrototypeTrainer averages sample descriptors into category prototypes
// ABOUTME: Key-wise mean; keys absent from every sample stay absent
package core

import (
	"errors"
	"fmt"

	"github.com/malbsmeyer/equivocal/internal/models"
)

// ErrEmptyTrainingSet rejects training a category with no usable
// sample descriptors.
var ErrEmptyTrainingSet = errors.New("empty training set")

// PrototypeTrainer builds prototypes from per-sample feature vectors.
type PrototypeTrainer struct{}

// NewPrototypeTrainer creates a new PrototypeTrainer instance
func NewPrototypeTrainer() *PrototypeTrainer {
	return &PrototypeTrainer{}
}

// Train averages the samples into a prototype for the category. Each
// key is averaged over the samples that define it, so a key missing
// from some samples still contributes from the rest; a key missing
// from every sample is omitted. The result does not depend on sample
// order beyond float rounding.
func (t *PrototypeTrainer) Train(category string, samples []*models.FeatureVector) (*models.Prototype, error) {
	valid := make([]*models.FeatureVector, 0, len(samples))
	for _, s := range samples {
		if s != nil {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w for category %q", ErrEmptyTrainingSet, category)
	}

	avg := &models.FeatureVector{}

	for _, key := range models.ScalarKeys() {
		var sum float64
		var n int
		for _, s := range valid {
			if v, ok := s.Scalar(key); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			avg.SetScalar(key, sum/float64(n))
		}
	}

	// Timbre vectors average element-wise.
	var timbreSum []float64
	timbreN := 0
	for _, s := range valid {
		if len(s.TimbreVector) != models.TimbreCoefficients {
			continue
		}
		if timbreSum == nil {
			timbreSum = make([]float64, models.TimbreCoefficients)
		}
		for i, v := range s.TimbreVector {
			timbreSum[i] += v
		}
		timbreN++
	}
	if timbreN > 0 {
		for i := range timbreSum {
			timbreSum[i] /= float64(timbreN)
		}
		avg.TimbreVector = timbreSum
	}

	// Nested records average field-wise over the samples carrying them.
	var onset models.OnsetPattern
	onsetN := 0
	for _, s := range valid {
		if s.OnsetPattern == nil {
			continue
		}
		onset.MeanIOI += s.OnsetPattern.MeanIOI
		onset.IOIVariance += s.OnsetPattern.IOIVariance
		onset.NumOnsets += s.OnsetPattern.NumOnsets
		onsetN++
	}
	if onsetN > 0 {
		onset.MeanIOI /= float64(onsetN)
		onset.IOIVariance /= float64(onsetN)
		onset.NumOnsets /= float64(onsetN)
		avg.OnsetPattern = &onset
	}

	var pitch models.PitchProfile
	pitchN := 0
	for _, s := range valid {
		if s.PitchProfile == nil {
			continue
		}
		pitch.MeanPitch += s.PitchProfile.MeanPitch
		pitch.PitchRange += s.PitchProfile.PitchRange
		pitch.PitchVariance += s.PitchProfile.PitchVariance
		pitchN++
	}
	if pitchN > 0 {
		pitch.MeanPitch /= float64(pitchN)
		pitch.PitchRange /= float64(pitchN)
		pitch.PitchVariance /= float64(pitchN)
		avg.PitchProfile = &pitch
	}

	return models.NewPrototype(category, avg, len(valid))
}
