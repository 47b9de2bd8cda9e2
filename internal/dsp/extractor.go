// ABOUTME: Extractor turns a raw waveform into the fixed-schema descriptor
// ABOUTME: Pure computation; silence and other degenerate inputs yield defined values
package dsp

import (
	"errors"
	"fmt"
	"math"

	"github.com/malbsmeyer/equivocal/internal/models"
)

// ErrInvalidAudio rejects input the extractor cannot analyze: empty
// waveforms, non-finite samples, or a nonpositive sample rate.
// Degenerate but analyzable audio (silence, constant DC) is not an
// error.
var ErrInvalidAudio = errors.New("invalid audio")

// Extractor computes semantic descriptors from mono waveforms. Safe
// for concurrent use.
type Extractor struct {
	frameSize int
	hopSize   int
}

// NewExtractor returns an Extractor with the standard analysis frame
// geometry.
func NewExtractor() *Extractor {
	return &Extractor{frameSize: DefaultFrameSize, hopSize: DefaultHopSize}
}

// Extract analyzes a mono waveform and returns its descriptor. Every
// feature key is populated; degenerate signals produce the documented
// neutral values rather than errors.
func (e *Extractor) Extract(samples []float64, sampleRate int) (*models.FeatureVector, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty waveform", ErrInvalidAudio)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidAudio, sampleRate)
	}
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite sample at index %d", ErrInvalidAudio, i)
		}
	}

	frames := frameSignal(samples, e.frameSize, e.hopSize)
	spec := computeSpectrogram(frames, sampleRate, e.frameSize, e.hopSize)

	chroma := chromaProfile(spec)
	valence := math.Tanh(chroma[4] - chroma[3])

	energy := mean(frameRMS(frames))

	env := onsetEnvelope(spec)
	complexity := normalizedEntropy(env)

	richness := harmonicEnergyRatio(spec)

	centroids := spectralCentroids(spec)
	trajectory := math.Tanh(centroidSlope(centroids) / 100)

	density := clamp(1-mean(spectralFlatness(spec)), 0, 1)

	rolloffs := spectralRolloffs(spec, 0.85)
	zcr := frameZeroCrossingRate(frames)
	openness := clamp(mean(rolloffs)/spec.Nyquist()+mean(zcr), 0, 1)

	timbre := timbreVector(spec, models.TimbreCoefficients)

	onsets := pickOnsets(env)
	iois := interOnsetIntervals(onsets)
	onsetPattern := &models.OnsetPattern{
		MeanIOI:     mean(iois),
		IOIVariance: popVariance(iois),
		NumOnsets:   float64(len(onsets)),
	}

	pitchProfile := &models.PitchProfile{}
	if pitches := pitchTrack(spec); len(pitches) > 0 {
		minPitch, maxPitch := pitches[0], pitches[0]
		for _, p := range pitches {
			if p < minPitch {
				minPitch = p
			}
			if p > maxPitch {
				maxPitch = p
			}
		}
		pitchProfile.MeanPitch = mean(pitches)
		pitchProfile.PitchRange = maxPitch - minPitch
		pitchProfile.PitchVariance = popVariance(pitches)
	}

	fv := &models.FeatureVector{
		EmotionalValence:   models.Float64Ptr(valence),
		EnergyLevel:        models.Float64Ptr(energy),
		TemporalComplexity: models.Float64Ptr(complexity),
		HarmonicRichness:   models.Float64Ptr(richness),
		SpectralTrajectory: models.Float64Ptr(trajectory),
		TexturalDensity:    models.Float64Ptr(density),
		SpatialOpenness:    models.Float64Ptr(openness),
		TimbreVector:       timbre,
		OnsetPattern:       onsetPattern,
		PitchProfile:       pitchProfile,
	}
	if err := fv.Validate(); err != nil {
		return nil, fmt.Errorf("extraction produced invalid descriptor: %w", err)
	}
	return fv, nil
}
