// ABOUTME: Onset strength envelope, peak picking, and envelope entropy
// ABOUTME: Feeds temporal complexity and the inter-onset interval pattern
package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Peak picking constants, in frames relative to the candidate.
const (
	onsetPreAvg  = 3
	onsetPostAvg = 5
	onsetDelta   = 0.07
	onsetWait    = 2
)

// onsetEnvelope returns the positive spectral flux per frame. The
// first frame has no predecessor and reports 0.
func onsetEnvelope(spec *Spectrogram) []float64 {
	env := make([]float64, spec.NumFrames())
	for t := 1; t < spec.NumFrames(); t++ {
		var flux float64
		prev, cur := spec.Mag[t-1], spec.Mag[t]
		for k := range cur {
			if d := cur[k] - prev[k]; d > 0 {
				flux += d
			}
		}
		env[t] = flux
	}
	return env
}

// normalizedEntropy returns the Shannon entropy of the envelope treated
// as a probability distribution, divided by log of its length. A flat
// envelope scores 1, a single spike scores 0, and degenerate envelopes
// (empty, single frame, or all zero) score 0.
func normalizedEntropy(env []float64) float64 {
	if len(env) < 2 {
		return 0
	}
	total := floats.Sum(env)
	if total <= 0 {
		return 0
	}
	var entropy float64
	for _, v := range env {
		if v <= 0 {
			continue
		}
		p := v / total
		entropy -= p * math.Log(p)
	}
	return clamp(entropy/math.Log(float64(len(env))), 0, 1)
}

// pickOnsets returns the frame indices of envelope peaks: strict local
// maxima that clear the local average by onsetDelta, at least onsetWait
// frames apart. The envelope is peak-normalized first so the delta is
// scale independent.
func pickOnsets(env []float64) []int {
	if len(env) < 3 {
		return nil
	}
	peak := floats.Max(env)
	if peak <= 0 {
		return nil
	}
	norm := make([]float64, len(env))
	for i, v := range env {
		norm[i] = v / peak
	}

	var onsets []int
	last := -onsetWait - 1
	for t := 1; t < len(norm)-1; t++ {
		if norm[t] <= norm[t-1] || norm[t] < norm[t+1] {
			continue
		}
		lo := t - onsetPreAvg
		if lo < 0 {
			lo = 0
		}
		hi := t + onsetPostAvg + 1
		if hi > len(norm) {
			hi = len(norm)
		}
		if norm[t] < mean(norm[lo:hi])+onsetDelta {
			continue
		}
		if t-last <= onsetWait {
			continue
		}
		onsets = append(onsets, t)
		last = t
	}
	return onsets
}

// interOnsetIntervals returns the gaps between consecutive onsets in
// frames.
func interOnsetIntervals(onsets []int) []float64 {
	if len(onsets) < 2 {
		return nil
	}
	iois := make([]float64, len(onsets)-1)
	for i := 1; i < len(onsets); i++ {
		iois[i-1] = float64(onsets[i] - onsets[i-1])
	}
	return iois
}
