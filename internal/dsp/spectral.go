// ABOUTME: Per-frame spectral and time-domain statistics
// ABOUTME: RMS, zero crossings, centroid, rolloff, and flatness
package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// flatnessFloor keeps the geometric mean defined on silent frames.
const flatnessFloor = 1e-10

// frameRMS returns the root-mean-square level of each time-domain frame.
func frameRMS(frames [][]float64) []float64 {
	out := make([]float64, len(frames))
	for i, frame := range frames {
		var sum float64
		for _, v := range frame {
			sum += v * v
		}
		out[i] = math.Sqrt(sum / float64(len(frame)))
	}
	return out
}

// frameZeroCrossingRate returns the fraction of sign changes per frame.
func frameZeroCrossingRate(frames [][]float64) []float64 {
	out := make([]float64, len(frames))
	for i, frame := range frames {
		crossings := 0
		for j := 1; j < len(frame); j++ {
			if (frame[j] >= 0) != (frame[j-1] >= 0) {
				crossings++
			}
		}
		out[i] = float64(crossings) / float64(len(frame))
	}
	return out
}

// spectralCentroids returns the magnitude-weighted mean frequency of
// each frame in Hz. Silent frames report 0.
func spectralCentroids(spec *Spectrogram) []float64 {
	out := make([]float64, spec.NumFrames())
	for i, row := range spec.Mag {
		total := floats.Sum(row)
		if total <= 0 {
			continue
		}
		var weighted float64
		for k, m := range row {
			weighted += spec.BinFreq(k) * m
		}
		out[i] = weighted / total
	}
	return out
}

// spectralRolloffs returns, per frame, the lowest frequency below which
// the given fraction of the total magnitude lies. Silent frames report 0.
func spectralRolloffs(spec *Spectrogram, fraction float64) []float64 {
	out := make([]float64, spec.NumFrames())
	for i, row := range spec.Mag {
		total := floats.Sum(row)
		if total <= 0 {
			continue
		}
		target := fraction * total
		var cum float64
		for k, m := range row {
			cum += m
			if cum >= target {
				out[i] = spec.BinFreq(k)
				break
			}
		}
	}
	return out
}

// spectralFlatness returns the geometric-to-arithmetic mean ratio of
// each frame's power spectrum. Silence floors to all-equal power and
// therefore reports a flatness of 1.
func spectralFlatness(spec *Spectrogram) []float64 {
	out := make([]float64, spec.NumFrames())
	for i, row := range spec.Mag {
		var logSum, sum float64
		for _, m := range row {
			p := m * m
			if p < flatnessFloor {
				p = flatnessFloor
			}
			logSum += math.Log(p)
			sum += p
		}
		n := float64(len(row))
		geo := math.Exp(logSum / n)
		arith := sum / n
		out[i] = geo / arith
	}
	return out
}

// centroidSlope fits a least-squares line through the per-frame
// centroids and returns its slope in Hz per frame. Fewer than two
// frames yield 0.
func centroidSlope(centroids []float64) float64 {
	if len(centroids) < 2 {
		return 0
	}
	xs := make([]float64, len(centroids))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, centroids, nil, false)
	return beta
}

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return stat.Mean(s, nil)
}

// popVariance returns the population variance (no Bessel correction),
// or 0 for an empty slice.
func popVariance(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return stat.MomentAbout(2, s, stat.Mean(s, nil), nil)
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
