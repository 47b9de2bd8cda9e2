// ABOUTME: Mel filterbank, log compression, and cepstral coefficients
// ABOUTME: Produces the 13-dimensional time-averaged timbre vector
package dsp

import "math"

const (
	melBands = 128
	// melLogTopDB clips log-mel values to this range below the global peak.
	melLogTopDB = 80.0
	melLogFloor = 1e-10
)

// hzToMel converts Hz to mels (HTK formula).
func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

// melToHz converts mels to Hz.
func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// melFilterbank builds triangular filters over the FFT bins, one row
// per mel band, area-normalized by bandwidth.
func melFilterbank(numBins, sampleRate, frameSize int) [][]float64 {
	nyquist := float64(sampleRate) / 2
	melMax := hzToMel(nyquist)

	// Band edges: melBands+2 points from 0 to Nyquist on the mel scale.
	edges := make([]float64, melBands+2)
	for i := range edges {
		edges[i] = melToHz(melMax * float64(i) / float64(melBands+1))
	}

	filters := make([][]float64, melBands)
	for m := 0; m < melBands; m++ {
		row := make([]float64, numBins)
		lower, center, upper := edges[m], edges[m+1], edges[m+2]
		for k := 0; k < numBins; k++ {
			freq := float64(k) * float64(sampleRate) / float64(frameSize)
			var w float64
			switch {
			case freq <= lower || freq >= upper:
				w = 0
			case freq <= center:
				w = (freq - lower) / (center - lower)
			default:
				w = (upper - freq) / (upper - center)
			}
			row[k] = w
		}
		// Bandwidth normalization keeps flat spectra flat across bands.
		if width := upper - lower; width > 0 {
			scale := 2 / width
			for k := range row {
				row[k] *= scale
			}
		}
		filters[m] = row
	}
	return filters
}

// logMelSpectrogram applies the filterbank to each frame's power
// spectrum and converts to decibels, clipped to melLogTopDB below the
// loudest value in the clip.
func logMelSpectrogram(spec *Spectrogram) [][]float64 {
	filters := melFilterbank(spec.NumBins(), spec.SampleRate, spec.FrameSize)

	logMel := make([][]float64, spec.NumFrames())
	peak := math.Inf(-1)
	for i, row := range spec.Mag {
		bands := make([]float64, melBands)
		for m, filter := range filters {
			var energy float64
			for k, w := range filter {
				if w > 0 {
					energy += w * row[k] * row[k]
				}
			}
			if energy < melLogFloor {
				energy = melLogFloor
			}
			db := 10 * math.Log10(energy)
			bands[m] = db
			if db > peak {
				peak = db
			}
		}
		logMel[i] = bands
	}
	floor := peak - melLogTopDB
	for _, bands := range logMel {
		for m, v := range bands {
			if v < floor {
				bands[m] = floor
			}
		}
	}
	return logMel
}

// dctII computes the first numCoeffs orthonormal DCT-II coefficients.
func dctII(x []float64, numCoeffs int) []float64 {
	n := len(x)
	out := make([]float64, numCoeffs)
	for k := 0; k < numCoeffs; k++ {
		var sum float64
		for i, v := range x {
			sum += v * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n)))
		}
		scale := math.Sqrt(2 / float64(n))
		if k == 0 {
			scale = math.Sqrt(1 / float64(n))
		}
		out[k] = scale * sum
	}
	return out
}

// timbreVector averages the first numCoeffs cepstral coefficients over
// all frames.
func timbreVector(spec *Spectrogram, numCoeffs int) []float64 {
	logMel := logMelSpectrogram(spec)
	out := make([]float64, numCoeffs)
	if len(logMel) == 0 {
		return out
	}
	for _, bands := range logMel {
		coeffs := dctII(bands, numCoeffs)
		for i, c := range coeffs {
			out[i] += c
		}
	}
	n := float64(len(logMel))
	for i := range out {
		out[i] /= n
	}
	return out
}
