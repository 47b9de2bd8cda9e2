// ABOUTME: Harmonic/percussive separation by median filtering the spectrogram
// ABOUTME: Horizontal medians favor sustained tones, vertical medians favor transients
package dsp

import "sort"

// hpssKernel is the median filter length; clamped to the data when a
// clip has fewer frames or bins.
const hpssKernel = 31

// harmonicEnergyRatio separates the spectrogram into harmonic and
// percussive components with soft masks and returns the harmonic share
// of the total energy in [0, 1]. Silence reports 0.
func harmonicEnergyRatio(spec *Spectrogram) float64 {
	numFrames := spec.NumFrames()
	numBins := spec.NumBins()
	if numFrames == 0 {
		return 0
	}

	timeKernel := oddClamp(hpssKernel, numFrames)
	freqKernel := oddClamp(hpssKernel, numBins)

	var harmonic, total float64
	column := make([]float64, numFrames)
	harmRow := make([]float64, numBins)

	// Harmonic enhancement: median across time per bin.
	harmEnhanced := make([][]float64, numFrames)
	for i := range harmEnhanced {
		harmEnhanced[i] = make([]float64, numBins)
	}
	for k := 0; k < numBins; k++ {
		for t := 0; t < numFrames; t++ {
			column[t] = spec.Mag[t][k]
		}
		filtered := medianFilter(column, timeKernel)
		for t := 0; t < numFrames; t++ {
			harmEnhanced[t][k] = filtered[t]
		}
	}

	for t := 0; t < numFrames; t++ {
		// Percussive enhancement: median across frequency per frame.
		percEnhanced := medianFilter(spec.Mag[t], freqKernel)
		copy(harmRow, harmEnhanced[t])
		for k := 0; k < numBins; k++ {
			m := spec.Mag[t][k]
			h2 := harmRow[k] * harmRow[k]
			p2 := percEnhanced[k] * percEnhanced[k]
			mask := 0.0
			if h2+p2 > 0 {
				mask = h2 / (h2 + p2)
			}
			hm := m * mask
			harmonic += hm * hm
			total += m * m
		}
	}
	return clamp(harmonic/(total+1e-10), 0, 1)
}

// oddClamp shrinks kernel to the largest odd value not exceeding limit.
func oddClamp(kernel, limit int) int {
	if kernel > limit {
		kernel = limit
	}
	if kernel%2 == 0 {
		kernel--
	}
	if kernel < 1 {
		kernel = 1
	}
	return kernel
}

// medianFilter applies a sliding median with edge truncation. kernel
// must be odd and at least 1.
func medianFilter(s []float64, kernel int) []float64 {
	out := make([]float64, len(s))
	if kernel <= 1 {
		copy(out, s)
		return out
	}
	half := kernel / 2
	win := make([]float64, 0, kernel)
	for i := range s {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(s) {
			hi = len(s)
		}
		win = append(win[:0], s[lo:hi]...)
		sort.Float64s(win)
		mid := len(win) / 2
		if len(win)%2 == 1 {
			out[i] = win[mid]
		} else {
			out[i] = (win[mid-1] + win[mid]) / 2
		}
	}
	return out
}
