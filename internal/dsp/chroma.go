// ABOUTME: Pitch-class energy profile folded from the magnitude spectrogram
// ABOUTME: Feeds the major-versus-minor-third valence estimate
package dsp

import "math"

// chromaClasses is the number of pitch classes in an octave.
const chromaClasses = 12

// c0Freq is the frequency of C0 in Hz; pitch class 0 is C.
const c0Freq = 16.351597831287414

// chromaMinFreq ignores sub-bass rumble below C1 when folding.
const chromaMinFreq = 32.0

// pitchClass maps a frequency to its pitch class, 0 for C through 11
// for B. Frequencies at or below zero map to class 0.
func pitchClass(freq float64) int {
	if freq <= 0 {
		return 0
	}
	semitones := math.Round(chromaClasses * math.Log2(freq/c0Freq))
	class := int(semitones) % chromaClasses
	if class < 0 {
		class += chromaClasses
	}
	return class
}

// chromaProfile folds each frame's power spectrum into twelve pitch
// classes, normalizes each frame by its peak class, and averages over
// frames. Silent frames contribute zeros.
func chromaProfile(spec *Spectrogram) [chromaClasses]float64 {
	var profile [chromaClasses]float64
	if spec.NumFrames() == 0 {
		return profile
	}
	nyquist := spec.Nyquist()
	for _, row := range spec.Mag {
		var frame [chromaClasses]float64
		for k, m := range row {
			freq := spec.BinFreq(k)
			if freq < chromaMinFreq || freq >= nyquist {
				continue
			}
			frame[pitchClass(freq)] += m * m
		}
		peak := 0.0
		for _, v := range frame {
			if v > peak {
				peak = v
			}
		}
		if peak <= 0 {
			continue
		}
		for c := range frame {
			profile[c] += frame[c] / peak
		}
	}
	n := float64(spec.NumFrames())
	for c := range profile {
		profile[c] /= n
	}
	return profile
}
