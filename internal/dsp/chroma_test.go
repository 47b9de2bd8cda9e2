// ABOUTME: Tests for pitch-class mapping and the folded chroma profile
// ABOUTME: Checks note assignments and octave equivalence
package dsp

import "testing"

func TestPitchClass(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		want int
	}{
		{"C0", 16.351597831287414, 0},
		{"C4", 261.6255653005986, 0},
		{"D#4", 311.1269837220809, 3},
		{"E4", 329.6275569128699, 4},
		{"G4", 391.99543598174927, 7},
		{"A4", 440, 9},
		{"A2 folds to A", 110, 9},
		{"A5 folds to A", 880, 9},
		{"nonpositive", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pitchClass(tt.freq); got != tt.want {
				t.Errorf("pitchClass(%v) = %d, want %d", tt.freq, got, tt.want)
			}
		})
	}
}

func TestChromaProfile_SingleTone(t *testing.T) {
	const sr = 22050
	// E5 sits in pitch class 4 with a semitone width well above the bin
	// spacing, so leakage stays inside the class.
	samples := sineWave(659.2551138257398, sr, sr)
	frames := frameSignal(samples, DefaultFrameSize, DefaultHopSize)
	spec := computeSpectrogram(frames, sr, DefaultFrameSize, DefaultHopSize)

	profile := chromaProfile(spec)
	for c := range profile {
		if c == 4 {
			continue
		}
		if profile[c] >= profile[4] {
			t.Errorf("profile[%d] = %v, should be below class 4 = %v", c, profile[c], profile[4])
		}
	}
	if profile[4] < 0.9 {
		t.Errorf("profile[4] = %v, want near 1 for a pure E tone", profile[4])
	}
}

func TestChromaProfile_Silence(t *testing.T) {
	samples := make([]float64, 22050)
	frames := frameSignal(samples, DefaultFrameSize, DefaultHopSize)
	spec := computeSpectrogram(frames, 22050, DefaultFrameSize, DefaultHopSize)

	profile := chromaProfile(spec)
	for c, v := range profile {
		if v != 0 {
			t.Errorf("profile[%d] = %v, want 0 for silence", c, v)
		}
	}
}
