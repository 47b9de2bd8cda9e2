// ABOUTME: Tests for framing, windowing, and spectrogram geometry
// ABOUTME: Verifies frame math and spectral peak placement for known tones
package dsp

import (
	"math"
	"testing"
)

func TestFrameSignal(t *testing.T) {
	tests := []struct {
		name       string
		numSamples int
		wantFrames int
	}{
		{"exactly one frame", 2048, 1},
		{"one frame plus one hop", 2048 + 512, 2},
		{"shorter than a frame", 100, 1},
		{"single sample", 1, 1},
		{"one second at 22050", 22050, 1 + (22050-2048)/512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([]float64, tt.numSamples)
			for i := range samples {
				samples[i] = 0.1
			}
			frames := frameSignal(samples, DefaultFrameSize, DefaultHopSize)
			if len(frames) != tt.wantFrames {
				t.Errorf("frameSignal() returned %d frames, want %d", len(frames), tt.wantFrames)
			}
			for i, frame := range frames {
				if len(frame) != DefaultFrameSize {
					t.Errorf("frame %d length = %d, want %d", i, len(frame), DefaultFrameSize)
				}
			}
		})
	}
}

func TestFrameSignal_ZeroPadsShortInput(t *testing.T) {
	samples := []float64{0.5, 0.5, 0.5}
	frames := frameSignal(samples, DefaultFrameSize, DefaultHopSize)
	if len(frames) != 1 {
		t.Fatalf("frameSignal() returned %d frames, want 1", len(frames))
	}
	for i := 3; i < DefaultFrameSize; i++ {
		if frames[0][i] != 0 {
			t.Fatalf("frame[%d] = %v, want zero padding", i, frames[0][i])
		}
	}
}

func TestFrameSignal_CopiesData(t *testing.T) {
	samples := make([]float64, 4096)
	frames := frameSignal(samples, DefaultFrameSize, DefaultHopSize)
	frames[0][0] = 99
	if samples[0] == 99 {
		t.Error("frameSignal() should copy samples, not alias them")
	}
}

func TestHannWindow(t *testing.T) {
	win := hannWindow(DefaultFrameSize)
	if len(win) != DefaultFrameSize {
		t.Fatalf("hannWindow() length = %d, want %d", len(win), DefaultFrameSize)
	}
	if win[0] > 1e-6 {
		t.Errorf("window start = %v, want near 0", win[0])
	}
	peak := 0.0
	for _, v := range win {
		if v < 0 || v > 1.0000001 {
			t.Fatalf("window value %v outside [0, 1]", v)
		}
		if v > peak {
			peak = v
		}
	}
	if peak < 0.99 {
		t.Errorf("window peak = %v, want near 1", peak)
	}
}

func TestComputeSpectrogram_DC(t *testing.T) {
	samples := make([]float64, DefaultFrameSize)
	for i := range samples {
		samples[i] = 0.5
	}
	frames := frameSignal(samples, DefaultFrameSize, DefaultHopSize)
	spec := computeSpectrogram(frames, 22050, DefaultFrameSize, DefaultHopSize)

	if spec.NumFrames() != 1 {
		t.Fatalf("NumFrames() = %d, want 1", spec.NumFrames())
	}
	if spec.NumBins() != DefaultFrameSize/2+1 {
		t.Fatalf("NumBins() = %d, want %d", spec.NumBins(), DefaultFrameSize/2+1)
	}
	if len(spec.Mag[0]) != spec.NumBins() {
		t.Fatalf("row length = %d, want %d", len(spec.Mag[0]), spec.NumBins())
	}

	// DC energy concentrates at bin 0.
	if spec.Mag[0][0] < 100 {
		t.Errorf("DC bin magnitude = %v, want large", spec.Mag[0][0])
	}
	for k := 5; k < spec.NumBins(); k += 100 {
		if spec.Mag[0][k] > spec.Mag[0][0]/10 {
			t.Errorf("bin %d magnitude = %v, should be far below DC bin %v", k, spec.Mag[0][k], spec.Mag[0][0])
		}
	}
}

func TestComputeSpectrogram_TonePeakBin(t *testing.T) {
	const sr = 22050
	const freq = 440.0
	samples := sineWave(freq, sr, sr)
	frames := frameSignal(samples, DefaultFrameSize, DefaultHopSize)
	spec := computeSpectrogram(frames, sr, DefaultFrameSize, DefaultHopSize)

	peakBin := 0
	for k, m := range spec.Mag[0] {
		if m > spec.Mag[0][peakBin] {
			peakBin = k
		}
	}
	wantBin := freq * DefaultFrameSize / sr // 40.86
	if math.Abs(float64(peakBin)-wantBin) > 1.5 {
		t.Errorf("peak bin = %d, want near %.1f", peakBin, wantBin)
	}

	gotFreq := spec.BinFreq(peakBin)
	if math.Abs(gotFreq-freq) > 2*float64(sr)/DefaultFrameSize {
		t.Errorf("peak frequency = %.1f Hz, want near %.1f Hz", gotFreq, freq)
	}
}

func TestSpectrogram_BinFreq(t *testing.T) {
	spec := &Spectrogram{SampleRate: 22050, FrameSize: 2048}
	if got := spec.BinFreq(0); got != 0 {
		t.Errorf("BinFreq(0) = %v, want 0", got)
	}
	want := 100 * 22050.0 / 2048.0
	if got := spec.BinFreq(100); math.Abs(got-want) > 1e-9 {
		t.Errorf("BinFreq(100) = %v, want %v", got, want)
	}
	if got := spec.Nyquist(); got != 11025 {
		t.Errorf("Nyquist() = %v, want 11025", got)
	}
}
