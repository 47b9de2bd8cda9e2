// ABOUTME: Short-time Fourier analysis: framing, Hann windowing, magnitude spectrogram
// ABOUTME: Wraps gonum's real FFT; all downstream features read from Spectrogram
package dsp

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	// DefaultFrameSize is the analysis frame length in samples.
	DefaultFrameSize = 2048
	// DefaultHopSize is the stride between successive frames.
	DefaultHopSize = 512
)

// Spectrogram is the magnitude spectrogram of a clip, one row per
// analysis frame, frameSize/2+1 bins per row.
type Spectrogram struct {
	Mag        [][]float64
	SampleRate int
	FrameSize  int
	HopSize    int
}

// NumFrames returns the number of analysis frames.
func (s *Spectrogram) NumFrames() int { return len(s.Mag) }

// NumBins returns the number of frequency bins per frame.
func (s *Spectrogram) NumBins() int { return s.FrameSize/2 + 1 }

// BinFreq returns the center frequency of a bin in Hz.
func (s *Spectrogram) BinFreq(bin int) float64 {
	return float64(bin) * float64(s.SampleRate) / float64(s.FrameSize)
}

// Nyquist returns half the sample rate in Hz.
func (s *Spectrogram) Nyquist() float64 { return float64(s.SampleRate) / 2 }

// frameSignal slices samples into overlapping frames. Signals shorter
// than one frame are zero-padded so every clip yields at least one
// frame; each frame is an independent copy.
func frameSignal(samples []float64, frameSize, hopSize int) [][]float64 {
	if len(samples) < frameSize {
		frame := make([]float64, frameSize)
		copy(frame, samples)
		return [][]float64{frame}
	}
	n := 1 + (len(samples)-frameSize)/hopSize
	frames := make([][]float64, n)
	for i := 0; i < n; i++ {
		frame := make([]float64, frameSize)
		copy(frame, samples[i*hopSize:i*hopSize+frameSize])
		frames[i] = frame
	}
	return frames
}

// hannWindow returns the Hann coefficients for a frame length.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return window.Hann(w)
}

// computeSpectrogram runs a Hann-windowed real FFT over every frame.
func computeSpectrogram(frames [][]float64, sampleRate, frameSize, hopSize int) *Spectrogram {
	fft := fourier.NewFFT(frameSize)
	win := hannWindow(frameSize)

	buf := make([]float64, frameSize)
	coeffs := make([]complex128, frameSize/2+1)

	mag := make([][]float64, len(frames))
	for i, frame := range frames {
		for j := range buf {
			buf[j] = frame[j] * win[j]
		}
		coeffs = fft.Coefficients(coeffs, buf)
		row := make([]float64, len(coeffs))
		for k, c := range coeffs {
			row[k] = cmplx.Abs(c)
		}
		mag[i] = row
	}
	return &Spectrogram{Mag: mag, SampleRate: sampleRate, FrameSize: frameSize, HopSize: hopSize}
}
