// ABOUTME: Decodes WAV and MP3 files into mono float64 sample buffers
// ABOUTME: Downmixes multi-channel audio and resamples to the engine rate
package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// ErrUnsupportedFormat reports a file extension the loader cannot
// decode.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Clip is one decoded recording: mono samples in [-1, 1] at SampleRate.
type Clip struct {
	Samples    []float64
	SampleRate int
	SourceRate int
	Path       string
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// Loader decodes audio files at a fixed target sample rate.
type Loader struct {
	targetRate int
}

// NewLoader creates a new Loader instance
func NewLoader(targetRate int) *Loader {
	return &Loader{targetRate: targetRate}
}

// Load decodes a file by extension, downmixes to mono, and resamples
// to the loader's target rate.
func (l *Loader) Load(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var samples []float64
	var sourceRate int

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		samples, sourceRate, err = decodeWAV(f)
	case ".mp3":
		samples, sourceRate, err = decodeMP3(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s contains no samples", filepath.Base(path))
	}

	return &Clip{
		Samples:    Resample(samples, sourceRate, l.targetRate),
		SampleRate: l.targetRate,
		SourceRate: sourceRate,
		Path:       path,
	}, nil
}

func decodeWAV(f *os.File) ([]float64, int, error) {
	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read PCM data: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, 0, fmt.Errorf("missing channel information")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}

	samples := make([]float64, len(buf.Data))
	if bitDepth == 8 {
		// 8-bit PCM is unsigned.
		for i, v := range buf.Data {
			samples[i] = (float64(v) - 128) / 128
		}
	} else {
		scale := float64(int64(1) << uint(bitDepth-1))
		for i, v := range buf.Data {
			samples[i] = float64(v) / scale
		}
	}

	return downmix(samples, buf.Format.NumChannels), int(decoder.SampleRate), nil
}

func decodeMP3(f *os.File) ([]float64, int, error) {
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse MP3: %w", err)
	}

	// go-mp3 always emits 16-bit little-endian stereo.
	var pcm []byte
	buf := make([]byte, 8192)
	for {
		n, err := decoder.Read(buf)
		if n > 0 {
			pcm = append(pcm, buf[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, fmt.Errorf("failed to read MP3 stream: %w", err)
		}
	}

	samples := make([]float64, 0, len(pcm)/2)
	for i := 0; i+1 < len(pcm); i += 2 {
		v := int16(pcm[i]) | int16(pcm[i+1])<<8
		samples = append(samples, float64(v)/32768)
	}

	return downmix(samples, 2), decoder.SampleRate(), nil
}

// downmix averages interleaved channels into mono.
func downmix(samples []float64, channels int) []float64 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}

// Resample converts samples from one rate to another by linear
// interpolation. Equal rates copy through unchanged.
func Resample(samples []float64, from, to int) []float64 {
	if from == to || from <= 0 || to <= 0 || len(samples) == 0 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}

	ratio := float64(from) / float64(to)
	outLen := int(math.Round(float64(len(samples)) * float64(to) / float64(from)))
	if outLen < 1 {
		outLen = 1
	}

	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = samples[j]*(1-frac) + samples[j+1]*frac
	}
	return out
}
