// ABOUTME: Dominant-pitch tracking from spectrogram peaks
// ABOUTME: Parabolic interpolation refines the peak bin to a frequency
package dsp

// Pitch tracking range in Hz and the voicing threshold relative to the
// frame's loudest bin across the full spectrum.
const (
	pitchMinFreq  = 50.0
	pitchMaxFreq  = 2000.0
	pitchVoicingT = 0.1
)

// pitchTrack returns one frequency per voiced frame. A frame is voiced
// when its strongest in-range bin carries at least pitchVoicingT of the
// frame's overall peak magnitude. Unvoiced frames are skipped, so the
// result may be empty.
func pitchTrack(spec *Spectrogram) []float64 {
	var pitches []float64
	for _, row := range spec.Mag {
		framePeak := 0.0
		for _, m := range row {
			if m > framePeak {
				framePeak = m
			}
		}
		if framePeak <= 0 {
			continue
		}

		bestBin := -1
		bestMag := 0.0
		for k := range row {
			freq := spec.BinFreq(k)
			if freq < pitchMinFreq || freq > pitchMaxFreq {
				continue
			}
			if row[k] > bestMag {
				bestMag = row[k]
				bestBin = k
			}
		}
		if bestBin < 0 || bestMag < pitchVoicingT*framePeak {
			continue
		}
		pitches = append(pitches, interpolatedFreq(spec, row, bestBin))
	}
	return pitches
}

// interpolatedFreq refines a peak bin by fitting a parabola through the
// magnitudes of the bin and its neighbors.
func interpolatedFreq(spec *Spectrogram, row []float64, bin int) float64 {
	if bin <= 0 || bin >= len(row)-1 {
		return spec.BinFreq(bin)
	}
	alpha, beta, gamma := row[bin-1], row[bin], row[bin+1]
	denom := alpha - 2*beta + gamma
	if denom == 0 {
		return spec.BinFreq(bin)
	}
	offset := 0.5 * (alpha - gamma) / denom
	if offset < -0.5 {
		offset = -0.5
	} else if offset > 0.5 {
		offset = 0.5
	}
	return (float64(bin) + offset) * float64(spec.SampleRate) / float64(spec.FrameSize)
}
