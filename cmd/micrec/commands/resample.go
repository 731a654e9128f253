package commands

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// monoResampler converts 16-bit mono PCM between sample rates in chunks.
type monoResampler struct {
	r resampling.Resampler
}

func newMonoResampler(from, to int) (*monoResampler, error) {
	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	return &monoResampler{r: r}, nil
}

// Process resamples one chunk. The resampler keeps filter state between
// calls, so the output length only approximates the rate ratio per chunk.
func (m *monoResampler) Process(in []int16) ([]int16, error) {
	out, err := m.r.Process(toFloat(in))
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	return toInt16(out), nil
}

func toFloat(in []int16) []float64 {
	out := make([]float64, len(in))
	for i, s := range in {
		out[i] = float64(s) / 32768.0
	}
	return out
}

// toInt16 scales back to 16 bits, clipping out of range values.
func toInt16(in []float64) []int16 {
	out := make([]int16, len(in))
	for i, s := range in {
		switch {
		case s >= 1.0:
			out[i] = 32767
		case s < -1.0:
			out[i] = -32768
		default:
			out[i] = int16(s * 32767.0)
		}
	}
	return out
}
