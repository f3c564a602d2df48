package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/Danondso/melodia/internal/melody"
)

// Fixed output format: 44.1kHz mono 16-bit linear PCM.
const (
	SampleRate = 44100
	Channels   = 1
	BitDepth   = 16
)

// MaxSamples is the largest sample count whose payload still fits the
// uint32 RIFF chunk size field (36 + 2*n).
const MaxSamples = (math.MaxUint32 - 36) / (Channels * BitDepth / 8)

// ErrResourceExhausted is returned when the sample buffer for a melody
// cannot be allocated.
var ErrResourceExhausted = errors.New("resource exhausted")

// Render synthesizes m and returns a complete WAV container. The only error
// is ErrResourceExhausted; on error no bytes are returned.
func Render(m melody.Melody) ([]byte, error) {
	buf, err := Synthesize(m)
	if err != nil {
		return nil, err
	}
	data, err := EncodeWAV(Quantize(buf), SampleRate)
	if err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	return data, nil
}

// TotalSamples returns the number of samples covering the melody's span.
func TotalSamples(m melody.Melody) (int, error) {
	span := m.Span()
	if math.IsNaN(span) || span <= 0 {
		return 0, nil
	}
	n := math.Floor(span * SampleRate)
	if n > MaxSamples {
		return 0, fmt.Errorf("%w: %.0f samples exceeds maximum %d", ErrResourceExhausted, n, MaxSamples)
	}
	return int(n), nil
}

// Synthesize writes a unit-amplitude sine for every note into a silent
// buffer sized to the melody's span. Each note's phase restarts at zero and
// later notes overwrite earlier ones where they share indices.
func Synthesize(m melody.Melody) ([]float32, error) {
	total, err := TotalSamples(m)
	if err != nil {
		return nil, err
	}
	buf, err := allocate(total)
	if err != nil {
		return nil, err
	}

	for _, n := range m {
		count := sampleIndex(n.End - n.Start)
		start := sampleIndex(n.Start)
		step := 2 * math.Pi * n.Frequency / SampleRate
		for i := 0; i < count; i++ {
			idx := start + i
			if idx >= len(buf) {
				break
			}
			buf[idx] = float32(math.Sin(step * float64(i)))
		}
	}
	return buf, nil
}

// Quantize clamps each sample to [-1, 1] and scales it to int16, truncating
// toward zero.
func Quantize(buf []float32) []int16 {
	out := make([]int16, len(buf))
	for i, s := range buf {
		v := float64(s)
		switch {
		case math.IsNaN(v):
			v = 0
		case v > 1:
			v = 1
		case v < -1:
			v = -1
		}
		out[i] = int16(v * math.MaxInt16)
	}
	return out
}

// sampleIndex converts seconds to a sample offset, flooring. Negative and
// NaN inputs map to zero.
func sampleIndex(sec float64) int {
	v := math.Floor(sec * SampleRate)
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > MaxSamples {
		return MaxSamples
	}
	return int(v)
}

func allocate(n int) (buf []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("%w: allocate %d samples: %v", ErrResourceExhausted, n, r)
		}
	}()
	return make([]float32, n), nil
}
