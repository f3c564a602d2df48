// Package compose runs melody generation and rendering as one step.
package compose

import (
	"errors"
	"fmt"

	"github.com/Danondso/melodia/internal/export"
	"github.com/Danondso/melodia/internal/melody"
	"github.com/Danondso/melodia/internal/render"
)

// Result is one generated melody and its WAV container.
type Result struct {
	Melody     melody.Melody
	WAV        []byte
	Samples    int
	SampleRate int
}

// MaxNotes is the longest melody whose rendered samples fit in a WAV
// container.
const MaxNotes = render.MaxSamples / samplesPerNote

const samplesPerNote = int(melody.NoteLength * render.SampleRate)

// Compose generates a melody for durationSec and renders it. Errors wrap
// melody.ErrInvalidDuration or render.ErrResourceExhausted. A melody too
// long to render is rejected before any note is generated.
func Compose(durationSec float64, rng melody.Source) (*Result, error) {
	m, err := melody.GenerateMax(durationSec, rng, MaxNotes)
	if errors.Is(err, melody.ErrTooManyNotes) {
		return nil, fmt.Errorf("generate melody: %w: %w", render.ErrResourceExhausted, err)
	}
	if err != nil {
		return nil, fmt.Errorf("generate melody: %w", err)
	}
	data, err := render.Render(m)
	if err != nil {
		return nil, fmt.Errorf("render melody: %w", err)
	}
	return &Result{
		Melody:     m,
		WAV:        data,
		Samples:    (len(data) - render.HeaderSize) / 2,
		SampleRate: render.SampleRate,
	}, nil
}

// Resampled returns a copy of r whose container is converted to rate with
// export.ToRate. Samples and SampleRate describe the new container.
func (r *Result) Resampled(rate int) (*Result, error) {
	data, err := export.ToRate(r.WAV, rate)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	h, err := render.ReadHeader(data)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	out := *r
	out.WAV = data
	out.Samples = (len(data) - render.HeaderSize) / 2
	out.SampleRate = int(h.SampleRate)
	return &out, nil
}

// Duration returns the rendered length in seconds.
func (r *Result) Duration() float64 {
	if r.SampleRate == 0 {
		return 0
	}
	return float64(r.Samples) / float64(r.SampleRate)
}
