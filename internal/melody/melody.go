package melody

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Tempo is the fixed tempo in beats per minute.
const Tempo = 120

// NoteLength is the duration of one beat in seconds at Tempo.
const NoteLength = 60.0 / Tempo

// Scale is the C4 major scale in Hz, one pitch per scale degree.
var Scale = [7]float64{261.63, 293.66, 329.63, 349.23, 392.00, 440.00, 493.88}

// ErrInvalidDuration is returned for negative or non-finite durations.
var ErrInvalidDuration = errors.New("invalid duration")

// ErrTooManyNotes is returned when a valid duration needs more notes than
// the caller allows.
var ErrTooManyNotes = errors.New("too many notes")

// Note is a single pitched tone occupying [Start, End) seconds.
type Note struct {
	Frequency float64
	Start     float64
	End       float64
}

// Melody is an ordered sequence of contiguous notes.
type Melody []Note

// Source picks random pitches. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSource returns a Source seeded with seed, or with the current time if
// seed is zero.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec // melody pitches, not security
}

// Beats returns the number of notes Generate produces for durationSec. The
// count is a whole number but may exceed the int range for very long
// durations.
func Beats(durationSec float64) (float64, error) {
	if math.IsNaN(durationSec) || math.IsInf(durationSec, 0) || durationSec < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDuration, durationSec)
	}
	return math.Floor(durationSec * Tempo), nil
}

// Generate builds a melody of floor(durationSec*Tempo) notes, each NoteLength
// long, with pitches drawn uniformly from Scale. A nil rng uses a time-seeded
// source.
func Generate(durationSec float64, rng Source) (Melody, error) {
	return GenerateMax(durationSec, rng, math.MaxInt32)
}

// GenerateMax is Generate with a ceiling on the note count. A melody longer
// than maxNotes is rejected with ErrTooManyNotes before any note is built.
func GenerateMax(durationSec float64, rng Source, maxNotes int) (Melody, error) {
	beats, err := Beats(durationSec)
	if err != nil {
		return nil, err
	}
	if maxNotes < 0 || beats > float64(maxNotes) {
		return nil, fmt.Errorf("%w: %.0f notes exceeds maximum %d", ErrTooManyNotes, beats, maxNotes)
	}
	if rng == nil {
		rng = NewSource(0)
	}

	n := int(beats)
	m := make(Melody, 0, n)
	for i := 0; i < n; i++ {
		start := float64(i) * NoteLength
		m = append(m, Note{
			Frequency: Scale[rng.Intn(len(Scale))],
			Start:     start,
			End:       start + NoteLength,
		})
	}
	return m, nil
}

// Span returns the end time of the last note, or 0 for an empty melody.
func (m Melody) Span() float64 {
	if len(m) == 0 {
		return 0
	}
	return m[len(m)-1].End
}

// Validate reports the first note that breaks ordering: a note must start at
// or after zero, end after it starts, and begin where the previous one ended.
func (m Melody) Validate() error {
	for i, n := range m {
		if n.Start < 0 || n.End <= n.Start {
			return fmt.Errorf("note %d: invalid span [%v, %v)", i, n.Start, n.End)
		}
		if i > 0 && n.Start != m[i-1].End {
			return fmt.Errorf("note %d: starts at %v, previous ends at %v", i, n.Start, m[i-1].End)
		}
	}
	return nil
}
