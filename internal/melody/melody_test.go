package melody

import (
	"errors"
	"math"
	"testing"
)

// sequenceSource returns a fixed cycle of indices.
type sequenceSource struct {
	seq []int
	pos int
}

func (s *sequenceSource) Intn(n int) int {
	v := s.seq[s.pos%len(s.seq)] % n
	s.pos++
	return v
}

func TestGenerateNoteCount(t *testing.T) {
	tests := []struct {
		duration float64
		want     int
	}{
		{0, 0},
		{0.001, 0},
		{1.0 / 240, 0},
		{1.5 / 120, 1},
		{0.0625, 7},
		{1, 120},
		{2.5, 300},
	}
	for _, tt := range tests {
		m, err := Generate(tt.duration, &sequenceSource{seq: []int{0}})
		if err != nil {
			t.Fatalf("Generate(%v): unexpected error: %v", tt.duration, err)
		}
		if len(m) != tt.want {
			t.Errorf("Generate(%v) = %d notes, want %d", tt.duration, len(m), tt.want)
		}
	}
}

func TestGenerateContiguousHalfSecondNotes(t *testing.T) {
	m, err := Generate(0.5, NewSource(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != 60 {
		t.Fatalf("expected 60 notes, got %d", len(m))
	}
	if m[0].Start != 0 {
		t.Errorf("first note starts at %v, want 0", m[0].Start)
	}
	for i, n := range m {
		if n.End-n.Start != 0.5 {
			t.Errorf("note %d: length %v, want 0.5", i, n.End-n.Start)
		}
		if i > 0 && n.Start != m[i-1].End {
			t.Errorf("note %d: start %v != previous end %v", i, n.Start, m[i-1].End)
		}
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if m.Span() != 30 {
		t.Errorf("Span = %v, want 30", m.Span())
	}
}

func TestGeneratePitchesFromScale(t *testing.T) {
	inScale := make(map[float64]bool, len(Scale))
	for _, f := range Scale {
		inScale[f] = true
	}
	m, err := Generate(1, NewSource(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, n := range m {
		if !inScale[n.Frequency] {
			t.Errorf("note %d: frequency %v not in scale", i, n.Frequency)
		}
	}
}

func TestGenerateUsesSource(t *testing.T) {
	src := &sequenceSource{seq: []int{0, 1, 2, 3, 4, 5, 6}}
	m, err := Generate(7.5/120, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != 7 {
		t.Fatalf("expected 7 notes, got %d", len(m))
	}
	for i, n := range m {
		if n.Frequency != Scale[i] {
			t.Errorf("note %d: frequency %v, want %v", i, n.Frequency, Scale[i])
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a, _ := Generate(0.25, NewSource(99))
	b, _ := Generate(0.25, NewSource(99))
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("note %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateNilSource(t *testing.T) {
	m, err := Generate(0.1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != 12 {
		t.Errorf("expected 12 notes, got %d", len(m))
	}
}

func TestGenerateInvalidDuration(t *testing.T) {
	for _, d := range []float64{-1, -0.001, math.NaN(), math.Inf(1), math.Inf(-1)} {
		m, err := Generate(d, NewSource(1))
		if !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("Generate(%v): expected ErrInvalidDuration, got %v", d, err)
		}
		if m != nil {
			t.Errorf("Generate(%v): expected nil melody on error", d)
		}
	}
}

func TestLongDurationIsValid(t *testing.T) {
	for _, d := range []float64{1e4, 2e7, 1e300} {
		beats, err := Beats(d)
		if err != nil {
			t.Errorf("Beats(%v): unexpected error: %v", d, err)
		}
		if beats != math.Floor(d*Tempo) {
			t.Errorf("Beats(%v) = %v, want %v", d, beats, math.Floor(d*Tempo))
		}
	}

	_, err := Generate(2e7, NewSource(1))
	if errors.Is(err, ErrInvalidDuration) {
		t.Errorf("Generate(2e7): long duration reported as invalid: %v", err)
	}
	if !errors.Is(err, ErrTooManyNotes) {
		t.Errorf("Generate(2e7): expected ErrTooManyNotes, got %v", err)
	}
}

func TestGenerateMaxRejectsBeforeBuilding(t *testing.T) {
	src := &sequenceSource{seq: []int{0}}
	m, err := GenerateMax(1e4, src, 1000)
	if !errors.Is(err, ErrTooManyNotes) {
		t.Fatalf("expected ErrTooManyNotes, got %v", err)
	}
	if m != nil {
		t.Error("expected nil melody on error")
	}
	if src.pos != 0 {
		t.Errorf("source drawn %d times, want 0", src.pos)
	}

	m, err = GenerateMax(0.0625, src, 7)
	if err != nil {
		t.Fatalf("at the ceiling: unexpected error: %v", err)
	}
	if len(m) != 7 {
		t.Errorf("expected 7 notes, got %d", len(m))
	}
}

func TestSpanEmpty(t *testing.T) {
	var m Melody
	if m.Span() != 0 {
		t.Errorf("Span of empty melody = %v, want 0", m.Span())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate empty: %v", err)
	}
}

func TestValidateRejectsGaps(t *testing.T) {
	m := Melody{
		{Frequency: 440, Start: 0, End: 0.5},
		{Frequency: 440, Start: 0.75, End: 1.25},
	}
	if err := m.Validate(); err == nil {
		t.Error("expected error for gap between notes")
	}

	m = Melody{{Frequency: 440, Start: 0.5, End: 0.5}}
	if err := m.Validate(); err == nil {
		t.Error("expected error for zero-length note")
	}
}
