package corpus

import (
	"math"
	"testing"
)

func TestLengthStats(t *testing.T) {
	path := writeFile(t, t.TempDir(), "raw.txt", "a b\na b c d\n\na b c d e f\n")
	s, err := LengthStats(path)
	if err != nil {
		t.Fatalf("LengthStats error: %v", err)
	}
	if s.Lines != 4 || s.Tokens != 12 || s.Max != 6 {
		t.Fatalf("unexpected stats: %+v", s)
	}
	if math.Abs(s.Mean-3) > 1e-9 {
		t.Fatalf("mean = %v, want 3", s.Mean)
	}
	// lengths 0,2,4,6 -> truncated at T=4 are those with length >= 4
	if got := s.TruncatedFraction(4); got != 0.5 {
		t.Fatalf("TruncatedFraction(4) = %v, want 0.5", got)
	}
	if got := s.TruncatedFraction(7); got != 0 {
		t.Fatalf("TruncatedFraction(7) = %v, want 0", got)
	}
}

func TestLengthStats_Empty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.txt", "")
	s, err := LengthStats(path)
	if err != nil {
		t.Fatalf("LengthStats error: %v", err)
	}
	if s.Lines != 0 || s.TruncatedFraction(1) != 0 {
		t.Fatalf("unexpected stats for empty file: %+v", s)
	}
}
