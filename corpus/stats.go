package corpus

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the sentence lengths (in tokens) of a corpus file.
type Stats struct {
	Lines  int
	Tokens int
	Mean   float64
	StdDev float64
	Median float64
	P90    float64
	P99    float64
	Max    int

	// Lengths holds every sentence length, sorted ascending.
	Lengths []float64
}

// LengthStats streams path once and computes its length distribution.
func LengthStats(path string) (*Stats, error) {
	var lengths []float64
	err := EachLine(path, func(line string) error {
		lengths = append(lengths, float64(len(Fields(line))))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("length stats for %s: %w", path, err)
	}

	s := &Stats{Lines: len(lengths), Lengths: lengths}
	if len(lengths) == 0 {
		return s, nil
	}
	sort.Float64s(lengths)
	for _, l := range lengths {
		s.Tokens += int(l)
	}
	s.Mean, s.StdDev = stat.MeanStdDev(lengths, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, lengths, nil)
	s.P90 = stat.Quantile(0.9, stat.Empirical, lengths, nil)
	s.P99 = stat.Quantile(0.99, stat.Empirical, lengths, nil)
	s.Max = int(lengths[len(lengths)-1])
	return s, nil
}

// TruncatedFraction is the share of sentences that a sequence length of t
// would truncate once an end-of-sequence token is appended.
func (s *Stats) TruncatedFraction(t int) float64 {
	if len(s.Lengths) == 0 {
		return 0
	}
	// length+1 > t  <=>  length >= t
	i := sort.SearchFloat64s(s.Lengths, float64(t))
	return float64(len(s.Lengths)-i) / float64(len(s.Lengths))
}
