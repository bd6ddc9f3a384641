// Package stats provides a bounded-memory running statistic over a stream
// of scalar samples. Only count, sum and sum-of-squares are retained; mean
// and standard deviation are derived on demand.
package stats

import "math"

// Statistics accumulates count, sum and sum-of-squares for a sample stream.
// The zero value is ready to use.
type Statistics struct {
	count int64
	sum   float64
	sumSq float64
}

// AddItem folds one sample into the running aggregates.
func (s *Statistics) AddItem(v float64) {
	s.count++
	s.sum += v
	s.sumSq += v * v
}

// Count returns the number of samples added since the last reset.
func (s *Statistics) Count() int64 {
	return s.count
}

// Mean returns sum/count. Callers must check Count() > 0 first; with no
// samples the result is NaN.
func (s *Statistics) Mean() float64 {
	return s.sum / float64(s.count)
}

// StandardDeviation returns the population standard deviation. Variance is
// computed as E[X²] − (E[X])²; floating-point cancellation can push it
// slightly negative, in which case 0 is returned.
func (s *Statistics) StandardDeviation() float64 {
	mean := s.sum / float64(s.count)
	variance := s.sumSq/float64(s.count) - mean*mean
	if variance > 0 {
		return math.Sqrt(variance)
	}
	return 0
}

// Reset zeroes all aggregates, as if newly constructed.
func (s *Statistics) Reset() {
	s.count = 0
	s.sum = 0
	s.sumSq = 0
}
