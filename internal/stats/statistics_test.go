package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatisticsMeanAndCount(t *testing.T) {
	var s Statistics
	for _, v := range []float64{1, 2, 3, 4} {
		s.AddItem(v)
	}
	assert.Equal(t, int64(4), s.Count())
	assert.InDelta(t, 2.5, s.Mean(), 1e-12)
}

func TestStatisticsAgainstTwoPass(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var s Statistics
	values := make([]float64, 1000)
	for i := range values {
		values[i] = rng.NormFloat64()*25 + 30
		s.AddItem(values[i])
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sqDiff float64
	for _, v := range values {
		sqDiff += (v - mean) * (v - mean)
	}
	stdDev := math.Sqrt(sqDiff / float64(len(values)))

	assert.Equal(t, int64(len(values)), s.Count())
	assert.InDelta(t, mean, s.Mean(), 1e-9)
	assert.InDelta(t, stdDev, s.StandardDeviation(), 1e-6)
}

func TestStatisticsCancellationClampsToZero(t *testing.T) {
	// Many near-identical large values make sumSq/n - mean² go slightly
	// negative in float64.
	var s Statistics
	for i := 0; i < 10000; i++ {
		s.AddItem(1e8)
	}
	s.AddItem(1e8 + 1e-6)

	sd := s.StandardDeviation()
	assert.False(t, math.IsNaN(sd))
	assert.GreaterOrEqual(t, sd, 0.0)
}

func TestStatisticsConstantStreamHasZeroDeviation(t *testing.T) {
	var s Statistics
	for i := 0; i < 100; i++ {
		s.AddItem(17.5)
	}
	assert.InDelta(t, 17.5, s.Mean(), 1e-12)
	assert.Equal(t, 0.0, s.StandardDeviation())
}

func TestStatisticsReset(t *testing.T) {
	var s Statistics
	s.AddItem(3.0)
	s.AddItem(9.0)
	s.Reset()

	assert.Equal(t, int64(0), s.Count())
	s.AddItem(5.0)
	assert.Equal(t, int64(1), s.Count())
	assert.InDelta(t, 5.0, s.Mean(), 1e-12)
	assert.Equal(t, 0.0, s.StandardDeviation())
}
