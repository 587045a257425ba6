package montecarlo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimatorStateMatchesDirectComputation(t *testing.T) {
	samples := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	var s EstimatorState
	for _, x := range samples {
		s.Add(x)
	}

	require.Equal(t, 8, s.Count())
	require.InDelta(t, 5.0, s.Mean(), 1e-12)
	require.InDelta(t, 32.0/7.0, s.Variance(), 1e-12, "sample variance uses Bessel's correction")
	require.InDelta(t, math.Sqrt(32.0/7.0/8.0), s.StdErr(), 1e-12)
}

func TestEstimatorStateUnderfilled(t *testing.T) {
	var s EstimatorState
	require.True(t, math.IsInf(s.StdErr(), 1), "no samples must read as unbounded error")

	s.Add(3)
	require.Equal(t, 3.0, s.Mean())
	require.True(t, math.IsInf(s.StdErr(), 1), "one sample must read as unbounded error")
}

func TestEstimatorStateShrinksWithCount(t *testing.T) {
	var s EstimatorState
	var prev float64 = math.Inf(1)

	// Alternating samples keep the variance flat, so the standard error must
	// fall as the count grows.
	for i := 0; i < 100; i++ {
		s.Add(float64(i % 2))
		if i >= 2 {
			require.Less(t, s.StdErr(), prev)
		}
		prev = s.StdErr()
	}
}
