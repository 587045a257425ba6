package montecarlo

import "math"

// EstimatorState tracks a running count, mean, and variance for one player's
// samples using Welford's online update, so the adaptive stop can read the
// standard error without rescanning the sample list.
type EstimatorState struct {
	count int
	mean  float64
	m2    float64
}

// Add folds one sample into the running statistics.
func (s *EstimatorState) Add(x float64) {
	s.count++
	delta := x - s.mean
	s.mean += delta / float64(s.count)
	s.m2 += delta * (x - s.mean)
}

func (s *EstimatorState) Count() int {
	return s.count
}

func (s *EstimatorState) Mean() float64 {
	return s.mean
}

// Variance returns the sample variance (Bessel corrected), matching what the
// parallel coordinator recomputes over the full sample list.
func (s *EstimatorState) Variance() float64 {
	if s.count < 2 {
		return math.Inf(1)
	}
	return s.m2 / float64(s.count-1)
}

// StdErr returns the standard deviation of the sample-mean estimator.
func (s *EstimatorState) StdErr() float64 {
	if s.count < 2 {
		return math.Inf(1)
	}
	return math.Sqrt(s.Variance() / float64(s.count))
}
