// Package metrics records sweep results and writes them to disk.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RunRecord is one parameter combination's result from both engines.
type RunRecord struct {
	PolicyA string
	PolicyB string
	Delta   float64
	Mu      float64

	ExactA float64
	ExactB float64
	MonteA float64
	MonteB float64

	ExactNanos int64
	MonteNanos int64
}

// Disagreement returns the largest absolute difference between the two
// engines' values across both players.
func (r RunRecord) Disagreement() float64 {
	return math.Max(math.Abs(r.ExactA-r.MonteA), math.Abs(r.ExactB-r.MonteB))
}

// Summary aggregates cross-engine agreement over a sweep.
type Summary struct {
	Runs             int
	MeanDisagreement float64
	StdDisagreement  float64
	MaxDisagreement  float64
}

// Summarize computes agreement statistics across all records.
func Summarize(records []RunRecord) Summary {
	disagreements := make([]float64, len(records))
	max := 0.0
	for i, r := range records {
		disagreements[i] = r.Disagreement()
		max = math.Max(max, disagreements[i])
	}

	s := Summary{Runs: len(records), MaxDisagreement: max}
	if len(records) > 0 {
		s.MeanDisagreement = stat.Mean(disagreements, nil)
	}
	if len(records) > 1 {
		s.StdDisagreement = stat.StdDev(disagreements, nil)
	}
	return s
}
