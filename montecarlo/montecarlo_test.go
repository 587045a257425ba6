package montecarlo

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"dilemma/game"
	"dilemma/policy"
	"dilemma/series"
)

var (
	cs     = game.DefaultCharset()
	matrix = game.NewPrisonersDilemma(cs, 6, 4, 2, 0)
)

// failing errors once a match reaches a given round.
type failing struct{ round int }

func (failing) Charset() game.Charset { return cs }

func (f failing) Decide(own, opponent game.History) (game.Move, error) {
	if len(own) >= f.round {
		return 0, fmt.Errorf("%w: stub failure", game.ErrInvalidAction)
	}
	return cs.Cooperate, nil
}

func TestEstimateSingleRoundBoundary(t *testing.T) {
	// delta=0 makes every match exactly one round, so the estimate must
	// land on the single-round expected payoff.
	mu := 0.1
	want := 4*(1-mu)*(1-mu) + 6*mu*(1-mu) + 2*mu*mu

	allC := policy.NewAllC(cs)
	valueA, valueB, err := Estimate(allC, allC, matrix, 0, mu,
		WithTrials(50000), WithSeed(1234), WithWorkers(1))
	require.NoError(t, err)
	require.InDelta(t, want, valueA, 0.05)
	require.InDelta(t, want, valueB, 0.05)
}

func TestEstimateReproducibleWithSeed(t *testing.T) {
	a := policy.NewTitForTat(cs)
	b := policy.NewAllD(cs)

	firstA, firstB, err := Estimate(a, b, matrix, 0.8, 0.05, WithTrials(500), WithSeed(7), WithWorkers(1))
	require.NoError(t, err)
	secondA, secondB, err := Estimate(a, b, matrix, 0.8, 0.05, WithTrials(500), WithSeed(7), WithWorkers(1))
	require.NoError(t, err)

	require.Equal(t, firstA, secondA, "same seed must reproduce the estimate bit for bit")
	require.Equal(t, firstB, secondB, "same seed must reproduce the estimate bit for bit")
}

func TestEstimateAdaptivePrecision(t *testing.T) {
	// The adaptive stop keeps sampling until the estimator's standard error
	// is below target, so the normalized estimate must sit within a few
	// targets of the exact value.
	allC := policy.NewAllC(cs)
	target := 0.05

	exactA, _, err := series.Compute(allC, allC, matrix, 0.5, 0.1, 1e-7, series.WithWorkers(1))
	require.NoError(t, err)

	valueA, valueB, err := Estimate(allC, allC, matrix, 0.5, 0.1,
		WithTrials(200), WithTargetStdErr(target), WithSeed(99), WithWorkers(1))
	require.NoError(t, err)
	require.InDelta(t, exactA, valueA, 4*target)
	require.InDelta(t, exactA, valueB, 4*target)
}

func TestEstimateRejectsInvalidParameters(t *testing.T) {
	a := policy.NewAllC(cs)

	for _, params := range [][2]float64{{1.0, 0}, {-0.1, 0}, {0.5, 1.0}, {0.5, -0.1}} {
		_, _, err := Estimate(a, a, matrix, params[0], params[1])
		require.ErrorIs(t, err, game.ErrInvalidParameter,
			"delta=%v mu=%v must be rejected before any trial runs", params[0], params[1])
	}
}

func TestEstimatePropagatesPolicyErrors(t *testing.T) {
	_, _, err := Estimate(failing{round: 0}, policy.NewAllC(cs), matrix, 0.5, 0,
		WithTrials(10), WithSeed(1), WithWorkers(1))
	require.ErrorIs(t, err, game.ErrInvalidAction)
}

// TestCrossValidation checks that the two engines agree on the small
// standard catalog without noise: relative error below 0.1 for values away
// from zero, absolute error below 0.1 otherwise.
func TestCrossValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 100k-trial cross-validation in short mode")
	}

	lineup := []policy.Named{
		{Name: "AllC", Policy: policy.NewAllC(cs)},
		{Name: "AllD", Policy: policy.NewAllD(cs)},
		{Name: "TitForTat", Policy: policy.NewTitForTat(cs)},
		{Name: "Grim", Policy: policy.NewGrim(cs)},
	}

	for _, a := range lineup {
		for _, b := range lineup {
			t.Run(a.Name+" vs "+b.Name, func(t *testing.T) {
				exactA, exactB, err := series.Compute(a.Policy, b.Policy, matrix, 0.5, 0, 1e-6)
				require.NoError(t, err)

				monteA, monteB, err := Estimate(a.Policy, b.Policy, matrix, 0.5, 0,
					WithTrials(100000), WithSeed(2024))
				require.NoError(t, err)

				assertClose(t, exactA, monteA, "player A")
				assertClose(t, exactB, monteB, "player B")
			})
		}
	}
}

func assertClose(t *testing.T, exact, monte float64, player string) {
	t.Helper()
	if math.Abs(exact) > 0.1 {
		require.InEpsilon(t, exact, monte, 0.1, "%s: relative disagreement too large", player)
	} else {
		require.InDelta(t, exact, monte, 0.1, "%s: absolute disagreement too large", player)
	}
}
