package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"dilemma/game"
	"dilemma/policy"
)

var (
	cs     = game.DefaultCharset()
	matrix = game.NewPrisonersDilemma(cs, 6, 4, 2, 0)
)

// rogue proposes a symbol outside the characterset.
type rogue struct{}

func (rogue) Charset() game.Charset { return cs }

func (rogue) Decide(own, opponent game.History) (game.Move, error) {
	return 'X', nil
}

// failing errors once the match reaches a given round.
type failing struct{ round int }

func (failing) Charset() game.Charset { return cs }

func (f failing) Decide(own, opponent game.History) (game.Move, error) {
	if len(own) >= f.round {
		return 0, fmt.Errorf("%w: stub failure", game.ErrInvalidAction)
	}
	return cs.Cooperate, nil
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestPlayMatchSingleRound(t *testing.T) {
	// delta=0 fails the first continuation draw, so exactly one round plays.
	totalA, totalB, err := PlayMatch(policy.NewAllD(cs), policy.NewAllC(cs), matrix, 0, 0, newRNG(1))
	require.NoError(t, err)
	require.Equal(t, 6.0, totalA, "defector takes the temptation payoff")
	require.Equal(t, 0.0, totalB, "cooperator takes the sucker payoff")
}

func TestPlayMatchAccumulatesRawTotals(t *testing.T) {
	// Without mistakes AllC vs AllC earns the reward every round, so totals
	// must be a whole multiple of it, unnormalized.
	totalA, totalB, err := PlayMatch(policy.NewAllC(cs), policy.NewAllC(cs), matrix, 0.9, 0, newRNG(42))
	require.NoError(t, err)
	require.Equal(t, totalA, totalB, "symmetric match must pay both players equally")
	rounds := totalA / 4
	require.Equal(t, float64(int(rounds)), rounds, "total must be rounds times the reward payoff")
	require.GreaterOrEqual(t, totalA, 4.0, "at least one round always plays")
}

func TestPlayMatchReproducible(t *testing.T) {
	a := policy.NewTitForTat(cs)
	b := policy.NewGrim(cs)

	firstA, firstB, err := PlayMatch(a, b, matrix, 0.9, 0.1, newRNG(99))
	require.NoError(t, err)
	secondA, secondB, err := PlayMatch(a, b, matrix, 0.9, 0.1, newRNG(99))
	require.NoError(t, err)

	require.Equal(t, firstA, secondA, "same seed must replay the same match")
	require.Equal(t, firstB, secondB, "same seed must replay the same match")
}

func TestPlayMatchRejectsInvalidParameters(t *testing.T) {
	a := policy.NewAllC(cs)

	for _, params := range [][2]float64{{1.0, 0}, {-0.1, 0}, {0.5, 1.0}, {0.5, -0.1}} {
		_, _, err := PlayMatch(a, a, matrix, params[0], params[1], newRNG(1))
		require.ErrorIs(t, err, game.ErrInvalidParameter,
			"delta=%v mu=%v must be rejected before any round plays", params[0], params[1])
	}
}

func TestPlayMatchPropagatesPolicyErrors(t *testing.T) {
	t.Run("policy failure is fatal to the match", func(t *testing.T) {
		_, _, err := PlayMatch(failing{round: 0}, policy.NewAllC(cs), matrix, 0.5, 0, newRNG(1))
		require.ErrorIs(t, err, game.ErrInvalidAction)
	})

	t.Run("out-of-characterset proposal fails the payoff lookup", func(t *testing.T) {
		_, _, err := PlayMatch(rogue{}, policy.NewAllC(cs), matrix, 0.5, 0, newRNG(1))
		require.ErrorIs(t, err, game.ErrInvalidAction)
	})
}

func TestPlayMatchMistakesChangeMoves(t *testing.T) {
	// With mu near 1 almost every AllC proposal flips to defection, so the
	// per-round payoffs must come from the defect rows of the matrix.
	totalA, totalB, err := PlayMatch(policy.NewAllC(cs), policy.NewAllC(cs), matrix, 0, 0.999999, newRNG(7))
	require.NoError(t, err)
	require.Equal(t, 2.0, totalA, "both proposals should flip to defection")
	require.Equal(t, 2.0, totalB, "both proposals should flip to defection")
}
