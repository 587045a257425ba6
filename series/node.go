package series

import (
	"fmt"

	"dilemma/game"
)

// node is one unexpanded enumeration-tree work item: the probability mass of
// the path that reached it and the deterministic history pair along that
// path. The root node carries coefficient 1 and empty histories.
type node struct {
	coefficient float64
	histA       game.History
	histB       game.History
}

// outcomeProbs returns the probability of each per-round noise outcome in
// expansion order: no mistake, A mistakes, B mistakes, both mistake.
func outcomeProbs(mu float64) [4]float64 {
	return [4]float64{
		(1 - mu) * (1 - mu),
		mu * (1 - mu),
		mu * (1 - mu),
		mu * mu,
	}
}

// expander expands nodes against one policy pair and accumulates the running
// payoff totals. Workers each own one expander, so totals never need locking.
type expander struct {
	a, b      game.Policy
	matrix    game.PayoffMatrix
	delta     float64
	epsilon   float64
	probs     [4]float64
	maxPayoff float64

	totalA float64
	totalB float64
}

func newExpander(a, b game.Policy, matrix game.PayoffMatrix, delta, mu, epsilon float64) *expander {
	return &expander{
		a:         a,
		b:         b,
		matrix:    matrix,
		delta:     delta,
		epsilon:   epsilon,
		probs:     outcomeProbs(mu),
		maxPayoff: matrix.Max(),
	}
}

// expand processes one node. The no-mistake move pair is computed once and
// the three mistake variants are derived by flipping symbols, since policies
// are deterministic and a mistake is a post-hoc flip, not a re-decision. Each
// outcome's contribution goes straight into the running totals; each child
// whose subtree can still contribute more than epsilon is handed to emit.
func (e *expander) expand(n node, emit func(node)) error {
	moveA, err := e.a.Decide(n.histA, n.histB)
	if err != nil {
		return fmt.Errorf("player A, depth %d: %w", len(n.histA), err)
	}
	moveB, err := e.b.Decide(n.histB, n.histA)
	if err != nil {
		return fmt.Errorf("player B, depth %d: %w", len(n.histB), err)
	}

	csA := e.a.Charset()
	csB := e.b.Charset()
	variants := [4][2]game.Move{
		{moveA, moveB},
		{csA.Flip(moveA), moveB},
		{moveA, csB.Flip(moveB)},
		{csA.Flip(moveA), csB.Flip(moveB)},
	}

	for i, mv := range variants {
		weight := e.probs[i] * n.coefficient
		payA, payB, err := e.matrix.Payoff(mv[0], mv[1])
		if err != nil {
			return fmt.Errorf("depth %d: %w", len(n.histA), err)
		}
		e.totalA += payA * weight
		e.totalB += payB * weight

		// Prune whole subtrees whose best case falls below epsilon. The
		// child coefficient shrinks by at least delta per round, so the
		// worklist is guaranteed to drain.
		coefficient := e.delta * weight
		if coefficient*e.maxPayoff > e.epsilon {
			emit(node{
				coefficient: coefficient,
				histA:       n.histA.Extend(mv[0]),
				histB:       n.histB.Extend(mv[1]),
			})
		}
	}
	return nil
}
