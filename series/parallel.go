package series

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"dilemma/game"
)

// partial carries one worker's accumulated totals back to the coordinator.
type partial struct {
	a     float64
	b     float64
	nodes int
}

// computeParallel expands the enumeration tree across a fixed worker pool.
//
// The shared pending channel is seeded with the root node. Workers prefer
// their private local stack and promote only short-history nodes to the
// shared channel, which keeps all workers fed early without funnelling the
// whole tree through one channel. A worker that finds the shared channel
// empty past the drain timeout flushes its partial totals to the result
// channel and exits; the coordinator joins every worker before summing
// partials and rescaling, so no contribution is dropped or double counted.
func computeParallel(a, b game.Policy, matrix game.PayoffMatrix, delta, mu, epsilon float64, cfg config) (float64, float64, error) {
	pending := make(chan node, 64*cfg.workers)
	results := make(chan partial, cfg.workers)
	pending <- node{coefficient: 1}

	var processed atomic.Int64

	var g errgroup.Group
	for w := 0; w < cfg.workers; w++ {
		g.Go(func() error {
			e := newExpander(a, b, matrix, delta, mu, epsilon)
			var local []node
			nodes := 0

			emit := func(child node) {
				if len(child.histA) <= shareDepth {
					select {
					case pending <- child:
						return
					default:
						// Shared channel is full; keep the node local
						// rather than block mid-expansion.
					}
				}
				local = append(local, child)
			}

			for {
				var n node
				if len(local) > 0 {
					n = local[len(local)-1]
					local = local[:len(local)-1]
				} else {
					select {
					case n = <-pending:
					case <-time.After(cfg.drainTimeout):
						results <- partial{a: e.totalA, b: e.totalB, nodes: nodes}
						return nil
					}
				}

				if processed.Add(1) > int64(cfg.nodeBudget) {
					return budgetError(cfg.nodeBudget, delta, mu, epsilon)
				}
				if err := e.expand(n, emit); err != nil {
					return err
				}
				nodes++
			}
		})
	}

	// A worker error means its partial totals are gone, so the whole
	// computation fails rather than returning a silently incomplete sum.
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	close(results)

	var totalA, totalB float64
	nodes := 0
	for p := range results {
		totalA += p.a
		totalB += p.b
		nodes += p.nodes
	}

	log.Debug().
		Int("nodes", nodes).
		Int("workers", cfg.workers).
		Float64("delta", delta).
		Float64("mu", mu).
		Float64("epsilon", epsilon).
		Msg("series: parallel expansion complete")

	return totalA * (1 - delta), totalB * (1 - delta), nil
}
