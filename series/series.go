// Package series computes the normalized expected payoff of the repeated
// game exactly, by enumerating the per-round noise-outcome tree breadth first
// and truncating branches whose remaining probability mass cannot contribute
// more than epsilon.
package series

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"dilemma/game"
)

// ErrBudgetExceeded reports that node expansion hit the processing cap before
// the worklist drained. This happens when epsilon is too small for the given
// delta and mu, where the tree would otherwise grow without practical bound.
var ErrBudgetExceeded = errors.New("series: node budget exceeded")

const (
	// Nodes with histories at most this long are promoted to the shared
	// channel in parallel mode; deeper nodes stay on the owning worker's
	// local stack to limit cross-worker contention.
	shareDepth = 2

	defaultNodeBudget   = 10_000_000
	defaultDrainTimeout = 100 * time.Millisecond
)

type config struct {
	workers      int
	nodeBudget   int
	drainTimeout time.Duration
}

// Option adjusts how Compute runs without changing what it computes.
type Option func(*config)

// WithWorkers sets the worker pool size. The default is the host parallelism;
// 1 selects the sequential engine.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithNodeBudget caps the total number of nodes expanded before Compute fails
// with ErrBudgetExceeded.
func WithNodeBudget(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.nodeBudget = n
		}
	}
}

// WithDrainTimeout sets how long a parallel worker waits on the empty shared
// channel before treating the worklist as drained.
func WithDrainTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.drainTimeout = d
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		workers:      runtime.NumCPU(),
		nodeBudget:   defaultNodeBudget,
		drainTimeout: defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Compute evaluates the normalized expected payoff for a against b under
// continuation probability delta, mistake probability mu, and truncation
// threshold epsilon.
//
// Branches are pruned once their coefficient times the maximum payoff
// magnitude drops to epsilon or below, which bounds the truncation error by
// epsilon per pruned boundary node rather than globally; callers must pick
// epsilon with delta in mind. The final totals are rescaled by (1-delta).
func Compute(a, b game.Policy, matrix game.PayoffMatrix, delta, mu, epsilon float64, opts ...Option) (float64, float64, error) {
	if err := game.ValidateProbabilities(delta, mu); err != nil {
		return 0, 0, err
	}
	if epsilon <= 0 {
		return 0, 0, fmt.Errorf("%w: epsilon %v must be positive", game.ErrInvalidParameter, epsilon)
	}

	cfg := newConfig(opts)
	if cfg.workers > 1 {
		return computeParallel(a, b, matrix, delta, mu, epsilon, cfg)
	}
	return computeSequential(a, b, matrix, delta, mu, epsilon, cfg)
}

func computeSequential(a, b game.Policy, matrix game.PayoffMatrix, delta, mu, epsilon float64, cfg config) (float64, float64, error) {
	e := newExpander(a, b, matrix, delta, mu, epsilon)

	queue := []node{{coefficient: 1}}
	emit := func(child node) {
		queue = append(queue, child)
	}

	processed := 0
	for head := 0; head < len(queue); head++ {
		if processed >= cfg.nodeBudget {
			return 0, 0, budgetError(cfg.nodeBudget, delta, mu, epsilon)
		}
		if err := e.expand(queue[head], emit); err != nil {
			return 0, 0, err
		}
		processed++

		// Drop the processed prefix now and then so the worklist does not
		// retain every node ever enqueued.
		if head > 1<<16 {
			queue = append([]node(nil), queue[head+1:]...)
			head = -1
		}
	}

	log.Debug().
		Int("nodes", processed).
		Float64("delta", delta).
		Float64("mu", mu).
		Float64("epsilon", epsilon).
		Msg("series: sequential expansion complete")

	return e.totalA * (1 - delta), e.totalB * (1 - delta), nil
}

func budgetError(budget int, delta, mu, epsilon float64) error {
	return fmt.Errorf("%w: %d nodes expanded (delta=%v mu=%v epsilon=%v)",
		ErrBudgetExceeded, budget, delta, mu, epsilon)
}
