// Package montecarlo estimates the normalized expected payoff of the
// repeated game by simulating matches of geometric length, stopping either
// after a fixed trial count or once the sample-mean estimator reaches a
// target precision.
package montecarlo

import (
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"dilemma/engine"
	"dilemma/game"
)

const (
	defaultTrials  = 1000
	trialIncrement = 1000

	// The adaptive stop is only consulted past this many samples so a
	// handful of near-identical early matches cannot end the run.
	minAdaptiveSamples = 100
)

// Sample is one match's pair of accumulated raw payoffs.
type Sample struct {
	A float64
	B float64
}

type config struct {
	trials       int
	targetStdErr float64
	seed         uint64
	seeded       bool
	workers      int
}

func (c config) adaptive() bool {
	return c.targetStdErr > 0
}

// Option adjusts how Estimate runs.
type Option func(*config)

// WithTrials sets the fixed trial count, or the baseline batch size when a
// target standard error is also set.
func WithTrials(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.trials = n
		}
	}
}

// WithTargetStdErr switches to adaptive stopping: trials run in increments
// until both players' sample standard error falls below the target.
func WithTargetStdErr(target float64) Option {
	return func(c *config) {
		if target > 0 {
			c.targetStdErr = target
		}
	}
}

// WithSeed fixes the PRNG seed for reproducible runs. Parallel workers derive
// independent seeds from it; worker 0's stream matches the sequential engine.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// WithWorkers sets the worker pool size. The default is the host parallelism;
// 1 selects the sequential engine.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		trials:  defaultTrials,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.seeded {
		cfg.seed = uint64(time.Now().UnixNano())
	}
	return cfg
}

// workerSeed derives one worker's PRNG seed. Worker 0 keeps the base seed so
// a single-worker pool reproduces the sequential sample stream exactly.
func workerSeed(seed uint64, worker int) uint64 {
	return seed + uint64(worker)*0x9e3779b97f4a7c15
}

// Estimate runs Monte Carlo matches of a against b and returns both players'
// normalized expected payoffs.
//
// By default exactly the configured number of trials run. With a target
// standard error, the trial count is instead a baseline batch and further
// fixed-size increments run until both players' estimator standard errors
// drop below the target.
func Estimate(a, b game.Policy, matrix game.PayoffMatrix, delta, mu float64, opts ...Option) (float64, float64, error) {
	if err := game.ValidateProbabilities(delta, mu); err != nil {
		return 0, 0, err
	}
	cfg := newConfig(opts)

	if cfg.workers > 1 {
		return estimateParallel(a, b, matrix, delta, mu, cfg)
	}
	return estimateSequential(a, b, matrix, delta, mu, cfg)
}

func estimateSequential(a, b game.Policy, matrix game.PayoffMatrix, delta, mu float64, cfg config) (float64, float64, error) {
	rng := rand.New(rand.NewSource(workerSeed(cfg.seed, 0)))
	var estA, estB EstimatorState

	run := func(n int) error {
		for i := 0; i < n; i++ {
			totalA, totalB, err := engine.PlayMatch(a, b, matrix, delta, mu, rng)
			if err != nil {
				return fmt.Errorf("trial %d: %w", estA.Count(), err)
			}
			estA.Add(totalA)
			estB.Add(totalB)
		}
		return nil
	}

	if err := run(cfg.trials); err != nil {
		return 0, 0, err
	}
	if cfg.adaptive() {
		for estA.Count() < minAdaptiveSamples ||
			estA.StdErr() >= cfg.targetStdErr || estB.StdErr() >= cfg.targetStdErr {
			if err := run(trialIncrement); err != nil {
				return 0, 0, err
			}
		}
	}

	log.Debug().
		Int("trials", estA.Count()).
		Float64("stderrA", estA.StdErr()).
		Float64("stderrB", estB.StdErr()).
		Msg("montecarlo: sequential estimation complete")

	return estA.Mean() * (1 - delta), estB.Mean() * (1 - delta), nil
}
