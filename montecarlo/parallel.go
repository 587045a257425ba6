package montecarlo

import (
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"dilemma/engine"
	"dilemma/game"
)

// workerResult carries one chunk's sample list, or the error that ended the
// worker, back to the coordinator. A failed chunk fails the whole estimate;
// partial sample lists are never silently folded in.
type workerResult struct {
	samples []Sample
	err     error
}

// estimateParallel splits trial counts evenly across a fixed worker pool.
// Workers persist across rounds, each with its own independently seeded PRNG,
// pulling chunk sizes from the work channel and pushing sample lists to the
// result channel. Under an adaptive target the coordinator recomputes the
// standard error across all samples collected so far after each round, then
// dispatches another increment if either player is still above target.
func estimateParallel(a, b game.Policy, matrix game.PayoffMatrix, delta, mu float64, cfg config) (float64, float64, error) {
	work := make(chan int, cfg.workers)
	results := make(chan workerResult, cfg.workers)

	var g errgroup.Group
	for w := 0; w < cfg.workers; w++ {
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(workerSeed(cfg.seed, w)))
			for n := range work {
				res := simulateChunk(a, b, matrix, delta, mu, n, rng)
				results <- res
				if res.err != nil {
					return res.err
				}
			}
			return nil
		})
	}

	var samplesA, samplesB []float64

	// dispatch runs one round: every worker gets one chunk, and the round
	// only completes once every worker has reported back.
	dispatch := func(total int) error {
		chunks := splitTrials(total, cfg.workers)
		for _, n := range chunks {
			work <- n
		}
		var firstErr error
		for range chunks {
			res := <-results
			if res.err != nil {
				if firstErr == nil {
					firstErr = res.err
				}
				continue
			}
			for _, s := range res.samples {
				samplesA = append(samplesA, s.A)
				samplesB = append(samplesB, s.B)
			}
		}
		return firstErr
	}

	finish := func(err error) (float64, float64, error) {
		close(work)
		if werr := g.Wait(); err == nil {
			err = werr
		}
		if err != nil {
			return 0, 0, err
		}

		log.Debug().
			Int("trials", len(samplesA)).
			Int("workers", cfg.workers).
			Msg("montecarlo: parallel estimation complete")

		meanA := stat.Mean(samplesA, nil)
		meanB := stat.Mean(samplesB, nil)
		return meanA * (1 - delta), meanB * (1 - delta), nil
	}

	if err := dispatch(cfg.trials); err != nil {
		return finish(err)
	}
	if cfg.adaptive() {
		for len(samplesA) < minAdaptiveSamples ||
			stdErr(samplesA) >= cfg.targetStdErr || stdErr(samplesB) >= cfg.targetStdErr {
			if err := dispatch(trialIncrement); err != nil {
				return finish(err)
			}
		}
	}
	return finish(nil)
}

func simulateChunk(a, b game.Policy, matrix game.PayoffMatrix, delta, mu float64, n int, rng *rand.Rand) workerResult {
	samples := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		totalA, totalB, err := engine.PlayMatch(a, b, matrix, delta, mu, rng)
		if err != nil {
			return workerResult{err: err}
		}
		samples = append(samples, Sample{A: totalA, B: totalB})
	}
	return workerResult{samples: samples}
}

// splitTrials spreads total over workers chunks differing by at most one, so
// every dispatched round simulates exactly the requested trial count.
func splitTrials(total, workers int) []int {
	chunks := make([]int, workers)
	base := total / workers
	rem := total % workers
	for i := range chunks {
		chunks[i] = base
		if i < rem {
			chunks[i]++
		}
	}
	return chunks
}

func stdErr(samples []float64) float64 {
	if len(samples) < 2 {
		return math.Inf(1)
	}
	return stat.StdDev(samples, nil) / math.Sqrt(float64(len(samples)))
}
