// Package experiments sweeps parameter grids through both estimation engines
// and reports how closely they agree.
package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"dilemma/experiments/metrics"
	"dilemma/montecarlo"
	"dilemma/policy"
	"dilemma/series"
)

// RunSweep computes exact and Monte Carlo payoffs for every ordered policy
// pair at every grid point and returns one record per combination.
func RunSweep(cfg Config) ([]metrics.RunRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	matrix := cfg.Matrix()
	catalog := policy.Catalog(matrix.Charset)

	var seriesOpts []series.Option
	monteOpts := []montecarlo.Option{
		montecarlo.WithTrials(cfg.Trials),
		montecarlo.WithSeed(cfg.Seed),
	}
	if cfg.Workers > 0 {
		seriesOpts = append(seriesOpts, series.WithWorkers(cfg.Workers))
		monteOpts = append(monteOpts, montecarlo.WithWorkers(cfg.Workers))
	}
	if cfg.TargetStdErr > 0 {
		monteOpts = append(monteOpts, montecarlo.WithTargetStdErr(cfg.TargetStdErr))
	}

	total := len(cfg.Deltas) * len(cfg.Mus) * len(catalog) * len(catalog)
	log.Info().Msgf("starting sweep: %d combinations...", total)

	records := make([]metrics.RunRecord, 0, total)
	for _, delta := range cfg.Deltas {
		for _, mu := range cfg.Mus {
			log.Info().Msgf("sweeping grid point delta=%v mu=%v...", delta, mu)
			for _, a := range catalog {
				for _, b := range catalog {
					record, err := runOne(a, b, cfg, delta, mu, seriesOpts, monteOpts)
					if err != nil {
						return nil, fmt.Errorf("%s vs %s (delta=%v mu=%v): %w", a.Name, b.Name, delta, mu, err)
					}
					records = append(records, record)
				}
			}
		}
	}

	log.Info().Msgf("completed sweep: %d combinations", len(records))
	return records, nil
}

func runOne(a, b policy.Named, cfg Config, delta, mu float64, seriesOpts []series.Option, monteOpts []montecarlo.Option) (metrics.RunRecord, error) {
	matrix := cfg.Matrix()

	start := time.Now()
	exactA, exactB, err := series.Compute(a.Policy, b.Policy, matrix, delta, mu, cfg.Epsilon, seriesOpts...)
	if err != nil {
		return metrics.RunRecord{}, fmt.Errorf("exact engine: %w", err)
	}
	exactNanos := time.Since(start).Nanoseconds()

	start = time.Now()
	monteA, monteB, err := montecarlo.Estimate(a.Policy, b.Policy, matrix, delta, mu, monteOpts...)
	if err != nil {
		return metrics.RunRecord{}, fmt.Errorf("monte carlo engine: %w", err)
	}
	monteNanos := time.Since(start).Nanoseconds()

	return metrics.RunRecord{
		PolicyA:    a.Name,
		PolicyB:    b.Name,
		Delta:      delta,
		Mu:         mu,
		ExactA:     exactA,
		ExactB:     exactB,
		MonteA:     monteA,
		MonteB:     monteB,
		ExactNanos: exactNanos,
		MonteNanos: monteNanos,
	}, nil
}

// WriteResults stores the records and their agreement summary under the
// configured output directory and returns where they landed.
func WriteResults(cfg Config, records []metrics.RunRecord) (string, error) {
	writer, err := metrics.NewWriter(cfg.OutDir)
	if err != nil {
		return "", err
	}
	err = writer.WriteRunRecords(records)
	if err != nil {
		return "", err
	}

	summary := metrics.Summarize(records)
	err = writer.WriteSummary(summary)
	if err != nil {
		return "", err
	}

	log.Info().
		Int("runs", summary.Runs).
		Float64("meanDisagreement", summary.MeanDisagreement).
		Float64("maxDisagreement", summary.MaxDisagreement).
		Msgf("stored sweep results in %s", writer.Dir())
	return writer.Dir(), nil
}
