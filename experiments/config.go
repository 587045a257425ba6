package experiments

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dilemma/game"
)

// Config drives a sweep: every ordered policy pair from the catalog plays at
// every (delta, mu) grid point through both engines.
type Config struct {
	Deltas  []float64 `yaml:"deltas"`
	Mus     []float64 `yaml:"mus"`
	Epsilon float64   `yaml:"epsilon"`

	// Monte Carlo settings. A positive TargetStdErr switches the estimator
	// to adaptive stopping with Trials as the baseline batch.
	Trials       int     `yaml:"trials"`
	TargetStdErr float64 `yaml:"target_stderr"`
	Seed         uint64  `yaml:"seed"`

	Workers int    `yaml:"workers"`
	OutDir  string `yaml:"out_dir"`

	// Payoff matrix in the temptation/reward/punishment/sucker
	// parameterization.
	Temptation float64 `yaml:"temptation"`
	Reward     float64 `yaml:"reward"`
	Punishment float64 `yaml:"punishment"`
	Sucker     float64 `yaml:"sucker"`
}

// DefaultConfig returns the sweep used when no config file is given: a small
// grid over the classic prisoner's dilemma payoffs.
func DefaultConfig() Config {
	return Config{
		Deltas:     []float64{0.5, 0.9},
		Mus:        []float64{0, 0.01},
		Epsilon:    1e-6,
		Trials:     10000,
		Seed:       1234,
		OutDir:     "results",
		Temptation: 6,
		Reward:     4,
		Punishment: 2,
		Sucker:     0,
	}
}

// LoadConfig reads a YAML sweep config, filling unset fields from the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects grids the engines would refuse anyway, before any work
// starts.
func (c Config) Validate() error {
	if len(c.Deltas) == 0 || len(c.Mus) == 0 {
		return fmt.Errorf("%w: sweep grid must not be empty", game.ErrInvalidParameter)
	}
	for _, delta := range c.Deltas {
		for _, mu := range c.Mus {
			if err := game.ValidateProbabilities(delta, mu); err != nil {
				return err
			}
		}
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon %v must be positive", game.ErrInvalidParameter, c.Epsilon)
	}
	if c.Trials <= 0 {
		return fmt.Errorf("%w: trials %d must be positive", game.ErrInvalidParameter, c.Trials)
	}
	return nil
}

// Matrix builds the payoff matrix the sweep plays with.
func (c Config) Matrix() game.PayoffMatrix {
	return game.NewPrisonersDilemma(game.DefaultCharset(), c.Temptation, c.Reward, c.Punishment, c.Sucker)
}
