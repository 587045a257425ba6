package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"dilemma/experiments"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML sweep config (defaults used when empty)")
	workers := flag.Int("workers", 0, "worker pool size override (0 keeps the config value)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := experiments.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = experiments.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load sweep config")
		}
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	records, err := experiments.RunSweep(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("sweep failed")
	}

	dir, err := experiments.WriteResults(cfg, records)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to write sweep results")
	}

	fmt.Fprintf(os.Stdout, "wrote %d results to %s\n", len(records), dir)
}
