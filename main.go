package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"chessai/engine"
	"chessai/experiments"
	"chessai/game"
	"chessai/meta"
	"chessai/searcher"
	"chessai/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type options struct {
	mode        string
	fen         string
	remote      string
	cutoffs     string
	temperature float64
}

func main() {
	configPath := flag.String("config", "", "YAML settings file")
	mode := flag.String("mode", "search", "search | serve | match | throughput | selfplay")
	fen := flag.String("fen", "", "Position to search (default: starting position)")
	seed := flag.Uint64("seed", 0, "Rollout seed (0 seeds from the clock)")
	rollouts := flag.Int("rollouts", 0, "Rollout budget per search")
	duration := flag.Duration("duration", 0, "Time budget per search")
	algorithm := flag.String("algorithm", "", "mcts | minimax")
	addr := flag.String("addr", "", "Agent server address")
	remote := flag.String("remote", "", "Agent server URL to search with instead of a local searcher")
	games := flag.Int("games", 0, "Games per matchup")
	cutoffs := flag.String("cutoffs", "", "Comma separated playout cutoffs for the throughput experiment")
	temperature := flag.Float64("temperature", 1.0, "Self-play sampling temperature")
	flag.Parse()

	settings := meta.Defaults()
	if *configPath != "" {
		var err error
		settings, err = meta.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	// Flags override the settings file
	if *seed != 0 {
		settings.Search.Seed = *seed
	}
	if *rollouts > 0 {
		settings.Search.MaxRollouts = *rollouts
		if *duration == 0 {
			settings.Search.UseTimeLimit = false
		}
	}
	if *duration > 0 {
		settings.Search.UseTimeLimit = true
		settings.Search.TimeLimit = *duration
	}
	if *algorithm != "" {
		settings.Search.Algorithm = *algorithm
	}
	if *addr != "" {
		settings.Server.Addr = *addr
	}
	if *games > 0 {
		settings.Experiment.Games = *games
	}

	setupLogging(settings.LogLevel)

	err := run(options{
		mode:        *mode,
		fen:         *fen,
		remote:      *remote,
		cutoffs:     *cutoffs,
		temperature: *temperature,
	}, settings)
	if err != nil {
		log.Fatal().Err(err).Msgf("%s failed", *mode)
	}
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Msgf("unknown log level %q, using info", level)
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func run(opts options, settings meta.Settings) error {
	switch opts.mode {
	case "search":
		return search(opts, settings)
	case "serve":
		return serve(settings)
	case "match":
		dir, err := experiments.RunMatch(settings)
		if err != nil {
			return err
		}
		fmt.Println(dir)
		return nil
	case "throughput":
		cutoffs, err := parseCutoffs(opts.cutoffs)
		if err != nil {
			return err
		}
		results, dir, err := experiments.RunThroughputExperiment(settings, cutoffs)
		if err != nil {
			return err
		}
		for _, result := range results {
			fmt.Printf("cutoff=%d rollouts=%d duration=%s rollouts/s=%.0f\n",
				result.Cutoff, result.Rollouts, result.Duration, result.RolloutsPerSecond)
		}
		fmt.Println(dir)
		return nil
	case "selfplay":
		dir, err := experiments.RunSelfPlay(settings, opts.temperature)
		if err != nil {
			return err
		}
		fmt.Println(dir)
		return nil
	}
	return fmt.Errorf("unknown mode %q", opts.mode)
}

func search(opts options, settings meta.Settings) error {
	state := game.NewState()
	if opts.fen != "" {
		var err error
		state, err = game.FromFEN(opts.fen)
		if err != nil {
			return err
		}
	}

	if opts.remote != "" {
		remote := engine.NewRemoteAgent(opts.remote)
		remote.MaxRollouts = settings.Search.MaxRollouts
		if settings.Search.UseTimeLimit {
			remote.TimeLimit = settings.Search.TimeLimit
		}
		move, metric, err := remote.FindMove(state)
		if err != nil {
			return err
		}
		fmt.Printf("bestmove %s\n", move)
		log.Info().Msgf("%d rollouts in %s", metric.Rollouts, metric.Duration)
		return nil
	}

	strategy, err := searcher.NewSearcher(settings.Search)
	if err != nil {
		return err
	}
	cfg, err := searcher.ConfigFromSettings(settings.Search)
	if err != nil {
		return err
	}

	// Interrupting a time-limited search returns the best move so far
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	results := strategy.Start(state, cfg)
	var result searcher.Result
	select {
	case result = <-results:
	case <-interrupt:
		strategy.Cancel()
		result = <-results
	}

	for _, stat := range result.Stats {
		log.Debug().Msgf("%s visits=%d value=%.3f", stat.Move, stat.Visits, stat.Value)
	}
	log.Info().Msgf("%d rollouts in %s", result.Rollouts, result.Duration)
	fmt.Printf("bestmove %s\n", result.Move)
	return nil
}

func serve(settings meta.Settings) error {
	strategy, err := searcher.NewSearcher(settings.Search)
	if err != nil {
		return err
	}
	cfg, err := searcher.ConfigFromSettings(settings.Search)
	if err != nil {
		return err
	}
	err = agent.StartAgentServer(settings.Server.Addr, agent.NewServer(strategy, cfg))
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func parseCutoffs(text string) ([]int, error) {
	if text == "" {
		return nil, nil
	}
	var cutoffs []int
	for _, field := range strings.Split(text, ",") {
		cutoff, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("invalid cutoff %q: %w", field, err)
		}
		cutoffs = append(cutoffs, cutoff)
	}
	return cutoffs, nil
}
