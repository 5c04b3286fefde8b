package experiments

import (
	"context"
	"fmt"

	"chessai/engine"
	"chessai/experiments/metrics"
	"chessai/game"
	"chessai/meta"
	"chessai/searcher"
	"chessai/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// RunMatch plays every pair of configured agents against each other,
// alternating colors between games, and returns the run directory holding
// the records.
func RunMatch(settings meta.Settings) (string, error) {
	configs := agentConfigs(settings)
	if len(configs) < 2 {
		return "", fmt.Errorf("a match needs at least two agents, got %d", len(configs))
	}

	matchUps := [][2]metrics.AgentConfig{}
	for i := range configs {
		for j := i + 1; j < len(configs); j++ {
			matchUps = append(matchUps, [2]metrics.AgentConfig{configs[i], configs[j]})
		}
	}
	return runExperiment(context.Background(), "match", settings, configs, matchUps)
}

// agentConfigs resolves the experiment agents against the search defaults.
// Without configured agents an MCTS agent meets a minimax agent.
func agentConfigs(settings meta.Settings) []metrics.AgentConfig {
	agents := settings.Experiment.Agents
	if len(agents) == 0 {
		agents = []meta.AgentSettings{{Algorithm: "mcts"}, {Algorithm: "minimax"}}
	}

	base := settings.Search
	configs := make([]metrics.AgentConfig, 0, len(agents))
	for i, a := range agents {
		config := metrics.AgentConfig{
			ID:          i + 1,
			Kind:        firstNonZero(a.Algorithm, base.Algorithm),
			Rollouts:    firstNonZero(a.Rollouts, base.MaxRollouts),
			Duration:    a.Duration,
			Cutoff:      firstNonZero(a.Cutoff, base.PlayoutDepth),
			Exploration: firstNonZero(a.Exploration, base.Exploration),
			Depth:       firstNonZero(a.Depth, base.Depth),
			Evaluator:   firstNonZero(a.Evaluator, base.Evaluator),
			URL:         a.URL,
		}
		if config.Duration == 0 && base.UseTimeLimit {
			config.Duration = base.TimeLimit
		}
		if a.URL != "" {
			config.Kind = "remote"
		}
		config.Name = firstNonZero(a.Name, fmt.Sprintf("%s-%d", config.Kind, config.ID))
		configs = append(configs, config)
	}
	return configs
}

func firstNonZero[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

type gameJob struct {
	id    int
	white metrics.AgentConfig
	black metrics.AgentConfig
}

func runExperiment(ctx context.Context, name string, settings meta.Settings, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig) (string, error) {
	games := settings.Experiment.Games
	jobs := make([]gameJob, 0, len(matchUps)*games)
	for _, matchUp := range matchUps {
		for i := 0; i < games; i++ {
			job := gameJob{id: len(jobs) + 1, white: matchUp[0], black: matchUp[1]}
			if i%2 == 1 {
				job.white, job.black = job.black, job.white
			}
			jobs = append(jobs, job)
		}
	}

	log.Info().Msgf("starting %s experiment with %d games...", name, len(jobs))

	// Each game writes only its own slot
	gameRecords := make([]metrics.GameRecord, len(jobs))
	moveRecords := make([][]metrics.MoveRecord, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(settings.Experiment.Parallel, 1))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			winner, gameMetric, moveMetrics, err := runGame(job, settings)
			if err != nil {
				return fmt.Errorf("game %d: %w", job.id, err)
			}

			gameRecords[i] = metrics.GameRecord{
				ID:         job.id,
				Agent1:     job.white.ID,
				Agent2:     job.black.ID,
				GameMetric: gameMetric,
			}
			for _, mm := range moveMetrics {
				moveRecords[i] = append(moveRecords[i], metrics.MoveRecord{
					Game:       job.id,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed game %d of %d (%s vs %s) with winner: %q",
				job.id, len(jobs), job.white.Name, job.black.Name, winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	log.Info().Msgf("completed %s experiment", name)

	var moves []metrics.MoveRecord
	for _, records := range moveRecords {
		moves = append(moves, records...)
	}
	return storeRecords(name, settings.Experiment.OutDir, configs, gameRecords, moves)
}

func storeRecords(name, outDir string, configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(outDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	// Store experiment metadata
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", err
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	if err := writer.WriteGameRecords(games); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moves); err != nil {
		return "", err
	}
	if err := writer.WriteMoveRecordsParquet(moves); err != nil {
		return "", err
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}

// runGame executes a single game between two agents and returns the winner
func runGame(job gameJob, settings meta.Settings) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	white, err := createAgent(job.white, settings.Search, gameSeed(settings.Search.Seed, job.id, game.White))
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	black, err := createAgent(job.black, settings.Search, gameSeed(settings.Search.Seed, job.id, game.Black))
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}

	e := engine.NewLocalEngine(game.NewState(), white, black)
	if settings.Experiment.MaxMoves > 0 {
		e.MaxMoves = settings.Experiment.MaxMoves
	}
	return e.Run()
}

// gameSeed derives a distinct seed per game and side. A zero base keeps
// seeding from the clock.
func gameSeed(base uint64, gameID int, side game.Side) uint64 {
	if base == 0 {
		return 0
	}
	return base + uint64(2*gameID+int(side))
}

func createAgent(config metrics.AgentConfig, base meta.SearchSettings, seed uint64) (agent.Agent, error) {
	if config.Kind == "remote" {
		remote := engine.NewRemoteAgent(config.URL)
		remote.MaxRollouts = config.Rollouts
		remote.TimeLimit = config.Duration
		return remote, nil
	}

	s := searchSettings(config, base)
	s.Seed = seed
	strategy, err := searcher.NewSearcher(s)
	if err != nil {
		return nil, fmt.Errorf("agent %d: %w", config.ID, err)
	}
	cfg, err := searcher.ConfigFromSettings(s)
	if err != nil {
		return nil, fmt.Errorf("agent %d: %w", config.ID, err)
	}
	return agent.NewEvaluationAgent(strategy, cfg), nil
}

func searchSettings(config metrics.AgentConfig, base meta.SearchSettings) meta.SearchSettings {
	s := base
	s.Algorithm = config.Kind
	s.MaxRollouts = config.Rollouts
	s.UseTimeLimit = config.Duration > 0
	s.TimeLimit = config.Duration
	s.PlayoutDepth = config.Cutoff
	s.Exploration = config.Exploration
	s.Depth = config.Depth
	s.Evaluator = config.Evaluator
	return s
}
