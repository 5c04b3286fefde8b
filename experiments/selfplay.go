package experiments

import (
	"fmt"
	"time"

	"chessai/engine"
	"chessai/experiments/metrics"
	"chessai/game"
	"chessai/meta"
	"chessai/searcher"
	"chessai/searcher/agent"

	"github.com/rs/zerolog/log"
)

// RunSelfPlay plays games between two training agents sharing the search
// settings. Moves are sampled from the root visit counts at the given
// temperature so repeated games diverge.
func RunSelfPlay(settings meta.Settings, temperature float64) (string, error) {
	cfg, err := searcher.ConfigFromSettings(settings.Search)
	if err != nil {
		return "", err
	}
	config := metrics.AgentConfig{
		ID:          1,
		Name:        "selfplay",
		Kind:        settings.Search.Algorithm,
		Rollouts:    cfg.MaxRollouts,
		Cutoff:      cfg.PlayoutDepth,
		Exploration: cfg.Exploration,
		Depth:       cfg.Depth,
		Evaluator:   settings.Search.Evaluator,
	}
	if cfg.UseTimeLimit {
		config.Duration = cfg.TimeLimit
	}

	log.Info().Msgf("starting self-play with %d games at temperature %.2f...", settings.Experiment.Games, temperature)

	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	for i := 1; i <= settings.Experiment.Games; i++ {
		var agents [2]agent.Agent
		for _, side := range []game.Side{game.White, game.Black} {
			s := settings.Search
			s.Seed = gameSeed(settings.Search.Seed, i, side)
			strategy, err := searcher.NewSearcher(s)
			if err != nil {
				return "", err
			}
			sampleSeed := s.Seed
			if sampleSeed == 0 {
				sampleSeed = uint64(time.Now().UnixNano())
			}
			agents[side] = agent.NewTrainingAgent(strategy, cfg, temperature, sampleSeed)
		}

		e := engine.NewLocalEngine(game.NewState(), agents[game.White], agents[game.Black])
		if settings.Experiment.MaxMoves > 0 {
			e.MaxMoves = settings.Experiment.MaxMoves
		}
		winner, gameMetric, moveMetrics, err := e.Run()
		if err != nil {
			return "", fmt.Errorf("game %d: %w", i, err)
		}

		gameRecords = append(gameRecords, metrics.GameRecord{
			ID:         i,
			Agent1:     config.ID,
			Agent2:     config.ID,
			GameMetric: gameMetric,
		})
		for _, mm := range moveMetrics {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: i, MoveMetric: mm})
		}
		log.Info().Msgf("completed self-play game %d with winner: %q", i, winner)
	}

	return storeRecords("selfplay", settings.Experiment.OutDir, []metrics.AgentConfig{config}, gameRecords, moveRecords)
}
