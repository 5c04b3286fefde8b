package experiments

import (
	"fmt"
	"time"

	"chessai/experiments/metrics"
	"chessai/game"
	"chessai/meta"
	"chessai/searcher"

	"github.com/rs/zerolog/log"
)

// DefaultCutoffs are the playout depths measured when none are given.
var DefaultCutoffs = []int{0, 10, 20, 40, 80}

type Throughput struct {
	Cutoff            int
	Rollouts          int
	Duration          time.Duration
	RolloutsPerSecond float64
}

// RunThroughputExperiment measures MCTS rollouts per second from the
// starting position for each playout cutoff and stores one move record per
// measurement.
func RunThroughputExperiment(settings meta.Settings, cutoffs []int) ([]Throughput, string, error) {
	if len(cutoffs) == 0 {
		cutoffs = DefaultCutoffs
	}
	s := settings.Search
	s.Algorithm = "mcts"
	cfg, err := searcher.ConfigFromSettings(s)
	if err != nil {
		return nil, "", err
	}
	evaluate, err := game.LookupEvaluator(s.Evaluator)
	if err != nil {
		return nil, "", err
	}

	log.Info().Msg("starting throughput experiment...")

	results := make([]Throughput, 0, len(cutoffs))
	configs := make([]metrics.AgentConfig, 0, len(cutoffs))
	records := make([]metrics.MoveRecord, 0, len(cutoffs))
	for i, cutoff := range cutoffs {
		cfg.PlayoutDepth = cutoff
		options := []searcher.Option{searcher.WithEvaluationFn(evaluate), searcher.WithMetrics()}
		if s.Seed != 0 {
			options = append(options, searcher.WithSeed(s.Seed))
		}
		result := searcher.NewMCTS(options...).Search(game.NewState(), cfg)

		throughput := Throughput{
			Cutoff:   cutoff,
			Rollouts: result.Rollouts,
			Duration: result.Duration,
		}
		if result.Duration > 0 {
			throughput.RolloutsPerSecond = float64(result.Rollouts) / result.Duration.Seconds()
		}
		results = append(results, throughput)
		log.Info().Msgf("cutoff %d: %d rollouts in %s (%.0f/s)", cutoff, result.Rollouts, result.Duration, throughput.RolloutsPerSecond)

		configs = append(configs, metrics.AgentConfig{
			ID:          i + 1,
			Name:        fmt.Sprintf("cutoff-%d", cutoff),
			Kind:        "mcts",
			Rollouts:    cfg.MaxRollouts,
			Duration:    cfg.TimeLimit,
			Cutoff:      cutoff,
			Exploration: cfg.Exploration,
			Evaluator:   s.Evaluator,
		})
		records = append(records, metrics.MoveRecord{
			Game: i + 1,
			MoveMetric: metrics.MoveMetric{
				Step:         1,
				Player:       game.White.String(),
				Move:         result.Move.String(),
				SearchMetric: result.Metric,
			},
		})
	}

	log.Info().Msg("completed throughput experiment")

	dir, err := storeRecords("throughput", settings.Experiment.OutDir, configs, nil, records)
	if err != nil {
		return nil, "", fmt.Errorf("failed to store throughput records: %w", err)
	}
	return results, dir, nil
}
