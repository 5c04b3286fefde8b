package searcher

import (
	"fmt"

	"chessai/game"
	"chessai/meta"
)

// ConfigFromSettings converts file settings into a search configuration.
func ConfigFromSettings(s meta.SearchSettings) (Config, error) {
	promotions, err := game.ParsePromotions(s.Promotions)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		UseTimeLimit: s.UseTimeLimit,
		TimeLimit:    s.TimeLimit,
		MaxRollouts:  s.MaxRollouts,
		PlayoutDepth: s.PlayoutDepth,
		Exploration:  s.Exploration,
		Promotions:   promotions,
		Depth:        s.Depth,
	}
	if cfg.UseTimeLimit && cfg.TimeLimit <= 0 {
		return Config{}, fmt.Errorf("time limit must be positive, got %s", cfg.TimeLimit)
	}
	return cfg, nil
}

// NewSearcher builds the searcher named by s.Algorithm.
func NewSearcher(s meta.SearchSettings) (Searcher, error) {
	evaluate, err := game.LookupEvaluator(s.Evaluator)
	if err != nil {
		return nil, err
	}
	switch s.Algorithm {
	case "", "mcts":
		options := []Option{WithEvaluationFn(evaluate), WithMetrics()}
		if s.Seed != 0 {
			options = append(options, WithSeed(s.Seed))
		}
		return NewMCTS(options...), nil
	case "minimax":
		return NewMinimax(evaluate), nil
	}
	return nil, fmt.Errorf("unknown search algorithm %q", s.Algorithm)
}
