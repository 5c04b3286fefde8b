package agent

import (
	"chessai/experiments/metrics"
	"chessai/game"
	"chessai/searcher"
)

type evaluationAgent struct {
	searcher searcher.Searcher
	cfg      searcher.Config
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(s searcher.Searcher, cfg searcher.Config) Agent {
	return evaluationAgent{searcher: s, cfg: cfg}
}

func (a evaluationAgent) FindMove(state *game.State) (game.Move, metrics.SearchMetric, error) {
	result := search(a.searcher, state, a.cfg)
	return result.Move, result.Metric, nil
}
