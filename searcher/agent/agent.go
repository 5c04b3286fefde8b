package agent

import (
	"chessai/experiments/metrics"
	"chessai/game"
	"chessai/searcher"
)

type Agent interface {
	// FindMove returns the move to play and performance metrics (if collected) from the search.
	// game.NoMove means the side to move has no legal move.
	FindMove(state *game.State) (game.Move, metrics.SearchMetric, error)
}

// search runs one search to completion on s.
func search(s searcher.Searcher, state *game.State, cfg searcher.Config) searcher.Result {
	return <-s.Start(state, cfg)
}
