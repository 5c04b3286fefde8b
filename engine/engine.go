package engine

import (
	"chessai/experiments/metrics"
	"chessai/meta"
)

const MaxMoves = meta.MAX_MOVES

type Engine interface {
	// Run plays a game until it ends or a max number of moves is reached. The winner is
	// "white" or "black", or empty for a draw or an unfinished game.
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
