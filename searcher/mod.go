package searcher

import (
	"time"

	"chessai/experiments/metrics"
	"chessai/game"
)

// Searcher is a move-search strategy. Start runs one search in the
// background and delivers exactly one Result on the returned channel, which
// is then closed. Cancel asks a running search to stop at its next budget
// check.
type Searcher interface {
	Start(state *game.State, cfg Config) <-chan Result
	Cancel()
}

type Result struct {
	Move     game.Move // game.NoMove when no legal move exists
	Rollouts int
	Duration time.Duration
	Stats    []MoveStat // Root children in expansion order
	Metric   metrics.SearchMetric
}

func (r Result) Found() bool {
	return r.Move.IsValid()
}

// MoveStat summarizes one root child. Value is the average outcome for the
// side to move at the root, 0 when unvisited.
type MoveStat struct {
	Move   game.Move
	Visits int
	Value  float64
}

type Status int32

const (
	Idle Status = iota
	Running
	Completed
	Aborted
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// start launches search on its own goroutine behind a single-result channel.
func start(search func() Result) <-chan Result {
	results := make(chan Result, 1)
	go func() {
		defer close(results)
		results <- search()
	}()
	return results
}
