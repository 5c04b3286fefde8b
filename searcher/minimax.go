package searcher

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"chessai/experiments/metrics"
	"chessai/game"

	"github.com/rs/zerolog/log"
)

// Minimax is a fixed-depth alpha-beta search over the full rules, scoring
// leaves with the same static evaluator the rollouts use.
type Minimax struct {
	evaluate game.Evaluate
	status   atomic.Int32
	cancel   atomic.Bool
	nodes    int
}

func NewMinimax(evaluate game.Evaluate) *Minimax {
	if evaluate == nil {
		evaluate = game.EvaluateMaterial
	}
	return &Minimax{evaluate: evaluate}
}

func (m *Minimax) Status() Status {
	return Status(m.status.Load())
}

// Cancel stops a time-limited search before its next root move. At least one
// root move is always searched.
func (m *Minimax) Cancel() {
	m.cancel.Store(true)
}

func (m *Minimax) Start(state *game.State, cfg Config) <-chan Result {
	m.prepare()
	state = state.Clone()
	return start(func() Result {
		return m.search(state, cfg)
	})
}

func (m *Minimax) Search(state *game.State, cfg Config) Result {
	m.prepare()
	return m.search(state.Clone(), cfg)
}

func (m *Minimax) prepare() {
	m.cancel.Store(false)
	m.status.Store(int32(Running))
}

func (m *Minimax) search(state *game.State, cfg Config) Result {
	startTime := time.Now()
	depth := max(cfg.Depth, 1)
	m.nodes = 0

	best := game.NoMove
	alpha := math.Inf(-1)
	aborted := false
	var stats []MoveStat
	for _, move := range state.LegalMoves(true, cfg.Promotions) {
		if cfg.UseTimeLimit && best.IsValid() {
			if m.cancel.Load() {
				aborted = true
				break
			}
			if time.Since(startTime) >= cfg.TimeLimit {
				break
			}
		}
		child := mustPlay(state, move)
		// Values of pruned moves are upper bounds
		value := 1 - m.negamax(child, depth-1, 0, 1-alpha, cfg.Promotions)
		stats = append(stats, MoveStat{Move: move, Visits: 1, Value: value})
		if value > alpha {
			alpha = value
			best = move
		}
	}

	elapsed := time.Since(startTime)
	log.Debug().
		Str("fen", state.FEN()).
		Int("depth", depth).
		Int("nodes", m.nodes).
		Dur("elapsed", elapsed).
		Msgf("selected move %s", best)

	if aborted {
		m.status.Store(int32(Aborted))
	} else {
		m.status.Store(int32(Completed))
	}
	return Result{
		Move:     best,
		Rollouts: m.nodes,
		Duration: elapsed,
		Stats:    stats,
		Metric:   metrics.SearchMetric{Duration: elapsed, Rollouts: m.nodes, TreeSize: m.nodes},
	}
}

// negamax returns the value of state for its side to move, searching the
// window (alpha, beta).
func (m *Minimax) negamax(state *game.State, depth int, alpha, beta float64, promos game.Promotions) float64 {
	m.nodes++
	moves := state.LegalMoves(false, promos)
	if len(moves) == 0 {
		switch state.Outcome() {
		case game.Checkmate:
			return Loss
		case game.Stalemate:
			return Draw
		}
	}
	if depth <= 0 || len(moves) == 0 {
		return clamp01(m.evaluate(state.Lightweight(), state.Turn()))
	}

	best := math.Inf(-1)
	for _, move := range moves {
		value := 1 - m.negamax(mustPlay(state, move), depth-1, 1-beta, 1-alpha, promos)
		best = math.Max(best, value)
		alpha = math.Max(alpha, best)
		if alpha >= beta {
			break
		}
	}
	return best
}

func mustPlay(state *game.State, move game.Move) *game.State {
	next := state.Clone()
	if err := next.Play(move); err != nil {
		panic(fmt.Sprintf("generated move is not playable: %v", err))
	}
	return next
}
