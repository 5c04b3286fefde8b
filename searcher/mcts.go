package searcher

import (
	"sync/atomic"
	"time"

	"chessai/experiments/metrics"
	"chessai/game"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(m *MCTS)

// MCTS selects moves by Monte Carlo tree search with UCB1 selection and
// random rollouts. One instance runs one search at a time.
type MCTS struct {
	rng      *rand.Rand
	evaluate game.Evaluate
	metrics  metrics.Collector
	status   atomic.Int32
	cancel   atomic.Bool
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		rng:      rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		evaluate: game.EvaluateMaterial,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *MCTS) Status() Status {
	return Status(m.status.Load())
}

// Cancel stops a time-limited search at its next budget check. Searches
// bounded only by rollouts run to completion.
func (m *MCTS) Cancel() {
	m.cancel.Store(true)
}

func (m *MCTS) Start(state *game.State, cfg Config) <-chan Result {
	m.prepare()
	state = state.Clone()
	return start(func() Result {
		return m.search(state, cfg)
	})
}

// Search runs one search on the calling goroutine.
func (m *MCTS) Search(state *game.State, cfg Config) Result {
	m.prepare()
	return m.search(state.Clone(), cfg)
}

func (m *MCTS) prepare() {
	m.cancel.Store(false)
	m.status.Store(int32(Running))
}

func (m *MCTS) search(state *game.State, cfg Config) Result {
	id := uuid.NewString()
	startTime := time.Now()
	m.metrics.Start(cfg.PlayoutDepth, cfg.Exploration)

	t := newTree(state, cfg)
	rollouts := 0
	aborted := false
	for !t.root().isTerminal() {
		if cfg.UseTimeLimit {
			if m.cancel.Load() {
				aborted = true
				break
			}
			if time.Since(startTime) >= cfg.TimeLimit {
				break
			}
		}
		if rollouts >= cfg.MaxRollouts {
			break
		}
		m.iterate(t, cfg.PlayoutDepth)
		rollouts++
		m.metrics.AddRollout()
	}

	m.metrics.SetTreeSize(t.size())
	metric := m.metrics.Complete()
	move, stats := t.rootStats()
	elapsed := time.Since(startTime)

	log.Debug().
		Str("search", id).
		Str("fen", state.FEN()).
		Int("rollouts", rollouts).
		Int("nodes", t.size()).
		Int("depth", t.depth()).
		Dur("elapsed", elapsed).
		Bool("aborted", aborted).
		Msgf("selected move %s", move)

	if aborted {
		m.status.Store(int32(Aborted))
	} else {
		m.status.Store(int32(Completed))
	}
	return Result{
		Move:     move,
		Rollouts: rollouts,
		Duration: elapsed,
		Stats:    stats,
		Metric:   metric,
	}
}

// iterate runs one select, expand, simulate and backup cycle.
func (m *MCTS) iterate(t *tree, cutoff int) {
	leaf := t.expand(t.selectLeaf())
	score := m.simulate(t.get(leaf), cutoff)
	// score is for the side to move at leaf, the node stores its mover's view
	t.backup(leaf, 1-score)
}

// simulate scores n for its side to move. Finished games are scored
// directly; anything else is rolled out on the lightweight board.
func (m *MCTS) simulate(n *node, cutoff int) float64 {
	if n.isTerminal() {
		switch n.state.Outcome() {
		case game.Checkmate:
			m.metrics.AddTerminalVisit()
			return Loss
		case game.Stalemate:
			m.metrics.AddTerminalVisit()
			return Draw
		}
	}

	score, decisive := playout(n.state.Lightweight(), n.state.Turn(), cutoff, m.rng, m.evaluate)
	if decisive {
		m.metrics.AddDecisiveRollout()
	}
	return score
}
