package engine

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chessai/experiments/metrics"
	"chessai/game"
	"chessai/searcher"
	"chessai/searcher/agent"

	"github.com/stretchr/testify/require"
)

const backRank = "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"

func minimaxAgent(depth int) agent.Agent {
	cfg := searcher.DefaultConfig()
	cfg.UseTimeLimit = false
	cfg.Depth = depth
	return agent.NewEvaluationAgent(searcher.NewMinimax(game.EvaluateMaterial), cfg)
}

func mctsAgent(rollouts int) agent.Agent {
	cfg := searcher.DefaultConfig()
	cfg.UseTimeLimit = false
	cfg.MaxRollouts = rollouts
	return agent.NewEvaluationAgent(searcher.NewMCTS(searcher.WithSeed(1), searcher.WithMetrics()), cfg)
}

type failingAgent struct{}

func (failingAgent) FindMove(*game.State) (game.Move, metrics.SearchMetric, error) {
	return game.NoMove, metrics.SearchMetric{}, errors.New("boom")
}

type passingAgent struct{}

func (passingAgent) FindMove(*game.State) (game.Move, metrics.SearchMetric, error) {
	return game.NoMove, metrics.SearchMetric{}, nil
}

// scriptedAgent plays the given UCI moves in order, shared by both sides.
type scriptedAgent struct {
	moves *[]string
}

func (a scriptedAgent) FindMove(state *game.State) (game.Move, metrics.SearchMetric, error) {
	next := (*a.moves)[0]
	*a.moves = (*a.moves)[1:]
	move, err := state.ParseMove(next)
	return move, metrics.SearchMetric{}, err
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("plays until checkmate", func(t *testing.T) {
		state, err := game.FromFEN(backRank)
		require.NoError(t, err)
		e := NewLocalEngine(state, minimaxAgent(1), minimaxAgent(1))

		winner, gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, "white", winner)
		require.Equal(t, "white", gameMetric.StartingPlayer)
		require.Equal(t, 1, gameMetric.TotalMoves)
		require.Len(t, moveMetrics, 1)
		require.Equal(t, "a1a8", moveMetrics[0].Move)
		require.Equal(t, game.Checkmate, e.State.Outcome())
		require.Equal(t, "checkmate", gameMetric.Termination)
		require.Equal(t, e.State.FEN(), gameMetric.FinalFEN)
	})

	t.Run("stops at the move cap", func(t *testing.T) {
		e := NewLocalEngine(game.NewState(), mctsAgent(30), mctsAgent(30))
		e.MaxMoves = 4

		winner, gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.Empty(t, winner)
		require.Equal(t, 4, gameMetric.TotalMoves)
		require.Equal(t, "ongoing", gameMetric.Termination)
		require.Len(t, moveMetrics, 4)
		require.Equal(t, []string{"white", "black", "white", "black"},
			[]string{moveMetrics[0].Player, moveMetrics[1].Player, moveMetrics[2].Player, moveMetrics[3].Player})
		require.Equal(t, 30, moveMetrics[0].Rollouts)
	})

	t.Run("does not modify the starting state", func(t *testing.T) {
		state := game.NewState()
		fen := state.FEN()
		e := NewLocalEngine(state, mctsAgent(10), mctsAgent(10))
		e.MaxMoves = 2

		_, _, _, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, fen, state.FEN())
	})

	t.Run("finished game plays no move", func(t *testing.T) {
		state, err := game.FromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
		require.NoError(t, err)

		winner, gameMetric, _, err := NewLocalEngine(state, failingAgent{}, failingAgent{}).Run()

		require.NoError(t, err)
		require.Empty(t, winner, "Stalemate is a draw")
		require.Zero(t, gameMetric.TotalMoves)
	})

	t.Run("insufficient material is a draw", func(t *testing.T) {
		state, err := game.FromFEN("7k/8/8/8/8/8/8/KN6 w - - 0 1")
		require.NoError(t, err)

		winner, gameMetric, _, err := NewLocalEngine(state, failingAgent{}, failingAgent{}).Run()

		require.NoError(t, err)
		require.Empty(t, winner)
		require.Zero(t, gameMetric.TotalMoves)
		require.Equal(t, "insufficient_material", gameMetric.Termination)
	})

	t.Run("threefold repetition is a draw", func(t *testing.T) {
		moves := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8", "e2e4"}
		script := scriptedAgent{moves: &moves}

		winner, gameMetric, moveMetrics, err := NewLocalEngine(game.NewState(), script, script).Run()

		require.NoError(t, err)
		require.Empty(t, winner)
		require.Equal(t, 8, gameMetric.TotalMoves, "Start position occurs a third time after 8 plies")
		require.Len(t, moveMetrics, 8)
		require.Equal(t, "threefold_repetition", gameMetric.Termination)
	})

	t.Run("agent errors end the game", func(t *testing.T) {
		_, _, _, err := NewLocalEngine(game.NewState(), failingAgent{}, failingAgent{}).Run()

		require.ErrorContains(t, err, "boom")
	})

	t.Run("agent without a move in an ongoing game", func(t *testing.T) {
		_, _, _, err := NewLocalEngine(game.NewState(), passingAgent{}, passingAgent{}).Run()

		require.ErrorIs(t, err, ErrNoMove)
	})
}

func TestRemoteAgent(t *testing.T) {
	cfg := searcher.DefaultConfig()
	cfg.UseTimeLimit = false
	cfg.MaxRollouts = 200
	server := httptest.NewServer(agent.NewServer(searcher.NewMCTS(searcher.WithSeed(1)), cfg).Router())
	defer server.Close()

	t.Run("finds a legal move", func(t *testing.T) {
		a := NewRemoteAgent(server.URL)
		a.MaxRollouts = 40
		state := game.NewState()

		move, metric, err := a.FindMove(state)

		require.NoError(t, err)
		require.Contains(t, state.LegalMoves(true, game.AllPromotions), move)
		require.Equal(t, 40, metric.Rollouts)
	})

	t.Run("no move in a finished game", func(t *testing.T) {
		state, err := game.FromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
		require.NoError(t, err)

		move, _, err := NewRemoteAgent(server.URL).FindMove(state)

		require.NoError(t, err)
		require.Equal(t, game.NoMove, move)
	})

	t.Run("server errors are reported", func(t *testing.T) {
		broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer broken.Close()

		_, _, err := NewRemoteAgent(broken.URL).FindMove(game.NewState())

		require.ErrorContains(t, err, "503")
	})

	t.Run("rollout budget overrides the server time limit", func(t *testing.T) {
		timedCfg := searcher.DefaultConfig()
		timedCfg.TimeLimit = 5 * time.Millisecond
		timedCfg.MaxRollouts = 1 << 30
		timed := httptest.NewServer(agent.NewServer(searcher.NewMCTS(searcher.WithSeed(1)), timedCfg).Router())
		defer timed.Close()
		a := NewRemoteAgent(timed.URL)
		a.MaxRollouts = 500

		_, metric, err := a.FindMove(game.NewState())

		require.NoError(t, err)
		require.Equal(t, 500, metric.Rollouts)
	})

	t.Run("time limit is forwarded", func(t *testing.T) {
		a := NewRemoteAgent(server.URL)
		a.MaxRollouts = 1 << 30
		a.TimeLimit = 10 * time.Millisecond

		move, metric, err := a.FindMove(game.NewState())

		require.NoError(t, err)
		require.True(t, move.IsValid())
		require.Less(t, metric.Rollouts, 1<<30)
	})

	t.Run("plays a game against a local agent", func(t *testing.T) {
		remote := NewRemoteAgent(server.URL)
		remote.MaxRollouts = 20
		e := NewLocalEngine(game.NewState(), mctsAgent(20), remote)
		e.MaxMoves = 2

		winner, gameMetric, moveMetrics, err := e.Run()

		require.NoError(t, err)
		require.Empty(t, winner)
		require.Equal(t, 2, gameMetric.TotalMoves)
		require.Equal(t, 20, moveMetrics[1].Rollouts)
	})
}
