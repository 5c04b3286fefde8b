package searcher

import (
	"testing"
	"time"

	"chessai/game"

	"github.com/stretchr/testify/require"
)

func depthBudget(depth int) Config {
	cfg := DefaultConfig()
	cfg.UseTimeLimit = false
	cfg.Depth = depth
	return cfg
}

func TestMinimaxSearch(t *testing.T) {
	t.Run("finds mate in one", func(t *testing.T) {
		state := mustFEN(t, backRank)
		expected, err := state.ParseMove("a1a8")
		require.NoError(t, err)

		result := NewMinimax(game.EvaluateMaterial).Search(state, depthBudget(1))

		require.Equal(t, expected, result.Move)
		require.Positive(t, result.Rollouts)
	})

	t.Run("single legal move", func(t *testing.T) {
		state := mustFEN(t, onlyKingMove)
		expected, err := state.ParseMove("a1a2")
		require.NoError(t, err)

		result := NewMinimax(nil).Search(state, depthBudget(2))

		require.Equal(t, expected, result.Move)
		require.Len(t, result.Stats, 1)
	})

	t.Run("checkmated root has no move", func(t *testing.T) {
		m := NewMinimax(nil)

		result := m.Search(mustFEN(t, foolsMate), depthBudget(2))

		require.False(t, result.Found())
		require.Equal(t, Completed, m.Status())
	})

	t.Run("captures a hanging queen", func(t *testing.T) {
		// White rook on d1 can take the undefended queen on d8
		state := mustFEN(t, "3q3k/8/8/8/8/8/8/3R3K w - - 0 1")
		expected, err := state.ParseMove("d1d8")
		require.NoError(t, err)

		result := NewMinimax(game.EvaluateMaterial).Search(state, depthBudget(2))

		require.Equal(t, expected, result.Move)
	})
}

func TestMinimaxStart(t *testing.T) {
	t.Run("cancel keeps the best move so far", func(t *testing.T) {
		m := NewMinimax(nil)
		cfg := DefaultConfig()
		cfg.TimeLimit = time.Hour
		cfg.Depth = 3

		results := m.Start(game.NewState(), cfg)
		m.Cancel()

		result := <-results
		require.True(t, result.Found())
		require.Equal(t, Aborted, m.Status())
	})

	t.Run("caller keeps using its state while searching", func(t *testing.T) {
		state := game.NewState()

		results := NewMinimax(nil).Start(state, depthBudget(2))
		require.Len(t, state.LegalMoves(true, game.AllPromotions), 20)
		require.Equal(t, game.Ongoing, state.Outcome())

		require.True(t, (<-results).Found())
	})
}
