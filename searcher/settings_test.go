package searcher

import (
	"testing"

	"chessai/game"
	"chessai/meta"

	"github.com/stretchr/testify/require"
)

func TestConfigFromSettings(t *testing.T) {
	t.Run("defaults match", func(t *testing.T) {
		cfg, err := ConfigFromSettings(meta.Defaults().Search)

		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("unknown promotion piece", func(t *testing.T) {
		s := meta.Defaults().Search
		s.Promotions = []string{"king"}

		_, err := ConfigFromSettings(s)

		require.ErrorIs(t, err, game.ErrUnknownPromotion)
	})

	t.Run("time limit must be positive when enabled", func(t *testing.T) {
		s := meta.Defaults().Search
		s.TimeLimit = 0

		_, err := ConfigFromSettings(s)

		require.Error(t, err)
	})
}

func TestNewSearcher(t *testing.T) {
	t.Run("mcts", func(t *testing.T) {
		s, err := NewSearcher(meta.Defaults().Search)

		require.NoError(t, err)
		require.IsType(t, &MCTS{}, s)
	})

	t.Run("minimax", func(t *testing.T) {
		settings := meta.Defaults().Search
		settings.Algorithm = "minimax"

		s, err := NewSearcher(settings)

		require.NoError(t, err)
		require.IsType(t, &Minimax{}, s)
	})

	t.Run("unknown evaluator", func(t *testing.T) {
		settings := meta.Defaults().Search
		settings.Evaluator = "nnue"

		_, err := NewSearcher(settings)

		require.ErrorIs(t, err, game.ErrUnknownEvaluator)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		settings := meta.Defaults().Search
		settings.Algorithm = "alphazero"

		_, err := NewSearcher(settings)

		require.Error(t, err)
	})
}
