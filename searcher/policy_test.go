package searcher

import (
	"math"
	"testing"

	"chessai/game"

	"github.com/stretchr/testify/require"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(2.0, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTEvaluate(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(2.0, 100)
		got := policy.evaluate(0.5, 10)

		expected := 0.5 + math.Sqrt(4.0*math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute q + sqrt(c^2*ln(N)/n)")
	})

	t.Run("unvisited child is maximal", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		require.True(t, math.IsInf(policy.evaluate(0.5, 0), 1))
	})

	t.Run("clamps the exploitation term", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		require.Equal(t, policy.evaluate(1.0, 10), policy.evaluate(1.5, 10))
		require.Equal(t, policy.evaluate(0.0, 10), policy.evaluate(-0.5, 10))
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		// More parent visits -> higher exploration
		policy1 := newUCT(2.0, 100)
		policy2 := newUCT(2.0, 1000)

		score1 := policy1.evaluate(0.5, 10)
		score2 := policy2.evaluate(0.5, 10)

		require.Greater(t, score2, score1,
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		// More child visits -> lower exploration
		policy := newUCT(2.0, 100)

		score1 := policy.evaluate(0.5, 10)
		score2 := policy.evaluate(0.5, 20)

		require.Greater(t, score1, score2,
			"More child visits should decrease exploration term")
	})

	t.Run("exploitation term increases with value", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		score1 := policy.evaluate(0.5, 10)
		score2 := policy.evaluate(0.9, 10)

		require.Greater(t, score2, score1,
			"Higher value should increase exploitation term")
	})
}

// handTree builds a root with White to move and one child per entry of
// stats, each given as {visits, rewards}.
func handTree(mover game.Side, stats ...[2]float64) *tree {
	root := game.NewState()
	t := &tree{exploration: 1.4}
	t.nodes = append(t.nodes, node{state: root, parent: noParent, mover: game.Black})
	for _, s := range stats {
		id := len(t.nodes)
		t.nodes = append(t.nodes, node{
			state:   root,
			parent:  0,
			mover:   mover,
			visits:  int(s[0]),
			rewards: s[1],
		})
		t.nodes[0].children = append(t.nodes[0].children, id)
		t.nodes[0].visits += int(s[0])
	}
	if t.nodes[0].visits == 0 {
		t.nodes[0].visits = 1
	}
	return t
}

func TestPickChild(t *testing.T) {
	t.Run("highest value child", func(t *testing.T) {
		tr := handTree(game.White, [2]float64{10, 2}, [2]float64{10, 8}, [2]float64{10, 5})

		require.Equal(t, 2, tr.pickChild(0))
	})

	t.Run("first child wins ties", func(t *testing.T) {
		tr := handTree(game.White, [2]float64{10, 5}, [2]float64{10, 5}, [2]float64{10, 5})

		require.Equal(t, 1, tr.pickChild(0))
	})

	t.Run("unvisited child before any revisit", func(t *testing.T) {
		tr := handTree(game.White, [2]float64{10, 10}, [2]float64{0, 0}, [2]float64{0, 0})

		require.Equal(t, 2, tr.pickChild(0), "Should pick the first unvisited child")
	})

	t.Run("values are flipped for the opponent's nodes", func(t *testing.T) {
		// Black's view: 0.8 and 0.2, so White prefers the second child
		tr := handTree(game.Black, [2]float64{10, 8}, [2]float64{10, 2})

		require.Equal(t, 2, tr.pickChild(0))
	})

	t.Run("panics on an unvisited parent", func(t *testing.T) {
		tr := handTree(game.White, [2]float64{0, 0})
		tr.nodes[0].visits = 0

		require.Panics(t, func() {
			tr.pickChild(0)
		})
	})
}

func TestSelectLeaf(t *testing.T) {
	t.Run("root with unexplored moves", func(t *testing.T) {
		tr := newTree(game.NewState(), DefaultConfig())

		require.Equal(t, 0, tr.selectLeaf())
	})

	t.Run("descends into the best child of a fully expanded root", func(t *testing.T) {
		state, err := game.FromFEN("7k/8/8/8/8/8/8/K7 w - - 0 1")
		require.NoError(t, err)
		tr := newTree(state, DefaultConfig())
		require.Len(t, tr.root().unexplored, 3)

		first := tr.expand(0)
		second := tr.expand(0)
		third := tr.expand(0)
		tr.backup(first, 0.2)
		tr.backup(second, 0.9)
		tr.backup(third, 0.4)

		require.Equal(t, second, tr.selectLeaf())
	})
}
