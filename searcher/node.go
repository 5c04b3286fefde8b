package searcher

import (
	"fmt"
	"math"
	"slices"

	"chessai/game"
)

const noParent = -1

// node is one explored position. Its rewards are accumulated from the
// perspective of mover, the side that played move to reach it.
type node struct {
	state      *game.State
	parent     int
	children   []int
	move       game.Move
	mover      game.Side
	unexplored []game.Move
	visits     int
	rewards    float64
}

func (n *node) update(outcome float64) {
	n.visits++
	n.rewards += outcome
}

func (n *node) average() float64 {
	if n.visits == 0 {
		panic("cannot average node value: 0 visits")
	}
	return n.rewards / float64(n.visits)
}

// valueFor returns the average outcome from side's perspective.
func (n *node) valueFor(side game.Side) float64 {
	value := n.average()
	if n.mover != side {
		value = 1 - value
	}
	return value
}

// isTerminal reports a node without any move to explore or select.
func (n *node) isTerminal() bool {
	return len(n.unexplored) == 0 && len(n.children) == 0
}

// tree owns every node of one search. Nodes refer to each other by index, so
// parent links do not own their targets.
type tree struct {
	nodes       []node
	promotions  game.Promotions
	exploration float64
}

func newTree(state *game.State, cfg Config) *tree {
	t := &tree{promotions: cfg.Promotions, exploration: cfg.Exploration}
	t.create(state, noParent, game.NoMove, state.Turn().Other())
	return t
}

func (t *tree) root() *node {
	return &t.nodes[0]
}

func (t *tree) get(id int) *node {
	return &t.nodes[id]
}

func (t *tree) size() int {
	return len(t.nodes)
}

// create appends a node owning state and computes its unexplored moves.
func (t *tree) create(state *game.State, parent int, move game.Move, mover game.Side) int {
	t.nodes = append(t.nodes, node{
		state:      state,
		parent:     parent,
		move:       move,
		mover:      mover,
		unexplored: state.LegalMoves(parent == noParent, t.promotions),
	})
	return len(t.nodes) - 1
}

// addChild materializes move from the parent's frontier as a new child
// holding state, which must be the parent's state after move.
func (t *tree) addChild(parent int, move game.Move, state *game.State) int {
	p := &t.nodes[parent]
	i := slices.Index(p.unexplored, move)
	if i < 0 {
		panic(fmt.Sprintf("cannot add child: move %s is not unexplored", move))
	}
	p.unexplored = slices.Delete(p.unexplored, i, i+1)
	mover := p.state.Turn()

	child := t.create(state, parent, move, mover)
	// create may reallocate the arena
	p = &t.nodes[parent]
	p.children = append(p.children, child)
	return child
}

// expand materializes one unexplored move of the node, consuming the frontier
// from the back, and returns the new child. A node without unexplored moves
// is returned unchanged.
func (t *tree) expand(id int) int {
	n := t.get(id)
	if len(n.unexplored) == 0 {
		return id
	}
	move := n.unexplored[len(n.unexplored)-1]
	state := n.state.Clone()
	if err := state.Play(move); err != nil {
		panic(fmt.Sprintf("cannot expand node: %v", err))
	}
	return t.addChild(id, move, state)
}

// backup records outcome on the node and every ancestor up to the root,
// flipping it at each level.
func (t *tree) backup(id int, outcome float64) {
	for id != noParent {
		n := t.get(id)
		n.update(outcome)
		outcome = 1 - outcome
		id = n.parent
	}
}

// rootStats summarizes the root children from the root's side to move and
// returns the child with the highest average value among visited ones.
func (t *tree) rootStats() (game.Move, []MoveStat) {
	root := t.root()
	side := root.state.Turn()

	best := game.NoMove
	bestValue := math.Inf(-1)
	stats := make([]MoveStat, 0, len(root.children))
	for _, id := range root.children {
		child := t.get(id)
		stat := MoveStat{Move: child.move, Visits: child.visits}
		if child.visits > 0 {
			stat.Value = child.valueFor(side)
			if stat.Value > bestValue {
				best = child.move
				bestValue = stat.Value
			}
		}
		stats = append(stats, stat)
	}
	return best, stats
}

// depth counts the edges between the root and the deepest node.
func (t *tree) depth() int {
	max := 0
	depths := make([]int, len(t.nodes))
	for id := 1; id < len(t.nodes); id++ {
		depths[id] = depths[t.nodes[id].parent] + 1
		if depths[id] > max {
			max = depths[id]
		}
	}
	return max
}
