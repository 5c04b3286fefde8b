package searcher

import "math"

type uct struct {
	numerator float64
}

func newUCT(exploration float64, N int) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: exploration * exploration * math.Log(float64(N))}
}

// evaluate scores a child with average value q over n visits. Unvisited
// children score +Inf so each one is tried before any is revisited.
func (u uct) evaluate(q float64, n int) float64 {
	if n == 0 {
		return math.Inf(1)
	}
	// UCT = q + c*sqrt(ln(N)/n)
	return clamp01(q) + math.Sqrt(u.numerator/float64(n))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// pickChild returns the child of parent with the highest UCB1 score, seen
// from the side to move at parent. The first child wins ties.
func (t *tree) pickChild(parent int) int {
	p := t.get(parent)
	if p.visits == 0 {
		panic("node has children but no visits")
	}

	side := p.state.Turn()
	policy := newUCT(t.exploration, p.visits)

	best := -1
	bestScore := math.Inf(-1)
	for _, id := range p.children {
		child := t.get(id)
		if child.visits == 0 {
			return id
		}
		if score := policy.evaluate(child.valueFor(side), child.visits); score > bestScore {
			best = id
			bestScore = score
		}
	}
	return best
}

// selectLeaf descends from the root to a node that still has unexplored moves
// or has no children at all.
func (t *tree) selectLeaf() int {
	id := 0
	for {
		n := t.get(id)
		if len(n.unexplored) > 0 || len(n.children) == 0 {
			return id
		}
		id = t.pickChild(id)
	}
}
