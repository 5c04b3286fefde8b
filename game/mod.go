package game

import "github.com/notnil/chess"

// Side is one of the two players.
type Side int

const (
	White Side = iota
	Black
)

func (s Side) Other() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}
	return "black"
}

func sideOf(c chess.Color) Side {
	if c == chess.Black {
		return Black
	}
	return White
}

// Evaluates a rollout position to a score between 0 and 1 indicating how
// favorable it is for side (1 is winning, 0 is losing).
type Evaluate func(sim SimState, side Side) float64
