package searcher

import (
	"chessai/game"

	"golang.org/x/exp/rand"
)

// playout plays uniformly random pseudo-legal moves from sim, starting with
// turn, for at most cutoff plies. It returns a score in [0, 1] from turn's
// perspective and whether a king capture decided it. When no capture occurs
// the final position is scored by evaluate.
func playout(sim game.SimState, turn game.Side, cutoff int, rng *rand.Rand, evaluate game.Evaluate) (float64, bool) {
	perspective := turn
	if loser, captured := sim.CapturedKing(); captured {
		return kingCaptureScore(loser, perspective), true
	}

	for depth := 0; depth < cutoff; depth++ {
		moves := game.SimMoves(&sim, turn)
		if len(moves) == 0 {
			break
		}
		sim.Apply(moves[rng.Intn(len(moves))]) // Random rollout policy
		if loser, captured := sim.CapturedKing(); captured {
			return kingCaptureScore(loser, perspective), true
		}
		turn = turn.Other()
	}

	// At cutoff, return an evaluation score from the starting side's perspective
	return clamp01(evaluate(sim, perspective)), false
}

func kingCaptureScore(loser, perspective game.Side) float64 {
	if loser == perspective {
		return Loss
	}
	return Win
}
