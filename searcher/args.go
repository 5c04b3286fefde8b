package searcher

import (
	"time"

	"chessai/game"
	"chessai/meta"
)

// Hyperparameters for MCTS

const Win = 1.0        // Reward for winning outcome
const Loss = 1.0 - Win // Reward for losing outcome
const Draw = 0.5

// Config is the immutable configuration of one search invocation.
type Config struct {
	UseTimeLimit bool
	TimeLimit    time.Duration
	MaxRollouts  int
	PlayoutDepth int     // Rollout cutoff in plies
	Exploration  float64 // UCB1 weight
	Promotions   game.Promotions
	Depth        int // Ply limit for the minimax variant
}

func DefaultConfig() Config {
	return Config{
		UseTimeLimit: true,
		TimeLimit:    meta.TIME_LIMIT,
		MaxRollouts:  meta.MAX_ROLLOUTS,
		PlayoutDepth: meta.PLAYOUT_DEPTH,
		Exploration:  meta.EXPLORATION,
		Promotions:   game.QueenAndKnight,
		Depth:        meta.MINIMAX_DEPTH,
	}
}
