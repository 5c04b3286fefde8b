// meta/meta.go
package meta

import "time"

// TIME_LIMIT defines the default wall-clock budget per search.
const TIME_LIMIT = 1000 * time.Millisecond

// MAX_ROLLOUTS defines the default rollout budget per search.
const MAX_ROLLOUTS = 100000

// PLAYOUT_DEPTH defines the default rollout cutoff in plies.
const PLAYOUT_DEPTH = 40

// EXPLORATION defines the default UCB1 exploration weight (sqrt 2).
const EXPLORATION = 1.4142135623730951

// MINIMAX_DEPTH defines the default ply limit of the minimax searcher.
const MINIMAX_DEPTH = 3

// MAX_MOVES defines the move cap of a local game.
const MAX_MOVES = 300
