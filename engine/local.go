package engine

import (
	"errors"
	"fmt"
	"time"

	"chessai/experiments/metrics"
	"chessai/game"
	"chessai/searcher/agent"

	"github.com/rs/zerolog/log"
)

var ErrNoMove = errors.New("agent found no move in an ongoing game")

var _ Engine = (*LocalEngine)(nil)

// LocalEngine plays a game between two in-process (or remote) agents.
type LocalEngine struct {
	State    *game.State
	Agents   [2]agent.Agent // Indexed by game.Side
	MaxMoves int
}

func NewLocalEngine(state *game.State, white, black agent.Agent) *LocalEngine {
	return &LocalEngine{
		State:    state.Clone(),
		Agents:   [2]agent.Agent{game.White: white, game.Black: black},
		MaxMoves: MaxMoves,
	}
}

// Run executes the entire game loop until the game is over or the move cap
// is reached.
func (e *LocalEngine) Run() (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.State.Turn().String(),
		StartTime:      time.Now(),
	}
	log.Debug().Msgf("%s is starting from %s", gameMetric.StartingPlayer, e.State.FEN())

	var moveMetrics []metrics.MoveMetric
	repetitions := map[string]int{e.State.RepetitionKey(): 1}
	outcome := e.State.Outcome()
	step := 0
	for ; step < e.MaxMoves && outcome == game.Ongoing; step++ {
		side := e.State.Turn()
		move, searchMetric, err := e.Agents[side].FindMove(e.State)
		if err != nil {
			return "", gameMetric, moveMetrics, fmt.Errorf("%s failed to find a move: %w", side, err)
		}
		if !move.IsValid() {
			return "", gameMetric, moveMetrics, fmt.Errorf("%s at %s: %w", side, e.State.FEN(), ErrNoMove)
		}
		if err := e.State.Play(move); err != nil {
			return "", gameMetric, moveMetrics, fmt.Errorf("%s played an invalid move: %w", side, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step + 1,
			Player:       side.String(),
			Move:         move.String(),
			SearchMetric: searchMetric,
		})

		outcome = e.State.Outcome()
		key := e.State.RepetitionKey()
		repetitions[key]++
		if outcome == game.Ongoing && repetitions[key] >= 3 {
			outcome = game.ThreefoldRepetition
		}
	}

	winner := ""
	switch {
	case outcome == game.Checkmate:
		winner = e.State.Turn().Other().String()
	case outcome == game.Ongoing:
		log.Debug().Msgf("stopped after %d moves (no winner yet)", step)
	default:
		log.Debug().Msgf("drawn by %s after %d moves", outcome, step)
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.Winner = winner
	gameMetric.Termination = outcome.String()
	gameMetric.TotalMoves = step
	gameMetric.FinalFEN = e.State.FEN()
	return winner, gameMetric, moveMetrics, nil
}
