package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

var ErrIllegalMove = errors.New("illegal move")

type Outcome int

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	FiftyMoveRule
	// ThreefoldRepetition needs the game history, so only a game loop can
	// report it.
	ThreefoldRepetition
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient_material"
	case FiftyMoveRule:
		return "fifty_move_rule"
	case ThreefoldRepetition:
		return "threefold_repetition"
	}
	return "unknown"
}

// IsDraw reports a finished game without a winner.
func (o Outcome) IsDraw() bool {
	return o != Ongoing && o != Checkmate
}

// State is the authoritative, rules-aware board. Positions are immutable in
// the underlying library apart from a lazily filled move cache, so cloning
// fills that cache and then shares the position. Playing a move swaps in the
// updated position.
type State struct {
	pos *chess.Position
}

// NewState returns the standard starting position.
func NewState() *State {
	return &State{pos: chess.NewGame().Position()}
}

// FromFEN parses a position in Forsyth-Edwards notation.
func FromFEN(fen string) (*State, error) {
	option, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FEN %q: %w", fen, err)
	}
	return &State{pos: chess.NewGame(option).Position()}, nil
}

// Clone returns a state that can be used from another goroutine. Both
// states only ever read the shared position afterwards.
func (s *State) Clone() *State {
	s.pos.ValidMoves()
	return &State{pos: s.pos}
}

func (s *State) FEN() string {
	return s.pos.String()
}

func (s *State) Turn() Side {
	return sideOf(s.pos.Turn())
}

// LegalMoves returns the legal moves in generation order. Root positions
// always include every promotion piece so the engine can answer with any
// legal move; deeper positions only generate the pieces in promos.
func (s *State) LegalMoves(isRoot bool, promos Promotions) []Move {
	if isRoot {
		promos = AllPromotions
	}
	valid := s.pos.ValidMoves()
	moves := make([]Move, 0, len(valid))
	for _, m := range valid {
		if promos.Allows(m.Promo()) {
			moves = append(moves, moveOf(m))
		}
	}
	return moves
}

// Play applies move in place, enforcing the full rules.
func (s *State) Play(move Move) error {
	for _, m := range s.pos.ValidMoves() {
		if moveOf(m) == move {
			s.pos = s.pos.Update(m)
			return nil
		}
	}
	return fmt.Errorf("%w: %s in %s", ErrIllegalMove, move, s.FEN())
}

// ParseMove decodes a move in UCI notation against the current position.
func (s *State) ParseMove(text string) (Move, error) {
	m, err := chess.UCINotation{}.Decode(s.pos, text)
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %v", ErrIllegalMove, text, err)
	}
	move := moveOf(m)
	for _, legal := range s.pos.ValidMoves() {
		if moveOf(legal) == move {
			return move, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, text)
}

// Outcome reports how the game stands in this position. Draws that depend on
// earlier positions are not detected here.
func (s *State) Outcome() Outcome {
	switch s.pos.Status() {
	case chess.Checkmate:
		return Checkmate
	case chess.Stalemate:
		return Stalemate
	}
	if !sufficientMaterial(s.pos.Board()) {
		return InsufficientMaterial
	}
	if s.pos.HalfMoveClock() >= 100 {
		return FiftyMoveRule
	}
	return Ongoing
}

// RepetitionKey identifies the position for repetition counting: placement,
// side to move, castling rights and en passant square.
func (s *State) RepetitionKey() string {
	fields := strings.Fields(s.FEN())
	return strings.Join(fields[:min(4, len(fields))], " ")
}

// sufficientMaterial reports whether either side could still deliver mate.
// Bare kings, a single minor piece, or bishops all on one square color are
// not enough.
func sufficientMaterial(board *chess.Board) bool {
	minors := 0
	knights := 0
	bishopColors := [2]int{}
	for sq, piece := range board.SquareMap() {
		switch piece.Type() {
		case chess.Queen, chess.Rook, chess.Pawn:
			return true
		case chess.Knight:
			minors++
			knights++
		case chess.Bishop:
			minors++
			bishopColors[(int(sq.File())+int(sq.Rank()))%2]++
		}
	}
	if minors <= 1 {
		return false
	}
	if knights == 0 && (bishopColors[0] == 0 || bishopColors[1] == 0) {
		return false
	}
	return true
}

// Lightweight strips the position down to a piece grid for rollouts.
func (s *State) Lightweight() SimState {
	var sim SimState
	for sq, piece := range s.pos.Board().SquareMap() {
		if piece == chess.NoPiece {
			continue
		}
		sim[sq.Rank()][sq.File()] = SimPiece{
			Type: simTypeOf(piece.Type()),
			Side: sideOf(piece.Color()),
		}
	}
	return sim
}
