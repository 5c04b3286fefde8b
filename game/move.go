package game

import "github.com/notnil/chess"

// Move is a full-rules move from one square to another, with an optional
// promotion piece. Moves are comparable values.
type Move struct {
	From  chess.Square
	To    chess.Square
	Promo chess.PieceType
}

// NoMove is the invalid move, reported when a position has no legal move.
var NoMove = Move{}

func moveOf(m *chess.Move) Move {
	return Move{From: m.S1(), To: m.S2(), Promo: m.Promo()}
}

func (m Move) IsValid() bool {
	return m.From != m.To
}

// String returns the move in UCI notation (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if !m.IsValid() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	switch m.Promo {
	case chess.Queen:
		s += "q"
	case chess.Rook:
		s += "r"
	case chess.Bishop:
		s += "b"
	case chess.Knight:
		s += "n"
	}
	return s
}
