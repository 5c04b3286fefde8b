package game

import "github.com/notnil/chess"

const BoardSize = 8

type SimPieceType uint8

const (
	Empty SimPieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func simTypeOf(t chess.PieceType) SimPieceType {
	switch t {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	case chess.King:
		return King
	}
	return Empty
}

// SimPiece is one cell of a rollout board. The zero value is an empty cell.
type SimPiece struct {
	Type SimPieceType
	Side Side
}

func (p SimPiece) IsEmpty() bool {
	return p.Type == Empty
}

// SimState is the rollout board: cells indexed by [row][col], where row is the
// rank index (0 = rank 1) and col is the file index (0 = file a). It carries
// no castling rights, en passant square or move counters.
type SimState [BoardSize][BoardSize]SimPiece

// SimMove relocates a piece between two cells.
type SimMove struct {
	FromRow, FromCol, ToRow, ToCol int
}

// String returns the move as "e2-e4".
func (m SimMove) String() string {
	return notation(m.FromRow, m.FromCol) + "-" + notation(m.ToRow, m.ToCol)
}

func notation(row, col int) string {
	return string([]byte{byte('a' + col), byte('1' + row)})
}

// Apply moves the piece in place; anything on the destination is captured.
func (s *SimState) Apply(m SimMove) {
	s[m.ToRow][m.ToCol] = s[m.FromRow][m.FromCol]
	s[m.FromRow][m.FromCol] = SimPiece{}
}

// CapturedKing reports which side has lost its king, if any. When both kings
// are missing, white is reported.
func (s *SimState) CapturedKing() (Side, bool) {
	whiteAlive, blackAlive := false, false
	for row := range s {
		for col := range s[row] {
			piece := s[row][col]
			if piece.Type != King {
				continue
			}
			if piece.Side == White {
				whiteAlive = true
			} else {
				blackAlive = true
			}
			if whiteAlive && blackAlive {
				return White, false
			}
		}
	}
	if !whiteAlive {
		return White, true
	}
	return Black, true
}
