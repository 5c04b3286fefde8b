package game

var (
	knightSteps   = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps     = [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookSteps     = [][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	bishopSteps   = [][2]int{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
	queenSteps    = append(append([][2]int{}, rookSteps...), bishopSteps...)
	pawnStartRows = [2]int{White: 1, Black: BoardSize - 2}
)

func onBoard(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// SimMoves enumerates pseudo-legal moves for side: piece movement and capture
// patterns only. Moves that leave the own king attacked are included, and
// castling, en passant and promotion are not representable.
func SimMoves(sim *SimState, side Side) []SimMove {
	moves := make([]SimMove, 0, 48)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			piece := sim[row][col]
			if piece.IsEmpty() || piece.Side != side {
				continue
			}
			switch piece.Type {
			case Pawn:
				moves = pawnMoves(sim, side, row, col, moves)
			case Knight:
				moves = stepMoves(sim, side, row, col, knightSteps, moves)
			case King:
				moves = stepMoves(sim, side, row, col, kingSteps, moves)
			case Bishop:
				moves = slideMoves(sim, side, row, col, bishopSteps, moves)
			case Rook:
				moves = slideMoves(sim, side, row, col, rookSteps, moves)
			case Queen:
				moves = slideMoves(sim, side, row, col, queenSteps, moves)
			}
		}
	}
	return moves
}

func pawnMoves(sim *SimState, side Side, row, col int, moves []SimMove) []SimMove {
	dir := 1
	if side == Black {
		dir = -1
	}

	ahead := row + dir
	if onBoard(ahead, col) && sim[ahead][col].IsEmpty() {
		moves = append(moves, SimMove{row, col, ahead, col})
		twoAhead := ahead + dir
		if row == pawnStartRows[side] && onBoard(twoAhead, col) && sim[twoAhead][col].IsEmpty() {
			moves = append(moves, SimMove{row, col, twoAhead, col})
		}
	}

	for _, dc := range []int{-1, 1} {
		if !onBoard(ahead, col+dc) {
			continue
		}
		target := sim[ahead][col+dc]
		if !target.IsEmpty() && target.Side != side {
			moves = append(moves, SimMove{row, col, ahead, col + dc})
		}
	}
	return moves
}

func stepMoves(sim *SimState, side Side, row, col int, steps [][2]int, moves []SimMove) []SimMove {
	for _, step := range steps {
		r, c := row+step[0], col+step[1]
		if !onBoard(r, c) {
			continue
		}
		if target := sim[r][c]; target.IsEmpty() || target.Side != side {
			moves = append(moves, SimMove{row, col, r, c})
		}
	}
	return moves
}

func slideMoves(sim *SimState, side Side, row, col int, steps [][2]int, moves []SimMove) []SimMove {
	for _, step := range steps {
		r, c := row+step[0], col+step[1]
		for onBoard(r, c) {
			target := sim[r][c]
			if !target.IsEmpty() {
				if target.Side != side {
					moves = append(moves, SimMove{row, col, r, c})
				}
				break
			}
			moves = append(moves, SimMove{row, col, r, c})
			r, c = r+step[0], c+step[1]
		}
	}
	return moves
}
