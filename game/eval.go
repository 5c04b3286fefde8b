package game

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrUnknownEvaluator = errors.New("unknown evaluator")

var pieceValues = [...]float64{
	Empty:  0,
	Pawn:   1,
	Knight: 3,
	Bishop: 3.25,
	Rook:   5,
	Queen:  9,
	King:   0,
}

// Evaluators maps evaluator names (as used in config files) to functions.
var Evaluators = map[string]Evaluate{
	"material":   EvaluateMaterial,
	"positional": EvaluatePositional,
}

// LookupEvaluator returns the evaluator registered under name.
func LookupEvaluator(name string) (Evaluate, error) {
	evaluate, ok := Evaluators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownEvaluator, name, EvaluatorNames())
	}
	return evaluate, nil
}

// EvaluatorNames lists the registered evaluators in sorted order.
func EvaluatorNames() []string {
	names := make([]string, 0, len(Evaluators))
	for name := range Evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EvaluateMaterial tallies each side's material to produce a score between 0
// and 1 from side's perspective, 0.5 being equal material.
func EvaluateMaterial(sim SimState, side Side) float64 {
	material := tally(&sim, func(piece SimPiece, row, col int) float64 {
		return pieceValues[piece.Type]
	})
	return toUnit(normalize(material[side], material[side.Other()]))
}

// EvaluatePositional considers piece centralization and pawn advancement, in
// addition to material, to produce a score between 0 and 1 from side's
// perspective.
func EvaluatePositional(sim SimState, side Side) float64 {
	material := tally(&sim, func(piece SimPiece, row, col int) float64 {
		return pieceValues[piece.Type]
	})
	placement := tally(&sim, func(piece SimPiece, row, col int) float64 {
		switch piece.Type {
		case Pawn:
			return 1 + float64(advancement(piece.Side, row))/2
		case Knight, Bishop:
			return 1 + centralization(row, col)
		case King:
			return 0
		}
		return 1
	})

	materialScore := normalize(material[side], material[side.Other()])
	placementScore := normalize(placement[side], placement[side.Other()])
	return toUnit((3*materialScore + placementScore) / 4)
}

func tally(sim *SimState, value func(piece SimPiece, row, col int) float64) [2]float64 {
	var totals [2]float64
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			piece := sim[row][col]
			if piece.IsEmpty() {
				continue
			}
			totals[piece.Side] += value(piece, row, col)
		}
	}
	return totals
}

// advancement counts the rows a pawn has moved from its own back rank.
func advancement(side Side, row int) int {
	if side == White {
		return row - 1
	}
	return BoardSize - 2 - row
}

// centralization is 1 on the four center squares and falls off to 0 in the corners.
func centralization(row, col int) float64 {
	center := float64(BoardSize-1) / 2
	distance := math.Max(math.Abs(float64(row)-center), math.Abs(float64(col)-center))
	return 1 - (distance-0.5)/(center-0.5)
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}

func toUnit(score float64) float64 {
	return (score + 1) / 2
}
