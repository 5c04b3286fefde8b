package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

var ErrUnknownPromotion = errors.New("unknown promotion piece")

// Promotions is the set of promotion pieces generated for tree expansion.
type Promotions uint8

const (
	PromoteQueen Promotions = 1 << iota
	PromoteRook
	PromoteBishop
	PromoteKnight
)

const (
	AllPromotions  = PromoteQueen | PromoteRook | PromoteBishop | PromoteKnight
	QueenAndKnight = PromoteQueen | PromoteKnight
)

// Allows reports whether a move promoting to piece is generated. Moves
// without a promotion are always allowed.
func (p Promotions) Allows(piece chess.PieceType) bool {
	switch piece {
	case chess.NoPieceType:
		return true
	case chess.Queen:
		return p&PromoteQueen != 0
	case chess.Rook:
		return p&PromoteRook != 0
	case chess.Bishop:
		return p&PromoteBishop != 0
	case chess.Knight:
		return p&PromoteKnight != 0
	}
	return false
}

func (p Promotions) String() string {
	names := []string{}
	for _, name := range []string{"queen", "rook", "bishop", "knight"} {
		flag, _ := promotionFlag(name)
		if p&flag != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}

// ParsePromotions builds a promotion set from piece names ("queen", "knight", ...).
func ParsePromotions(names []string) (Promotions, error) {
	var p Promotions
	for _, name := range names {
		flag, err := promotionFlag(name)
		if err != nil {
			return 0, err
		}
		p |= flag
	}
	return p, nil
}

func promotionFlag(name string) (Promotions, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "queen", "q":
		return PromoteQueen, nil
	case "rook", "r":
		return PromoteRook, nil
	case "bishop", "b":
		return PromoteBishop, nil
	case "knight", "n":
		return PromoteKnight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPromotion, name)
}
