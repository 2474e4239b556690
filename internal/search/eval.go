// Package search picks moves for the computer side: a material and placement
// evaluator plus fixed-depth minimax with alpha-beta pruning.
package search

import "github.com/benbeisheim/chess-ai-backend/internal/model"

var pieceValues = map[model.PieceType]float64{
	model.Pawn:   1,
	model.Knight: 3,
	model.Bishop: 3,
	model.Rook:   5,
	model.Queen:  9,
	model.King:   1000,
}

// PieceValue is the material value of a piece type.
func PieceValue(t model.PieceType) float64 {
	return pieceValues[t]
}

// Evaluate scores a board from white's point of view: positive favours white.
// It looks only at material, pawn advancement and minor piece centralization;
// whose turn it is does not matter.
func Evaluate(b model.Board) float64 {
	var score float64
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p, ok := b.PieceAt(model.Position{Row: row, Col: col})
			if !ok {
				continue
			}
			value := PieceValue(p.Type) + placementBonus(p, row, col)
			if p.Color == model.White {
				score += value
			} else {
				score -= value
			}
		}
	}
	return score
}

func placementBonus(p model.Piece, row, col int) float64 {
	switch p.Type {
	case model.Pawn:
		if p.Color == model.White {
			return float64(6-row) * 0.1
		}
		return float64(row-1) * 0.1
	case model.Knight, model.Bishop:
		dist := model.Abs(3.5-float64(row)) + model.Abs(3.5-float64(col))
		return (7 - dist) * 0.1
	}
	return 0
}
