package rules

import "github.com/benbeisheim/chess-ai-backend/internal/model"

// IsSquareAttacked reports whether any piece of byColor could move onto pos.
// The check runs on a copy with pos forced empty, so the question is one of
// geometry: whatever stands on pos never blocks or changes the answer.
// Pawns attack along their capture diagonals only.
func IsSquareAttacked(b model.Board, pos model.Position, byColor model.Color) bool {
	b.Clear(pos)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			from := model.Position{Row: row, Col: col}
			piece, ok := b.PieceAt(from)
			if !ok || piece.Color != byColor {
				continue
			}
			if piece.Type == model.Pawn {
				if pos.Row-from.Row == piece.Color.Forward() && model.Abs(pos.Col-from.Col) == 1 {
					return true
				}
				continue
			}
			if canReach(&b, from, pos) {
				return true
			}
		}
	}
	return false
}

// IsKingInCheck reports whether color's king is attacked. A board without
// that king is not policed here and reports false.
func IsKingInCheck(b model.Board, color model.Color) bool {
	kingPos, ok := b.KingPosition(color)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, kingPos, color.Opponent())
}
