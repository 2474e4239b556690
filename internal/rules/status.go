package rules

import "github.com/benbeisheim/chess-ai-backend/internal/model"

type Status string

const (
	Ongoing   Status = "ongoing"
	Check     Status = "check"
	Checkmate Status = "checkmate"
	Stalemate Status = "stalemate"
)

func (s Status) IsTerminal() bool {
	return s == Checkmate || s == Stalemate
}

// Outcome is derived from a board and the side to move; it is never stored
// as the source of truth.
type Outcome struct {
	Status Status      `json:"status"`
	ToMove model.Color `json:"toMove"`
}

func IsCheckmate(b model.Board, color model.Color) bool {
	return IsKingInCheck(b, color) && len(LegalMoves(b, color, nil)) == 0
}

func IsStalemate(b model.Board, color model.Color) bool {
	return !IsKingInCheck(b, color) && len(LegalMoves(b, color, nil)) == 0
}

// Classify computes the outcome for color to move. Unlike IsCheckmate and
// IsStalemate it takes the last move, so an en passant reply counts as a
// way out.
func Classify(b model.Board, color model.Color, lastMove *model.Move) Outcome {
	inCheck := IsKingInCheck(b, color)
	hasMoves := len(LegalMoves(b, color, lastMove)) > 0

	status := Ongoing
	switch {
	case inCheck && !hasMoves:
		status = Checkmate
	case !hasMoves:
		status = Stalemate
	case inCheck:
		status = Check
	}
	return Outcome{Status: status, ToMove: color}
}
