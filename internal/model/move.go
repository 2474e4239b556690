package model

import (
	"fmt"
	"time"
)

type RookMove struct {
	From  Position `json:"from"`
	To    Position `json:"to"`
	Piece Piece    `json:"piece"`
}

// Move is a candidate or committed half-move. The metadata fields carry
// everything needed to apply it and to reverse it exactly.
type Move struct {
	From     Position `json:"from"`
	To       Position `json:"to"`
	Piece    Piece    `json:"piece"`
	Captured *Piece   `json:"captured,omitempty"`
	Notation string   `json:"notation"`

	RookMove             *RookMove `json:"rookMove,omitempty"`
	InitialPieceHasMoved bool      `json:"initialPieceHasMoved"`
	InitialRookHasMoved  bool      `json:"initialRookHasMoved,omitempty"`

	EnPassant            bool      `json:"isEnPassantCapture,omitempty"`
	CapturedPawnPosition *Position `json:"capturedPawnPosition,omitempty"`

	// Set by the session when the move is committed; zero for candidates.
	Timestamp time.Time `json:"timestamp"`
}

// SimpleMove is a from/to pair as sent by clients.
type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

func (m Move) Simple() SimpleMove {
	return SimpleMove{From: m.From, To: m.To}
}

func (m Move) IsCapture() bool {
	return m.Captured != nil
}

func (m Move) IsCastle() bool {
	return m.RookMove != nil
}

// MoveNotation is the display string for a plain move, e.g. "knightg1-f3".
// It is not algebraic notation and has no parser.
func MoveNotation(p Piece, from, to Position) string {
	return fmt.Sprintf("%s%s-%s", p.Type, from, to)
}

func CastleNotation(kingside bool) string {
	if kingside {
		return "O-O"
	}
	return "O-O-O"
}

func EnPassantNotation(from, to Position) string {
	return fmt.Sprintf("e.p. %sx%s", from, to)
}
