package testutil

import (
	"testing"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
)

// Common positions used across package tests.
const (
	// After 1.f3 e5 2.g4 Qh4#, white to move.
	FoolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	// Black king a8 boxed in by the white queen on b6, black to move.
	StalemateFEN = "k7/8/1QK5/8/8/8/8/8 b - - 0 1"
	// Both sides may castle either way, nothing attacks the king paths.
	CastlingFEN = "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1"
)

// MustFEN parses fen or fails the test.
func MustFEN(t testing.TB, fen string) (model.Board, model.Color) {
	t.Helper()
	b, toMove, err := model.FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q) error: %v", fen, err)
	}
	return b, toMove
}

// Pos parses a square like "e4" or fails the test.
func Pos(t testing.TB, s string) model.Position {
	t.Helper()
	p, ok := model.ParsePosition(s)
	if !ok {
		t.Fatalf("ParsePosition(%q) failed", s)
	}
	return p
}

// Place builds a board holding exactly the given pieces, keyed by square name.
func Place(t testing.TB, pieces map[string]model.Piece) model.Board {
	t.Helper()
	var b model.Board
	for sq, p := range pieces {
		b.Set(Pos(t, sq), p)
	}
	return b
}

// FindMove returns the move from->to in moves, if any.
func FindMove(moves []model.Move, from, to model.Position) (model.Move, bool) {
	for _, m := range moves {
		if m.From == from && m.To == to {
			return m, true
		}
	}
	return model.Move{}, false
}
