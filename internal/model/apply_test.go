package model_test

import (
	"testing"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/rules"
	"github.com/benbeisheim/chess-ai-backend/internal/testutil"
)

func TestApplyUndo_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to string
	}{
		{"pawn double push", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "e2", "e4"},
		{"knight", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "g1", "f3"},
		{"capture", "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", "e4", "d5"},
		{"kingside castle", testutil.CastlingFEN, "e1", "g1"},
		{"queenside castle", testutil.CastlingFEN, "e1", "c1"},
		{"king step loses rights", testutil.CastlingFEN, "e1", "f1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, toMove := testutil.MustFEN(t, tt.fen)
			m, ok := testutil.FindMove(rules.LegalMoves(before, toMove, nil), testutil.Pos(t, tt.from), testutil.Pos(t, tt.to))
			if !ok {
				t.Fatalf("move %s-%s not legal", tt.from, tt.to)
			}

			after := model.ApplyMove(before, m)
			moved, ok := after.PieceAt(m.To)
			testutil.AssertTrue(t, ok, "piece on destination")
			testutil.AssertTrue(t, moved.HasMoved, "moved piece flagged")
			testutil.AssertTrue(t, after.IsEmpty(m.From), "origin cleared")

			testutil.AssertEqual(t, model.UndoMove(after, m), before)
		})
	}
}

func TestApplyMove_Castling(t *testing.T) {
	b, _ := testutil.MustFEN(t, testutil.CastlingFEN)
	m, ok := testutil.FindMove(rules.LegalMoves(b, model.White, nil), testutil.Pos(t, "e1"), testutil.Pos(t, "g1"))
	if !ok {
		t.Fatal("O-O not generated")
	}

	after := model.ApplyMove(b, m)
	rook, ok := after.PieceAt(testutil.Pos(t, "f1"))
	testutil.AssertTrue(t, ok && rook.Type == model.Rook, "rook on f1")
	testutil.AssertTrue(t, rook.HasMoved, "rook flagged")
	testutil.AssertTrue(t, after.IsEmpty(testutil.Pos(t, "h1")), "h1 cleared")
}

func TestApplyUndo_EnPassant(t *testing.T) {
	b, _ := testutil.MustFEN(t, "4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1")
	push, ok := testutil.FindMove(rules.LegalMoves(b, model.White, nil), testutil.Pos(t, "e2"), testutil.Pos(t, "e4"))
	if !ok {
		t.Fatal("e2-e4 not generated")
	}
	before := model.ApplyMove(b, push)

	var ep model.Move
	for _, m := range rules.LegalMoves(before, model.Black, &push) {
		if m.EnPassant {
			ep = m
		}
	}
	if !ep.EnPassant {
		t.Fatal("en passant not generated")
	}

	after := model.ApplyMove(before, ep)
	testutil.AssertTrue(t, after.IsEmpty(testutil.Pos(t, "e4")), "victim removed")
	testutil.AssertTrue(t, after.IsEmpty(testutil.Pos(t, "d4")), "origin cleared")
	p, _ := after.PieceAt(testutil.Pos(t, "e3"))
	testutil.AssertEqual(t, p, model.Piece{Type: model.Pawn, Color: model.Black, HasMoved: true})

	testutil.AssertEqual(t, model.UndoMove(after, ep), before)
	// Undoing the push as well restores the original, including the unmoved flag.
	testutil.AssertEqual(t, model.UndoMove(model.UndoMove(after, ep), push), b)
}

func TestApplyMove_DoesNotMutateInput(t *testing.T) {
	b := model.InitialBoard()
	m, _ := testutil.FindMove(rules.LegalMoves(b, model.White, nil), testutil.Pos(t, "e2"), testutil.Pos(t, "e4"))

	_ = model.ApplyMove(b, m)
	testutil.AssertEqual(t, b, model.InitialBoard())
}

func TestApplyUndo_Sequence(t *testing.T) {
	// Play the first legal move for a dozen plies, then unwind.
	b := model.InitialBoard()
	start := b
	color := model.White
	var played []model.Move
	var last *model.Move
	for i := 0; i < 12; i++ {
		moves := rules.LegalMoves(b, color, last)
		if len(moves) == 0 {
			break
		}
		m := moves[len(moves)/2]
		b = model.ApplyMove(b, m)
		played = append(played, m)
		last = &played[len(played)-1]
		color = color.Opponent()
	}
	for i := len(played) - 1; i >= 0; i-- {
		b = model.UndoMove(b, played[i])
	}
	testutil.AssertEqual(t, b, start)
}
