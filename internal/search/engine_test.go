package search

import (
	"context"
	"math"
	"testing"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/rules"
	"github.com/benbeisheim/chess-ai-backend/internal/testutil"
)

// midSource makes every Float64 draw exactly 0.5, so jitter is zero.
type midSource struct{}

func (midSource) Int63() int64 { return 1 << 62 }
func (midSource) Seed(int64)   {}

func TestMinimax_DepthZeroIsEvaluate(t *testing.T) {
	fens := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		testutil.FoolsMateFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	}
	for _, fen := range fens {
		b, _ := testutil.MustFEN(t, fen)
		for _, maximizing := range []bool{true, false} {
			got := Minimax(b, 0, maximizing, math.Inf(-1), math.Inf(1), nil)
			if got != Evaluate(b) {
				t.Errorf("%s: Minimax(depth 0) = %v, Evaluate = %v", fen, got, Evaluate(b))
			}
		}
	}
}

func TestMinimax_TerminalScores(t *testing.T) {
	mated, _ := testutil.MustFEN(t, testutil.FoolsMateFEN)
	if got := Minimax(mated, 2, true, math.Inf(-1), math.Inf(1), nil); got != -MateScore {
		t.Errorf("white mated: Minimax() = %v, want %v", got, -MateScore)
	}

	blackMated, _ := testutil.MustFEN(t, "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	if got := Minimax(blackMated, 1, false, math.Inf(-1), math.Inf(1), nil); got != MateScore {
		t.Errorf("black mated: Minimax() = %v, want %v", got, MateScore)
	}

	stale, _ := testutil.MustFEN(t, testutil.StalemateFEN)
	if got := Minimax(stale, 3, false, math.Inf(-1), math.Inf(1), nil); got != 0 {
		t.Errorf("stalemate: Minimax() = %v, want 0", got)
	}
}

func TestDifficulty(t *testing.T) {
	tests := []struct {
		in    Difficulty
		depth int
		scale float64
		name  string
	}{
		{0, 1, 0.6, "easy"},
		{Easy, 1, 0.6, "easy"},
		{Medium, 2, 0.4, "medium"},
		{Hard, 3, 0.2, "hard"},
		{9, 3, 0.2, "hard"},
	}
	for _, tt := range tests {
		if got := tt.in.Depth(); got != tt.depth {
			t.Errorf("Difficulty(%d).Depth() = %d, want %d", tt.in, got, tt.depth)
		}
		if got := tt.in.JitterScale(); math.Abs(got-tt.scale) > 1e-9 {
			t.Errorf("Difficulty(%d).JitterScale() = %v, want %v", tt.in, got, tt.scale)
		}
		testutil.AssertEqual(t, tt.in.String(), tt.name)
	}
}

func TestOrderMoves_CapturesFirstStable(t *testing.T) {
	pawn := model.Piece{Type: model.Pawn, Color: model.Black}
	queen := model.Piece{Type: model.Queen, Color: model.Black}
	moves := []model.Move{
		{Notation: "quiet1"},
		{Notation: "takesPawn1", Captured: &pawn},
		{Notation: "quiet2"},
		{Notation: "takesQueen", Captured: &queen},
		{Notation: "takesPawn2", Captured: &pawn},
	}

	var got []string
	for _, m := range OrderMoves(moves) {
		got = append(got, m.Notation)
	}
	testutil.AssertEqual(t, got, []string{"takesQueen", "takesPawn1", "takesPawn2", "quiet1", "quiet2"})
	testutil.AssertEqual(t, moves[0].Notation, "quiet1", "input left untouched")
}

func TestBestMove_FindsMateInOne(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to string
	}{
		{"black back rank", "r5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1", "a8", "a1"},
		{"white back rank", "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", "a1", "a8"},
	}
	for _, tt := range tests {
		for _, d := range []Difficulty{Easy, Medium, Hard} {
			t.Run(tt.name+"/"+d.String(), func(t *testing.T) {
				b, side := testutil.MustFEN(t, tt.fen)
				e := NewEngine(WithSeed(7))

				m, ok := e.BestMove(b, side, d, nil)
				testutil.AssertTrue(t, ok, "move found")
				testutil.AssertEqual(t, m.From, testutil.Pos(t, tt.from))
				testutil.AssertEqual(t, m.To, testutil.Pos(t, tt.to))
				testutil.AssertTrue(t, rules.IsCheckmate(model.ApplyMove(b, m), side.Opponent()), "move mates")
			})
		}
	}
}

func TestBestMove_TakesHangingQueen(t *testing.T) {
	b, _ := testutil.MustFEN(t, "4k3/8/8/4n3/8/3Q4/8/4K3 b - - 0 1")
	e := NewEngine(WithSource(midSource{}))

	m, ok := e.BestMove(b, model.Black, Easy, nil)
	testutil.AssertTrue(t, ok, "move found")
	testutil.AssertEqual(t, m.Notation, "knighte5-d3")
	testutil.AssertTrue(t, m.IsCapture(), "capture")
}

func TestBestMove_ReturnsLegalMove(t *testing.T) {
	b := model.InitialBoard()
	first, _ := testutil.FindMove(rules.LegalMoves(b, model.White, nil), testutil.Pos(t, "e2"), testutil.Pos(t, "e4"))
	b = model.ApplyMove(b, first)

	e := NewEngine(WithSeed(42))
	for _, d := range []Difficulty{Easy, Medium} {
		m, ok := e.BestMove(b, model.Black, d, &first)
		testutil.AssertTrue(t, ok, "move found")
		if _, legal := testutil.FindMove(rules.LegalMoves(b, model.Black, &first), m.From, m.To); !legal {
			t.Errorf("BestMove(%s) = %s, not a legal move", d, m.Notation)
		}
	}
}

func TestBestMove_DeterministicAcrossWorkers(t *testing.T) {
	b, side := testutil.MustFEN(t, "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4")

	var picks []string
	for _, workers := range []int{1, 2, 4, 8} {
		e := NewEngine(WithSeed(99), WithWorkers(workers))
		m, ok := e.BestMove(b, side, Medium, nil)
		testutil.AssertTrue(t, ok, "move found")
		picks = append(picks, m.Notation)
	}
	for i := 1; i < len(picks); i++ {
		if picks[i] != picks[0] {
			t.Errorf("picks differ by worker count: %v", picks)
			break
		}
	}
}

func TestBestMove_NoLegalMoves(t *testing.T) {
	b, side := testutil.MustFEN(t, testutil.StalemateFEN)
	e := NewEngine(WithSeed(1))

	_, ok := e.BestMove(b, side, Hard, nil)
	testutil.AssertFalse(t, ok, "no move in stalemate")

	_, err := e.BestMoveContext(context.Background(), b, side, Hard, nil)
	testutil.AssertErrorIs(t, err, errors.ErrNoLegalMoves)
}

func TestBestMoveContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine(WithSeed(1), WithWorkers(2))
	_, err := e.BestMoveContext(ctx, model.InitialBoard(), model.White, Hard, nil)
	testutil.AssertErrorIs(t, err, context.Canceled)
}
