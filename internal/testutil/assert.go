// Package testutil provides shared test helpers: go-cmp based assertions and
// board fixtures.
package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
)

// Cell is a comparable, exported view of one board square for diffs.
type Cell struct {
	Piece    model.Piece
	Occupied bool
}

// BoardTransformer lets cmp look inside model.Board, whose squares are unexported.
var BoardTransformer = cmp.Transformer("Board", func(b model.Board) [8][8]Cell {
	var out [8][8]Cell
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p, ok := b.PieceAt(model.Position{Row: row, Col: col})
			out[row][col] = Cell{Piece: p, Occupied: ok}
		}
	}
	return out
})

// SquareTransformer does the same for a single model.Square.
var SquareTransformer = cmp.Transformer("Square", func(s model.Square) Cell {
	p, ok := s.Piece()
	return Cell{Piece: p, Occupied: ok}
})

// AssertEqual compares got and want using cmp.Diff and reports differences.
func AssertEqual(t *testing.T, got, want interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got, BoardTransformer, SquareTransformer); diff != "" {
		msg := formatMessage(msgAndArgs...)
		if msg != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", msg, diff)
		} else {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	}
}

// AssertNoError fails if err is not nil.
func AssertNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	if err != nil {
		msg := formatMessage(msgAndArgs...)
		if msg != "" {
			t.Fatalf("%s: unexpected error: %v", msg, err)
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

// AssertErrorIs fails unless errors.Is(err, target).
func AssertErrorIs(t *testing.T, err, target error, msgAndArgs ...interface{}) {
	t.Helper()
	if !errors.Is(err, target) {
		msg := formatMessage(msgAndArgs...)
		if msg != "" {
			t.Errorf("%s: error = %v, want %v", msg, err, target)
		} else {
			t.Errorf("error = %v, want %v", err, target)
		}
	}
}

// AssertTrue fails if condition is false.
func AssertTrue(t *testing.T, condition bool, msgAndArgs ...interface{}) {
	t.Helper()
	if !condition {
		msg := formatMessage(msgAndArgs...)
		if msg != "" {
			t.Errorf("%s: expected true but got false", msg)
		} else {
			t.Error("expected true but got false")
		}
	}
}

// AssertFalse fails if condition is true.
func AssertFalse(t *testing.T, condition bool, msgAndArgs ...interface{}) {
	t.Helper()
	if condition {
		msg := formatMessage(msgAndArgs...)
		if msg != "" {
			t.Errorf("%s: expected false but got true", msg)
		} else {
			t.Error("expected false but got true")
		}
	}
}

func formatMessage(msgAndArgs ...interface{}) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if s, ok := msgAndArgs[0].(string); ok {
		if len(msgAndArgs) == 1 {
			return s
		}
		return fmt.Sprintf(s, msgAndArgs[1:]...)
	}
	return fmt.Sprintf("%v", msgAndArgs[0])
}
