package search

import (
	"context"
	"math"

	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/rules"
)

// MateScore is returned when the side to move is checkmated, signed from
// white's point of view.
const MateScore = 10000.0

// Minimax scores b by searching depth plies. maximizing means white is to
// move, matching the sign of Evaluate. This is the reverse of the browser
// engine, which maximized for black while scoring white positive. lastMove lets the first ply see an
// en passant capture it enables; it may be nil.
func Minimax(b model.Board, depth int, maximizing bool, alpha, beta float64, lastMove *model.Move) float64 {
	s := &searcher{ctx: context.Background()}
	return s.minimax(b, depth, maximizing, alpha, beta, lastMove)
}

// searcher carries the cancellation state of one root search. It is not
// shared between goroutines.
type searcher struct {
	ctx   context.Context
	nodes int
}

const checkEvery = 512

func (s *searcher) stopped() bool {
	s.nodes++
	if s.nodes%checkEvery != 0 {
		return false
	}
	return s.ctx.Err() != nil
}

func (s *searcher) minimax(b model.Board, depth int, maximizing bool, alpha, beta float64, lastMove *model.Move) float64 {
	if depth == 0 {
		return Evaluate(b)
	}
	if s.stopped() {
		// Caller discards the result once the context is done.
		return 0
	}

	color := sideFor(maximizing)
	moves := rules.LegalMoves(b, color, lastMove)
	if len(moves) == 0 {
		if rules.IsKingInCheck(b, color) {
			if maximizing {
				return -MateScore
			}
			return MateScore
		}
		return 0
	}

	if maximizing {
		best := math.Inf(-1)
		for i := range moves {
			m := moves[i]
			score := s.minimax(model.ApplyMove(b, m), depth-1, false, alpha, beta, &m)
			best = math.Max(best, score)
			alpha = math.Max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := math.Inf(1)
	for i := range moves {
		m := moves[i]
		score := s.minimax(model.ApplyMove(b, m), depth-1, true, alpha, beta, &m)
		best = math.Min(best, score)
		beta = math.Min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return best
}

func sideFor(maximizing bool) model.Color {
	if maximizing {
		return model.White
	}
	return model.Black
}
