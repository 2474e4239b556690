package search

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/rules"
)

type Difficulty int

const (
	Easy   Difficulty = 1
	Medium Difficulty = 2
	Hard   Difficulty = 3
)

// Clamp maps any value into Easy..Hard.
func (d Difficulty) Clamp() Difficulty {
	switch {
	case d < Easy:
		return Easy
	case d > Hard:
		return Hard
	}
	return d
}

// Depth is the number of plies searched below each candidate move.
func (d Difficulty) Depth() int {
	return int(d.Clamp())
}

// JitterScale shrinks as difficulty rises so harder levels play more precisely.
func (d Difficulty) JitterScale() float64 {
	return float64(4-d.Clamp()) * 0.2
}

func (d Difficulty) String() string {
	switch d.Clamp() {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	}
	return "hard"
}

// Engine chooses moves. One Engine is safe to share between games; only its
// random source is shared state.
type Engine struct {
	mu      sync.Mutex
	rng     *rand.Rand
	workers int
}

type Option func(*Engine)

// WithSeed makes the jitter sequence reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

func WithSource(src rand.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = rand.New(src)
		}
	}
}

// WithWorkers sets how many goroutines score root moves. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return e
}

// BestMove picks a move for side. It reports false when side has no legal move.
func (e *Engine) BestMove(b model.Board, side model.Color, difficulty Difficulty, lastMove *model.Move) (model.Move, bool) {
	m, err := e.BestMoveContext(context.Background(), b, side, difficulty, lastMove)
	return m, err == nil
}

// BestMoveContext is BestMove that gives up when ctx is done, returning ctx.Err().
// It returns ErrNoLegalMoves when side cannot move.
func (e *Engine) BestMoveContext(ctx context.Context, b model.Board, side model.Color, difficulty Difficulty, lastMove *model.Move) (model.Move, error) {
	moves := OrderMoves(rules.LegalMoves(b, side, lastMove))
	if len(moves) == 0 {
		return model.Move{}, errors.Wrapf(errors.ErrNoLegalMoves, "%s to move", side)
	}

	scores, err := e.scoreAll(ctx, b, moves, side, difficulty.Depth())
	if err != nil {
		return model.Move{}, err
	}

	jitter := e.jitter(len(moves), difficulty.JitterScale())

	best := 0
	bestScore := math.NaN()
	for i := range moves {
		score := scores[i] + jitter[i]
		if i == 0 || better(side, score, bestScore) {
			best, bestScore = i, score
		}
	}
	log.Debugf("engine: %s %s picked %s (score %.2f of %d candidates)",
		difficulty, side, moves[best].Notation, bestScore, len(moves))
	return moves[best], nil
}

// better reports whether score strictly improves on current for side.
// White wants higher scores, black lower.
func better(side model.Color, score, current float64) bool {
	if side == model.White {
		return score > current
	}
	return score < current
}

// OrderMoves returns captures first, most valuable victim first. Moves of
// equal victim value keep their generation order.
func OrderMoves(moves []model.Move) []model.Move {
	ordered := make([]model.Move, len(moves))
	copy(ordered, moves)
	sort.SliceStable(ordered, func(i, j int) bool {
		return capturedValue(ordered[i]) > capturedValue(ordered[j])
	})
	return ordered
}

func capturedValue(m model.Move) float64 {
	if m.Captured == nil {
		return 0
	}
	return PieceValue(m.Captured.Type)
}

// jitter draws one offset per candidate, in candidate order.
func (e *Engine) jitter(n int, scale float64) []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]float64, n)
	for i := range out {
		out[i] = (e.rng.Float64() - 0.5) * scale * 100
	}
	return out
}

// scoreAll runs minimax below every candidate. Each worker takes candidate
// indexes from a channel and writes into its own slot of the result slice.
func (e *Engine) scoreAll(ctx context.Context, b model.Board, moves []model.Move, side model.Color, depth int) ([]float64, error) {
	scores := make([]float64, len(moves))
	reply := side.Opponent() == model.White

	work := make(chan int)
	var wg sync.WaitGroup
	workers := e.workers
	if workers > len(moves) {
		workers = len(moves)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := &searcher{ctx: ctx}
			for i := range work {
				if ctx.Err() != nil {
					continue
				}
				m := moves[i]
				scores[i] = s.minimax(model.ApplyMove(b, m), depth, reply, math.Inf(-1), math.Inf(1), &m)
			}
		}()
	}

	for i := range moves {
		select {
		case work <- i:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}
