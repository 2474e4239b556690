package game

import (
	"context"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/rules"
	"github.com/benbeisheim/chess-ai-backend/internal/search"
)

// MakeMove plays from->to for playerID. The squares must match one of the
// legal moves for the side to move; the committed move is returned.
func (g *Game) MakeMove(playerID string, from, to model.Position) (model.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.result != nil {
		return model.Move{}, errors.ErrGameOver
	}
	color, ok := g.seatOf(playerID)
	if !ok {
		return model.Move{}, errors.ErrNotInGame
	}
	if color != g.toMove {
		return model.Move{}, errors.ErrNotYourTurn
	}
	if g.expireIfOutOfTime() {
		g.changed()
		return model.Move{}, errors.Wrap(errors.ErrGameOver, "out of time")
	}

	m, ok := g.findLegal(from, to)
	if !ok {
		return model.Move{}, &errors.MoveError{
			Err:  errors.ErrIllegalMove,
			Ply:  len(g.history) + 1,
			From: from.String(),
			To:   to.String(),
		}
	}

	m = g.commit(m)
	g.changed()
	return m, nil
}

// PlayAIMove asks the engine for the computer's move and commits it. The
// search runs without holding the game lock; if the position changed while
// it was thinking the move is dropped. When ctx times out the engine falls
// back to a shallow search so the game never stalls.
func (g *Game) PlayAIMove(ctx context.Context) (model.Move, error) {
	g.mu.Lock()
	if g.opts.Mode != ModeAI {
		g.mu.Unlock()
		return model.Move{}, errors.Wrap(errors.ErrNotYourTurn, "no computer player")
	}
	if g.result != nil {
		g.mu.Unlock()
		return model.Move{}, errors.ErrGameOver
	}
	if g.toMove != AIColor {
		g.mu.Unlock()
		return model.Move{}, errors.ErrNotYourTurn
	}
	if g.expireIfOutOfTime() {
		g.changed()
		g.mu.Unlock()
		return model.Move{}, errors.Wrap(errors.ErrGameOver, "out of time")
	}
	board := g.board
	ply := len(g.history)
	var last *model.Move
	if lm := g.lastMove(); lm != nil {
		m := *lm
		last = &m
	}
	difficulty := g.opts.Difficulty
	engine := g.opts.Engine
	g.mu.Unlock()

	m, err := engine.BestMoveContext(ctx, board, AIColor, difficulty, last)
	if errors.Is(err, context.DeadlineExceeded) {
		log.Warnf("game %s: %s search timed out, falling back to %s", g.ID, difficulty, search.Easy)
		m, err = engine.BestMoveContext(context.Background(), board, AIColor, search.Easy, last)
	}
	if err != nil {
		return model.Move{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result != nil {
		return model.Move{}, errors.ErrGameOver
	}
	if len(g.history) != ply || g.toMove != AIColor {
		return model.Move{}, errors.Wrap(errors.ErrNotYourTurn, "position changed during search")
	}
	m = g.commit(m)
	g.changed()
	return m, nil
}

// Undo takes back the last ply. In AI games it takes back the computer's
// reply as well so the person is to move again.
func (g *Game) Undo(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seatOf(playerID); !ok {
		return errors.ErrNotInGame
	}
	if g.result != nil {
		return errors.ErrGameOver
	}
	if len(g.history) == 0 {
		return errors.ErrNothingToUndo
	}

	plies := 1
	if g.opts.Mode == ModeAI && g.toMove != AIColor && len(g.history) >= 2 {
		plies = 2
	}
	for i := 0; i < plies; i++ {
		g.undoLast()
	}
	g.outcome = rules.Classify(g.board, g.toMove, g.lastMove())

	g.whiteClock.Stop()
	g.blackClock.Stop()
	g.startClock(g.toMove)

	log.Debugf("game %s: undid %d plies, %s to move", g.ID, plies, g.toMove)
	g.changed()
	return nil
}

// Resign ends the game in the opponent's favour.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.seatOf(playerID)
	if !ok {
		return errors.ErrNotInGame
	}
	if g.result != nil {
		return errors.ErrGameOver
	}
	g.finish(Result{Winner: color.Opponent(), Reason: ReasonResignation})
	g.changed()
	return nil
}

// LegalMovesFrom lists the moves the side to move may make from pos. It is
// empty once the game is over.
func (g *Game) LegalMovesFrom(pos model.Position) []model.Move {
	g.mu.Lock()
	defer g.mu.Unlock()

	moves := []model.Move{}
	if g.result != nil || !pos.InBounds() {
		return moves
	}
	for _, m := range rules.LegalMoves(g.board, g.toMove, g.lastMove()) {
		if m.From == pos {
			moves = append(moves, m)
		}
	}
	return moves
}

// CheckTimeout ends the game if the side to move has run out of time and
// reports whether it did.
func (g *Game) CheckTimeout() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.result != nil || !g.expireIfOutOfTime() {
		return false
	}
	g.changed()
	return true
}

func (g *Game) findLegal(from, to model.Position) (model.Move, bool) {
	if !from.InBounds() || !to.InBounds() {
		return model.Move{}, false
	}
	for _, m := range rules.LegalMoves(g.board, g.toMove, g.lastMove()) {
		if m.From == from && m.To == to {
			return m, true
		}
	}
	return model.Move{}, false
}

// commit applies a legal move for the side to move and updates history,
// counters, clocks and the outcome.
func (g *Game) commit(m model.Move) model.Move {
	m.Timestamp = g.opts.Now()
	g.clock(g.toMove).Stop()

	g.board = model.ApplyMove(g.board, m)
	g.history = append(g.history, m)
	g.stats.TotalMoves++
	if m.IsCapture() {
		g.countCapture(m.Piece.Color, 1)
	}
	g.toMove = g.toMove.Opponent()

	g.classify()
	if g.result == nil {
		g.startClock(g.toMove)
	}
	log.Debugf("game %s: %s played %s", g.ID, m.Piece.Color, m.Notation)
	return m
}

func (g *Game) undoLast() {
	n := len(g.history) - 1
	m := g.history[n]
	g.board = model.UndoMove(g.board, m)
	g.history = g.history[:n]
	g.stats.TotalMoves--
	if m.IsCapture() {
		g.countCapture(m.Piece.Color, -1)
	}
	g.toMove = m.Piece.Color
}

func (g *Game) countCapture(by model.Color, delta int) {
	if by == model.White {
		g.stats.WhiteCaptures += delta
	} else {
		g.stats.BlackCaptures += delta
	}
}

func (g *Game) timed() bool {
	return g.opts.TimerMode.Duration() > 0
}

func (g *Game) clock(c model.Color) *model.Clock {
	if c == model.White {
		return g.whiteClock
	}
	return g.blackClock
}

// startClock runs c's clock once both seats are taken.
func (g *Game) startClock(c model.Color) {
	if g.timed() && !g.hasOpenSeat() {
		g.clock(c).Start()
	}
}

func (g *Game) expireIfOutOfTime() bool {
	if !g.timed() || !g.clock(g.toMove).Expired() {
		return false
	}
	g.finish(Result{Winner: g.toMove.Opponent(), Reason: ReasonTimeout})
	return true
}
