package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/game"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/search"
	"github.com/benbeisheim/chess-ai-backend/internal/testutil"
)

func newTestService(opts ...ManagerOption) (*GameService, *GameManager) {
	gm := NewGameManager(search.NewEngine(search.WithSeed(11)), opts...)
	return NewGameService(gm), gm
}

func TestCreateAndJoin(t *testing.T) {
	gs, gm := newTestService()

	id, color, err := gs.CreateGame("alice", "Alice", game.Options{Mode: game.ModeLocal})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, color, model.White)
	testutil.AssertEqual(t, gm.Count(), 1)

	color, err = gs.JoinGame(id, "bob", "Bob")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, color, model.Black)

	_, err = gs.JoinGame(id, "carol", "")
	testutil.AssertErrorIs(t, err, errors.ErrGameFull)

	_, err = gs.JoinGame("no-such-game", "carol", "")
	testutil.AssertErrorIs(t, err, errors.ErrGameNotFound)

	state, err := gs.GetGameState(id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state.Players.White.Name, "Alice")
	testutil.AssertEqual(t, state.Players.Black.Name, "Bob")
}

func TestCreateGame_InvalidOptions(t *testing.T) {
	gs, gm := newTestService()

	_, _, err := gs.CreateGame("alice", "", game.Options{FEN: "8/8/8/8/8/8/8/8 w - - 0 1"})
	testutil.AssertErrorIs(t, err, errors.ErrInvalidBoard)

	_, _, err = gs.CreateGame("", "", game.Options{})
	testutil.AssertErrorIs(t, err, errors.ErrNotInGame)
	testutil.AssertEqual(t, gm.Count(), 0, "failed games are not kept")
}

func TestHandleMove_AIReplies(t *testing.T) {
	gs, _ := newTestService()
	id, _, err := gs.CreateGame("alice", "", game.Options{Mode: game.ModeAI, Difficulty: search.Easy})
	testutil.AssertNoError(t, err)

	state, err := gs.HandleMove(id, "alice", testutil.Pos(t, "e2"), testutil.Pos(t, "e4"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(state.MoveHistory), 2)
	testutil.AssertEqual(t, state.ToMove, model.White)
	testutil.AssertEqual(t, state.MoveHistory[1].Piece.Color, model.Black)

	state, err = gs.Undo(id, "alice")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(state.MoveHistory), 0)
	testutil.AssertEqual(t, state.Board, model.InitialBoard())
}

func TestCreateGame_AIMovesFirstFromFEN(t *testing.T) {
	gs, _ := newTestService()
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"

	id, _, err := gs.CreateGame("alice", "", game.Options{Mode: game.ModeAI, Difficulty: search.Easy, FEN: fen})
	testutil.AssertNoError(t, err)

	state, err := gs.GetGameState(id)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state.ToMove, model.White)
	testutil.AssertEqual(t, len(state.MoveHistory), 1)
}

func TestHandleMove_Errors(t *testing.T) {
	gs, _ := newTestService()
	id, _, err := gs.CreateGame("alice", "", game.Options{})
	testutil.AssertNoError(t, err)

	_, err = gs.HandleMove("missing", "alice", testutil.Pos(t, "e2"), testutil.Pos(t, "e4"))
	testutil.AssertErrorIs(t, err, errors.ErrGameNotFound)

	_, err = gs.HandleMove(id, "alice", testutil.Pos(t, "e2"), testutil.Pos(t, "e5"))
	testutil.AssertErrorIs(t, err, errors.ErrIllegalMove)
}

func TestLegalMovesAndResign(t *testing.T) {
	gs, _ := newTestService()
	id, _, err := gs.CreateGame("alice", "", game.Options{})
	testutil.AssertNoError(t, err)
	_, err = gs.JoinGame(id, "bob", "")
	testutil.AssertNoError(t, err)

	moves, err := gs.LegalMoves(id, testutil.Pos(t, "b1"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(moves), 2)

	state, err := gs.Resign(id, "alice")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state.Result, &game.Result{Winner: model.Black, Reason: game.ReasonResignation})
}

func TestBestMove(t *testing.T) {
	gs, _ := newTestService()

	m, err := gs.BestMove(context.Background(), "r5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1", search.Medium)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, m.Notation, "rooka8-a1")

	_, err = gs.BestMove(context.Background(), "garbage", search.Easy)
	testutil.AssertErrorIs(t, err, errors.ErrInvalidFEN)

	_, err = gs.BestMove(context.Background(), "k7/8/1QK5/8/8/8/8/8 b - - 0 1", search.Easy)
	testutil.AssertErrorIs(t, err, errors.ErrNoLegalMoves)
}

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestCheckTimeouts(t *testing.T) {
	clock := &manualClock{t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	gs, gm := newTestService(WithClock(clock.now))

	timed, _, err := gs.CreateGame("alice", "", game.Options{TimerMode: game.TimerBlitz})
	testutil.AssertNoError(t, err)
	_, err = gs.JoinGame(timed, "bob", "")
	testutil.AssertNoError(t, err)

	untimed, _, err := gs.CreateGame("carol", "", game.Options{})
	testutil.AssertNoError(t, err)
	_, err = gs.JoinGame(untimed, "dave", "")
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, gm.checkTimeouts(), 0)
	clock.advance(5*time.Minute + time.Second)
	testutil.AssertEqual(t, gm.checkTimeouts(), 1)
	testutil.AssertEqual(t, gm.checkTimeouts(), 0, "flagged once")

	state, err := gs.GetGameState(timed)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state.Result, &game.Result{Winner: model.Black, Reason: game.ReasonTimeout})
}

func TestWatchClocks_StopsWithContext(t *testing.T) {
	_, gm := newTestService()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		gm.WatchClocks(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WatchClocks did not return after cancel")
	}
}
