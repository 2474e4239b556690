package service

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/game"
	"github.com/benbeisheim/chess-ai-backend/internal/search"
)

// GameManager owns every live game and the engine they share.
type GameManager struct {
	games     map[string]*game.Game
	mu        sync.RWMutex
	engine    *search.Engine
	aiTimeout time.Duration
	now       func() time.Time
}

type ManagerOption func(*GameManager)

// WithAITimeout bounds how long the engine thinks before settling for a
// shallow search.
func WithAITimeout(d time.Duration) ManagerOption {
	return func(gm *GameManager) {
		if d > 0 {
			gm.aiTimeout = d
		}
	}
}

// WithClock replaces the time source handed to new games.
func WithClock(now func() time.Time) ManagerOption {
	return func(gm *GameManager) {
		gm.now = now
	}
}

func NewGameManager(engine *search.Engine, opts ...ManagerOption) *GameManager {
	gm := &GameManager{
		games:     make(map[string]*game.Game),
		engine:    engine,
		aiTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(gm)
	}
	return gm
}

// CreateGame makes a game under a fresh uuid.
func (gm *GameManager) CreateGame(opts game.Options) (*game.Game, error) {
	opts.Engine = gm.engine
	if gm.now != nil {
		opts.Now = gm.now
	}

	g, err := game.New(uuid.New().String(), opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create game")
	}

	gm.mu.Lock()
	gm.games[g.ID] = g
	gm.mu.Unlock()
	return g, nil
}

func (gm *GameManager) GetGame(gameID string) (*game.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	g, exists := gm.games[gameID]
	if !exists {
		return nil, errors.Wrapf(errors.ErrGameNotFound, "game %s", gameID)
	}
	return g, nil
}

func (gm *GameManager) RemoveGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.games, gameID)
}

func (gm *GameManager) Count() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// PlayAI lets the engine answer if it is its turn. Errors are logged; the
// game state tells clients what happened.
func (gm *GameManager) PlayAI(g *game.Game) {
	if !g.AIToMove() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), gm.aiTimeout)
	defer cancel()

	if _, err := g.PlayAIMove(ctx); err != nil {
		log.Warnf("game %s: engine move failed: %v", g.ID, err)
	}
}

// WatchClocks flags games whose side to move ran out of time, every interval
// until ctx is done.
func (gm *GameManager) WatchClocks(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.checkTimeouts()
		}
	}
}

func (gm *GameManager) checkTimeouts() int {
	gm.mu.RLock()
	games := make([]*game.Game, 0, len(gm.games))
	for _, g := range gm.games {
		games = append(games, g)
	}
	gm.mu.RUnlock()

	flagged := 0
	for _, g := range games {
		if g.CheckTimeout() {
			log.Infof("game %s: time expired", g.ID)
			flagged++
		}
	}
	return flagged
}
