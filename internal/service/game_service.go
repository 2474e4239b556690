package service

import (
	"context"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/game"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/search"
)

// GameService is what the controllers call. In AI games it plays the
// engine's reply before returning, so REST clients see both moves.
type GameService struct {
	gameManager *GameManager
	engine      *search.Engine
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
		engine:      gameManager.engine,
	}
}

// CreateGame creates a game and seats its creator under name, which may be empty.
func (gs *GameService) CreateGame(playerID, name string, opts game.Options) (string, model.Color, error) {
	g, err := gs.gameManager.CreateGame(opts)
	if err != nil {
		return "", "", err
	}
	color, err := g.AddNamedPlayer(playerID, name)
	if err != nil {
		gs.gameManager.RemoveGame(g.ID)
		return "", "", err
	}
	// A start position may leave the engine to move first.
	gs.gameManager.PlayAI(g)
	return g.ID, color, nil
}

func (gs *GameService) JoinGame(gameID, playerID, name string) (model.Color, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return g.AddNamedPlayer(playerID, name)
}

func (gs *GameService) GetGameState(gameID string) (game.State, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return game.State{}, err
	}
	return g.State(), nil
}

func (gs *GameService) LegalMoves(gameID string, from model.Position) ([]model.Move, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return g.LegalMovesFrom(from), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, from, to model.Position) (game.State, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return game.State{}, err
	}
	if _, err := g.MakeMove(playerID, from, to); err != nil {
		return game.State{}, err
	}
	gs.gameManager.PlayAI(g)
	return g.State(), nil
}

func (gs *GameService) Undo(gameID string, playerID string) (game.State, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return game.State{}, err
	}
	if err := g.Undo(playerID); err != nil {
		return game.State{}, err
	}
	gs.gameManager.PlayAI(g)
	return g.State(), nil
}

func (gs *GameService) Resign(gameID string, playerID string) (game.State, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return game.State{}, err
	}
	if err := g.Resign(playerID); err != nil {
		return game.State{}, err
	}
	return g.State(), nil
}

// BestMove answers a one-off engine query for a FEN position.
func (gs *GameService) BestMove(ctx context.Context, fen string, difficulty search.Difficulty) (model.Move, error) {
	board, toMove, err := model.FromFEN(fen)
	if err != nil {
		return model.Move{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, gs.gameManager.aiTimeout)
	defer cancel()

	m, err := gs.engine.BestMoveContext(ctx, board, toMove, difficulty.Clamp(), nil)
	if err != nil {
		return model.Move{}, errors.Wrap(err, "engine query")
	}
	return m, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn game.Conn) (*game.Game, error) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if err := g.RegisterConnection(playerID, conn); err != nil {
		return nil, err
	}
	return g, nil
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn game.Conn) {
	g, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	g.UnregisterConnection(playerID, conn)
}
