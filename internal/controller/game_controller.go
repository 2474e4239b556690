package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
	"github.com/benbeisheim/chess-ai-backend/internal/game"
	"github.com/benbeisheim/chess-ai-backend/internal/middleware"
	"github.com/benbeisheim/chess-ai-backend/internal/model"
	"github.com/benbeisheim/chess-ai-backend/internal/search"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
)

type GameController struct {
	gameService       *service.GameService
	defaultDifficulty search.Difficulty
}

func NewGameController(gameService *service.GameService, defaultDifficulty search.Difficulty) *GameController {
	return &GameController{gameService: gameService, defaultDifficulty: defaultDifficulty}
}

type createGameRequest struct {
	Name       string            `json:"name"`
	Mode       game.Mode         `json:"mode"`
	Difficulty search.Difficulty `json:"difficulty"`
	TimerMode  game.TimerMode    `json:"timerMode"`
	FEN        string            `json:"fen"`
}

type joinGameRequest struct {
	Name string `json:"name"`
}

// gameID reads and checks the :gameId route parameter. Ids are uuids, so
// anything else cannot name a game.
func gameID(c *fiber.Ctx) (string, error) {
	id := c.Params("gameId")
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.Wrapf(errors.ErrGameNotFound, "malformed id %q", id)
	}
	return id, nil
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}
	if req.Difficulty == 0 {
		req.Difficulty = gc.defaultDifficulty
	}

	id, color, err := gc.gameService.CreateGame(middleware.PlayerID(c), req.Name, game.Options{
		Mode:       req.Mode,
		Difficulty: req.Difficulty,
		TimerMode:  req.TimerMode,
		FEN:        req.FEN,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": id,
		"color":   color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	id, err := gameID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req joinGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	color, err := gc.gameService.JoinGame(id, middleware.PlayerID(c), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	id, err := gameID(c)
	if err != nil {
		return respondError(c, err)
	}

	state, err := gc.gameService.GetGameState(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	id, err := gameID(c)
	if err != nil {
		return respondError(c, err)
	}
	from := model.Position{Row: c.QueryInt("row", -1), Col: c.QueryInt("col", -1)}
	if !from.InBounds() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "row and col must be between 0 and 7",
		})
	}

	moves, err := gc.gameService.LegalMoves(id, from)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"from":  from,
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	id, err := gameID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req model.SimpleMove
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	state, err := gc.gameService.HandleMove(id, middleware.PlayerID(c), req.From, req.To)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	id, err := gameID(c)
	if err != nil {
		return respondError(c, err)
	}

	state, err := gc.gameService.Undo(id, middleware.PlayerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	id, err := gameID(c)
	if err != nil {
		return respondError(c, err)
	}

	state, err := gc.gameService.Resign(id, middleware.PlayerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(state)
}
