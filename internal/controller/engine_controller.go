package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chess-ai-backend/internal/search"
	"github.com/benbeisheim/chess-ai-backend/internal/service"
)

// EngineController answers stateless engine queries.
type EngineController struct {
	gameService       *service.GameService
	defaultDifficulty search.Difficulty
}

func NewEngineController(gameService *service.GameService, defaultDifficulty search.Difficulty) *EngineController {
	return &EngineController{gameService: gameService, defaultDifficulty: defaultDifficulty}
}

type bestMoveRequest struct {
	FEN        string            `json:"fen"`
	Difficulty search.Difficulty `json:"difficulty"`
}

func (ec *EngineController) BestMove(c *fiber.Ctx) error {
	var req bestMoveRequest
	if err := c.BodyParser(&req); err != nil || req.FEN == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "fen is required",
		})
	}
	if req.Difficulty == 0 {
		req.Difficulty = ec.defaultDifficulty
	}

	m, err := ec.gameService.BestMove(c.UserContext(), req.FEN, req.Difficulty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"move":       m,
		"difficulty": req.Difficulty.Clamp().String(),
	})
}
