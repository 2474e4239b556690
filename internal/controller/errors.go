package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, errors.ErrIllegalMove),
		errors.Is(err, errors.ErrInvalidFEN),
		errors.Is(err, errors.ErrInvalidBoard),
		errors.Is(err, errors.ErrInvalidConfig),
		errors.Is(err, errors.ErrNothingToUndo),
		errors.Is(err, errors.ErrUnknownMessage):
		return fiber.StatusBadRequest
	case errors.Is(err, errors.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, errors.ErrNotYourTurn),
		errors.Is(err, errors.ErrGameOver),
		errors.Is(err, errors.ErrGameFull):
		return fiber.StatusConflict
	case errors.Is(err, errors.ErrNoLegalMoves):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	} else {
		log.Debugf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
