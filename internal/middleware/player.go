package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
)

// PlayerIDKey is the locals key EnsurePlayerID stores the id under.
const PlayerIDKey = "playerID"

// EnsurePlayerID reads the caller's id from the X-Player-ID header or the
// playerId query parameter and stores it for later handlers.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if PlayerID(c) != "" {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			log.Debugf("rejecting %s %s: no player id", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		// Header and query values alias fasthttp's request buffer, which is
		// reused by the next request; the id outlives this one.
		c.Locals(PlayerIDKey, utils.CopyString(playerID))
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID, or "".
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDKey).(string)
	return id
}
