package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/benbeisheim/chess-backend/internal/logger"
)

// PlayerIDKey is the Locals key EnsurePlayerID stores the player id under.
const PlayerIDKey = "playerID"

// EnsurePlayerID takes the player id from the X-Player-ID header or the
// playerId query parameter and rejects the request when neither is set.
// The stored id is a copy: fiber reuses the request buffers, and the id
// outlives the request as a room seat or queue entry.
func EnsurePlayerID() fiber.Handler {
	log := logger.Default().WithPrefix("http")
	return func(c *fiber.Ctx) error {
		if c.Locals(PlayerIDKey) != nil {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			log.Debug("rejected %s %s: no player id", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}

		c.Locals(PlayerIDKey, utils.CopyString(playerID))
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID.
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(PlayerIDKey).(string)
	return id
}
