package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chess-backend/internal/logger"
)

// RequestLogger logs one line per request: method, path, status and
// latency. Errors returned by later handlers are passed on unchanged.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.WithPrefix("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		line := log.WithFields(map[string]any{
			"status":  status,
			"latency": time.Since(start).Round(time.Microsecond),
		})
		if status >= fiber.StatusInternalServerError {
			line.Error("%s %s", c.Method(), c.Path())
		} else {
			line.Debug("%s %s", c.Method(), c.Path())
		}
		return err
	}
}
