package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chess-backend/internal/room"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/store"
)

// statusFor maps service, room and store errors to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrGameExists), errors.Is(err, service.ErrAlreadyQueued),
		errors.Is(err, room.ErrRoomFull), errors.Is(err, room.ErrClientAlreadyInRoom):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidSquare), errors.Is(err, service.ErrInvalidPayload):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrArchiveDisabled):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func writeError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
