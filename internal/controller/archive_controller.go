package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chess-backend/internal/service"
)

const maxArchiveLimit = 200

type ArchiveController struct {
	gameService *service.GameService
}

func NewArchiveController(gameService *service.GameService) *ArchiveController {
	return &ArchiveController{gameService: gameService}
}

// ListGames answers GET /api/archive?limit=N, newest first.
func (ac *ArchiveController) ListGames(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > maxArchiveLimit {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be between 1 and 200",
		})
	}
	games, err := ac.gameService.ListArchivedGames(c.UserContext(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(games)
}

func (ac *ArchiveController) GetGame(c *fiber.Ctx) error {
	g, err := ac.gameService.GetArchivedGame(c.UserContext(), c.Params("gameId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(g)
}
