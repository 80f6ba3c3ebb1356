package main

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-backend/internal/config"
	"github.com/benbeisheim/chess-backend/internal/controller"
	"github.com/benbeisheim/chess-backend/internal/logger"
	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	level, _ := logger.ParseLevel(cfg.LogLevel)
	logger.SetDefault(logger.New(logger.WithLevel(level)))
	log := logger.Default().WithPrefix("server")

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open archive: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameManager := service.NewGameManager(
		service.WithArchive(st),
		service.WithClockLimit(cfg.ClockDuration()),
		service.WithMatchmakingInterval(cfg.MatchmakingInterval),
	)
	gameService := service.NewGameService(gameManager, st)
	go gameManager.Run(ctx)

	app := newApp(cfg, gameService)
	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error("shutdown: %v", err)
		}
	}()

	log.Info("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Error("server stopped: %v", err)
		stop()
		st.Close()
		os.Exit(1)
	}
}

// newApp wires middleware, controllers and routes.
func newApp(cfg config.Config, gameService *service.GameService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "chess-backend",
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: !slices.Contains(cfg.AllowedOrigins, "*"),
	}))
	app.Use(middleware.RequestLogger(logger.Default()))

	gameController := controller.NewGameController(gameService)
	archiveController := controller.NewArchiveController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	app.Get("/health", gameController.Health)

	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.AllowedOrigins,
	}
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	wsRoutes.Get("/game/:gameId", websocket.New(wsController.HandleConnection, wsConfig))
	wsRoutes.Get("/matchmaking", websocket.New(wsController.HandleMatchmaking, wsConfig))

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/legal/:square", gameController.LegalMoves)

	archiveRoutes := api.Group("/archive")
	archiveRoutes.Get("/", archiveController.ListGames)
	archiveRoutes.Get("/:gameId", archiveController.GetGame)

	return app
}
