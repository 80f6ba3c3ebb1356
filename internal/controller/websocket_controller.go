package controller

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chess-backend/internal/logger"
	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
	log         *logger.Logger
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		log:         logger.Default().WithPrefix("ws"),
	}
}

// HandleConnection serves /ws/game/:gameId. Every write to c after
// registration goes through the room, so errors are sent with
// GameService.SendError rather than on c directly.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	log := wsc.log.WithFields(map[string]any{"game": gameID, "player": playerID})

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warn("failed to register connection: %v", err)
		wsc.sendError(c, err)
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)
	log.Debug("connection open")

	for {
		messageType, data, err := c.ReadMessage()
		if err != nil {
			log.Debug("connection closed: %v", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			wsc.gameService.SendError(gameID, playerID, fmt.Errorf("%w: %v", service.ErrInvalidPayload, err))
			continue
		}
		if err := wsc.gameService.HandleMessage(gameID, playerID, msg); err != nil {
			log.Debug("%s rejected: %v", msg.Type, err)
			wsc.gameService.SendError(gameID, playerID, err)
		}
	}
}

// HandleMatchmaking serves /ws/matchmaking: it waits for the player's match
// and sends a single matchFound message. The player must have joined the
// queue through the REST endpoint.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	log := wsc.log.WithField("player", playerID)

	ch := make(chan ws.MatchFoundEvent, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	// The client never sends anything here; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case ev, ok := <-ch:
		if !ok {
			log.Debug("matchmaking channel replaced")
			return
		}
		msg, err := ws.NewMessage(ws.MessageTypeMatchFound, ev)
		if err != nil {
			log.Error("failed to encode match: %v", err)
			return
		}
		if err := c.WriteJSON(msg); err != nil {
			log.Warn("failed to send match: %v", err)
			return
		}
		log.Info("sent match %s as %s", ev.GameID, ev.Color)
	case <-closed:
		log.Debug("left matchmaking")
	}
}

func (wsc *WebSocketController) sendError(c *websocket.Conn, err error) {
	msg, encErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if encErr != nil {
		return
	}
	if writeErr := c.WriteJSON(msg); writeErr != nil {
		wsc.log.Debug("failed to send error: %v", writeErr)
	}
}
