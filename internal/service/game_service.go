package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/room"
	"github.com/benbeisheim/chess-backend/internal/store"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

type GameService struct {
	gameManager *GameManager
	archive     Archive
}

// NewGameService wraps gameManager. archive may be nil, in which case the
// archive queries return ErrArchiveDisabled.
func NewGameService(gameManager *GameManager, archive Archive) *GameService {
	return &GameService{
		gameManager: gameManager,
		archive:     archive,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID, playerID string) (engine.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (ws.Snapshot, error) {
	r, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return ws.Snapshot{}, err
	}
	return r.Snapshot(), nil
}

// LegalMoves lists the destinations of the piece on square ("e2").
func (gs *GameService) LegalMoves(gameID, square string) ([]engine.Position, error) {
	from, err := engine.ParsePosition(square)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSquare, square)
	}
	r, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	moves := r.LegalMoves(from)
	if moves == nil {
		moves = []engine.Position{}
	}
	return moves, nil
}

// HandleMessage decodes one client command and applies it to the room.
func (gs *GameService) HandleMessage(gameID, playerID string, msg ws.Message) error {
	r, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}

	switch msg.Type {
	case ws.MessageTypeMove:
		var p ws.MovePayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		return r.Move(playerID, p.From, p.To)
	case ws.MessageTypePromote:
		var p ws.PromotePayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		return r.Promote(playerID, p.Piece)
	case ws.MessageTypeResign:
		return r.Resign(playerID)
	case ws.MessageTypeReset:
		return r.Reset(playerID)
	}
	return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
}

func decodePayload(msg ws.Message, into any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%w: %s has no payload", ErrInvalidPayload, msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, into); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn room.Sender) error {
	r, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return r.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string, conn room.Sender) {
	r, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	r.UnregisterConnection(playerID, conn)
}

// SendError reports err to the player's registered connection in gameID.
func (gs *GameService) SendError(gameID, playerID string, err error) {
	r, getErr := gs.gameManager.GetGame(gameID)
	if getErr != nil {
		return
	}
	r.SendError(playerID, err)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan ws.MatchFoundEvent) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan ws.MatchFoundEvent) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) ListArchivedGames(ctx context.Context, limit int) ([]store.Game, error) {
	if gs.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return gs.archive.ListGames(ctx, limit)
}

func (gs *GameService) GetArchivedGame(ctx context.Context, gameID string) (store.Game, error) {
	if gs.archive == nil {
		return store.Game{}, ErrArchiveDisabled
	}
	return gs.archive.GetGame(ctx, gameID)
}

func (gs *GameService) GameCount() int {
	return gs.gameManager.GameCount()
}
