package ws

import (
	"encoding/json"

	"github.com/benbeisheim/chess-backend/internal/engine"
)

// MessageType names both the commands a client sends and the results the
// server pushes back.
type MessageType string

// Client commands.
const (
	MessageTypeMove    MessageType = "move"
	MessageTypePromote MessageType = "promote"
	MessageTypeResign  MessageType = "resign"
	MessageTypeReset   MessageType = "reset"
)

// Server results.
const (
	MessageTypeConnect    MessageType = "connect"
	MessageTypeDisconnect MessageType = "disconnect"
	MessageTypeMovement   MessageType = "movement"
	MessageTypePromotion  MessageType = "promotion"
	MessageTypeWinner     MessageType = "winner"
	MessageTypeDraw       MessageType = "draw"
	MessageTypeResetDone  MessageType = "reset"
	MessageTypeError      MessageType = "error"
	MessageTypeMatchFound MessageType = "matchFound"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage marshals payload into an envelope. A nil payload is omitted.
func NewMessage(t MessageType, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: t}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}

type MovePayload struct {
	From engine.Position `json:"from"`
	To   engine.Position `json:"to"`
}

type PromotePayload struct {
	Piece engine.PieceType `json:"piece"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// Clocks is the remaining time per side in milliseconds.
type Clocks struct {
	White int64 `json:"white"`
	Black int64 `json:"black"`
}

type MovementPayload struct {
	PlayerID   string           `json:"playerId"`
	Movement   engine.Movement  `json:"movement"`
	Notation   string           `json:"notation"`
	Promotion  engine.Color     `json:"promotion,omitempty"`
	Check      engine.Color     `json:"check,omitempty"`
	TurnNumber int              `json:"turnNumber"`
	State      engine.GameState `json:"state"`
	Clocks     Clocks           `json:"clocks"`
}

type PromotionPayload struct {
	PlayerID string           `json:"playerId"`
	Square   engine.Position  `json:"square"`
	Piece    engine.PieceType `json:"piece"`
	Check    engine.Color     `json:"check,omitempty"`
	State    engine.GameState `json:"state"`
	Clocks   Clocks           `json:"clocks"`
}

// Reasons a game ended.
const (
	ReasonCheckmate   = "checkmate"
	ReasonResignation = "resignation"
	ReasonTimeout     = "timeout"
	ReasonStalemate   = "stalemate"
)

type WinnerPayload struct {
	Color  engine.Color `json:"color"`
	Reason string       `json:"reason"`
}

type DrawPayload struct {
	Reason string `json:"reason"`
}

// ConnectPayload tells a player who joined. Self is true on the message a
// player gets about its own connection; only that one carries the snapshot.
type ConnectPayload struct {
	PlayerID string       `json:"playerId"`
	Color    engine.Color `json:"color"`
	Self     bool         `json:"self"`
	Game     *Snapshot    `json:"game,omitempty"`
}

type DisconnectPayload struct {
	PlayerID string `json:"playerId"`
}

type ResetPayload struct {
	PlayerID string   `json:"playerId"`
	Game     Snapshot `json:"game"`
}

// Snapshot is the full state of a room. Pieces is indexed [rank][file] with
// null for empty squares.
type Snapshot struct {
	ID         string              `json:"id"`
	White      string              `json:"white"`
	Black      string              `json:"black"`
	Pieces     [8][8]*engine.Piece `json:"pieces"`
	Turn       engine.Color        `json:"turn"`
	TurnNumber int                 `json:"turnNumber"`
	Moves      []TurnMove          `json:"moves"`
	Check      engine.Color        `json:"check,omitempty"`
	Promotion  engine.Color        `json:"promotion,omitempty"`
	State      engine.GameState    `json:"state"`
	Clocks     Clocks              `json:"clocks"`
}

// TurnMove is one entry of a room's move log: a move, or the promotion
// choice that completes one.
type TurnMove struct {
	TurnNumber int               `json:"turnNumber"`
	Piece      engine.Piece      `json:"piece"`
	PlayerID   string            `json:"playerId"`
	Movement   *engine.Movement  `json:"movement,omitempty"`
	Promotion  *engine.Promotion `json:"promotion,omitempty"`
}

type MatchFoundEvent struct {
	GameID string       `json:"gameId"`
	Color  engine.Color `json:"color"`
}
