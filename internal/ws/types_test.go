package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chess-backend/internal/engine"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(MessageTypeMove, MovePayload{
		From: engine.MustParsePosition("e2"),
		To:   engine.MustParsePosition("e4"),
	})
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"move","payload":{"from":"e2","to":"e4"}}`, string(data))

	msg, err = NewMessage(MessageTypeResign, nil)
	require.NoError(t, err)
	data, err = json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"resign"}`, string(data))
}

func TestDecodeCommand(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{"type":"promote","payload":{"piece":"Knight"}}`), &msg))
	assert.Equal(t, MessageTypePromote, msg.Type)

	var p PromotePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	assert.Equal(t, engine.Knight, p.Piece)

	assert.Error(t, json.Unmarshal([]byte(`{"piece":"pope"}`), &p))
}

func TestMovementPayloadOmitsEmptyColors(t *testing.T) {
	data, err := json.Marshal(MovementPayload{State: engine.InProgressState()})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "check")
	assert.NotContains(t, fields, "promotion")
	assert.Equal(t, map[string]any{"kind": "inProgress"}, fields["state"])
}
