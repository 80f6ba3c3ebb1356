package engine_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chess-backend/internal/engine"
)

func TestPositionRoundTrip(t *testing.T) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			p := engine.Position{X: x, Y: y}
			got, err := engine.ParsePosition(p.String())
			require.NoError(t, err)
			assert.Equal(t, p, got)
		}
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    engine.Position
		wantErr bool
	}{
		{in: "a1", want: engine.Position{X: 0, Y: 0}},
		{in: "h8", want: engine.Position{X: 7, Y: 7}},
		{in: "E4", want: engine.Position{X: 4, Y: 3}},
		{in: "", wantErr: true},
		{in: "e", wantErr: true},
		{in: "e44", wantErr: true},
		{in: "i1", wantErr: true},
		{in: "a0", wantErr: true},
		{in: "a9", wantErr: true},
		{in: "4e", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := engine.ParsePosition(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, engine.ErrInvalidPosition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPositionJSON(t *testing.T) {
	data, err := json.Marshal(engine.SimpleMove{From: pos("e2"), To: pos("e4")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"e2","to":"e4"}`, string(data))

	var m engine.SimpleMove
	require.NoError(t, json.Unmarshal([]byte(`{"from":"G1","to":"f3"}`), &m))
	assert.Equal(t, engine.SimpleMove{From: pos("g1"), To: pos("f3")}, m)

	assert.Error(t, json.Unmarshal([]byte(`{"from":"z9","to":"f3"}`), &m))
}

func TestOffBoardPositionIsEmpty(t *testing.T) {
	b := engine.NewBoard()
	for _, p := range []engine.Position{{X: -1, Y: 0}, {X: 8, Y: 3}, {X: 2, Y: -2}, {X: 0, Y: 8}} {
		_, ok := b.PieceAt(p)
		assert.False(t, ok, "%v", p)
		assert.False(t, b.IsPositionAttacked(p, engine.White))
	}
}
