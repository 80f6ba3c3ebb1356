package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chess-backend/internal/engine"
)

func gameFrom(t *testing.T, layout map[string]engine.Piece) *Game {
	t.Helper()
	var grid [8][8]engine.Piece
	for sq, p := range layout {
		at := engine.MustParsePosition(sq)
		grid[at.Y][at.X] = p
	}
	board, err := engine.NewBoardFromPieces(grid, engine.White)
	require.NoError(t, err)
	g := NewGame(1, false)
	g.board = board
	return g
}

func piece(t engine.PieceType, c engine.Color) engine.Piece {
	return engine.Piece{Type: t, Color: c, HasMoved: true}
}

func TestRunReportsBadInput(t *testing.T) {
	g := NewGame(1, false)
	var out strings.Builder
	require.NoError(t, g.Run(strings.NewReader("hello\ne2 e5\nz9 e4\ne2 e4\n"), &out))

	text := out.String()
	assert.Contains(t, text, "Welcome to chess!")
	assert.Equal(t, 2, strings.Count(text, "invalid input\n"))
	assert.Contains(t, text, "invalid movement\n")
	assert.Equal(t, engine.White, g.board.Turn(), "computer replied to e2e4")
	assert.Len(t, g.board.History(), 2)
}

func TestRunUndo(t *testing.T) {
	g := NewGame(1, false)
	var out strings.Builder
	require.NoError(t, g.Run(strings.NewReader("undo\ne2 e4\nundo\n"), &out))

	assert.Contains(t, out.String(), "nothing to undo\n")
	assert.Empty(t, g.board.History())
	assert.Equal(t, engine.NewBoard().String(), g.board.String())
}

func TestRunPromotionMenu(t *testing.T) {
	g := gameFrom(t, map[string]engine.Piece{
		"a1": piece(engine.King, engine.White),
		"d7": piece(engine.Pawn, engine.White),
		"h1": piece(engine.King, engine.Black),
	})
	var out strings.Builder
	require.NoError(t, g.Run(strings.NewReader("d7 d8\nX\nK\n"), &out))

	text := out.String()
	assert.Contains(t, text, "Options: Q, R, B, K\n")
	assert.Contains(t, text, "invalid input\n")
	knight, _ := g.board.PieceAt(engine.MustParsePosition("d8"))
	assert.Equal(t, engine.Knight, knight.Type)
}

func TestRunAnnouncesWinner(t *testing.T) {
	g := gameFrom(t, map[string]engine.Piece{
		"g1": piece(engine.King, engine.White),
		"a1": piece(engine.Rook, engine.White),
		"g8": piece(engine.King, engine.Black),
		"f7": {Type: engine.Pawn, Color: engine.Black},
		"g7": {Type: engine.Pawn, Color: engine.Black},
		"h7": {Type: engine.Pawn, Color: engine.Black},
	})
	var out strings.Builder
	require.NoError(t, g.Run(strings.NewReader("a1 a8\n"), &out))
	assert.True(t, strings.HasSuffix(out.String(), "white wins!\n"))
}

func TestRunAnnouncesDraw(t *testing.T) {
	g := gameFrom(t, map[string]engine.Piece{
		"b6": piece(engine.King, engine.White),
		"d7": piece(engine.Queen, engine.White),
		"a8": piece(engine.King, engine.Black),
	})
	var out strings.Builder
	require.NoError(t, g.Run(strings.NewReader("d7 c7\n"), &out))
	assert.True(t, strings.HasSuffix(out.String(), "draw\n"))
}

func TestParsePromotion(t *testing.T) {
	tests := map[string]engine.PieceType{
		"Q": engine.Queen,
		"r": engine.Rook,
		"B": engine.Bishop,
		"K": engine.Knight,
		"n": engine.Knight,
	}
	for in, want := range tests {
		got, err := parsePromotion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parsePromotion("P")
	assert.ErrorIs(t, err, errInvalidInput)
}
