package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benbeisheim/chess-backend/internal/engine"
)

func pos(s string) engine.Position {
	return engine.MustParsePosition(s)
}

// setup builds a board from square names. Pieces are unmoved unless the
// caller marks them.
func setup(t *testing.T, turn engine.Color, layout map[string]engine.Piece) *engine.Board {
	t.Helper()
	var grid [8][8]engine.Piece
	for sq, piece := range layout {
		p := pos(sq)
		grid[p.Y][p.X] = piece
	}
	b, err := engine.NewBoardFromPieces(grid, turn)
	require.NoError(t, err)
	return b
}

// play makes a sequence of moves written as "e2 e4" pairs and fails the test
// on the first rejected one.
func play(t *testing.T, b *engine.Board, moves ...string) {
	t.Helper()
	for _, m := range moves {
		require.Len(t, m, 5, "move %q", m)
		_, err := b.MovePiece(pos(m[:2]), pos(m[3:]))
		require.NoError(t, err, "move %s", m)
	}
}

func moved(p engine.Piece) engine.Piece {
	p.HasMoved = true
	return p
}
