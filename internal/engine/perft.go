package engine

import "fmt"

// Perft counts the leaf positions reachable from b in exactly depth plies.
// A pawn reaching the last rank counts once per promotion choice. The board
// is walked with MovePiece and Undo and is left as it was found.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.AllLegalMoves()
	if depth == 1 {
		var nodes uint64
		for _, m := range moves {
			if b.IsPromotionMove(m) {
				nodes += uint64(len(PromotionTypes))
			} else {
				nodes++
			}
		}
		return nodes
	}

	var nodes uint64
	for _, m := range moves {
		nodes += perftMove(b, m, depth)
	}
	return nodes
}

// Divide returns the perft count below each root move, keyed by its
// coordinate form ("e2e4", "e7e8q" for promotions).
func Divide(b *Board, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth < 1 {
		return out
	}
	for _, m := range b.AllLegalMoves() {
		if !b.IsPromotionMove(m) {
			out[m.String()] = perftMove(b, m, depth)
			continue
		}
		mustMove(b, m)
		for _, t := range PromotionTypes {
			mustPromote(b, t)
			out[m.String()+lowerLetter(t)] = Perft(b, depth-1)
			mustUndo(b)
		}
		mustUndo(b)
	}
	return out
}

func perftMove(b *Board, m SimpleMove, depth int) uint64 {
	var nodes uint64
	mustMove(b, m)
	if b.state.Kind == WaitingPromotion {
		for _, t := range PromotionTypes {
			mustPromote(b, t)
			nodes += Perft(b, depth-1)
			mustUndo(b)
		}
	} else {
		nodes = Perft(b, depth-1)
	}
	mustUndo(b)
	return nodes
}

// The helpers below panic because a move taken from AllLegalMoves that the
// board then refuses is a broken invariant, not bad input.

func mustMove(b *Board, m SimpleMove) {
	if _, err := b.MovePiece(m.From, m.To); err != nil {
		panic(fmt.Sprintf("perft: legal move %s rejected: %v", m, err))
	}
}

func mustPromote(b *Board, t PieceType) {
	if _, err := b.Promote(t); err != nil {
		panic(fmt.Sprintf("perft: promotion to %s rejected: %v", t, err))
	}
}

func mustUndo(b *Board) {
	if err := b.Undo(); err != nil {
		panic(fmt.Sprintf("perft: undo failed: %v", err))
	}
}

func lowerLetter(t PieceType) string {
	switch t {
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	}
	return "q"
}
