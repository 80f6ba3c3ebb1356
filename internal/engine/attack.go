package engine

var (
	straightDirs = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	diagonalDirs = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs   = []Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs     = append(append([]Position{}, straightDirs...), diagonalDirs...)
)

// IsKingInCheck reports whether the king of color c is attacked.
func (b *Board) IsKingInCheck(c Color) bool {
	return b.IsPositionAttacked(b.KingPosition(c), c.Opposite())
}

// IsPositionAttacked reports whether any piece of color by could reach pos
// by its movement geometry, whatever stands on pos. It never simulates moves,
// so it is safe to call from inside legality checks. Pawns attack diagonally
// only and kings a single step; castling is not an attack.
func (b *Board) IsPositionAttacked(pos Position, by Color) bool {
	if !pos.Valid() {
		return false
	}
	if b.attackedAlong(pos, by, straightDirs, Rook) || b.attackedAlong(pos, by, diagonalDirs, Bishop) {
		return true
	}
	for _, dir := range knightDirs {
		if b.holds(pos.Add(dir.X, dir.Y), by, Knight) {
			return true
		}
	}
	for _, dir := range kingDirs {
		if b.holds(pos.Add(dir.X, dir.Y), by, King) {
			return true
		}
	}
	// An attacking pawn stands one rank behind pos from its own point of view.
	behind := -by.forward()
	return b.holds(pos.Add(-1, behind), by, Pawn) || b.holds(pos.Add(1, behind), by, Pawn)
}

// attackedAlong scans rays from pos for the first piece on each; slider or a
// queen of color by on the ray attacks pos.
func (b *Board) attackedAlong(pos Position, by Color, dirs []Position, slider PieceType) bool {
	for _, dir := range dirs {
		for sq := pos.Add(dir.X, dir.Y); sq.Valid(); sq = sq.Add(dir.X, dir.Y) {
			piece, occupied := b.PieceAt(sq)
			if !occupied {
				continue
			}
			if piece.Color == by && (piece.Type == slider || piece.Type == Queen) {
				return true
			}
			break
		}
	}
	return false
}

func (b *Board) holds(p Position, c Color, t PieceType) bool {
	piece, ok := b.PieceAt(p)
	return ok && piece.Color == c && piece.Type == t
}
