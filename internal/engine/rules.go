package engine

// Per piece movement rules. sudoLegal answers "may this piece make this move
// ignoring its own king"; canMove adds the self-check test by playing the
// move on a scratch copy of the board.

func (b *Board) canMove(piece Piece, from, to Position) (Movement, error) {
	movement, err := b.sudoLegal(piece, from, to)
	if err != nil {
		return Movement{}, err
	}
	scratch := b.scratch()
	scratch.apply(piece, movement)
	if scratch.IsKingInCheck(piece.Color) {
		return Movement{}, ErrCreatesOwnCheck
	}
	return movement, nil
}

func (b *Board) sudoLegal(piece Piece, from, to Position) (Movement, error) {
	if from == to {
		return Movement{}, ErrSamePosition
	}
	if !from.Valid() || !to.Valid() {
		return Movement{}, ErrInvalidMovement
	}
	switch piece.Type {
	case Pawn:
		return b.pawnMovement(piece, from, to)
	case Knight:
		if !isKnightJump(from, to) {
			return Movement{}, ErrInvalidMovement
		}
		return b.landing(piece, from, to)
	case Bishop:
		if !isDiagonal(from, to) || !b.isPathClear(from, to) {
			return Movement{}, ErrInvalidMovement
		}
		return b.landing(piece, from, to)
	case Rook:
		if !isStraight(from, to) || !b.isPathClear(from, to) {
			return Movement{}, ErrInvalidMovement
		}
		return b.landing(piece, from, to)
	case Queen:
		if !(isDiagonal(from, to) || isStraight(from, to)) || !b.isPathClear(from, to) {
			return Movement{}, ErrInvalidMovement
		}
		return b.landing(piece, from, to)
	case King:
		return b.kingMovement(piece, from, to)
	}
	return Movement{}, ErrInvalidMovement
}

// landing applies the occupancy rule shared by every piece: an empty square
// is a plain move, an enemy piece is captured, an own piece blocks.
func (b *Board) landing(piece Piece, from, to Position) (Movement, error) {
	target, occupied := b.PieceAt(to)
	switch {
	case !occupied:
		return Movement{Kind: Valid, From: from, To: to}, nil
	case target.Color != piece.Color:
		return Movement{Kind: Capture, From: from, To: to, Captured: &target}, nil
	}
	return Movement{}, ErrInvalidMovement
}

func (b *Board) pawnMovement(pawn Piece, from, to Position) (Movement, error) {
	forward := pawn.Color.forward()
	dx, dy := from.Delta(to)
	target, occupied := b.PieceAt(to)

	switch {
	case dx == 0 && dy == forward:
		if occupied {
			return Movement{}, ErrInvalidMovement
		}
		return Movement{Kind: Valid, From: from, To: to}, nil

	case dx == 0 && dy == 2*forward:
		if pawn.HasMoved || from.Y != pawn.Color.pawnRank() || occupied {
			return Movement{}, ErrInvalidMovement
		}
		if _, blocked := b.PieceAt(from.Add(0, forward)); blocked {
			return Movement{}, ErrInvalidMovement
		}
		return Movement{Kind: InitialDoubleAdvance, From: from, To: to}, nil

	case abs(dx) == 1 && dy == forward:
		if occupied {
			if target.Color == pawn.Color {
				return Movement{}, ErrInvalidMovement
			}
			return Movement{Kind: Capture, From: from, To: to, Captured: &target}, nil
		}
		return b.enPassant(pawn, from, to)
	}
	return Movement{}, ErrInvalidMovement
}

// enPassant is only open for the ply right after an enemy pawn's double
// advance that ended beside from, on the file of to.
func (b *Board) enPassant(pawn Piece, from, to Position) (Movement, error) {
	last, ok := b.LastTurn()
	if !ok || !last.isDoubleAdvance() {
		return Movement{}, ErrInvalidMovement
	}
	landed := last.Movement.To
	if landed.Y != from.Y || landed.X != to.X {
		return Movement{}, ErrInvalidMovement
	}
	victim, ok := b.PieceAt(landed)
	if !ok || victim.Type != Pawn || victim.Color == pawn.Color {
		return Movement{}, ErrInvalidMovement
	}
	return Movement{Kind: EnPassant, From: from, To: to, Captured: &victim}, nil
}

func (b *Board) kingMovement(king Piece, from, to Position) (Movement, error) {
	dx, dy := from.Delta(to)
	if abs(dx) <= 1 && abs(dy) <= 1 {
		return b.landing(king, from, to)
	}
	if dy == 0 && abs(dx) == 2 {
		return b.castling(king, from, to)
	}
	return Movement{}, ErrInvalidMovement
}

// castling requires an unmoved king and rook, empty squares between them and
// no attacked square on the king's way, start and destination included.
func (b *Board) castling(king Piece, from, to Position) (Movement, error) {
	if king.HasMoved {
		return Movement{}, ErrInvalidMovement
	}
	dir := sign(to.X - from.X)
	rookFrom := Position{X: 0, Y: from.Y}
	if dir > 0 {
		rookFrom.X = 7
	}
	rook, ok := b.PieceAt(rookFrom)
	if !ok || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
		return Movement{}, ErrInvalidMovement
	}
	if to == rookFrom || !b.isPathClear(from, rookFrom) {
		return Movement{}, ErrInvalidMovement
	}
	enemy := king.Color.Opposite()
	for sq := from; sq != to.Add(dir, 0); sq = sq.Add(dir, 0) {
		if b.IsPositionAttacked(sq, enemy) {
			return Movement{}, ErrInvalidMovement
		}
	}
	return Movement{
		Kind:           Castling,
		From:           from,
		To:             to,
		CastleRookMove: &CastleRookMove{From: rookFrom, To: to.Add(-dir, 0)},
	}, nil
}

func isDiagonal(from, to Position) bool {
	dx, dy := from.Delta(to)
	return dx != 0 && abs(dx) == abs(dy)
}

func isStraight(from, to Position) bool {
	dx, dy := from.Delta(to)
	return (dx == 0) != (dy == 0)
}

func isKnightJump(from, to Position) bool {
	dx, dy := from.Delta(to)
	dx, dy = abs(dx), abs(dy)
	return (dx == 1 && dy == 2) || (dx == 2 && dy == 1)
}

// isPathClear reports whether every square strictly between from and to is
// empty. from and to must share a rank, file or diagonal.
func (b *Board) isPathClear(from, to Position) bool {
	dx, dy := from.Delta(to)
	step := Position{X: sign(dx), Y: sign(dy)}
	for sq := from.Add(step.X, step.Y); sq != to; sq = sq.Add(step.X, step.Y) {
		if !sq.Valid() {
			return false
		}
		if _, occupied := b.PieceAt(sq); occupied {
			return false
		}
	}
	return true
}

// LegalMoves returns every destination the piece on from may legally move
// to, in rank-then-file order. It ignores whose turn it is and the game
// state. This tries all 64 squares with a full self-check simulation each,
// fine for play but too slow for search.
func (b *Board) LegalMoves(from Position) []Position {
	piece, ok := b.PieceAt(from)
	if !ok {
		return nil
	}
	var moves []Position
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			to := Position{X: x, Y: y}
			if _, err := b.canMove(piece, from, to); err == nil {
				moves = append(moves, to)
			}
		}
	}
	return moves
}

// AllLegalMoves lists every legal move of the side on move. It is empty when
// the game is over, when a promotion is pending, and on checkmate or
// stalemate.
func (b *Board) AllLegalMoves() []SimpleMove {
	if b.state.Kind != InProgress {
		return nil
	}
	var moves []SimpleMove
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			from := Position{X: x, Y: y}
			if b.pieces[y][x].Color != b.turn {
				continue
			}
			for _, to := range b.LegalMoves(from) {
				moves = append(moves, SimpleMove{From: from, To: to})
			}
		}
	}
	return moves
}

// HasLegalMoves reports whether any piece of c has a legal move.
func (b *Board) HasLegalMoves(c Color) bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := b.pieces[y][x]
			if piece.IsZero() || piece.Color != c {
				continue
			}
			from := Position{X: x, Y: y}
			for ty := 0; ty < 8; ty++ {
				for tx := 0; tx < 8; tx++ {
					if _, err := b.canMove(piece, from, Position{X: tx, Y: ty}); err == nil {
						return true
					}
				}
			}
		}
	}
	return false
}

// IsPromotionMove reports whether m would bring a pawn to its last rank.
func (b *Board) IsPromotionMove(m SimpleMove) bool {
	piece, ok := b.PieceAt(m.From)
	return ok && piece.Type == Pawn && m.To.Y == piece.Color.lastRank()
}
