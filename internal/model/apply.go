package model

// ApplyMove returns the board after m. The moved piece and a castling rook
// are marked as moved, and an en-passant victim is removed from its own square.
func ApplyMove(b Board, m Move) Board {
	piece, ok := b.PieceAt(m.From)
	if !ok {
		piece = m.Piece
	}
	piece.HasMoved = true
	b.Clear(m.From)
	b.Set(m.To, piece)

	if m.RookMove != nil {
		rook, ok := b.PieceAt(m.RookMove.From)
		if !ok {
			rook = m.RookMove.Piece
		}
		rook.HasMoved = true
		b.Clear(m.RookMove.From)
		b.Set(m.RookMove.To, rook)
	}

	if m.EnPassant && m.CapturedPawnPosition != nil {
		b.Clear(*m.CapturedPawnPosition)
	}
	return b
}

// UndoMove reverses ApplyMove using only the metadata stored on m, restoring
// the prior moved-flags of king and rook and any captured piece.
func UndoMove(b Board, m Move) Board {
	if m.RookMove != nil {
		rook := m.RookMove.Piece
		if p, ok := b.PieceAt(m.RookMove.To); ok {
			rook = p
		}
		rook.HasMoved = m.InitialRookHasMoved
		b.Clear(m.RookMove.To)
		b.Set(m.RookMove.From, rook)
	}

	piece := m.Piece
	piece.HasMoved = m.InitialPieceHasMoved
	b.Set(m.From, piece)

	if m.Captured != nil && !m.EnPassant {
		b.Set(m.To, *m.Captured)
	} else {
		b.Clear(m.To)
	}

	if m.EnPassant && m.CapturedPawnPosition != nil && m.Captured != nil {
		b.Set(*m.CapturedPawnPosition, *m.Captured)
	}
	return b
}
