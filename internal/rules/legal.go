package rules

import "github.com/benbeisheim/chess-ai-backend/internal/model"

// LegalMoves returns every move color may play: the pseudo-legal moves that
// do not leave its own king attacked, then castling (kingside first), then
// en passant captures made possible by lastMove. lastMove may be nil.
func LegalMoves(b model.Board, color model.Color, lastMove *model.Move) []model.Move {
	legal := []model.Move{}
	for _, m := range PseudoLegalMoves(b, color) {
		if leavesKingSafe(b, m, color) {
			legal = append(legal, m)
		}
	}
	legal = append(legal, castlingMoves(b, color)...)
	legal = append(legal, enPassantMoves(b, color, lastMove)...)
	return legal
}

func leavesKingSafe(b model.Board, m model.Move, color model.Color) bool {
	return !IsKingInCheck(model.ApplyMove(b, m), color)
}

func castlingMoves(b model.Board, color model.Color) []model.Move {
	kingPos, ok := b.KingPosition(color)
	if !ok {
		return nil
	}
	king, _ := b.PieceAt(kingPos)
	if king.HasMoved || IsKingInCheck(b, color) {
		return nil
	}

	var moves []model.Move
	for _, side := range []struct {
		rookCol  int
		kingside bool
	}{{7, true}, {0, false}} {
		if m, ok := castle(b, color, kingPos, king, side.rookCol, side.kingside); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

func castle(b model.Board, color model.Color, kingPos model.Position, king model.Piece, rookCol int, kingside bool) (model.Move, bool) {
	rookPos := model.Position{Row: kingPos.Row, Col: rookCol}
	rook, ok := b.PieceAt(rookPos)
	if !ok || rook.Type != model.Rook || rook.Color != color || rook.HasMoved {
		return model.Move{}, false
	}
	if !IsPathClear(&b, kingPos, rookPos) {
		return model.Move{}, false
	}

	dir := sign(rookCol - kingPos.Col)
	passed := model.Position{Row: kingPos.Row, Col: kingPos.Col + dir}
	landing := model.Position{Row: kingPos.Row, Col: kingPos.Col + 2*dir}
	if !landing.InBounds() {
		return model.Move{}, false
	}
	opponent := color.Opponent()
	if IsSquareAttacked(b, passed, opponent) || IsSquareAttacked(b, landing, opponent) {
		return model.Move{}, false
	}

	return model.Move{
		From:                 kingPos,
		To:                   landing,
		Piece:                king,
		Notation:             model.CastleNotation(kingside),
		InitialPieceHasMoved: king.HasMoved,
		RookMove:             &model.RookMove{From: rookPos, To: passed, Piece: rook},
		InitialRookHasMoved:  rook.HasMoved,
	}, true
}

// enPassantMoves finds pawns standing beside an enemy pawn that has just
// advanced two squares. Any adjacent pawn on that rank qualifies.
func enPassantMoves(b model.Board, color model.Color, lastMove *model.Move) []model.Move {
	if lastMove == nil || lastMove.Piece.Type != model.Pawn || lastMove.Piece.Color != color.Opponent() {
		return nil
	}
	if model.Abs(lastMove.From.Row-lastMove.To.Row) != 2 {
		return nil
	}
	victimPos := lastMove.To
	victim, ok := b.PieceAt(victimPos)
	if !ok || victim.Type != model.Pawn || victim.Color != color.Opponent() {
		return nil
	}
	to := model.Position{Row: victimPos.Row + color.Forward(), Col: victimPos.Col}
	if !to.InBounds() || !b.IsEmpty(to) {
		return nil
	}

	var moves []model.Move
	for _, dc := range []int{-1, 1} {
		from := model.Position{Row: victimPos.Row, Col: victimPos.Col + dc}
		if !from.InBounds() {
			continue
		}
		pawn, ok := b.PieceAt(from)
		if !ok || pawn.Type != model.Pawn || pawn.Color != color {
			continue
		}
		captured := victim
		capturedAt := victimPos
		m := model.Move{
			From:                 from,
			To:                   to,
			Piece:                pawn,
			Captured:             &captured,
			Notation:             model.EnPassantNotation(from, to),
			InitialPieceHasMoved: pawn.HasMoved,
			EnPassant:            true,
			CapturedPawnPosition: &capturedAt,
		}
		if leavesKingSafe(b, m, color) {
			moves = append(moves, m)
		}
	}
	return moves
}
