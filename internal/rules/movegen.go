// Package rules decides which moves are legal and classifies positions as
// check, checkmate or stalemate. Every function is pure over a board value.
package rules

import "github.com/benbeisheim/chess-ai-backend/internal/model"

// startRow is the rank from which a pawn of the color may advance two squares.
func startRow(c model.Color) int {
	if c == model.White {
		return 6
	}
	return 1
}

// canReach reports whether the piece on from could move to to by its
// movement geometry alone, ignoring whether its own king is left in check.
func canReach(b *model.Board, from, to model.Position) bool {
	if !to.InBounds() || from == to {
		return false
	}
	piece, ok := b.PieceAt(from)
	if !ok {
		return false
	}
	target, occupied := b.PieceAt(to)
	if occupied && target.Color == piece.Color {
		return false
	}

	rowDiff := to.Row - from.Row
	colDiff := to.Col - from.Col

	switch piece.Type {
	case model.Pawn:
		dir := piece.Color.Forward()
		if colDiff == 0 {
			if rowDiff == dir && !occupied {
				return true
			}
			middle := model.Position{Row: from.Row + dir, Col: from.Col}
			return rowDiff == 2*dir && from.Row == startRow(piece.Color) && !occupied && b.IsEmpty(middle)
		}
		// Diagonal only onto an enemy; en passant is generated separately.
		return model.Abs(colDiff) == 1 && rowDiff == dir && occupied
	case model.Rook:
		return (rowDiff == 0 || colDiff == 0) && IsPathClear(b, from, to)
	case model.Bishop:
		return model.Abs(rowDiff) == model.Abs(colDiff) && IsPathClear(b, from, to)
	case model.Queen:
		return (rowDiff == 0 || colDiff == 0 || model.Abs(rowDiff) == model.Abs(colDiff)) && IsPathClear(b, from, to)
	case model.Knight:
		return (model.Abs(rowDiff) == 2 && model.Abs(colDiff) == 1) || (model.Abs(rowDiff) == 1 && model.Abs(colDiff) == 2)
	case model.King:
		// Castling is generated separately.
		return model.Abs(rowDiff) <= 1 && model.Abs(colDiff) <= 1
	}
	return false
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// IsPathClear reports whether every square strictly between from and to is
// empty. from and to must share a row, column or diagonal.
func IsPathClear(b *model.Board, from, to model.Position) bool {
	rowStep := sign(to.Row - from.Row)
	colStep := sign(to.Col - from.Col)

	cur := model.Position{Row: from.Row + rowStep, Col: from.Col + colStep}
	for cur != to {
		if !b.IsEmpty(cur) {
			return false
		}
		cur = model.Position{Row: cur.Row + rowStep, Col: cur.Col + colStep}
	}
	return true
}

// PseudoLegalMoves lists every geometrically valid move for color, origins
// and destinations both in row-major order. Castling and en passant are not
// included.
func PseudoLegalMoves(b model.Board, color model.Color) []model.Move {
	moves := []model.Move{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			from := model.Position{Row: row, Col: col}
			piece, ok := b.PieceAt(from)
			if !ok || piece.Color != color {
				continue
			}
			moves = append(moves, pieceMoves(&b, from, piece)...)
		}
	}
	return moves
}

func pieceMoves(b *model.Board, from model.Position, piece model.Piece) []model.Move {
	var moves []model.Move
	for toRow := 0; toRow < 8; toRow++ {
		for toCol := 0; toCol < 8; toCol++ {
			to := model.Position{Row: toRow, Col: toCol}
			if !canReach(b, from, to) {
				continue
			}
			move := model.Move{
				From:                 from,
				To:                   to,
				Piece:                piece,
				Notation:             model.MoveNotation(piece, from, to),
				InitialPieceHasMoved: piece.HasMoved,
			}
			if captured, ok := b.PieceAt(to); ok {
				move.Captured = &captured
			}
			moves = append(moves, move)
		}
	}
	return moves
}
