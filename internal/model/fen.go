package model

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
)

var fromChessType = map[chess.PieceType]PieceType{
	chess.King:   King,
	chess.Queen:  Queen,
	chess.Rook:   Rook,
	chess.Bishop: Bishop,
	chess.Knight: Knight,
	chess.Pawn:   Pawn,
}

var toChessType = map[PieceType]chess.PieceType{
	King:   chess.King,
	Queen:  chess.Queen,
	Rook:   chess.Rook,
	Bishop: chess.Bishop,
	Knight: chess.Knight,
	Pawn:   chess.Pawn,
}

func positionOf(sq chess.Square) Position {
	return Position{Row: 7 - int(sq.Rank()), Col: int(sq.File())}
}

func squareOf(pos Position) chess.Square {
	return chess.NewSquare(chess.File(pos.Col), chess.Rank(7-pos.Row))
}

func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

func colorOf(c chess.Color) Color {
	if c == chess.Black {
		return Black
	}
	return White
}

// FromFEN parses a FEN string into a board and the side to move.
//
// Moved-flags are not part of FEN, so they are derived: a king or rook keeps
// HasMoved=false only if it stands on its home square and the matching
// castling right is present; a pawn is unmoved only on its starting rank.
// Knights, bishops and queens are always unmoved.
func FromFEN(fen string) (Board, Color, error) {
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return Board{}, "", errors.Wrapf(errors.ErrInvalidFEN, "%q: %v", fen, err)
	}
	rights := pos.CastleRights()

	var b Board
	for sq, cp := range pos.Board().SquareMap() {
		p := Piece{Type: fromChessType[cp.Type()], Color: colorOf(cp.Color())}
		at := positionOf(sq)
		switch p.Type {
		case Pawn:
			p.HasMoved = at.Row != homeRow(p.Color)+p.Color.Forward()
		case King:
			p.HasMoved = true
			cc := toChessColor(p.Color)
			if at.Row == homeRow(p.Color) && at.Col == 4 {
				p.HasMoved = !rights.CanCastle(cc, chess.KingSide) && !rights.CanCastle(cc, chess.QueenSide)
			}
		case Rook:
			p.HasMoved = true
			cc := toChessColor(p.Color)
			if at.Row == homeRow(p.Color) {
				switch at.Col {
				case 7:
					p.HasMoved = !rights.CanCastle(cc, chess.KingSide)
				case 0:
					p.HasMoved = !rights.CanCastle(cc, chess.QueenSide)
				}
			}
		}
		b.Set(at, p)
	}
	if err := b.Validate(); err != nil {
		return Board{}, "", err
	}
	return b, colorOf(pos.Turn()), nil
}

func toChessColor(c Color) chess.Color {
	if c == Black {
		return chess.Black
	}
	return chess.White
}

// FEN renders the board with the castling rights implied by moved-flags.
// En passant and move counters are not tracked on a Board and are written
// as "-", 0 and 1.
func FEN(b Board, toMove Color) string {
	m := map[chess.Square]chess.Piece{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			pos := Position{Row: row, Col: col}
			if p, ok := b.PieceAt(pos); ok {
				m[squareOf(pos)] = chess.NewPiece(toChessType[p.Type], toChessColor(p.Color))
			}
		}
	}
	turn := "w"
	if toMove == Black {
		turn = "b"
	}
	return fmt.Sprintf("%s %s %s - 0 1", chess.NewBoard(m).String(), turn, castlingField(b))
}

func castlingField(b Board) string {
	var sb strings.Builder
	for _, c := range []Color{White, Black} {
		row := homeRow(c)
		king, ok := b.PieceAt(Position{Row: row, Col: 4})
		if !ok || king.Type != King || king.Color != c || king.HasMoved {
			continue
		}
		for _, side := range []struct {
			col    int
			letter PieceType
		}{{7, King}, {0, Queen}} {
			rook, ok := b.PieceAt(Position{Row: row, Col: side.col})
			if ok && rook.Type == Rook && rook.Color == c && !rook.HasMoved {
				letter := side.letter.symbol()
				if c == Black {
					letter = strings.ToLower(letter)
				}
				sb.WriteString(letter)
			}
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}
