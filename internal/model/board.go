package model

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chess-ai-backend/internal/errors"
)

type PieceType string

func (p PieceType) symbol() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Forward is the row step a pawn of this color advances by.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s", p.Color, p.Type)
}

// Square is one cell of the board: either empty or holding exactly one piece.
type Square struct {
	piece    Piece
	occupied bool
}

func EmptySquare() Square {
	return Square{}
}

func Occupied(p Piece) Square {
	return Square{piece: p, occupied: true}
}

func (s Square) Piece() (Piece, bool) {
	return s.piece, s.occupied
}

func (s Square) IsEmpty() bool {
	return !s.occupied
}

// Board is an 8x8 grid indexed [row][col]. It is a value: assigning a Board
// copies every square.
type Board struct {
	squares [8][8]Square
}

func (b *Board) At(pos Position) Square {
	return b.squares[pos.Row][pos.Col]
}

func (b *Board) PieceAt(pos Position) (Piece, bool) {
	return b.squares[pos.Row][pos.Col].Piece()
}

func (b *Board) IsEmpty(pos Position) bool {
	return b.squares[pos.Row][pos.Col].IsEmpty()
}

func (b *Board) Set(pos Position, p Piece) {
	b.squares[pos.Row][pos.Col] = Occupied(p)
}

func (b *Board) Clear(pos Position) {
	b.squares[pos.Row][pos.Col] = EmptySquare()
}

// KingPosition scans for the king of the given color.
func (b *Board) KingPosition(color Color) (Position, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p, ok := b.squares[row][col].Piece(); ok && p.Type == King && p.Color == color {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// Validate reports boards that do not hold exactly one king per color.
func (b *Board) Validate() error {
	kings := map[Color]int{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p, ok := b.squares[row][col].Piece(); ok && p.Type == King {
				kings[p.Color]++
			}
		}
	}
	for _, c := range []Color{White, Black} {
		if kings[c] != 1 {
			return fmt.Errorf("%w: %d %s kings", errors.ErrInvalidBoard, kings[c], c)
		}
	}
	return nil
}

// MarshalJSON encodes the board as rows of piece objects, null for empty squares.
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, 8)
	for row := 0; row < 8; row++ {
		rows[row] = make([]*Piece, 8)
		for col := 0; col < 8; col++ {
			if p, ok := b.squares[row][col].Piece(); ok {
				rows[row][col] = &p
			}
		}
	}
	return json.Marshal(rows)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]*Piece
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	if len(rows) != 8 {
		return fmt.Errorf("%w: expected 8 rows, got %d", errors.ErrInvalidBoard, len(rows))
	}
	*b = Board{}
	for row, r := range rows {
		if len(r) != 8 {
			return fmt.Errorf("%w: row %d has %d squares", errors.ErrInvalidBoard, row, len(r))
		}
		for col, p := range r {
			if p != nil {
				b.squares[row][col] = Occupied(*p)
			}
		}
	}
	return nil
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// InitialBoard returns the standard starting position with no piece marked as moved.
func InitialBoard() Board {
	var b Board
	for col := 0; col < 8; col++ {
		b.squares[0][col] = Occupied(Piece{Type: backRank[col], Color: Black})
		b.squares[1][col] = Occupied(Piece{Type: Pawn, Color: Black})
		b.squares[6][col] = Occupied(Piece{Type: Pawn, Color: White})
		b.squares[7][col] = Occupied(Piece{Type: backRank[col], Color: White})
	}
	return b
}
