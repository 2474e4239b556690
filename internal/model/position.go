package model

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Position addresses a square. Row 0 is black's back rank, row 7 white's.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

func (p Position) String() string {
	return fmt.Sprintf("%s%d", p.File(), 8-p.Row)
}

func (p Position) File() string {
	return fmt.Sprintf("%c", p.Col+'a')
}

// ParsePosition reads a square like "e4".
func ParsePosition(s string) (Position, bool) {
	if len(s) != 2 {
		return Position{}, false
	}
	pos := Position{Row: 8 - int(s[1]-'0'), Col: int(s[0] - 'a')}
	if s[0] < 'a' || s[1] < '1' || !pos.InBounds() {
		return Position{}, false
	}
	return pos, true
}

func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
