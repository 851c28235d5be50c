package domain

import "fmt"

// Position addresses a cell by 0-based row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Pos is shorthand for Position{Row: r, Col: c}.
func Pos(r, c int) Position {
	return Position{Row: r, Col: c}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}
