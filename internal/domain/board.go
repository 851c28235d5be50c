package domain

import "fmt"

// Defaults for a standard gomoku board.
const (
	DefaultSize      = 15
	DefaultWinLength = 5
)

// Board is a square grid of marks stored row-major.
type Board struct {
	size      int
	winLength int
	cells     []Mark
}

// NewBoard returns an all-empty size x size board that is won by winLength marks in a row.
func NewBoard(size, winLength int) (*Board, error) {
	if winLength < 1 {
		return nil, fmt.Errorf("%w: win length %d must be positive", ErrInvalidArgument, winLength)
	}
	if size < winLength {
		return nil, fmt.Errorf("%w: board size %d is smaller than win length %d", ErrInvalidArgument, size, winLength)
	}
	return &Board{size: size, winLength: winLength, cells: make([]Mark, size*size)}, nil
}

// Size returns the side length N.
func (b *Board) Size() int { return b.size }

// WinLength returns W, the run length needed to win.
func (b *Board) WinLength() int { return b.winLength }

// Center returns the middle cell, (N/2, N/2).
func (b *Board) Center() Position {
	return Position{Row: b.size / 2, Col: b.size / 2}
}

// Contains reports whether (r, c) lies on the board.
func (b *Board) Contains(r, c int) bool {
	return r >= 0 && r < b.size && c >= 0 && c < b.size
}

func (b *Board) checkBounds(r, c int) error {
	if !b.Contains(r, c) {
		return fmt.Errorf("%w: row=%d col=%d size=%d", ErrOutOfBounds, r, c, b.size)
	}
	return nil
}

// at reads a cell the caller already knows is on the board.
func (b *Board) at(r, c int) Mark {
	return b.cells[r*b.size+c]
}

// Get returns the mark at row r, column c.
func (b *Board) Get(r, c int) (Mark, error) {
	if err := b.checkBounds(r, c); err != nil {
		return Empty, err
	}
	return b.at(r, c), nil
}

// Set overwrites the mark at row r, column c. It does not check turn order or occupancy.
func (b *Board) Set(r, c int, m Mark) error {
	if err := b.checkBounds(r, c); err != nil {
		return err
	}
	if !m.Valid() {
		return fmt.Errorf("%w: mark %d", ErrInvalidArgument, m)
	}
	b.cells[r*b.size+c] = m
	return nil
}

// IsFree reports whether the cell holds Empty.
func (b *Board) IsFree(r, c int) (bool, error) {
	m, err := b.Get(r, c)
	if err != nil {
		return false, err
	}
	return m == Empty, nil
}

// HasEmpty reports whether any cell is still Empty.
func (b *Board) HasEmpty() bool {
	for _, m := range b.cells {
		if m == Empty {
			return true
		}
	}
	return false
}

// EmptyCells lists every empty cell in row-major order.
func (b *Board) EmptyCells() []Position {
	var out []Position
	for i, m := range b.cells {
		if m == Empty {
			out = append(out, Position{Row: i / b.size, Col: i % b.size})
		}
	}
	return out
}

// Reset returns every cell to Empty.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = Empty
	}
}

// Snapshot returns a copy of the grid indexed [row][col].
func (b *Board) Snapshot() [][]Mark {
	out := make([][]Mark, b.size)
	for r := range out {
		row := make([]Mark, b.size)
		copy(row, b.cells[r*b.size:(r+1)*b.size])
		out[r] = row
	}
	return out
}

// Pattern renders the marks along ps as glyphs, with '*' for empty cells.
func (b *Board) Pattern(ps []Position) string {
	buf := make([]byte, 0, len(ps)+2)
	buf = append(buf, '[')
	for _, p := range ps {
		m := b.at(p.Row, p.Col)
		if m == Empty {
			buf = append(buf, '*')
			continue
		}
		buf = append(buf, m.Glyph()...)
	}
	return string(append(buf, ']'))
}
