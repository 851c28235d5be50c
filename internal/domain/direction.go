package domain

// Direction names one of the four line families a window can run along.
type Direction uint8

const (
	Row Direction = iota
	Column
	MainDiagonal
	AntiDiagonal
)

// Directions lists the families in canonical scan order.
var Directions = [...]Direction{Row, Column, MainDiagonal, AntiDiagonal}

func (d Direction) String() string {
	switch d {
	case Row:
		return "row"
	case Column:
		return "column"
	case MainDiagonal:
		return "main diagonal"
	case AntiDiagonal:
		return "anti-diagonal"
	default:
		return "unknown"
	}
}

// step returns the row and column delta between consecutive cells of a window.
func (d Direction) step() (dr, dc int) {
	switch d {
	case Row:
		return 0, 1
	case Column:
		return 1, 0
	case MainDiagonal:
		return 1, 1
	default:
		return 1, -1
	}
}

// EachWindow calls fn for every window of W consecutive cells along family d, in anchor
// order: rows by row then start column, columns by column then start row, diagonals by
// start row then start column. The slice passed to fn is reused between calls; copy it to
// keep it. Iteration stops when fn returns false, and EachWindow then returns false.
func (b *Board) EachWindow(d Direction, fn func(w []Position) bool) bool {
	n, wl := b.size, b.winLength
	last := n - wl
	dr, dc := d.step()
	w := make([]Position, wl)
	visit := func(r0, c0 int) bool {
		for k := range w {
			w[k] = Position{Row: r0 + k*dr, Col: c0 + k*dc}
		}
		return fn(w)
	}
	switch d {
	case Row:
		for r := 0; r < n; r++ {
			for c0 := 0; c0 <= last; c0++ {
				if !visit(r, c0) {
					return false
				}
			}
		}
	case Column:
		for c := 0; c < n; c++ {
			for r0 := 0; r0 <= last; r0++ {
				if !visit(r0, c) {
					return false
				}
			}
		}
	case MainDiagonal:
		for r0 := 0; r0 <= last; r0++ {
			for c0 := 0; c0 <= last; c0++ {
				if !visit(r0, c0) {
					return false
				}
			}
		}
	case AntiDiagonal:
		for r0 := 0; r0 <= last; r0++ {
			for c0 := wl - 1; c0 < n; c0++ {
				if !visit(r0, c0) {
					return false
				}
			}
		}
	}
	return true
}

// Count tallies how many cells of w hold m and whether any cell holds another non-empty
// mark. Every position in w must lie on the board.
func (b *Board) Count(w []Position, m Mark) (n int, blocked bool) {
	for _, p := range w {
		switch b.at(p.Row, p.Col) {
		case m:
			n++
		case Empty:
		default:
			blocked = true
		}
	}
	return n, blocked
}
