package domain

import "fmt"

// WinResult is either no winner or the W positions of a winning line, in order along it.
type WinResult struct {
	line      []Position
	direction Direction
}

// NoWinner is the zero WinResult.
var NoWinner = WinResult{}

// Found reports whether a winning line was found.
func (r WinResult) Found() bool { return len(r.line) > 0 }

// Line returns a copy of the winning positions, or nil.
func (r WinResult) Line() []Position {
	if r.line == nil {
		return nil
	}
	out := make([]Position, len(r.line))
	copy(out, r.line)
	return out
}

// Direction reports the line family the winning line runs along.
func (r WinResult) Direction() Direction { return r.direction }

// Contains reports whether p is part of the winning line.
func (r WinResult) Contains(p Position) bool {
	for _, q := range r.line {
		if q == p {
			return true
		}
	}
	return false
}

// FindWinner scans rows, columns, main diagonals and anti-diagonals, in that order, and
// returns the first window whose W cells all hold m.
func FindWinner(b *Board, m Mark) (WinResult, error) {
	if b == nil {
		return NoWinner, fmt.Errorf("%w: nil board", ErrInvalidArgument)
	}
	if m == Empty || !m.Valid() {
		return NoWinner, fmt.Errorf("%w: cannot look for a %s winner", ErrInvalidArgument, m)
	}
	for _, d := range Directions {
		var hit []Position
		b.EachWindow(d, func(w []Position) bool {
			if n, _ := b.Count(w, m); n == len(w) {
				hit = append([]Position(nil), w...)
				return false
			}
			return true
		})
		if hit != nil {
			return WinResult{line: hit, direction: d}, nil
		}
	}
	return NoWinner, nil
}

// WinnerChecker answers winner queries for the board it was built with.
type WinnerChecker struct {
	board *Board
}

// NewWinnerChecker binds a checker to b.
func NewWinnerChecker(b *Board) (*WinnerChecker, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil board", ErrInvalidArgument)
	}
	return &WinnerChecker{board: b}, nil
}

// FindWinner is FindWinner on the bound board.
func (wc *WinnerChecker) FindWinner(m Mark) (WinResult, error) {
	return FindWinner(wc.board, m)
}
