package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	b, err := NewBoard(DefaultSize, DefaultWinLength)
	require.NoError(t, err)
	return b
}

func TestNewBoardInitialState(t *testing.T) {
	b := newTestBoard(t)
	assert.Equal(t, 15, b.Size())
	assert.Equal(t, 5, b.WinLength())
	assert.True(t, b.HasEmpty())
	for r := 0; r < b.Size(); r++ {
		for c := 0; c < b.Size(); c++ {
			m, err := b.Get(r, c)
			require.NoError(t, err)
			if m != Empty {
				t.Fatalf("expected empty board, cell (%d,%d) = %v", r, c, m)
			}
		}
	}
}

func TestNewBoardRejectsSizeBelowWinLength(t *testing.T) {
	_, err := NewBoard(4, 5)
	assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
	_, err = NewBoard(5, 0)
	assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)

	b, err := NewBoard(5, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, b.Size())
}

func TestGetSetOutOfBounds(t *testing.T) {
	b := newTestBoard(t)
	cases := [][2]int{{-1, 0}, {0, -1}, {15, 0}, {0, 15}, {20, 20}}
	for _, p := range cases {
		_, err := b.Get(p[0], p[1])
		assert.ErrorIs(t, err, ErrOutOfBounds, "get %v", p)
		assert.ErrorIs(t, b.Set(p[0], p[1], Human), ErrOutOfBounds, "set %v", p)
		_, err = b.IsFree(p[0], p[1])
		assert.ErrorIs(t, err, ErrOutOfBounds, "isFree %v", p)
	}
}

func TestSetThenGet(t *testing.T) {
	b := newTestBoard(t)
	require.NoError(t, b.Set(3, 4, Human))
	require.NoError(t, b.Set(14, 14, Computer))

	m, err := b.Get(3, 4)
	require.NoError(t, err)
	assert.Equal(t, Human, m)
	m, err = b.Get(14, 14)
	require.NoError(t, err)
	assert.Equal(t, Computer, m)

	// overwrite is unconditional
	require.NoError(t, b.Set(3, 4, Computer))
	m, _ = b.Get(3, 4)
	assert.Equal(t, Computer, m)

	free, err := b.IsFree(3, 4)
	require.NoError(t, err)
	assert.False(t, free)
	free, err = b.IsFree(0, 0)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestSetRejectsUndefinedMark(t *testing.T) {
	b := newTestBoard(t)
	assert.ErrorIs(t, b.Set(0, 0, Mark(7)), ErrInvalidArgument)
	m, _ := b.Get(0, 0)
	assert.Equal(t, Empty, m)
}

func TestResetAndHasEmpty(t *testing.T) {
	b, err := NewBoard(5, 3)
	require.NoError(t, err)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			require.NoError(t, b.Set(r, c, Human))
		}
	}
	assert.False(t, b.HasEmpty())
	assert.Empty(t, b.EmptyCells())

	b.Reset()
	assert.True(t, b.HasEmpty())
	assert.Len(t, b.EmptyCells(), 25)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			m, _ := b.Get(r, c)
			assert.Equal(t, Empty, m)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	b := newTestBoard(t)
	require.NoError(t, b.Set(1, 2, Human))
	snap := b.Snapshot()
	require.Len(t, snap, 15)
	assert.Equal(t, Human, snap[1][2])

	snap[1][2] = Computer
	m, _ := b.Get(1, 2)
	assert.Equal(t, Human, m)
}

func TestCenter(t *testing.T) {
	assert.Equal(t, Pos(7, 7), newTestBoard(t).Center())
	b, err := NewBoard(6, 5)
	require.NoError(t, err)
	assert.Equal(t, Pos(3, 3), b.Center())
}

func TestGlyphContract(t *testing.T) {
	assert.Equal(t, "X", Human.Glyph())
	assert.Equal(t, "O", Computer.Glyph())
	assert.Equal(t, "", Empty.Glyph())
	assert.Equal(t, Computer, Human.Opponent())
	assert.Equal(t, Human, Computer.Opponent())
}

func TestPattern(t *testing.T) {
	b := newTestBoard(t)
	require.NoError(t, b.Set(0, 0, Human))
	require.NoError(t, b.Set(0, 2, Computer))
	got := b.Pattern([]Position{Pos(0, 0), Pos(0, 1), Pos(0, 2)})
	assert.Equal(t, "[X*O]", got)
}

func TestEachWindowCounts(t *testing.T) {
	b := newTestBoard(t)
	// N=15, W=5: 11 anchors per line.
	want := map[Direction]int{
		Row:          15 * 11,
		Column:       15 * 11,
		MainDiagonal: 11 * 11,
		AntiDiagonal: 11 * 11,
	}
	for _, d := range Directions {
		n := 0
		b.EachWindow(d, func(w []Position) bool {
			require.Len(t, w, 5)
			for _, p := range w {
				require.True(t, b.Contains(p.Row, p.Col), "%v off board in %v", p, d)
			}
			n++
			return true
		})
		assert.Equal(t, want[d], n, d.String())
	}
}

func TestEachWindowOrder(t *testing.T) {
	b := newTestBoard(t)
	var first [][]Position
	for _, d := range Directions {
		b.EachWindow(d, func(w []Position) bool {
			first = append(first, append([]Position(nil), w...))
			return false
		})
	}
	assert.Equal(t, []Position{Pos(0, 0), Pos(0, 1), Pos(0, 2), Pos(0, 3), Pos(0, 4)}, first[0])
	assert.Equal(t, []Position{Pos(0, 0), Pos(1, 0), Pos(2, 0), Pos(3, 0), Pos(4, 0)}, first[1])
	assert.Equal(t, []Position{Pos(0, 0), Pos(1, 1), Pos(2, 2), Pos(3, 3), Pos(4, 4)}, first[2])
	assert.Equal(t, []Position{Pos(0, 4), Pos(1, 3), Pos(2, 2), Pos(3, 1), Pos(4, 0)}, first[3])
}
