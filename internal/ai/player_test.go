package ai

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/codex-gomoku/internal/domain"
)

func newBoard(t *testing.T) *domain.Board {
	t.Helper()
	b, err := domain.NewBoard(domain.DefaultSize, domain.DefaultWinLength)
	require.NoError(t, err)
	return b
}

func newPlayer(t *testing.T, b *domain.Board, seed int64) *Player {
	t.Helper()
	p, err := New(b, WithSeed(seed))
	require.NoError(t, err)
	return p
}

func place(t *testing.T, b *domain.Board, m domain.Mark, ps ...domain.Position) {
	t.Helper()
	for _, p := range ps {
		require.NoError(t, b.Set(p.Row, p.Col, m))
	}
}

func markAt(t *testing.T, b *domain.Board, p domain.Position) domain.Mark {
	t.Helper()
	m, err := b.Get(p.Row, p.Col)
	require.NoError(t, err)
	return m
}

func TestNewRejectsNilBoard(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestOpeningMovePlaysCenter(t *testing.T) {
	b := newBoard(t)
	p := newPlayer(t, b, 0)

	pos, err := p.OpeningMove()
	require.NoError(t, err)
	assert.Equal(t, domain.Pos(7, 7), pos)
	assert.Equal(t, domain.Computer, markAt(t, b, pos))
	assert.Len(t, b.EmptyCells(), 15*15-1)
}

func TestOpeningMoveOnOccupiedCenter(t *testing.T) {
	b := newBoard(t)
	place(t, b, domain.Human, domain.Pos(7, 7))
	p := newPlayer(t, b, 0)

	_, err := p.OpeningMove()
	assert.ErrorIs(t, err, domain.ErrOccupied)
	assert.Equal(t, domain.Human, markAt(t, b, domain.Pos(7, 7)))
}

func TestMoveBlocksHumanFour(t *testing.T) {
	b := newBoard(t)
	place(t, b, domain.Human, domain.Pos(0, 0), domain.Pos(0, 1), domain.Pos(0, 2), domain.Pos(0, 3))
	p := newPlayer(t, b, 0)

	d, err := p.Choose()
	require.NoError(t, err)
	assert.Equal(t, domain.Pos(0, 4), d.Position)
	assert.Equal(t, StrategyPattern, d.Strategy)
	assert.Equal(t, 4, d.Level)
	assert.Equal(t, domain.Human, d.Target)
	assert.Equal(t, domain.Row, d.Direction)
	assert.Equal(t, "[XXXX*]", d.Window)
	assert.Equal(t, domain.Computer, markAt(t, b, domain.Pos(0, 4)))
}

func TestMovePrefersOwnFourOverBlocking(t *testing.T) {
	b := newBoard(t)
	place(t, b, domain.Computer, domain.Pos(0, 0), domain.Pos(0, 1), domain.Pos(0, 2), domain.Pos(0, 3))
	place(t, b, domain.Human, domain.Pos(5, 0), domain.Pos(5, 1), domain.Pos(5, 2), domain.Pos(5, 3))
	p := newPlayer(t, b, 0)

	d, err := p.Choose()
	require.NoError(t, err)
	assert.Equal(t, domain.Pos(0, 4), d.Position)
	assert.Equal(t, domain.Computer, d.Target)

	res, err := domain.FindWinner(b, domain.Computer)
	require.NoError(t, err)
	assert.True(t, res.Found())
}

func TestMoveHigherLevelWinsOverOwnMarks(t *testing.T) {
	b := newBoard(t)
	place(t, b, domain.Computer, domain.Pos(10, 10), domain.Pos(10, 11))
	place(t, b, domain.Human, domain.Pos(3, 3), domain.Pos(3, 4), domain.Pos(3, 5))
	p := newPlayer(t, b, 0)

	d, err := p.Choose()
	require.NoError(t, err)
	assert.Equal(t, 3, d.Level)
	assert.Equal(t, domain.Human, d.Target)
	// first alive row window holding three X is (3,1)..(3,5)
	assert.Equal(t, domain.Pos(3, 2), d.Position)
}

func TestMoveBlocksColumn(t *testing.T) {
	b := newBoard(t)
	place(t, b, domain.Human, domain.Pos(0, 2), domain.Pos(1, 2), domain.Pos(2, 2), domain.Pos(3, 2))
	p := newPlayer(t, b, 0)

	d, err := p.Choose()
	require.NoError(t, err)
	assert.Equal(t, domain.Pos(4, 2), d.Position)
	assert.Equal(t, domain.Column, d.Direction)
}

func TestMoveSkipsBlockedWindows(t *testing.T) {
	b := newBoard(t)
	// (0,0)..(0,3) capped by O at (0,4): no row window holds four X alive
	place(t, b, domain.Human, domain.Pos(0, 0), domain.Pos(0, 1), domain.Pos(0, 2), domain.Pos(0, 3))
	place(t, b, domain.Computer, domain.Pos(0, 4))
	p := newPlayer(t, b, 0)

	d, err := p.Choose()
	require.NoError(t, err)
	assert.Less(t, d.Level, 4)
	assert.Equal(t, StrategyPattern, d.Strategy)
}

func TestMoveFallsBackToRandomOnEmptyBoard(t *testing.T) {
	b := newBoard(t)
	p := newPlayer(t, b, 0)

	d, err := p.Choose()
	require.NoError(t, err)
	assert.Equal(t, StrategyRandom, d.Strategy)
	assert.Equal(t, domain.Computer, markAt(t, b, d.Position))
	assert.Len(t, b.EmptyCells(), 15*15-1)
}

func TestMoveOnFullBoard(t *testing.T) {
	b, err := domain.NewBoard(5, 5)
	require.NoError(t, err)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			m := domain.Computer
			if (c+2*r)%4 < 2 {
				m = domain.Human
			}
			place(t, b, m, domain.Pos(r, c))
		}
	}
	before := b.Snapshot()
	p := newPlayer(t, b, 0)

	_, err = p.Move()
	assert.ErrorIs(t, err, domain.ErrNoMoveAvailable)
	assert.Equal(t, before, b.Snapshot())
}

func TestMoveIsAlwaysLegal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, dims := range [][2]int{{15, 5}, {7, 4}, {5, 3}} {
		b, err := domain.NewBoard(dims[0], dims[1])
		require.NoError(t, err)
		p, err := New(b, WithRand(rand.New(rand.NewSource(1))))
		require.NoError(t, err)
		for i := 0; i < 200; i++ {
			b.Reset()
			density := rng.Intn(95)
			for r := 0; r < b.Size(); r++ {
				for c := 0; c < b.Size(); c++ {
					if rng.Intn(100) < density {
						place(t, b, domain.Mark(rng.Intn(2)+1), domain.Pos(r, c))
					}
				}
			}
			before := b.Snapshot()
			empties := len(b.EmptyCells())

			d, err := p.Choose()
			if empties == 0 {
				require.ErrorIs(t, err, domain.ErrNoMoveAvailable)
				continue
			}
			require.NoError(t, err)
			require.Equal(t, domain.Empty, before[d.Position.Row][d.Position.Col])
			require.Equal(t, domain.Computer, markAt(t, b, d.Position))
			require.Len(t, b.EmptyCells(), empties-1)
		}
	}
}

func TestSameSeedSameGame(t *testing.T) {
	play := func() []domain.Position {
		b := newBoard(t)
		p := newPlayer(t, b, 99)
		var out []domain.Position
		for i := 0; i < 20; i++ {
			pos, err := p.Move()
			require.NoError(t, err)
			out = append(out, pos)
		}
		return out
	}
	assert.Equal(t, play(), play())
}
