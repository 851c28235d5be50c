// Package ai implements the computer opponent: a pattern-driven move selector that looks
// for the most advanced open line, its own first, and plays next to it.
package ai

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/jaminalder/codex-gomoku/internal/domain"
)

// Strategy names how a computer move was chosen.
type Strategy string

const (
	StrategyOpening Strategy = "opening"
	StrategyPattern Strategy = "pattern"
	StrategyRandom  Strategy = "random"
)

// Decision describes a placed computer move. Level, Target, Direction and Window are set
// only for pattern moves.
type Decision struct {
	Position  domain.Position
	Strategy  Strategy
	Level     int
	Target    domain.Mark
	Direction domain.Direction
	Window    string
}

// Player places Computer marks on the board it is bound to.
type Player struct {
	board *domain.Board
	rng   *rand.Rand
	log   *zap.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithRand sets the random source used for coin flips and fallback moves.
func WithRand(r *rand.Rand) Option {
	return func(p *Player) {
		if r != nil {
			p.rng = r
		}
	}
}

// WithSeed seeds a fresh random source.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithLogger sets the logger; pattern matches are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.log = l
		}
	}
}

// New binds a player to b.
func New(b *domain.Board, opts ...Option) (*Player, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil board", domain.ErrInvalidArgument)
	}
	p := &Player{board: b, log: zap.NewNop()}
	for _, o := range opts {
		o(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(0))
	}
	return p, nil
}

// OpeningMove plays the centre cell.
func (p *Player) OpeningMove() (domain.Position, error) {
	d, err := p.Opening()
	return d.Position, err
}

// Opening is OpeningMove with the decision details.
func (p *Player) Opening() (Decision, error) {
	c := p.board.Center()
	free, err := p.board.IsFree(c.Row, c.Col)
	if err != nil {
		return Decision{}, err
	}
	if !free {
		return Decision{}, fmt.Errorf("%w: opening cell %v", domain.ErrOccupied, c)
	}
	if err := p.board.Set(c.Row, c.Col, domain.Computer); err != nil {
		return Decision{}, err
	}
	p.log.Debug("opening move", zap.Stringer("pos", c))
	return Decision{Position: c, Strategy: StrategyOpening}, nil
}

// Move picks a cell by pattern, falling back to a random empty cell, and plays it.
func (p *Player) Move() (domain.Position, error) {
	d, err := p.Choose()
	return d.Position, err
}

// Choose is Move with the decision details.
func (p *Player) Choose() (Decision, error) {
	if d, ok := p.byPattern(); ok {
		if err := p.board.Set(d.Position.Row, d.Position.Col, domain.Computer); err != nil {
			return Decision{}, err
		}
		return d, nil
	}
	return p.random()
}

// byPattern looks for the first alive window holding t marks, for t from W-1 down to 1,
// trying the computer's own marks before the human's at every level.
func (p *Player) byPattern() (Decision, bool) {
	for t := p.board.WinLength() - 1; t > 0; t-- {
		for _, target := range [...]domain.Mark{domain.Computer, domain.Human} {
			for _, dir := range domain.Directions {
				var (
					window  []domain.Position
					matched bool
				)
				p.board.EachWindow(dir, func(w []domain.Position) bool {
					if n, blocked := p.board.Count(w, target); blocked || n != t {
						return true
					}
					window = append([]domain.Position(nil), w...)
					matched = true
					return false
				})
				if !matched {
					continue
				}
				pattern := p.board.Pattern(window)
				pos, ok := p.pickInWindow(window, target)
				if !ok {
					// a matched window without an empty neighbour means the scan is wrong
					p.log.Error("no empty neighbour in matched window",
						zap.Int("level", t),
						zap.Stringer("target", target),
						zap.Stringer("direction", dir),
						zap.String("window", pattern))
					return Decision{}, false
				}
				p.log.Debug("pattern move",
					zap.Int("level", t),
					zap.Stringer("target", target),
					zap.Stringer("direction", dir),
					zap.String("window", pattern),
					zap.Stringer("pos", pos))
				return Decision{
					Position:  pos,
					Strategy:  StrategyPattern,
					Level:     t,
					Target:    target,
					Direction: dir,
					Window:    pattern,
				}, true
			}
		}
	}
	return Decision{}, false
}

// pickInWindow walks w and, at each cell holding target, tries its neighbours inside the
// window: the only neighbour at either end, otherwise both in coin-flip order.
func (p *Player) pickInWindow(w []domain.Position, target domain.Mark) (domain.Position, bool) {
	last := len(w) - 1
	for i, pos := range w {
		if m, _ := p.board.Get(pos.Row, pos.Col); m != target {
			continue
		}
		var candidates [2]int
		switch {
		case i == 0:
			candidates = [2]int{1, -1}
		case i == last:
			candidates = [2]int{last - 1, -1}
		case p.rng.Intn(2) == 0:
			candidates = [2]int{i + 1, i - 1}
		default:
			candidates = [2]int{i - 1, i + 1}
		}
		for _, j := range candidates {
			if j < 0 || j > last {
				continue
			}
			if free, _ := p.board.IsFree(w[j].Row, w[j].Col); free {
				return w[j], true
			}
		}
	}
	return domain.Position{}, false
}

// random plays a uniformly chosen empty cell.
func (p *Player) random() (Decision, error) {
	empty := p.board.EmptyCells()
	if len(empty) == 0 {
		return Decision{}, fmt.Errorf("%w: board is full", domain.ErrNoMoveAvailable)
	}
	pos := empty[p.rng.Intn(len(empty))]
	if err := p.board.Set(pos.Row, pos.Col, domain.Computer); err != nil {
		return Decision{}, err
	}
	p.log.Debug("random move", zap.Stringer("pos", pos), zap.Int("empty", len(empty)))
	return Decision{Position: pos, Strategy: StrategyRandom}, nil
}
