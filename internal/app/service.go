package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaminalder/codex-gomoku/internal/ai"
	"github.com/jaminalder/codex-gomoku/internal/domain"
	"github.com/jaminalder/codex-gomoku/internal/metrics"
)

// Errors exposed by the service layer.
var (
	ErrNotFound   = errors.New("game not found")
	ErrNotAPlayer = errors.New("not a player")
)

// Status is the outcome of the current round.
type Status uint8

const (
	StatusOpen Status = iota
	StatusHumanWon
	StatusComputerWon
	StatusDraw
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusHumanWon:
		return "human"
	case StatusComputerWon:
		return "computer"
	case StatusDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Message is the status line shown to the player.
func (s Status) Message() string {
	switch s {
	case StatusHumanWon:
		return "Game over: You win!"
	case StatusComputerWon:
		return "Game over: Computer wins!"
	case StatusDraw:
		return "Game over: Draw!"
	default:
		return "Your turn"
	}
}

// Over reports whether the round has finished.
func (s Status) Over() bool { return s != StatusOpen }

// StrategyManual tags moves placed by the human.
const StrategyManual = "manual"

// Move is one entry of a round's move log.
type Move struct {
	Mark     domain.Mark
	Position domain.Position
	Strategy string
}

// GameState is a copy of a game as seen by callers. Board is row-major and owned by the copy.
type GameState struct {
	ID         string
	Owner      string
	Board      [][]domain.Mark
	WinLength  int
	Status     Status
	Winning    []domain.Position
	Moves      []Move
	Round      int
	HumanFirst bool
	Created    time.Time
	Updated    time.Time
}

// Size is the board side length.
func (gs GameState) Size() int { return len(gs.Board) }

// IsWinning reports whether (r,c) is part of the winning line.
func (gs GameState) IsWinning(r, c int) bool {
	for _, p := range gs.Winning {
		if p.Row == r && p.Col == c {
			return true
		}
	}
	return false
}

// LastMove returns the latest move of the round, if any.
func (gs GameState) LastMove() (Move, bool) {
	if len(gs.Moves) == 0 {
		return Move{}, false
	}
	return gs.Moves[len(gs.Moves)-1], true
}

// game is the live state behind a GameState; state.Board is left nil and filled on snapshot.
type game struct {
	state GameState
	board *domain.Board
	ai    *ai.Player
}

func (g *game) snapshot() GameState {
	cp := g.state
	cp.Board = g.board.Snapshot()
	cp.Winning = append([]domain.Position(nil), g.state.Winning...)
	cp.Moves = append([]Move(nil), g.state.Moves...)
	return cp
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

// send reports false when the buffer is full.
func (s *subscriber) send(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- b:
		return true
	default:
		return false
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Service hosts games against the computer and fans board updates out to subscribers.
type Service struct {
	mu     sync.Mutex
	games  map[string]*game
	subs   map[string]map[*subscriber]struct{}
	render func(GameState) []byte

	size       int
	winLength  int
	humanFirst bool
	seeds      *rand.Rand
	log        *zap.Logger
	metrics    *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithBoard sets the board side length and win length for new games.
func WithBoard(size, winLength int) Option {
	return func(s *Service) {
		s.size = size
		s.winLength = winLength
	}
}

// WithHumanFirst sets who opens the first round of a new game.
func WithHumanFirst(humanFirst bool) Option {
	return func(s *Service) { s.humanFirst = humanFirst }
}

// WithSeed makes every game's random choices reproducible; 0 draws a random seed.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		if seed != 0 {
			s.seeds = rand.New(rand.NewSource(seed))
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService(opts ...Option) *Service { return NewServiceWithRenderer(nil, opts...) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte, opts ...Option) *Service {
	if renderer == nil {
		renderer = func(gs GameState) []byte { return nil }
	}
	s := &Service{
		games:      make(map[string]*game),
		subs:       make(map[string]map[*subscriber]struct{}),
		render:     renderer,
		size:       domain.DefaultSize,
		winLength:  domain.DefaultWinLength,
		humanFirst: true,
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.seeds == nil {
		s.seeds = rand.New(rand.NewSource(newSeed()))
	}
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(gs GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame starts a game owned by ownerID. When the computer opens, its centre move is
// already on the returned board.
func (s *Service) CreateGame(ownerID string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	b, err := domain.NewBoard(s.size, s.winLength)
	if err != nil {
		return nil, err
	}
	p, err := ai.New(b,
		ai.WithSeed(s.seeds.Int63()),
		ai.WithLogger(s.log.With(zap.String("game", id))))
	if err != nil {
		return nil, err
	}
	now := time.Now()
	g := &game{
		board: b,
		ai:    p,
		state: GameState{
			ID:         id,
			Owner:      ownerID,
			WinLength:  s.winLength,
			HumanFirst: s.humanFirst,
			Created:    now,
			Updated:    now,
		},
	}
	if err := s.startRoundLocked(g); err != nil {
		return nil, err
	}
	s.games[id] = g
	s.log.Info("game created",
		zap.String("game", id),
		zap.String("owner", ownerID),
		zap.Int("size", s.size),
		zap.Int("win_length", s.winLength))
	cp := g.snapshot()
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := g.snapshot()
	return &cp, true
}

// Play places the owner's mark at (r,c), lets the computer answer unless the round ended,
// and broadcasts the result. If the computer fails to move, the human's mark stays and the
// updated state is returned together with the wrapped error.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
	s.mu.Lock()
	g, err := s.ownedLocked(id, playerID)
	if err == nil && g.state.Status.Over() {
		err = domain.ErrGameOver
	}
	if err == nil {
		err = checkFree(g.board, r, c)
	}
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	turnErr := s.turnLocked(g, domain.Pos(r, c))
	cp, subs, payload := s.publishLocked(g)
	s.mu.Unlock()

	s.fanOut(id, subs, payload)
	return &cp, turnErr
}

// NewRound clears the board and swaps who moves first; the computer opens at the centre
// when it is its turn to start.
func (s *Service) NewRound(id, playerID string) (*GameState, error) {
	s.mu.Lock()
	g, err := s.ownedLocked(id, playerID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	g.state.HumanFirst = !g.state.HumanFirst
	roundErr := s.startRoundLocked(g)
	cp, subs, payload := s.publishLocked(g)
	s.mu.Unlock()

	s.fanOut(id, subs, payload)
	return &cp, roundErr
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

func (s *Service) ownedLocked(id, playerID string) (*game, error) {
	g, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	if g.state.Owner != playerID {
		return nil, ErrNotAPlayer
	}
	return g, nil
}

func checkFree(b *domain.Board, r, c int) error {
	free, err := b.IsFree(r, c)
	if err != nil {
		return err
	}
	if !free {
		return fmt.Errorf("%w: %v", domain.ErrOccupied, domain.Pos(r, c))
	}
	return nil
}

// turnLocked runs one human move and the computer's reply.
func (s *Service) turnLocked(g *game, pos domain.Position) error {
	if err := g.board.Set(pos.Row, pos.Col, domain.Human); err != nil {
		return err
	}
	s.recordLocked(g, domain.Human, ai.Decision{Position: pos, Strategy: StrategyManual})
	if s.settleLocked(g, domain.Human) {
		return nil
	}

	start := time.Now()
	d, err := g.ai.Choose()
	s.metrics.ObserveAIMove(time.Since(start))
	if err != nil {
		s.log.Error("computer move failed", zap.String("game", g.state.ID), zap.Error(err))
		return fmt.Errorf("computer move: %w", err)
	}
	s.recordLocked(g, domain.Computer, d)
	s.settleLocked(g, domain.Computer)
	return nil
}

func (s *Service) startRoundLocked(g *game) error {
	g.board.Reset()
	g.state.Round++
	g.state.Status = StatusOpen
	g.state.Winning = nil
	g.state.Moves = nil
	s.metrics.GameStarted()
	s.log.Info("round started",
		zap.String("game", g.state.ID),
		zap.Int("round", g.state.Round),
		zap.Bool("human_first", g.state.HumanFirst))
	if g.state.HumanFirst {
		return nil
	}
	d, err := g.ai.Opening()
	if err != nil {
		s.log.Error("opening move failed", zap.String("game", g.state.ID), zap.Error(err))
		return fmt.Errorf("opening move: %w", err)
	}
	s.recordLocked(g, domain.Computer, d)
	s.settleLocked(g, domain.Computer)
	return nil
}

func (s *Service) recordLocked(g *game, m domain.Mark, d ai.Decision) {
	strategy := string(d.Strategy)
	g.state.Moves = append(g.state.Moves, Move{Mark: m, Position: d.Position, Strategy: strategy})
	s.metrics.Move(strings.ToLower(m.String()), strategy)
	fields := []zap.Field{
		zap.String("game", g.state.ID),
		zap.Stringer("mark", m),
		zap.Int("row", d.Position.Row),
		zap.Int("col", d.Position.Col),
		zap.String("strategy", strategy),
	}
	if d.Strategy == ai.StrategyPattern {
		fields = append(fields, zap.Int("level", d.Level), zap.String("window", d.Window))
	}
	s.log.Info("move", fields...)
}

// settleLocked updates the round status after m moved and reports whether the round is over.
func (s *Service) settleLocked(g *game, m domain.Mark) bool {
	res, err := domain.FindWinner(g.board, m)
	switch {
	case err != nil:
		s.log.Error("winner check failed", zap.String("game", g.state.ID), zap.Error(err))
		return false
	case res.Found():
		g.state.Winning = res.Line()
		if m == domain.Human {
			g.state.Status = StatusHumanWon
		} else {
			g.state.Status = StatusComputerWon
		}
	case !g.board.HasEmpty():
		g.state.Status = StatusDraw
	default:
		return false
	}
	s.metrics.GameFinished(g.state.Status.String())
	s.log.Info("round over",
		zap.String("game", g.state.ID),
		zap.Int("round", g.state.Round),
		zap.Stringer("outcome", g.state.Status),
		zap.Int("moves", len(g.state.Moves)))
	return true
}

func (s *Service) publishLocked(g *game) (GameState, map[*subscriber]struct{}, []byte) {
	g.state.Updated = time.Now()
	cp := g.snapshot()
	return cp, s.copySubsLocked(cp.ID), s.render(cp)
}

// fanOut delivers payload outside the lock; slow subscribers are closed and dropped.
func (s *Service) fanOut(id string, subs map[*subscriber]struct{}, payload []byte) {
	var toDrop []*subscriber
	for sub := range subs {
		if !sub.send(payload) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) == 0 {
		return
	}
	s.mu.Lock()
	for _, sub := range toDrop {
		if set, ok := s.subs[id]; ok {
			delete(set, sub)
		}
	}
	s.mu.Unlock()
	s.log.Debug("dropped slow subscribers", zap.String("game", id), zap.Int("count", len(toDrop)))
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
