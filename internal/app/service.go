package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/tictactoe-history/internal/domain"
)

// Errors exposed by the service layer.
var ErrNotFound = errors.New("game not found")

// GameState is the in-memory state tracked per game session.
type GameState struct {
	ID      string
	Game    domain.Game
	Created time.Time
	Updated time.Time
}

func (gs *GameState) snapshot() *GameState {
	cp := *gs
	cp.Game = gs.Game.Clone()
	return &cp
}

// subscriber channels are only sent on and closed while holding Service.mu.
type subscriber struct {
	ch     chan []byte
	closed bool
}

func (s *subscriber) closeLocked() {
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Service manages game sessions and their subscribers.
type Service struct {
	mu     sync.Mutex
	games  map[string]*GameState
	subs   map[string]map[*subscriber]struct{}
	render func(GameState) []byte
	log    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the function producing broadcast payloads.
func WithRenderer(renderer func(GameState) []byte) Option {
	return func(s *Service) {
		if renderer != nil {
			s.render = renderer
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.log = logger
		}
	}
}

// NewService creates a service. Without a renderer broadcasts carry no payload.
func NewService(opts ...Option) *Service {
	s := &Service{
		games:  make(map[string]*GameState),
		subs:   make(map[string]map[*subscriber]struct{}),
		render: func(GameState) []byte { return nil },
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "service")
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame() (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	now := time.Now()
	gs := &GameState{ID: id, Game: domain.New(), Created: now, Updated: now}
	s.games[id] = gs
	s.log.Debug("game created", "game", id)
	return gs.snapshot(), nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	return gs.snapshot(), true
}

// Play places the next marker at cell i. The returned Celebration is non-nil only
// for the play that produces the winner. Rejected plays return the unchanged state
// together with the domain error.
func (s *Service) Play(id string, i int) (*GameState, *Celebration, error) {
	var celebration *Celebration
	cp, err := s.update(id, func(g *domain.Game) error {
		won, err := g.Play(i)
		if err != nil {
			return err
		}
		if won {
			c := DefaultCelebration
			celebration = &c
		}
		return nil
	})
	if err != nil {
		return cp, nil, err
	}
	if celebration != nil {
		s.log.Info("game won", "game", id, "winner", cp.Game.Winner.String(), "moves", cp.Game.Moves())
	}
	return cp, celebration, nil
}

// JumpTo shows the snapshot at move.
func (s *Service) JumpTo(id string, move int) (*GameState, error) {
	return s.update(id, func(g *domain.Game) error { return g.JumpTo(move) })
}

// Reset restarts the game in place.
func (s *Service) Reset(id string) (*GameState, error) {
	return s.update(id, func(g *domain.Game) error {
		g.Reset()
		return nil
	})
}

// update applies fn under the lock, updates timestamps, and broadcasts on success.
// Sends never block, so the fan-out stays under the lock and cannot race a close.
func (s *Service) update(id string, fn func(*domain.Game) error) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(&gs.Game); err != nil {
		s.log.Debug("intent ignored", "game", id, "error", err)
		return gs.snapshot(), fmt.Errorf("game %s: %w", id, err)
	}
	gs.Updated = time.Now()

	cp := gs.snapshot()
	payload := s.render(*cp)

	// Fan-out; drop slow subscribers by closing and removing them
	dropped := 0
	for sub := range s.subs[id] {
		select {
		case sub.ch <- payload:
		default:
			sub.closeLocked()
			delete(s.subs[id], sub)
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Debug("dropped slow subscribers", "game", id, "count", dropped)
	}
	return cp, nil
}

// Reap removes games not updated since cutoff and closes their subscribers.
// It returns the number of games removed.
func (s *Service) Reap(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, gs := range s.games {
		if !gs.Updated.Before(cutoff) {
			continue
		}
		for sub := range s.subs[id] {
			sub.closeLocked()
		}
		delete(s.subs, id)
		delete(s.games, id)
		n++
	}
	if n > 0 {
		s.log.Debug("reaped idle games", "count", n)
	}
	return n
}

// RunReaper removes games idle longer than idle until ctx is done.
// A non-positive idle disables reaping.
func (s *Service) RunReaper(ctx context.Context, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reap(time.Now().Add(-idle))
		}
	}
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

	unsub := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if set, ok := s.subs[id]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(s.subs, id)
			}
		}
		sub.closeLocked()
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}
