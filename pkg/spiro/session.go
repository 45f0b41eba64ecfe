package spiro

import (
	"fmt"
	"sync"

	"github.com/richard-senior/spiro/pkg/store"
	"github.com/richard-senior/spiro/pkg/util"
)

// Frame is what a host draws on one tick: an immutable params snapshot and
// the point sequence computed from it
type Frame struct {
	Params Params
	Points []util.Point
}

// Session owns the model for hosts that touch it from several goroutines.
// Every mutation happens under the lock and renders work from a snapshot,
// so a sample never sees a half-applied edit.
type Session struct {
	mu      sync.Mutex
	params  Params
	sampler Sampler
	store   store.Store
	key     string
	rng     Rand
}

// NewSession opens the model from st (nil means nothing is persisted)
func NewSession(st store.Store, key string) *Session {
	if key == "" {
		key = AppKey
	}
	return &Session{
		params: Open(st, key),
		store:  st,
		key:    key,
		rng:    globalRand{},
	}
}

// NewSessionWith starts from explicit params and randomness, for hosts that
// do their own loading
func NewSessionWith(p Params, st store.Store, key string, r Rand) *Session {
	p.Clamp()
	if r == nil {
		r = globalRand{}
	}
	if key == "" {
		key = AppKey
	}
	return &Session{params: p, store: st, key: key, rng: r}
}

// Params returns a copy of the current state
func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Update applies fn to the model then clamps, returning the new state
func (s *Session) Update(fn func(p *Params)) Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.params)
	s.params.Clamp()
	return s.params
}

// Randomize reseeds A, B and C
func (s *Session) Randomize() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.RandomizeWith(s.rng)
	return s.params
}

// Frame snapshots the params and samples them
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Frame{Params: s.params, Points: s.sampler.Points(s.params)}
}

// Save writes the current state to the session's store
func (s *Session) Save() error {
	if s.store == nil {
		return fmt.Errorf("session has no store")
	}
	return Save(s.store, s.key, s.Params())
}
