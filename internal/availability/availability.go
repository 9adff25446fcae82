// Package availability tracks whether the gateway is reachable and decides,
// for every screen, whether to show live data, mock data or nothing.
//
// A single Service is shared by all screens:
//
//	Unknown ──Init/Reprobe──► Live ◄──Reprobe──► Mock
//	                            │                  ▲
//	                            └─MarkUnavailable──┘
package availability

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrUnavailable is reported when an operation needs the live gateway but the
// service is in mock state.
var ErrUnavailable = errors.New("backend unavailable")

// State is the reachability of the gateway as last observed.
type State int

const (
	StateUnknown State = iota
	StateLive
	StateMock
)

func (s State) String() string {
	switch s {
	case StateLive:
		return "LIVE"
	case StateMock:
		return "MOCK"
	}
	return "UNKNOWN"
}

// Prober checks gateway health.
type Prober interface {
	CheckHealth(ctx context.Context) bool
}

// Snapshot is a probe result as persisted by a StateStore.
type Snapshot struct {
	Reachable bool      `json:"reachable"`
	CheckedAt time.Time `json:"checkedAt"`
}

// StateStore shares probe results between processes. Load only returns
// snapshots that are still fresh.
type StateStore interface {
	Load(ctx context.Context) (Snapshot, bool)
	Save(ctx context.Context, snap Snapshot) error
}

// Options configures a Service.
type Options struct {
	UseMockFallback bool
	Store           StateStore // optional
}

// Service is the single source of truth for gateway reachability.
type Service struct {
	prober  Prober
	store   StateStore
	useMock bool
	now     func() time.Time

	probeMu sync.Mutex // serialises probes

	mu        sync.RWMutex
	state     State
	checkedAt time.Time
	listeners []func(from, to State)
}

// New returns a Service in StateUnknown.
func New(p Prober, opts Options) *Service {
	return &Service{
		prober:  p,
		store:   opts.Store,
		useMock: opts.UseMockFallback,
		now:     time.Now,
	}
}

// Init resolves the state once: from a fresh stored snapshot if one exists,
// otherwise by probing. Later calls return the current state unchanged.
func (s *Service) Init(ctx context.Context) State {
	s.probeMu.Lock()
	defer s.probeMu.Unlock()

	if st := s.State(); st != StateUnknown {
		return st
	}
	if s.store != nil {
		if snap, ok := s.store.Load(ctx); ok {
			log.Printf("[availability] using shared probe from %s (reachable=%v)",
				snap.CheckedAt.Format(time.RFC3339), snap.Reachable)
			return s.set(stateOf(snap.Reachable), snap.CheckedAt)
		}
	}
	return s.probe(ctx)
}

// Reprobe checks gateway health now, regardless of the current state.
func (s *Service) Reprobe(ctx context.Context) State {
	s.probeMu.Lock()
	defer s.probeMu.Unlock()
	return s.probe(ctx)
}

// MarkUnavailable records that a live read failed after a successful probe.
// The downgrade stays local to this process; only probe results are shared
// through the store.
func (s *Service) MarkUnavailable(context.Context) {
	s.set(StateMock, s.now())
}

func (s *Service) probe(ctx context.Context) State {
	reachable := s.prober.CheckHealth(ctx)
	now := s.now()
	st := s.set(stateOf(reachable), now)
	s.save(ctx, Snapshot{Reachable: reachable, CheckedAt: now})
	return st
}

func (s *Service) save(ctx context.Context, snap Snapshot) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, snap); err != nil {
		log.Printf("[availability] could not share probe result: %v", err)
	}
}

func (s *Service) set(st State, at time.Time) State {
	s.mu.Lock()
	from := s.state
	s.state = st
	s.checkedAt = at
	listeners := append([]func(from, to State){}, s.listeners...)
	s.mu.Unlock()

	if from != st {
		log.Printf("[availability] %s → %s", from, st)
		for _, fn := range listeners {
			fn(from, st)
		}
	}
	return st
}

// State returns the last observed state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Available reports whether the gateway is live.
func (s *Service) Available() bool { return s.State() == StateLive }

// CheckedAt returns the time of the last probe or state change.
func (s *Service) CheckedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkedAt
}

// MockFallback reports whether mock data replaces live data when the
// gateway is unavailable.
func (s *Service) MockFallback() bool { return s.useMock }

// OnChange registers fn to be called on every state transition.
func (s *Service) OnChange(fn func(from, to State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Banner returns the notice shown while the gateway is unavailable, or ""
// when it is live.
func (s *Service) Banner() string {
	if s.State() != StateMock {
		return ""
	}
	if s.useMock {
		return "Backend unavailable - using mock data"
	}
	return "Backend unavailable"
}

func stateOf(reachable bool) State {
	if reachable {
		return StateLive
	}
	return StateMock
}
