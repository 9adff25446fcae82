// Package notify implements the single-slot notification surface shared by
// all screens. Showing a notification replaces the current one; each one
// dismisses itself after a fixed duration.
package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 6 * time.Second

// Severity classifies a notification.
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Notification is a transient message shown to the user.
type Notification struct {
	ID       string
	Text     string
	Severity Severity
	ShownAt  time.Time
}

// Sink receives a copy of every shown notification.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n Notification) error

func (f SinkFunc) Send(ctx context.Context, n Notification) error { return f(ctx, n) }

// sinkTimeout bounds one delivery to a sink.
const sinkTimeout = 10 * time.Second

// Surface holds at most one active notification.
type Surface struct {
	duration time.Duration
	sinks    []Sink
	now      func() time.Time

	mu      sync.Mutex
	current *Notification
	timer   *time.Timer

	pending sync.WaitGroup
}

// New returns a surface whose notifications last duration (DefaultDuration
// when non-positive) and are mirrored to sinks.
func New(duration time.Duration, sinks ...Sink) *Surface {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Surface{duration: duration, sinks: sinks, now: time.Now}
}

// Show replaces the current notification with a new one.
func (s *Surface) Show(text string, severity Severity) Notification {
	n := Notification{
		ID:       uuid.NewString(),
		Text:     text,
		Severity: severity,
		ShownAt:  s.now(),
	}

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.current = &n
	id := n.ID
	s.timer = time.AfterFunc(s.duration, func() { s.Dismiss(id) })
	s.mu.Unlock()

	for _, sink := range s.sinks {
		s.pending.Add(1)
		go func(sink Sink) {
			defer s.pending.Done()
			ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
			defer cancel()
			if err := sink.Send(ctx, n); err != nil {
				log.Printf("[notify] sink error: %v", err)
			}
		}(sink)
	}
	return n
}

// Info, Success, Warn and Fail are shorthands for Show.
func (s *Surface) Info(text string) Notification    { return s.Show(text, Info) }
func (s *Surface) Success(text string) Notification { return s.Show(text, Success) }
func (s *Surface) Warn(text string) Notification    { return s.Show(text, Warning) }
func (s *Surface) Fail(text string) Notification    { return s.Show(text, Error) }

// Dismiss clears the notification with the given id. It reports false when
// that notification is no longer the current one.
func (s *Surface) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.ID != id {
		return false
	}
	s.current = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	return true
}

// Current returns the visible notification, if any.
func (s *Surface) Current() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Notification{}, false
	}
	return *s.current, true
}

// Wait blocks until every sink delivery started so far has finished.
func (s *Surface) Wait() {
	s.pending.Wait()
}
