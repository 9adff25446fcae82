// Package screen composes the gateway, the availability service, the
// presentation engine and the notification surface into the three screens
// of the client: jobs, match scores and resume upload.
//
// Screens never cancel an in-flight load. Each load takes a generation
// token when it starts and its result is dropped if a newer load began in
// the meantime.
package screen

import (
	"sync/atomic"

	"github.com/rsilvagit/resumatch/internal/notify"
)

const (
	msgUnavailable = "Backend is unavailable. Please check your connection."
)

// Notifier shows transient notifications.
type Notifier interface {
	Show(text string, severity notify.Severity) notify.Notification
}

// Empty is the message a screen shows when it has no rows.
type Empty struct {
	Title string
	Hint  string
}

// ValidationError is an input problem found before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// generation hands out load tokens. Only the newest token may publish.
type generation struct {
	n atomic.Uint64
}

func (g *generation) next() uint64 { return g.n.Add(1) }

func (g *generation) current(token uint64) bool { return g.n.Load() == token }
