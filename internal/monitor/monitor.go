// Package monitor re-probes the gateway on a cron schedule so long-running
// sessions notice when the backend goes away or comes back.
package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/rsilvagit/resumatch/internal/availability"
	"github.com/rsilvagit/resumatch/internal/notify"
)

// Reprober re-checks gateway health.
type Reprober interface {
	Reprobe(ctx context.Context) availability.State
}

// Notifier shows transient notifications.
type Notifier interface {
	Show(text string, severity notify.Severity) notify.Notification
}

// Monitor wraps robfig/cron and runs the probe loop.
type Monitor struct {
	cron *cron.Cron
	svc  Reprober
	spec string // cron spec, e.g. "@every 1m"

	mu     sync.Mutex
	probes int
	last   availability.State
}

// New creates a Monitor that probes on spec.
func New(svc Reprober, spec string) *Monitor {
	return &Monitor{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		svc:  svc,
		spec: spec,
	}
}

// Start registers the probe and starts the scheduler. One probe also runs
// immediately so the state is fresh without waiting for the first tick.
func (m *Monitor) Start(ctx context.Context) error {
	if _, err := m.cron.AddFunc(m.spec, func() { m.Tick(ctx) }); err != nil {
		return fmt.Errorf("monitor: invalid probe spec %q: %w", m.spec, err)
	}
	m.cron.Start()
	log.Printf("[monitor] cron started, spec: %s", m.spec)

	go m.Tick(ctx)
	return nil
}

// Stop shuts down the scheduler and waits for a running probe to finish.
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
	log.Println("[monitor] cron stopped")
}

// Tick runs one probe.
func (m *Monitor) Tick(ctx context.Context) availability.State {
	if ctx.Err() != nil {
		return m.Last()
	}
	st := m.svc.Reprobe(ctx)

	m.mu.Lock()
	m.probes++
	m.last = st
	m.mu.Unlock()
	return st
}

// Probes returns how many probes have run.
func (m *Monitor) Probes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probes
}

// Last returns the state seen by the latest probe.
func (m *Monitor) Last() availability.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Announce shows a notification whenever the gateway goes away or comes
// back. The first observation after startup is not announced.
func Announce(svc *availability.Service, notes Notifier) {
	svc.OnChange(func(from, to availability.State) {
		switch {
		case from == availability.StateLive && to == availability.StateMock:
			notes.Show(svc.Banner(), notify.Warning)
		case from == availability.StateMock && to == availability.StateLive:
			notes.Show("Backend connection restored", notify.Success)
		}
	})
}
