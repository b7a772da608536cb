package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Reasons reported to the service for integrity events. The strings
// match what the proctoring backend records verbatim.
const (
	ReasonUnfocused = "Window unfocused"
	ReasonSuspended = "Tab hidden / app suspended"
)

// ReportFunc delivers one integrity event to the remote service.
type ReportFunc func(ctx context.Context, credential, reason string, ts time.Time) error

// Monitor captures focus-loss events while the quiz phase is active.
// It is a capability the quiz phase acquires on entry and releases on
// exit: triggers outside that window are dropped. Delivery is
// best-effort; failures are logged and swallowed, never surfaced, and
// must never block the quiz flow.
type Monitor struct {
	report     ReportFunc
	log        zerolog.Logger
	credential string
	active     bool
	now        func() time.Time
}

// NewMonitor creates a Monitor that delivers events through report.
func NewMonitor(report ReportFunc, log zerolog.Logger) *Monitor {
	return &Monitor{
		report: report,
		log:    log.With().Str("component", "integrity").Logger(),
		now:    time.Now,
	}
}

// Acquire activates the monitor for the given credential.
func (m *Monitor) Acquire(credential string) {
	m.credential = credential
	m.active = true
}

// Release deactivates the monitor. Subsequent triggers are dropped.
func (m *Monitor) Release() {
	m.active = false
	m.credential = ""
}

// Active reports whether the monitor is currently capturing events.
func (m *Monitor) Active() bool { return m.active }

// Trigger reports one integrity event. Every distinct trigger produces
// its own report call; there is no debouncing. A nil report func or an
// inactive monitor makes this a no-op.
func (m *Monitor) Trigger(ctx context.Context, reason string) {
	if !m.active || m.report == nil {
		return
	}
	ts := m.now().UTC()
	if err := m.report(ctx, m.credential, reason, ts); err != nil {
		m.log.Warn().Err(err).Str("reason", reason).Msg("integrity report dropped")
	}
}
