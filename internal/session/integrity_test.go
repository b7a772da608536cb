package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type capturedReport struct {
	credential string
	reason     string
	ts         time.Time
}

func TestMonitorReportsWhileActive(t *testing.T) {
	var got []capturedReport
	m := NewMonitor(func(_ context.Context, credential, reason string, ts time.Time) error {
		got = append(got, capturedReport{credential, reason, ts})
		return nil
	}, zerolog.Nop())

	m.Acquire("abc123")
	m.Trigger(context.Background(), ReasonUnfocused)
	m.Trigger(context.Background(), ReasonUnfocused)
	m.Trigger(context.Background(), ReasonSuspended)

	// No debouncing: every distinct trigger produces its own report.
	if len(got) != 3 {
		t.Fatalf("reported %d events, want 3", len(got))
	}
	if got[0].credential != "abc123" || got[0].reason != ReasonUnfocused {
		t.Errorf("first report = %+v", got[0])
	}
	if got[0].ts.Location() != time.UTC {
		t.Error("timestamps must be UTC")
	}
}

func TestMonitorInactiveDropsTriggers(t *testing.T) {
	calls := 0
	m := NewMonitor(func(context.Context, string, string, time.Time) error {
		calls++
		return nil
	}, zerolog.Nop())

	m.Trigger(context.Background(), ReasonUnfocused)

	m.Acquire("abc123")
	m.Release()
	m.Trigger(context.Background(), ReasonUnfocused)

	if calls != 0 {
		t.Errorf("inactive monitor delivered %d reports, want 0", calls)
	}
}

func TestMonitorSwallowsDeliveryFailure(t *testing.T) {
	m := NewMonitor(func(context.Context, string, string, time.Time) error {
		return errors.New("service unavailable")
	}, zerolog.Nop())

	m.Acquire("abc123")
	// Must not panic or surface anything.
	m.Trigger(context.Background(), ReasonUnfocused)
	if !m.Active() {
		t.Error("a failed delivery must not deactivate the monitor")
	}
}
