package session

// Countdown tracks the whole seconds remaining until the submission
// deadline. The value is strictly non-increasing while running and is
// never negative. Expiry fires exactly once even if ticks keep
// arriving after the deadline (delayed or queued ticks included).
//
// The countdown is a pure value type: it owns no clock. The quiz
// screen drives it from a real one-second tick in production and tests
// drive it manually.
type Countdown struct {
	remaining int
	running   bool
	fired     bool
}

// NewCountdown returns a stopped countdown holding the given number of
// seconds. Negative input is clamped to zero.
func NewCountdown(seconds int) Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return Countdown{remaining: seconds}
}

// Start begins the countdown from its current remaining value.
// Starting an already-expired countdown fires expiry on the next tick.
func (c *Countdown) Start() {
	if c.fired {
		return
	}
	c.running = true
}

// Stop halts ticking without resetting the remaining time. Used on
// phase exit; Start resumes from the frozen value.
func (c *Countdown) Stop() {
	c.running = false
}

// Tick consumes one second and reports the new remaining value and
// whether the deadline expired on this tick. Ticks on a stopped or
// already-expired countdown are no-ops.
func (c *Countdown) Tick() (remaining int, expired bool) {
	if !c.running || c.fired {
		return c.remaining, false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.fired = true
		c.running = false
		return 0, true
	}
	return c.remaining, false
}

// Remaining returns the current whole seconds left.
func (c *Countdown) Remaining() int { return c.remaining }

// Running reports whether the countdown is actively ticking.
func (c *Countdown) Running() bool { return c.running }

// Expired reports whether the deadline has fired.
func (c *Countdown) Expired() bool { return c.fired }
