package exam

// Countdown is the discrete per-second exam timer. It is driven
// externally — the session hub's ticker in production, hand-fed tick
// sequences in tests — and never schedules anything itself.
type Countdown struct {
	remaining int
	expired   bool
	stopped   bool
}

// NewCountdown creates a countdown holding totalSeconds.
func NewCountdown(totalSeconds int) *Countdown {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return &Countdown{remaining: totalSeconds}
}

// Tick consumes one second. It reports true exactly once, on the tick
// that drains the countdown to zero; the countdown stops afterwards and
// all later ticks are suppressed.
func (c *Countdown) Tick() bool {
	if c.stopped {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 && !c.expired {
		c.expired = true
		c.stopped = true
		return true
	}
	return false
}

// Remaining returns the seconds left. Never negative.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Stop suppresses all further ticks. Used on explicit submit so the
// timer can never mutate a finished session.
func (c *Countdown) Stop() {
	c.stopped = true
}

// Stopped reports whether the countdown no longer accepts ticks.
func (c *Countdown) Stopped() bool {
	return c.stopped
}
