package control

import "sync"

// Countdown is the capture timer state: idle, or counting down a number of
// remaining steps. It is shared by the inference loop (start/cancel) and
// the one-second ticker (tick), so all access is locked.
type Countdown struct {
	mu        sync.Mutex
	remaining int
}

// NewCountdown creates an idle countdown.
func NewCountdown() *Countdown {
	return &Countdown{}
}

// Start begins a countdown of steps. It returns false if one is already
// running or steps is not positive.
func (c *Countdown) Start(steps int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining > 0 || steps <= 0 {
		return false
	}
	c.remaining = steps
	return true
}

// Tick advances the countdown by one step. fired is true on the step that
// reaches zero, after which the countdown is idle again. Ticking an idle
// countdown does nothing.
func (c *Countdown) Tick() (remaining int, fired bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining == 0 {
		return 0, false
	}
	c.remaining--
	return c.remaining, c.remaining == 0
}

// Cancel drops a running countdown. It reports whether one was running.
func (c *Countdown) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	was := c.remaining > 0
	c.remaining = 0
	return was
}

// Remaining returns the steps left, or 0 when idle.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Active reports whether a countdown is running.
func (c *Countdown) Active() bool {
	return c.Remaining() > 0
}
