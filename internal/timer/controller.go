package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const DefaultPollInterval = 500 * time.Millisecond

// State is a point-in-time view of the countdown
type State struct {
	QuestionID string
	StartedAt  time.Time
	Duration   time.Duration
	Remaining  time.Duration
	Running    bool
	Expired    bool
}

// Controller counts down one question at a time. While running it polls on the
// clock and calls the expiry callback exactly once when time runs out.
type Controller struct {
	clock    clockwork.Clock
	interval time.Duration

	mu         sync.Mutex
	gen        uint64
	questionID string
	startedAt  time.Time
	duration   time.Duration
	running    bool
	fired      bool
	onExpire   func()
	handle     clockwork.Timer
}

func NewController(clock clockwork.Clock, interval time.Duration) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Controller{clock: clock, interval: interval}
}

// Remaining computes the time left of a countdown started at startedAt
func Remaining(startedAt time.Time, duration time.Duration, now time.Time) time.Duration {
	left := duration - now.Sub(startedAt)
	if left < 0 {
		return 0
	}
	if left > duration {
		return duration
	}
	return left
}

// Arm starts a countdown, replacing and cancelling any previous one.
func (c *Controller) Arm(questionID string, startedAt time.Time, duration time.Duration, onExpire func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.gen++
	c.questionID = questionID
	c.startedAt = startedAt
	c.duration = duration
	c.running = true
	c.fired = false
	c.onExpire = onExpire
	c.scheduleLocked(c.gen)
}

// Stop cancels the countdown without firing.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.gen++
	c.running = false
}

// Pause stops the countdown and returns the time that was left.
func (c *Controller) Pause() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return 0, false
	}
	left := Remaining(c.startedAt, c.duration, c.clock.Now())
	c.cancelLocked()
	c.gen++
	c.running = false
	return left, true
}

// Remaining recomputes the time left, firing the expiry if it is observed here first.
func (c *Controller) Remaining() time.Duration {
	return c.State().Remaining
}

func (c *Controller) State() State {
	c.mu.Lock()
	st := c.stateLocked()
	cb := c.expireLocked(st.Remaining)
	if cb != nil {
		st.Running = false
		st.Expired = true
	}
	c.mu.Unlock()

	if cb != nil {
		cb()
	}
	return st
}

func (c *Controller) stateLocked() State {
	st := State{
		QuestionID: c.questionID,
		StartedAt:  c.startedAt,
		Duration:   c.duration,
		Running:    c.running,
		Expired:    c.fired,
	}
	if c.running {
		st.Remaining = Remaining(c.startedAt, c.duration, c.clock.Now())
	}
	return st
}

func (c *Controller) poll(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.running {
		c.mu.Unlock()
		return
	}
	left := Remaining(c.startedAt, c.duration, c.clock.Now())
	cb := c.expireLocked(left)
	if cb == nil {
		c.scheduleLocked(gen)
	}
	c.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// expireLocked latches expiry and hands back the callback to run outside the lock.
func (c *Controller) expireLocked(left time.Duration) func() {
	if !c.running || c.fired || left > 0 {
		return nil
	}
	c.fired = true
	c.running = false
	c.cancelLocked()
	if c.onExpire == nil {
		return func() {}
	}
	return c.onExpire
}

func (c *Controller) scheduleLocked(gen uint64) {
	wait := c.interval
	if left := Remaining(c.startedAt, c.duration, c.clock.Now()); left < wait {
		wait = left
	}
	c.handle = c.clock.AfterFunc(wait, func() { c.poll(gen) })
}

func (c *Controller) cancelLocked() {
	if c.handle != nil {
		c.handle.Stop()
		c.handle = nil
	}
}
