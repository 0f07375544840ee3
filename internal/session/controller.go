package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jask/staffdesk/internal/clock"
)

// DefaultTimeout is the idle time after which a session expires.
const DefaultTimeout = 5 * time.Minute

// Options configure Mount.
type Options struct {
	Timeout    time.Duration // DefaultTimeout when not positive
	Activities []Activity    // AllActivities when empty
	Clock      clock.Clock   // clock.Real when nil
	OnExpire   func()
	Logger     *slog.Logger
}

type state int

const (
	stateActive state = iota
	stateExpired
	stateUnmounted
)

// Controller owns one inactivity timer. Each qualifying activity stops
// the pending timer and schedules a fresh one; the expiry callback runs
// at most once per controller.
type Controller struct {
	clock    clock.Clock
	timeout  time.Duration
	onExpire func()
	log      *slog.Logger

	mu       sync.Mutex
	state    state
	timer    *clock.Timer
	deadline time.Time
	gen      uint64 // bumped on every reschedule; stale timers compare against it
	unsubs   []func()
}

// Mount subscribes to bus and starts the timer.
func Mount(bus *Bus, opts Options) *Controller {
	c := &Controller{
		clock:    opts.Clock,
		timeout:  opts.Timeout,
		onExpire: opts.OnExpire,
		log:      opts.Logger,
	}
	if c.clock == nil {
		c.clock = clock.Real()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	kinds := opts.Activities
	if len(kinds) == 0 {
		kinds = AllActivities()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range kinds {
		c.unsubs = append(c.unsubs, bus.Subscribe(k, c.activity))
	}
	c.schedule()
	return c
}

func (c *Controller) activity(Activity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateActive {
		return
	}
	c.schedule()
}

// schedule replaces the pending timer. Caller holds c.mu.
func (c *Controller) schedule() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	gen := c.gen
	c.deadline = c.clock.Now().Add(c.timeout)
	c.timer = c.clock.AfterFunc(c.timeout, func() { c.fire(gen) })
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if c.state != stateActive || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.state = stateExpired
	c.timer = nil
	c.deadline = time.Time{}
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	c.log.Info("session idle timeout reached", "timeout", c.timeout)
	if c.onExpire != nil {
		c.onExpire()
	}
}

// Unmount cancels the pending timer and removes every bus subscription.
func (c *Controller) Unmount() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.state = stateUnmounted
	c.deadline = time.Time{}
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

// Deadline returns when the session expires if nothing happens, and
// false once the timer is gone.
func (c *Controller) Deadline() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateActive {
		return time.Time{}, false
	}
	return c.deadline, true
}

// Remaining is the time left before expiry, zero when not active.
func (c *Controller) Remaining() time.Duration {
	d, ok := c.Deadline()
	if !ok {
		return 0
	}
	if left := d.Sub(c.clock.Now()); left > 0 {
		return left
	}
	return 0
}

func (c *Controller) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateExpired
}

func (c *Controller) Timeout() time.Duration { return c.timeout }
