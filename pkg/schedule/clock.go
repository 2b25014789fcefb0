package schedule

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending delayed call.
type Timer interface {
	// Stop cancels the call. It returns false if the call already fired or
	// was stopped.
	Stop() bool
}

// Clock schedules delayed calls.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealClock uses wall-clock timers and hands expired calls to Queue so
// they run when the owner flushes.
type RealClock struct {
	Queue *Queue
}

// AfterFunc implements Clock.
func (c RealClock) AfterFunc(d time.Duration, fn func()) Timer {
	rt := &realTimer{}
	rt.t = time.AfterFunc(d, func() {
		c.Queue.Tick(func() {
			if rt.stopped() {
				return
			}
			fn()
		})
	})
	return rt
}

type realTimer struct {
	mu   sync.Mutex
	t    *time.Timer
	done bool
}

func (r *realTimer) stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return true
	}
	r.done = true
	return false
}

func (r *realTimer) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return false
	}
	r.done = true
	r.t.Stop()
	return true
}

// FakeClock is a manually advanced Clock. Timers fire synchronously inside
// Advance, in deadline order.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *FakeClock
	at    time.Duration
	seq   int
	fn    func()
	done  bool
}

// NewFakeClock creates a clock at time zero.
func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

// AfterFunc implements Clock.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, at: c.now + d, seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Now returns the elapsed fake time.
func (c *FakeClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of timers that have not fired or been stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves time forward by d and fires every timer that comes due.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []*fakeTimer
		live := c.timers[:0]
		for _, t := range c.timers {
			if t.done {
				continue
			}
			if t.at <= target {
				due = append(due, t)
			}
			live = append(live, t)
		}
		c.timers = live
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at != due[j].at {
				return due[i].at < due[j].at
			}
			return due[i].seq < due[j].seq
		})
		next := due[0]
		next.done = true
		c.now = next.at
		c.mu.Unlock()

		next.fn()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}
