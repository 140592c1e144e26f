package event

import (
	"time"

	"golang.org/x/exp/slices"
)

// A Loop is a cooperative, single-threaded dispatch queue. Callbacks
// posted with Post run during the current turn; callbacks deferred with
// Idle run on a later turn, after everything already queued has finished.
// The distinction matters when a handler needs to run after the transport
// has finished its own teardown for the same event.
type Loop struct {
	// Clock reports the current time. It exists so that tests can drive
	// timers deterministically. If nil, time.Now is used.
	Clock func() time.Time

	queue  []func()
	idle   []func()
	timers []*Timer
}

func NewLoop() *Loop {
	return new(Loop)
}

func (lp *Loop) now() time.Time {
	if lp.Clock != nil {
		return lp.Clock()
	}
	return time.Now()
}

// Post queues f to run at the tail of the current turn.
func (lp *Loop) Post(f func()) {
	lp.queue = append(lp.queue, f)
}

// Idle defers f to a later turn of the loop. All callbacks that are
// already queued, including ones they queue transitively via Post, run
// first.
func (lp *Loop) Idle(f func()) {
	lp.idle = append(lp.idle, f)
}

// Flush runs the loop until no work remains: the posted queue first, then
// due timers, then one batch of idle callbacks, repeating until everything
// is drained.
func (lp *Loop) Flush() {
	for {
		for len(lp.queue) > 0 {
			f := lp.queue[0]
			lp.queue = lp.queue[1:]
			f()
		}

		if lp.fireTimers() {
			continue
		}

		if len(lp.idle) == 0 {
			return
		}
		batch := lp.idle
		lp.idle = nil
		for _, f := range batch {
			f()
		}
	}
}

func (lp *Loop) fireTimers() (fired bool) {
	now := lp.now()
	for _, t := range slices.Clone(lp.timers) {
		if t.armed && !t.deadline.After(now) {
			t.armed = false
			fired = true
			t.f()
		}
	}
	return fired
}

// A Timer is a re-armable one-shot callback. It is cancelled by disarming,
// not by removal, so that it can be reused across repeats.
type Timer struct {
	lp       *Loop
	f        func()
	armed    bool
	deadline time.Time
}

// NewTimer registers a timer on the loop. The timer starts disarmed.
func (lp *Loop) NewTimer(f func()) *Timer {
	t := &Timer{lp: lp, f: f}
	lp.timers = append(lp.timers, t)
	return t
}

// Arm schedules the timer to fire once d from now, replacing any earlier
// deadline.
func (t *Timer) Arm(d time.Duration) {
	t.armed = true
	t.deadline = t.lp.now().Add(d)
}

// Disarm cancels a pending fire. The timer stays registered and can be
// re-armed.
func (t *Timer) Disarm() {
	t.armed = false
}

// Armed reports whether the timer has a pending fire.
func (t *Timer) Armed() bool {
	return t.armed
}

// Destroy removes the timer from the loop.
func (t *Timer) Destroy() {
	t.armed = false
	i := slices.Index(t.lp.timers, t)
	if i >= 0 {
		t.lp.timers = slices.Delete(t.lp.timers, i, i+1)
	}
}
