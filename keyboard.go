package rill

import (
	"time"

	"deedles.dev/rill/event"
)

// A Keyboard holds the per-seat key-binding repeat state. The repeat
// timer is disarmed rather than destroyed between repeats so that one
// timer serves the whole lifetime of the seat.
type Keyboard struct {
	seat *Seat

	repeat       *event.Timer
	repeatAction func()
	interval     time.Duration
}

func newKeyboard(seat *Seat) *Keyboard {
	kb := &Keyboard{seat: seat}
	kb.repeat = seat.server.loop.NewTimer(kb.fire)
	return kb
}

// PressBinding runs a held key binding and schedules it to repeat at the
// configured rate after the configured delay. A repeat rate of zero
// disables repeating.
func (kb *Keyboard) PressBinding(action func()) {
	action()

	delay, interval, ok := kb.seat.server.cfg.RepeatTiming()
	if !ok {
		return
	}
	kb.repeatAction = action
	kb.interval = interval
	kb.repeat.Arm(delay)
}

// ReleaseBinding stops an in-progress repeat.
func (kb *Keyboard) ReleaseBinding() {
	kb.interrupt()
}

// Repeating reports whether a binding repeat is pending.
func (kb *Keyboard) Repeating() bool {
	return kb.repeat.Armed()
}

// interrupt cancels any pending repeat; called on release and on every
// focus change, since a repeat aimed at a previous focus is meaningless.
func (kb *Keyboard) interrupt() {
	kb.repeatAction = nil
	kb.repeat.Disarm()
}

func (kb *Keyboard) fire() {
	if kb.repeatAction == nil {
		return
	}
	kb.repeatAction()
	kb.repeat.Arm(kb.interval)
}
