// Package clock abstracts the timer operations used by the session
// controller so that tests can drive time by hand.
//
// Production code takes Real(); tests take Fake(start) and call Advance.
// Fake AfterFunc callbacks run synchronously inside Advance, in deadline
// order, on the goroutine that called Advance.
package clock

import "time"

// Clock is the subset of the time package staffdesk schedules against.
type Clock interface {
	Now() time.Time
	// AfterFunc calls f once d has elapsed. Stop on the returned Timer
	// cancels a call that has not happened yet.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a cancellable pending call created by AfterFunc.
type Timer struct {
	stop func() bool
}

// Stop cancels the pending call. It reports false when the call already
// ran or the timer was stopped before.
func (t *Timer) Stop() bool {
	if t == nil || t.stop == nil {
		return false
	}
	return t.stop()
}

// Real returns the wall clock.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	t := time.AfterFunc(d, f)
	return &Timer{stop: t.Stop}
}
