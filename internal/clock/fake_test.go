package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func TestFakeAfterFuncFiresOnAdvance(t *testing.T) {
	c := Fake(epoch)
	fired := 0
	c.AfterFunc(3*time.Second, func() { fired++ })

	c.Advance(2 * time.Second)
	if fired != 0 {
		t.Fatalf("fired early")
	}
	c.Advance(time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	c.Advance(time.Hour)
	if fired != 1 {
		t.Fatalf("one-shot timer fired again: %d", fired)
	}
	if got := c.Now(); !got.Equal(epoch.Add(time.Hour + 3*time.Second)) {
		t.Fatalf("Now() = %v", got)
	}
}

func TestFakeStopPreventsCall(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	if c.PendingCount() != 1 {
		t.Fatalf("pending = %d, want 1", c.PendingCount())
	}
	if !timer.Stop() {
		t.Fatalf("Stop on pending timer returned false")
	}
	if timer.Stop() {
		t.Fatalf("second Stop returned true")
	}
	c.Advance(2 * time.Second)
	if fired {
		t.Fatalf("stopped timer fired")
	}
	if c.PendingCount() != 0 {
		t.Fatalf("pending = %d, want 0", c.PendingCount())
	}
}

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []string
	c.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	c.AfterFunc(time.Second, func() { order = append(order, "a") })
	c.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	c.Advance(5 * time.Second)
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("order = %v", order)
	}
}

func TestFakeCallbackMayReschedule(t *testing.T) {
	c := Fake(epoch)
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			c.AfterFunc(time.Second, tick)
		}
	}
	c.AfterFunc(time.Second, tick)
	c.Advance(10 * time.Second)
	if count != 1 {
		// rescheduled timers are relative to the advanced clock
		t.Fatalf("count = %d, want 1", count)
	}
	c.Advance(time.Second)
	c.Advance(time.Second)
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestNilTimerStop(t *testing.T) {
	var timer *Timer
	if timer.Stop() {
		t.Fatalf("nil timer Stop returned true")
	}
}
