// Package session watches user activity and expires an idle session.
//
// The TUI publishes every input it receives on a Bus. A Controller
// mounted on the Bus keeps a single pending timer that each qualifying
// activity pushes back to now+timeout; if the timer runs out the
// controller calls its expiry callback once. Expiry is the standard
// callback: it clears cached session state, signs out, notifies and
// navigates to the login screen.
package session

import (
	"fmt"
	"strings"
	"sync"
)

// Activity is a kind of user input.
type Activity string

const (
	PointerMove Activity = "pointermove"
	PointerDown Activity = "pointerdown"
	KeyPress    Activity = "keypress"
	Scroll      Activity = "scroll"
	TouchStart  Activity = "touchstart"
)

// AllActivities returns every kind that counts as activity by default.
func AllActivities() []Activity {
	return []Activity{PointerMove, PointerDown, KeyPress, Scroll, TouchStart}
}

// ParseActivity accepts the kind names plus the DOM-style aliases
// mousemove, mousedown and keydown.
func ParseActivity(s string) (Activity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pointermove", "mousemove":
		return PointerMove, nil
	case "pointerdown", "mousedown":
		return PointerDown, nil
	case "keypress", "keydown":
		return KeyPress, nil
	case "scroll", "wheel":
		return Scroll, nil
	case "touchstart":
		return TouchStart, nil
	}
	return "", fmt.Errorf("unknown activity %q", s)
}

// ParseActivities parses a list, dropping duplicates.
func ParseActivities(names []string) ([]Activity, error) {
	seen := map[Activity]bool{}
	var out []Activity
	for _, n := range names {
		a, err := ParseActivity(n)
		if err != nil {
			return nil, err
		}
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out, nil
}

// Bus fans activity out to subscribers. Publish runs subscribers on the
// caller's goroutine in subscription order.
type Bus struct {
	mu   sync.Mutex
	next uint64
	subs []busSub
}

type busSub struct {
	id   uint64
	kind Activity
	fn   func(Activity)
}

func NewBus() *Bus { return &Bus{} }

// Subscribe registers fn for one activity kind and returns the function
// that removes it.
func (b *Bus) Subscribe(kind Activity, fn func(Activity)) (unsubscribe func()) {
	b.mu.Lock()
	b.next++
	id := b.next
	b.subs = append(b.subs, busSub{id: id, kind: kind, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers kind to its subscribers.
func (b *Bus) Publish(kind Activity) {
	b.mu.Lock()
	var fns []func(Activity)
	for _, s := range b.subs {
		if s.kind == kind {
			fns = append(fns, s.fn)
		}
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(kind)
	}
}

// Subscribers counts registered subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
