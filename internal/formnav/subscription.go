package formnav

import (
	"sync"
	"sync/atomic"
)

// Subscription is returned by every listener registration. Unsubscribe
// is idempotent.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

type listenerEntry[T any] struct {
	id uint64
	fn func(T)
}

// listeners is an ordered listener list. emit works on a snapshot so a
// listener may unsubscribe itself or others while being called.
type listeners[T any] struct {
	mu      sync.Mutex
	nextID  uint64
	entries []listenerEntry[T]
}

func (l *listeners[T]) add(fn func(T)) *Subscription {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listenerEntry[T]{id: id, fn: fn})
	l.mu.Unlock()
	return &Subscription{cancel: func() { l.remove(id) }}
}

// addOnce registers fn for a single delivery. The entry is removed
// before fn runs, and a second delivery racing the first is dropped.
func (l *listeners[T]) addOnce(fn func(T)) *Subscription {
	var fired atomic.Bool
	var sub *Subscription
	sub = l.add(func(v T) {
		if !fired.CompareAndSwap(false, true) {
			return
		}
		sub.Unsubscribe()
		fn(v)
	})
	return sub
}

func (l *listeners[T]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) emit(v T) {
	l.mu.Lock()
	snapshot := make([]listenerEntry[T], len(l.entries))
	copy(snapshot, l.entries)
	l.mu.Unlock()
	for _, e := range snapshot {
		if l.has(e.id) {
			e.fn(v)
		}
	}
}

func (l *listeners[T]) has(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.id == id {
			return true
		}
	}
	return false
}

func (l *listeners[T]) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
