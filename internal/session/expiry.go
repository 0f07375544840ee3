package session

import (
	"context"
	"log/slog"
	"time"
)

// Level grades a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Notice is a user-visible message raised by Expiry.
type Notice struct {
	Level Level
	Text  string
}

const (
	ExpiredText     = "Session expired due to inactivity. Please sign in again."
	SignOutFailText = "Something went wrong while signing you out. Please sign in again."
)

// Expiry is the forced-logout routine run when a session times out.
// Every hook is optional.
type Expiry struct {
	ClearCache func()
	SignOut    func(ctx context.Context) error
	Notify     func(Notice)
	Navigate   func()

	// SignOutTimeout bounds the SignOut call; zero means 5 seconds.
	SignOutTimeout time.Duration
	Logger         *slog.Logger
}

// Run clears the cache, signs out, notifies and navigates. A failed
// sign-out still navigates, with a generic error notice instead of the
// expiry notice. It never retries.
func (e Expiry) Run(ctx context.Context) {
	log := e.Logger
	if log == nil {
		log = slog.Default()
	}
	if e.ClearCache != nil {
		e.ClearCache()
	}

	notice := Notice{Level: LevelWarning, Text: ExpiredText}
	if e.SignOut != nil {
		timeout := e.SignOutTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		sctx, cancel := context.WithTimeout(ctx, timeout)
		err := e.SignOut(sctx)
		cancel()
		if err != nil {
			log.Error("sign out after idle timeout failed", "err", err)
			notice = Notice{Level: LevelError, Text: SignOutFailText}
		}
	}

	if e.Notify != nil {
		e.Notify(notice)
	}
	if e.Navigate != nil {
		e.Navigate()
	}
}

// Callback adapts Run to Options.OnExpire.
func (e Expiry) Callback(ctx context.Context) func() {
	return func() { e.Run(ctx) }
}
