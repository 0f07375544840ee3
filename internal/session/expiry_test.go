package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/staffdesk/internal/clock"
)

type recorder struct {
	steps   []string
	notices []Notice
}

func (r *recorder) expiry(signOutErr error) Expiry {
	return Expiry{
		ClearCache: func() { r.steps = append(r.steps, "clear") },
		SignOut: func(ctx context.Context) error {
			r.steps = append(r.steps, "signout")
			_, hasDeadline := ctx.Deadline()
			if !hasDeadline {
				return errors.New("sign out without deadline")
			}
			return signOutErr
		},
		Notify: func(n Notice) {
			r.steps = append(r.steps, "notify")
			r.notices = append(r.notices, n)
		},
		Navigate: func() { r.steps = append(r.steps, "navigate") },
	}
}

func TestExpiryRunOrder(t *testing.T) {
	var r recorder
	r.expiry(nil).Run(context.Background())
	require.Equal(t, []string{"clear", "signout", "notify", "navigate"}, r.steps)
	require.Len(t, r.notices, 1)
	require.Equal(t, ExpiredText, r.notices[0].Text)
	require.Equal(t, LevelWarning, r.notices[0].Level)
}

func TestExpirySignOutFailureStillNavigates(t *testing.T) {
	var r recorder
	r.expiry(errors.New("backend unavailable")).Run(context.Background())
	require.Equal(t, []string{"clear", "signout", "notify", "navigate"}, r.steps)
	require.Equal(t, SignOutFailText, r.notices[0].Text)
	require.Equal(t, LevelError, r.notices[0].Level)
}

func TestExpiryWithoutHooks(t *testing.T) {
	require.NotPanics(t, func() { Expiry{}.Run(context.Background()) })
}

func TestControllerRunsExpiryCallback(t *testing.T) {
	var r recorder
	clk := clock.Fake(start)
	bus := NewBus()
	c := Mount(bus, Options{
		Timeout:  5 * time.Minute,
		Clock:    clk,
		OnExpire: r.expiry(nil).Callback(context.Background()),
	})
	defer c.Unmount()

	clk.Advance(5 * time.Minute)
	require.Equal(t, []string{"clear", "signout", "notify", "navigate"}, r.steps)
}
