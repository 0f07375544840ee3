package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNotificationsUnreadFirst(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	alice, err := env.auth.CreateUser(ctx, "alice", "long enough", "")
	require.NoError(t, err)
	bob, err := env.auth.CreateUser(ctx, "bob", "long enough", "")
	require.NoError(t, err)

	_, err = env.notifications.Push(ctx, "", "", "no title")
	require.ErrorIs(t, err, ErrValidation)

	old, err := env.notifications.Push(ctx, alice.ID, "Welcome", "")
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	_, err = env.notifications.Push(ctx, "", "Office closed Friday", "")
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	_, err = env.notifications.Push(ctx, bob.ID, "Only for bob", "")
	require.NoError(t, err)

	n, err := env.notifications.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, env.notifications.MarkRead(ctx, old.ID, alice.ID))
	require.ErrorIs(t, env.notifications.MarkRead(ctx, old.ID, bob.ID), ErrNotFound, "not bob's to read")
	env.clock.Advance(time.Minute)
	_, err = env.notifications.Push(ctx, alice.ID, "Newest", "")
	require.NoError(t, err)

	list, err := env.notifications.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "Newest", list[0].Title)
	require.Equal(t, "Office closed Friday", list[1].Title)
	require.Equal(t, "Welcome", list[2].Title)
	require.Equal(t, "3 minutes ago", env.notifications.Age(list[2]))

	marked, err := env.notifications.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), marked)
	n, err = env.notifications.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n, "alice reading the broadcast leaves bob's copy unread")
}

func TestBroadcastReadStateIsPerUser(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	alice, err := env.auth.CreateUser(ctx, "alice", "long enough", "")
	require.NoError(t, err)
	bob, err := env.auth.CreateUser(ctx, "bob", "long enough", "")
	require.NoError(t, err)
	all, err := env.notifications.Push(ctx, "", "Payroll runs Thursday", "")
	require.NoError(t, err)

	require.NoError(t, env.notifications.MarkRead(ctx, all.ID, alice.ID))
	env.clock.Advance(time.Minute)
	require.NoError(t, env.notifications.MarkRead(ctx, all.ID, alice.ID), "reading twice is harmless")

	list, err := env.notifications.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].ReadAt)

	list, err = env.notifications.List(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Nil(t, list[0].ReadAt)
	n, err := env.notifications.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	marked, err := env.notifications.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	require.Zero(t, marked)
	require.ErrorIs(t, env.notifications.MarkRead(ctx, "ghost", bob.ID), ErrNotFound)
}

func TestDashboardOverview(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	a := env.hire(t, ctx, "Ada", "ada@example.com")
	b := env.hire(t, ctx, "Bob", "bob@example.com")
	require.NoError(t, env.directory.Employees.UpdateStatus(ctx, b.ID, "inactive"))
	_, err := env.leave.Apply(ctx, LeaveInput{EmployeeID: a.ID, Kind: "annual", Start: "2026-04-01"})
	require.NoError(t, err)

	o, err := env.dashboard.Overview(ctx, "nobody")
	require.NoError(t, err)
	require.Equal(t, 1, o.ActiveEmployees)
	require.Equal(t, 1, o.InactiveEmployees)
	require.Equal(t, 5, o.Departments)
	require.Len(t, o.PendingLeave, 1)
	require.Equal(t, 1, o.Unread, "the leave request broadcast")
}
