package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/staffdesk/internal/database/repository"
)

func TestApplyValidatesRange(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	emp := env.hire(t, ctx, "Ada", "ada@example.com")

	_, err := env.leave.Apply(ctx, LeaveInput{EmployeeID: emp.ID, Kind: "annual", Start: "2026-03-10", End: "2026-03-09"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.leave.Apply(ctx, LeaveInput{EmployeeID: emp.ID, Kind: "annual", Start: "2026-01-01", End: "2999-12-31"})
	require.ErrorIs(t, err, ErrValidation, "unbounded span")
	year, err := env.leave.Apply(ctx, LeaveInput{EmployeeID: emp.ID, Kind: "unpaid", Start: "2027-01-01", End: "2028-01-01"})
	require.NoError(t, err, "366 days fit")
	require.Equal(t, MaxLeaveDays, Days(year))
	_, err = env.leave.Apply(ctx, LeaveInput{EmployeeID: emp.ID, Kind: "holiday", Start: "2026-03-10"})
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.leave.Apply(ctx, LeaveInput{EmployeeID: "ghost", Kind: "sick", Start: "2026-03-10"})
	require.ErrorIs(t, err, ErrValidation)

	one, err := env.leave.Apply(ctx, LeaveInput{EmployeeID: emp.ID, Kind: "Sick", Start: "2026-03-10"})
	require.NoError(t, err)
	require.Equal(t, "sick", one.Kind)
	require.Equal(t, 1, Days(one))
	require.Equal(t, repository.LeavePending, one.Status)
}

func TestApplyRejectsOverlap(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	emp := env.hire(t, ctx, "Ada", "ada@example.com")

	first, err := env.leave.Apply(ctx, LeaveInput{EmployeeID: emp.ID, Kind: "annual", Start: "2026-03-10", End: "2026-03-14"})
	require.NoError(t, err)

	_, err = env.leave.Apply(ctx, LeaveInput{EmployeeID: emp.ID, Kind: "annual", Start: "2026-03-14", End: "2026-03-16"})
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, env.leave.Reject(ctx, first.ID, "reviewer"))
	_, err = env.leave.Apply(ctx, LeaveInput{EmployeeID: emp.ID, Kind: "annual", Start: "2026-03-14", End: "2026-03-16"})
	require.NoError(t, err, "rejected leave no longer blocks the range")
}

func TestApproveMarksAttendanceAndNotifies(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	emp := env.hire(t, ctx, "Ada", "ada@example.com")
	user, err := env.auth.CreateUser(ctx, "boss", "correct horse", "admin")
	require.NoError(t, err)

	req, err := env.leave.Apply(ctx, LeaveInput{EmployeeID: emp.ID, Kind: "annual", Start: "2026-03-30", End: "2026-04-02"})
	require.NoError(t, err)
	require.Equal(t, 4, Days(req))

	pending, err := env.leave.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	env.clock.Advance(time.Minute)
	require.NoError(t, env.leave.Approve(ctx, req.ID, user.ID))
	got, err := env.leave.Leave.Get(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, repository.LeaveApproved, got.Status)
	require.Equal(t, user.ID, *got.ReviewerID)
	require.NotNil(t, got.DecidedAt)

	march, err := env.attendance.Month(ctx, emp.ID, 2026, time.March)
	require.NoError(t, err)
	require.Equal(t, 2, march.Summary[repository.AttendanceLeave])
	april, err := env.attendance.Month(ctx, emp.ID, 2026, time.April)
	require.NoError(t, err)
	require.Equal(t, 2, april.Summary[repository.AttendanceLeave])

	require.ErrorIs(t, env.leave.Approve(ctx, req.ID, user.ID), ErrConflict, "only pending requests can be decided")
	require.ErrorIs(t, env.leave.Reject(ctx, "ghost", user.ID), ErrNotFound)

	notes, err := env.notifications.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	require.Equal(t, "Leave approved", notes[0].Title)
}

func TestRejectLeavesAttendanceAlone(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	emp := env.hire(t, ctx, "Ada", "ada@example.com")
	req, err := env.leave.Apply(ctx, LeaveInput{EmployeeID: emp.ID, Kind: "unpaid", Start: "2026-03-03", End: "2026-03-04"})
	require.NoError(t, err)

	require.NoError(t, env.leave.Reject(ctx, req.ID, "r1"))
	cal, err := env.attendance.Month(ctx, emp.ID, 2026, time.March)
	require.NoError(t, err)
	require.Empty(t, cal.Summary)

	rejected, err := env.leave.List(ctx, repository.LeaveRejected, emp.ID)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
}
