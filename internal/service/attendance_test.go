package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/staffdesk/internal/database/repository"
)

func TestMonthGridShape(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	emp := env.hire(t, ctx, "Ada", "ada@example.com")

	// March 2026 starts on a Sunday and ends on a Tuesday.
	cal, err := env.attendance.Month(ctx, emp.ID, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, cal.Weeks, 6)
	require.Equal(t, time.Monday, cal.Weeks[0][0].Date.Weekday())
	require.False(t, cal.Weeks[0][0].InMonth)
	require.True(t, cal.Weeks[0][6].InMonth)
	require.Equal(t, 1, cal.Weeks[0][6].Date.Day())
	require.Equal(t, 31, cal.Weeks[5][1].Date.Day())
	require.False(t, cal.Weeks[5][2].InMonth)
}

func TestMarkAndSummarise(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	emp := env.hire(t, ctx, "Ada", "ada@example.com")
	day := func(d int) time.Time { return time.Date(2026, 3, d, 15, 30, 0, 0, time.UTC) }

	require.NoError(t, env.attendance.Mark(ctx, emp.ID, day(2), repository.AttendancePresent, ""))
	require.NoError(t, env.attendance.Mark(ctx, emp.ID, day(3), repository.AttendanceRemote, "wfh"))
	require.NoError(t, env.attendance.Mark(ctx, emp.ID, day(4), repository.AttendanceAbsent, ""))
	require.NoError(t, env.attendance.Mark(ctx, emp.ID, day(4), repository.AttendancePresent, ""), "re-marking replaces")
	require.ErrorIs(t, env.attendance.Mark(ctx, emp.ID, day(5), "late", ""), ErrValidation)
	require.ErrorIs(t, env.attendance.Mark(ctx, "ghost", day(5), repository.AttendancePresent, ""), ErrNotFound)

	cal, err := env.attendance.Month(ctx, emp.ID, 2026, time.March)
	require.NoError(t, err)
	require.Equal(t, map[string]int{repository.AttendancePresent: 2, repository.AttendanceRemote: 1}, cal.Summary)
	cell, ok := cal.Day(day(3))
	require.True(t, ok)
	require.Equal(t, repository.AttendanceRemote, cell.Status)

	require.NoError(t, env.attendance.Mark(ctx, emp.ID, day(3), "", ""))
	cal, err = env.attendance.Month(ctx, emp.ID, 2026, time.March)
	require.NoError(t, err)
	require.Zero(t, cal.Summary[repository.AttendanceRemote])
}

func TestNextStatusCycles(t *testing.T) {
	got := []string{}
	st := ""
	for i := 0; i < len(AttendanceStatuses)+1; i++ {
		st = NextStatus(st)
		got = append(got, st)
	}
	require.Equal(t, append(append([]string{}, AttendanceStatuses...), ""), got)
}
