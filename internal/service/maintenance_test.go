package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/staffdesk/internal/database/repository"
)

func TestResetRestoresDefaults(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	env.hire(t, ctx, "Ada", "ada@example.com")
	_, err := env.directory.CreateDepartment(ctx, "Legal", "")
	require.NoError(t, err)
	_, err = env.auth.CreateUser(ctx, "admin", "long enough", repository.RoleAdmin)
	require.NoError(t, err)

	m := &MaintenanceService{DB: env.db}
	require.NoError(t, m.Reset(ctx, false))

	emps, err := env.directory.ListEmployees(ctx, repository.EmployeeFilters{})
	require.NoError(t, err)
	require.Empty(t, emps)
	depts, err := env.directory.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, depts, 5, "defaults come back, Legal does not")
	users, err := env.auth.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	require.NoError(t, m.Reset(ctx, true))
	users, err = env.auth.ListUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, users)
}
