package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/staffdesk/internal/database/repository"
)

func TestCreateEmployeeValidates(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)

	cases := []struct {
		name  string
		in    EmployeeInput
		field string
	}{
		{"missing first name", EmployeeInput{Email: "a@example.com"}, "first_name"},
		{"missing email", EmployeeInput{FirstName: "Ada"}, "email"},
		{"bad email", EmployeeInput{FirstName: "Ada", Email: "ada at example"}, "email"},
		{"bad status", EmployeeInput{FirstName: "Ada", Email: "ada@example.com", Status: "retired"}, "status"},
		{"bad date", EmployeeInput{FirstName: "Ada", Email: "ada@example.com", HireDate: "03/02/2026"}, "hire_date"},
		{"bad salary", EmployeeInput{FirstName: "Ada", Email: "ada@example.com", Salary: "lots"}, "salary"},
		{"unknown department", EmployeeInput{FirstName: "Ada", Email: "ada@example.com", DepartmentID: "nope"}, "department"},
	}
	for _, tc := range cases {
		_, err := env.directory.CreateEmployee(ctx, tc.in)
		require.ErrorIs(t, err, ErrValidation, tc.name)
		var fe *FieldError
		require.True(t, errors.As(err, &fe), tc.name)
		require.Equal(t, tc.field, fe.Field, tc.name)
	}
}

func TestCreateEmployeeFillsDepartmentFromDesignation(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	eng := env.department(t, ctx, "Engineering")
	fin := env.department(t, ctx, "Finance")
	titles, err := env.directory.ListDesignations(ctx, eng.ID)
	require.NoError(t, err)

	emp, err := env.directory.CreateEmployee(ctx, EmployeeInput{
		FirstName:     "Grace",
		LastName:      "Hopper",
		Email:         " Grace@Example.com ",
		DesignationID: titles[0].ID,
		HireDate:      "2026-01-05",
		Salary:        "$95,000.50",
	})
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", emp.Email)
	require.Equal(t, eng.ID, *emp.DepartmentID)
	require.Equal(t, int64(9500050), emp.SalaryCents)
	require.Equal(t, repository.EmployeeActive, emp.Status)

	_, err = env.directory.CreateEmployee(ctx, EmployeeInput{
		FirstName:     "Alan",
		Email:         "alan@example.com",
		DepartmentID:  fin.ID,
		DesignationID: titles[0].ID,
	})
	require.ErrorIs(t, err, ErrValidation, "designation from another department")
}

func TestEmailMustBeUnique(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	first := env.hire(t, ctx, "Ada", "ada@example.com")
	other := env.hire(t, ctx, "Bob", "bob@example.com")

	_, err := env.directory.CreateEmployee(ctx, EmployeeInput{FirstName: "Ada2", Email: "ADA@example.com"})
	require.ErrorIs(t, err, ErrConflict)

	in := InputFromEmployee(other)
	in.Email = first.Email
	_, err = env.directory.UpdateEmployee(ctx, other.ID, in)
	require.ErrorIs(t, err, ErrConflict)

	in = InputFromEmployee(first)
	in.Phone = "555-0100"
	updated, err := env.directory.UpdateEmployee(ctx, first.ID, in)
	require.NoError(t, err, "keeping your own email is fine")
	require.Equal(t, "555-0100", updated.Phone)
}

func TestUpdateAndDeleteMissingEmployee(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	_, err := env.directory.UpdateEmployee(ctx, "ghost", EmployeeInput{FirstName: "G", Email: "g@example.com"})
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, env.directory.DeleteEmployee(ctx, "ghost"), ErrNotFound)
	_, err = env.directory.GetEmployee(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDepartmentRefusedWhileStaffed(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	emp := env.hire(t, ctx, "Ada", "ada@example.com")
	eng := env.department(t, ctx, "Engineering")

	require.ErrorIs(t, env.directory.DeleteDepartment(ctx, eng.ID), ErrConflict)

	require.NoError(t, env.directory.DeleteEmployee(ctx, emp.ID))
	require.NoError(t, env.directory.DeleteDepartment(ctx, eng.ID))
	titles, err := env.directory.ListDesignations(ctx, eng.ID)
	require.NoError(t, err)
	require.Empty(t, titles)
	require.ErrorIs(t, env.directory.DeleteDepartment(ctx, eng.ID), ErrNotFound)
}

func TestDepartmentAndDesignationNames(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)

	_, err := env.directory.CreateDepartment(ctx, "finance", "")
	require.ErrorIs(t, err, ErrConflict)
	_, err = env.directory.CreateDepartment(ctx, "  ", "")
	require.ErrorIs(t, err, ErrValidation)

	legal, err := env.directory.CreateDepartment(ctx, "Legal", "contracts")
	require.NoError(t, err)
	renamed, err := env.directory.UpdateDepartment(ctx, legal.ID, "Legal & Compliance", "contracts")
	require.NoError(t, err)
	require.Equal(t, "Legal & Compliance", renamed.Name)

	counsel, err := env.directory.CreateDesignation(ctx, legal.ID, "Counsel")
	require.NoError(t, err)
	_, err = env.directory.CreateDesignation(ctx, legal.ID, "counsel")
	require.ErrorIs(t, err, ErrConflict)
	_, err = env.directory.UpdateDesignation(ctx, counsel.ID, legal.ID, "General Counsel")
	require.NoError(t, err)
	require.NoError(t, env.directory.DeleteDesignation(ctx, counsel.ID))
	require.ErrorIs(t, env.directory.DeleteDesignation(ctx, counsel.ID), ErrNotFound)
}

func TestMovingStaffedDesignationRefused(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	eng := env.department(t, ctx, "Engineering")
	fin := env.department(t, ctx, "Finance")
	lead, err := env.directory.CreateDesignation(ctx, eng.ID, "Lead")
	require.NoError(t, err)
	emp, err := env.directory.CreateEmployee(ctx, EmployeeInput{
		FirstName:     "Ada",
		Email:         "ada@example.com",
		DesignationID: lead.ID,
	})
	require.NoError(t, err)

	_, err = env.directory.UpdateDesignation(ctx, lead.ID, fin.ID, "Lead")
	require.ErrorIs(t, err, ErrConflict)
	got, err := env.directory.Designations.Get(ctx, lead.ID)
	require.NoError(t, err)
	require.Equal(t, eng.ID, got.DepartmentID)

	renamed, err := env.directory.UpdateDesignation(ctx, lead.ID, eng.ID, "Tech Lead")
	require.NoError(t, err, "renaming in place is fine")
	require.Equal(t, "Tech Lead", renamed.Title)
	_, err = env.directory.UpdateEmployee(ctx, emp.ID, InputFromEmployee(emp))
	require.NoError(t, err)

	require.NoError(t, env.directory.DeleteEmployee(ctx, emp.ID))
	moved, err := env.directory.UpdateDesignation(ctx, lead.ID, fin.ID, "Tech Lead")
	require.NoError(t, err)
	require.Equal(t, fin.ID, moved.DepartmentID)
}
