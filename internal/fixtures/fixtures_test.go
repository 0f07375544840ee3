package fixtures

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/staffdesk/internal/database"
	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/service"
)

const sample = `
departments:
  - name: Legal
    description: contracts and compliance
    designations: [Counsel, Paralegal]
employees:
  - first_name: Ada
    last_name: Lovelace
    email: ada@example.com
    department: Engineering
    designation: Software Engineer
    hire_date: "2024-01-15"
  - first_name: Ruth
    last_name: Ginsburg
    email: ruth@example.com
    department: Legal
    designation: Counsel
users:
  - username: admin
    password: change me please
    role: admin
`

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("departments:\n  - nmae: typo\n"))
	require.Error(t, err)

	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, f.Employees)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "fx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db))

	dir := &service.DirectoryService{
		DB:           db,
		Employees:    repository.NewEmployeeRepo(db),
		Departments:  repository.NewDepartmentRepo(db),
		Designations: repository.NewDesignationRepo(db),
	}
	auth := &service.AuthService{Users: repository.NewUserRepo(db), Sessions: repository.NewSessionRepo(db)}

	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	res, err := Apply(ctx, f, dir, auth)
	require.NoError(t, err)
	require.Equal(t, Result{Departments: 1, Designations: 2, Employees: 2, Users: 1}, res)

	res, err = Apply(ctx, f, dir, auth)
	require.NoError(t, err)
	require.Equal(t, Result{Employees: 2}, res)

	emps, err := dir.ListEmployees(ctx, repository.EmployeeFilters{})
	require.NoError(t, err)
	require.Len(t, emps, 2)
	_, _, err = auth.SignIn(ctx, "admin", "change me please")
	require.NoError(t, err)
}

func TestDemoFixturesParse(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "demo.yaml"))
	require.NoError(t, err)
	require.Len(t, f.Departments, 2)
	require.Len(t, f.Employees, 6)
	require.Len(t, f.Users, 2)
	require.Equal(t, "inactive", f.Employees[5].Status)
}
