package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/staffdesk/internal/clock"
	"github.com/jask/staffdesk/internal/database"
	"github.com/jask/staffdesk/internal/database/repository"
)

type testEnv struct {
	db            *sql.DB
	clock         *clock.FakeClock
	directory     *DirectoryService
	leave         *LeaveService
	attendance    *AttendanceService
	documents     *DocumentService
	notifications *NotificationService
	auth          *AuthService
	roster        *RosterService
	dashboard     *DashboardService
}

func setupEnv(t *testing.T) (*testEnv, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db))

	fake := clock.Fake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	employees := repository.NewEmployeeRepo(db)
	departments := repository.NewDepartmentRepo(db)
	attendance := repository.NewAttendanceRepo(db)
	leaveRepo := repository.NewLeaveRepo(db)
	notifRepo := repository.NewNotificationRepo(db)

	env := &testEnv{db: db, clock: fake}
	env.directory = &DirectoryService{
		DB:           db,
		Employees:    employees,
		Departments:  departments,
		Designations: repository.NewDesignationRepo(db),
	}
	env.notifications = &NotificationService{Notifications: notifRepo, Clock: fake}
	env.leave = &LeaveService{
		DB:            db,
		Leave:         leaveRepo,
		Employees:     employees,
		Attendance:    attendance,
		Notifications: env.notifications,
		Clock:         fake,
	}
	env.attendance = &AttendanceService{Attendance: attendance, Employees: employees}
	env.documents = &DocumentService{Documents: repository.NewDocumentRepo(db), Employees: employees, MaxBytes: 64}
	env.auth = &AuthService{
		Users:    repository.NewUserRepo(db),
		Sessions: repository.NewSessionRepo(db),
		Clock:    fake,
		TTL:      time.Hour,
	}
	env.roster = &RosterService{Directory: env.directory}
	env.dashboard = &DashboardService{
		Employees:     employees,
		Departments:   departments,
		Leave:         leaveRepo,
		Notifications: notifRepo,
	}
	return env, ctx
}

func (e *testEnv) department(t *testing.T, ctx context.Context, name string) repository.Department {
	t.Helper()
	d, err := e.directory.Departments.ByName(ctx, name)
	require.NoError(t, err)
	require.NotNil(t, d, name)
	return *d
}

func (e *testEnv) hire(t *testing.T, ctx context.Context, first, email string) repository.Employee {
	t.Helper()
	emp, err := e.directory.CreateEmployee(ctx, EmployeeInput{
		FirstName:    first,
		LastName:     "Tester",
		Email:        email,
		DepartmentID: e.department(t, ctx, "Engineering").ID,
	})
	require.NoError(t, err)
	return emp
}
