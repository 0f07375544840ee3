package service

import (
	"context"

	"github.com/jask/staffdesk/internal/database/repository"
)

// Overview holds the dashboard headline numbers.
type Overview struct {
	ActiveEmployees   int
	InactiveEmployees int
	Departments       int
	PendingLeave      []repository.LeaveRequest
	Unread            int
}

// DashboardService aggregates counts for the landing screen.
type DashboardService struct {
	Employees     *repository.EmployeeRepo
	Departments   *repository.DepartmentRepo
	Leave         *repository.LeaveRepo
	Notifications *repository.NotificationRepo
}

func (s *DashboardService) Overview(ctx context.Context, userID string) (Overview, error) {
	var o Overview
	counts, err := s.Employees.CountByStatus(ctx)
	if err != nil {
		return o, err
	}
	o.ActiveEmployees = counts[repository.EmployeeActive]
	o.InactiveEmployees = counts[repository.EmployeeInactive]
	depts, err := s.Departments.List(ctx)
	if err != nil {
		return o, err
	}
	o.Departments = len(depts)
	if o.PendingLeave, err = s.Leave.List(ctx, repository.LeavePending, ""); err != nil {
		return o, err
	}
	if o.Unread, err = s.Notifications.UnreadCount(ctx, userID); err != nil {
		return o, err
	}
	return o, nil
}
