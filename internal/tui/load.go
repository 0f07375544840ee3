package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/database/repository"
)

func (a *App) loadOverview() tea.Cmd {
	userID := a.user.ID
	return func() tea.Msg {
		o, err := a.services.Dashboard.Overview(a.ctx, userID)
		if err != nil {
			return errMsg{err}
		}
		return overviewMsg(o)
	}
}

func (a *App) loadEmployees() tea.Cmd {
	return func() tea.Msg {
		list, err := a.services.Directory.ListEmployees(a.ctx, repository.EmployeeFilters{})
		if err != nil {
			return errMsg{err}
		}
		return employeesMsg(list)
	}
}

func (a *App) loadDepartments() tea.Cmd {
	return func() tea.Msg {
		depts, err := a.services.Directory.ListDepartments(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		titles, err := a.services.Directory.ListDesignations(a.ctx, "")
		if err != nil {
			return errMsg{err}
		}
		return departmentsMsg{departments: depts, designations: titles}
	}
}

func (a *App) loadLeave() tea.Cmd {
	status := a.leaveFilter
	return func() tea.Msg {
		list, err := a.services.Leave.List(a.ctx, status, "")
		if err != nil {
			return errMsg{err}
		}
		return leaveMsg(list)
	}
}

func (a *App) loadDocuments() tea.Cmd {
	id := a.subjectID
	if id == "" {
		return func() tea.Msg { return documentsMsg(nil) }
	}
	return func() tea.Msg {
		list, err := a.services.Documents.List(a.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return documentsMsg(list)
	}
}

func (a *App) loadNotifications() tea.Cmd {
	userID := a.user.ID
	return func() tea.Msg {
		list, err := a.services.Notifications.List(a.ctx, userID)
		if err != nil {
			return errMsg{err}
		}
		return notificationsMsg(list)
	}
}

func (a *App) loadCalendar() tea.Cmd {
	id := a.subjectID
	if a.calDay.IsZero() {
		a.calDay = a.today()
	}
	day := a.calDay
	if id == "" {
		return nil
	}
	return func() tea.Msg {
		cal, err := a.services.Attendance.Month(a.ctx, id, day.Year(), day.Month())
		if err != nil {
			return errMsg{err}
		}
		return calendarMsg(cal)
	}
}

// today is the calendar date in the configured zone, as midnight UTC.
func (a *App) today() time.Time {
	y, m, d := a.clock.Now().In(a.tz).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
