package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jask/staffdesk/internal/database"
	"github.com/jask/staffdesk/internal/database/repository"
)

// AttendanceStatuses in the order the calendar cycles through them.
var AttendanceStatuses = []string{
	repository.AttendancePresent,
	repository.AttendanceRemote,
	repository.AttendanceAbsent,
	repository.AttendanceLeave,
}

// AttendanceService records daily attendance and builds month views.
type AttendanceService struct {
	Attendance *repository.AttendanceRepo
	Employees  *repository.EmployeeRepo
}

// Mark sets the status of one employee-day. An empty status clears it.
func (s *AttendanceService) Mark(ctx context.Context, employeeID string, day time.Time, status, note string) error {
	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp == nil {
		return notFound("employee", employeeID)
	}
	day = database.Day(day)
	if status == "" {
		return s.Attendance.Delete(ctx, employeeID, day)
	}
	if !knownAttendance(status) {
		return invalid("status", "unknown attendance status %q", status)
	}
	rec := repository.AttendanceRecord{EmployeeID: employeeID, Day: day, Status: status, Note: note}
	if err := s.Attendance.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("mark attendance: %w", err)
	}
	return nil
}

// NextStatus returns the status after cur in the cycle, with "" (unset)
// between the last status and the first.
func NextStatus(cur string) string {
	for i, st := range AttendanceStatuses {
		if st == cur {
			if i == len(AttendanceStatuses)-1 {
				return ""
			}
			return AttendanceStatuses[i+1]
		}
	}
	return AttendanceStatuses[0]
}

func knownAttendance(st string) bool {
	for _, v := range AttendanceStatuses {
		if v == st {
			return true
		}
	}
	return false
}

// CalendarDay is one cell of a month grid.
type CalendarDay struct {
	Date    time.Time
	InMonth bool
	Status  string
}

// Calendar is a month grid of Monday-first weeks plus status counts for
// the days inside the month.
type Calendar struct {
	Year    int
	Month   time.Month
	Weeks   [][7]CalendarDay
	Summary map[string]int
}

// Day returns the cell for date, if the grid shows it.
func (c Calendar) Day(date time.Time) (CalendarDay, bool) {
	date = database.Day(date)
	for _, w := range c.Weeks {
		for _, d := range w {
			if d.Date.Equal(date) {
				return d, true
			}
		}
	}
	return CalendarDay{}, false
}

// Month builds the calendar of employeeID for year/month.
func (s *AttendanceService) Month(ctx context.Context, employeeID string, year int, month time.Month) (Calendar, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	recs, err := s.Attendance.Range(ctx, employeeID, first, next)
	if err != nil {
		return Calendar{}, fmt.Errorf("load attendance: %w", err)
	}
	byDay := make(map[time.Time]string, len(recs))
	for _, r := range recs {
		byDay[database.Day(r.Day)] = r.Status
	}

	cal := Calendar{Year: year, Month: month, Summary: map[string]int{}}
	offset := (int(first.Weekday()) + 6) % 7 // Monday = 0
	start := first.AddDate(0, 0, -offset)
	for d := start; d.Before(next); {
		var week [7]CalendarDay
		for i := range week {
			cell := CalendarDay{Date: d, InMonth: d.Month() == month}
			if cell.InMonth {
				cell.Status = byDay[d]
				if cell.Status != "" {
					cal.Summary[cell.Status]++
				}
			}
			week[i] = cell
			d = d.AddDate(0, 0, 1)
		}
		cal.Weeks = append(cal.Weeks, week)
	}
	return cal, nil
}
