package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/service"
)

var weekdays = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

func (a *App) renderAttendance() string {
	var b strings.Builder
	if a.subjectID == "" {
		b.WriteString(titleStyle.Render("Attendance") + "\n")
		b.WriteString(helpStyle.Render("Pick an employee with [,] and [.], or press [A] on the employees list.") + "\n")
		return b.String()
	}
	cal := a.calendar
	b.WriteString(titleStyle.Render(fmt.Sprintf("Attendance · %s · %s %d", a.employeeName(a.subjectID), cal.Month, cal.Year)))
	b.WriteString("\n\n")
	for _, d := range weekdays {
		b.WriteString(headerStyle.Render(fmt.Sprintf(" %-9s", d)))
	}
	b.WriteString("\n")
	for _, w := range cal.Weeks {
		for _, d := range w {
			text := ""
			if d.InMonth {
				text = fmt.Sprintf("%2d %-6s", d.Date.Day(), shortStatus(d.Status))
			}
			text = " " + text + strings.Repeat(" ", max(0, 9-len(text)))
			switch {
			case d.Date.Equal(a.calDay) && d.InMonth:
				b.WriteString(selectedStyle.Reverse(true).Render(text))
			case d.Status != "":
				b.WriteString(attendanceStyles[d.Status].Render(text))
			default:
				b.WriteString(text)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	var summary []string
	for _, st := range service.AttendanceStatuses {
		summary = append(summary, attendanceStyles[st].Render(fmt.Sprintf("%s %d", st, cal.Summary[st])))
	}
	b.WriteString(strings.Join(summary, "   ") + "\n")
	b.WriteString(a.keys.help(string(viewAttendance)))
	return b.String()
}

func shortStatus(st string) string {
	if st == "" {
		return "·"
	}
	return st
}

func (a *App) handleAttendanceKey(m tea.KeyMsg) (bool, tea.Cmd) {
	act := a.keys.action(m, string(viewAttendance))
	if act == actPrevSubject || act == actNextSubject {
		a.cycleSubject(subjectStep(act))
		return true, a.loadCalendar()
	}
	if a.subjectID == "" {
		return false, nil
	}
	switch act {
	case actDayLeft:
		return true, a.moveDay(0, -1)
	case actDayRight:
		return true, a.moveDay(0, 1)
	case actWeekUp:
		return true, a.moveDay(0, -7)
	case actWeekDown:
		return true, a.moveDay(0, 7)
	case actPrevMonth:
		return true, a.moveDay(-1, 0)
	case actNextMonth:
		return true, a.moveDay(1, 0)
	case actToday:
		a.calDay = a.today()
		return true, a.loadCalendar()
	case actCycleStatus:
		cur := ""
		if d, ok := a.calendar.Day(a.calDay); ok {
			cur = d.Status
		}
		return true, a.markDay(service.NextStatus(cur))
	case actClearStatus:
		return true, a.markDay("")
	}
	return false, nil
}

func subjectStep(act action) int {
	if act == actPrevSubject {
		return -1
	}
	return 1
}

// cycleSubject steps the calendar through active employees.
func (a *App) cycleSubject(delta int) {
	opts := a.activeEmployeeChoices()
	if len(opts) == 0 {
		return
	}
	idx := -1
	for i, o := range opts {
		if o.Value == a.subjectID {
			idx = i
		}
	}
	if idx < 0 && delta < 0 {
		idx = 0
	}
	a.subjectID = opts[(idx+delta+len(opts))%len(opts)].Value
}

// moveDay shifts the selected day and reloads when the month changes.
func (a *App) moveDay(months, days int) tea.Cmd {
	before := a.calDay
	if months != 0 {
		first := a.calDay.AddDate(0, 0, 1-a.calDay.Day())
		a.calDay = first.AddDate(0, months, 0)
	} else {
		a.calDay = a.calDay.AddDate(0, 0, days)
	}
	if a.calDay.Month() != before.Month() || a.calDay.Year() != before.Year() {
		return a.loadCalendar()
	}
	return nil
}

func (a *App) markDay(status string) tea.Cmd {
	id, day := a.subjectID, a.calDay
	label := status
	if label == "" {
		label = "cleared"
	}
	return tea.Sequence(
		func() tea.Msg {
			if err := a.services.Attendance.Mark(a.ctx, id, day, status, ""); err != nil {
				return errMsg{err}
			}
			return statusMsg(fmt.Sprintf("%s: %s", a.formatDate(day), label))
		},
		a.loadCalendar(),
	)
}
