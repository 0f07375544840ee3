package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/formnav"
	"github.com/jask/staffdesk/internal/service"
)

func (a *App) renderDashboard() string {
	o := a.overview
	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard · " + a.clock.Now().In(a.tz).Format("Monday 2 January 2006")))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Employees: %d active, %d inactive   Departments: %d\n", o.ActiveEmployees, o.InactiveEmployees, o.Departments)
	fmt.Fprintf(&b, "Pending leave: %d   Unread notifications: %d\n", len(o.PendingLeave), o.Unread)
	if len(o.PendingLeave) > 0 {
		b.WriteString("\n" + headerStyle.Render("Waiting for review") + "\n")
		for i, l := range o.PendingLeave {
			if i == 5 {
				fmt.Fprintf(&b, "  … and %d more\n", len(o.PendingLeave)-5)
				break
			}
			fmt.Fprintf(&b, "  %-24s %-9s %s → %s (%d days)\n", a.employeeName(l.EmployeeID), l.Kind,
				a.formatDate(l.StartDate), a.formatDate(l.EndDate), service.Days(l))
		}
	}
	b.WriteString("\n" + a.keys.help(string(viewDashboard)))
	return b.String()
}

func (a *App) handleDashboardKey(m tea.KeyMsg) (bool, tea.Cmd) {
	switch a.keys.action(m, string(viewDashboard)) {
	case actImport:
		a.openForm(formRosterImport, newForm("Import roster", "roster-import",
			formnav.Text("hint", "Columns: first/last name or name, email, phone, department, designation, hire date, status, salary."),
			formnav.FileInput("file", "Spreadsheet"),
			formnav.Group("actions", formnav.SubmitButton("save", "Import"), formnav.CancelButton("cancel", "Cancel")),
		))
		return true, nil
	case actExport:
		f := newForm("Export roster", "roster-export",
			formnav.Input("path", "Save as"),
			formnav.Group("actions", formnav.SubmitButton("save", "Export"), formnav.CancelButton("cancel", "Cancel")),
		)
		home, _ := os.UserHomeDir()
		f.setValue("path", filepath.Join(home, "staffdesk-roster.xlsx"))
		a.openForm(formRosterExport, f)
		return true, nil
	}
	return false, nil
}

func (a *App) importRosterCmd() tea.Cmd {
	path := a.form.value("file")
	return func() tea.Msg {
		if path == "" {
			return formErrMsg{fmt.Errorf("choose a spreadsheet first")}
		}
		res, err := a.services.Roster.ImportFile(a.ctx, path)
		if err != nil {
			return formErrMsg{err}
		}
		if res.DepartmentsCreated > 0 {
			a.keepTaxonomy()
		}
		status := fmt.Sprintf("roster imported: %d created, %d updated, %d skipped", res.Created, res.Updated, res.Skipped)
		if len(res.Problems) > 0 {
			status += " (first problem: " + res.Problems[0] + ")"
			for _, p := range res.Problems {
				a.log.Warn("roster row skipped", "problem", p)
			}
		}
		return formDoneMsg{status}
	}
}

func (a *App) exportRosterCmd() tea.Cmd {
	path := a.form.value("path")
	return func() tea.Msg {
		n, err := a.services.Roster.Export(a.ctx, path)
		if err != nil {
			return formErrMsg{err}
		}
		return formDoneMsg{fmt.Sprintf("exported %d employees to %s", n, path)}
	}
}
