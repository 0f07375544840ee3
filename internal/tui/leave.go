package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/formnav"
	"github.com/jask/staffdesk/internal/listing"
	"github.com/jask/staffdesk/internal/service"
)

var leaveColumns = []column{
	{Title: "Employee", Width: 22, SortKey: "employee"},
	{Title: "Kind", Width: 9, SortKey: "kind"},
	{Title: "From", Width: 10, SortKey: "start"},
	{Title: "To", Width: 10},
	{Title: "Days", Width: 4},
	{Title: "Status", Width: 9, SortKey: "status"},
	{Title: "Reason", Width: 24},
}

// leaveFilters is the cycle of the [f] key; "" shows everything.
var leaveFilters = []string{repository.LeavePending, repository.LeaveApproved, repository.LeaveRejected, ""}

func (a *App) leavePage() listing.Page[repository.LeaveRequest] {
	return listing.Apply(a.leave, listing.Columns[repository.LeaveRequest]{
		Text: func(l repository.LeaveRequest) []string {
			return []string{a.employeeName(l.EmployeeID), l.Kind, l.Reason, l.Status}
		},
		Sorters: map[string]func(x, y repository.LeaveRequest) int{
			"start":    listing.ByOrdered(func(l repository.LeaveRequest) int64 { return l.StartDate.Unix() }),
			"employee": listing.ByString(func(l repository.LeaveRequest) string { return a.employeeName(l.EmployeeID) }),
			"kind":     listing.ByString(func(l repository.LeaveRequest) string { return l.Kind }),
			"status":   listing.ByString(func(l repository.LeaveRequest) string { return l.Status }),
		},
	}, a.leaveTable.query)
}

func (a *App) renderLeave() string {
	page := a.leavePage()
	a.leaveTable.clamp(len(page.Items))
	rows := make([][]string, 0, len(page.Items))
	for _, l := range page.Items {
		status := l.Status
		switch l.Status {
		case repository.LeavePending:
			status = warnStyle.Render(status)
		case repository.LeaveApproved:
			status = okStyle.Render(status)
		case repository.LeaveRejected:
			status = disabledStyle.Render(status)
		}
		rows = append(rows, []string{a.employeeName(l.EmployeeID), l.Kind, a.formatDate(l.StartDate),
			a.formatDate(l.EndDate), strconv.Itoa(service.Days(l)), status, l.Reason})
	}
	filter := a.leaveFilter
	if filter == "" {
		filter = "all"
	}
	return titleStyle.Render("Leave · "+filter) + "\n" +
		renderTable(leaveColumns, rows, a.leaveTable.cursor, a.leaveTable) +
		a.leaveTable.footer(page.Total, page.Page, page.Pages) + "\n" +
		a.keys.help(string(viewLeave), scopeTable)
}

func (a *App) handleLeaveKey(m tea.KeyMsg) (bool, tea.Cmd) {
	page := a.leavePage()
	if a.leaveTable.handleKey(m, len(page.Items), page.Pages) {
		return true, nil
	}
	var sel *repository.LeaveRequest
	if len(page.Items) > 0 {
		sel = &page.Items[a.leaveTable.cursor]
	}
	reviewer := a.user.ID
	switch a.keys.action(m, string(viewLeave)) {
	case actFilter:
		for i, f := range leaveFilters {
			if f == a.leaveFilter {
				a.leaveFilter = leaveFilters[(i+1)%len(leaveFilters)]
				break
			}
		}
		a.leaveTable.cursor = 0
		a.leaveTable.query.Page = 1
		return true, a.loadLeave()
	case actApplyLeave:
		a.openLeaveForm("")
	case actApprove:
		if sel != nil {
			id := sel.ID
			return true, a.actionCmd("leave approved", func() error {
				return a.services.Leave.Approve(a.ctx, id, reviewer)
			})
		}
	case actReject:
		if sel != nil {
			id := sel.ID
			prompt := fmt.Sprintf("Reject %s leave for %s?", sel.Kind, a.employeeName(sel.EmployeeID))
			a.askConfirm(prompt, a.actionCmd("leave rejected", func() error {
				return a.services.Leave.Reject(a.ctx, id, reviewer)
			}))
		}
	default:
		return false, nil
	}
	return true, nil
}

func (a *App) activeEmployeeChoices() []choice {
	var out []choice
	for _, e := range a.employees {
		if e.Status == repository.EmployeeActive {
			out = append(out, choice{Label: e.FullName(), Value: e.ID})
		}
	}
	return out
}

// openLeaveForm opens the apply form, preselecting employeeID when set.
func (a *App) openLeaveForm(employeeID string) {
	f := newForm("Apply for leave", "leave",
		formnav.Dropdown("employee", "Employee"),
		formnav.Select("kind", "Kind"),
		formnav.Input("start", "From"),
		formnav.Input("end", "To"),
		formnav.TextArea("reason", "Reason"),
		formnav.Group("actions", formnav.SubmitButton("save", "Apply"), formnav.CancelButton("cancel", "Cancel")),
	)
	f.setChoices("employee", a.activeEmployeeChoices())
	kinds := make([]choice, 0, len(service.LeaveKinds))
	for _, k := range service.LeaveKinds {
		kinds = append(kinds, choice{Label: k, Value: k})
	}
	f.setChoices("kind", kinds)
	today := a.today().Format("2006-01-02")
	f.setValue("start", today)
	f.inputs["end"].Placeholder = "YYYY-MM-DD (blank for one day)"
	if employeeID != "" {
		f.setValue("employee", employeeID)
	}
	a.openForm(formLeaveApply, f)
}

func (a *App) applyLeaveCmd() tea.Cmd {
	in := service.LeaveInput{
		EmployeeID: a.form.value("employee"),
		Kind:       a.form.value("kind"),
		Start:      a.form.value("start"),
		End:        a.form.value("end"),
		Reason:     a.form.value("reason"),
	}
	return formCmd("leave request filed", func() error {
		_, err := a.services.Leave.Apply(a.ctx, in)
		return err
	})
}
