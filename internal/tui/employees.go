package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/formnav"
	"github.com/jask/staffdesk/internal/listing"
	"github.com/jask/staffdesk/internal/service"
)

var employeeColumns = []column{
	{Title: "Name", Width: 22, SortKey: "name"},
	{Title: "Email", Width: 26, SortKey: "email"},
	{Title: "Department", Width: 16, SortKey: "department"},
	{Title: "Designation", Width: 20},
	{Title: "Hired", Width: 10, SortKey: "hired"},
	{Title: "Status", Width: 8, SortKey: "status"},
}

func (a *App) employeeListing() listing.Columns[repository.Employee] {
	return listing.Columns[repository.Employee]{
		Text: func(e repository.Employee) []string {
			return []string{e.FullName(), e.Email, e.Phone, a.departmentName(e.DepartmentID), a.designationTitle(e.DesignationID), e.Status}
		},
		Sorters: map[string]func(x, y repository.Employee) int{
			"name":       listing.ByString(repository.Employee.FullName),
			"email":      listing.ByString(func(e repository.Employee) string { return e.Email }),
			"department": listing.ByString(func(e repository.Employee) string { return a.departmentName(e.DepartmentID) }),
			"hired":      listing.ByOrdered(func(e repository.Employee) int64 { return hireUnix(e) }),
			"status":     listing.ByString(func(e repository.Employee) string { return e.Status }),
		},
	}
}

func hireUnix(e repository.Employee) int64 {
	if e.HireDate == nil {
		return 0
	}
	return e.HireDate.Unix()
}

func (a *App) employeePage() listing.Page[repository.Employee] {
	return listing.Apply(a.employees, a.employeeListing(), a.empTable.query)
}

func (a *App) selectedEmployee() *repository.Employee {
	page := a.employeePage()
	a.empTable.clamp(len(page.Items))
	if len(page.Items) == 0 {
		return nil
	}
	e := page.Items[a.empTable.cursor]
	return &e
}

func (a *App) renderEmployees() string {
	page := a.employeePage()
	a.empTable.clamp(len(page.Items))
	rows := make([][]string, 0, len(page.Items))
	for _, e := range page.Items {
		hired := ""
		if e.HireDate != nil {
			hired = a.formatDate(*e.HireDate)
		}
		status := e.Status
		if status == repository.EmployeeInactive {
			status = disabledStyle.Render(status)
		}
		rows = append(rows, []string{e.FullName(), e.Email, a.departmentName(e.DepartmentID), a.designationTitle(e.DesignationID), hired, status})
	}
	return titleStyle.Render("Employees") + "\n" +
		renderTable(employeeColumns, rows, a.empTable.cursor, a.empTable) +
		a.empTable.footer(page.Total, page.Page, page.Pages) + "\n" +
		a.keys.help(string(viewEmployees), scopeTable)
}

func (a *App) handleEmployeesKey(m tea.KeyMsg) (bool, tea.Cmd) {
	page := a.employeePage()
	if a.empTable.handleKey(m, len(page.Items), page.Pages) {
		return true, nil
	}
	sel := a.selectedEmployee()
	switch a.keys.action(m, string(viewEmployees)) {
	case actNew:
		a.openEmployeeForm(nil)
		return true, nil
	case actEdit:
		if sel != nil {
			a.openEmployeeForm(sel)
		}
		return true, nil
	case actDelete:
		if sel != nil {
			id := sel.ID
			a.askConfirm("Delete "+sel.FullName()+"?", a.actionCmd("employee deleted", func() error {
				return a.services.Directory.DeleteEmployee(a.ctx, id)
			}))
		}
		return true, nil
	case actToggle:
		if sel != nil {
			emp := *sel
			return true, a.actionCmd("status changed", func() error {
				in := service.InputFromEmployee(emp)
				in.Status = repository.EmployeeInactive
				if emp.Status == repository.EmployeeInactive {
					in.Status = repository.EmployeeActive
				}
				_, err := a.services.Directory.UpdateEmployee(a.ctx, emp.ID, in)
				return err
			})
		}
		return true, nil
	case actDocuments:
		if sel != nil {
			a.subjectID = sel.ID
			return true, a.switchTo(viewDocuments)
		}
		return true, nil
	case actAttendance:
		if sel != nil {
			a.subjectID = sel.ID
			return true, a.switchTo(viewAttendance)
		}
		return true, nil
	case actApplyLeave:
		if sel != nil {
			a.openLeaveForm(sel.ID)
		}
		return true, nil
	}
	return false, nil
}

func (a *App) departmentChoices() []choice {
	out := []choice{{Label: "none", Value: ""}}
	for _, d := range a.departments {
		out = append(out, choice{Label: d.Name, Value: d.ID})
	}
	return out
}

func (a *App) designationChoices(deptID string) []choice {
	out := []choice{{Label: "none", Value: ""}}
	for _, d := range a.designations {
		if deptID == "" || d.DepartmentID == deptID {
			out = append(out, choice{Label: d.Title, Value: d.ID})
		}
	}
	return out
}

func (a *App) openEmployeeForm(e *repository.Employee) {
	title := "New employee"
	if e != nil {
		title = "Edit " + e.FullName()
	}
	f := newForm(title, "employee",
		formnav.Input("first", "First name"),
		formnav.Input("last", "Last name"),
		formnav.Input("email", "Email"),
		formnav.Input("phone", "Phone"),
		formnav.Dropdown("department", "Department"),
		formnav.Dropdown("designation", "Designation"),
		formnav.Input("hired", "Hire date"),
		formnav.Select("status", "Status"),
		formnav.Input("salary", "Salary"),
		formnav.Group("actions", formnav.SubmitButton("save", "Save"), formnav.CancelButton("cancel", "Cancel")),
	)
	f.setChoices("status", []choice{
		{Label: "active", Value: repository.EmployeeActive},
		{Label: "inactive", Value: repository.EmployeeInactive},
	})
	f.setChoices("department", a.departmentChoices())
	f.setChoices("designation", a.designationChoices(""))
	f.inputs["hired"].Placeholder = "YYYY-MM-DD"
	f.inputs["salary"].Placeholder = "yearly, e.g. 85000"

	if e != nil {
		in := service.InputFromEmployee(*e)
		f.setValue("first", in.FirstName)
		f.setValue("last", in.LastName)
		f.setValue("email", in.Email)
		f.setValue("phone", in.Phone)
		f.setValue("department", in.DepartmentID)
		f.setChoices("designation", a.designationChoices(in.DepartmentID))
		f.setValue("designation", in.DesignationID)
		f.setValue("hired", in.HireDate)
		f.setValue("status", in.Status)
		f.setValue("salary", in.Salary)
	}
	f.subs = append(f.subs, f.el("department").OnChange(func(el *formnav.Element) {
		f.setChoices("designation", a.designationChoices(el.Value))
	}))
	a.openForm(formEmployee, f)
	if e != nil {
		a.editingID = e.ID
	}
}

func (a *App) saveEmployeeCmd() tea.Cmd {
	f := a.form
	in := service.EmployeeInput{
		FirstName:     f.value("first"),
		LastName:      f.value("last"),
		Email:         f.value("email"),
		Phone:         f.value("phone"),
		DepartmentID:  f.value("department"),
		DesignationID: f.value("designation"),
		HireDate:      f.value("hired"),
		Status:        f.value("status"),
		Salary:        f.value("salary"),
	}
	id := a.editingID
	if id == "" {
		return formCmd(fmt.Sprintf("added %s %s", in.FirstName, in.LastName), func() error {
			_, err := a.services.Directory.CreateEmployee(a.ctx, in)
			return err
		})
	}
	return formCmd("employee saved", func() error {
		_, err := a.services.Directory.UpdateEmployee(a.ctx, id, in)
		return err
	})
}
