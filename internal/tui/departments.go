package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/formnav"
	"github.com/jask/staffdesk/internal/listing"
	"github.com/jask/staffdesk/internal/prefs"
)

var (
	departmentColumns = []column{
		{Title: "Department", Width: 20, SortKey: "name"},
		{Title: "Description", Width: 28},
		{Title: "Staff", Width: 6, SortKey: "employees"},
	}
	designationColumns = []column{
		{Title: "Designation", Width: 24, SortKey: "title"},
		{Title: "Department", Width: 20},
	}
)

func (a *App) headcount() map[string]int {
	out := map[string]int{}
	for _, e := range a.employees {
		if e.DepartmentID != nil {
			out[*e.DepartmentID]++
		}
	}
	return out
}

func (a *App) departmentPage() listing.Page[repository.Department] {
	counts := a.headcount()
	return listing.Apply(a.departments, listing.Columns[repository.Department]{
		Text: func(d repository.Department) []string { return []string{d.Name, d.Description} },
		Sorters: map[string]func(x, y repository.Department) int{
			"name":      listing.ByString(func(d repository.Department) string { return d.Name }),
			"employees": listing.ByOrdered(func(d repository.Department) int { return counts[d.ID] }),
		},
	}, a.deptTable.query)
}

func (a *App) designationPage() listing.Page[repository.Designation] {
	return listing.Apply(a.designations, listing.Columns[repository.Designation]{
		Text: func(d repository.Designation) []string {
			return []string{d.Title, a.departmentName(&d.DepartmentID)}
		},
		Sorters: map[string]func(x, y repository.Designation) int{
			"title": listing.ByString(func(d repository.Designation) string { return d.Title }),
		},
	}, a.desigTable.query)
}

func (a *App) renderDepartments() string {
	counts := a.headcount()
	depts := a.departmentPage()
	a.deptTable.clamp(len(depts.Items))
	var deptRows [][]string
	for _, d := range depts.Items {
		deptRows = append(deptRows, []string{d.Name, d.Description, strconv.Itoa(counts[d.ID])})
	}
	titles := a.designationPage()
	a.desigTable.clamp(len(titles.Items))
	var titleRows [][]string
	for _, d := range titles.Items {
		titleRows = append(titleRows, []string{d.Title, a.departmentName(&d.DepartmentID)})
	}

	deptCursor, titleCursor := a.deptTable.cursor, -1
	if a.deptPane == 1 {
		deptCursor, titleCursor = -1, a.desigTable.cursor
	}
	left := headerStyle.Render("Departments") + "\n" +
		renderTable(departmentColumns, deptRows, deptCursor, a.deptTable) +
		a.deptTable.footer(depts.Total, depts.Page, depts.Pages)
	right := headerStyle.Render("Designations") + "\n" +
		renderTable(designationColumns, titleRows, titleCursor, a.desigTable) +
		a.desigTable.footer(titles.Total, titles.Page, titles.Pages)
	return titleStyle.Render("Departments & designations") + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right) + "\n" +
		a.keys.help(string(viewDepartments), scopeTable)
}

func (a *App) handleDepartmentsKey(m tea.KeyMsg) (bool, tea.Cmd) {
	if a.keys.action(m, string(viewDepartments)) == actSwitchPane {
		a.deptPane = 1 - a.deptPane
		return true, nil
	}
	if a.deptPane == 1 {
		return a.handleDesignationsKey(m)
	}
	page := a.departmentPage()
	if a.deptTable.handleKey(m, len(page.Items), page.Pages) {
		return true, nil
	}
	var sel *repository.Department
	if len(page.Items) > 0 {
		sel = &page.Items[a.deptTable.cursor]
	}
	switch a.keys.action(m, string(viewDepartments)) {
	case actNew:
		a.openDepartmentForm(nil)
	case actEdit:
		if sel != nil {
			a.openDepartmentForm(sel)
		}
	case actDelete:
		if sel != nil {
			id := sel.ID
			a.askConfirm("Delete department "+sel.Name+" and its designations?", a.actionCmd("department deleted", func() error {
				if err := a.services.Directory.DeleteDepartment(a.ctx, id); err != nil {
					return err
				}
				a.keepTaxonomy()
				return nil
			}))
		}
	default:
		return false, nil
	}
	return true, nil
}

func (a *App) handleDesignationsKey(m tea.KeyMsg) (bool, tea.Cmd) {
	page := a.designationPage()
	if a.desigTable.handleKey(m, len(page.Items), page.Pages) {
		return true, nil
	}
	var sel *repository.Designation
	if len(page.Items) > 0 {
		sel = &page.Items[a.desigTable.cursor]
	}
	switch a.keys.action(m, string(viewDepartments)) {
	case actNew:
		a.openDesignationForm(nil)
	case actEdit:
		if sel != nil {
			a.openDesignationForm(sel)
		}
	case actDelete:
		if sel != nil {
			id := sel.ID
			a.askConfirm("Delete designation "+sel.Title+"?", a.actionCmd("designation deleted", func() error {
				if err := a.services.Directory.DeleteDesignation(a.ctx, id); err != nil {
					return err
				}
				a.keepTaxonomy()
				return nil
			}))
		}
	default:
		return false, nil
	}
	return true, nil
}

func (a *App) openDepartmentForm(d *repository.Department) {
	title := "New department"
	if d != nil {
		title = "Edit " + d.Name
	}
	f := newForm(title, "department",
		formnav.Input("name", "Name"),
		formnav.Input("description", "Description"),
		formnav.Group("actions", formnav.SubmitButton("save", "Save"), formnav.CancelButton("cancel", "Cancel")),
	)
	if d != nil {
		f.setValue("name", d.Name)
		f.setValue("description", d.Description)
	}
	a.openForm(formDepartment, f)
	if d != nil {
		a.editingID = d.ID
	}
}

func (a *App) openDesignationForm(d *repository.Designation) {
	title := "New designation"
	if d != nil {
		title = "Edit " + d.Title
	}
	f := newForm(title, "designation",
		formnav.Dropdown("department", "Department"),
		formnav.Input("title", "Title"),
		formnav.Group("actions", formnav.SubmitButton("save", "Save"), formnav.CancelButton("cancel", "Cancel")),
	)
	f.setChoices("department", a.departmentChoices()[1:])
	switch {
	case d != nil:
		f.setValue("department", d.DepartmentID)
		f.setValue("title", d.Title)
	case a.deptPane == 1 && len(a.departments) > 0:
		// Preselect the department under the cursor of the other list.
		if page := a.departmentPage(); len(page.Items) > 0 {
			f.setValue("department", page.Items[a.deptTable.cursor].ID)
		}
	}
	a.openForm(formDesignation, f)
	if d != nil {
		a.editingID = d.ID
	}
}

func (a *App) saveDepartmentCmd() tea.Cmd {
	name, desc := a.form.value("name"), a.form.value("description")
	id := a.editingID
	return formCmd("department saved", func() error {
		var err error
		if id == "" {
			_, err = a.services.Directory.CreateDepartment(a.ctx, name, desc)
		} else {
			_, err = a.services.Directory.UpdateDepartment(a.ctx, id, name, desc)
		}
		if err == nil {
			a.keepTaxonomy()
		}
		return err
	})
}

func (a *App) saveDesignationCmd() tea.Cmd {
	dept, title := a.form.value("department"), a.form.value("title")
	id := a.editingID
	return formCmd("designation saved", func() error {
		var err error
		if id == "" {
			_, err = a.services.Directory.CreateDesignation(a.ctx, dept, title)
		} else {
			_, err = a.services.Directory.UpdateDesignation(a.ctx, id, dept, title)
		}
		if err == nil {
			a.keepTaxonomy()
		}
		return err
	})
}

// keepTaxonomy refreshes the taxonomy snapshot. A failed write is logged
// and does not undo the edit.
func (a *App) keepTaxonomy() {
	if a.taxPath == "" {
		return
	}
	if err := prefs.Save(a.ctx, a.services.Directory, a.taxPath); err != nil {
		a.log.Warn("save taxonomy snapshot", "path", a.taxPath, "err", err)
	}
}

// restoreTaxonomy brings back snapshot departments the database lacks.
func (a *App) restoreTaxonomy() error {
	if a.taxPath == "" {
		return nil
	}
	res, err := prefs.Restore(a.ctx, a.services.Directory, a.taxPath)
	if err != nil {
		return err
	}
	if res.Departments+res.Designations > 0 {
		a.log.Info("taxonomy restored", "departments", res.Departments, "designations", res.Designations)
	}
	return nil
}
