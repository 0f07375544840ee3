package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/config"
	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/formnav"
	"github.com/jask/staffdesk/internal/service"
)

func (a *App) isAdmin() bool {
	return a.user != nil && a.user.Role == repository.RoleAdmin
}

func (a *App) renderSettings() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings") + "\n")
	rows := [][2]string{
		{"Idle timeout", a.cfg.Session.Timeout.String()},
		{"Activity", strings.Join(a.cfg.Session.ActivityEvents, ", ")},
		{"Session lifetime", a.cfg.Session.TTL.String()},
		{"Date format", a.cfg.UI.DateFormat},
		{"Time zone", a.tz.String()},
		{"Page size", strconv.Itoa(a.cfg.UI.PageSize)},
		{"Database", a.cfg.Database.Path},
		{"Log file", a.cfg.Log.Path + " (" + a.cfg.Log.Level + ")"},
	}
	for _, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %-18s", r[0])) + r[1] + "\n")
	}
	b.WriteString("\n" + headerStyle.Render("Staff accounts") + "\n")
	for _, u := range a.users {
		fmt.Fprintf(&b, "  %-20s %-6s since %s\n", u.Username, u.Role, a.formatDate(u.CreatedAt))
	}
	b.WriteString("\n" + a.keys.help(string(viewSettings)))
	return b.String()
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (bool, tea.Cmd) {
	switch a.keys.action(m, string(viewSettings)) {
	case actEdit:
		a.openSettingsForm()
	case actPassword:
		a.openForm(formPassword, newForm("Change password", "password",
			formnav.Password("current", "Current"),
			formnav.Password("next", "New"),
			formnav.Password("confirm", "Repeat new"),
			formnav.Group("actions", formnav.SubmitButton("save", "Change"), formnav.CancelButton("cancel", "Cancel")),
		))
	case actNewUser:
		if !a.isAdmin() {
			return true, func() tea.Msg { return statusMsg("only admins can add accounts") }
		}
		f := newForm("New staff account", "user",
			formnav.Input("username", "Username"),
			formnav.Password("password", "Password"),
			formnav.Select("role", "Role"),
			formnav.Group("actions", formnav.SubmitButton("save", "Create"), formnav.CancelButton("cancel", "Cancel")),
		)
		f.setChoices("role", []choice{{Label: "staff", Value: repository.RoleStaff}, {Label: "admin", Value: repository.RoleAdmin}})
		a.openForm(formUser, f)
	case actReset:
		if !a.isAdmin() {
			return true, func() tea.Msg { return statusMsg("only admins can reset data") }
		}
		a.askConfirm("Erase all employees, leave, documents and attendance?", a.actionCmd("data reset", func() error {
			if err := a.services.Maintenance.Reset(a.ctx, false); err != nil {
				return err
			}
			return a.restoreTaxonomy()
		}))
	default:
		return false, nil
	}
	return true, nil
}

func (a *App) openSettingsForm() {
	f := newForm("Edit settings", "settings",
		formnav.Input("timeout", "Idle timeout"),
		formnav.Input("activity", "Activity"),
		formnav.Input("pagesize", "Page size"),
		formnav.Input("dateformat", "Date format"),
		formnav.Input("timezone", "Time zone"),
		formnav.Group("actions", formnav.SubmitButton("save", "Save"), formnav.CancelButton("cancel", "Cancel")),
	)
	f.setValue("timeout", a.cfg.Session.Timeout.String())
	f.setValue("activity", strings.Join(a.cfg.Session.ActivityEvents, ", "))
	f.setValue("pagesize", strconv.Itoa(a.cfg.UI.PageSize))
	f.setValue("dateformat", a.cfg.UI.DateFormat)
	f.setValue("timezone", a.cfg.UI.Timezone)
	f.inputs["timeout"].Placeholder = "5m"
	f.inputs["timezone"].Placeholder = "Local"
	a.openForm(formSettings, f)
}

// settingsFromForm copies cfg with the edited values.
func settingsFromForm(cfg config.Config, f *form) (config.Config, error) {
	timeout, err := time.ParseDuration(f.value("timeout"))
	if err != nil || timeout <= 0 {
		return cfg, &service.FieldError{Field: "timeout", Msg: "use a duration like 5m or 90s"}
	}
	size, err := strconv.Atoi(f.value("pagesize"))
	if err != nil || size <= 0 {
		return cfg, &service.FieldError{Field: "page size", Msg: "must be a positive number"}
	}
	cfg.Session.Timeout = timeout
	cfg.Session.ActivityEvents = strings.FieldsFunc(f.value("activity"), func(r rune) bool {
		return r == ',' || r == ' '
	})
	cfg.UI.PageSize = size
	if v := f.value("dateformat"); v != "" {
		cfg.UI.DateFormat = v
	}
	cfg.UI.Timezone = f.value("timezone")
	return cfg, nil
}

func (a *App) saveSettingsCmd() tea.Cmd {
	cfg, err := settingsFromForm(a.cfg, a.form)
	if err != nil {
		return func() tea.Msg { return formErrMsg{err} }
	}
	path := a.cfgPath
	return func() tea.Msg {
		if err := config.Save(path, cfg); err != nil {
			return formErrMsg{err}
		}
		return settingsSavedMsg{cfg: cfg}
	}
}

// applySettings switches the running app over to cfg.
func (a *App) applySettings(cfg config.Config) {
	if err := cfg.Normalize(); err != nil {
		a.status = "error: " + err.Error()
		return
	}
	a.cfg = cfg
	if tz, err := cfg.Location(); err == nil {
		a.tz = tz
	}
	for _, t := range []*tableState{&a.empTable, &a.deptTable, &a.desigTable, &a.leaveTable, &a.notifTable, &a.docTable} {
		t.query.PageSize = cfg.UI.PageSize
		t.query.Page = 1
		t.cursor = 0
	}
	if a.user != nil {
		a.mountIdle()
	}
	a.log.Info("settings saved", "timeout", cfg.Session.Timeout, "activity", cfg.Session.ActivityEvents)
}

func (a *App) changePasswordCmd() tea.Cmd {
	current, next, again := a.form.value("current"), a.form.value("next"), a.form.value("confirm")
	userID := a.user.ID
	return func() tea.Msg {
		if next != again {
			return formErrMsg{&service.FieldError{Field: "password", Msg: "the new passwords differ"}}
		}
		if err := a.services.Auth.ChangePassword(a.ctx, userID, current, next); err != nil {
			return formErrMsg{fmt.Errorf("%s", userFacing(err))}
		}
		return formDoneMsg{"password changed"}
	}
}

func (a *App) createUserCmd() tea.Cmd {
	username, password, role := a.form.value("username"), a.form.value("password"), a.form.value("role")
	return formCmd("account "+username+" created", func() error {
		_, err := a.services.Auth.CreateUser(a.ctx, username, password, role)
		return err
	})
}

func (a *App) loadUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := a.services.Auth.ListUsers(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return usersMsg(users)
	}
}
