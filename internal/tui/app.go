package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/jask/staffdesk/internal/clock"
	"github.com/jask/staffdesk/internal/config"
	"github.com/jask/staffdesk/internal/database/repository"
	"github.com/jask/staffdesk/internal/service"
	"github.com/jask/staffdesk/internal/session"
)

// App ties together views.
type App struct {
	ctx      context.Context
	services Services
	cfg      config.Config
	cfgPath  string
	taxPath  string
	clock    clock.Clock
	log      *slog.Logger
	tz       *time.Location

	// events carries messages raised outside the event loop, such as
	// the idle expiry running on a timer goroutine.
	events chan tea.Msg

	keys  *keyRegistry
	bus   *session.Bus
	idle  *session.Controller
	user  *repository.StaffUser
	token string

	state     appState
	modal     modalState
	form      *form
	formKind  formKind
	editingID string
	confirm   confirmState
	status    string
	notice    *session.Notice

	lastActivity time.Time
	lastTouch    time.Time

	overview      service.Overview
	employees     []repository.Employee
	departments   []repository.Department
	designations  []repository.Designation
	leave         []repository.LeaveRequest
	leaveFilter   string
	documents     []repository.Document
	notifications []repository.Notification
	users         []repository.StaffUser
	calendar      service.Calendar
	calDay        time.Time
	subjectID     string // employee shown by the documents and attendance views

	empTable   tableState
	deptTable  tableState
	desigTable tableState
	leaveTable tableState
	notifTable tableState
	docTable   tableState
	deptPane   int // 0 departments, 1 designations
}

type Services struct {
	Auth          *service.AuthService
	Directory     *service.DirectoryService
	Leave         *service.LeaveService
	Attendance    *service.AttendanceService
	Documents     *service.DocumentService
	Notifications *service.NotificationService
	Roster        *service.RosterService
	Dashboard     *service.DashboardService
	Maintenance   *service.MaintenanceService
}

// Options carries the optional collaborators of New.
type Options struct {
	Clock      clock.Clock // clock.Real when nil
	Logger     *slog.Logger
	ConfigPath string // where the settings screen saves
	// TaxonomyPath receives a snapshot of departments and designations
	// after they change; empty disables it.
	TaxonomyPath string
	Bus          *session.Bus
}

type appState string

const (
	viewLogin         appState = "login"
	viewDashboard     appState = "dashboard"
	viewEmployees     appState = "employees"
	viewDepartments   appState = "departments"
	viewLeave         appState = "leave"
	viewAttendance    appState = "attendance"
	viewDocuments     appState = "documents"
	viewNotifications appState = "notifications"
	viewSettings      appState = "settings"
)

type modalState string

const (
	modalNone    modalState = ""
	modalForm    modalState = "form"
	modalConfirm modalState = "confirm"
)

type formKind string

const (
	formLogin        formKind = "login"
	formEmployee     formKind = "employee"
	formDepartment   formKind = "department"
	formDesignation  formKind = "designation"
	formLeaveApply   formKind = "leave"
	formUpload       formKind = "upload"
	formExportDoc    formKind = "exportDocument"
	formBroadcast    formKind = "broadcast"
	formSettings     formKind = "settings"
	formPassword     formKind = "password"
	formRosterImport formKind = "rosterImport"
	formRosterExport formKind = "rosterExport"
	formUser         formKind = "user"
)

type confirmState struct {
	prompt string
	run    tea.Cmd
}

func New(ctx context.Context, cfg config.Config, services Services, opts Options) *App {
	tz, err := cfg.Location()
	if err != nil {
		tz = time.Local
	}
	a := &App{
		ctx:      ctx,
		services: services,
		cfg:      cfg,
		cfgPath:  opts.ConfigPath,
		taxPath:  opts.TaxonomyPath,
		clock:    opts.Clock,
		log:      opts.Logger,
		tz:       tz,
		events:   make(chan tea.Msg, 16),
		keys:     newKeyRegistry(defaultBindings()),
		bus:      opts.Bus,
	}
	if a.clock == nil {
		a.clock = clock.Real()
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.bus == nil {
		a.bus = session.NewBus()
	}
	size := cfg.UI.PageSize
	a.empTable = newTableState(size, "name", "email", "department", "hired", "status")
	a.deptTable = newTableState(size, "name", "employees")
	a.desigTable = newTableState(size, "title")
	a.leaveTable = newTableState(size, "start", "employee", "kind", "status")
	a.notifTable = newTableState(size)
	a.docTable = newTableState(size, "uploaded", "name", "size")
	a.leaveFilter = repository.LeavePending
	a.showLogin()
	return a
}

func (a *App) Init() tea.Cmd {
	return a.waitEvent()
}

// waitEvent delivers the next message from a.events into the loop.
func (a *App) waitEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case m := <-a.events:
			return eventMsg{m}
		case <-a.ctx.Done():
			return nil
		}
	}
}

// dispatch hands msg to the event loop from any goroutine.
func (a *App) dispatch(msg tea.Msg) {
	select {
	case a.events <- msg:
	case <-a.ctx.Done():
	}
}

// Close tears down the idle controller. Call it after the program exits.
func (a *App) Close() {
	if a.idle != nil {
		a.idle.Unmount()
		a.idle = nil
	}
	a.form.close()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if act, ok := activityOf(msg); ok {
		a.lastActivity = a.clock.Now()
		a.bus.Publish(act)
	}

	switch m := msg.(type) {
	case eventMsg:
		_, cmd := a.Update(m.msg)
		return a, tea.Batch(cmd, a.waitEvent())
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.state == viewLogin {
			return a.handleLoginKey(m)
		}
		switch a.modal {
		case modalForm:
			return a.handleFormKey(m)
		case modalConfirm:
			return a.handleConfirmKey(m)
		}
		return a.handleKey(m)
	case tea.MouseMsg:
		return a, nil
	case signedInMsg:
		return a, a.signedIn(m)
	case clearCacheMsg:
		a.clearCache()
	case noticeMsg:
		n := session.Notice(m)
		a.notice = &n
	case expiredMsg:
		a.signedOut()
	case signedOutMsg:
		a.signedOut()
		a.notice = &session.Notice{Level: session.LevelInfo, Text: "Signed out."}
	case sessionGoneMsg:
		return a, a.expireNow()
	case tickMsg:
		return a, a.onTick()
	case overviewMsg:
		a.overview = service.Overview(m)
	case employeesMsg:
		a.employees = []repository.Employee(m)
	case departmentsMsg:
		a.departments = m.departments
		a.designations = m.designations
	case leaveMsg:
		a.leave = []repository.LeaveRequest(m)
	case documentsMsg:
		a.documents = []repository.Document(m)
	case notificationsMsg:
		a.notifications = []repository.Notification(m)
	case calendarMsg:
		a.calendar = service.Calendar(m)
	case usersMsg:
		a.users = []repository.StaffUser(m)
	case settingsSavedMsg:
		a.closeForm()
		a.status = "settings saved"
		a.applySettings(m.cfg)
		return a, a.reload()
	case formErrMsg:
		if a.form != nil {
			a.form.showError(m.err)
			return a, nil
		}
		a.status = "error: " + m.err.Error()
	case formDoneMsg:
		a.closeForm()
		a.status = m.status
		return a, a.reload()
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) View() string {
	if a.state == viewLogin {
		return a.renderLogin()
	}
	var body string
	switch a.state {
	case viewEmployees:
		body = a.renderEmployees()
	case viewDepartments:
		body = a.renderDepartments()
	case viewLeave:
		body = a.renderLeave()
	case viewAttendance:
		body = a.renderAttendance()
	case viewDocuments:
		body = a.renderDocuments()
	case viewNotifications:
		body = a.renderNotifications()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderDashboard()
	}
	switch a.modal {
	case modalForm:
		body += "\n\n" + overlayStyle.Render(a.form.View())
	case modalConfirm:
		body += "\n\n" + overlayStyle.Render(titleStyle.Render(a.confirm.prompt)+"\n"+a.keys.help(scopeConfirm))
	}
	out := a.renderTabs() + "\n\n" + body
	if a.status != "" {
		out += "\n" + a.renderStatus()
	}
	return out + "\n" + a.renderSessionLine()
}

var tabs = []struct {
	key   string
	label string
	state appState
}{
	{"d", "Dashboard", viewDashboard},
	{"e", "Employees", viewEmployees},
	{"g", "Departments", viewDepartments},
	{"l", "Leave", viewLeave},
	{"a", "Attendance", viewAttendance},
	{"u", "Documents", viewDocuments},
	{"n", "Notifications", viewNotifications},
	{"p", "Settings", viewSettings},
}

func (a *App) renderTabs() string {
	var parts []string
	for _, t := range tabs {
		label := "[" + t.key + "] " + t.label
		if t.state == viewNotifications && a.overview.Unread > 0 {
			label += fmt.Sprintf(" (%d)", a.overview.Unread)
		}
		if a.state == t.state {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return strings.Join(parts, "")
}

func (a *App) renderStatus() string {
	if strings.HasPrefix(a.status, "error:") {
		return errorStyle.Render(a.status)
	}
	return okStyle.Render(a.status)
}

func (a *App) renderSessionLine() string {
	if a.user == nil {
		return ""
	}
	line := fmt.Sprintf("signed in as %s (%s)", a.user.Username, a.user.Role)
	if a.idle != nil {
		if d, ok := a.idle.Deadline(); ok {
			left := a.idle.Remaining().Round(time.Second)
			text := fmt.Sprintf(" · idle logout in %s (%s)", left, humanize.Time(d))
			if left <= 30*time.Second {
				line += warnStyle.Render(text)
			} else {
				line += text
			}
		}
	}
	return helpStyle.Render(line) + "  " + a.keys.help(scopeGlobal)
}

// handleKey runs the global keys when no modal is open.
func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if handled, cmd := a.handleViewKey(m); handled {
		return a, cmd
	}
	switch act := a.keys.action(m, string(a.state)); act {
	case actQuit:
		return a, tea.Quit
	case actSignOut:
		return a, a.signOutCmd()
	case actDismiss:
		a.status = ""
	default:
		for _, t := range tabs {
			if act == tabAction(t.state) {
				return a, a.switchTo(t.state)
			}
		}
	}
	return a, nil
}

// handleViewKey gives the current screen the first look at a key.
func (a *App) handleViewKey(m tea.KeyMsg) (bool, tea.Cmd) {
	switch a.state {
	case viewEmployees:
		return a.handleEmployeesKey(m)
	case viewDepartments:
		return a.handleDepartmentsKey(m)
	case viewLeave:
		return a.handleLeaveKey(m)
	case viewAttendance:
		return a.handleAttendanceKey(m)
	case viewDocuments:
		return a.handleDocumentsKey(m)
	case viewNotifications:
		return a.handleNotificationsKey(m)
	case viewSettings:
		return a.handleSettingsKey(m)
	case viewDashboard:
		return a.handleDashboardKey(m)
	}
	return false, nil
}

func (a *App) switchTo(s appState) tea.Cmd {
	a.state = s
	a.status = ""
	return a.reload()
}

// reload fetches what the current screen shows.
func (a *App) reload() tea.Cmd {
	if a.user == nil {
		return nil
	}
	cmds := []tea.Cmd{a.loadOverview()}
	switch a.state {
	case viewEmployees:
		cmds = append(cmds, a.loadEmployees(), a.loadDepartments())
	case viewDepartments:
		cmds = append(cmds, a.loadDepartments(), a.loadEmployees())
	case viewLeave:
		cmds = append(cmds, a.loadLeave(), a.loadEmployees())
	case viewAttendance:
		cmds = append(cmds, a.loadCalendar(), a.loadEmployees())
	case viewDocuments:
		cmds = append(cmds, a.loadDocuments(), a.loadEmployees())
	case viewNotifications:
		cmds = append(cmds, a.loadNotifications())
	case viewSettings:
		cmds = append(cmds, a.loadUsers())
	case viewDashboard:
		cmds = append(cmds, a.loadEmployees())
	}
	return tea.Batch(cmds...)
}

func (a *App) openForm(kind formKind, f *form) {
	a.form.close()
	a.form = f
	a.formKind = kind
	a.modal = modalForm
}

func (a *App) closeForm() {
	a.form.close()
	a.form = nil
	a.formKind = ""
	a.editingID = ""
	if a.modal == modalForm {
		a.modal = modalNone
	}
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, cmd := a.form.handleKey(m)
	switch action {
	case formCancel:
		a.closeForm()
		return a, nil
	case formSubmit:
		a.form.showError(nil)
		return a, tea.Batch(cmd, a.submitForm())
	}
	return a, cmd
}

// submitForm turns the open form into its service command.
func (a *App) submitForm() tea.Cmd {
	switch a.formKind {
	case formEmployee:
		return a.saveEmployeeCmd()
	case formDepartment:
		return a.saveDepartmentCmd()
	case formDesignation:
		return a.saveDesignationCmd()
	case formLeaveApply:
		return a.applyLeaveCmd()
	case formUpload:
		return a.uploadCmd()
	case formExportDoc:
		return a.exportDocumentCmd()
	case formBroadcast:
		return a.broadcastCmd()
	case formSettings:
		return a.saveSettingsCmd()
	case formPassword:
		return a.changePasswordCmd()
	case formRosterImport:
		return a.importRosterCmd()
	case formRosterExport:
		return a.exportRosterCmd()
	case formUser:
		return a.createUserCmd()
	}
	return nil
}

func (a *App) askConfirm(prompt string, run tea.Cmd) {
	a.confirm = confirmState{prompt: prompt, run: run}
	a.modal = modalConfirm
}

func (a *App) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.action(m, scopeConfirm) {
	case actConfirmYes:
		run := a.confirm.run
		a.confirm = confirmState{}
		a.modal = modalNone
		return a, run
	case actConfirmNo:
		a.confirm = confirmState{}
		a.modal = modalNone
	}
	return a, nil
}

// formCmd runs fn for the open form: errors stay on the form, success
// closes it with status.
func formCmd(status string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return formErrMsg{err}
		}
		return formDoneMsg{status}
	}
}

// actionCmd runs fn and reports status, then reloads the screen.
func (a *App) actionCmd(status string, fn func() error) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg {
			if err := fn(); err != nil {
				return errMsg{err}
			}
			return statusMsg(status)
		},
		a.reload(),
	)
}

func (a *App) employeeName(id string) string {
	for _, e := range a.employees {
		if e.ID == id {
			return e.FullName()
		}
	}
	return id
}

func (a *App) departmentName(id *string) string {
	if id == nil {
		return ""
	}
	for _, d := range a.departments {
		if d.ID == *id {
			return d.Name
		}
	}
	return ""
}

func (a *App) designationTitle(id *string) string {
	if id == nil {
		return ""
	}
	for _, d := range a.designations {
		if d.ID == *id {
			return d.Title
		}
	}
	return ""
}

func (a *App) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(a.cfg.UI.DateFormat)
}

func (a *App) formatTime(t time.Time) string {
	return t.In(a.tz).Format(a.cfg.UI.DateFormat + " 15:04")
}

// userFacing trims wrapped errors down to what the user can act on.
func userFacing(err error) string {
	var fe *service.FieldError
	switch {
	case errors.As(err, &fe):
		return fe.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return "wrong username or password"
	}
	return err.Error()
}
