package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type action string

const (
	actQuit         action = "quit"
	actSignOut      action = "sign-out"
	actDismiss      action = "dismiss"
	actNew          action = "new"
	actEdit         action = "edit"
	actDelete       action = "delete"
	actToggle       action = "toggle-status"
	actDocuments    action = "documents"
	actAttendance   action = "attendance"
	actApplyLeave   action = "apply-leave"
	actApprove      action = "approve"
	actReject       action = "reject"
	actFilter       action = "filter"
	actImport       action = "import"
	actExport       action = "export"
	actSaveCopy     action = "save-copy"
	actMarkRead     action = "mark-read"
	actMarkAllRead  action = "mark-all-read"
	actPassword     action = "password"
	actNewUser      action = "new-user"
	actReset        action = "reset"
	actSwitchPane   action = "switch-pane"
	actPrevSubject  action = "prev-employee"
	actNextSubject  action = "next-employee"
	actDayLeft      action = "day-left"
	actDayRight     action = "day-right"
	actWeekUp       action = "week-up"
	actWeekDown     action = "week-down"
	actPrevMonth    action = "prev-month"
	actNextMonth    action = "next-month"
	actToday        action = "today"
	actCycleStatus  action = "cycle-status"
	actClearStatus  action = "clear-status"
	actConfirmYes   action = "yes"
	actConfirmNo    action = "no"
	actTableSearch  action = "search"
	actTableSort    action = "sort"
	actTableReverse action = "reverse"
	actTablePage    action = "page"
)

// Scopes beyond the screens themselves.
const (
	scopeGlobal  = "global"
	scopeConfirm = "confirm"
	scopeTable   = "table" // help only; tableState reads its own keys
)

// binding is one shortcut. A binding without scopes applies everywhere.
type binding struct {
	key.Binding
	action action
	scopes []string
}

func bind(act action, help string, keys []string, scopes ...string) binding {
	return binding{
		Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help)),
		action:  act,
		scopes:  scopes,
	}
}

type keyRegistry struct {
	bindings []binding
}

func newKeyRegistry(bindings []binding) *keyRegistry {
	return &keyRegistry{bindings: slices.Clone(bindings)}
}

func (r *keyRegistry) forScope(scope string) []binding {
	out := make([]binding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.scopes) {
			out = append(out, b)
		}
	}
	return out
}

// action returns what msg means in scope, or "" when nothing is bound.
func (r *keyRegistry) action(msg tea.KeyMsg, scope string) action {
	for _, b := range r.bindings {
		if b.Enabled() && scopeMatch(scope, b.scopes) && key.Matches(msg, b.Binding) {
			return b.action
		}
	}
	return ""
}

// help renders the shortcuts of the given scopes, skipping duplicates
// and bindings without help text.
func (r *keyRegistry) help(scopes ...string) string {
	var parts []string
	seen := map[action]bool{}
	for _, scope := range scopes {
		for _, b := range r.bindings {
			if len(b.scopes) == 0 || !slices.Contains(b.scopes, scope) || seen[b.action] {
				continue
			}
			h := b.Help()
			if h.Desc == "" {
				continue
			}
			seen[b.action] = true
			parts = append(parts, "["+h.Key+"] "+h.Desc)
		}
	}
	return helpStyle.Render(strings.Join(parts, "  "))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	return slices.Contains(scopes, scope)
}

func tabAction(s appState) action { return action("tab:" + string(s)) }

func defaultBindings() []binding {
	emp, dept, leave, att := string(viewEmployees), string(viewDepartments), string(viewLeave), string(viewAttendance)
	docs, notif, set, dash := string(viewDocuments), string(viewNotifications), string(viewSettings), string(viewDashboard)

	out := []binding{
		// Screen keys come first so they shadow the global ones.
		bind(actNew, "new", []string{"c"}, emp, dept),
		bind(actEdit, "edit", []string{"enter"}, emp, dept),
		bind(actToggle, "toggle status", []string{"t"}, emp),
		bind(actDelete, "delete", []string{"x"}, emp, dept, docs),
		bind(actDocuments, "documents", []string{"D"}, emp),
		bind(actAttendance, "attendance", []string{"A"}, emp),
		bind(actApplyLeave, "leave", []string{"L"}, emp),
		bind(actSwitchPane, "switch list", []string{"tab"}, dept),

		bind(actApprove, "approve", []string{"y"}, leave),
		bind(actReject, "reject", []string{"x"}, leave),
		bind(actApplyLeave, "apply", []string{"c"}, leave),
		bind(actFilter, "filter", []string{"f"}, leave),

		bind(actPrevSubject, "prev employee", []string{","}, att, docs),
		bind(actNextSubject, "next employee", []string{"."}, att, docs),
		bind(actDayLeft, "day", []string{"left"}, att),
		bind(actDayRight, "", []string{"right"}, att),
		bind(actWeekUp, "week", []string{"up", "k"}, att),
		bind(actWeekDown, "", []string{"down", "j"}, att),
		bind(actPrevMonth, "month", []string{"["}, att),
		bind(actNextMonth, "", []string{"]"}, att),
		bind(actToday, "today", []string{"t"}, att),
		bind(actCycleStatus, "cycle status", []string{" "}, att),
		bind(actClearStatus, "clear", []string{"backspace", "delete"}, att),

		bind(actNew, "upload", []string{"c"}, docs),
		bind(actSaveCopy, "save copy", []string{"w"}, docs),

		bind(actMarkRead, "mark read", []string{"enter"}, notif),
		bind(actMarkAllRead, "mark all read", []string{"m"}, notif),
		bind(actNew, "broadcast", []string{"c"}, notif),

		bind(actEdit, "edit settings", []string{"c", "enter"}, set),
		bind(actPassword, "change password", []string{"P"}, set),
		bind(actNewUser, "new account", []string{"N"}, set),
		bind(actReset, "reset data", []string{"R"}, set),

		bind(actImport, "import roster", []string{"i"}, dash),
		bind(actExport, "export roster", []string{"x"}, dash),

		bind(actConfirmYes, "yes", []string{"y", "Y"}, scopeConfirm),
		bind(actConfirmNo, "no", []string{"n", "N", "esc"}, scopeConfirm),

		bind(actTableSearch, "search", []string{"/"}, scopeTable),
		bind(actTableSort, "sort", []string{"s"}, scopeTable),
		bind(actTableReverse, "reverse", []string{"S"}, scopeTable),
		bind(actTablePage, "page", []string{"[", "]"}, scopeTable),

		bind(actSignOut, "sign out", []string{"o"}, scopeGlobal, dash, emp, dept, leave, att, docs, notif, set),
		bind(actQuit, "quit", []string{"q"}, scopeGlobal, dash, emp, dept, leave, att, docs, notif, set),
		bind(actDismiss, "", []string{"esc"}, scopeGlobal, dash, emp, dept, leave, att, docs, notif, set),
	}
	for _, t := range tabs {
		out = append(out, binding{
			Binding: key.NewBinding(key.WithKeys(t.key), key.WithHelp(t.key, t.label)),
			action:  tabAction(t.state),
		})
	}
	return out
}
