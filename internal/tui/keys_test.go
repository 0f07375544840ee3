package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestScreenKeysShadowTabs(t *testing.T) {
	r := newKeyRegistry(defaultBindings())
	if got := r.action(keyMsg("t"), string(viewAttendance)); got != actToday {
		t.Fatalf("attendance t: got %q", got)
	}
	if got := r.action(keyMsg("e"), string(viewAttendance)); got != tabAction(viewEmployees) {
		t.Fatalf("attendance e: got %q", got)
	}
	if got := r.action(keyMsg("x"), string(viewLeave)); got != actReject {
		t.Fatalf("leave x: got %q", got)
	}
	if got := r.action(keyMsg("x"), string(viewEmployees)); got != actDelete {
		t.Fatalf("employees x: got %q", got)
	}
}

func TestConfirmScope(t *testing.T) {
	r := newKeyRegistry(defaultBindings())
	if got := r.action(keyMsg("Y"), scopeConfirm); got != actConfirmYes {
		t.Fatalf("got %q", got)
	}
	if got := r.action(tea.KeyMsg{Type: tea.KeyEsc}, scopeConfirm); got != actConfirmNo {
		t.Fatalf("got %q", got)
	}
	if got := r.action(keyMsg("q"), scopeConfirm); got != "" {
		t.Fatalf("quit leaked into confirm: %q", got)
	}
}

func TestHelpListsScopedKeysOnce(t *testing.T) {
	r := newKeyRegistry(defaultBindings())
	h := r.help(string(viewEmployees), scopeTable)
	for _, want := range []string{"[c] new", "[x] delete", "[/] search"} {
		if !strings.Contains(h, want) {
			t.Fatalf("help %q missing %q", h, want)
		}
	}
	if strings.Contains(h, "approve") {
		t.Fatalf("help leaked leave keys: %q", h)
	}
	if g := r.help(scopeGlobal); !strings.Contains(g, "[o] sign out") || strings.Count(g, "quit") != 1 {
		t.Fatalf("global help: %q", g)
	}
}
