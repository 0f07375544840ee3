package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/session"
)

func TestActivityOf(t *testing.T) {
	cases := []struct {
		name string
		msg  tea.Msg
		want session.Activity
		ok   bool
	}{
		{"key", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, session.KeyPress, true},
		{"motion", tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonNone}, session.PointerMove, true},
		{"press", tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, session.PointerDown, true},
		{"wheel", tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}, session.Scroll, true},
		{"release", tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, "", false},
		{"tick", tickMsg{}, "", false},
		{"resize", tea.WindowSizeMsg{Width: 80, Height: 24}, "", false},
	}
	for _, c := range cases {
		got, ok := activityOf(c.msg)
		if got != c.want || ok != c.ok {
			t.Fatalf("%s: activityOf = %q, %v; want %q, %v", c.name, got, ok, c.want, c.ok)
		}
	}
}
