package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/session"
)

// activityOf maps terminal input to the activity kinds the idle
// controller counts. Terminals have no touch input.
func activityOf(msg tea.Msg) (session.Activity, bool) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		return session.KeyPress, true
	case tea.MouseMsg:
		if tea.MouseEvent(m).IsWheel() {
			return session.Scroll, true
		}
		switch m.Action {
		case tea.MouseActionMotion:
			return session.PointerMove, true
		case tea.MouseActionPress:
			return session.PointerDown, true
		}
	}
	return "", false
}
