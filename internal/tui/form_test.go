package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/staffdesk/internal/formnav"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(f *form, keys ...string) formAction {
	var last formAction
	for _, k := range keys {
		last, _ = f.handleKey(keyMsg(k))
	}
	return last
}

func focusedID(f *form) string {
	if el := f.doc.Focused(); el != nil {
		return el.ID
	}
	return ""
}

func twoFieldForm() *form {
	return newForm("Test", "test",
		formnav.Input("first", "First"),
		formnav.Input("second", "Second"),
		formnav.Group("actions", formnav.SubmitButton("save", "Save"), formnav.CancelButton("cancel", "Cancel")),
	)
}

func TestFormEnterWalksToSubmit(t *testing.T) {
	f := twoFieldForm()
	defer f.close()

	if got := focusedID(f); got != "first" {
		t.Fatalf("initial focus = %q, want first", got)
	}
	press(f, "A", "d", "a")
	if got := f.value("first"); got != "Ada" {
		t.Fatalf("first = %q, want Ada", got)
	}
	if act := press(f, "enter"); act != formNone || focusedID(f) != "second" {
		t.Fatalf("enter: action %v focus %q", act, focusedID(f))
	}
	if act := press(f, "enter"); act != formNone || focusedID(f) != "save" {
		t.Fatalf("enter on last field: action %v focus %q", act, focusedID(f))
	}
	if act := press(f, "enter"); act != formSubmit {
		t.Fatalf("enter on submit = %v, want submit", act)
	}
}

func TestFormEscapeFocusesCancel(t *testing.T) {
	f := twoFieldForm()
	defer f.close()

	press(f, "esc")
	if got := focusedID(f); got != "cancel" {
		t.Fatalf("focus after esc = %q, want cancel", got)
	}
	if act := press(f, "enter"); act != formCancel {
		t.Fatalf("enter on cancel = %v, want cancel", act)
	}
}

func TestFormArrowBoundariesAreStable(t *testing.T) {
	f := twoFieldForm()
	defer f.close()

	press(f, "up", "up", "left")
	if got := focusedID(f); got != "first" {
		t.Fatalf("focus = %q, want first", got)
	}
	press(f, "down", "down", "down", "down", "right")
	if got := focusedID(f); got != "cancel" {
		t.Fatalf("focus = %q, want cancel", got)
	}
}

func TestFormSkipsDisabledFields(t *testing.T) {
	b := formnav.Input("b", "B")
	b.Disabled = true
	f := newForm("Test", "test", formnav.Input("a", "A"), b, formnav.Input("c", "C"))
	defer f.close()

	press(f, "down")
	if got := focusedID(f); got != "c" {
		t.Fatalf("focus = %q, want c", got)
	}
}

func TestFormTabWraps(t *testing.T) {
	f := twoFieldForm()
	defer f.close()

	press(f, "shift+tab")
	if got := focusedID(f); got != "cancel" {
		t.Fatalf("shift+tab from first = %q, want cancel", got)
	}
	press(f, "tab")
	if got := focusedID(f); got != "first" {
		t.Fatalf("tab from cancel = %q, want first", got)
	}
}

func TestFormSelectCyclesWithSpace(t *testing.T) {
	f := newForm("Test", "test", formnav.Select("status", "Status"), formnav.SubmitButton("save", "Save"))
	defer f.close()
	f.setChoices("status", []choice{{"active", "a"}, {"inactive", "i"}})

	if got := f.value("status"); got != "a" {
		t.Fatalf("default = %q, want a", got)
	}
	press(f, " ")
	if got := f.value("status"); got != "i" {
		t.Fatalf("after space = %q, want i", got)
	}
	press(f, " ")
	if got := f.value("status"); got != "a" {
		t.Fatalf("after second space = %q, want a", got)
	}
}

func TestFormDropdownEnterAdvancesSpaceOpens(t *testing.T) {
	f := newForm("Test", "test",
		formnav.Dropdown("dept", "Department"),
		formnav.Input("title", "Title"),
		formnav.SubmitButton("save", "Save"),
	)
	defer f.close()
	f.setChoices("dept", []choice{{"none", ""}, {"Sales", "s"}, {"Support", "p"}})

	press(f, "enter")
	if got := focusedID(f); got != "title" {
		t.Fatalf("enter on dropdown moved focus to %q, want title", got)
	}
	if f.overlay != overlayNone {
		t.Fatal("enter must not open the dropdown")
	}
	press(f, "up", " ")
	if f.overlay != overlayDropdown {
		t.Fatal("space should open the dropdown")
	}
	press(f, "down", "down", "enter")
	if f.overlay != overlayNone {
		t.Fatal("choosing closes the dropdown")
	}
	if got := f.value("dept"); got != "p" {
		t.Fatalf("dept = %q, want p", got)
	}
	if got := focusedID(f); got != "dept" {
		t.Fatalf("focus = %q, want dept", got)
	}
}

func TestFormFilePickerMovesToSubmitOnce(t *testing.T) {
	f := newForm("Upload", "upload",
		formnav.FileInput("file", "File"),
		formnav.Input("note", "Note"),
		formnav.Group("actions", formnav.SubmitButton("save", "Upload"), formnav.CancelButton("cancel", "Cancel")),
	)
	defer f.close()

	press(f, "enter")
	if f.overlay != overlayFile {
		t.Fatal("enter on a file field opens the picker")
	}
	if got := focusedID(f); got != "file" {
		t.Fatalf("picker must not move focus, got %q", got)
	}
	press(f, "/", "t", "m", "p", "/", "a", ".", "p", "d", "f", "enter")
	if got := f.value("file"); got != "/tmp/a.pdf" {
		t.Fatalf("file = %q", got)
	}
	if got := focusedID(f); got != "save" {
		t.Fatalf("focus after choosing = %q, want save", got)
	}

	press(f, "up")
	f.el("file").SetValue("/tmp/b.pdf")
	if got := focusedID(f); got != "note" {
		t.Fatalf("second change moved focus to %q", got)
	}
}

func TestFormPickerEscapeKeepsValue(t *testing.T) {
	f := newForm("Upload", "upload", formnav.FileInput("file", "File"), formnav.SubmitButton("save", "Upload"))
	defer f.close()

	press(f, "enter", "x", "esc")
	if f.overlay != overlayNone || f.value("file") != "" {
		t.Fatalf("overlay %v value %q after esc", f.overlay, f.value("file"))
	}
}

func TestFormCtrlSSubmitsFromAnywhere(t *testing.T) {
	f := twoFieldForm()
	defer f.close()
	if act := press(f, "ctrl+s"); act != formSubmit {
		t.Fatalf("ctrl+s = %v", act)
	}
}

func TestFormCloseDetachesController(t *testing.T) {
	f := twoFieldForm()
	f.close()
	if n := f.doc.KeyListeners(); n != 0 {
		t.Fatalf("key listeners after close = %d", n)
	}
	f.doc.PressKey(formnav.KeyDown)
	if got := focusedID(f); got != "first" {
		t.Fatalf("stale key moved focus to %q", got)
	}
}
