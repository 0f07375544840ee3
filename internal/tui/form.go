package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/staffdesk/internal/formnav"
)

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// choice is one option of a select or dropdown: Label is shown, Value is
// stored on the element.
type choice struct {
	Label string
	Value string
}

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayDropdown
	overlayFile
)

// form hosts a formnav document: textinputs for text fields, a dropdown
// list overlay, and a path prompt standing in for the file chooser.
type form struct {
	title string
	doc   *formnav.Document
	root  *formnav.Element
	nav   *formnav.Controller
	subs  []*formnav.Subscription

	inputs  map[string]*textinput.Model
	choices map[string][]choice
	errText string

	overlay       overlayKind
	overlayTarget *formnav.Element
	overlayCursor int
	overlayInput  textinput.Model
}

func newForm(title, id string, children ...*formnav.Element) *form {
	f := &form{
		title:   title,
		doc:     formnav.NewDocument(),
		root:    formnav.Form(id, children...),
		inputs:  map[string]*textinput.Model{},
		choices: map[string][]choice{},
	}
	f.doc.Root().Append(f.root)
	f.root.Walk(func(el *formnav.Element) bool {
		if el.Kind == formnav.KindInput && !el.IsFileInput() || el.Kind == formnav.KindTextarea {
			ti := textinput.New()
			ti.Prompt = ""
			ti.CharLimit = 256
			ti.Width = 40
			ti.SetValue(el.Value)
			if el.Type == formnav.TypePassword {
				ti.EchoMode = textinput.EchoPassword
				ti.EchoCharacter = '•'
			}
			f.inputs[el.ID] = &ti
		}
		return true
	})
	f.nav = formnav.Mount(f.doc, formnav.WithRoot(f.root))
	f.subs = append(f.subs, f.doc.OnFocus(f.syncFocus))
	f.doc.SetFilePicker(f.openFilePicker)
	if set := formnav.Focusables(f.root); len(set) > 0 {
		f.doc.Focus(set[0])
	}
	return f
}

// close releases the controller and listeners.
func (f *form) close() {
	if f == nil {
		return
	}
	f.nav.Unmount()
	for _, s := range f.subs {
		s.Unsubscribe()
	}
	f.subs = nil
}

func (f *form) syncFocus(el *formnav.Element) {
	for id, ti := range f.inputs {
		if id == el.ID {
			ti.Focus()
		} else {
			ti.Blur()
		}
	}
}

func (f *form) el(id string) *formnav.Element { return f.root.Find(id) }

// setChoices installs the options of a select or dropdown. The current
// value is kept when still offered.
func (f *form) setChoices(id string, opts []choice) {
	el := f.el(id)
	if el == nil {
		return
	}
	f.choices[id] = opts
	el.Options = el.Options[:0]
	keep := false
	for _, o := range opts {
		el.Options = append(el.Options, o.Label)
		if o.Value == el.Value {
			keep = true
		}
	}
	if !keep {
		el.Value = ""
		if el.Kind == formnav.KindSelect && len(opts) > 0 {
			el.Value = opts[0].Value
		}
	}
}

func (f *form) setValue(id, v string) {
	el := f.el(id)
	if el == nil {
		return
	}
	el.Value = v
	if ti, ok := f.inputs[id]; ok {
		ti.SetValue(v)
	}
}

// value reads a field, preferring the live textinput.
func (f *form) value(id string) string {
	if ti, ok := f.inputs[id]; ok {
		return strings.TrimSpace(ti.Value())
	}
	if el := f.el(id); el != nil {
		return el.Value
	}
	return ""
}

func (f *form) choiceLabel(el *formnav.Element) string {
	for _, c := range f.choices[el.ID] {
		if c.Value == el.Value {
			return c.Label
		}
	}
	if el.Value == "" {
		return "none"
	}
	return el.Value
}

func (f *form) cycleChoice(el *formnav.Element, delta int) {
	opts := f.choices[el.ID]
	if len(opts) == 0 {
		return
	}
	idx := 0
	for i, c := range opts {
		if c.Value == el.Value {
			idx = i
		}
	}
	idx = (idx + delta + len(opts)) % len(opts)
	el.SetValue(opts[idx].Value)
}

func (f *form) openFilePicker(el *formnav.Element) {
	ti := textinput.New()
	ti.Placeholder = "~/path/to/file"
	ti.Prompt = "path: "
	ti.Width = 50
	ti.SetValue(el.Value)
	ti.Focus()
	f.overlay = overlayFile
	f.overlayTarget = el
	f.overlayInput = ti
}

func (f *form) openDropdown(el *formnav.Element) {
	f.overlay = overlayDropdown
	f.overlayTarget = el
	f.overlayCursor = 0
	for i, c := range f.choices[el.ID] {
		if c.Value == el.Value {
			f.overlayCursor = i
		}
	}
}

func (f *form) closeOverlay() {
	f.overlay = overlayNone
	f.overlayTarget = nil
}

// handleKey routes a key through the navigation controller first; keys it
// does not claim get the host's default handling.
func (f *form) handleKey(m tea.KeyMsg) (formAction, tea.Cmd) {
	if f.overlay != overlayNone {
		return f.handleOverlayKey(m), nil
	}
	key := m.String()
	switch key {
	case "enter", "esc", "up", "down", "left", "right":
		ev := f.doc.PressKey(formnav.Key(key))
		if ev.DefaultPrevented() {
			return formNone, nil
		}
		if key == "enter" {
			return f.activate(ev.Target), nil
		}
		return formNone, nil
	case "ctrl+s":
		return formSubmit, nil
	case "tab":
		f.step(1)
		return formNone, nil
	case "shift+tab":
		f.step(-1)
		return formNone, nil
	}

	focused := f.doc.Focused()
	if focused == nil {
		return formNone, nil
	}
	if key == " " {
		switch {
		case focused.Kind == formnav.KindSelect:
			f.cycleChoice(focused, 1)
			return formNone, nil
		case focused.IsDropdownTrigger():
			f.openDropdown(focused)
			return formNone, nil
		case focused.Kind == formnav.KindButton:
			return f.activate(focused), nil
		}
	}
	if ti, ok := f.inputs[focused.ID]; ok {
		next, cmd := ti.Update(m)
		*ti = next
		return formNone, cmd
	}
	return formNone, nil
}

// step is the host's tab order: like arrow navigation but wrapping.
func (f *form) step(delta int) {
	set := formnav.Focusables(f.root)
	if len(set) == 0 {
		return
	}
	idx := -1
	for i, el := range set {
		if el == f.doc.Focused() {
			idx = i
		}
	}
	f.doc.Focus(set[(idx+delta+len(set))%len(set)])
}

func (f *form) activate(el *formnav.Element) formAction {
	if el == nil || el.Kind != formnav.KindButton || el.Disabled {
		return formNone
	}
	switch {
	case el.Submit || el.Type == formnav.TypeSubmit:
		return formSubmit
	case el.Cancel || strings.EqualFold(el.Label, "cancel"):
		return formCancel
	}
	return formNone
}

func (f *form) handleOverlayKey(m tea.KeyMsg) formAction {
	target := f.overlayTarget
	switch f.overlay {
	case overlayDropdown:
		opts := f.choices[target.ID]
		switch m.String() {
		case "esc":
			f.closeOverlay()
		case "up", "k":
			if f.overlayCursor > 0 {
				f.overlayCursor--
			}
		case "down", "j":
			if f.overlayCursor < len(opts)-1 {
				f.overlayCursor++
			}
		case "enter", " ":
			if f.overlayCursor < len(opts) {
				target.SetValue(opts[f.overlayCursor].Value)
			}
			f.closeOverlay()
		}
	case overlayFile:
		switch m.String() {
		case "esc":
			f.closeOverlay()
		case "enter":
			path := strings.TrimSpace(f.overlayInput.Value())
			f.closeOverlay()
			if path != "" {
				target.SetValue(path)
			}
		default:
			f.overlayInput, _ = f.overlayInput.Update(m)
		}
	}
	return formNone
}

// showError puts a message under the form title.
func (f *form) showError(err error) {
	if err == nil {
		f.errText = ""
		return
	}
	f.errText = err.Error()
}

func (f *form) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n")
	if f.errText != "" {
		b.WriteString(errorStyle.Render(f.errText))
		b.WriteString("\n")
	}
	for _, c := range f.root.Children() {
		if line := f.render(c); line != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	switch f.overlay {
	case overlayDropdown:
		b.WriteString("\n")
		b.WriteString(f.renderDropdown())
	case overlayFile:
		b.WriteString("\n")
		b.WriteString(overlayStyle.Render("Choose a file\n" + f.overlayInput.View() + "\n" + helpStyle.Render("[enter] choose  [esc] back")))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[enter/↓] next  [↑] previous  [space] pick/toggle  [esc] cancel  [ctrl+s] save"))
	return b.String()
}

func (f *form) renderDropdown() string {
	var lines []string
	for i, c := range f.choices[f.overlayTarget.ID] {
		line := "  " + c.Label
		if i == f.overlayCursor {
			line = selectedStyle.Render("› " + c.Label)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, helpStyle.Render("  nothing to choose"))
	}
	return overlayStyle.Render(f.overlayTarget.Label + "\n" + strings.Join(lines, "\n"))
}

func (f *form) render(el *formnav.Element) string {
	if !el.Rendered() {
		return ""
	}
	focused := f.doc.Focused() == el
	marker := "  "
	if focused {
		marker = focusStyle.Render("› ")
	}
	label := labelStyle.Render(fmt.Sprintf("%-14s", el.Label))
	switch el.Kind {
	case formnav.KindText:
		return "  " + helpStyle.Render(el.Label)
	case formnav.KindGroup:
		var parts []string
		for _, c := range el.Children() {
			if s := f.render(c); s != "" {
				parts = append(parts, s)
			}
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	case formnav.KindButton:
		text := "[ " + el.Label + " ]"
		switch {
		case el.Disabled:
			return "  " + disabledStyle.Render(text)
		case focused:
			return "  " + buttonFocusStyle.Render(text)
		}
		return "  " + buttonStyle.Render(text)
	case formnav.KindSelect:
		return marker + label + " ‹ " + f.choiceLabel(el) + " ›"
	case formnav.KindDiv:
		if el.IsDropdownTrigger() {
			return marker + label + " [ " + f.choiceLabel(el) + " ▾ ]"
		}
		return marker + el.Label
	case formnav.KindInput, formnav.KindTextarea:
		if el.IsFileInput() {
			v := el.Value
			if v == "" {
				v = helpStyle.Render("press enter to choose")
			}
			return marker + label + " 📎 " + v
		}
		if ti, ok := f.inputs[el.ID]; ok {
			if el.Disabled {
				return marker + label + " " + disabledStyle.Render(ti.Value())
			}
			return marker + label + " " + ti.View()
		}
	}
	return ""
}
