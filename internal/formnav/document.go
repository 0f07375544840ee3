package formnav

import "sync"

// Key names follow bubbletea's KeyMsg.String() so the TUI can pass keys
// straight through.
type Key string

const (
	KeyEnter  Key = "enter"
	KeyEscape Key = "esc"
	KeyUp     Key = "up"
	KeyDown   Key = "down"
	KeyLeft   Key = "left"
	KeyRight  Key = "right"
	KeyTab    Key = "tab"
	KeySpace  Key = " "
)

// KeyEvent is delivered to key listeners. Target is the focused element
// at dispatch time, or the document root when nothing has focus.
type KeyEvent struct {
	Key    Key
	Target *Element

	prevented bool
}

// PreventDefault tells the host not to run its own handling for the key.
func (e *KeyEvent) PreventDefault() { e.prevented = true }

func (e *KeyEvent) DefaultPrevented() bool { return e.prevented }

// Document owns an element tree and its focus state.
type Document struct {
	mu         sync.Mutex
	root       *Element
	focused    *Element
	filePicker func(*Element)

	keys  listeners[*KeyEvent]
	focus listeners[*Element]
}

// NewDocument returns a Document with an empty root group.
func NewDocument() *Document {
	return &Document{root: &Element{ID: "root", Kind: KindGroup}}
}

func (d *Document) Root() *Element { return d.root }

// Focused returns the element holding focus, or nil.
func (d *Document) Focused() *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focused
}

// Focus moves focus to el. It refuses elements outside the document
// and elements that are disabled or not rendered.
func (d *Document) Focus(el *Element) bool {
	if el == nil || !d.root.Contains(el) || el.Disabled || !el.Rendered() {
		return false
	}
	d.mu.Lock()
	changed := d.focused != el
	d.focused = el
	d.mu.Unlock()
	if changed {
		d.focus.emit(el)
	}
	return true
}

// Blur drops focus.
func (d *Document) Blur() {
	d.mu.Lock()
	d.focused = nil
	d.mu.Unlock()
}

// OnFocus subscribes to focus changes.
func (d *Document) OnFocus(fn func(*Element)) *Subscription {
	return d.focus.add(fn)
}

// OnKey subscribes to every dispatched key.
func (d *Document) OnKey(fn func(*KeyEvent)) *Subscription {
	return d.keys.add(fn)
}

// KeyListeners reports the number of attached key listeners.
func (d *Document) KeyListeners() int { return d.keys.count() }

// PressKey dispatches key to the focused element and returns the event
// so the host can check DefaultPrevented.
func (d *Document) PressKey(key Key) *KeyEvent {
	target := d.Focused()
	if target == nil || !d.root.Contains(target) {
		target = d.root
	}
	ev := &KeyEvent{Key: key, Target: target}
	d.keys.emit(ev)
	return ev
}

// SetFilePicker installs the host's file chooser.
func (d *Document) SetFilePicker(fn func(*Element)) {
	d.mu.Lock()
	d.filePicker = fn
	d.mu.Unlock()
}

// OpenFilePicker asks the host to let the user choose a file for el. The
// host reports the choice through el.SetValue.
func (d *Document) OpenFilePicker(el *Element) bool {
	d.mu.Lock()
	fn := d.filePicker
	d.mu.Unlock()
	if fn == nil || el == nil || !el.IsFileInput() {
		return false
	}
	fn(el)
	return true
}
