package formnav

import "strings"

// Kind is the element's tag.
type Kind int

const (
	KindGroup Kind = iota // plain wrapper, never focusable by itself
	KindForm
	KindInput
	KindSelect
	KindTextarea
	KindButton
	KindDiv // custom control; focusable with TabStop or the button role
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindForm:
		return "form"
	case KindInput:
		return "input"
	case KindSelect:
		return "select"
	case KindTextarea:
		return "textarea"
	case KindButton:
		return "button"
	case KindDiv:
		return "div"
	case KindText:
		return "text"
	default:
		return "group"
	}
}

const (
	RoleButton = "button"
	RoleForm   = "form"
	RoleDialog = "dialog"

	TypeText     = "text"
	TypeFile     = "file"
	TypeSubmit   = "submit"
	TypeHidden   = "hidden"
	TypePassword = "password"
)

// Element is one node of a Document tree. Exported fields are plain
// attributes and may be changed at any time; the controller reads them
// afresh on every key event.
type Element struct {
	ID    string
	Kind  Kind
	Type  string // input or button type
	Role  string
	Label string
	Value string

	// Options feed KindSelect and dropdown triggers.
	Options []string

	TabStop    bool
	Disabled   bool
	AriaHidden bool
	Hidden     bool // not rendered; applies to the whole subtree
	Submit     bool // submit marker for buttons without type submit
	Cancel     bool

	parent   *Element
	children []*Element
	change   listeners[*Element]
}

// Append adopts children, detaching them from any previous parent, and
// returns el for chaining.
func (el *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.removeChild(c)
		}
		c.parent = el
		el.children = append(el.children, c)
	}
	return el
}

// Remove detaches el from its parent.
func (el *Element) Remove() {
	if el.parent != nil {
		el.parent.removeChild(el)
	}
}

func (el *Element) removeChild(c *Element) {
	for i, ch := range el.children {
		if ch == c {
			el.children = append(el.children[:i:i], el.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

func (el *Element) Parent() *Element { return el.parent }

func (el *Element) Children() []*Element {
	out := make([]*Element, len(el.children))
	copy(out, el.children)
	return out
}

// Closest returns the nearest ancestor (el excluded) matching pred.
func (el *Element) Closest(pred func(*Element) bool) *Element {
	for p := el.parent; p != nil; p = p.parent {
		if pred(p) {
			return p
		}
	}
	return nil
}

// Contains reports whether other is el or one of its descendants.
func (el *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == el {
			return true
		}
	}
	return false
}

// Rendered is false when el or any ancestor is hidden, or el is a hidden
// input.
func (el *Element) Rendered() bool {
	if el.Kind == KindInput && el.Type == TypeHidden {
		return false
	}
	for n := el; n != nil; n = n.parent {
		if n.Hidden {
			return false
		}
	}
	return true
}

// Find returns the first element in el's subtree with the given id.
func (el *Element) Find(id string) *Element {
	var found *Element
	el.walk(func(n *Element) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Walk visits el and its descendants in document order until fn returns
// false.
func (el *Element) Walk(fn func(*Element) bool) { el.walk(fn) }

// walk visits el and its descendants in document order until fn returns
// false.
func (el *Element) walk(fn func(*Element) bool) bool {
	if !fn(el) {
		return false
	}
	for _, c := range el.children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

// SetValue stores v and delivers a change notification to el's
// listeners.
func (el *Element) SetValue(v string) {
	el.Value = v
	el.change.emit(el)
}

// OnChange subscribes fn to el's change notifications.
func (el *Element) OnChange(fn func(*Element)) *Subscription {
	return el.change.add(fn)
}

// OnChangeOnce subscribes fn to the next change notification only.
func (el *Element) OnChangeOnce(fn func(*Element)) *Subscription {
	return el.change.addOnce(fn)
}

// ChangeListeners reports how many change listeners el holds.
func (el *Element) ChangeListeners() int { return el.change.count() }

func (el *Element) IsFileInput() bool {
	return el.Kind == KindInput && el.Type == TypeFile
}

// IsDropdownTrigger is true for custom controls carrying the button
// role, the shape component libraries give their select boxes.
func (el *Element) IsDropdownTrigger() bool {
	return el.Role == RoleButton && el.Kind != KindButton
}

func (el *Element) isSubmit() bool {
	if el.Submit {
		return true
	}
	return el.Type == TypeSubmit && (el.Kind == KindButton || el.Kind == KindInput)
}

func (el *Element) isCancel() bool {
	if el.Kind != KindButton && el.Role != RoleButton {
		return false
	}
	return el.Cancel || strings.EqualFold(strings.TrimSpace(el.Label), "cancel")
}

// Constructors for the element shapes forms are built from.

func Form(id string, children ...*Element) *Element {
	return (&Element{ID: id, Kind: KindForm}).Append(children...)
}

func Dialog(id string, children ...*Element) *Element {
	return (&Element{ID: id, Kind: KindGroup, Role: RoleDialog}).Append(children...)
}

func Group(id string, children ...*Element) *Element {
	return (&Element{ID: id, Kind: KindGroup}).Append(children...)
}

func Input(id, label string) *Element {
	return &Element{ID: id, Kind: KindInput, Type: TypeText, Label: label}
}

func Password(id, label string) *Element {
	return &Element{ID: id, Kind: KindInput, Type: TypePassword, Label: label}
}

func TextArea(id, label string) *Element {
	return &Element{ID: id, Kind: KindTextarea, Label: label}
}

func FileInput(id, label string) *Element {
	return &Element{ID: id, Kind: KindInput, Type: TypeFile, Label: label}
}

func Select(id, label string, options ...string) *Element {
	el := &Element{ID: id, Kind: KindSelect, Label: label, Options: options}
	if len(options) > 0 {
		el.Value = options[0]
	}
	return el
}

// Dropdown is a custom select: a div with the button role.
func Dropdown(id, label string, options ...string) *Element {
	return &Element{ID: id, Kind: KindDiv, Role: RoleButton, Label: label, Options: options}
}

func Button(id, label string) *Element {
	return &Element{ID: id, Kind: KindButton, Type: "button", Label: label}
}

func SubmitButton(id, label string) *Element {
	return &Element{ID: id, Kind: KindButton, Type: TypeSubmit, Label: label}
}

func CancelButton(id, label string) *Element {
	return &Element{ID: id, Kind: KindButton, Type: "button", Label: label, Cancel: true}
}

func Text(id, label string) *Element {
	return &Element{ID: id, Kind: KindText, Label: label}
}
