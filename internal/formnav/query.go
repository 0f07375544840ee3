package formnav

// IsContainer matches the form-like ancestors navigation is scoped to.
func IsContainer(el *Element) bool {
	return el.Kind == KindForm || el.Role == RoleForm || el.Role == RoleDialog
}

// Container returns the nearest form-like ancestor of el.
func Container(el *Element) *Element {
	if el == nil {
		return nil
	}
	return el.Closest(IsContainer)
}

func isInteractive(el *Element) bool {
	switch el.Kind {
	case KindInput, KindSelect, KindTextarea, KindButton:
		return true
	}
	return el.TabStop || el.Role == RoleButton
}

// Navigable reports whether el belongs in a focusable set.
func Navigable(el *Element) bool {
	return isInteractive(el) && !el.Disabled && !el.AriaHidden && el.Rendered()
}

// Focusables returns the navigable descendants of container in document
// order. The slice is built fresh on every call.
func Focusables(container *Element) []*Element {
	var out []*Element
	if container == nil {
		return out
	}
	for _, c := range container.children {
		c.walk(func(n *Element) bool {
			if Navigable(n) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// SubmitButtonOf returns the first navigable submit button in container.
func SubmitButtonOf(container *Element) *Element {
	return firstNavigable(container, (*Element).isSubmit)
}

// CancelButtonOf returns the first navigable cancel button in container.
func CancelButtonOf(container *Element) *Element {
	return firstNavigable(container, (*Element).isCancel)
}

func firstNavigable(container *Element, pred func(*Element) bool) *Element {
	for _, el := range Focusables(container) {
		if pred(el) {
			return el
		}
	}
	return nil
}

func indexOf(set []*Element, el *Element) int {
	for i, e := range set {
		if e == el {
			return i
		}
	}
	return -1
}
