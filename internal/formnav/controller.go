package formnav

import "sync"

// Controller turns navigation keys into focus changes. Create one with
// Mount and release it with Unmount.
type Controller struct {
	doc  *Document
	root *Element

	mu      sync.Mutex
	keySub  *Subscription
	pending *Subscription // one-shot change listener of a file input
	mounted bool
}

// Option configures Mount.
type Option func(*Controller)

// WithRoot limits the controller to key events whose target lies under
// root. Without it the whole document is covered.
func WithRoot(root *Element) Option {
	return func(c *Controller) { c.root = root }
}

// Mount attaches a controller to doc through a single key listener.
func Mount(doc *Document, opts ...Option) *Controller {
	c := &Controller{doc: doc}
	for _, opt := range opts {
		opt(c)
	}
	c.mounted = true
	c.keySub = doc.OnKey(c.handleKey)
	return c
}

// Unmount detaches the key listener and any pending file-input listener.
// Safe to call more than once.
func (c *Controller) Unmount() {
	c.mu.Lock()
	c.mounted = false
	keySub, pending := c.keySub, c.pending
	c.keySub, c.pending = nil, nil
	c.mu.Unlock()

	keySub.Unsubscribe()
	pending.Unsubscribe()
}

// Mounted reports whether the controller still listens.
func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// relevantTarget is true for the element kinds navigation applies to.
func relevantTarget(el *Element) bool {
	switch el.Kind {
	case KindInput, KindSelect, KindTextarea, KindButton, KindDiv:
		return true
	}
	return false
}

func (c *Controller) handleKey(ev *KeyEvent) {
	if !c.Mounted() {
		return
	}
	target := ev.Target
	if target == nil || !relevantTarget(target) {
		return
	}
	if c.root != nil && !c.root.Contains(target) {
		return
	}
	container := Container(target)
	if container == nil {
		return
	}
	set := Focusables(container)
	idx := indexOf(set, target)

	switch ev.Key {
	case KeyEnter:
		switch {
		case target.IsFileInput():
			ev.PreventDefault()
			c.chooseFile(target)
		case target.IsDropdownTrigger():
			ev.PreventDefault()
			c.focusIndex(set, idx, idx+1)
		case target.Kind == KindButton:
			// Enter activates a native button; leave it to the host.
		default:
			ev.PreventDefault()
			if idx >= 0 && idx == len(set)-1 {
				c.doc.Focus(SubmitButtonOf(container))
				return
			}
			c.focusIndex(set, idx, idx+1)
		}
	case KeyDown, KeyRight:
		ev.PreventDefault()
		c.focusIndex(set, idx, idx+1)
	case KeyUp, KeyLeft:
		ev.PreventDefault()
		c.focusIndex(set, idx, idx-1)
	case KeyEscape:
		ev.PreventDefault()
		c.doc.Focus(CancelButtonOf(container))
	}
}

// focusIndex focuses set[to] when the target was found and to is in
// range; anything else is a no-op.
func (c *Controller) focusIndex(set []*Element, from, to int) {
	if from < 0 || to < 0 || to >= len(set) {
		return
	}
	c.doc.Focus(set[to])
}

// chooseFile opens the picker for input and arms a one-shot listener
// that moves focus to the submit button once a file was chosen. A
// previously armed listener is dropped first.
func (c *Controller) chooseFile(input *Element) {
	c.mu.Lock()
	if c.pending != nil {
		c.pending.Unsubscribe()
	}
	var sub *Subscription
	sub = input.OnChangeOnce(func(el *Element) {
		c.mu.Lock()
		if c.pending == sub {
			c.pending = nil
		}
		mounted := c.mounted
		c.mu.Unlock()
		if !mounted {
			return
		}
		c.doc.Focus(SubmitButtonOf(Container(el)))
	})
	c.pending = sub
	c.mu.Unlock()

	c.doc.OpenFilePicker(input)
}
