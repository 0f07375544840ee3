package formnav

import "testing"

func TestAppendReparents(t *testing.T) {
	a, b := Group("a"), Group("b")
	child := Input("c", "C")
	a.Append(child)
	b.Append(child)
	if len(a.Children()) != 0 || len(b.Children()) != 1 || child.Parent() != b {
		t.Fatalf("child not moved: a=%d b=%d", len(a.Children()), len(b.Children()))
	}
	child.Remove()
	if child.Parent() != nil || len(b.Children()) != 0 {
		t.Fatalf("remove failed")
	}
}

func TestFocusRefusesUnreachableElements(t *testing.T) {
	doc := NewDocument()
	in := Input("in", "In")
	off := Input("off", "Off")
	off.Disabled = true
	doc.Root().Append(Form("f", in, off))

	if doc.Focus(Input("stray", "Stray")) {
		t.Fatalf("focused an element outside the document")
	}
	if doc.Focus(off) {
		t.Fatalf("focused a disabled element")
	}
	var seen []string
	sub := doc.OnFocus(func(el *Element) { seen = append(seen, el.ID) })
	defer sub.Unsubscribe()
	if !doc.Focus(in) || !doc.Focus(in) {
		t.Fatalf("focus refused")
	}
	if len(seen) != 1 {
		t.Fatalf("focus listeners called %d times, want 1", len(seen))
	}
}

func TestCancelMatchesLabelCaseInsensitively(t *testing.T) {
	form := Form("f", Input("a", "A"), Button("x", "  CANCEL "), Button("y", "Cancel"))
	if got := CancelButtonOf(form); got == nil || got.ID != "x" {
		t.Fatalf("cancel = %v", got)
	}
	if Container(form.Find("a")) != form {
		t.Fatalf("container lookup failed")
	}
}

func TestHiddenInputIsNotRendered(t *testing.T) {
	h := Input("token", "")
	h.Type = TypeHidden
	form := Form("f", h, Input("v", "V"))
	set := Focusables(form)
	if len(set) != 1 || set[0].ID != "v" {
		t.Fatalf("set = %d elements", len(set))
	}
}
