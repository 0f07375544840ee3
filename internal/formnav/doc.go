// Package formnav models a form as a small element tree and moves
// keyboard focus through it.
//
// A Document owns the tree, the focused element and the key listeners.
// Mount attaches one Controller to a Document; from then on every key
// dispatched with Document.PressKey is translated into focus changes
// inside the nearest form-like container of the focused element:
//
//	enter          next element, or the submit button from the last one
//	down, right    next element
//	up, left       previous element
//	esc            the cancel button
//
// Enter on a file input opens the host's file picker instead and moves
// focus to the submit button after the first change notification from
// that input.
//
// Enter on a native button (Button, SubmitButton, CancelButton) is the one
// place the table above does not apply. The controller neither moves focus
// nor prevents the default, so the host activates the button. Without this
// Enter on the submit button could never submit. Arrows and esc still
// navigate from a button as usual.
//
// Keys the controller handles have their default action prevented. Keys
// it leaves alone reach the host untouched, which is where typing,
// button activation and option cycling happen.
package formnav
