package tui

import (
	"slices"

	"github.com/jask/panelkit/internal/panel"
)

type schemeListener struct {
	id int
	fn func(panel.ControlScheme)
}

// Focus tracks the control scheme and the current focus target.
type Focus struct {
	scheme    panel.ControlScheme
	target    string
	nextID    int
	listeners []schemeListener
}

func NewFocus(scheme panel.ControlScheme) *Focus {
	return &Focus{scheme: scheme}
}

func (f *Focus) ControlScheme() panel.ControlScheme { return f.scheme }
func (f *Focus) SelectFocusTarget(target string)    { f.target = target }
func (f *Focus) Target() string                     { return f.target }

func (f *Focus) OnSchemeChange(fn func(panel.ControlScheme)) func() {
	f.nextID++
	id := f.nextID
	f.listeners = append(f.listeners, schemeListener{id: id, fn: fn})
	return func() {
		for i, l := range f.listeners {
			if l.id == id {
				f.listeners = append(f.listeners[:i:i], f.listeners[i+1:]...)
				return
			}
		}
	}
}

// SetScheme switches the scheme and notifies listeners when it changed.
func (f *Focus) SetScheme(s panel.ControlScheme) {
	if s == f.scheme {
		return
	}
	f.scheme = s
	if s == panel.Pointer {
		f.target = ""
	}
	for _, l := range slices.Clone(f.listeners) {
		l.fn(s)
	}
}

func (f *Focus) Toggle() panel.ControlScheme {
	if f.scheme == panel.Pointer {
		f.SetScheme(panel.Directional)
	} else {
		f.SetScheme(panel.Pointer)
	}
	return f.scheme
}
