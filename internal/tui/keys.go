package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Host actions.
const (
	actionQuit     = "quit"
	actionOpen     = "open"
	actionLimit    = "limit"
	actionCancel   = "cancel"
	actionClose    = "close"
	actionCloseAll = "close-all"
	actionScheme   = "scheme"
	actionMute     = "mute"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

// DefaultBindings maps the host keys. Digits open catalog entries by index.
func DefaultBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"q", "ctrl+c"}, Action: actionQuit, Description: "quit"},
		{Keys: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, Action: actionOpen, Description: "open"},
		{Keys: []string{"l"}, Action: actionLimit, Description: "limit"},
		{Keys: []string{"esc", "backspace"}, Action: actionCancel, Description: "cancel"},
		{Keys: []string{"x"}, Action: actionClose, Description: "close newest"},
		{Keys: []string{"c"}, Action: actionCloseAll, Description: "close all"},
		{Keys: []string{"tab"}, Action: actionScheme, Description: "scheme"},
		{Keys: []string{"m"}, Action: actionMute, Description: "mute"},
	}
}

// Action returns the action bound to msg, or "".
func (r *KeyRegistry) Action(msg tea.KeyMsg) string {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return b.Action
			}
		}
	}
	return ""
}

// Help renders one "[key] description" entry per binding, skipping open.
func (r *KeyRegistry) Help() string {
	parts := make([]string, 0, len(r.bindings))
	for _, b := range r.bindings {
		if b.Action == actionOpen || len(b.Keys) == 0 {
			continue
		}
		parts = append(parts, "["+b.Keys[0]+"] "+b.Description)
	}
	return strings.Join(parts, "  ")
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
