package panel

import (
	"fmt"
	"strconv"
	"strings"
)

// Template is the immutable definition panels are spawned from.
type Template struct {
	ID            string
	Group         string // "" = ungrouped
	DefaultFocus  string
	CloseOnCancel bool
	Hooks         Hooks // nil = NopHooks
}

func (t *Template) hooks() Hooks {
	if t.Hooks == nil {
		return NopHooks{}
	}
	return t.Hooks
}

// Hooks customise a template's behaviour at each lifecycle step.
// Embed NopHooks to implement only the callbacks you need.
type Hooks interface {
	OnInitialise(p *Instance, cfg Config)
	OnShow(p *Instance)
	OnHide(p *Instance)
	OnStateChanged(p *Instance, from, to State)
	OnFocusChange(p *Instance, scheme ControlScheme)
}

// NopHooks implements Hooks with no-ops.
type NopHooks struct{}

func (NopHooks) OnInitialise(*Instance, Config)         {}
func (NopHooks) OnShow(*Instance)                       {}
func (NopHooks) OnHide(*Instance)                       {}
func (NopHooks) OnStateChanged(*Instance, State, State) {}
func (NopHooks) OnFocusChange(*Instance, ControlScheme) {}

// LimitOverride decides what opening into an occupied group does.
type LimitOverride int

const (
	Replace LimitOverride = iota
	Wait
	Add
	None
)

func (l LimitOverride) String() string {
	switch l {
	case Replace:
		return "REPLACE"
	case Wait:
		return "WAIT"
	case Add:
		return "ADD"
	case None:
		return "NONE"
	default:
		return fmt.Sprintf("LimitOverride(%d)", int(l))
	}
}

// ParseLimitOverride accepts REPLACE, WAIT, ADD and NONE in any case.
func ParseLimitOverride(s string) (LimitOverride, error) {
	switch normalize(s) {
	case "", "replace":
		return Replace, nil
	case "wait":
		return Wait, nil
	case "add":
		return Add, nil
	case "none":
		return None, nil
	}
	return Replace, fmt.Errorf("parse limit override %q: unknown", s)
}

// Position is where a panel's visual sits among its container siblings.
// It never changes authority order inside a group.
type Position struct {
	kind  positionKind
	index int
}

type positionKind int

const (
	positionTop positionKind = iota
	positionBottom
	positionIndex
)

var (
	Top    = Position{kind: positionTop}
	Bottom = Position{kind: positionBottom}
)

// AtIndex places the visual at sibling index n.
func AtIndex(n int) Position {
	if n < 0 {
		n = 0
	}
	return Position{kind: positionIndex, index: n}
}

// Resolve maps the position onto a container holding count siblings.
func (p Position) Resolve(count int) int {
	switch p.kind {
	case positionBottom:
		return 0
	case positionIndex:
		if p.index > count {
			return count
		}
		return p.index
	default:
		return count
	}
}

func (p Position) String() string {
	switch p.kind {
	case positionBottom:
		return "BOTTOM"
	case positionIndex:
		return "INDEX(" + strconv.Itoa(p.index) + ")"
	default:
		return "TOP"
	}
}

// Config is the optional, caller-supplied open configuration.
type Config struct {
	StartingState State
	LimitOverride LimitOverride
	Position      Position
	Group         *string // overrides the template group when set
}

// InGroup returns a group override for Config.Group.
func InGroup(name string) *string { return &name }

// ControlScheme is the input mode reported by the focus collaborator.
type ControlScheme int

const (
	Pointer ControlScheme = iota
	Directional
)

func (c ControlScheme) String() string {
	if c == Directional {
		return "directional"
	}
	return "pointer"
}

// ParseControlScheme accepts "pointer" and "directional".
func ParseControlScheme(s string) ControlScheme {
	if normalize(s) == "directional" {
		return Directional
	}
	return Pointer
}

// Focus is the input/focus subsystem panels delegate default focus to.
type Focus interface {
	ControlScheme() ControlScheme
	SelectFocusTarget(target string)
	// OnSchemeChange registers fn and returns a function removing it.
	OnSchemeChange(fn func(ControlScheme)) (cancel func())
}

// Resource is the thing that actually renders a panel.
type Resource interface {
	Show() *Future
	Hide() *Future
	// Snap jumps straight to a resting state without animating.
	Snap(s State)
	SetInteractable(on bool)
}

// ResourceFactory hands out and takes back visual resources.
type ResourceFactory interface {
	// group is the instance's resolved group, which may differ from t.Group.
	Acquire(t *Template, group string, pos Position) (Resource, error)
	Release(r Resource)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
