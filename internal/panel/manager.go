package panel

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/google/uuid"
)

// Identity selects how panel ids relate to template ids.
type Identity int

const (
	// IdentitySingleton keys instances by template id; at most one each.
	IdentitySingleton Identity = iota
	// IdentityMultiple gives every instance a fresh id.
	IdentityMultiple
)

func (i Identity) String() string {
	if i == IdentityMultiple {
		return "multiple"
	}
	return "singleton"
}

// ParseIdentity accepts "singleton" and "multiple".
func ParseIdentity(s string) (Identity, error) {
	switch normalize(s) {
	case "", "singleton", "singleton-by-id":
		return IdentitySingleton, nil
	case "multiple", "multiplicity-allowed":
		return IdentityMultiple, nil
	}
	return IdentitySingleton, fmt.Errorf("parse identity %q: unknown", s)
}

// Options configure a Manager.
type Options struct {
	Catalog  *Catalog
	Factory  ResourceFactory
	Focus    Focus
	Identity Identity
	// DefaultLimit applies when Open is called without a Config.
	DefaultLimit LimitOverride
	// Logger is the diagnostic channel; nil means log.Default().
	Logger *log.Logger
}

// Manager orchestrates every panel of one application. It is not safe for
// concurrent use: call it from the frame goroutine, or queue work with Post.
type Manager struct {
	catalog      *Catalog
	factory      ResourceFactory
	focus        Focus
	identity     Identity
	defaultLimit LimitOverride
	logger       *log.Logger

	bus   *Bus
	sched *Scheduler

	active  map[string]*Instance
	closing map[string]bool
	stacks  map[string]*GroupStack
	order   []string // registration order of active ids
}

// NewManager constructs a manager. A nil catalog or factory is a
// configuration error.
func NewManager(opts Options) (*Manager, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("new manager: catalog required")
	}
	if opts.Factory == nil {
		return nil, fmt.Errorf("new manager: resource factory required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		catalog:      opts.Catalog,
		factory:      opts.Factory,
		focus:        opts.Focus,
		identity:     opts.Identity,
		defaultLimit: opts.DefaultLimit,
		logger:       logger,
		bus:          NewBus(),
		sched:        NewScheduler(),
		active:       make(map[string]*Instance),
		closing:      make(map[string]bool),
		stacks:       make(map[string]*GroupStack),
	}, nil
}

// DiscardLogger is a diagnostic channel that drops everything.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func (m *Manager) Bus() *Bus                   { return m.bus }
func (m *Manager) Catalog() *Catalog           { return m.catalog }
func (m *Manager) Identity() Identity          { return m.identity }
func (m *Manager) DefaultLimit() LimitOverride { return m.defaultLimit }
func (m *Manager) Scheduler() *Scheduler       { return m.sched }
func (m *Manager) Subscribe(fn Listener, types ...EventType) func() {
	return m.bus.Subscribe(fn, types...)
}

// Update advances every suspended transition by one frame.
func (m *Manager) Update() { m.sched.Tick() }

// Idle reports whether no transition is pending.
func (m *Manager) Idle() bool { return m.sched.Idle() }

// Post queues fn to run against the manager on the next frame. It is the
// only method safe to call from other goroutines.
func (m *Manager) Post(fn func(*Manager)) {
	m.sched.Post(func() { fn(m) })
}

// Open instantiates the template id and starts showing it according to
// cfg's limit override. A nil cfg uses the defaults. On error no instance
// exists and the group stack is untouched.
func (m *Manager) Open(id string, cfg *Config) (*Instance, error) {
	c := Config{LimitOverride: m.defaultLimit}
	if cfg != nil {
		c = *cfg
	}

	t, err := m.catalog.Lookup(id)
	if err != nil {
		return nil, m.report(fmt.Errorf("open panel: %w", err))
	}
	if !canForce(c.StartingState) {
		err := &TransitionError{ID: id, From: Hidden, To: c.StartingState, Forced: true}
		return nil, m.report(fmt.Errorf("open panel: %w", err))
	}

	instID := t.ID
	if m.identity == IdentityMultiple {
		instID = t.ID + "#" + uuid.NewString()[:8]
	}
	if _, ok := m.active[instID]; ok {
		return nil, m.report(fmt.Errorf("open panel %q: %w", instID, ErrDuplicateIdentity))
	}

	group := t.Group
	if c.Group != nil {
		group = *c.Group
	}
	stack := m.stacks[group]
	atLimit := group != "" && stack.Len() > 0

	var previous *Instance
	queued := false
	switch c.LimitOverride {
	case Replace:
		if atLimit {
			previous = stack.Front()
		}
	case Wait:
		queued = atLimit
	case Add:
	case None:
		if atLimit {
			return nil, fmt.Errorf("open panel %q in group %q: %w", t.ID, group, ErrGroupAtLimit)
		}
	default:
		return nil, m.report(fmt.Errorf("open panel %q: limit override %v: unknown", t.ID, c.LimitOverride))
	}

	res, err := m.factory.Acquire(t, group, c.Position)
	if err != nil {
		return nil, m.report(fmt.Errorf("open panel %q: acquire resource: %w", t.ID, err))
	}

	p := newInstance(instID, t, group, c.Position, res, m.focus, m.bus, m.sched)
	p.onShowStart = m.announce
	if queued {
		// Queued panels wait HIDDEN until promoted.
		c.StartingState = Hidden
	}
	if err := p.Initialise(c); err != nil {
		m.factory.Release(res)
		return nil, m.report(fmt.Errorf("open panel: %w", err))
	}

	m.active[instID] = p
	m.order = append(m.order, instID)
	if group != "" {
		if stack == nil {
			stack = newGroupStack(group)
			m.stacks[group] = stack
		}
		if queued {
			stack.PushBack(p)
		} else {
			stack.PushFront(p)
		}
	}

	if !queued {
		if !p.Show() {
			// Started SHOWN: the show is already complete.
			m.announce(p)
		}
	}
	if previous != nil && !m.closing[previous.id] {
		_ = m.Close(previous.id)
	}
	return p, nil
}

// Close hides the panel and tears it down once HIDDEN. A second request
// while the first is in flight joins it.
func (m *Manager) Close(id string) error {
	p, ok := m.active[id]
	if !ok {
		return m.report(fmt.Errorf("close panel %q: %w", id, ErrNotActive))
	}
	if m.closing[id] {
		return nil
	}
	m.closing[id] = true
	p.Hide()
	p.afterHidden(func() { m.finishClose(p) })
	return nil
}

func (m *Manager) finishClose(p *Instance) {
	p.Uninitialise()
	delete(m.active, p.id)
	m.removeOrder(p.id)
	stack := m.stacks[p.group]
	if stack != nil {
		stack.Remove(p)
		if stack.Len() == 0 {
			delete(m.stacks, p.group)
		}
	}
	m.bus.Emit(Event{Type: EventClosed, ID: p.id, Template: p.template.ID, Group: p.group, State: Hidden})
	m.factory.Release(p.resource)
	delete(m.closing, p.id)

	// Only the new front is re-shown; other visible occupants are left as is.
	if front := stack.Front(); front != nil && !m.closing[front.id] {
		front.Show()
	}
}

// CloseAll closes every active panel. Queued members are closed before the
// panels in front of them so nothing is promoted on the way out.
func (m *Manager) CloseAll() {
	for _, id := range m.snapshot() {
		if _, ok := m.active[id]; ok {
			_ = m.Close(id)
		}
	}
}

// Cancel closes the front-most visible panel whose template closes on
// cancel. It reports whether a close was started.
func (m *Manager) Cancel() bool {
	for i := len(m.order) - 1; i >= 0; i-- {
		p := m.active[m.order[i]]
		if p == nil || m.closing[p.id] || !p.template.CloseOnCancel || !p.state.Visible() {
			continue
		}
		return m.Close(p.id) == nil
	}
	return false
}

func (m *Manager) IsActive(id string) bool {
	_, ok := m.active[id]
	return ok
}

func (m *Manager) IsClosing(id string) bool { return m.closing[id] }

// StateOf returns the state of an active panel.
func (m *Manager) StateOf(id string) (State, bool) {
	p, ok := m.active[id]
	if !ok {
		return Hidden, false
	}
	return p.state, true
}

// Get returns the active instance with the given id.
func (m *Manager) Get(id string) (*Instance, bool) {
	p, ok := m.active[id]
	return p, ok
}

func (m *Manager) CountInGroup(group string) int { return m.stacks[group].Len() }

func (m *Manager) CountActive() int { return len(m.active) }

// Front returns the authoritative panel of group.
func (m *Manager) Front(group string) *Instance { return m.stacks[group].Front() }

// Stack returns group's members back to front.
func (m *Manager) Stack(group string) []*Instance { return m.stacks[group].Items() }

// Groups returns the names of non-empty groups, sorted.
func (m *Manager) Groups() []string {
	out := make([]string, 0, len(m.stacks))
	for g := range m.stacks {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Active returns the active instances in the order they were opened.
func (m *Manager) Active() []*Instance {
	out := make([]*Instance, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.active[id])
	}
	return out
}

// InstancesOf returns the active instances spawned from template id.
func (m *Manager) InstancesOf(templateID string) []*Instance {
	var out []*Instance
	for _, p := range m.Active() {
		if p.template.ID == templateID {
			out = append(out, p)
		}
	}
	return out
}

// SetAllInteractable toggles input on every active panel. Panels that are
// hiding remain blocked.
func (m *Manager) SetAllInteractable(on bool) {
	for _, p := range m.Active() {
		p.SetInteractable(on)
	}
}

func (m *Manager) announce(p *Instance) {
	if p.announced {
		return
	}
	p.announced = true
	m.bus.Emit(Event{Type: EventOpened, ID: p.id, Template: p.template.ID, Group: p.group, State: p.state})
}

// snapshot lists active ids with each group's queue ahead of its front.
func (m *Manager) snapshot() []string {
	out := make([]string, 0, len(m.active))
	seen := make(map[string]bool, len(m.active))
	for _, g := range m.Groups() {
		for _, p := range m.stacks[g].Items() {
			out = append(out, p.id)
			seen[p.id] = true
		}
	}
	for _, id := range m.order {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

func (m *Manager) removeOrder(id string) {
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// report writes err to the diagnostic channel and returns it.
func (m *Manager) report(err error) error {
	kind := "misuse"
	if errors.Is(err, ErrIllegalTransition) || errors.Is(err, ErrUnknownTemplate) || errors.Is(err, ErrDuplicateIdentity) {
		kind = "config"
	}
	m.logger.Printf("panel: %s error: %v", kind, err)
	return err
}
