package panel

// Instance is one live panel spawned from a Template. Its state is mutated
// only by its own transition driver and by the Manager.
type Instance struct {
	id       string
	template *Template
	group    string
	position Position

	state        State
	interactable bool
	announced    bool
	hidePending  bool

	resource Resource
	hooks    Hooks
	focus    Focus
	bus      *Bus
	sched    *Scheduler

	// focusCount counts default-focus delegations, one per completed show.
	focusCount int

	cancelScheme func()
	onShowStart  func(*Instance)
	whenHidden   []func()
}

func newInstance(id string, t *Template, group string, pos Position, res Resource, focus Focus, bus *Bus, sched *Scheduler) *Instance {
	return &Instance{
		id:       id,
		template: t,
		group:    group,
		position: pos,
		resource: res,
		hooks:    t.hooks(),
		focus:    focus,
		bus:      bus,
		sched:    sched,
	}
}

func (p *Instance) ID() string            { return p.id }
func (p *Instance) Template() *Template   { return p.template }
func (p *Instance) Group() string         { return p.group }
func (p *Instance) Position() Position    { return p.position }
func (p *Instance) State() State          { return p.state }
func (p *Instance) Interactable() bool    { return p.interactable }
func (p *Instance) Resource() Resource    { return p.resource }
func (p *Instance) DefaultFocus() string  { return p.template.DefaultFocus }
func (p *Instance) FocusDelegations() int { return p.focusCount }

// Initialise establishes the starting state through a forced, synchronous
// transition. Only the resting states HIDDEN and SHOWN are accepted.
func (p *Instance) Initialise(cfg Config) error {
	if !canForce(cfg.StartingState) {
		return &TransitionError{ID: p.id, From: p.state, To: cfg.StartingState, Forced: true}
	}
	p.setState(cfg.StartingState)
	p.resource.Snap(cfg.StartingState)
	if cfg.StartingState == Shown {
		p.setInteractable(true)
		p.listen()
	} else {
		p.setInteractable(false)
	}
	p.hooks.OnInitialise(p, cfg)
	return nil
}

// Show starts the show sequence. It is a no-op when already SHOWN or
// SHOWING and refused while HIDING; callers must wait for HIDDEN first.
// Returns whether a new sequence started.
func (p *Instance) Show() bool {
	switch p.state {
	case Shown, Showing, Hiding:
		return false
	}
	p.hidePending = false
	if err := p.transition(Showing); err != nil {
		return false
	}
	p.hooks.OnShow(p)
	if p.onShowStart != nil {
		p.onShowStart(p)
	}
	done := p.resource.Show()
	p.sched.Start(func() bool {
		if !done.Ready() {
			return false
		}
		p.completeShow()
		return true
	})
	return true
}

func (p *Instance) completeShow() {
	if p.transition(Shown) != nil {
		return
	}
	p.setInteractable(true)
	p.listen()
	if p.template.DefaultFocus != "" && p.focus != nil && p.focus.ControlScheme() == Directional {
		p.focusCount++
		p.focus.SelectFocusTarget(p.template.DefaultFocus)
	}
	if p.hidePending {
		p.hidePending = false
		p.Hide()
	}
}

// Hide starts the hide sequence. Joining an in-flight hide is a no-op.
// A hide requested while SHOWING runs as soon as the show completes.
func (p *Instance) Hide() bool {
	switch p.state {
	case Hidden, Hiding:
		return false
	case Showing:
		p.hidePending = true
		return false
	}
	if err := p.transition(Hiding); err != nil {
		return false
	}
	// Block input now rather than at completion.
	p.setInteractable(false)
	p.hooks.OnHide(p)
	done := p.resource.Hide()
	p.sched.Start(func() bool {
		if !done.Ready() {
			return false
		}
		if p.transition(Hidden) == nil {
			p.runWhenHidden()
		}
		return true
	})
	return true
}

// afterHidden runs fn once the panel rests in HIDDEN, immediately if it
// already does.
func (p *Instance) afterHidden(fn func()) {
	if p.state == Hidden {
		fn()
		return
	}
	p.whenHidden = append(p.whenHidden, fn)
}

func (p *Instance) runWhenHidden() {
	pending := p.whenHidden
	p.whenHidden = nil
	for _, fn := range pending {
		fn()
	}
}

// Uninitialise removes listeners registered while SHOWN. Idempotent.
func (p *Instance) Uninitialise() {
	if p.cancelScheme != nil {
		p.cancelScheme()
		p.cancelScheme = nil
	}
}

// SetInteractable toggles input on the resource. Panels on their way out
// stay blocked.
func (p *Instance) SetInteractable(on bool) {
	if on && (p.state == Hiding || p.state == Hidden) {
		return
	}
	p.setInteractable(on)
}

func (p *Instance) setInteractable(on bool) {
	p.interactable = on
	p.resource.SetInteractable(on)
}

func (p *Instance) listen() {
	if p.focus == nil || p.cancelScheme != nil {
		return
	}
	p.cancelScheme = p.focus.OnSchemeChange(func(scheme ControlScheme) {
		if p.state != Shown {
			return
		}
		p.hooks.OnFocusChange(p, scheme)
	})
}

func (p *Instance) transition(to State) error {
	if !CanTransition(p.state, to) {
		return &TransitionError{ID: p.id, From: p.state, To: to}
	}
	p.setState(to)
	return nil
}

func (p *Instance) setState(to State) {
	from := p.state
	p.state = to
	p.hooks.OnStateChanged(p, from, to)
	p.bus.Emit(Event{
		Type:     EventStateChanged,
		ID:       p.id,
		Template: p.template.ID,
		Group:    p.group,
		State:    to,
		Previous: from,
	})
}
