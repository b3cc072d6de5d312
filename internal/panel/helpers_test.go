package panel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeResource records calls and hands out futures the test resolves.
type fakeResource struct {
	manual       bool
	showF, hideF *Future
	shows, hides int
	snapped      []State
	group        string
	interactable bool
	released     bool
	pos          Position
}

func (r *fakeResource) Show() *Future {
	r.shows++
	if !r.manual {
		return Resolved()
	}
	r.showF = NewFuture()
	return r.showF
}

func (r *fakeResource) Hide() *Future {
	r.hides++
	if !r.manual {
		return Resolved()
	}
	r.hideF = NewFuture()
	return r.hideF
}

func (r *fakeResource) Snap(s State)            { r.snapped = append(r.snapped, s) }
func (r *fakeResource) SetInteractable(on bool) { r.interactable = on }

type fakeFactory struct {
	manual   bool
	fail     error
	byTmpl   map[string]*fakeResource
	acquired int
	released int
}

func newFakeFactory(manual bool) *fakeFactory {
	return &fakeFactory{manual: manual, byTmpl: make(map[string]*fakeResource)}
}

func (f *fakeFactory) Acquire(t *Template, group string, pos Position) (Resource, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.acquired++
	r := &fakeResource{manual: f.manual, group: group, pos: pos}
	f.byTmpl[t.ID] = r
	return r, nil
}

func (f *fakeFactory) Release(r Resource) {
	f.released++
	r.(*fakeResource).released = true
}

type fakeFocus struct {
	scheme    ControlScheme
	selected  []string
	listeners map[int]func(ControlScheme)
	next      int
}

func newFakeFocus(scheme ControlScheme) *fakeFocus {
	return &fakeFocus{scheme: scheme, listeners: make(map[int]func(ControlScheme))}
}

func (f *fakeFocus) ControlScheme() ControlScheme    { return f.scheme }
func (f *fakeFocus) SelectFocusTarget(target string) { f.selected = append(f.selected, target) }

func (f *fakeFocus) OnSchemeChange(fn func(ControlScheme)) func() {
	f.next++
	id := f.next
	f.listeners[id] = fn
	return func() { delete(f.listeners, id) }
}

func (f *fakeFocus) set(s ControlScheme) {
	f.scheme = s
	for _, fn := range f.listeners {
		fn(s)
	}
}

// recorder captures every notification in order.
type recorder struct {
	events []Event
}

func (r *recorder) listen(e Event) { r.events = append(r.events, e) }

func (r *recorder) count(t EventType, id string) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t && e.ID == id {
			n++
		}
	}
	return n
}

// path returns the states id moved through, starting with the initial one.
func (r *recorder) path(id string) []State {
	var out []State
	for _, e := range r.events {
		if e.Type != EventStateChanged || e.ID != id {
			continue
		}
		out = append(out, e.State)
	}
	return out
}

func testTemplates() []Template {
	return []Template{
		{ID: "pause", Group: "menu", DefaultFocus: "resume", CloseOnCancel: true},
		{ID: "settings", Group: "menu", DefaultFocus: "volume", CloseOnCancel: true},
		{ID: "confirm", Group: "modal", DefaultFocus: "ok"},
		{ID: "confirm2", Group: "modal", DefaultFocus: "ok"},
		{ID: "toast", Group: "toast"},
		{ID: "hud"},
	}
}

type harness struct {
	m       *Manager
	factory *fakeFactory
	focus   *fakeFocus
	rec     *recorder
}

func newHarness(t *testing.T, manual bool, identity Identity) *harness {
	t.Helper()
	cat, err := NewCatalog(testTemplates()...)
	require.NoError(t, err)
	h := &harness{factory: newFakeFactory(manual), focus: newFakeFocus(Pointer), rec: &recorder{}}
	h.m, err = NewManager(Options{
		Catalog:  cat,
		Factory:  h.factory,
		Focus:    h.focus,
		Identity: identity,
		Logger:   DiscardLogger(),
	})
	require.NoError(t, err)
	h.m.Subscribe(h.rec.listen)
	return h
}

func (h *harness) res(tmpl string) *fakeResource { return h.factory.byTmpl[tmpl] }

func (h *harness) finishShow(tmpl string) {
	h.res(tmpl).showF.Resolve()
	h.m.Update()
}

func (h *harness) finishHide(tmpl string) {
	h.res(tmpl).hideF.Resolve()
	h.m.Update()
}

func (h *harness) open(t *testing.T, id string, cfg *Config) *Instance {
	t.Helper()
	p, err := h.m.Open(id, cfg)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func limit(l LimitOverride) *Config { return &Config{LimitOverride: l} }
