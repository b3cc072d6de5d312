package tui

import (
	"fmt"
	"slices"

	"github.com/jask/panelkit/internal/panel"
	"github.com/jask/panelkit/internal/pool"
)

// view is the terminal rendition of a panel. Its level animates between
// 0 (hidden) and 1 (shown), one step per frame.
type view struct {
	template     string
	group        string
	pos          panel.Position
	level        float64
	dir          int
	showFrames   int
	hideFrames   int
	pending      *panel.Future
	interactable bool
}

func (v *view) Show() *panel.Future {
	return v.animate(1, v.showFrames)
}

func (v *view) Hide() *panel.Future {
	return v.animate(-1, v.hideFrames)
}

func (v *view) animate(dir, frames int) *panel.Future {
	// A superseded animation still completes for whoever waits on it.
	v.pending.Resolve()
	v.pending = nil
	if frames <= 0 {
		v.finish(dir)
		return panel.Resolved()
	}
	v.dir = dir
	v.pending = panel.NewFuture()
	return v.pending
}

// Snap settles at s's resting level. Transitional states are ignored.
func (v *view) Snap(s panel.State) {
	switch s {
	case panel.Shown:
		v.finish(1)
	case panel.Hidden:
		v.finish(-1)
	}
}

func (v *view) step() {
	switch v.dir {
	case 1:
		v.level += 1 / float64(max(v.showFrames, 1))
		if v.level >= 1 {
			v.finish(1)
		}
	case -1:
		v.level -= 1 / float64(max(v.hideFrames, 1))
		if v.level <= 0 {
			v.finish(-1)
		}
	}
}

func (v *view) finish(dir int) {
	v.level = 0
	if dir > 0 {
		v.level = 1
	}
	v.dir = 0
	if v.pending != nil {
		v.pending.Resolve()
		v.pending = nil
	}
}

func (v *view) SetInteractable(on bool) { v.interactable = on }

func resetView(v *view) {
	v.pending.Resolve()
	*v = view{}
}

// Layer is a read-only snapshot of one view, bottom first.
type Layer struct {
	Template     string
	Group        string
	Level        float64
	Animating    bool
	Interactable bool
}

// Factory hands out pooled views and keeps them in sibling order.
type Factory struct {
	pool       *pool.Pool[*view]
	layers     []*view
	showFrames int
	hideFrames int
}

// NewFactory builds a factory holding at most size live views.
func NewFactory(size, showFrames, hideFrames int) *Factory {
	return &Factory{
		pool:       pool.New(size, func() *view { return &view{} }, resetView),
		showFrames: showFrames,
		hideFrames: hideFrames,
	}
}

func (f *Factory) Acquire(t *panel.Template, group string, pos panel.Position) (panel.Resource, error) {
	v, err := f.pool.Acquire()
	if err != nil {
		return nil, fmt.Errorf("acquire view %s: %w", t.ID, err)
	}
	v.template = t.ID
	v.group = group
	v.pos = pos
	v.showFrames = f.showFrames
	v.hideFrames = f.hideFrames
	f.layers = slices.Insert(f.layers, pos.Resolve(len(f.layers)), v)
	return v, nil
}

func (f *Factory) Release(r panel.Resource) {
	v, ok := r.(*view)
	if !ok {
		return
	}
	if i := slices.Index(f.layers, v); i >= 0 {
		f.layers = slices.Delete(f.layers, i, i+1)
	}
	f.pool.Release(v)
}

// Step advances every animation by one frame.
func (f *Factory) Step() {
	for _, v := range f.layers {
		v.step()
	}
}

func (f *Factory) Layers() []Layer {
	out := make([]Layer, 0, len(f.layers))
	for _, v := range f.layers {
		out = append(out, Layer{
			Template:     v.template,
			Group:        v.group,
			Level:        v.level,
			Animating:    v.dir != 0,
			Interactable: v.interactable,
		})
	}
	return out
}

func (f *Factory) Stats() pool.Stats { return f.pool.Stats() }
