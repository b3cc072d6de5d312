package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/panelkit/internal/panel"
)

// Effect tints the frame border for a number of frames.
type Effect struct {
	Color  lipgloss.Color
	Frames int
}

var (
	flashOpen   = lipgloss.Color("#5FD7FF")
	flashRefuse = lipgloss.Color("#FF5F5F")
)

type runningEffect struct {
	Effect
	left int
	done *panel.Future
}

// EffectDriver plays one effect at a time; a new effect supersedes the
// running one, which then completes early.
type EffectDriver struct {
	cur *runningEffect
}

func (d *EffectDriver) ApplyEffect(e Effect) *panel.Future {
	if d.cur != nil {
		d.cur.done.Resolve()
		d.cur = nil
	}
	if e.Frames <= 0 {
		return panel.Resolved()
	}
	d.cur = &runningEffect{Effect: e, left: e.Frames, done: panel.NewFuture()}
	return d.cur.done
}

func (d *EffectDriver) Step() {
	if d.cur == nil {
		return
	}
	d.cur.left--
	if d.cur.left <= 0 {
		d.cur.done.Resolve()
		d.cur = nil
	}
}

func (d *EffectDriver) Active() (Effect, bool) {
	if d.cur == nil {
		return Effect{}, false
	}
	return d.cur.Effect, true
}
