// Package cue plays short audio chimes when panels open and close.
package cue

import (
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/jask/panelkit/internal/panel"
)

// SampleRate is the output rate used for every cue.
const SampleRate = beep.SampleRate(44100)

// Kind names a cue.
type Kind int

const (
	KindOpen Kind = iota
	KindClose
	KindRefuse
)

func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindClose:
		return "close"
	case KindRefuse:
		return "refuse"
	}
	return "unknown"
}

// Player sinks finished streamers.
type Player interface {
	Play(kind Kind, s beep.Streamer)
}

// Cues turns panel lifecycle events into chimes.
type Cues struct {
	mu     sync.Mutex
	player Player
	volume float64
	muted  bool
}

func New(player Player, volume float64) *Cues {
	return &Cues{player: player, volume: volume}
}

// Listen is a panel.Listener.
func (c *Cues) Listen(ev panel.Event) {
	switch ev.Type {
	case panel.EventOpened:
		c.Play(KindOpen)
	case panel.EventClosed:
		c.Play(KindClose)
	}
}

// Attach subscribes c to the manager's opened and closed events.
func (c *Cues) Attach(m *panel.Manager) (detach func()) {
	return m.Subscribe(c.Listen, panel.EventOpened, panel.EventClosed)
}

func (c *Cues) Play(kind Kind) {
	c.mu.Lock()
	muted, vol := c.muted, c.volume
	c.mu.Unlock()
	if muted || c.player == nil {
		return
	}
	c.player.Play(kind, gain(Build(kind), vol))
}

func (c *Cues) SetMuted(m bool) {
	c.mu.Lock()
	c.muted = m
	c.mu.Unlock()
}

func (c *Cues) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Build returns the unscaled streamer for kind.
func Build(kind Kind) beep.Streamer {
	const note = 70 * time.Millisecond
	chime := func(freq float64) beep.Streamer {
		return Fade(Tone(freq, note, Sine, SampleRate), note, 5*time.Millisecond, 30*time.Millisecond, SampleRate)
	}
	switch kind {
	case KindOpen:
		return beep.Seq(chime(523.25), chime(783.99))
	case KindClose:
		return beep.Seq(chime(783.99), chime(523.25))
	default:
		buzz := 120 * time.Millisecond
		return Fade(Tone(110, buzz, Square, SampleRate), buzz, 2*time.Millisecond, 40*time.Millisecond, SampleRate)
	}
}
