package cue

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave selects the oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
)

type tone struct {
	freq  float64
	phase float64
	left  int
	wave  Wave
	rate  beep.SampleRate
}

// Tone generates freq Hz for d.
func Tone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, left: rate.N(d), wave: wave, rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.left <= 0 {
		return 0, false
	}
	for i := range samples {
		if t.left == 0 {
			return i, true
		}
		v := math.Sin(2 * math.Pi * t.phase)
		if t.wave == Square {
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		}
		samples[i][0], samples[i][1] = v, v
		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.left--
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// fade ramps s in over attack and out over the last release samples of a
// total of d.
type fade struct {
	s       beep.Streamer
	pos     int
	total   int
	attack  int
	release int
}

func Fade(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &fade{s: s, total: rate.N(d), attack: rate.N(attack), release: rate.N(release)}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.s.Stream(samples)
	for i := 0; i < n; i++ {
		g := 1.0
		if f.attack > 0 && f.pos < f.attack {
			g = float64(f.pos) / float64(f.attack)
		}
		if rem := f.total - f.pos; f.release > 0 && rem < f.release {
			g = math.Max(0, float64(rem)/float64(f.release))
		}
		samples[i][0] *= g
		samples[i][1] *= g
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.s.Err() }

// gain wraps s in a base-2 volume effect. vol <= 0 is silent.
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
