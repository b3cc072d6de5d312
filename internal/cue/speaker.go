package cue

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SpeakerPlayer mixes cues onto the system audio device.
type SpeakerPlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewSpeakerPlayer() *SpeakerPlayer {
	return &SpeakerPlayer{mixer: &beep.Mixer{}}
}

// Init opens the audio device. Calling it twice is a no-op.
func (p *SpeakerPlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

func (p *SpeakerPlayer) Play(_ Kind, s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences anything still playing.
func (p *SpeakerPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}
