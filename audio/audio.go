// Package audio plays short tones on game events. It degrades to silence when
// no audio device is available.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/torus-snake/session"
	"github.com/hoshinonyaruko/torus-snake/structs"
)

const sampleRate = beep.SampleRate(44100)

// Tone is one blip.
type Tone struct {
	Freq     float64
	Duration time.Duration
}

var (
	EatTone   = Tone{Freq: 880, Duration: 60 * time.Millisecond}
	DeathTone = Tone{Freq: 220, Duration: 250 * time.Millisecond}
)

// Player mixes tones into the speaker.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the speaker. Calling it twice is a no-op.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues t. Without a speaker it does nothing.
func (p *Player) Play(t Tone) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	s, err := stream(t)
	if err != nil {
		log.Err(err).Float64("freq", t.Freq).Msg("tone")
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// HandleEvents plays the eat and death tones.
func (p *Player) HandleEvents(_ structs.Snapshot, ev session.Events) {
	if ev.Died {
		p.Play(DeathTone)
		return
	}
	if ev.Ate {
		p.Play(EatTone)
	}
}

// Close silences the mixer.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

func stream(t Tone) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, t.Freq)
	if err != nil {
		return nil, err
	}
	// 音量减半
	quiet := &effects.Volume{Streamer: sine, Base: 2, Volume: -1}
	return beep.Take(sampleRate.N(t.Duration), quiet), nil
}
