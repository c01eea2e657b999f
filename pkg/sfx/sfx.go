// Package sfx plays short blips for companion cues.
package sfx

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/b/ratrak/pkg/companion"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Tone describes one blip.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Volume   float64
}

// Tones maps cues to blips.
var Tones = map[companion.Cue]Tone{
	companion.CueBubble: {Freq: 880, Duration: 60 * time.Millisecond, Volume: 0.12},
	companion.CueBump:   {Freq: 220, Duration: 90 * time.Millisecond, Volume: 0.18},
}

// Player owns the speaker. The zero value is not usable; call New.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func New() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the audio device. Callers treat failure as "no sound".
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues the blip for cue. Unknown cues and an uninitialized
// player are silent.
func (p *Player) Play(cue companion.Cue) {
	tone, ok := Tones[cue]
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(NewBlip(tone, sampleRate))
	speaker.Unlock()
}

// Close silences everything. beep has no speaker close; clearing the
// mixer is enough to stop output.
func (p *Player) Close() {
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

// blip is a sine tone with a linear attack and exponential decay.
type blip struct {
	tone   Tone
	rate   beep.SampleRate
	pos    int
	total  int
	attack int
}

// NewBlip returns a finite streamer for tone.
func NewBlip(tone Tone, rate beep.SampleRate) beep.Streamer {
	total := rate.N(tone.Duration)
	return &blip{tone: tone, rate: rate, total: total, attack: rate.N(4 * time.Millisecond)}
}

func (b *blip) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if b.pos >= b.total {
			return i, i > 0
		}
		t := float64(b.pos) / float64(b.rate)
		env := math.Exp(-6 * float64(b.pos) / float64(b.total))
		if b.pos < b.attack {
			env *= float64(b.pos) / float64(b.attack)
		}
		v := b.tone.Volume * env * math.Sin(2*math.Pi*b.tone.Freq*t)
		samples[i][0] = v
		samples[i][1] = v
		b.pos++
	}
	return len(samples), true
}

func (b *blip) Err() error { return nil }
