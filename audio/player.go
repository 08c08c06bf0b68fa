package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/config"
	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Player mixes cues into the speaker
// Without an audio device it degrades to silent mode; Play then reports false
type Player struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	mixer  *beep.Mixer
	volume float64
	last   [core.SoundTypeCount]time.Time
	rng    *vmath.FastRand

	enabled bool
	running atomic.Bool
	silent  atomic.Bool
	muted   atomic.Bool

	played  atomic.Uint64
	dropped atomic.Uint64

	lock, unlock func()
	now          func() time.Time
	log          zerolog.Logger
}

func New(cfg config.AudioConfig, log zerolog.Logger) *Player {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = parameter.AudioSampleRate
	}
	return &Player{
		rate:    beep.SampleRate(rate),
		mixer:   &beep.Mixer{},
		volume:  vmath.Clamp(cfg.Volume, 0, 1),
		rng:     vmath.NewFastRand(uint64(time.Now().UnixNano())),
		enabled: cfg.Enabled,
		lock:    speaker.Lock,
		unlock:  speaker.Unlock,
		now:     time.Now,
		log:     log.With().Str("component", "audio").Logger(),
	}
}

func (p *Player) Name() string { return "audio" }

// Start opens the speaker; failure is logged and leaves the player silent
func (p *Player) Start() error {
	if !p.running.CompareAndSwap(false, true) {
		return nil
	}
	if !p.enabled {
		p.silent.Store(true)
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(parameter.AudioBufferDuration)); err != nil {
		p.log.Warn().Err(err).Msg("no audio device, running silent")
		p.silent.Store(true)
		return nil
	}
	speaker.Play(p.mixer)
	p.log.Info().Int("rate", int(p.rate)).Msg("audio started")
	return nil
}

func (p *Player) Stop() error {
	if !p.running.CompareAndSwap(true, false) {
		return nil
	}
	if !p.silent.Load() {
		speaker.Clear()
	}
	return nil
}

// Play queues cue st at volume (0..1) scaled by the master volume
func (p *Player) Play(st core.SoundType, volume float64) bool {
	if !p.running.Load() || p.silent.Load() || p.muted.Load() {
		return false
	}
	p.mu.Lock()
	now := p.now()
	if int(st) < 0 || st >= core.SoundTypeCount || now.Sub(p.last[st]) < parameter.MinSoundGap {
		p.mu.Unlock()
		p.dropped.Add(1)
		return false
	}
	p.last[st] = now
	s := Cue(st, p.rate, p.rng.Next())
	gain := vmath.Clamp(volume, 0, 1) * p.volume
	p.mu.Unlock()

	p.lock()
	full := p.mixer.Len() >= parameter.AudioMaxVoices
	if !full {
		p.mixer.Add(newVolume(s, gain))
	}
	p.unlock()

	if full {
		p.dropped.Add(1)
		return false
	}
	p.played.Add(1)
	return true
}

// ToggleMute flips mute; returns true when sound is now on
func (p *Player) ToggleMute() bool {
	for {
		cur := p.muted.Load()
		if p.muted.CompareAndSwap(cur, !cur) {
			return cur
		}
	}
}

func (p *Player) IsMuted() bool  { return p.muted.Load() }
func (p *Player) IsSilent() bool { return p.silent.Load() }

// Stats returns played and dropped cue counts
func (p *Player) Stats() (played, dropped uint64) {
	return p.played.Load(), p.dropped.Load()
}
