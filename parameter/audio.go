package parameter

import "time"

// Audio Engine
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond

	// MinSoundGap between two plays of the same cue
	MinSoundGap = 40 * time.Millisecond

	// AudioMaxVoices caps concurrently mixed cues
	AudioMaxVoices = 16
)

// Laser Cue
const (
	LaserSoundDuration = 140 * time.Millisecond
	LaserStartFreq     = 1800.0 // Hz
	LaserEndFreq       = 400.0  // Hz
	LaserSoundRelease  = 60 * time.Millisecond
)

// Torpedo Launch Cue
const (
	TorpedoSoundDuration = 350 * time.Millisecond
	TorpedoStartFreq     = 180.0
	TorpedoEndFreq       = 520.0
	TorpedoSoundAttack   = 40 * time.Millisecond
)

// Explosion Cue (noise burst)
const (
	ExplosionSoundDuration = 700 * time.Millisecond
	ExplosionSoundAttack   = 5 * time.Millisecond
	ExplosionDecayRate     = 180 * time.Millisecond
)

// Hit Cue (metallic transient)
const (
	HitSoundDuration   = 120 * time.Millisecond
	HitTransientLength = 4 * time.Millisecond
	HitFreq            = 620.0
)

// Success Cue (two-note chime)
const (
	SuccessNote1Duration = 90 * time.Millisecond
	SuccessNote2Duration = 260 * time.Millisecond
	SuccessNote1Freq     = 988.0  // B5
	SuccessNote2Freq     = 1319.0 // E6
)

// Error Cue
const (
	ErrorSoundDuration = 90 * time.Millisecond
	ErrorSoundFreq     = 110.0
)
