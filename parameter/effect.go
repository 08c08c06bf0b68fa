package parameter

import "time"

// Effect Lifetimes
const (
	// LaserBeamDuration is how long a scan-hit beam stays visible
	LaserBeamDuration = 150 * time.Millisecond

	// ExplosionDuration is the lifetime of an explosion visual
	ExplosionDuration = 600 * time.Millisecond

	// TorpedoExplosionDuration is the lifetime of a splash detonation visual
	TorpedoExplosionDuration = 1200 * time.Millisecond

	// EffectsCapacity bounds live visuals; the oldest is evicted first
	EffectsCapacity = 256
)

// Sound Cue Attenuation
const (
	// SoundFalloffKm is the distance at which positional cues drop to half volume
	SoundFalloffKm = 10.0

	// SoundMinVolume mutes cues quieter than this after attenuation
	SoundMinVolume = 0.02
)
