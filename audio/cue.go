package audio

import (
	"github.com/gopxl/beep"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/parameter"
)

// Cue builds a fresh unity-gain streamer for st; nil for unknown cues
func Cue(st core.SoundType, rate beep.SampleRate, seed uint64) beep.Streamer {
	switch st {
	case core.SoundLaser:
		osc := NewSweep(parameter.LaserStartFreq, parameter.LaserEndFreq, parameter.LaserSoundDuration, WaveSaw, rate, seed)
		return NewEnvelope(osc, parameter.LaserSoundDuration, 0, parameter.LaserSoundRelease, rate)

	case core.SoundTorpedo:
		osc := NewSweep(parameter.TorpedoStartFreq, parameter.TorpedoEndFreq, parameter.TorpedoSoundDuration, WaveSquare, rate, seed)
		return NewEnvelope(osc, parameter.TorpedoSoundDuration, parameter.TorpedoSoundAttack, parameter.TorpedoSoundDuration/2, rate)

	case core.SoundExplosion:
		noise := NewSweep(0, 0, parameter.ExplosionSoundDuration, WaveNoise, rate, seed)
		rumble := NewSweep(60, 30, parameter.ExplosionSoundDuration, WaveSine, rate, seed)
		mixed := beep.Mix(newVolume(noise, 0.7), newVolume(rumble, 0.3))
		shaped := NewEnvelope(mixed, parameter.ExplosionSoundDuration, parameter.ExplosionSoundAttack, 0, rate)
		return NewDecay(shaped, parameter.ExplosionDecayRate, rate)

	case core.SoundHit:
		click := NewSweep(0, 0, parameter.HitTransientLength, WaveNoise, rate, seed)
		ring := NewSweep(parameter.HitFreq, parameter.HitFreq, parameter.HitSoundDuration-parameter.HitTransientLength, WaveSine, rate, seed)
		return beep.Seq(click, NewDecay(ring, parameter.HitSoundDuration/4, rate))

	case core.SoundSuccess:
		n1 := NewSweep(parameter.SuccessNote1Freq, parameter.SuccessNote1Freq, parameter.SuccessNote1Duration, WaveSquare, rate, seed)
		n2 := NewSweep(parameter.SuccessNote2Freq, parameter.SuccessNote2Freq, parameter.SuccessNote2Duration, WaveSquare, rate, seed)
		return beep.Seq(
			NewEnvelope(n1, parameter.SuccessNote1Duration, 0, parameter.SuccessNote1Duration/2, rate),
			NewEnvelope(n2, parameter.SuccessNote2Duration, 0, parameter.SuccessNote2Duration*3/4, rate),
		)

	case core.SoundError:
		osc := NewSweep(parameter.ErrorSoundFreq, parameter.ErrorSoundFreq, parameter.ErrorSoundDuration, WaveSaw, rate, seed)
		return NewEnvelope(osc, parameter.ErrorSoundDuration, 0, parameter.ErrorSoundDuration/4, rate)
	}
	return nil
}
