package core

// SoundType identifies a synthesized sound cue
type SoundType int

const (
	SoundLaser     SoundType = iota // Scan-hit beam discharge
	SoundTorpedo                    // Splash weapon launch
	SoundExplosion                  // Detonation or destruction
	SoundHit                        // Beam impact on armor
	SoundSuccess                    // Target destroyed chime
	SoundError                      // Rejected action buzz
	SoundTypeCount
)

var soundNames = [...]string{
	SoundLaser:     "laser",
	SoundTorpedo:   "torpedo",
	SoundExplosion: "explosion",
	SoundHit:       "hit",
	SoundSuccess:   "success",
	SoundError:     "error",
}

func (s SoundType) String() string {
	if s >= 0 && int(s) < len(soundNames) {
		return soundNames[s]
	}
	return "unknown"
}

// ParseSound maps a cue id to its type
func ParseSound(id string) (SoundType, bool) {
	for i, name := range soundNames {
		if name == id {
			return SoundType(i), true
		}
	}
	return 0, false
}
