package effects

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/service"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Kind classifies a transient visual
type Kind uint8

const (
	KindMuzzleFlash Kind = iota
	KindLaserBeam
	KindExplosion
)

func (k Kind) String() string {
	switch k {
	case KindLaserBeam:
		return "beam"
	case KindExplosion:
		return "explosion"
	}
	return "flash"
}

// Visual is one short-lived effect in world space
// Beams span From..To; flashes and explosions sit at From
type Visual struct {
	Kind      Kind
	Weapon    string
	From, To  vmath.Vec3
	RadiusM   float64
	Explosion service.ExplosionKind
	Expires   time.Time
}

// TrailPoint is the last sampled head of a projectile trail
type TrailPoint struct {
	ID       string
	Kind     string
	Start    vmath.Vec3
	Position vmath.Vec3
}

// SoundPlayer is the audio sink; implemented by audio.Player
type SoundPlayer interface {
	Play(st core.SoundType, volume float64) bool
}

// Clock supplies game time for effect lifetimes
type Clock interface {
	Now() time.Time
}

type trail struct {
	point TrailPoint
	mover func() vmath.Vec3
}

// Manager implements service.Effects
// Visuals expire by game time; trails are sampled from the tick goroutine
// so movers never race projectile state
type Manager struct {
	mu       sync.Mutex
	clock    Clock
	listener func() vmath.Vec3
	sounds   SoundPlayer
	visuals  []Visual
	trails   map[string]*trail
	log      zerolog.Logger
}

// NewManager builds an effects manager; listener locates the ear for
// positional attenuation and sounds may be nil
func NewManager(clock Clock, listener func() vmath.Vec3, sounds SoundPlayer, log zerolog.Logger) *Manager {
	return &Manager{
		clock:    clock,
		listener: listener,
		sounds:   sounds,
		visuals:  make([]Visual, 0, parameter.EffectsCapacity),
		trails:   make(map[string]*trail),
		log:      log.With().Str("component", "effects").Logger(),
	}
}

func (m *Manager) add(v Visual) {
	m.mu.Lock()
	if len(m.visuals) >= parameter.EffectsCapacity {
		copy(m.visuals, m.visuals[1:])
		m.visuals = m.visuals[:len(m.visuals)-1]
	}
	m.visuals = append(m.visuals, v)
	m.mu.Unlock()
}

func (m *Manager) CreateMuzzleFlash(pos, dir vmath.Vec3, weaponType string, d time.Duration) {
	if d <= 0 {
		d = parameter.LaserBeamDuration
	}
	m.add(Visual{
		Kind:    KindMuzzleFlash,
		Weapon:  weaponType,
		From:    pos,
		To:      vmath.Add(pos, vmath.Normalize(dir)),
		Expires: m.clock.Now().Add(d),
	})
	cue := core.SoundLaser
	if isOrdnance(weaponType) {
		cue = core.SoundTorpedo
	}
	m.play(cue, &pos, 1)
}

func (m *Manager) CreateLaserBeam(from, to vmath.Vec3, weaponType string) {
	m.add(Visual{
		Kind:    KindLaserBeam,
		Weapon:  weaponType,
		From:    from,
		To:      to,
		Expires: m.clock.Now().Add(parameter.LaserBeamDuration),
	})
}

func (m *Manager) CreateExplosion(pos vmath.Vec3, radiusM float64, kind service.ExplosionKind, soundPos *vmath.Vec3) {
	d := parameter.ExplosionDuration
	if kind == service.ExplosionTorpedo {
		d = parameter.TorpedoExplosionDuration
	}
	m.add(Visual{
		Kind:      KindExplosion,
		From:      pos,
		To:        pos,
		RadiusM:   radiusM,
		Explosion: kind,
		Expires:   m.clock.Now().Add(d),
	})
	if kind == service.ExplosionSilent {
		return
	}
	if soundPos == nil {
		soundPos = &pos
	}
	m.play(core.SoundExplosion, soundPos, 1)
}

// PlaySound resolves a cue id; "destruction" is the ship-loss cue
func (m *Manager) PlaySound(id string, pos *vmath.Vec3, volume float64) {
	st, ok := core.ParseSound(id)
	if !ok && strings.EqualFold(id, "destruction") {
		st, ok = core.SoundExplosion, true
	}
	if !ok {
		m.log.Debug().Str("sound", id).Msg("unknown cue")
		return
	}
	m.play(st, pos, volume)
}

func (m *Manager) PlaySuccessSound(pos *vmath.Vec3, volume float64) {
	m.play(core.SoundSuccess, pos, volume)
}

func (m *Manager) CreateProjectileTrail(id, kind string, start vmath.Vec3, mover func() vmath.Vec3) {
	m.mu.Lock()
	m.trails[id] = &trail{
		point: TrailPoint{ID: id, Kind: kind, Start: start, Position: start},
		mover: mover,
	}
	m.mu.Unlock()
}

func (m *Manager) RemoveProjectileTrail(id string) {
	m.mu.Lock()
	delete(m.trails, id)
	m.mu.Unlock()
}

// play attenuates by distance from the listener; pos nil plays flat
func (m *Manager) play(st core.SoundType, pos *vmath.Vec3, volume float64) {
	if m.sounds == nil {
		return
	}
	if pos != nil && m.listener != nil {
		volume = Attenuate(volume, vmath.Distance(*pos, m.listener()))
	}
	if volume < parameter.SoundMinVolume {
		return
	}
	m.sounds.Play(st, volume)
}

// Attenuate scales volume so it halves at SoundFalloffKm
func Attenuate(volume, distKm float64) float64 {
	if distKm <= 0 {
		return volume
	}
	return volume / (1 + distKm/parameter.SoundFalloffKm)
}

func isOrdnance(weaponType string) bool {
	w := strings.ToLower(weaponType)
	return strings.Contains(w, "torpedo") || strings.Contains(w, "missile")
}

// Update drops expired visuals and samples trail heads
// Must run on the tick goroutine
func (m *Manager) Update() {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.visuals[:0]
	for _, v := range m.visuals {
		if v.Expires.After(now) {
			live = append(live, v)
		}
	}
	clear(m.visuals[len(live):])
	m.visuals = live

	for _, t := range m.trails {
		if t.mover != nil {
			t.point.Position = t.mover()
		}
	}
}

// Frame is a consistent copy of live effects
type Frame struct {
	Visuals []Visual
	Trails  []TrailPoint
}

// Snapshot copies live effects; trails are ordered by id
func (m *Manager) Snapshot() Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := Frame{
		Visuals: make([]Visual, len(m.visuals)),
		Trails:  make([]TrailPoint, 0, len(m.trails)),
	}
	copy(f.Visuals, m.visuals)
	for _, t := range m.trails {
		f.Trails = append(f.Trails, t.point)
	}
	sort.Slice(f.Trails, func(i, j int) bool { return f.Trails[i].ID < f.Trails[j].ID })
	return f
}

var _ service.Effects = (*Manager)(nil)
