package projectile

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/config"
	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/service"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/status"
	"github.com/lixenwraith/void-fighter/vmath"
)

var ErrInvalidLaunch = errors.New("projectile: zero launch direction")

// Miss reasons surfaced on EventWeaponMiss
const (
	MissExpiredRange = "flight_range"
	MissExpiredTime  = "lifetime"
	MissNoShip       = "no_damageable_ship"
)

// ShipLookup resolves the ship behind an entity back-reference
type ShipLookup interface {
	Ship(id core.Entity) (*ship.Ship, bool)
}

// Remover defers entity removal to the next tick
type Remover interface {
	ScheduleRemoval(id core.Entity)
}

// Env is the collaborator set a Manager drives
type Env struct {
	Clock    core.Clock
	Physics  physics.Engine
	Effects  service.Effects
	HUD      service.HUD
	Ships    ShipLookup
	Removals Remover
	Events   event.Sink
	Status   *status.Registry
	Log      zerolog.Logger
}

// Options tunes speeds, collision sizing and expiry
type Options struct {
	HomingSpeedMS   float64
	DirectSpeedMS   float64
	PhysicsRateHz   float64
	MaxLifetime     time.Duration
	ExpiryCheck     time.Duration
	DefaultTargetKm float64
}

func DefaultOptions() Options {
	return Options{
		HomingSpeedMS:   parameter.ProjectileHomingSpeed,
		DirectSpeedMS:   parameter.ProjectileDirectSpeed,
		PhysicsRateHz:   parameter.PhysicsRateHz,
		MaxLifetime:     parameter.ProjectileMaxLifetime,
		ExpiryCheck:     parameter.ProjectileExpiryCheckInterval,
		DefaultTargetKm: parameter.ProjectileDefaultTargetKm,
	}
}

// OptionsFromConfig maps the projectile config section, keeping defaults for unset fields
func OptionsFromConfig(c config.ProjectileConfig) Options {
	o := DefaultOptions()
	if c.HomingSpeed > 0 {
		o.HomingSpeedMS = c.HomingSpeed
	}
	if c.DirectSpeed > 0 {
		o.DirectSpeedMS = c.DirectSpeed
	}
	if c.PhysicsRateHz > 0 {
		o.PhysicsRateHz = c.PhysicsRateHz
	}
	if c.MaxLifetimeMs > 0 {
		o.MaxLifetime = c.MaxLifetime()
	}
	if c.ExpiryCheckMs > 0 {
		o.ExpiryCheck = c.ExpiryCheck()
	}
	if c.DefaultTargetKm > 0 {
		o.DefaultTargetKm = c.DefaultTargetKm
	}
	return o
}

// Manager owns every in-flight projectile
// Single-threaded; driven from the tick loop
type Manager struct {
	env  Env
	opts Options
	log  zerolog.Logger

	order  []*Projectile
	byBody map[physics.BodyID]*Projectile
	nextID uint64

	sinceExpiry time.Duration

	statActive    *atomic.Int64
	statLaunched  *atomic.Int64
	statDetonated *atomic.Int64
	statExpired   *atomic.Int64
}

func NewManager(env Env, opts Options) *Manager {
	if env.Effects == nil {
		env.Effects = service.NopEffects{}
	}
	if env.HUD == nil {
		env.HUD = service.NopHUD{}
	}
	if env.Events == nil {
		env.Events = event.Discard{}
	}
	if env.Status == nil {
		env.Status = status.NewRegistry()
	}
	return &Manager{
		env:           env,
		opts:          opts,
		log:           env.Log.With().Str("component", "projectile").Logger(),
		byBody:        make(map[physics.BodyID]*Projectile),
		statActive:    env.Status.Ints.Get(parameter.StatProjectileActive),
		statLaunched:  env.Status.Ints.Get(parameter.StatProjectileFired),
		statDetonated: env.Status.Ints.Get(parameter.StatProjectileHit),
		statExpired:   env.Status.Ints.Get(parameter.StatProjectileExpire),
	}
}

// Active returns in-flight projectiles in launch order
func (m *Manager) Active() []*Projectile {
	out := make([]*Projectile, len(m.order))
	copy(out, m.order)
	return out
}

func (m *Manager) Count() int { return len(m.order) }

// Position returns the current world position of p
func (m *Manager) Position(p *Projectile) vmath.Vec3 {
	if p.ballistic != nil {
		return p.ballistic.Position
	}
	if p.body != 0 && m.env.Physics != nil {
		if pos, ok := m.env.Physics.BodyPosition(p.body); ok {
			p.lastPos = pos
		}
	}
	return p.lastPos
}

// Launch spawns a projectile
// Falls back to ballistic integration when the engine cannot host rigid bodies
func (m *Manager) Launch(req LaunchRequest) (*Projectile, error) {
	dir := vmath.Normalize(req.Direction)
	if vmath.Mag(dir) == 0 {
		return nil, ErrInvalidLaunch
	}

	speed := req.Spec.SpeedMS
	if speed <= 0 {
		if req.Spec.Homing {
			speed = m.opts.HomingSpeedMS
		} else {
			speed = m.opts.DirectSpeedMS
		}
	}
	if req.Spec.FlightRangeM <= 0 {
		req.Spec.FlightRangeM = m.opts.DefaultTargetKm * vmath.MetersPerUnit
	}

	hasTarget := req.Target != nil
	distKm := m.opts.DefaultTargetKm
	if hasTarget {
		distKm = vmath.Distance(req.Origin, req.Target.Position)
		if req.Target.DistanceM > 0 {
			distKm = req.Target.DistanceM / vmath.MetersPerUnit
		}
	}

	now := m.env.Clock.Now()
	m.nextID++
	p := &Projectile{
		ID:         fmt.Sprintf("proj-%d", m.nextID),
		Spec:       req.Spec,
		Owner:      req.Owner,
		Target:     req.Target.Clone(),
		LaunchTime: now,
		Start:      req.Origin,
		SpeedMS:    speed,
		RadiusM:    CollisionRadiusM(hasTarget, distKm, speed, m.opts.PhysicsRateHz),
		Delay:      CollisionDelay(distKm, speed),
		lastPos:    req.Origin,
	}
	p.allowAfter = now.Add(p.Delay)
	vel := vmath.Scale(dir, speed/vmath.MetersPerUnit)

	if err := m.spawnBody(p, vel); err != nil {
		if !errors.Is(err, physics.ErrNotReady) {
			return nil, err
		}
		p.ballistic = &physics.Ballistic{Position: req.Origin, Velocity: vel, RadiusM: p.RadiusM}
		m.env.HUD.ShowMessage("Physics offline: projectile accuracy reduced", 2*time.Second)
		m.log.Warn().Str("id", p.ID).Msg("physics not ready, ballistic flight")
	}

	m.order = append(m.order, p)
	m.statActive.Store(int64(len(m.order)))
	m.statLaunched.Add(1)
	m.env.Effects.CreateProjectileTrail(p.ID, p.Spec.WeaponType, p.Start, func() vmath.Vec3 { return m.Position(p) })
	m.env.Events.Emit(event.EventProjectileLaunched, &event.ProjectilePayload{
		ID:        p.ID,
		Weapon:    p.Spec.WeaponName,
		Owner:     p.Owner,
		Target:    targetEntity(p),
		DistanceM: distKm * vmath.MetersPerUnit,
	})
	m.log.Debug().Str("id", p.ID).Str("weapon", p.Spec.WeaponName).
		Float64("radius_m", p.RadiusM).Dur("delay", p.Delay).Bool("ballistic", p.IsBallistic()).Msg("launched")
	return p, nil
}

func (m *Manager) spawnBody(p *Projectile, vel vmath.Vec3) error {
	if m.env.Physics == nil || !m.env.Physics.Ready() {
		return physics.ErrNotReady
	}
	id, err := m.env.Physics.CreateRigidBody(physics.BodyConfig{
		Mass:        parameter.ProjectileMass,
		Restitution: parameter.ProjectileRestitution,
		Friction:    parameter.ProjectileFriction,
		Shape:       physics.ShapeSphere,
		RadiusM:     p.RadiusM,
		Position:    p.Start,
		Velocity:    vel,
		Record: physics.EntityRecord{
			Kind:   core.KindProjectile,
			Name:   p.ID,
			TypeID: p.Spec.WeaponType,
		},
		ProjectileSpeed: p.SpeedMS,
	})
	if err != nil {
		return err
	}
	p.body = id
	m.byBody[id] = p
	return nil
}

// Update re-aims homing projectiles, advances ballistic ones and runs the
// periodic expiry scan
func (m *Manager) Update(dt time.Duration) {
	for _, p := range m.Active() {
		if p.finished() {
			continue
		}
		if p.Spec.Homing {
			m.steer(p, dt)
		}
		if p.ballistic != nil {
			m.advanceBallistic(p, dt)
		}
	}

	m.sinceExpiry += dt
	if m.sinceExpiry >= m.opts.ExpiryCheck {
		m.sinceExpiry = 0
		m.CheckExpiry()
	}
	m.prune()
}

func (m *Manager) steer(p *Projectile, dt time.Duration) {
	if p.Target == nil {
		return
	}
	goal := p.Target.Position
	if p.Target.Ship != 0 && m.env.Ships != nil {
		s, ok := m.env.Ships.Ship(p.Target.Ship)
		if !ok || s.IsDestroyed() {
			return
		}
		goal = s.Position
	}

	profile := physics.HomingProfile{TurnRateDeg: p.Spec.TurnRateDeg}
	pos := m.Position(p)
	if p.ballistic != nil {
		p.ballistic.Velocity = physics.ApplyHoming(p.ballistic.Velocity, pos, goal, profile, dt)
		return
	}
	vel, ok := m.env.Physics.BodyVelocity(p.body)
	if !ok {
		return
	}
	m.env.Physics.SetBodyVelocity(p.body, physics.ApplyHoming(vel, pos, goal, profile, dt))
}

func (m *Manager) advanceBallistic(p *Projectile, dt time.Duration) {
	hit, ok := p.ballistic.Advance(m.env.Physics, dt)
	if !ok {
		return
	}
	m.contact(p, hit.Body, hit.Entity, hit.Point)
}

// HandleCollisions processes contacts from one physics step in detection order
func (m *Manager) HandleCollisions(cols []physics.Collision) {
	for _, c := range cols {
		pa, aok := m.byBody[c.A]
		pb, bok := m.byBody[c.B]
		switch {
		case aok && bok:
			continue
		case aok:
			m.HandleCollision(pa, c.B, c.Point)
		case bok:
			m.HandleCollision(pb, c.A, c.Point)
		}
	}
	m.prune()
}

// HandleCollision applies the collision rules for one contact of p
// Returns true when the projectile detonated
func (m *Manager) HandleCollision(p *Projectile, other physics.BodyID, point vmath.Vec3) bool {
	if _, isProjectile := m.byBody[other]; isProjectile {
		return false
	}
	rec, ok := m.env.Physics.EntityMetadata(other)
	if !ok {
		return false
	}
	return m.contact(p, other, rec, point)
}

func (m *Manager) contact(p *Projectile, other physics.BodyID, rec physics.EntityRecord, point vmath.Vec3) bool {
	if p.finished() {
		return false
	}
	if m.env.Clock.Now().Before(p.allowAfter) {
		return false
	}
	if rec.Kind == core.KindProjectile {
		return false
	}
	if p.Owner != 0 && (rec.Ship == p.Owner || rec.Entity == p.Owner) {
		return false
	}
	if p.Target != nil && p.Target.Kind == core.KindEnemyShip && rec.Kind == core.KindStar {
		return false
	}

	p.collisionProcessed = true
	m.releaseBody(p)
	m.env.Effects.RemoveProjectileTrail(p.ID)
	p.lastPos = point
	if p.ballistic != nil {
		p.ballistic.Position = point
	}
	m.detonate(p, point, rec)
	return true
}

func (m *Manager) detonate(p *Projectile, point vmath.Vec3, rec physics.EntityRecord) {
	if p.detonated {
		return
	}
	if p.Spec.IsSplash() {
		m.splash(p, point)
	} else {
		m.direct(p, point, rec)
	}

	m.statDetonated.Add(1)
	m.env.Events.Emit(event.EventProjectileDetonated, &event.ProjectilePayload{
		ID:        p.ID,
		Weapon:    p.Spec.WeaponName,
		Owner:     p.Owner,
		Target:    targetEntity(p),
		DistanceM: vmath.DistanceM(p.Start, point),
	})
	p.detonated = true
}

func (m *Manager) direct(p *Projectile, point vmath.Vec3, rec physics.EntityRecord) {
	m.env.Effects.CreateExplosion(point, explosionRadiusM(p.Spec.Damage), service.ExplosionDamage, &point)

	victim := m.shipFor(rec)
	if victim == nil {
		m.env.Events.Emit(event.EventWeaponMiss, &event.WeaponMissPayload{Ship: p.Owner, Weapon: p.Spec.WeaponName, Reason: MissNoShip})
		return
	}
	res := m.applyDamage(p, victim, p.Spec.Damage, core.DamageKinetic)
	m.env.Effects.PlaySound("hit", &point, 1)
	m.env.HUD.ShowDamageFeedback(p.Spec.WeaponName, res.Total(), victim.Name)
}

func (m *Manager) splash(p *Projectile, point vmath.Vec3) {
	blast := p.Spec.BlastRadiusM
	m.env.Effects.CreateExplosion(point, blast, service.ExplosionTorpedo, &point)

	seen := make(map[core.Entity]bool)
	var total float64
	var names []string
	for _, q := range m.env.Physics.SpatialQuery(point, blast) {
		if q.Entity.Kind == core.KindProjectile {
			continue
		}
		victim := m.shipFor(q.Entity)
		if victim == nil || seen[victim.ID] || victim.ID == p.Owner {
			continue
		}
		seen[victim.ID] = true

		dmg := SplashDamage(p.Spec.Damage, blast, q.DistanceM)
		if dmg <= 0 {
			continue
		}
		res := m.applyDamage(p, victim, dmg, core.DamageExplosive)
		total += res.Total()
		names = append(names, victim.Name)
	}

	if len(names) == 0 {
		m.env.HUD.ShowWeaponFeedback(service.FeedbackMiss, "MISS")
		return
	}
	m.env.HUD.ShowDamageFeedback(p.Spec.WeaponName, total, names[0])
}

// applyDamage routes one damage event and schedules removal for a newly destroyed ship
func (m *Manager) applyDamage(p *Projectile, victim *ship.Ship, amount float64, kind core.DamageType) ship.DamageResult {
	wasDestroyed := victim.IsDestroyed()
	res := victim.ApplyDamage(amount, kind, "")
	m.env.Events.Emit(event.EventWeaponHit, &event.WeaponHitPayload{
		Ship:         p.Owner,
		Weapon:       p.Spec.WeaponName,
		Target:       victim.ID,
		TargetName:   victim.Name,
		Damage:       res.Total(),
		ShieldDamage: res.ShieldDamage,
		HullDamage:   res.HullDamage,
		Destroyed:    res.Destroyed,
	})
	if res.Destroyed && !wasDestroyed {
		if m.env.Removals != nil {
			m.env.Removals.ScheduleRemoval(victim.ID)
		}
		pos := victim.Position
		m.env.Effects.PlaySound("destruction", &pos, 1)
		m.env.HUD.ShowWeaponFeedback(service.FeedbackTargetDestroyed, victim.Name+" DESTROYED")
		m.env.Events.Emit(event.EventShipDestroyed, &event.ShipDestroyedPayload{
			Ship:   victim.ID,
			Name:   victim.Name,
			Killer: p.Owner,
			Weapon: p.Spec.WeaponName,
		})
		m.log.Info().Str("ship", victim.Name).Str("weapon", p.Spec.WeaponName).Msg("destroyed")
	}
	return res
}

func (m *Manager) shipFor(rec physics.EntityRecord) *ship.Ship {
	if m.env.Ships == nil {
		return nil
	}
	id := rec.Ship
	if id == 0 {
		id = rec.Entity
	}
	if id == 0 {
		return nil
	}
	s, ok := m.env.Ships.Ship(id)
	if !ok {
		return nil
	}
	return s
}

// CheckExpiry retires projectiles past the lifetime watchdog or their flight range
func (m *Manager) CheckExpiry() {
	now := m.env.Clock.Now()
	for _, p := range m.order {
		if p.finished() {
			continue
		}
		switch {
		case now.Sub(p.LaunchTime) > m.opts.MaxLifetime:
			m.expire(p, MissExpiredTime)
		case vmath.DistanceM(p.Start, m.Position(p)) >= p.Spec.FlightRangeM-parameter.ProjectileRangeMarginM:
			m.expire(p, MissExpiredRange)
		}
	}
	m.prune()
}

func (m *Manager) expire(p *Projectile, reason string) {
	p.expired = true
	m.env.Effects.RemoveProjectileTrail(p.ID)
	m.releaseBody(p)
	m.env.HUD.ShowWeaponFeedback(service.FeedbackMiss, "MISS")
	m.statExpired.Add(1)
	m.env.Events.Emit(event.EventProjectileExpired, &event.ProjectilePayload{
		ID:        p.ID,
		Weapon:    p.Spec.WeaponName,
		Owner:     p.Owner,
		Target:    targetEntity(p),
		DistanceM: vmath.DistanceM(p.Start, p.lastPos),
	})
	m.env.Events.Emit(event.EventWeaponMiss, &event.WeaponMissPayload{Ship: p.Owner, Weapon: p.Spec.WeaponName, Reason: reason})
	m.log.Debug().Str("id", p.ID).Str("reason", reason).Msg("expired")
}

// Clear drops every projectile without resolving it
func (m *Manager) Clear() {
	for _, p := range m.order {
		m.env.Effects.RemoveProjectileTrail(p.ID)
		m.releaseBody(p)
	}
	m.order = m.order[:0]
	m.statActive.Store(0)
}

func (m *Manager) releaseBody(p *Projectile) {
	if p.body == 0 {
		return
	}
	if pos, ok := m.env.Physics.BodyPosition(p.body); ok {
		p.lastPos = pos
	}
	m.env.Physics.RemoveRigidBody(p.body)
	delete(m.byBody, p.body)
	p.body = 0
}

func (m *Manager) prune() {
	kept := m.order[:0]
	for _, p := range m.order {
		if !p.detonated && !p.expired {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(m.order); i++ {
		m.order[i] = nil
	}
	m.order = kept
	m.statActive.Store(int64(len(m.order)))
}

func targetEntity(p *Projectile) core.Entity {
	if p.Target == nil {
		return 0
	}
	if p.Target.Ship != 0 {
		return p.Target.Ship
	}
	return p.Target.Entity
}

func explosionRadiusM(damage float64) float64 {
	r := damage * parameter.ExplosionRadiusPerDamage
	if r > parameter.ExplosionRadiusMaxM {
		return parameter.ExplosionRadiusMaxM
	}
	return r
}
