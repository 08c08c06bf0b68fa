package weapon

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/projectile"
	"github.com/lixenwraith/void-fighter/service"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/targetcomp"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Fire failure reasons
const (
	ReasonNoWeapon           = "no_weapon"
	ReasonCooldown           = "cooldown"
	ReasonInsufficientEnergy = "insufficient_energy"
	ReasonLockRequired       = "target_lock_required"
	ReasonNoWeapons          = "no_weapons"
	ReasonEmptySlot          = "empty_slot"
	ReasonLaunchFailed       = "launch_failed"
)

// Miss reasons reported on EventWeaponMiss
const (
	MissNoHit      = "no_hit"
	MissNoShip     = "no_damageable_ship"
	MissIncidental = "incidental_hit"
)

// ownerSkipEpsilon nudges a re-cast past the owner's collider
const ownerSkipEpsilon = 1e-6

// FireResult reports one trip through the slot pipeline
type FireResult struct {
	Fired             bool
	Reason            string
	Slot              int
	Weapon            string
	Hit               bool
	Damage            float64
	Subsystem         string
	OutOfRange        bool
	DistanceM         float64
	Destroyed         bool
	Projectile        *projectile.Projectile
	CooldownRemaining time.Duration
}

// Slot holds at most one weapon and its cooldown timer
type Slot struct {
	index    int
	weapon   *Weapon
	cooldown time.Duration

	env    *Env
	meters *meters
	log    zerolog.Logger
}

func (sl *Slot) Index() int { return sl.index }
func (sl *Slot) Weapon() *Weapon { return sl.weapon }
func (sl *Slot) IsEmpty() bool { return sl.weapon == nil }

// CooldownRemaining is the time until the slot can fire again
func (sl *Slot) CooldownRemaining() time.Duration { return sl.cooldown }

// CanFire reports a loaded slot with an expired cooldown
func (sl *Slot) CanFire() bool {
	return sl.weapon != nil && sl.cooldown == 0
}

// UpdateCooldown advances the timer, clamping at zero
func (sl *Slot) UpdateCooldown(dt time.Duration) {
	sl.cooldown -= dt
	if sl.cooldown < 0 {
		sl.cooldown = 0
	}
}

// CooldownPercentage is the remaining cooldown as a share of the full cooldown, in [0, 100]
func (sl *Slot) CooldownPercentage() float64 {
	if sl.weapon == nil || sl.weapon.Cooldown() <= 0 {
		return 0
	}
	pct := float64(sl.cooldown) / float64(sl.weapon.Cooldown()) * 100
	return vmath.Clamp(pct, 0, 100)
}

func (sl *Slot) load(w *Weapon) {
	sl.weapon = w
	sl.cooldown = 0
}

// Fire runs the slot pipeline for ship s; tgt may be nil for free aim
func (sl *Slot) Fire(s *ship.Ship, tgt *target.Target) FireResult {
	res := FireResult{Slot: sl.index}
	w := sl.weapon
	if w == nil {
		res.Reason = ReasonNoWeapon
		return res
	}
	res.Weapon = w.Name()

	if sl.cooldown > 0 {
		res.Reason = ReasonCooldown
		res.CooldownRemaining = sl.cooldown
		return res
	}

	cost := w.EnergyCost()
	if cost > 0 && !s.HasEnergy(cost) {
		sl.env.HUD.ShowInsufficientEnergyFeedback(w.Name(), cost, s.Energy())
		sl.meters.blocked.Add(1)
		res.Reason = ReasonInsufficientEnergy
		return res
	}
	tgt = sl.live(tgt)
	if w.LockRequired() && tgt == nil {
		sl.meters.blocked.Add(1)
		res.Reason = ReasonLockRequired
		return res
	}
	if cost > 0 {
		s.ConsumeEnergy(cost)
	}

	camPos, basis := sl.env.view(s.Position)

	var dist float64
	if tgt != nil {
		dist = vmath.DistanceM(s.Position, tgt.Position)
	} else {
		dist = w.RangeM()
		if hit, ok := sl.raycast(camPos, basis.Forward, w.RangeM()/vmath.MetersPerUnit, s); ok {
			dist = hit.Distance * vmath.MetersPerUnit
		}
	}
	res.DistanceM = dist
	res.OutOfRange = dist > w.RangeM()
	if res.OutOfRange {
		sl.env.HUD.ShowOutOfRangeFeedback(w.Name(), dist, w.RangeM())
	}

	closeRange := tgt != nil && dist < parameter.CloseRangeKm*vmath.MetersPerUnit
	origin := firingOrigin(camPos, basis, closeRange)

	sl.cooldown = w.Cooldown()
	res.Fired = true
	sl.meters.shots.Add(1)
	sl.env.Events.Emit(event.EventWeaponFired, &event.WeaponFiredPayload{
		Ship:      s.ID,
		Slot:      sl.index,
		Weapon:    w.ID(),
		Target:    entityOf(tgt),
		DistanceM: dist,
		InRange:   !res.OutOfRange,
	})

	switch w.Kind() {
	case KindSplash:
		sl.launch(s, tgt, origin, basis, dist, &res)
	default:
		sl.scan(s, tgt, camPos, basis, origin, dist, &res)
	}
	return res
}

// live refreshes the target position from its ship; a destroyed ship is no target
func (sl *Slot) live(tgt *target.Target) *target.Target {
	if tgt == nil {
		return nil
	}
	tgt = tgt.Clone()
	if tgt.Ship == 0 || sl.env.Ships == nil {
		return tgt
	}
	sh, ok := sl.env.Ships.Ship(tgt.Ship)
	if !ok || sh.IsDestroyed() {
		return nil
	}
	tgt.Position = sh.Position
	return tgt
}

// firingOrigin drops the origin below and ahead of the camera, less so at close range
func firingOrigin(camPos vmath.Vec3, basis vmath.Basis, closeRange bool) vmath.Vec3 {
	down, fwd := parameter.OriginFarDown, parameter.OriginFarForward
	if closeRange {
		down, fwd = parameter.OriginCloseDown, parameter.OriginCloseForward
	}
	o := vmath.Add(camPos, vmath.Scale(basis.Down(), down))
	return vmath.Add(o, vmath.Scale(basis.Forward, fwd))
}

// raycast ignores the firing ship's own collider
func (sl *Slot) raycast(origin, dir vmath.Vec3, maxDist float64, owner *ship.Ship) (physics.Hit, bool) {
	if sl.env.Physics == nil {
		return physics.Hit{}, false
	}
	travelled := 0.0
	for range 4 {
		hit, ok := sl.env.Physics.Raycast(origin, dir, maxDist-travelled)
		if !ok {
			return physics.Hit{}, false
		}
		if owner == nil || (hit.Entity.Ship != owner.ID && hit.Entity.Entity != owner.ID) {
			hit.Distance += travelled
			return hit, true
		}
		skip := hit.Distance + 2*owner.RadiusM/vmath.MetersPerUnit + ownerSkipEpsilon
		travelled += skip
		if travelled >= maxDist {
			return physics.Hit{}, false
		}
		origin = vmath.Add(origin, vmath.Scale(dir, skip))
	}
	return physics.Hit{}, false
}

func (sl *Slot) scan(s *ship.Ship, tgt *target.Target, camPos vmath.Vec3, basis vmath.Basis, origin vmath.Vec3, dist float64, res *FireResult) {
	w := sl.weapon
	converge := math.Min(dist, w.RangeM()*parameter.ConvergenceRangeFactor) / vmath.MetersPerUnit
	aim := vmath.Add(camPos, vmath.Scale(basis.Forward, converge))
	maxDist := w.RangeM() / vmath.MetersPerUnit

	var accepted *physics.Hit
	incidental := false
	for _, side := range [2]float64{-1, 1} {
		muzzle := vmath.Add(origin, vmath.Scale(basis.Right, side*parameter.MuzzleSpread))
		dir := vmath.Normalize(vmath.Sub(aim, muzzle))
		if vmath.Mag(dir) == 0 {
			dir = basis.Forward
		}
		sl.env.Effects.CreateMuzzleFlash(muzzle, dir, w.ID(), parameter.MuzzleFlashDuration)

		hit, ok := sl.raycast(muzzle, dir, maxDist, s)
		end := vmath.Add(muzzle, vmath.Scale(dir, maxDist))
		if ok {
			end = hit.Point
		}
		sl.env.Effects.CreateLaserBeam(muzzle, end, w.ID())

		if !ok || accepted != nil {
			continue
		}
		switch verdict := judgeHit(tgt, hit.Entity); verdict {
		case hitAccepted, hitIncidental:
			h := hit
			accepted = &h
			incidental = verdict == hitIncidental
		default:
			sl.meters.rejected.Add(1)
			sl.log.Debug().Str("weapon", w.ID()).Str("hit", hit.Entity.Name).Str("kind", hit.Entity.Kind.String()).Msg("rejected stray hit")
		}
	}

	switch {
	case accepted != nil && incidental:
		sl.env.Effects.CreateExplosion(accepted.Point, explosionRadiusM(w.Damage()), service.ExplosionDamage, &accepted.Point)
		sl.env.Events.Emit(event.EventWeaponMiss, &event.WeaponMissPayload{Ship: s.ID, Weapon: w.ID(), Reason: MissIncidental})
		res.Hit = true
	case accepted != nil:
		sl.resolve(s, accepted.Entity, accepted.Point, res)
	case tgt != nil && sl.fallbackHit(camPos, basis.Forward, tgt):
		rec := physics.EntityRecord{Entity: tgt.Entity, Kind: tgt.Kind, Ship: tgt.Ship, Name: tgt.Name, TypeID: tgt.TypeID}
		sl.resolve(s, rec, tgt.Position, res)
	default:
		sl.miss(s, MissNoHit)
	}
}

type hitVerdict uint8

const (
	hitRejected hitVerdict = iota
	hitAccepted
	hitIncidental
)

// judgeHit validates a raycast hit against the intended target
// Free-aim shots take whatever they hit; an enemy-ship shot blocked by a
// planet or moon detonates there without damage; other mismatches are stray
func judgeHit(tgt *target.Target, rec physics.EntityRecord) hitVerdict {
	if tgt == nil {
		return hitAccepted
	}
	hitRef := &target.Target{Entity: rec.Entity, Ship: rec.Ship, TypeID: rec.TypeID}
	if tgt.SameAs(hitRef) {
		return hitAccepted
	}
	if tgt.Kind == core.KindEnemyShip && rec.Kind.IsCelestial() && rec.Kind != core.KindStar {
		return hitIncidental
	}
	return hitRejected
}

// fallbackHit accepts the shot when the camera ray passes close enough to the target center
func (sl *Slot) fallbackHit(camPos, fwd vmath.Vec3, tgt *target.Target) bool {
	perp, along := vmath.PointRayDistance(camPos, fwd, tgt.Position)
	if along <= 0 {
		return false
	}
	distM := vmath.DistanceM(camPos, tgt.Position)
	pad := math.Max(parameter.FallbackHitMinPadding, distM*parameter.FallbackHitDistanceFactor)
	effective := sl.env.FallbackHitRadiusFactor * (tgt.RadiusM + pad)
	return perp*vmath.MetersPerUnit <= effective
}

// resolve applies one scan-hit to the ship behind rec
func (sl *Slot) resolve(s *ship.Ship, rec physics.EntityRecord, point vmath.Vec3, res *FireResult) {
	w := sl.weapon
	sl.env.Effects.CreateExplosion(point, explosionRadiusM(w.Damage()), service.ExplosionDamage, &point)
	res.Hit = true

	victim := sl.shipFor(rec)
	if victim == nil {
		sl.env.Events.Emit(event.EventWeaponMiss, &event.WeaponMissPayload{Ship: s.ID, Weapon: w.ID(), Reason: MissNoShip})
		return
	}

	dmg := w.Damage()
	subsystem := ""
	if st := subTargetFor(s, victim); st != "" {
		subsystem = st
		dmg *= parameter.SubTargetDamageMultiplier
	}

	wasDestroyed := victim.IsDestroyed()
	dr := victim.ApplyDamage(dmg, core.DamageEnergy, subsystem)
	res.Damage = dr.Total()
	res.Subsystem = subsystem
	res.Destroyed = dr.Destroyed

	sl.meters.hits.Add(1)
	sl.env.HUD.ShowDamageFeedback(w.Name(), dmg, victim.Name)
	sl.env.Events.Emit(event.EventWeaponHit, &event.WeaponHitPayload{
		Ship:         s.ID,
		Weapon:       w.ID(),
		Target:       victim.ID,
		TargetName:   victim.Name,
		Subsystem:    subsystem,
		Damage:       dr.Total(),
		ShieldDamage: dr.ShieldDamage,
		HullDamage:   dr.HullDamage,
		Destroyed:    dr.Destroyed,
	})

	if dr.Destroyed && !wasDestroyed {
		if sl.env.Removals != nil {
			sl.env.Removals.ScheduleRemoval(victim.ID)
		}
		pos := victim.Position
		sl.env.Effects.PlaySound("destruction", &pos, 1)
		sl.env.HUD.ShowWeaponFeedback(service.FeedbackTargetDestroyed, victim.Name+" DESTROYED")
		sl.env.Events.Emit(event.EventShipDestroyed, &event.ShipDestroyedPayload{Ship: victim.ID, Name: victim.Name, Killer: s.ID, Weapon: w.ID()})
		sl.log.Info().Str("ship", victim.Name).Str("weapon", w.ID()).Msg("destroyed")
	}
}

func (sl *Slot) miss(s *ship.Ship, reason string) {
	sl.meters.misses.Add(1)
	sl.env.HUD.ShowWeaponFeedback(service.FeedbackMiss, "MISS")
	sl.env.Events.Emit(event.EventWeaponMiss, &event.WeaponMissPayload{Ship: s.ID, Weapon: sl.weapon.ID(), Reason: reason})
}

func (sl *Slot) launch(s *ship.Ship, tgt *target.Target, origin vmath.Vec3, basis vmath.Basis, dist float64, res *FireResult) {
	w := sl.weapon
	dir := basis.Forward
	if tgt != nil {
		if d := vmath.Normalize(vmath.Sub(tgt.Position, origin)); vmath.Mag(d) > 0 {
			dir = d
		}
		tgt.DistanceM = dist
	}
	sl.env.Effects.CreateMuzzleFlash(origin, dir, w.ID(), parameter.MuzzleFlashDuration)

	if sl.env.Projectiles == nil {
		res.Reason = ReasonLaunchFailed
		return
	}
	p, err := sl.env.Projectiles.Launch(projectile.LaunchRequest{
		Origin:    origin,
		Direction: dir,
		Target:    tgt,
		Owner:     s.ID,
		Spec:      w.ProjectileSpec(),
	})
	if err != nil {
		sl.log.Warn().Err(err).Str("weapon", w.ID()).Msg("launch failed")
		res.Reason = ReasonLaunchFailed
		return
	}
	res.Projectile = p
}

func (sl *Slot) shipFor(rec physics.EntityRecord) *ship.Ship {
	if sl.env.Ships == nil {
		return nil
	}
	id := rec.Ship
	if id == 0 {
		id = rec.Entity
	}
	if id == 0 {
		return nil
	}
	sh, ok := sl.env.Ships.Ship(id)
	if !ok || sh.IsDestroyed() {
		return nil
	}
	return sh
}

// subTargetFor returns the selected subsystem when the firing ship's computer
// has victim as its current target and victim carries that system
func subTargetFor(s, victim *ship.Ship) string {
	sys, ok := s.System(targetcomp.SystemName)
	if !ok {
		return ""
	}
	tc, ok := sys.(*targetcomp.TargetComputer)
	if !ok {
		return ""
	}
	st := tc.CurrentSubTarget()
	cur := tc.CurrentTarget()
	if st == nil || cur == nil || cur.Ship != victim.ID {
		return ""
	}
	if !victim.HasSystem(st.System) {
		return ""
	}
	return st.System
}

func entityOf(t *target.Target) core.Entity {
	if t == nil {
		return 0
	}
	if t.Ship != 0 {
		return t.Ship
	}
	return t.Entity
}

func explosionRadiusM(damage float64) float64 {
	return math.Min(damage*parameter.ExplosionRadiusPerDamage, parameter.ExplosionRadiusMaxM)
}
