package projectile

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/physics/simworld"
	"github.com/lixenwraith/void-fighter/service"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/vmath"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type shipMap map[core.Entity]*ship.Ship

func (m shipMap) Ship(id core.Entity) (*ship.Ship, bool) {
	s, ok := m[id]
	return s, ok
}

type removals struct{ ids []core.Entity }

func (r *removals) ScheduleRemoval(id core.Entity) { r.ids = append(r.ids, id) }

type recorder struct{ types []event.EventType }

func (r *recorder) Emit(t event.EventType, _ any) { r.types = append(r.types, t) }

func (r *recorder) count(t event.EventType) int {
	n := 0
	for _, x := range r.types {
		if x == t {
			n++
		}
	}
	return n
}

type hudLog struct {
	service.NopHUD
	misses   int
	damage   []float64
	messages []string
}

func (h *hudLog) ShowWeaponFeedback(kind service.FeedbackKind, _ string) {
	if kind == service.FeedbackMiss {
		h.misses++
	}
}

func (h *hudLog) ShowDamageFeedback(_ string, dmg float64, _ string) {
	h.damage = append(h.damage, dmg)
}

func (h *hudLog) ShowMessage(text string, _ time.Duration) {
	h.messages = append(h.messages, text)
}

type fixture struct {
	world    *simworld.World
	clock    *fakeClock
	ships    shipMap
	removals *removals
	events   *recorder
	hud      *hudLog
	mgr      *Manager
}

func newFixture() *fixture {
	f := &fixture{
		world:    simworld.New(zerolog.Nop()),
		clock:    &fakeClock{t: time.Unix(5000, 0)},
		ships:    shipMap{},
		removals: &removals{},
		events:   &recorder{},
		hud:      &hudLog{},
	}
	f.mgr = NewManager(Env{
		Clock:    f.clock,
		Physics:  f.world,
		HUD:      f.hud,
		Ships:    f.ships,
		Removals: f.removals,
		Events:   f.events,
		Log:      zerolog.Nop(),
	}, DefaultOptions())
	return f
}

func (f *fixture) addShip(t *testing.T, id core.Entity, kind core.EntityKind, hull float64, pos vmath.Vec3, radiusM float64) *ship.Ship {
	t.Helper()
	s := ship.New(id, ship.Template{TypeID: "test", Name: "ship", Kind: kind, MaxHull: hull, RadiusM: radiusM}, nil, nil)
	s.Position = pos
	f.ships[id] = s
	f.body(t, pos, radiusM, physics.EntityRecord{Entity: id, Kind: kind, Ship: id})
	return s
}

func (f *fixture) body(t *testing.T, pos vmath.Vec3, radiusM float64, rec physics.EntityRecord) physics.BodyID {
	t.Helper()
	id, err := f.world.CreateRigidBody(physics.BodyConfig{RadiusM: radiusM, Position: pos, Record: rec})
	if err != nil {
		t.Fatalf("CreateRigidBody: %v", err)
	}
	return id
}

var forward = vmath.Vec3{Z: -1}

func TestSplashDamageInverseSquare(t *testing.T) {
	cases := []struct {
		d, want float64
	}{
		{0, 320},
		{10, 320},
		{20, 320},
		{30, 0},
	}
	for _, c := range cases {
		if got := SplashDamage(320, 20, c.d); got != c.want {
			t.Errorf("Expected %.0f at %.0f m, got %.0f", c.want, c.d, got)
		}
	}

	prev := math.Inf(1)
	for d := 0.0; d <= 60; d += 0.5 {
		got := SplashDamage(500, 40, d)
		if got > prev {
			t.Fatalf("Expected non-increasing damage, got %.1f after %.1f at %.1f m", got, prev, d)
		}
		prev = got
	}
	if got := SplashDamage(500, 40, 40.01); got != 0 {
		t.Errorf("Expected 0 outside blast, got %.1f", got)
	}
}

func TestCollisionDelayBands(t *testing.T) {
	cases := []struct {
		km, speed float64
		want      time.Duration
	}{
		{0.4, 8000, 0},
		{1, 10000, time.Millisecond},
		{3, 10000, 2 * time.Millisecond},
		{10, 8000, 3 * time.Millisecond},
	}
	for _, c := range cases {
		if got := CollisionDelay(c.km, c.speed); got != c.want {
			t.Errorf("Expected %v at %.1f km / %.0f m/s, got %v", c.want, c.km, c.speed, got)
		}
	}
}

func TestCollisionRadius(t *testing.T) {
	// High step rate keeps the tunneling floor out of the way
	const rate = 10000.0
	if got := CollisionRadiusM(false, 5, 10000, rate); got != 2 {
		t.Errorf("Expected 2 m free-aim radius, got %.2f", got)
	}
	if got := CollisionRadiusM(true, 0.5, 10000, rate); math.Abs(got-10) > 1e-9 {
		t.Errorf("Expected 10 m close radius, got %.2f", got)
	}
	if got := CollisionRadiusM(true, 2, 10000, rate); math.Abs(got-30) > 1e-9 {
		t.Errorf("Expected 30 m mid radius, got %.2f", got)
	}
	if got := CollisionRadiusM(true, 10, 10000, rate); math.Abs(got-100) > 1e-9 {
		t.Errorf("Expected 100 m far radius, got %.2f", got)
	}

	tunnel := MinTunnelM(10000, 60)
	if got := CollisionRadiusM(false, 5, 10000, 60); got != tunnel {
		t.Errorf("Expected tunneling floor %.2f, got %.2f", tunnel, got)
	}
}

func TestUltraCloseMissileHitsOnFirstStep(t *testing.T) {
	f := newFixture()
	enemy := f.addShip(t, 2, core.KindEnemyShip, 180, vmath.Vec3{Z: -0.4}, 15)
	tgt := &target.Target{Entity: 2, Ship: 2, Kind: core.KindEnemyShip, Position: enemy.Position, DistanceM: 400}

	p, err := f.mgr.Launch(LaunchRequest{
		Direction: forward,
		Target:    tgt,
		Owner:     1,
		Spec:      Spec{WeaponName: "Homing Missile", Damage: 200, FlightRangeM: 50000, Homing: true, TurnRateDeg: 90},
	})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if p.Delay != 0 {
		t.Errorf("Expected zero delay at 400 m, got %v", p.Delay)
	}
	if p.SpeedMS != 8000 {
		t.Errorf("Expected homing speed 8000, got %.0f", p.SpeedMS)
	}

	f.mgr.HandleCollisions(f.world.Step(100 * time.Millisecond))

	if !p.Detonated() {
		t.Fatal("Expected detonation on first step")
	}
	if !enemy.IsDestroyed() {
		t.Errorf("Expected enemy destroyed, hull %.1f", enemy.Hull())
	}
	if len(f.removals.ids) != 1 || f.removals.ids[0] != 2 {
		t.Errorf("Expected removal of ship 2, got %v", f.removals.ids)
	}
	if f.mgr.Count() != 0 {
		t.Errorf("Expected no active projectiles, got %d", f.mgr.Count())
	}
	if f.world.BodyCount() != 1 {
		t.Errorf("Expected projectile body removed, got %d bodies", f.world.BodyCount())
	}
}

func TestCollisionDelayGate(t *testing.T) {
	f := newFixture()
	enemy := f.addShip(t, 2, core.KindEnemyShip, 500, vmath.Vec3{Z: -10}, 40)
	other := f.body(t, vmath.Vec3{Z: -10}, 40, physics.EntityRecord{Entity: 2, Kind: core.KindEnemyShip, Ship: 2})
	tgt := &target.Target{Entity: 2, Ship: 2, Kind: core.KindEnemyShip, Position: enemy.Position, DistanceM: 10000}

	p, err := f.mgr.Launch(LaunchRequest{Direction: forward, Target: tgt, Owner: 1, Spec: Spec{WeaponName: "Photon Torpedo", Damage: 100, FlightRangeM: 60000}})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if p.Delay != 3*time.Millisecond {
		t.Fatalf("Expected 3ms delay, got %v", p.Delay)
	}

	if f.mgr.HandleCollision(p, other, enemy.Position) {
		t.Error("Expected contact inside the delay window to be ignored")
	}
	f.clock.advance(4 * time.Millisecond)
	if !f.mgr.HandleCollision(p, other, enemy.Position) {
		t.Error("Expected contact after the delay to detonate")
	}
}

func TestProjectilesIgnoreEachOther(t *testing.T) {
	f := newFixture()
	spec := Spec{WeaponName: "Photon Torpedo", Damage: 100, FlightRangeM: 60000}
	a, _ := f.mgr.Launch(LaunchRequest{Direction: forward, Owner: 1, Spec: spec})
	b, _ := f.mgr.Launch(LaunchRequest{Origin: vmath.Vec3{Z: -0.05}, Direction: forward, Owner: 1, Spec: spec})
	f.clock.advance(time.Second)

	if f.mgr.HandleCollision(a, b.Body(), vmath.Vec3{}) {
		t.Error("Expected projectile-projectile contact ignored")
	}
	if a.CollisionProcessed() || b.CollisionProcessed() {
		t.Error("Expected both projectiles still in flight")
	}
}

func TestStarVetoOnlyForEnemyTargets(t *testing.T) {
	f := newFixture()
	star := f.body(t, vmath.Vec3{Z: -20}, 5000, physics.EntityRecord{Entity: 9, Kind: core.KindStar, Name: "Sol"})
	planet := f.body(t, vmath.Vec3{Z: -15}, 3000, physics.EntityRecord{Entity: 10, Kind: core.KindPlanet, Name: "Terra"})
	tgt := &target.Target{Entity: 2, Ship: 2, Kind: core.KindEnemyShip, Position: vmath.Vec3{Z: -30}, DistanceM: 30000}

	p, _ := f.mgr.Launch(LaunchRequest{Direction: forward, Target: tgt, Owner: 1, Spec: Spec{WeaponName: "Laser", Damage: 50, FlightRangeM: 60000}})
	f.clock.advance(time.Second)

	if f.mgr.HandleCollision(p, star, vmath.Vec3{Z: -15}) {
		t.Error("Expected star contact vetoed for an enemy target")
	}
	if !f.mgr.HandleCollision(p, planet, vmath.Vec3{Z: -12}) {
		t.Error("Expected planet contact accepted")
	}
	if f.events.count(event.EventWeaponMiss) != 1 {
		t.Errorf("Expected a ship-less detonation to report a miss, got %d", f.events.count(event.EventWeaponMiss))
	}
}

func TestOwnerContactIgnored(t *testing.T) {
	f := newFixture()
	f.addShip(t, 1, core.KindPlayerShip, 600, vmath.Vec3{}, 20)
	p, _ := f.mgr.Launch(LaunchRequest{Direction: forward, Owner: 1, Spec: Spec{WeaponName: "Laser", Damage: 50, FlightRangeM: 60000}})
	f.clock.advance(time.Second)

	rec := physics.EntityRecord{Entity: 1, Kind: core.KindPlayerShip, Ship: 1}
	if f.mgr.contact(p, 0, rec, vmath.Vec3{}) {
		t.Error("Expected owner contact ignored")
	}
	if p.CollisionProcessed() {
		t.Error("Expected projectile still in flight")
	}
}

func TestSplashAppliesOncePerShip(t *testing.T) {
	f := newFixture()
	station := f.addShip(t, 3, core.KindStation, 2000, vmath.Vec3{Z: -5}, 150)
	f.body(t, vmath.Vec3{Z: -5.01}, 150, physics.EntityRecord{Entity: 3, Kind: core.KindStation, Ship: 3})
	bodies := f.world.SpatialQuery(station.Position, 20)
	if len(bodies) != 2 {
		t.Fatalf("Expected two bodies in blast, got %d", len(bodies))
	}

	p, _ := f.mgr.Launch(LaunchRequest{Direction: forward, Owner: 1, Spec: Spec{WeaponName: "Photon Torpedo", Damage: 320, BlastRadiusM: 20, FlightRangeM: 60000}})
	f.clock.advance(time.Second)

	if !f.mgr.HandleCollision(p, bodies[0].Body, station.Position) {
		t.Fatal("Expected detonation")
	}
	if station.Hull() != 1680 {
		t.Errorf("Expected hull 1680 after one splash event, got %.1f", station.Hull())
	}
	if f.mgr.HandleCollision(p, bodies[1].Body, station.Position) {
		t.Error("Expected no second detonation")
	}
	if station.Hull() != 1680 {
		t.Errorf("Expected hull unchanged after detonation, got %.1f", station.Hull())
	}
	if f.events.count(event.EventWeaponHit) != 1 {
		t.Errorf("Expected one hit event, got %d", f.events.count(event.EventWeaponHit))
	}
}

func TestExpiryByFlightRange(t *testing.T) {
	f := newFixture()
	p, _ := f.mgr.Launch(LaunchRequest{Direction: forward, Owner: 1, Spec: Spec{WeaponName: "Photon Torpedo", Damage: 320, BlastRadiusM: 20, FlightRangeM: 1000}})

	f.world.Step(200 * time.Millisecond)
	f.clock.advance(200 * time.Millisecond)
	f.mgr.CheckExpiry()

	if !p.Expired() || p.Detonated() {
		t.Errorf("Expected range expiry without detonation, got expired=%v detonated=%v", p.Expired(), p.Detonated())
	}
	if f.hud.misses != 1 {
		t.Errorf("Expected one MISS, got %d", f.hud.misses)
	}
	if f.world.BodyCount() != 0 {
		t.Errorf("Expected body removed, got %d", f.world.BodyCount())
	}
	if f.mgr.Count() != 0 {
		t.Errorf("Expected no active projectiles, got %d", f.mgr.Count())
	}
}

func TestExpiryByLifetime(t *testing.T) {
	f := newFixture()
	p, _ := f.mgr.Launch(LaunchRequest{Direction: forward, Owner: 1, Spec: Spec{WeaponName: "Photon Torpedo", Damage: 320, FlightRangeM: 60000}})

	f.clock.advance(19 * time.Second)
	f.mgr.Update(300 * time.Millisecond)
	if p.Expired() {
		t.Fatal("Expected projectile alive before the watchdog")
	}

	f.clock.advance(2 * time.Second)
	f.mgr.Update(300 * time.Millisecond)
	if !p.Expired() {
		t.Error("Expected watchdog expiry after 20 s")
	}
	if f.events.count(event.EventProjectileExpired) != 1 {
		t.Errorf("Expected one expiry event, got %d", f.events.count(event.EventProjectileExpired))
	}
}

func TestBallisticFallbackWhenPhysicsOffline(t *testing.T) {
	f := newFixture()
	enemy := f.addShip(t, 2, core.KindEnemyShip, 100, vmath.Vec3{Z: -1}, 15)
	f.world.SetReady(false)

	p, err := f.mgr.Launch(LaunchRequest{Direction: forward, Owner: 1, Spec: Spec{WeaponName: "Laser", Damage: 150, FlightRangeM: 60000}})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if !p.IsBallistic() {
		t.Fatal("Expected ballistic mode")
	}
	if len(f.hud.messages) != 1 {
		t.Errorf("Expected one degraded-mode message, got %d", len(f.hud.messages))
	}

	f.clock.advance(10 * time.Millisecond)
	f.mgr.Update(200 * time.Millisecond)

	if !p.Detonated() {
		t.Fatal("Expected ballistic detonation")
	}
	if !enemy.IsDestroyed() {
		t.Errorf("Expected enemy destroyed, hull %.1f", enemy.Hull())
	}
}

func TestLaunchRejectsZeroDirection(t *testing.T) {
	f := newFixture()
	if _, err := f.mgr.Launch(LaunchRequest{Spec: Spec{Damage: 1}}); err != ErrInvalidLaunch {
		t.Errorf("Expected ErrInvalidLaunch, got %v", err)
	}
}
