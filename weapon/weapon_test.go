package weapon

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/physics/simworld"
	"github.com/lixenwraith/void-fighter/projectile"
	"github.com/lixenwraith/void-fighter/service"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/status"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/targetcomp"
	"github.com/lixenwraith/void-fighter/targeting"
	"github.com/lixenwraith/void-fighter/vmath"
)

var (
	laserDef = Definition{ID: "laser_cannon", Name: "Laser Cannon", Kind: KindScanHit, Damage: 60, Cooldown: 2 * time.Second,
		RangeM: 25000, EnergyCost: 10, Accuracy: 0.9, Autofire: true}
	torpedoDef = Definition{ID: "photon_torpedo", Name: "Photon Torpedo", Kind: KindSplash, Damage: 320, Cooldown: 8 * time.Second,
		RangeM: 60000, BlastRadiusM: 20, FlightRangeM: 60000}
	missileDef = Definition{ID: "homing_missile", Name: "Homing Missile", Kind: KindSplash, Damage: 200, Cooldown: 6 * time.Second,
		RangeM: 50000, BlastRadiusM: 15, Homing: true, LockRequired: true, TurnRateDeg: 90}
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

type fakeCamera struct {
	pos vmath.Vec3
	q   vmath.Orientation
}

func (c *fakeCamera) Position() vmath.Vec3           { return c.pos }
func (c *fakeCamera) Orientation() vmath.Orientation { return c.q }

type shipMap map[core.Entity]*ship.Ship

func (m shipMap) Ship(id core.Entity) (*ship.Ship, bool) {
	s, ok := m[id]
	return s, ok
}

type fakeRegistry struct{ targets []target.Target }

func (r *fakeRegistry) Targets() []target.Target { return r.targets }

type hudLog struct {
	service.NopHUD
	insufficient int
	outOfRange   int
	cooldown     int
	misses       int
	messages     []string
}

func (h *hudLog) ShowInsufficientEnergyFeedback(string, float64, float64) { h.insufficient++ }
func (h *hudLog) ShowOutOfRangeFeedback(string, float64, float64)         { h.outOfRange++ }
func (h *hudLog) ShowCooldownMessage(string, float64)                     { h.cooldown++ }
func (h *hudLog) ShowMessage(text string, _ time.Duration)                { h.messages = append(h.messages, text) }

func (h *hudLog) ShowWeaponFeedback(kind service.FeedbackKind, _ string) {
	if kind == service.FeedbackMiss {
		h.misses++
	}
}

type fixture struct {
	world  *simworld.World
	clock  *fakeClock
	ships  shipMap
	hud    *hudLog
	status *status.Registry
	player *ship.Ship
	enemy  *ship.Ship
	env    Env
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		world:  simworld.New(zerolog.Nop()),
		clock:  &fakeClock{t: time.Unix(100, 0)},
		ships:  shipMap{},
		hud:    &hudLog{},
		status: status.NewRegistry(),
	}
	f.player = ship.New(1, ship.Template{TypeID: "heavy_fighter", Name: "Player", Kind: core.KindPlayerShip, MaxHull: 600, MaxEnergy: 400, RadiusM: 20}, nil, vmath.NewFastRand(1))
	f.enemy = ship.New(2, ship.Template{TypeID: "enemy_frigate", Name: "Corsair", Kind: core.KindEnemyShip, MaxHull: 400, RadiusM: 40}, nil, vmath.NewFastRand(2))
	f.enemy.Position = vmath.Vec3{Z: -3}
	weapons, err := ship.NewGeneric(ship.Spec{Name: "weapons", MaxHealth: 100, Levels: map[int]ship.LevelStats{1: {Effectiveness: 1}}}, "weapons", 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	f.enemy.AddSystem(weapons)
	f.ships[1] = f.player
	f.ships[2] = f.enemy
	f.body(t, f.enemy.Position, f.enemy.RadiusM, physics.EntityRecord{Entity: 2, Kind: core.KindEnemyShip, Ship: 2, Name: "Corsair"})

	f.env = Env{
		Clock:   f.clock,
		Camera:  &fakeCamera{q: vmath.Identity()},
		Physics: f.world,
		HUD:     f.hud,
		Ships:   f.ships,
		Status:  f.status,
		Log:     zerolog.Nop(),
	}
	return f
}

func (f *fixture) body(t *testing.T, pos vmath.Vec3, radiusM float64, rec physics.EntityRecord) {
	t.Helper()
	if _, err := f.world.CreateRigidBody(physics.BodyConfig{RadiusM: radiusM, Position: pos, Record: rec}); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) enemyTarget() *target.Target {
	return &target.Target{Entity: 2, Ship: 2, Kind: core.KindEnemyShip, Name: "Corsair", TypeID: "enemy_frigate", Position: f.enemy.Position, RadiusM: 40}
}

func (f *fixture) system(t *testing.T, defs ...Definition) *System {
	t.Helper()
	ws := NewSystem(f.player, 4, f.env)
	for i, d := range defs {
		if err := ws.Equip(i, New(d, 1)); err != nil {
			t.Fatal(err)
		}
	}
	return ws
}

func TestLevelScaling(t *testing.T) {
	w := New(laserDef, 3)
	if math.Abs(w.Damage()-72) > 1e-9 {
		t.Errorf("Expected damage 72, got %.4f", w.Damage())
	}
	if d := w.Cooldown() - 1800*time.Millisecond; d > time.Microsecond || d < -time.Microsecond {
		t.Errorf("Expected cooldown 1.8s, got %v", w.Cooldown())
	}
	if math.Abs(w.RangeM()-27500) > 1e-6 {
		t.Errorf("Expected range 27500, got %.2f", w.RangeM())
	}
	if floor := New(laserDef, 30).Cooldown(); floor != time.Second {
		t.Errorf("Expected cooldown floor 1s, got %v", floor)
	}
}

func TestDefinitionValidate(t *testing.T) {
	bad := missileDef
	bad.LockRequired = false
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("Expected homing splash without lock rejected, got %v", err)
	}
	if _, err := NewCatalog(laserDef, laserDef); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("Expected duplicate id rejected, got %v", err)
	}
}

func TestCooldownGating(t *testing.T) {
	f := newFixture(t)
	ws := f.system(t, laserDef)
	sl := ws.Slot(0)

	if res := ws.FireActive(); !res.Fired {
		t.Fatalf("Expected first shot to fire, got %+v", res)
	}
	if sl.CooldownRemaining() != 2000*time.Millisecond {
		t.Errorf("Expected 2000ms cooldown, got %v", sl.CooldownRemaining())
	}
	if pct := sl.CooldownPercentage(); pct != 100 {
		t.Errorf("Expected 100%% cooldown, got %.1f", pct)
	}

	ws.UpdateCooldowns(1000 * time.Millisecond)
	res := ws.FireActive()
	if res.Fired || res.Reason != ReasonCooldown {
		t.Fatalf("Expected cooldown rejection, got %+v", res)
	}
	if res.CooldownRemaining != time.Second {
		t.Errorf("Expected 1s remaining, got %v", res.CooldownRemaining)
	}
	if f.hud.cooldown != 1 {
		t.Errorf("Expected cooldown message, got %d", f.hud.cooldown)
	}

	ws.UpdateCooldowns(1001 * time.Millisecond)
	if sl.CooldownRemaining() != 0 || sl.CooldownPercentage() != 0 {
		t.Errorf("Expected clamped cooldown, got %v", sl.CooldownRemaining())
	}
	if res := ws.FireActive(); !res.Fired {
		t.Errorf("Expected shot after 2001ms, got %+v", res)
	}
}

func TestInsufficientEnergy(t *testing.T) {
	f := newFixture(t)
	f.player.ConsumeEnergy(395)
	ws := f.system(t, laserDef)

	res := ws.FireActive()
	if res.Fired || res.Reason != ReasonInsufficientEnergy {
		t.Fatalf("Expected insufficient energy, got %+v", res)
	}
	if f.player.Energy() != 5 {
		t.Errorf("Expected energy untouched at 5, got %.1f", f.player.Energy())
	}
	if f.hud.insufficient != 1 {
		t.Errorf("Expected energy feedback, got %d", f.hud.insufficient)
	}
	if ws.Slot(0).CooldownRemaining() != 0 {
		t.Error("Expected no cooldown after a blocked shot")
	}
}

func TestLockGateKeepsEnergy(t *testing.T) {
	f := newFixture(t)
	def := laserDef
	def.ID, def.LockRequired = "guided_laser", true
	ws := f.system(t, def)

	res := ws.Slot(0).Fire(f.player, nil)
	if res.Reason != ReasonLockRequired {
		t.Fatalf("Expected lock required, got %+v", res)
	}
	if f.player.Energy() != 400 {
		t.Errorf("Expected energy kept at 400, got %.1f", f.player.Energy())
	}
}

func TestSubTargetDamage(t *testing.T) {
	f := newFixture(t)
	spec := ship.Spec{Name: targetcomp.SystemName, MaxLevel: 5, MaxHealth: 100, Levels: map[int]ship.LevelStats{
		3: {Effectiveness: 1, EnergyRate: 1.8, Extra: map[string]float64{targetcomp.StatRangeMultiplier: 1.6, targetcomp.StatAccuracyMultiplier: 1.2}},
	}}
	tc, err := targetcomp.New(spec, "tactical_computer", 3, vmath.NewFastRand(3), targetcomp.Settings{BaseRangeM: 60000, BaseAccuracy: 0.7, BaseMaxTargets: 1}, f.ships)
	if err != nil {
		t.Fatal(err)
	}
	f.player.AddSystem(tc)
	if !tc.Activate(f.player) {
		t.Fatal("Expected computer activation")
	}
	tc.SetTarget(f.enemyTarget())
	if !tc.CycleSubTargetNext() {
		t.Fatal("Expected a sub-target")
	}
	if st := tc.CurrentSubTarget(); st == nil || st.System != "weapons" {
		t.Fatalf("Expected weapons sub-target, got %+v", st)
	}

	ws := f.system(t, laserDef)
	ws.SetLockedTarget(f.enemyTarget())

	res := ws.FireActive()
	if !res.Hit || res.Subsystem != "weapons" {
		t.Fatalf("Expected sub-targeted hit, got %+v", res)
	}
	sys, _ := f.enemy.System("weapons")
	if math.Abs(sys.Health()-22) > 1e-9 {
		t.Errorf("Expected weapons health 22, got %.4f", sys.Health())
	}
	if f.enemy.Hull() != 400 {
		t.Errorf("Expected hull untouched, got %.1f", f.enemy.Hull())
	}

	tc.ClearSubTarget()
	ws.UpdateCooldowns(2 * time.Second)
	res = ws.FireActive()
	if !res.Hit || res.Subsystem != "" {
		t.Fatalf("Expected normal hit, got %+v", res)
	}
	if f.enemy.Hull() != 340 {
		t.Errorf("Expected hull 340, got %.1f", f.enemy.Hull())
	}
}

func TestStrayHitRejectedThenFallback(t *testing.T) {
	f := newFixture(t)
	f.body(t, vmath.Vec3{Z: -1.5}, 2000, physics.EntityRecord{Entity: 5, Kind: core.KindEnemyShip, Ship: 5, Name: "Blocker"})
	ws := f.system(t, laserDef)
	ws.SetLockedTarget(f.enemyTarget())

	res := ws.FireActive()
	if !res.Hit {
		t.Fatalf("Expected fallback hit, got %+v", res)
	}
	if got := f.status.Ints.Get("weapon.rejected_hits").Load(); got != 2 {
		t.Errorf("Expected 2 rejected beams, got %d", got)
	}
	if f.enemy.Hull() != 340 {
		t.Errorf("Expected target hull 340, got %.1f", f.enemy.Hull())
	}
}

func TestPlanetBlocksWithoutDamage(t *testing.T) {
	f := newFixture(t)
	f.body(t, vmath.Vec3{Z: -1.5}, 2000, physics.EntityRecord{Entity: 10, Kind: core.KindPlanet, Name: "Terra"})
	ws := f.system(t, laserDef)
	ws.SetLockedTarget(f.enemyTarget())

	res := ws.FireActive()
	if !res.Hit || res.Damage != 0 {
		t.Fatalf("Expected a hit effect with no damage, got %+v", res)
	}
	if f.enemy.Hull() != 400 {
		t.Errorf("Expected target untouched, got %.1f", f.enemy.Hull())
	}
}

func TestOutOfRangeFiresAnyway(t *testing.T) {
	f := newFixture(t)
	f.enemy.Position = vmath.Vec3{Z: -30}
	ws := f.system(t, laserDef)
	ws.SetLockedTarget(f.enemyTarget())

	res := ws.FireActive()
	if !res.Fired || !res.OutOfRange {
		t.Fatalf("Expected out-of-range shot, got %+v", res)
	}
	if f.hud.outOfRange != 1 {
		t.Errorf("Expected out-of-range feedback, got %d", f.hud.outOfRange)
	}
	if math.Abs(res.DistanceM-30000) > 1e-6 {
		t.Errorf("Expected 30000 m, got %.1f", res.DistanceM)
	}
}

func TestMissileNeedsCrosshairTarget(t *testing.T) {
	f := newFixture(t)
	reg := &fakeRegistry{targets: []target.Target{{Entity: 7, Ship: 7, Kind: core.KindEnemyShip, Name: "Flank", Position: vmath.Vec3{X: 5, Z: -1}, RadiusM: 15}}}
	f.env.Targeting = targeting.NewService(nil, reg, f.clock, targeting.DefaultOptions(), f.status, zerolog.Nop())
	ws := f.system(t, missileDef, laserDef)

	res := ws.FireActive()
	if res.Fired || res.Reason != ReasonLockRequired {
		t.Fatalf("Expected lock required, got %+v", res)
	}
	if len(f.hud.messages) == 0 {
		t.Error("Expected lock-required message")
	}

	ws.SelectNext()
	res = ws.FireActive()
	if !res.Fired {
		t.Fatalf("Expected laser to fire on the fallback target, got %+v", res)
	}
	if math.Abs(res.DistanceM-vmath.DistanceM(vmath.Vec3{}, vmath.Vec3{X: 5, Z: -1})) > 1e-6 {
		t.Errorf("Expected distance to the fallback target, got %.1f", res.DistanceM)
	}
}

func TestSplashLaunchesProjectile(t *testing.T) {
	f := newFixture(t)
	mgr := projectile.NewManager(projectile.Env{Clock: f.clock, Physics: f.world, Ships: f.ships, Log: zerolog.Nop()}, projectile.DefaultOptions())
	f.env.Projectiles = mgr
	ws := f.system(t, torpedoDef)
	ws.SetLockedTarget(f.enemyTarget())

	res := ws.FireActive()
	if !res.Fired || res.Projectile == nil {
		t.Fatalf("Expected a launched projectile, got %+v", res)
	}
	if mgr.Count() != 1 {
		t.Errorf("Expected 1 active projectile, got %d", mgr.Count())
	}
	if res.Projectile.Spec.Damage != 320 || res.Projectile.Spec.BlastRadiusM != 20 {
		t.Errorf("Expected torpedo spec, got %+v", res.Projectile.Spec)
	}
	if res.Projectile.Owner != 1 {
		t.Errorf("Expected owner 1, got %d", res.Projectile.Owner)
	}
}

func TestEquipInvariant(t *testing.T) {
	f := newFixture(t)
	ws := NewSystem(f.player, 4, f.env)

	countLoaded := func() int {
		n := 0
		for i := 0; i < ws.SlotCount(); i++ {
			if !ws.Slot(i).IsEmpty() {
				n++
			}
		}
		return n
	}

	if ws.ActiveIndex() != -1 {
		t.Errorf("Expected no active slot, got %d", ws.ActiveIndex())
	}
	steps := []func(){
		func() { _ = ws.Equip(2, New(laserDef, 1)) },
		func() { _ = ws.Equip(0, New(torpedoDef, 1)) },
		func() { _ = ws.Equip(2, New(laserDef, 2)) },
		func() { _, _ = ws.Unequip(1) },
		func() { _, _ = ws.Unequip(2) },
		func() { _ = ws.Equip(3, New(laserDef, 1)) },
		func() { _, _ = ws.Unequip(0) },
	}
	for i, step := range steps {
		step()
		if ws.EquippedCount() != countLoaded() {
			t.Fatalf("Step %d: expected equipped %d, got %d", i, countLoaded(), ws.EquippedCount())
		}
	}
	if ws.ActiveIndex() != 3 {
		t.Errorf("Expected active slot 3, got %d", ws.ActiveIndex())
	}

	if err := ws.Equip(9, New(laserDef, 1)); !errors.Is(err, ErrSlotIndex) {
		t.Errorf("Expected ErrSlotIndex, got %v", err)
	}
	if err := ws.Equip(0, nil); !errors.Is(err, ErrNilWeapon) {
		t.Errorf("Expected ErrNilWeapon, got %v", err)
	}

	_, _ = ws.Unequip(3)
	if ws.ActiveIndex() != -1 || ws.EquippedCount() != 0 {
		t.Errorf("Expected empty system, got active %d count %d", ws.ActiveIndex(), ws.EquippedCount())
	}
	if res := ws.FireActive(); res.Reason != ReasonNoWeapons {
		t.Errorf("Expected no weapons, got %s", res.Reason)
	}
}

func TestSelectionWrapsAndSkipsEmpty(t *testing.T) {
	f := newFixture(t)
	ws := NewSystem(f.player, 4, f.env)
	if ws.SelectNext() {
		t.Error("Expected no-op selection on an empty system")
	}
	_ = ws.Equip(1, New(laserDef, 1))
	_ = ws.Equip(3, New(torpedoDef, 1))

	ws.SelectNext()
	if ws.ActiveIndex() != 3 {
		t.Errorf("Expected slot 3, got %d", ws.ActiveIndex())
	}
	ws.SelectNext()
	if ws.ActiveIndex() != 1 {
		t.Errorf("Expected wrap to slot 1, got %d", ws.ActiveIndex())
	}
	ws.SelectPrevious()
	if ws.ActiveIndex() != 3 {
		t.Errorf("Expected wrap back to slot 3, got %d", ws.ActiveIndex())
	}
}

func TestAutofireRespectsLock(t *testing.T) {
	f := newFixture(t)
	guided := missileDef
	guided.Autofire = true
	mgr := projectile.NewManager(projectile.Env{Clock: f.clock, Physics: f.world, Ships: f.ships, Log: zerolog.Nop()}, projectile.DefaultOptions())
	f.env.Projectiles = mgr
	ws := f.system(t, laserDef, guided)

	if got := ws.UpdateAutofire(16 * time.Millisecond); len(got) != 0 {
		t.Errorf("Expected nothing while autofire is off, got %d", len(got))
	}
	ws.ToggleAutofire()
	if got := ws.UpdateAutofire(16 * time.Millisecond); len(got) != 0 {
		t.Errorf("Expected no shots without a target, got %d", len(got))
	}

	ws.SetLockedTarget(f.enemyTarget())
	got := ws.UpdateAutofire(16 * time.Millisecond)
	if len(got) != 2 {
		t.Fatalf("Expected both slots to fire, got %d", len(got))
	}
	if mgr.Count() != 1 {
		t.Errorf("Expected one missile in flight, got %d", mgr.Count())
	}
	if got := ws.UpdateAutofire(16 * time.Millisecond); len(got) != 0 {
		t.Errorf("Expected cooldown to hold fire, got %d", len(got))
	}
}

func TestLockedTargetDroppedWhenDestroyed(t *testing.T) {
	f := newFixture(t)
	ws := f.system(t, laserDef)
	ws.SetLockedTarget(f.enemyTarget())
	f.enemy.SetHull(0)

	if ws.LockedTarget() != nil {
		t.Error("Expected destroyed target to drop")
	}
}

func TestSlotFireIgnoresDestroyedTarget(t *testing.T) {
	f := newFixture(t)
	sink := &eventLog{}
	f.env.Events = sink
	f.enemy.SetHull(0)

	ws := f.system(t, laserDef)
	res := ws.Slot(0).Fire(f.player, f.enemyTarget())
	if !res.Fired {
		t.Fatalf("Expected a free-aim shot, got %+v", res)
	}
	p := sink.events[0].Payload.(*event.WeaponFiredPayload)
	if p.Target != 0 {
		t.Errorf("Expected no target on the fired event, got %d", p.Target)
	}
	if res.Destroyed || res.Damage != 0 {
		t.Errorf("Expected the wreck to take no further damage, got %+v", res)
	}

	def := laserDef
	def.ID, def.LockRequired = "guided_laser", true
	guided := f.system(t, def)
	energy := f.player.Energy()
	if res := guided.Slot(0).Fire(f.player, f.enemyTarget()); res.Reason != ReasonLockRequired {
		t.Fatalf("Expected lock required on a destroyed target, got %+v", res)
	}
	if f.player.Energy() != energy {
		t.Errorf("Expected energy kept at %.1f, got %.1f", energy, f.player.Energy())
	}
}

func TestFiredEventCarriesSlot(t *testing.T) {
	f := newFixture(t)
	sink := &eventLog{}
	f.env.Events = sink
	ws := f.system(t, laserDef)
	ws.SetLockedTarget(f.enemyTarget())
	ws.FireActive()

	if len(sink.events) == 0 || sink.events[0].Type != event.EventWeaponFired {
		t.Fatalf("Expected weapon fired first, got %v", sink.events)
	}
	p := sink.events[0].Payload.(*event.WeaponFiredPayload)
	if p.Slot != 0 || p.Target != 2 || !p.InRange {
		t.Errorf("Expected slot 0 at ship 2 in range, got %+v", p)
	}
}

type eventLog struct{ events []event.GameEvent }

func (l *eventLog) Emit(t event.EventType, p any) {
	l.events = append(l.events, event.GameEvent{Type: t, Payload: p})
}

func TestAdoptCarriesUnchangedSlots(t *testing.T) {
	f := newFixture(t)
	prev := f.system(t, laserDef, laserDef)
	prev.ToggleAutofire()
	prev.SetLockedTarget(f.enemyTarget())
	for i := 0; i < 2; i++ {
		if res := prev.Slot(i).Fire(f.player, f.enemyTarget()); !res.Fired {
			t.Fatalf("Expected slot %d to fire, got %+v", i, res)
		}
	}

	next := NewSystem(f.player, 2, f.env)
	if err := next.Equip(0, New(laserDef, 2)); err != nil {
		t.Fatal(err)
	}
	if err := next.Equip(1, New(laserDef, 1)); err != nil {
		t.Fatal(err)
	}
	next.Adopt(prev)

	if cd := next.Slot(0).CooldownRemaining(); cd != 0 {
		t.Errorf("Expected fresh cooldown on replaced slot, got %v", cd)
	}
	if cd := next.Slot(1).CooldownRemaining(); cd != 2*time.Second {
		t.Errorf("Expected carried cooldown 2s, got %v", cd)
	}
	if !next.Autofire() {
		t.Error("Expected autofire carried over")
	}
	if lt := next.LockedTarget(); lt == nil || lt.Entity != 2 {
		t.Errorf("Expected locked target carried over, got %+v", lt)
	}
}
