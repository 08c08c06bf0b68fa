package ship

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/vmath"
)

type recordingSink struct {
	events []event.GameEvent
}

func (r *recordingSink) Emit(t event.EventType, p any) {
	r.events = append(r.events, event.GameEvent{Type: t, Payload: p})
}

func (r *recordingSink) count(t event.EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func testSpec(name string, rate float64) Spec {
	return Spec{
		Name:         name,
		MaxLevel:     5,
		MaxHealth:    100,
		AutoActivate: true,
		Levels: map[int]LevelStats{
			1: {Effectiveness: 1.0, EnergyRate: rate},
			2: {Effectiveness: 1.2, EnergyRate: rate * 1.1},
			3: {Effectiveness: 1.4, EnergyRate: rate * 1.2},
		},
	}
}

func testShip(t *testing.T) (*Ship, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	s := New(1, Template{TypeID: "frigate", MaxHull: 500, MaxEnergy: 100, RechargeRate: 10}, sink, vmath.NewFastRand(3))
	return s, sink
}

func TestStateForHealthThresholds(t *testing.T) {
	tests := []struct {
		pct  float64
		want State
	}{
		{1.0, StateOperational},
		{0.51, StateOperational},
		{0.50, StateDamaged},
		{0.26, StateDamaged},
		{0.25, StateCritical},
		{0.01, StateCritical},
		{0, StateDisabled},
		{-1, StateDisabled},
	}
	for _, tt := range tests {
		if got := StateForHealth(tt.pct); got != tt.want {
			t.Errorf("StateForHealth(%v): expected %v, got %v", tt.pct, tt.want, got)
		}
	}
}

func TestTakeDamageDerivesState(t *testing.T) {
	b, err := NewBase(testSpec("impulse_engines", 1), "impulse_engines", 1, nil)
	if err != nil {
		t.Fatalf("NewBase: %v", err)
	}

	b.TakeDamage(0)
	b.TakeDamage(-5)
	if b.Health() != 100 {
		t.Errorf("Expected non-positive damage to be a no-op, got health %v", b.Health())
	}

	b.TakeDamage(60)
	if b.Health() != 40 || b.State() != StateDamaged {
		t.Errorf("Expected 40/damaged, got %v/%v", b.Health(), b.State())
	}

	b.TakeDamage(500)
	if b.Health() != 0 || b.State() != StateDisabled {
		t.Errorf("Expected 0/disabled, got %v/%v", b.Health(), b.State())
	}
	if b.IsOperational() || b.Effectiveness() != 0 {
		t.Error("Expected disabled system to be non-operational with zero effectiveness")
	}
	if b.IsActive() {
		t.Error("Expected disabled system to be inactive")
	}

	b.Repair(0.3)
	if b.State() != StateDamaged || !b.IsOperational() {
		t.Errorf("Expected repair to re-derive damaged, got %v", b.State())
	}
}

func TestOperationalInvariant(t *testing.T) {
	b, _ := NewBase(testSpec("sensors", 1), "sensors", 1, nil)
	for _, dmg := range []float64{10, 20, 30, 15, 24.9, 0.1, 5} {
		b.TakeDamage(dmg)
		want := b.State() != StateDisabled && b.Health() > 0
		if b.IsOperational() != want {
			t.Fatalf("IsOperational mismatch at health %v", b.Health())
		}
	}
}

func TestEffectivenessClamped(t *testing.T) {
	b, _ := NewBase(testSpec("warp_drive", 1), "warp_drive", 3, nil)
	if got := b.Effectiveness(); got != 1 {
		t.Errorf("Expected clamped effectiveness 1, got %v", got)
	}
	b.TakeDamage(60)
	if got := b.Effectiveness(); math.Abs(got-0.56) > 1e-9 {
		t.Errorf("Expected 0.4*1.4=0.56, got %v", got)
	}
}

func TestEnergyRateInefficiency(t *testing.T) {
	b, _ := NewBase(testSpec("shields", 10), "shields", 1, nil)
	if got := b.EnergyConsumptionRate(); got != 10 {
		t.Errorf("Expected full-health rate 10, got %v", got)
	}
	b.TakeDamage(50)
	got := b.EnergyConsumptionRate()
	if got <= 10 || got > 15 {
		t.Errorf("Expected damaged rate in (10, 15], got %v", got)
	}
	b.Deactivate()
	if b.EnergyConsumptionRate() != 0 {
		t.Error("Expected inactive rate 0")
	}
}

func TestUpdateDrawsEnergyAndDeactivatesOnShortfall(t *testing.T) {
	s, _ := testShip(t)
	b, _ := NewBase(testSpec("life_support", 20), "life_support", 1, nil)
	s.AddSystem(b)

	s.UpdateSystems(time.Second, PhaseSystems)
	if s.Energy() != 80 {
		t.Errorf("Expected 80 energy after 1s at 20/s, got %v", s.Energy())
	}

	s.UpdateSystems(5*time.Second, PhaseSystems)
	if b.IsActive() {
		t.Error("Expected shortfall to deactivate the system")
	}
	if s.Energy() != 0 {
		t.Errorf("Expected energy to stop at 0, got %v", s.Energy())
	}

	s.Recharge(time.Second)
	s.UpdateSystems(time.Second, PhaseSystems)
	if b.IsActive() {
		t.Error("Expected system to stay off after recharge")
	}
}

func TestUpgrade(t *testing.T) {
	spec := testSpec("warp_drive", 1)
	spec.MaxLevel = 2
	b, _ := NewBase(spec, "warp_drive", 1, nil)
	if err := b.Upgrade(); err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	if b.Level() != 2 || b.Stats().Effectiveness != 1.2 {
		t.Errorf("Expected level 2 stats, got L%d %+v", b.Level(), b.Stats())
	}
	if err := b.Upgrade(); err != ErrMaxLevel {
		t.Errorf("Expected ErrMaxLevel, got %v", err)
	}
}

func TestNewBaseRejectsBadLevel(t *testing.T) {
	if _, err := NewBase(testSpec("warp_drive", 1), "warp_drive", 9, nil); err == nil {
		t.Error("Expected error for level above max")
	}
}

func TestCriticalTransitionEmitsEvents(t *testing.T) {
	s, sink := testShip(t)
	for i := 0; i < 200; i++ {
		b, _ := NewBase(testSpec("sensors", 0), "sensors", 1, vmath.NewFastRand(uint64(i+1)))
		s.AddSystem(b)
		b.TakeDamage(80)
	}
	if got := sink.count(event.EventSystemStateChanged); got != 200 {
		t.Errorf("Expected 200 state changes, got %d", got)
	}
	cascades := sink.count(event.EventCascadingFailure)
	if cascades == 0 || cascades > 60 {
		t.Errorf("Expected roughly 10%% cascading failures, got %d/200", cascades)
	}
}

func TestSystemOrderPreserved(t *testing.T) {
	s, _ := testShip(t)
	for _, n := range []string{"a", "b", "c"} {
		b, _ := NewBase(testSpec(n, 0), n, 1, nil)
		s.AddSystem(b)
	}
	s.RemoveSystem("b")
	d, _ := NewBase(testSpec("d", 0), "d", 1, nil)
	s.AddSystem(d)

	var names []string
	for _, sys := range s.Systems() {
		names = append(names, sys.Name())
	}
	if len(names) != 3 || names[0] != "a" || names[1] != "c" || names[2] != "d" {
		t.Errorf("Expected [a c d], got %v", names)
	}
	if sys, ok := s.System("c"); !ok || sys.Name() != "c" {
		t.Error("Expected index to follow removal")
	}
}

func shieldSpec() Spec {
	return Spec{
		Name:         "shields",
		MaxHealth:    100,
		AutoActivate: true,
		Levels: map[int]LevelStats{
			1: {Effectiveness: 1, EnergyRate: 1, Extra: map[string]float64{StatCapacity: 50, StatRecharge: 10}},
		},
	}
}

func TestApplyDamageShieldsThenHull(t *testing.T) {
	s, _ := testShip(t)
	sh, _ := NewShields(shieldSpec(), "shields", 1, nil)
	s.AddSystem(sh)

	res := s.ApplyDamage(60, core.DamageEnergy, "")
	if res.ShieldDamage != 50 || res.HullDamage != 10 {
		t.Errorf("Expected 50 shield/10 hull, got %v/%v", res.ShieldDamage, res.HullDamage)
	}
	if s.Hull() != 490 || s.ShieldHP() != 0 {
		t.Errorf("Expected hull 490 shield 0, got %v/%v", s.Hull(), s.ShieldHP())
	}

	s.UpdateSystems(time.Second, PhaseSystems)
	if s.ShieldHP() != 10 {
		t.Errorf("Expected shield recharge to 10, got %v", s.ShieldHP())
	}
}

func TestApplyDamageSubsystemOnly(t *testing.T) {
	s, _ := testShip(t)
	sh, _ := NewShields(shieldSpec(), "shields", 1, nil)
	weapons, _ := NewBase(testSpec("weapons", 0), "weapons", 1, nil)
	s.AddSystem(sh)
	s.AddSystem(weapons)

	res := s.ApplyDamage(78, core.DamageEnergy, "weapons")
	if weapons.Health() != 22 {
		t.Errorf("Expected weapons health 22, got %v", weapons.Health())
	}
	if res.ShieldDamage != 0 || res.HullDamage != 0 || s.Hull() != 500 || s.ShieldHP() != 50 {
		t.Error("Expected shields and hull untouched by sub-targeted hit")
	}
	if len(res.SystemsDamaged) != 1 || res.SystemsDamaged[0] != "weapons" {
		t.Errorf("Expected [weapons], got %v", res.SystemsDamaged)
	}
}

func TestApplyDamageDestroysAtEpsilon(t *testing.T) {
	s, _ := testShip(t)
	res := s.ApplyDamage(499.9995, core.DamageKinetic, "")
	if !res.Destroyed || !s.IsDestroyed() {
		t.Errorf("Expected destroyed at hull %v", s.Hull())
	}
	if s.Hull() < 0 {
		t.Error("Expected hull clamped at 0")
	}
	if res := s.ApplyDamage(-10, core.DamageKinetic, ""); res.Total() != 0 {
		t.Error("Expected negative damage to be a no-op")
	}
}

func TestExplosiveDamagesSubsystems(t *testing.T) {
	s := New(1, Template{MaxHull: 1e9, MaxEnergy: 10}, nil, vmath.NewFastRand(11))
	for i := 0; i < 20; i++ {
		b, _ := NewBase(testSpec(string(rune('a'+i)), 0), "x", 1, nil)
		s.AddSystem(b)
	}
	hits := 0
	for i := 0; i < 10; i++ {
		res := s.ApplyDamage(100, core.DamageExplosive, "")
		hits += len(res.SystemsDamaged)
	}
	if hits == 0 {
		t.Error("Expected explosive hits to damage some subsystems")
	}

	before := 0.0
	for _, sys := range s.Systems() {
		before += sys.Health()
	}
	s.ApplyDamage(100, core.DamageKinetic, "")
	after := 0.0
	for _, sys := range s.Systems() {
		after += sys.Health()
	}
	if before != after {
		t.Error("Expected kinetic hits to leave subsystems untouched")
	}
}

func TestRecalculateTotals(t *testing.T) {
	s, _ := testShip(t)
	s.SetHull(250)
	hp, _ := NewHullPlating(Spec{
		Name:   "hull_plating",
		Levels: map[int]LevelStats{1: {Effectiveness: 1, Extra: map[string]float64{StatHullBonus: 500}}},
	}, "hull_plating", 1, nil)
	s.AddSystem(hp)
	s.RecalculateTotals()
	if s.MaxHull() != 1000 || s.Hull() != 500 {
		t.Errorf("Expected 500/1000, got %v/%v", s.Hull(), s.MaxHull())
	}

	s.RemoveSystem("hull_plating")
	s.RecalculateTotals()
	if s.MaxHull() != 500 || s.Hull() != 250 {
		t.Errorf("Expected 250/500, got %v/%v", s.Hull(), s.MaxHull())
	}
}

func TestReactorScalesRecharge(t *testing.T) {
	s, _ := testShip(t)
	s.DrainEnergy()
	r, _ := NewReactor(Spec{
		Name:         "energy_reactor",
		AutoActivate: true,
		Levels:       map[int]LevelStats{1: {Effectiveness: 1, Extra: map[string]float64{StatCapacityBonus: 100, StatRechargeBonus: 5}}},
	}, "energy_reactor", 1, nil)
	s.AddSystem(r)
	s.RecalculateTotals()

	s.Recharge(time.Second)
	if s.Energy() != 15 {
		t.Errorf("Expected 10*1+5=15, got %v", s.Energy())
	}
	r.Deactivate()
	s.Recharge(time.Second)
	if s.Energy() != 15 {
		t.Errorf("Expected offline reactor to stop recharge, got %v", s.Energy())
	}
	if s.MaxEnergy() != 200 {
		t.Errorf("Expected max energy 200, got %v", s.MaxEnergy())
	}
}

func TestEnergyNeverExceedsBounds(t *testing.T) {
	s, _ := testShip(t)
	s.Recharge(time.Hour)
	if s.Energy() != s.MaxEnergy() {
		t.Errorf("Expected clamp at max, got %v", s.Energy())
	}
	if s.ConsumeEnergy(1000) {
		t.Error("Expected consume beyond available to fail")
	}
	if s.Energy() != 100 {
		t.Error("Expected failed consume to leave energy untouched")
	}
}
