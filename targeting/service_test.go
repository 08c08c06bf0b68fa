package targeting

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/physics/simworld"
	"github.com/lixenwraith/void-fighter/status"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/vmath"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeCamera struct {
	pos vmath.Vec3
	q   vmath.Orientation
}

func (c *fakeCamera) Position() vmath.Vec3           { return c.pos }
func (c *fakeCamera) Orientation() vmath.Orientation { return c.q }

type fakeRegistry struct{ targets []target.Target }

func (r *fakeRegistry) Targets() []target.Target {
	out := make([]target.Target, len(r.targets))
	copy(out, r.targets)
	return out
}

func enemy(id core.Entity, name string, pos vmath.Vec3) target.Target {
	return target.Target{Entity: id, Kind: core.KindEnemyShip, Name: name, TypeID: "enemy_fighter", Ship: id, Position: pos, RadiusM: 15}
}

func newTestService(reg *fakeRegistry, engine physics.Engine) (*Service, *fakeClock, *status.Registry) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	st := status.NewRegistry()
	return NewService(engine, reg, clock, DefaultOptions(), st, zerolog.Nop()), clock, st
}

func TestMissingInput(t *testing.T) {
	s, _, _ := newTestService(&fakeRegistry{}, nil)

	res := s.CurrentTarget(Request{WeaponRangeM: 1000})
	if res.HasTarget || res.Reason != ReasonMissingInput {
		t.Errorf("Expected %s without camera, got %+v", ReasonMissingInput, res)
	}

	res = s.CurrentTarget(Request{Camera: &fakeCamera{q: vmath.Identity()}})
	if res.Reason != ReasonMissingInput {
		t.Errorf("Expected %s without range, got %s", ReasonMissingInput, res.Reason)
	}
}

func TestCrosshairAcquisition(t *testing.T) {
	reg := &fakeRegistry{targets: []target.Target{
		enemy(1, "Raider", vmath.Vec3{Z: -3}),
		enemy(2, "Decoy", vmath.Vec3{X: 5, Z: -1}),
	}}
	s, _, _ := newTestService(reg, nil)
	cam := &fakeCamera{q: vmath.Identity()}

	res := s.CurrentTarget(Request{Camera: cam, WeaponRangeM: 5000, RequestedBy: "laser_cannon", EnableFallback: true})
	if !res.HasTarget || res.Method != MethodCrosshair {
		t.Fatalf("Expected crosshair target, got %+v", res)
	}
	if res.Target.Entity != 1 {
		t.Errorf("Expected entity 1, got %d", res.Target.Entity)
	}
	if res.Target.DistanceM < 2999 || res.Target.DistanceM > 3001 {
		t.Errorf("Expected ~3000 m, got %.1f", res.Target.DistanceM)
	}
	if !res.InRange || res.RangeState != RangeIn || !res.CanFire {
		t.Errorf("Expected in range and fireable, got %+v", res)
	}
}

func TestCrosshairOutOfRange(t *testing.T) {
	reg := &fakeRegistry{targets: []target.Target{enemy(1, "Raider", vmath.Vec3{Z: -3})}}
	s, _, _ := newTestService(reg, nil)

	res := s.CurrentTarget(Request{Camera: &fakeCamera{q: vmath.Identity()}, WeaponRangeM: 2000})
	if !res.HasTarget {
		t.Fatal("Expected target reported beyond range")
	}
	if res.InRange || res.RangeState != RangeOut || res.CanFire {
		t.Errorf("Expected out of range, got %+v", res)
	}
}

func TestFallbackNearest(t *testing.T) {
	reg := &fakeRegistry{targets: []target.Target{
		enemy(1, "Far", vmath.Vec3{X: 4, Z: -2}),
		enemy(2, "Near", vmath.Vec3{X: 2, Z: -2}),
	}}
	s, _, _ := newTestService(reg, nil)

	res := s.CurrentTarget(Request{Camera: &fakeCamera{q: vmath.Identity()}, WeaponRangeM: 3000, RequestedBy: "laser_cannon", EnableFallback: true})
	if !res.HasTarget || res.Method != MethodFallback {
		t.Fatalf("Expected fallback target, got %+v", res)
	}
	if res.Target.Name != "Near" {
		t.Errorf("Expected nearest target, got %s", res.Target.Name)
	}
}

func TestMissileNeverFallsBack(t *testing.T) {
	reg := &fakeRegistry{targets: []target.Target{enemy(1, "Off-axis", vmath.Vec3{X: 2, Z: -2})}}
	s, _, _ := newTestService(reg, nil)
	cam := &fakeCamera{q: vmath.Identity()}

	for _, req := range []Request{
		{Camera: cam, WeaponRangeM: 50000, RequestedBy: "homing_missile", EnableFallback: true},
		{Camera: cam, WeaponRangeM: 50000, RequestedBy: "torpedo", Homing: true, EnableFallback: true},
	} {
		s.ClearCache()
		res := s.CurrentTarget(req)
		if res.HasTarget || res.Reason != ReasonNoTarget {
			t.Errorf("Expected %s for %s, got %+v", ReasonNoTarget, req.RequestedBy, res)
		}
	}
}

func TestFallbackResultNotServedToMissile(t *testing.T) {
	reg := &fakeRegistry{targets: []target.Target{enemy(1, "Off-axis", vmath.Vec3{X: 2, Z: -2})}}
	s, _, _ := newTestService(reg, nil)
	cam := &fakeCamera{q: vmath.Identity()}

	laser := s.CurrentTarget(Request{Camera: cam, WeaponRangeM: 50000, RequestedBy: "laser_cannon", EnableFallback: true})
	if laser.Method != MethodFallback {
		t.Fatalf("Expected fallback for laser, got %v", laser.Method)
	}
	missile := s.CurrentTarget(Request{Camera: cam, WeaponRangeM: 50000, RequestedBy: "homing_missile", Homing: true, EnableFallback: true})
	if missile.HasTarget {
		t.Error("Expected cached fallback result withheld from missile")
	}
}

func TestCacheValidity(t *testing.T) {
	reg := &fakeRegistry{targets: []target.Target{enemy(1, "Raider", vmath.Vec3{Z: -3})}}
	s, clock, st := newTestService(reg, nil)
	cam := &fakeCamera{q: vmath.Identity()}
	req := Request{Camera: cam, WeaponRangeM: 5000, RequestedBy: "laser_cannon"}

	first := s.CurrentTarget(req)

	// Target leaves; cached answer still served inside the window
	reg.targets = nil
	clock.advance(20 * time.Millisecond)
	second := s.CurrentTarget(req)
	if !second.HasTarget || second.Target.Entity != first.Target.Entity {
		t.Errorf("Expected cached result, got %+v", second)
	}
	if got := st.Ints.Get("targeting.cache_hits").Load(); got != 1 {
		t.Errorf("Expected 1 cache hit, got %d", got)
	}

	// Small range change stays cached, large change re-acquires
	req.WeaponRangeM = 5050
	if res := s.CurrentTarget(req); !res.HasTarget {
		t.Error("Expected cache to survive 50 m range change")
	}
	req.WeaponRangeM = 5200
	if res := s.CurrentTarget(req); res.HasTarget {
		t.Error("Expected re-acquire after 200 m range change")
	}
}

func TestCacheExpiresAndClears(t *testing.T) {
	reg := &fakeRegistry{targets: []target.Target{enemy(1, "Raider", vmath.Vec3{Z: -3})}}
	s, clock, _ := newTestService(reg, nil)
	cam := &fakeCamera{q: vmath.Identity()}
	req := Request{Camera: cam, WeaponRangeM: 5000}

	s.CurrentTarget(req)
	reg.targets = nil

	clock.advance(60 * time.Millisecond)
	if res := s.CurrentTarget(req); res.HasTarget {
		t.Error("Expected cache expiry after 60 ms")
	}

	reg.targets = []target.Target{enemy(1, "Raider", vmath.Vec3{Z: -3})}
	if res := s.CurrentTarget(req); res.HasTarget {
		t.Error("Expected cached empty result inside window")
	}
	s.ClearCache()
	if res := s.CurrentTarget(req); !res.HasTarget {
		t.Error("Expected fresh acquisition after ClearCache")
	}

	// Camera drift beyond 10 m invalidates
	reg.targets = nil
	cam.pos = vmath.Vec3{X: 0.02}
	if res := s.CurrentTarget(req); res.HasTarget {
		t.Error("Expected re-acquire after camera drift")
	}
}

func TestCachedResultIsDetached(t *testing.T) {
	reg := &fakeRegistry{targets: []target.Target{enemy(1, "Raider", vmath.Vec3{Z: -3})}}
	s, _, _ := newTestService(reg, nil)
	req := Request{Camera: &fakeCamera{q: vmath.Identity()}, WeaponRangeM: 5000}

	res := s.CurrentTarget(req)
	res.Target.Name = "mutated"
	if again := s.CurrentTarget(req); again.Target.Name != "Raider" {
		t.Errorf("Expected cache unaffected by caller mutation, got %s", again.Target.Name)
	}
}

func TestPhysicsRaycastPreferred(t *testing.T) {
	world := simworld.New(zerolog.Nop())
	_, err := world.CreateRigidBody(physics.BodyConfig{
		RadiusM:  50,
		Position: vmath.Vec3{Z: -2},
		Record:   physics.EntityRecord{Entity: 7, Kind: core.KindStation, Name: "Bastion", Ship: 7},
	})
	if err != nil {
		t.Fatal(err)
	}

	s, _, _ := newTestService(&fakeRegistry{}, world)
	res := s.CurrentTarget(Request{Camera: &fakeCamera{q: vmath.Identity()}, WeaponRangeM: 5000})
	if !res.HasTarget || res.Target.Entity != 7 {
		t.Fatalf("Expected raycast station target, got %+v", res)
	}
	if res.Target.DistanceM < 1940 || res.Target.DistanceM > 1960 {
		t.Errorf("Expected surface distance ~1950 m, got %.1f", res.Target.DistanceM)
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		dist, rng float64
		in        bool
		state     RangeState
	}{
		{1000, 2000, true, RangeIn},
		{2000, 2000, true, RangeIn},
		{2000.5, 2000, false, RangeOut},
		{100, 0, false, RangeNone},
	}
	for _, tt := range tests {
		rc := ValidateRange(tt.dist, tt.rng)
		if rc.InRange != tt.in || rc.State != tt.state {
			t.Errorf("ValidateRange(%v, %v): expected %v/%v, got %v/%v", tt.dist, tt.rng, tt.in, tt.state, rc.InRange, rc.State)
		}
	}
	if rc := ValidateRange(500, 2000); rc.Ratio != 0.25 {
		t.Errorf("Expected ratio 0.25, got %v", rc.Ratio)
	}
}

func TestAimTolerance(t *testing.T) {
	if got := AimToleranceKm(0.1); got != 0.005 {
		t.Errorf("Expected floor 0.005, got %v", got)
	}
	if got := AimToleranceKm(10); got != 0.1 {
		t.Errorf("Expected 0.1 at 10 km, got %v", got)
	}
}
