package physics

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/void-fighter/vmath"
)

func TestApplyHomingBoundedTurn(t *testing.T) {
	vel := vmath.Vec3{X: 8}
	out := ApplyHoming(vel, vmath.Vec3{}, vmath.Vec3{Y: 10}, HomingProfile{TurnRateDeg: 90}, 500*time.Millisecond)

	if math.Abs(vmath.Mag(out)-8) > 1e-9 {
		t.Errorf("Expected speed 8 preserved, got %v", vmath.Mag(out))
	}
	got := vmath.AngleBetween(vel, out) * 180 / math.Pi
	if math.Abs(got-45) > 1e-6 {
		t.Errorf("Expected 45 degree turn, got %v", got)
	}
}

func TestApplyHomingTurnsAroundFromBehind(t *testing.T) {
	vel := vmath.Vec3{Z: -8}
	target := vmath.Vec3{Z: 5}
	prof := HomingProfile{TurnRateDeg: 90}

	out := ApplyHoming(vel, vmath.Vec3{}, target, prof, 100*time.Millisecond)
	if got := vmath.AngleBetween(vel, out) * 180 / math.Pi; math.Abs(got-9) > 1e-6 {
		t.Errorf("Expected 9 degree turn off a reversed heading, got %v", got)
	}
	if math.Abs(vmath.Mag(out)-8) > 1e-9 {
		t.Errorf("Expected speed 8 preserved, got %v", vmath.Mag(out))
	}

	for i := 1; i < 20; i++ {
		out = ApplyHoming(out, vmath.Vec3{}, target, prof, 100*time.Millisecond)
	}
	if out.Z <= 0 || vmath.AngleBetween(out, target) > 1e-6 {
		t.Errorf("Expected heading onto the target after 2s, got %v", out)
	}
}

func TestApplyHomingDisabled(t *testing.T) {
	vel := vmath.Vec3{X: 8}
	if out := ApplyHoming(vel, vmath.Vec3{}, vmath.Vec3{Y: 10}, HomingProfile{}, time.Second); out != vel {
		t.Errorf("Expected unchanged velocity without turn rate, got %v", out)
	}
}

type marchOnly struct {
	Engine
	hitAt vmath.Vec3
	hit   bool
}

func (m *marchOnly) March(from, to vmath.Vec3, r float64) (Hit, bool) {
	if !m.hit {
		return Hit{}, false
	}
	return Hit{Point: m.hitAt}, true
}

func TestBallisticAdvance(t *testing.T) {
	b := &Ballistic{Velocity: vmath.Vec3{Z: -10}}
	if _, ok := b.Advance(&marchOnly{}, time.Second); ok {
		t.Fatal("Expected no hit")
	}
	if b.Position != (vmath.Vec3{Z: -10}) {
		t.Errorf("Expected position (0,0,-10), got %v", b.Position)
	}

	if _, ok := b.Advance(&marchOnly{hit: true, hitAt: vmath.Vec3{Z: -12}}, time.Second); !ok {
		t.Fatal("Expected hit")
	}
	if b.Position != (vmath.Vec3{Z: -12}) {
		t.Errorf("Expected position at contact, got %v", b.Position)
	}
}

func TestElasticResponseHeadOn(t *testing.T) {
	va, vb, ok := ElasticResponse(
		vmath.Vec3{X: 0}, vmath.Vec3{X: 1},
		vmath.Vec3{X: 2}, vmath.Vec3{X: -2},
		1, 1, 1)
	if !ok {
		t.Fatal("Expected approaching bodies to collide")
	}
	if math.Abs(va.X+2) > 1e-9 || math.Abs(vb.X-2) > 1e-9 {
		t.Errorf("Expected velocities swapped, got %v %v", va, vb)
	}

	if _, _, ok := ElasticResponse(vmath.Vec3{}, vmath.Vec3{X: 1}, vmath.Vec3{X: -1}, vmath.Vec3{X: 1}, 1, 1, 1); ok {
		t.Error("Expected separating bodies to be ignored")
	}
}

func TestSeparateOverlap(t *testing.T) {
	a, b, ok := SeparateOverlap(vmath.Vec3{}, vmath.Vec3{X: 1}, 1, 1, 1, 1)
	if !ok {
		t.Fatal("Expected overlap to be resolved")
	}
	if d := vmath.Distance(a, b); d < 2 {
		t.Errorf("Expected separation >= 2, got %f", d)
	}
	if _, _, ok := SeparateOverlap(vmath.Vec3{}, vmath.Vec3{X: 3}, 1, 1, 1, 1); ok {
		t.Error("Expected disjoint spheres untouched")
	}
}
