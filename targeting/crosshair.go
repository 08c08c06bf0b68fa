package targeting

import (
	"math"

	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/service"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Crosshair resolves what lies under the view center
// A physics raycast is tried first; when it reports nothing damageable the
// registry is scanned for the target nearest the ray within aim tolerance
type Crosshair struct {
	physics  physics.Engine
	registry service.Registry
}

func NewCrosshair(engine physics.Engine, registry service.Registry) *Crosshair {
	return &Crosshair{physics: engine, registry: registry}
}

// Acquire casts from origin along dir up to maxKm world units
func (c *Crosshair) Acquire(origin, dir vmath.Vec3, maxKm float64) (*target.Target, bool) {
	dir = vmath.Normalize(dir)
	if maxKm <= 0 || vmath.Mag(dir) == 0 {
		return nil, false
	}

	var candidates []target.Target
	if c.registry != nil {
		candidates = c.registry.Targets()
	}

	if c.physics != nil {
		if hit, ok := c.physics.Raycast(origin, dir, maxKm); ok && hit.Entity.Kind.IsTargetable() {
			if t := fromHit(hit, candidates); t != nil {
				t.DistanceM = hit.Distance * vmath.MetersPerUnit
				return t, true
			}
		}
	}

	best := -1
	bestAlong := math.Inf(1)
	for i := range candidates {
		cand := &candidates[i]
		if !cand.Valid() {
			continue
		}
		perp, along := vmath.PointRayDistance(origin, dir, cand.Position)
		if along <= 0 || along > maxKm {
			continue
		}
		slack := cand.RadiusM/vmath.MetersPerUnit + AimToleranceKm(along)
		if perp > slack {
			continue
		}
		if along < bestAlong {
			best, bestAlong = i, along
		}
	}
	if best < 0 {
		return nil, false
	}
	return candidates[best].WithDistanceFrom(origin), true
}

// fromHit prefers the registry entry for the hit entity so name and radius are current
func fromHit(hit physics.Hit, candidates []target.Target) *target.Target {
	for i := range candidates {
		if candidates[i].Entity == hit.Entity.Entity {
			return candidates[i].Clone()
		}
	}
	t := &target.Target{
		Entity:   hit.Entity.Entity,
		Kind:     hit.Entity.Kind,
		Name:     hit.Entity.Name,
		TypeID:   hit.Entity.TypeID,
		Ship:     hit.Entity.Ship,
		Position: hit.Point,
	}
	if !t.Valid() {
		return nil
	}
	return t
}

// Nearest returns the closest valid candidate within maxM meters of origin
func Nearest(origin vmath.Vec3, candidates []target.Target, maxM float64) (*target.Target, bool) {
	best := -1
	bestD := math.Inf(1)
	for i := range candidates {
		if !candidates[i].Valid() {
			continue
		}
		d := vmath.DistanceM(origin, candidates[i].Position)
		if d <= maxM && d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return nil, false
	}
	t := candidates[best].Clone()
	t.DistanceM = bestD
	return t, true
}
