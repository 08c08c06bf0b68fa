package ship

import (
	"math"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/parameter"
)

// DamageResult reports how one damage event was distributed
type DamageResult struct {
	ShieldDamage   float64
	HullDamage     float64
	SystemDamage   float64
	SystemsDamaged []string
	Destroyed      bool
}

// Total returns damage applied to shields, hull and subsystems
func (r DamageResult) Total() float64 {
	return r.ShieldDamage + r.HullDamage + r.SystemDamage
}

// ApplyDamage routes one damage event through the ship
// A named subsystem takes the full amount and shields/hull are untouched;
// otherwise shields absorb first and the remainder hits hull. Explosive
// events may also damage random operational subsystems.
func (s *Ship) ApplyDamage(amount float64, kind core.DamageType, subsystem string) DamageResult {
	var res DamageResult
	if amount <= 0 || math.IsNaN(amount) {
		res.Destroyed = s.IsDestroyed()
		return res
	}

	if subsystem != "" {
		if sys, ok := s.System(subsystem); ok {
			before := sys.Health()
			sys.TakeDamage(amount)
			res.SystemDamage = before - sys.Health()
			res.SystemsDamaged = append(res.SystemsDamaged, subsystem)
		}
		res.Destroyed = s.IsDestroyed()
		return res
	}

	remaining := amount
	if sp := s.shieldProvider(); sp != nil {
		absorbed := sp.Absorb(remaining)
		res.ShieldDamage = absorbed
		remaining -= absorbed
	}

	if remaining > 0 {
		before := s.hull
		s.hull = math.Max(0, s.hull-remaining)
		res.HullDamage = before - s.hull
	}

	if kind == core.DamageExplosive {
		share := amount * parameter.ExplosiveSubsystemFraction
		for _, sys := range s.systems {
			if !sys.IsOperational() {
				continue
			}
			if s.rng.Chance(parameter.ExplosiveSubsystemChance) {
				before := sys.Health()
				sys.TakeDamage(share)
				res.SystemDamage += before - sys.Health()
				res.SystemsDamaged = append(res.SystemsDamaged, sys.Name())
			}
		}
	}

	res.Destroyed = s.IsDestroyed()
	return res
}
