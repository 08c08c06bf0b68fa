package ship

import (
	"math"
	"time"

	"github.com/lixenwraith/void-fighter/vmath"
)

// Level table keys used by the concrete systems
const (
	StatCapacity      = "capacity"
	StatRecharge      = "recharge"
	StatHullBonus     = "hull_bonus"
	StatCapacityBonus = "capacity_bonus"
	StatRechargeBonus = "recharge_bonus"
	StatSpeed         = "speed"
)

// NewGeneric builds a system whose behavior is fully described by its level table
func NewGeneric(spec Spec, variant string, level int, rng *vmath.FastRand) (System, error) {
	b, err := NewBase(spec, variant, level, rng)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Shields absorbs damage before hull and regenerates while powered
type Shields struct {
	*Base
	strength float64
}

func NewShields(spec Spec, variant string, level int, rng *vmath.FastRand) (System, error) {
	b, err := NewBase(spec, variant, level, rng)
	if err != nil {
		return nil, err
	}
	sh := &Shields{Base: b}
	sh.strength = sh.Capacity()
	return sh, nil
}

// Capacity is the level capacity scaled by effectiveness
func (sh *Shields) Capacity() float64 {
	return sh.stats.Stat(StatCapacity) * sh.Effectiveness()
}

// ShieldHP is 0 while the generator is down
func (sh *Shields) ShieldHP() float64 {
	if !sh.active || !sh.IsOperational() {
		return 0
	}
	return math.Min(sh.strength, sh.Capacity())
}

// Absorb takes up to the available strength and returns what was absorbed
func (sh *Shields) Absorb(amount float64) float64 {
	avail := sh.ShieldHP()
	absorbed := math.Min(amount, avail)
	if absorbed <= 0 {
		return 0
	}
	sh.strength = avail - absorbed
	return absorbed
}

func (sh *Shields) Update(dt time.Duration, s *Ship) {
	if !sh.DrawEnergy(dt, s) {
		return
	}
	sh.strength = math.Min(sh.Capacity(), sh.strength+sh.stats.Stat(StatRecharge)*sh.Effectiveness()*dt.Seconds())
}

// Reactor scales ship recharge by its effectiveness and adds capacity
type Reactor struct {
	*Base
}

func NewReactor(spec Spec, variant string, level int, rng *vmath.FastRand) (System, error) {
	b, err := NewBase(spec, variant, level, rng)
	if err != nil {
		return nil, err
	}
	return &Reactor{Base: b}, nil
}

func (r *Reactor) CapacityBonus() float64 {
	return r.stats.Stat(StatCapacityBonus)
}

// RechargeMultiplier is 0 when offline so the ship stops regenerating
func (r *Reactor) RechargeMultiplier() float64 {
	if !r.active {
		return 0
	}
	return r.Effectiveness()
}

func (r *Reactor) RechargeBonus() float64 {
	if !r.active {
		return 0
	}
	return r.stats.Stat(StatRechargeBonus) * r.Effectiveness()
}

// HullPlating raises max hull by its level bonus
type HullPlating struct {
	*Base
}

func NewHullPlating(spec Spec, variant string, level int, rng *vmath.FastRand) (System, error) {
	b, err := NewBase(spec, variant, level, rng)
	if err != nil {
		return nil, err
	}
	return &HullPlating{Base: b}, nil
}

func (h *HullPlating) HullBonus() float64 {
	return h.stats.Stat(StatHullBonus)
}

// Engines exposes a speed derived from its level and condition
type Engines struct {
	*Base
}

func NewEngines(spec Spec, variant string, level int, rng *vmath.FastRand) (System, error) {
	b, err := NewBase(spec, variant, level, rng)
	if err != nil {
		return nil, err
	}
	return &Engines{Base: b}, nil
}

// MaxSpeed is the level speed scaled by effectiveness, 0 when inactive
func (e *Engines) MaxSpeed() float64 {
	if !e.active {
		return 0
	}
	return e.stats.Stat(StatSpeed) * e.Effectiveness()
}
