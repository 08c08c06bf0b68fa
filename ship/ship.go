// Package ship holds the ship aggregate, its damage pipeline and the ship system model
package ship

import (
	"math"
	"time"

	"github.com/lixenwraith/void-fighter/card"
	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Template is the per-type baseline a ship is constructed from
type Template struct {
	TypeID       string
	Name         string
	Kind         core.EntityKind
	StationType  string
	MaxHull      float64
	MaxEnergy    float64
	RechargeRate float64 // Energy per second before reactor scaling
	RadiusM      float64
}

// Ship is the aggregate that weapons target and damage
// Systems are kept in insertion order; that order is the energy draw order
type Ship struct {
	ID          core.Entity
	TypeID      string
	Name        string
	Kind        core.EntityKind
	StationType string
	Position    vmath.Vec3
	Velocity    vmath.Vec3
	RadiusM     float64
	Cards       *card.Set

	hull, maxHull, baseMaxHull       float64
	energy, maxEnergy, baseMaxEnergy float64
	rechargeRate                     float64

	systems []System
	index   map[string]int

	sink event.Sink
	rng  *vmath.FastRand
}

// New constructs a ship at full hull and energy with no systems
func New(id core.Entity, tpl Template, sink event.Sink, rng *vmath.FastRand) *Ship {
	if sink == nil {
		sink = event.Discard{}
	}
	if rng == nil {
		rng = vmath.NewFastRand(uint64(id) + 1)
	}
	name := tpl.Name
	if name == "" {
		name = tpl.TypeID
	}
	return &Ship{
		ID:            id,
		TypeID:        tpl.TypeID,
		Name:          name,
		Kind:          tpl.Kind,
		StationType:   tpl.StationType,
		RadiusM:       tpl.RadiusM,
		Cards:         card.NewSet(),
		hull:          tpl.MaxHull,
		maxHull:       tpl.MaxHull,
		baseMaxHull:   tpl.MaxHull,
		energy:        tpl.MaxEnergy,
		maxEnergy:     tpl.MaxEnergy,
		baseMaxEnergy: tpl.MaxEnergy,
		rechargeRate:  tpl.RechargeRate,
		index:         make(map[string]int),
		sink:          sink,
		rng:           rng,
	}
}

func (s *Ship) Hull() float64 { return s.hull }
func (s *Ship) MaxHull() float64 { return s.maxHull }
func (s *Ship) Energy() float64 { return s.energy }
func (s *Ship) MaxEnergy() float64 { return s.maxEnergy }
func (s *Ship) RechargeRate() float64 { return s.rechargeRate }
func (s *Ship) Sink() event.Sink { return s.sink }
func (s *Ship) RNG() *vmath.FastRand { return s.rng }

// IsDestroyed holds once hull is at or below the destruction epsilon
func (s *Ship) IsDestroyed() bool {
	return s.hull <= parameter.DestroyedHullEpsilon
}

func (s *Ship) HasEnergy(amount float64) bool {
	return s.energy >= amount
}

// ConsumeEnergy deducts amount if available; otherwise nothing changes
func (s *Ship) ConsumeEnergy(amount float64) bool {
	if amount <= 0 {
		return true
	}
	if s.energy < amount {
		return false
	}
	s.energy -= amount
	return true
}

// DrainEnergy empties the ship's energy
func (s *Ship) DrainEnergy() {
	s.energy = 0
}

// AddEnergy adds amount clamped to max
func (s *Ship) AddEnergy(amount float64) {
	if amount <= 0 {
		return
	}
	s.energy = math.Min(s.maxEnergy, s.energy+amount)
}

// Recharge regenerates energy for dt, scaled by the reactor when one is installed
func (s *Ship) Recharge(dt time.Duration) {
	rate := s.rechargeRate
	for _, sys := range s.systems {
		if ec, ok := sys.(EnergyContributor); ok {
			rate = rate*ec.RechargeMultiplier() + ec.RechargeBonus()
		}
	}
	s.AddEnergy(rate * dt.Seconds())
}

// SetHull sets current hull clamped to [0, max]
func (s *Ship) SetHull(v float64) {
	s.hull = vmath.Clamp(v, 0, s.maxHull)
}

// AddSystem appends a system, replacing any existing system of the same name in place
func (s *Ship) AddSystem(sys System) {
	sys.SystemBase().Attach(s)
	if i, ok := s.index[sys.Name()]; ok {
		s.systems[i] = sys
		return
	}
	s.index[sys.Name()] = len(s.systems)
	s.systems = append(s.systems, sys)
}

// RemoveSystem deletes a system by name preserving the order of the rest
func (s *Ship) RemoveSystem(name string) bool {
	i, ok := s.index[name]
	if !ok {
		return false
	}
	s.systems[i].SystemBase().Attach(nil)
	s.systems = append(s.systems[:i], s.systems[i+1:]...)
	delete(s.index, name)
	for j := i; j < len(s.systems); j++ {
		s.index[s.systems[j].Name()] = j
	}
	return true
}

// System returns the named system
func (s *Ship) System(name string) (System, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.systems[i], true
}

func (s *Ship) HasSystem(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Systems returns systems in insertion order
func (s *Ship) Systems() []System {
	out := make([]System, len(s.systems))
	copy(out, s.systems)
	return out
}

// UpdateSystems advances every system in the given phase in insertion order
func (s *Ship) UpdateSystems(dt time.Duration, phase Phase) {
	for _, sys := range s.Systems() {
		if sys.Phase() == phase {
			sys.Update(dt, s)
		}
	}
}

// RepairAll repairs every system by fraction of its max health
func (s *Ship) RepairAll(fraction float64) {
	for _, sys := range s.systems {
		sys.Repair(fraction)
	}
}

// RecalculateTotals recomputes max hull and energy from contributing systems
// Current values keep their fraction of the previous maximum
func (s *Ship) RecalculateTotals() {
	maxHull := s.baseMaxHull
	maxEnergy := s.baseMaxEnergy
	for _, sys := range s.systems {
		if hc, ok := sys.(HullContributor); ok {
			maxHull += hc.HullBonus()
		}
		if ec, ok := sys.(EnergyContributor); ok {
			maxEnergy += ec.CapacityBonus()
		}
	}
	s.hull = rescale(s.hull, s.maxHull, maxHull)
	s.energy = rescale(s.energy, s.maxEnergy, maxEnergy)
	s.maxHull, s.maxEnergy = maxHull, maxEnergy
}

func rescale(cur, oldMax, newMax float64) float64 {
	if oldMax <= 0 {
		return newMax
	}
	return vmath.Clamp(cur/oldMax*newMax, 0, newMax)
}

// ShieldHP returns current shield strength, 0 without a shield system
func (s *Ship) ShieldHP() float64 {
	if sp := s.shieldProvider(); sp != nil {
		return sp.ShieldHP()
	}
	return 0
}

func (s *Ship) shieldProvider() ShieldProvider {
	for _, sys := range s.systems {
		if sp, ok := sys.(ShieldProvider); ok {
			return sp
		}
	}
	return nil
}

// ShieldProvider absorbs incoming damage before hull
type ShieldProvider interface {
	ShieldHP() float64
	Absorb(amount float64) float64
}

// HullContributor adds to max hull
type HullContributor interface {
	HullBonus() float64
}

// EnergyContributor adds energy capacity and scales recharge
type EnergyContributor interface {
	CapacityBonus() float64
	RechargeMultiplier() float64
	RechargeBonus() float64
}
