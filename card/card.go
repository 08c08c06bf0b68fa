// Package card models installable cards and their binding to ship systems
package card

import (
	"fmt"
	"sort"
)

// Type is the enumerated card type
type Type string

// Weapon cards
const (
	LaserCannon     Type = "laser_cannon"
	PulseCannon     Type = "pulse_cannon"
	PlasmaCannon    Type = "plasma_cannon"
	PhaserArray     Type = "phaser_array"
	DisruptorCannon Type = "disruptor_cannon"
	ParticleBeam    Type = "particle_beam"
	PhotonTorpedo   Type = "photon_torpedo"
	QuantumTorpedo  Type = "quantum_torpedo"
	HomingMissile   Type = "homing_missile"
	HeavyMissile    Type = "heavy_missile"
)

// System cards
const (
	Shields             Type = "shields"
	ShieldGenerator     Type = "shield_generator"
	TargetComputer      Type = "target_computer"
	TacticalComputer    Type = "tactical_computer"
	CombatComputer      Type = "combat_computer"
	StrategicComputer   Type = "strategic_computer"
	HullPlating         Type = "hull_plating"
	EnergyReactor       Type = "energy_reactor"
	ImpulseEngines      Type = "impulse_engines"
	WarpDrive           Type = "warp_drive"
	LifeSupport         Type = "life_support"
	LongRangeScanner    Type = "long_range_scanner"
	SubspaceRadio       Type = "subspace_radio"
	GalacticChart       Type = "galactic_chart"
	CargoHold           Type = "cargo_hold"
	ReinforcedCargoHold Type = "reinforced_cargo_hold"
	ShieldedCargoHold   Type = "shielded_cargo_hold"
)

var weaponTypes = map[Type]bool{
	LaserCannon:     true,
	PulseCannon:     true,
	PlasmaCannon:    true,
	PhaserArray:     true,
	DisruptorCannon: true,
	ParticleBeam:    true,
	PhotonTorpedo:   true,
	QuantumTorpedo:  true,
	HomingMissile:   true,
	HeavyMissile:    true,
}

// bindings lists the many-to-one card-type → system-name overrides
// Types absent here bind 1:1 to the same-named system
var bindings = map[Type]string{
	Shields:           "shields",
	ShieldGenerator:   "shields",
	TargetComputer:    "target_computer",
	TacticalComputer:  "target_computer",
	CombatComputer:    "target_computer",
	StrategicComputer: "target_computer",
}

// IsWeapon reports card types handled by the weapon reconciler
func IsWeapon(t Type) bool {
	return weaponTypes[t]
}

// RegisterWeapon marks an extra catalog type as a weapon card
func RegisterWeapon(t Type) {
	weaponTypes[t] = true
}

// SystemName returns the ship system a card binds to; weapons bind to none
func SystemName(t Type) (string, bool) {
	if t == "" || IsWeapon(t) {
		return "", false
	}
	if name, ok := bindings[t]; ok {
		return name, true
	}
	return string(t), true
}

// BoundTypes returns every card type binding to the named system, sorted
func BoundTypes(system string) []Type {
	var out []Type
	for t, name := range bindings {
		if name == system {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		out = append(out, Type(system))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Rarity grades a card
type Rarity uint8

const (
	Common Rarity = iota
	Rare
	Epic
	Legendary
)

func (r Rarity) String() string {
	switch r {
	case Rare:
		return "rare"
	case Epic:
		return "epic"
	case Legendary:
		return "legendary"
	}
	return "common"
}

// ParseRarity maps a config string, defaulting to Common
func ParseRarity(s string) Rarity {
	switch s {
	case "rare":
		return Rare
	case "epic":
		return Epic
	case "legendary":
		return Legendary
	}
	return Common
}

// Card is one card in a slot of the player's configuration
type Card struct {
	SlotID string
	Type   Type
	Level  int
	Rarity Rarity
}

func (c Card) String() string {
	return fmt.Sprintf("%s[L%d@%s]", c.Type, c.Level, c.SlotID)
}

// Inventory is a read-only iterable of cards
type Inventory interface {
	Cards() []Card
}
