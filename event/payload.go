package event

import "github.com/lixenwraith/void-fighter/core"

type CardsChangedPayload struct {
	Ship core.Entity
}

type SystemsReconciledPayload struct {
	Ship     core.Entity
	Added    []string
	Removed  []string
	Replaced []string
}

type SystemStatePayload struct {
	Ship   core.Entity
	System string
	From   string
	To     string
	Health float64 // Fraction 0..1
}

type SystemErrorPayload struct {
	Ship     core.Entity
	System   string
	Category string
	Message  string
}

type WeaponFiredPayload struct {
	Ship      core.Entity
	Slot      int
	Weapon    string
	Target    core.Entity
	DistanceM float64
	InRange   bool
}

type WeaponHitPayload struct {
	Ship         core.Entity
	Weapon       string
	Target       core.Entity
	TargetName   string
	Subsystem    string
	Damage       float64
	ShieldDamage float64
	HullDamage   float64
	Destroyed    bool
}

type WeaponMissPayload struct {
	Ship   core.Entity
	Weapon string
	Reason string
}

type ProjectilePayload struct {
	ID        string
	Weapon    string
	Owner     core.Entity
	Target    core.Entity
	DistanceM float64
}

type ShipDestroyedPayload struct {
	Ship   core.Entity
	Name   string
	Killer core.Entity
	Weapon string
}

type TargetChangedPayload struct {
	Ship   core.Entity
	Target core.Entity
}
