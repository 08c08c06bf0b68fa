package core

import "time"

// Entity is a stable arena index shared by every store and the physics world
// Zero is never allocated and means "no entity"
type Entity uint64

// EntityKind classifies what an entity is for targeting and collision rules
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindPlayerShip
	KindEnemyShip
	KindStation
	KindBeacon
	KindStar
	KindPlanet
	KindMoon
	KindProjectile
)

var kindNames = [...]string{
	KindUnknown:    "unknown",
	KindPlayerShip: "player_ship",
	KindEnemyShip:  "enemy_ship",
	KindStation:    "station",
	KindBeacon:     "beacon",
	KindStar:       "star",
	KindPlanet:     "planet",
	KindMoon:       "moon",
	KindProjectile: "projectile",
}

func (k EntityKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a config string to a kind, KindUnknown when unrecognized
func ParseKind(s string) EntityKind {
	for i, name := range kindNames {
		if name == s {
			return EntityKind(i)
		}
	}
	return KindUnknown
}

// IsCelestial reports stars, planets and moons
func (k EntityKind) IsCelestial() bool {
	return k == KindStar || k == KindPlanet || k == KindMoon
}

// IsTargetable reports kinds that may be referenced by a Target
// Celestial bodies and projectiles are never damageable targets
func (k EntityKind) IsTargetable() bool {
	switch k {
	case KindEnemyShip, KindStation, KindBeacon:
		return true
	}
	return false
}

// DamageType selects incidental damage behavior in the ship damage pipeline
type DamageType uint8

const (
	DamageEnergy DamageType = iota
	DamageKinetic
	DamageExplosive
)

func (d DamageType) String() string {
	switch d {
	case DamageEnergy:
		return "energy"
	case DamageKinetic:
		return "kinetic"
	case DamageExplosive:
		return "explosive"
	}
	return "unknown"
}

// Clock yields simulated game time
type Clock interface {
	Now() time.Time
}
