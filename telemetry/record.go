// Package telemetry writes the combat log: one CSV row per resolved combat event
package telemetry

import (
	"time"

	"github.com/lixenwraith/void-fighter/event"
)

// Record is one combat log row
type Record struct {
	TimeMs       int64   `csv:"time_ms"`
	Event        string  `csv:"event"`
	Ship         uint64  `csv:"ship"`
	Weapon       string  `csv:"weapon"`
	Target       uint64  `csv:"target"`
	TargetName   string  `csv:"target_name"`
	Subsystem    string  `csv:"subsystem"`
	Damage       float64 `csv:"damage"`
	ShieldDamage float64 `csv:"shield_damage"`
	HullDamage   float64 `csv:"hull_damage"`
	DistanceM    float64 `csv:"distance_m"`
	Destroyed    bool    `csv:"destroyed"`
	Detail       string  `csv:"detail"`
}

// RecordFromEvent maps a combat event to a row; false for events the log ignores
func RecordFromEvent(ev event.GameEvent, at time.Duration) (Record, bool) {
	r := Record{TimeMs: at.Milliseconds(), Event: ev.Type.String()}
	switch p := ev.Payload.(type) {
	case *event.WeaponFiredPayload:
		r.Ship, r.Weapon, r.Target, r.DistanceM = uint64(p.Ship), p.Weapon, uint64(p.Target), p.DistanceM
		if !p.InRange {
			r.Detail = "out_of_range"
		}
	case *event.WeaponHitPayload:
		r.Ship, r.Weapon, r.Target, r.TargetName = uint64(p.Ship), p.Weapon, uint64(p.Target), p.TargetName
		r.Subsystem = p.Subsystem
		r.Damage, r.ShieldDamage, r.HullDamage = p.Damage, p.ShieldDamage, p.HullDamage
		r.Destroyed = p.Destroyed
	case *event.WeaponMissPayload:
		r.Ship, r.Weapon, r.Detail = uint64(p.Ship), p.Weapon, p.Reason
	case *event.ProjectilePayload:
		r.Ship, r.Weapon, r.Target, r.DistanceM = uint64(p.Owner), p.Weapon, uint64(p.Target), p.DistanceM
		r.Detail = p.ID
	case *event.ShipDestroyedPayload:
		r.Ship, r.Weapon, r.Target, r.TargetName = uint64(p.Killer), p.Weapon, uint64(p.Ship), p.Name
		r.Destroyed = true
	case *event.SystemErrorPayload:
		r.Ship, r.Subsystem, r.Detail = uint64(p.Ship), p.System, p.Category
	case *event.SystemStatePayload:
		r.Ship, r.Subsystem, r.Detail = uint64(p.Ship), p.System, p.From+">"+p.To
	default:
		return Record{}, false
	}
	return r, true
}
