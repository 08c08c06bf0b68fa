package event

// EventType represents the type of game event
type EventType int

const (
	// === Loadout Event ===

	// EventCardsChanged signals the installed card set of a ship changed
	// Trigger: Card install/remove, sandbox loadout commands
	// Consumer: ReconcileSystem | Payload: *CardsChangedPayload
	EventCardsChanged EventType = iota

	// EventSystemsReconciled reports the outcome of a system reconcile pass
	// Trigger: loadout.Reconciler after add/remove/replace
	// Consumer: TelemetrySystem, damage-control views | Payload: *SystemsReconciledPayload
	EventSystemsReconciled

	// === Ship System Event ===

	// EventSystemStateChanged signals a ship system crossed a health threshold
	// Trigger: ship.Base.TakeDamage, ship.Base.Repair
	// Consumer: TelemetrySystem | Payload: *SystemStatePayload
	EventSystemStateChanged

	// EventCascadingFailure is an auxiliary notice raised on entering CRITICAL
	// Trigger: ship.Base state transition (10% chance)
	// Consumer: HUD bridge, TelemetrySystem | Payload: *SystemStatePayload
	EventCascadingFailure

	// EventSystemError reports a system that shut itself down
	// Trigger: Target computer on energy loss
	// Consumer: HUD bridge | Payload: *SystemErrorPayload
	EventSystemError

	// === Weapon Event ===

	// EventWeaponFired signals a slot passed all gates and fired
	// Trigger: weapon.Slot.Fire
	// Consumer: TelemetrySystem | Payload: *WeaponFiredPayload
	EventWeaponFired

	// EventWeaponHit signals a resolved hit with applied damage
	// Trigger: weapon.Slot scan-hit resolution, projectile detonation
	// Consumer: TelemetrySystem | Payload: *WeaponHitPayload
	EventWeaponHit

	// EventWeaponMiss signals a shot or projectile that resolved without a hit
	// Trigger: weapon.Slot, projectile expiry
	// Consumer: TelemetrySystem | Payload: *WeaponMissPayload
	EventWeaponMiss

	// === Projectile Event ===

	// EventProjectileLaunched signals a new projectile body
	// Trigger: projectile.Manager.Launch
	// Consumer: TelemetrySystem | Payload: *ProjectilePayload
	EventProjectileLaunched

	// EventProjectileDetonated signals a projectile detonation
	// Trigger: projectile.Manager collision handling
	// Consumer: TelemetrySystem | Payload: *ProjectilePayload
	EventProjectileDetonated

	// EventProjectileExpired signals range or watchdog expiry
	// Trigger: projectile.Manager.CheckExpiry
	// Consumer: TelemetrySystem | Payload: *ProjectilePayload
	EventProjectileExpired

	// === Lifecycle Event ===

	// EventShipDestroyed signals hull reached epsilon; removal follows next frame
	// Trigger: weapon.Slot, projectile detonation
	// Consumer: TelemetrySystem | Payload: *ShipDestroyedPayload
	EventShipDestroyed

	// EventTargetChanged signals the target computer switched targets
	// Trigger: targetcomp.TargetComputer.SetTarget, ClearTarget
	// Consumer: TargetComputerSystem | Payload: *TargetChangedPayload
	EventTargetChanged
)

var typeNames = map[EventType]string{
	EventCardsChanged:        "cards_changed",
	EventSystemsReconciled:   "systems_reconciled",
	EventSystemStateChanged:  "system_state_changed",
	EventCascadingFailure:    "cascading_failure",
	EventSystemError:         "system_error",
	EventWeaponFired:         "weapon_fired",
	EventWeaponHit:           "weapon_hit",
	EventWeaponMiss:          "weapon_miss",
	EventProjectileLaunched:  "projectile_launched",
	EventProjectileDetonated: "projectile_detonated",
	EventProjectileExpired:   "projectile_expired",
	EventShipDestroyed:       "ship_destroyed",
	EventTargetChanged:       "target_changed",
}

func (t EventType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// GameEvent represents a single game event with metadata
type GameEvent struct {
	Type    EventType
	Payload any
}

// Sink accepts events from components that must not know about the queue
type Sink interface {
	Emit(t EventType, payload any)
}

// Discard is a Sink that drops everything
type Discard struct{}

func (Discard) Emit(EventType, any) {}
