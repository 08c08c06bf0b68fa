package system

import (
	"github.com/lixenwraith/void-fighter/effects"
	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/telemetry"
)

// Set holds the installed systems for callers that need to reach one
type Set struct {
	Reconcile      *ReconcileSystem
	Cull           *CullSystem
	ShipSystems    *ShipSystemsSystem
	WeaponCooldown *WeaponCooldownSystem
	Autofire       *AutofireSystem
	TargetComputer *TargetComputerSystem
	Projectile     *ProjectileSystem
	Physics        *PhysicsSystem
	Collision      *CollisionSystem
	Effect         *EffectSystem
	Telemetry      *TelemetrySystem
}

// Install registers the combat tick on game's scheduler
// fx and combatLog are optional; their systems are skipped when nil
func Install(game *engine.GameContext, fx *effects.Manager, combatLog *telemetry.CombatLog) *Set {
	set := &Set{
		Reconcile:      NewReconcileSystem(game),
		Cull:           NewCullSystem(game),
		ShipSystems:    NewShipSystemsSystem(game),
		WeaponCooldown: NewWeaponCooldownSystem(game),
		Autofire:       NewAutofireSystem(game),
		TargetComputer: NewTargetComputerSystem(game),
		Projectile:     NewProjectileSystem(game),
		Physics:        NewPhysicsSystem(game),
	}
	set.Collision = NewCollisionSystem(game, set.Physics)

	sched := game.Scheduler
	sched.Add(set.Reconcile)
	sched.Add(set.Cull)
	sched.Add(set.ShipSystems)
	sched.Add(set.WeaponCooldown)
	sched.Add(set.Autofire)
	sched.Add(set.TargetComputer)
	sched.Add(set.Projectile)
	sched.Add(set.Physics)
	sched.Add(set.Collision)

	if fx != nil {
		set.Effect = NewEffectSystem(fx)
		sched.Add(set.Effect)
	}
	if combatLog != nil {
		set.Telemetry = NewTelemetrySystem(game, combatLog)
		sched.Add(set.Telemetry)
	}
	return set
}
