package parameter

// System Execution Priorities (lower runs first)
// Order mirrors the combat tick: systems, cooldowns, autofire, target computer, physics, collisions
const (
	PriorityReconcile      = 5  // Card changes applied before anything reads ship systems
	PriorityCull           = 10 // Removals scheduled last frame
	PriorityShipSystems    = 20 // (a)
	PriorityWeaponCooldown = 30 // (b)
	PriorityAutofire       = 40 // (c)
	PriorityTargetComputer = 50 // (d)
	PriorityProjectile     = 55 // Homing re-aim and expiry, before the physics step
	PriorityPhysics        = 60 // (e)
	PriorityCollision      = 70 // (f)
	PriorityEffect         = 500
	PriorityTelemetry      = 1000 // After all others, observes combat events
)
