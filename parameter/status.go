package parameter

// Status registry keys
const (
	StatWeaponShots      = "weapon.shots"
	StatWeaponHits       = "weapon.hits"
	StatWeaponMisses     = "weapon.misses"
	StatWeaponRejected   = "weapon.rejected_hits"
	StatWeaponBlocked    = "weapon.blocked"
	StatProjectileActive = "projectile.active"
	StatProjectileFired  = "projectile.launched"
	StatProjectileHit    = "projectile.detonated"
	StatProjectileExpire = "projectile.expired"
	StatTargetingHits    = "targeting.cache_hits"
	StatTargetingMisses  = "targeting.cache_misses"
	StatTargetingMethod  = "targeting.method"
	StatShipsDestroyed   = "ship.destroyed"
	StatShipsAlive       = "ship.alive"
	StatPlayerHull       = "player.hull"
	StatPlayerEnergy     = "player.energy"
	StatPlayerShield     = "player.shield"
	StatPhysicsBodies    = "physics.bodies"
	StatFrame            = "engine.frame"
	StatPaused           = "engine.paused"
)
