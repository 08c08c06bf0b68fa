package parameter

import "time"

// Projectile Body
const (
	ProjectileMass        = 10.0
	ProjectileRestitution = 0.0
	ProjectileFriction    = 0.3

	// ProjectileHomingSpeed and ProjectileDirectSpeed are default speeds in m/s
	ProjectileHomingSpeed = 8000.0
	ProjectileDirectSpeed = 10000.0

	// PhysicsRateHz is the physics step rate used for tunneling bounds
	PhysicsRateHz = 60.0
)

// Projectile Collision
const (
	// ProjectileDefaultTargetKm is the assumed distance when launched without a target
	ProjectileDefaultTargetKm = 10.0

	// ProjectileFreeAimRadiusM is the collider radius for free-aim shots
	ProjectileFreeAimRadiusM = 2.0

	// ProjectileMinTunnelM is the floor of the anti-tunneling radius
	ProjectileMinTunnelM = 1.0

	// SplashEpsilon keeps inverse-square damage finite at the detonation point
	SplashEpsilon = 0.1
)

// Projectile Lifetime
const (
	// ProjectileExpiryCheckInterval is the expiry scan cadence
	ProjectileExpiryCheckInterval = 250 * time.Millisecond

	// ProjectileMaxLifetime is the hard watchdog
	ProjectileMaxLifetime = 20 * time.Second

	// ProjectileRangeMarginM expires a projectile this short of its flight range
	ProjectileRangeMarginM = 50.0
)
