package parameter

import "time"

// Ship & Damage
const (
	// DestroyedHullEpsilon is the hull threshold at or below which a ship is destroyed
	DestroyedHullEpsilon = 1e-3

	// ExplosiveSubsystemChance is the per-subsystem chance of incidental damage from explosive hits
	ExplosiveSubsystemChance = 0.15

	// ExplosiveSubsystemFraction is the share of the hit applied to an incidentally damaged subsystem
	ExplosiveSubsystemFraction = 0.10

	// SubTargetDamageMultiplier scales sub-targeted scan-hit damage
	SubTargetDamageMultiplier = 1.3
)

// Ship System State
const (
	// SystemDamagedThreshold is the health fraction at or below which a system is DAMAGED
	SystemDamagedThreshold = 0.50

	// SystemCriticalThreshold is the health fraction at or below which a system is CRITICAL
	SystemCriticalThreshold = 0.25

	// CascadingFailureChance is the chance of a cascading-failure notice on entering CRITICAL
	CascadingFailureChance = 0.10

	// SystemDefaultMaxLevel applies to most systems
	SystemDefaultMaxLevel = 5

	// SystemExtendedMaxLevel applies to hull, cargo and reactor systems
	SystemExtendedMaxLevel = 10

	// SystemDefaultInefficiency is the extra energy draw of a fully degraded system
	SystemDefaultInefficiency = 0.30

	// SystemMaxInefficiencyMultiplier bounds the damaged draw multiplier
	SystemMaxInefficiencyMultiplier = 1.5
)

// Weapon Slot
const (
	// CloseRangeKm is the locked-target distance under which firing origins tuck in
	CloseRangeKm = 5.0

	// OriginCloseDown and OriginCloseForward are the close-range origin offsets in world units
	OriginCloseDown    = 0.3
	OriginCloseForward = 0.1

	// OriginFarDown and OriginFarForward are the default origin offsets in world units
	OriginFarDown    = 1.5
	OriginFarForward = 0.5

	// MuzzleSpread is the visual muzzle offset along camera-right in world units
	MuzzleSpread = 2.5

	// ConvergenceRangeFactor caps beam convergence at this fraction of weapon range
	ConvergenceRangeFactor = 0.5

	// ExplosionRadiusPerDamage and ExplosionRadiusMaxM size the impact visual
	ExplosionRadiusPerDamage = 2.0
	ExplosionRadiusMaxM      = 100.0

	// FallbackHitMinPadding and FallbackHitDistanceFactor size the ray-to-center fallback hit box
	FallbackHitMinPadding     = 1.0
	FallbackHitDistanceFactor = 0.05

	// MuzzleFlashDuration is the default flash lifetime
	MuzzleFlashDuration = 120 * time.Millisecond
)

// Weapon Levels
const (
	// WeaponDamagePerLevel is the additive damage bonus per level above 1
	WeaponDamagePerLevel = 0.10

	// WeaponCooldownPerLevel is the cooldown reduction per level above 1
	WeaponCooldownPerLevel = 0.05

	// WeaponCooldownFloor is the minimum cooldown multiplier
	WeaponCooldownFloor = 0.50

	// WeaponRangePerLevel is the additive range bonus per level above 1
	WeaponRangePerLevel = 0.05
)
