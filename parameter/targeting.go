package parameter

import "time"

// Targeting Service
const (
	// TargetingCacheValidity is the default cache lifetime
	TargetingCacheValidity = 50 * time.Millisecond

	// TargetingCacheCameraDrift is the camera movement in world units that invalidates the cache
	TargetingCacheCameraDrift = 0.01

	// TargetingCacheRangeDriftM is the weapon range change in meters that invalidates the cache
	TargetingCacheRangeDriftM = 100.0

	// TargetingFallbackRangeMultiplier widens the nearest-target fallback search
	TargetingFallbackRangeMultiplier = 1.5

	// TargetingFallbackHitRadiusFactor inflates the ray-to-center hit box
	TargetingFallbackHitRadiusFactor = 2.0

	// AimToleranceMinKm is the floor of the crosshair aim tolerance
	AimToleranceMinKm = 0.005

	// AimToleranceSlope is the tolerance growth per km of distance
	AimToleranceSlope = 0.01
)

// Target Computer
const (
	// TrackedTargetExpiry drops tracking entries not refreshed within this window
	TrackedTargetExpiry = 30 * time.Second

	// SubTargetRefreshInterval is the sub-target list rebuild cadence
	SubTargetRefreshInterval = 2 * time.Second

	// LockStrengthRamp is the time for lock strength to grow from 0 to 1
	LockStrengthRamp = 5 * time.Second

	// LockChanceFactor scales accuracy into lock probability
	LockChanceFactor = 0.8

	// SubTargetAccuracyBonusFactor and SubTargetDamageBonusFactor scale accuracy into bonuses
	SubTargetAccuracyBonusFactor = 0.20
	SubTargetDamageBonusFactor   = 0.30

	// SubTargetMinLevel is the first level with sub-targeting
	SubTargetMinLevel = 3

	// LockLossAccuracy is the accuracy under which entering CRITICAL drops the lock
	LockLossAccuracy = 0.30

	// TargetComputerInefficiency is the extra energy draw of a fully degraded computer
	TargetComputerInefficiency = 0.20
)

// Crosshair Acquisition
const (
	// CrosshairSearchFactor extends the crosshair ray past weapon range so
	// out-of-range targets are still reported
	CrosshairSearchFactor = 2.0
)
