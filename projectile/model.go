// Package projectile models launched weapons: adaptive collision gating,
// homing, range and time expiry, and detonation damage
package projectile

import (
	"math"
	"time"

	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/targeting"
	"github.com/lixenwraith/void-fighter/vmath"
)

// CollisionDelay returns how long after launch collisions are discarded,
// scaled to time-to-target so close shots resolve immediately
func CollisionDelay(distanceKm, speedMS float64) time.Duration {
	if speedMS <= 0 || distanceKm < 0.5 {
		return 0
	}
	tttMs := distanceKm * vmath.MetersPerUnit / speedMS * 1000
	var ms float64
	switch {
	case distanceKm < 2:
		ms = math.Min(1, tttMs*0.01)
	case distanceKm < 5:
		ms = math.Min(2, tttMs*0.02)
	default:
		ms = math.Min(3, tttMs*0.03)
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// MinTunnelM is the smallest collider that cannot skip past a contact in one physics step
func MinTunnelM(speedMS, physicsRateHz float64) float64 {
	if physicsRateHz <= 0 {
		physicsRateHz = parameter.PhysicsRateHz
	}
	step := speedMS / physicsRateHz
	return math.Max(parameter.ProjectileMinTunnelM, 0.5*step)
}

// CollisionRadiusM sizes the projectile collider
// Precise targets get the crosshair aim tolerance, widened at close range;
// free-aim shots stay tight
func CollisionRadiusM(hasTarget bool, distanceKm, speedMS, physicsRateHz float64) float64 {
	minTunnel := MinTunnelM(speedMS, physicsRateHz)
	if !hasTarget {
		return math.Max(parameter.ProjectileFreeAimRadiusM, minTunnel)
	}
	base := targeting.AimToleranceKm(distanceKm) * vmath.MetersPerUnit
	switch {
	case distanceKm < 1:
		return math.Max(minTunnel, base*2.0)
	case distanceKm < 3:
		return math.Max(minTunnel, base*1.5)
	}
	return math.Max(base, minTunnel)
}

// SplashDamage applies the inverse-square falloff capped at maxDamage
// Zero outside the blast radius; non-increasing in distance
func SplashDamage(maxDamage, blastRadiusM, distanceM float64) float64 {
	if maxDamage <= 0 || blastRadiusM <= 0 || distanceM > blastRadiusM {
		return 0
	}
	if distanceM < 0 {
		distanceM = 0
	}
	r2 := blastRadiusM * blastRadiusM
	dmg := math.Round(maxDamage * r2 / (distanceM*distanceM + parameter.SplashEpsilon))
	return math.Min(maxDamage, dmg)
}
