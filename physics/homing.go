package physics

import (
	"math"
	"time"

	"github.com/lixenwraith/void-fighter/vmath"
)

// HomingProfile defines bounded-turn homing behavior
type HomingProfile struct {
	TurnRateDeg float64 // Max heading change per second
}

// ApplyHoming turns velocity toward the target by at most TurnRateDeg × dt,
// preserving speed
func ApplyHoming(vel, pos, targetPos vmath.Vec3, profile HomingProfile, dt time.Duration) vmath.Vec3 {
	if profile.TurnRateDeg <= 0 || dt <= 0 {
		return vel
	}
	desired := vmath.Sub(targetPos, pos)
	if vmath.Mag(desired) == 0 {
		return vel
	}
	maxTurn := profile.TurnRateDeg * math.Pi / 180 * dt.Seconds()
	return vmath.RotateToward(vel, desired, maxTurn)
}
