package targeting

import (
	"math"

	"github.com/lixenwraith/void-fighter/parameter"
)

// RangeState classifies a distance against weapon range
type RangeState uint8

const (
	RangeNone RangeState = iota
	RangeIn
	RangeOut
)

func (r RangeState) String() string {
	switch r {
	case RangeIn:
		return "inRange"
	case RangeOut:
		return "outOfRange"
	}
	return "none"
}

// RangeCheck is the outcome of ValidateRange
type RangeCheck struct {
	InRange bool
	State   RangeState
	Ratio   float64 // distance / range
}

// ValidateRange compares a distance in meters to a weapon range in meters
// A distance exactly at range is in range
func ValidateRange(distanceM, rangeM float64) RangeCheck {
	if rangeM <= 0 || math.IsNaN(distanceM) {
		return RangeCheck{State: RangeNone}
	}
	in := distanceM <= rangeM
	state := RangeOut
	if in {
		state = RangeIn
	}
	return RangeCheck{InRange: in, State: state, Ratio: distanceM / rangeM}
}

// AimToleranceKm is the crosshair slack at a given distance, growing linearly
// with distance above a small floor
func AimToleranceKm(distanceKm float64) float64 {
	return math.Max(parameter.AimToleranceMinKm, distanceKm*parameter.AimToleranceSlope)
}
