package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a world-space vector in world units (1 unit = 1 km)
type Vec3 = r3.Vec

// MetersPerUnit converts world units to meters
const MetersPerUnit = 1000.0

func Add(a, b Vec3) Vec3 { return r3.Add(a, b) }

func Sub(a, b Vec3) Vec3 { return r3.Sub(a, b) }

func Scale(v Vec3, s float64) Vec3 { return r3.Scale(s, v) }

func Dot(a, b Vec3) float64 { return r3.Dot(a, b) }

func Cross(a, b Vec3) Vec3 { return r3.Cross(a, b) }

func Mag(v Vec3) float64 { return r3.Norm(v) }

// Distance returns the euclidean distance in world units
func Distance(a, b Vec3) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// DistanceM returns the euclidean distance in meters
func DistanceM(a, b Vec3) float64 {
	return Distance(a, b) * MetersPerUnit
}

// Normalize returns the unit vector, zero vector stays zero
func Normalize(v Vec3) Vec3 {
	m := r3.Norm(v)
	if m == 0 {
		return Vec3{}
	}
	return r3.Scale(1/m, v)
}

// Lerp interpolates between a and b
func Lerp(a, b Vec3, t float64) Vec3 {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// Clamp restricts v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// AngleBetween returns the angle between two vectors in radians
func AngleBetween(a, b Vec3) float64 {
	ma, mb := r3.Norm(a), r3.Norm(b)
	if ma == 0 || mb == 0 {
		return 0
	}
	return math.Acos(Clamp(r3.Dot(a, b)/(ma*mb), -1, 1))
}
