package vmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Orientation is a unit quaternion mapping local camera axes into world space
// Local axes follow the scene convention: forward -Z, right +X, up +Y
type Orientation = quat.Number

var (
	localForward = Vec3{Z: -1}
	localRight   = Vec3{X: 1}
	localUp      = Vec3{Y: 1}
)

// Identity returns the orientation looking down -Z
func Identity() Orientation {
	return quat.Number{Real: 1}
}

// Rotate applies q to v
func Rotate(q Orientation, v Vec3) Vec3 {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return Vec3{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Basis is the world-space camera frame derived from an orientation
type Basis struct {
	Forward Vec3
	Right   Vec3
	Up      Vec3
}

// Down returns -Up
func (b Basis) Down() Vec3 {
	return Scale(b.Up, -1)
}

// BasisOf derives forward/right/up from q
func BasisOf(q Orientation) Basis {
	q = normalizeQuat(q)
	return Basis{
		Forward: Normalize(Rotate(q, localForward)),
		Right:   Normalize(Rotate(q, localRight)),
		Up:      Normalize(Rotate(q, localUp)),
	}
}

// AxisAngle builds a rotation of angle radians around axis
func AxisAngle(axis Vec3, angle float64) Orientation {
	axis = Normalize(axis)
	s := math.Sin(angle / 2)
	return quat.Number{Real: math.Cos(angle / 2), Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

// LookRotation returns the orientation whose forward axis points along dir
// Roll is chosen to keep local up as close as possible to world +Y
func LookRotation(dir Vec3) Orientation {
	dir = Normalize(dir)
	if Mag(dir) == 0 {
		return Identity()
	}
	yaw := math.Atan2(-dir.X, -dir.Z)
	pitch := math.Asin(Clamp(dir.Y, -1, 1))
	qYaw := AxisAngle(Vec3{Y: 1}, yaw)
	qPitch := AxisAngle(Vec3{X: 1}, pitch)
	return normalizeQuat(quat.Mul(qYaw, qPitch))
}

func normalizeQuat(q Orientation) Orientation {
	n := quat.Abs(q)
	if n == 0 {
		return Identity()
	}
	return quat.Scale(1/n, q)
}

// Compose applies b in the local frame of a and renormalizes
func Compose(a, b Orientation) Orientation {
	return normalizeQuat(quat.Mul(a, b))
}
