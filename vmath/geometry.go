package vmath

import "math"

// PointRayDistance returns the perpendicular distance from p to the ray and
// the signed projection length along dir; dir must be unit length
// Points behind the origin measure distance to the origin itself
func PointRayDistance(origin, dir, p Vec3) (dist, along float64) {
	op := Sub(p, origin)
	along = Dot(op, dir)
	if along < 0 {
		return Mag(op), along
	}
	closest := Add(origin, Scale(dir, along))
	return Distance(p, closest), along
}

// RaySphere returns the nearest non-negative hit distance of a ray against a sphere
// dir must be unit length
func RaySphere(origin, dir, center Vec3, radius float64) (float64, bool) {
	oc := Sub(origin, center)
	b := Dot(oc, dir)
	c := Dot(oc, oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// SegmentSphere reports whether the segment a→b passes within radius of center
// Returns the parametric position in [0,1] of the closest approach
func SegmentSphere(a, b, center Vec3, radius float64) (float64, bool) {
	ab := Sub(b, a)
	lenSq := Dot(ab, ab)
	t := 0.0
	if lenSq > 0 {
		t = Clamp(Dot(Sub(center, a), ab)/lenSq, 0, 1)
	}
	closest := Add(a, Scale(ab, t))
	return t, Distance(closest, center) <= radius
}

// antiparallelEpsilon is how close to π an angle must be to count as reversed
const antiparallelEpsilon = 1e-9

// RotateToward turns current toward desired by at most maxAngle radians,
// preserving the magnitude of current
func RotateToward(current, desired Vec3, maxAngle float64) Vec3 {
	speed := Mag(current)
	if speed == 0 || Mag(desired) == 0 {
		return current
	}
	from := Scale(current, 1/speed)
	to := Normalize(desired)
	angle := AngleBetween(from, to)
	if angle <= maxAngle || angle == 0 {
		return Scale(to, speed)
	}
	if math.Pi-angle < antiparallelEpsilon {
		// Every great circle leads to the target; turn about any perpendicular
		axis := Cross(from, Vec3{Y: 1})
		if Mag(axis) < antiparallelEpsilon {
			axis = Cross(from, Vec3{X: 1})
		}
		axis = Normalize(axis)
		dir := Add(Scale(from, math.Cos(maxAngle)), Scale(Cross(axis, from), math.Sin(maxAngle)))
		return Scale(dir, speed)
	}
	// Slerp on the great circle between the two unit directions
	t := maxAngle / angle
	sinA := math.Sin(angle)
	wa := math.Sin((1-t)*angle) / sinA
	wb := math.Sin(t*angle) / sinA
	dir := Normalize(Add(Scale(from, wa), Scale(to, wb)))
	if Mag(dir) == 0 {
		return current
	}
	return Scale(dir, speed)
}
