package physics

import (
	"math"

	"github.com/lixenwraith/void-fighter/vmath"
)

// ElasticResponse resolves a sphere-sphere contact along the centre normal
// Returns the post-impact velocities; false when the bodies are separating
func ElasticResponse(posA, posB, velA, velB vmath.Vec3, massA, massB, restitution float64) (vmath.Vec3, vmath.Vec3, bool) {
	delta := vmath.Sub(posB, posA)
	dist := vmath.Mag(delta)
	if dist == 0 || massA <= 0 || massB <= 0 {
		return velA, velB, false
	}
	n := vmath.Scale(delta, 1/dist)

	vn := vmath.Dot(vmath.Sub(velA, velB), n)
	if vn <= 0 {
		return velA, velB, false
	}

	invA, invB := 1/massA, 1/massB
	j := (1 + restitution) * vn / (invA + invB)

	return vmath.Sub(velA, vmath.Scale(n, j*invA)), vmath.Add(velB, vmath.Scale(n, j*invB)), true
}

// SeparateOverlap pushes overlapping spheres apart, heavier bodies moving less
func SeparateOverlap(posA, posB vmath.Vec3, radiusA, radiusB, massA, massB float64) (vmath.Vec3, vmath.Vec3, bool) {
	delta := vmath.Sub(posB, posA)
	dist := vmath.Mag(delta)
	minDist := radiusA + radiusB
	if dist >= minDist || dist == 0 {
		return posA, posB, false
	}

	overlap := minDist - dist + contactMargin
	n := vmath.Scale(delta, 1/dist)

	total := massA + massB
	if total <= 0 {
		massA, massB, total = 1, 1, 2
	}
	return vmath.Sub(posA, vmath.Scale(n, overlap*massB/total)),
		vmath.Add(posB, vmath.Scale(n, overlap*massA/total)), true
}

// VolumeMass approximates mass from a sphere radius in km
func VolumeMass(radiusKm float64) float64 {
	return 4.0 / 3.0 * math.Pi * radiusKm * radiusKm * radiusKm
}

// 1 m extra clearance
const contactMargin = 0.001
