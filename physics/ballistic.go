package physics

import (
	"time"

	"github.com/lixenwraith/void-fighter/vmath"
)

// Ballistic integrates a body outside the rigid-body simulation
// Used while the engine is not ready; collisions come from Engine.March
type Ballistic struct {
	Position vmath.Vec3
	Velocity vmath.Vec3 // World units per second
	RadiusM  float64
}

// Advance moves the body by dt and sweeps the travelled segment
// On hit the position is left at the contact point
func (b *Ballistic) Advance(e Engine, dt time.Duration) (Hit, bool) {
	from := b.Position
	to := vmath.Add(from, vmath.Scale(b.Velocity, dt.Seconds()))
	if e != nil {
		if hit, ok := e.March(from, to, b.RadiusM); ok {
			b.Position = hit.Point
			return hit, true
		}
	}
	b.Position = to
	return Hit{}, false
}
