// Package physics defines the physics contract consumed by combat code
package physics

import (
	"errors"
	"time"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/vmath"
)

var (
	ErrNotReady    = errors.New("physics: engine not ready")
	ErrInvalidBody = errors.New("physics: invalid body config")
)

// BodyID identifies a rigid body; zero is never issued
type BodyID uint64

// Shape is the collider primitive
type Shape uint8

const (
	ShapeSphere Shape = iota
)

// EntityRecord is the metadata attached to a body, linking it back to game entities
type EntityRecord struct {
	Entity core.Entity
	Kind   core.EntityKind
	Ship   core.Entity // Owning ship, 0 when none
	Name   string
	TypeID string
	Health float64
}

// BodyConfig describes a rigid body to create
// Static bodies (Mass 0) are moved explicitly with SetBodyPosition
type BodyConfig struct {
	Mass            float64
	Restitution     float64
	Friction        float64
	Shape           Shape
	RadiusM         float64
	Position        vmath.Vec3
	Velocity        vmath.Vec3 // World units per second
	Record          EntityRecord
	ProjectileSpeed float64 // m/s, informational for continuous collision
}

// Hit is a raycast or sweep result
type Hit struct {
	Point    vmath.Vec3
	Normal   vmath.Vec3
	Distance float64 // World units from ray origin
	Body     BodyID
	Entity   EntityRecord
}

// Collision is a contact reported by Step, in detection order
type Collision struct {
	A, B  BodyID
	Point vmath.Vec3
}

// Other returns the counterpart of id in the pair
func (c Collision) Other(id BodyID) (BodyID, bool) {
	switch id {
	case c.A:
		return c.B, true
	case c.B:
		return c.A, true
	}
	return 0, false
}

// QueryResult is one entity found by a spatial query
type QueryResult struct {
	Body      BodyID
	Entity    EntityRecord
	Position  vmath.Vec3
	DistanceM float64 // From the query center to the body surface, 0 when inside
}

// Engine is the physics abstraction
// When Ready is false rigid bodies cannot be simulated; callers integrate
// ballistically and use March for collision, which must always work
type Engine interface {
	Ready() bool
	Raycast(origin, dir vmath.Vec3, maxDist float64) (Hit, bool)
	March(from, to vmath.Vec3, radiusM float64) (Hit, bool)
	SpatialQuery(center vmath.Vec3, radiusM float64) []QueryResult
	CreateRigidBody(cfg BodyConfig) (BodyID, error)
	RemoveRigidBody(id BodyID)
	EntityMetadata(id BodyID) (EntityRecord, bool)
	BodyPosition(id BodyID) (vmath.Vec3, bool)
	SetBodyPosition(id BodyID, p vmath.Vec3)
	BodyVelocity(id BodyID) (vmath.Vec3, bool)
	SetBodyVelocity(id BodyID, v vmath.Vec3)
	Step(dt time.Duration) []Collision
}
