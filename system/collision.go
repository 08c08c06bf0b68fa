package system

import (
	"time"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/vmath"
)

// CollisionSystem handles the contacts of this tick's physics step in the
// order received: projectile contacts resolve damage, ship contacts bounce
type CollisionSystem struct {
	game    *engine.GameContext
	physics *PhysicsSystem
}

func NewCollisionSystem(game *engine.GameContext, phys *PhysicsSystem) *CollisionSystem {
	return &CollisionSystem{game: game, physics: phys}
}

func (s *CollisionSystem) Name() string  { return "collision" }
func (s *CollisionSystem) Priority() int { return parameter.PriorityCollision }

func (s *CollisionSystem) Update(dt time.Duration) {
	contacts := s.physics.Contacts()
	if len(contacts) == 0 {
		return
	}
	s.game.Projectiles.HandleCollisions(contacts)
	for _, c := range contacts {
		s.bounce(c)
	}
}

// contactBody is one side of a ship contact; ship is nil for static bodies
type contactBody struct {
	id     physics.BodyID
	ship   *ship.Ship
	pos    vmath.Vec3
	vel    vmath.Vec3
	radius float64
	mass   float64
}

func (s *CollisionSystem) side(id physics.BodyID) (contactBody, bool) {
	eng := s.game.Physics
	rec, ok := eng.EntityMetadata(id)
	if !ok || rec.Kind == core.KindProjectile {
		return contactBody{}, false
	}
	pos, ok := eng.BodyPosition(id)
	if !ok {
		return contactBody{}, false
	}
	b := contactBody{id: id, pos: pos, mass: parameter.ImmovableMass}
	if sh, ok := s.game.World.Ship(rec.Ship); ok && rec.Ship != 0 {
		b.ship = sh
		b.radius = sh.RadiusM / vmath.MetersPerUnit
		b.mass = physics.VolumeMass(b.radius)
		b.vel, _ = eng.BodyVelocity(id)
		return b, true
	}
	if c, ok := s.game.World.Celestials.Get(rec.Entity); ok {
		b.radius = c.RadiusM / vmath.MetersPerUnit
		return b, true
	}
	return contactBody{}, false
}

func (s *CollisionSystem) bounce(c physics.Collision) {
	a, ok := s.side(c.A)
	if !ok {
		return
	}
	b, ok := s.side(c.B)
	if !ok || (a.ship == nil && b.ship == nil) {
		return
	}

	va, vb, _ := physics.ElasticResponse(a.pos, b.pos, a.vel, b.vel, a.mass, b.mass, parameter.ShipRestitution)
	pa, pb, _ := physics.SeparateOverlap(a.pos, b.pos, a.radius, b.radius, a.mass, b.mass)
	s.apply(a, pa, va)
	s.apply(b, pb, vb)
	s.game.Log.Debug().Uint64("a", uint64(c.A)).Uint64("b", uint64(c.B)).Msg("ship contact")
}

func (s *CollisionSystem) apply(b contactBody, pos, vel vmath.Vec3) {
	if b.ship == nil {
		return
	}
	s.game.Physics.SetBodyPosition(b.id, pos)
	s.game.Physics.SetBodyVelocity(b.id, vel)
	b.ship.Position = pos
	b.ship.Velocity = vel
}
