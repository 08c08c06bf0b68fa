package system

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/physics"
)

type bodyCounter interface {
	BodyCount() int
}

// PhysicsSystem steps the physics world, pulls ship positions back from
// their bodies and keeps the contacts for CollisionSystem
type PhysicsSystem struct {
	game *engine.GameContext

	contacts []physics.Collision

	statBodies *atomic.Int64
}

func NewPhysicsSystem(game *engine.GameContext) *PhysicsSystem {
	return &PhysicsSystem{
		game:       game,
		statBodies: game.Status.Ints.Get(parameter.StatPhysicsBodies),
	}
}

func (s *PhysicsSystem) Name() string  { return "physics" }
func (s *PhysicsSystem) Priority() int { return parameter.PriorityPhysics }

// Contacts returns the collisions of the last step in the order reported
func (s *PhysicsSystem) Contacts() []physics.Collision { return s.contacts }

func (s *PhysicsSystem) Update(dt time.Duration) {
	eng := s.game.Physics
	s.contacts = eng.Step(dt)

	world := s.game.World
	for _, sh := range world.Ships.Values() {
		body, ok := world.Bodies.Get(sh.ID)
		if !ok {
			continue
		}
		if p, ok := eng.BodyPosition(body); ok {
			sh.Position = p
		}
		if v, ok := eng.BodyVelocity(body); ok {
			sh.Velocity = v
		}
	}
	s.game.Camera.Sync()

	if bc, ok := eng.(bodyCounter); ok {
		s.statBodies.Store(int64(bc.BodyCount()))
	}
}
