package system

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/status"
)

// ShipSystemsSystem recharges energy and advances every ship system
// Ships run in spawn order and systems in install order, so energy
// contention resolves the same way each tick
type ShipSystemsSystem struct {
	game *engine.GameContext

	statAlive  *atomic.Int64
	statHull   *status.AtomicFloat
	statEnergy *status.AtomicFloat
	statShield *status.AtomicFloat
}

func NewShipSystemsSystem(game *engine.GameContext) *ShipSystemsSystem {
	return &ShipSystemsSystem{
		game:       game,
		statAlive:  game.Status.Ints.Get(parameter.StatShipsAlive),
		statHull:   game.Status.Floats.Get(parameter.StatPlayerHull),
		statEnergy: game.Status.Floats.Get(parameter.StatPlayerEnergy),
		statShield: game.Status.Floats.Get(parameter.StatPlayerShield),
	}
}

func (s *ShipSystemsSystem) Name() string  { return "ship_systems" }
func (s *ShipSystemsSystem) Priority() int { return parameter.PriorityShipSystems }

func (s *ShipSystemsSystem) Update(dt time.Duration) {
	player := s.game.World.PlayerID()
	alive := int64(0)
	for _, sh := range s.game.World.Ships.Values() {
		if sh.IsDestroyed() {
			continue
		}
		alive++
		sh.Recharge(dt)
		sh.UpdateSystems(dt, ship.PhaseSystems)
		if sh.ID == player {
			s.statHull.Set(sh.Hull())
			s.statEnergy.Set(sh.Energy())
			s.statShield.Set(sh.ShieldHP())
		}
	}
	s.statAlive.Store(alive)
}
