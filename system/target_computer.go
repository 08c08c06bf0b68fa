package system

import (
	"time"

	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/targetcomp"
)

// TargetComputerSystem advances targeting-phase systems and keeps the
// player's weapon lock in step with the target computer
type TargetComputerSystem struct {
	game *engine.GameContext
}

func NewTargetComputerSystem(game *engine.GameContext) *TargetComputerSystem {
	return &TargetComputerSystem{game: game}
}

func (s *TargetComputerSystem) Name() string  { return "target_computer" }
func (s *TargetComputerSystem) Priority() int { return parameter.PriorityTargetComputer }

func (s *TargetComputerSystem) EventTypes() []event.EventType {
	return []event.EventType{event.EventTargetChanged, event.EventSystemError}
}

func (s *TargetComputerSystem) HandleEvent(ev event.GameEvent) {
	player := s.game.World.PlayerID()
	switch p := ev.Payload.(type) {
	case *event.TargetChangedPayload:
		if p.Ship != player {
			return
		}
		sh, ws, ok := s.game.World.Player()
		if !ok || ws == nil {
			return
		}
		if sys, ok := sh.System(targetcomp.SystemName); ok {
			if tc, ok := sys.(*targetcomp.TargetComputer); ok {
				ws.SetLockedTarget(tc.CurrentTarget())
			}
		}
	case *event.SystemErrorPayload:
		if p.Ship == player {
			s.game.HUD.ShowMessage(p.Message, parameter.DefaultMessageDuration)
		}
	}
}

func (s *TargetComputerSystem) Update(dt time.Duration) {
	for _, sh := range s.game.World.Ships.Values() {
		if !sh.IsDestroyed() {
			sh.UpdateSystems(dt, ship.PhaseTargeting)
		}
	}
}
