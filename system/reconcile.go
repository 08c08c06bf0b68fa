package system

import (
	"time"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/parameter"
)

// ReconcileSystem refits ships whose cards changed since the last tick
// Several changes to one ship within a tick collapse into one refit
type ReconcileSystem struct {
	game    *engine.GameContext
	pending []core.Entity
	seen    map[core.Entity]bool
}

func NewReconcileSystem(game *engine.GameContext) *ReconcileSystem {
	return &ReconcileSystem{game: game, seen: make(map[core.Entity]bool)}
}

func (s *ReconcileSystem) Name() string  { return "reconcile" }
func (s *ReconcileSystem) Priority() int { return parameter.PriorityReconcile }

func (s *ReconcileSystem) EventTypes() []event.EventType {
	return []event.EventType{event.EventCardsChanged}
}

func (s *ReconcileSystem) HandleEvent(ev event.GameEvent) {
	p, ok := ev.Payload.(*event.CardsChangedPayload)
	if !ok || s.seen[p.Ship] {
		return
	}
	s.seen[p.Ship] = true
	s.pending = append(s.pending, p.Ship)
}

func (s *ReconcileSystem) Update(dt time.Duration) {
	for _, id := range s.pending {
		res, err := s.game.Refit(id)
		if err != nil {
			s.game.Log.Warn().Err(err).Uint64("ship", uint64(id)).Msg("refit")
		}
		if id == s.game.World.PlayerID() {
			s.game.HUD.ShowMessage("Loadout updated", parameter.DefaultMessageDuration)
		}
		if res.Changed() {
			s.game.Log.Debug().Uint64("ship", uint64(id)).
				Strs("added", res.Added).Strs("removed", res.Removed).Strs("replaced", res.Replaced).
				Msg("systems reconciled")
		}
	}
	s.pending = s.pending[:0]
	clear(s.seen)
}
