package system

import (
	"time"

	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/parameter"
)

// CullSystem despawns entities whose removal was scheduled during the
// previous tick, so every system saw the destroyed state for one frame
type CullSystem struct {
	game *engine.GameContext
}

func NewCullSystem(game *engine.GameContext) *CullSystem {
	return &CullSystem{game: game}
}

func (s *CullSystem) Name() string  { return "cull" }
func (s *CullSystem) Priority() int { return parameter.PriorityCull }

func (s *CullSystem) Update(dt time.Duration) {
	player := s.game.World.PlayerID()
	for _, id := range s.game.World.DrainRemovals() {
		if id == player {
			s.game.HUD.ShowUnifiedMessage("SHIP DESTROYED", 5*time.Second, 2, "red", "darkred", "black")
			s.game.Log.Info().Msg("player ship lost")
		}
		s.game.Despawn(id)
	}
}
