package system

import (
	"time"

	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/parameter"
)

// ProjectileSystem steers homing rounds, integrates ballistic ones and
// runs the expiry watchdog
type ProjectileSystem struct {
	game *engine.GameContext
}

func NewProjectileSystem(game *engine.GameContext) *ProjectileSystem {
	return &ProjectileSystem{game: game}
}

func (s *ProjectileSystem) Name() string  { return "projectile" }
func (s *ProjectileSystem) Priority() int { return parameter.PriorityProjectile }

func (s *ProjectileSystem) Update(dt time.Duration) {
	s.game.Projectiles.Update(dt)
}
