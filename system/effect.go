package system

import (
	"time"

	"github.com/lixenwraith/void-fighter/effects"
	"github.com/lixenwraith/void-fighter/parameter"
)

// EffectSystem expires visuals and samples projectile trails
type EffectSystem struct {
	fx *effects.Manager
}

func NewEffectSystem(fx *effects.Manager) *EffectSystem {
	return &EffectSystem{fx: fx}
}

func (s *EffectSystem) Name() string  { return "effect" }
func (s *EffectSystem) Priority() int { return parameter.PriorityEffect }

func (s *EffectSystem) Update(dt time.Duration) {
	s.fx.Update()
}
