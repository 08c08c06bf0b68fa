package system

import (
	"time"

	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/parameter"
)

// WeaponCooldownSystem advances every slot cooldown
type WeaponCooldownSystem struct {
	game *engine.GameContext
}

func NewWeaponCooldownSystem(game *engine.GameContext) *WeaponCooldownSystem {
	return &WeaponCooldownSystem{game: game}
}

func (s *WeaponCooldownSystem) Name() string  { return "weapon_cooldown" }
func (s *WeaponCooldownSystem) Priority() int { return parameter.PriorityWeaponCooldown }

func (s *WeaponCooldownSystem) Update(dt time.Duration) {
	for _, ws := range s.game.World.Weapons.Values() {
		ws.UpdateCooldowns(dt)
	}
}

// AutofireSystem fires every ready autofire slot of systems with autofire on
type AutofireSystem struct {
	game *engine.GameContext
}

func NewAutofireSystem(game *engine.GameContext) *AutofireSystem {
	return &AutofireSystem{game: game}
}

func (s *AutofireSystem) Name() string  { return "autofire" }
func (s *AutofireSystem) Priority() int { return parameter.PriorityAutofire }

func (s *AutofireSystem) Update(dt time.Duration) {
	for _, ws := range s.game.World.Weapons.Values() {
		for _, res := range ws.DispatchAutofire() {
			if res.Fired {
				s.game.Log.Debug().Str("weapon", res.Weapon).Bool("hit", res.Hit).Msg("autofire")
			}
		}
	}
}
