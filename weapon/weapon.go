package weapon

import (
	"fmt"
	"math"
	"time"

	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/projectile"
)

// Weapon is a definition augmented by card level
// Each level above 1 adds damage and range and shortens cooldown down to a floor
type Weapon struct {
	def      Definition
	level    int
	damage   float64
	cooldown time.Duration
	rangeM   float64
}

func New(def Definition, level int) *Weapon {
	if level < 1 {
		level = 1
	}
	bonus := float64(level - 1)
	cdMult := math.Max(parameter.WeaponCooldownFloor, 1-bonus*parameter.WeaponCooldownPerLevel)
	return &Weapon{
		def:      def,
		level:    level,
		damage:   def.Damage * (1 + bonus*parameter.WeaponDamagePerLevel),
		cooldown: time.Duration(float64(def.Cooldown) * cdMult),
		rangeM:   def.RangeM * (1 + bonus*parameter.WeaponRangePerLevel),
	}
}

func (w *Weapon) Definition() Definition { return w.def }
func (w *Weapon) ID() string { return w.def.ID }
func (w *Weapon) Name() string { return w.def.Name }
func (w *Weapon) Kind() Kind { return w.def.Kind }
func (w *Weapon) Level() int { return w.level }
func (w *Weapon) Damage() float64 { return w.damage }
func (w *Weapon) Cooldown() time.Duration { return w.cooldown }
func (w *Weapon) RangeM() float64 { return w.rangeM }
func (w *Weapon) EnergyCost() float64 { return w.def.EnergyCost }
func (w *Weapon) Autofire() bool { return w.def.Autofire }
func (w *Weapon) LockRequired() bool { return w.def.LockRequired }
func (w *Weapon) Homing() bool { return w.def.Homing }

func (w *Weapon) String() string {
	return fmt.Sprintf("%s L%d", w.def.Name, w.level)
}

// ProjectileSpec describes the projectile a splash weapon launches
func (w *Weapon) ProjectileSpec() projectile.Spec {
	flight := w.def.FlightRangeM
	if flight <= 0 {
		flight = w.rangeM
	}
	return projectile.Spec{
		WeaponName:   w.def.Name,
		WeaponType:   w.def.ID,
		Damage:       w.damage,
		BlastRadiusM: w.def.BlastRadiusM,
		FlightRangeM: flight,
		Homing:       w.def.Homing,
		TurnRateDeg:  w.def.TurnRateDeg,
		SpeedMS:      w.def.SpeedMS,
	}
}
