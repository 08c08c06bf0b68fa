package weapon

import (
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/projectile"
	"github.com/lixenwraith/void-fighter/service"
	"github.com/lixenwraith/void-fighter/status"
	"github.com/lixenwraith/void-fighter/targetcomp"
	"github.com/lixenwraith/void-fighter/targeting"
	"github.com/lixenwraith/void-fighter/vmath"
)

// TargetSource answers crosshair queries; implemented by targeting.Service
type TargetSource interface {
	CurrentTarget(req targeting.Request) targeting.Result
}

// Launcher spawns projectiles; implemented by projectile.Manager
type Launcher interface {
	Launch(req projectile.LaunchRequest) (*projectile.Projectile, error)
}

// Env is the collaborator set shared by a weapon system and its slots
// Nil presentation collaborators are replaced with no-ops
type Env struct {
	Clock       core.Clock
	Camera      service.Camera
	Physics     physics.Engine
	Targeting   TargetSource
	Projectiles Launcher
	Effects     service.Effects
	HUD         service.HUD
	Ships       targetcomp.ShipLookup
	Removals    projectile.Remover
	Events      event.Sink
	Status      *status.Registry
	Log         zerolog.Logger

	// FallbackHitRadiusFactor inflates the ray-to-center hit box of scan-hit weapons
	FallbackHitRadiusFactor float64
}

func (e *Env) fill() {
	if e.Effects == nil {
		e.Effects = service.NopEffects{}
	}
	if e.HUD == nil {
		e.HUD = service.NopHUD{}
	}
	if e.Events == nil {
		e.Events = event.Discard{}
	}
	if e.Status == nil {
		e.Status = status.NewRegistry()
	}
	if e.FallbackHitRadiusFactor <= 0 {
		e.FallbackHitRadiusFactor = parameter.TargetingFallbackHitRadiusFactor
	}
}

// view returns the aiming frame; without a camera the ship's position and
// the identity orientation are used
func (e *Env) view(from vmath.Vec3) (vmath.Vec3, vmath.Basis) {
	if e.Camera == nil {
		return from, vmath.BasisOf(vmath.Identity())
	}
	return e.Camera.Position(), vmath.BasisOf(e.Camera.Orientation())
}

type meters struct {
	shots    *atomic.Int64
	hits     *atomic.Int64
	misses   *atomic.Int64
	rejected *atomic.Int64
	blocked  *atomic.Int64
}

func newMeters(reg *status.Registry) *meters {
	return &meters{
		shots:    reg.Ints.Get(parameter.StatWeaponShots),
		hits:     reg.Ints.Get(parameter.StatWeaponHits),
		misses:   reg.Ints.Get(parameter.StatWeaponMisses),
		rejected: reg.Ints.Get(parameter.StatWeaponRejected),
		blocked:  reg.Ints.Get(parameter.StatWeaponBlocked),
	}
}
