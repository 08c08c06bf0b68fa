package service

import (
	"time"

	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Camera yields the view the player aims with
type Camera interface {
	Position() vmath.Vec3
	Orientation() vmath.Orientation
}

// Scene tracks visual nodes by id
type Scene interface {
	Add(node string)
	Remove(node string)
}

// ExplosionKind selects explosion visuals and sound
type ExplosionKind uint8

const (
	ExplosionDamage ExplosionKind = iota
	ExplosionTorpedo
	ExplosionSilent
)

func (k ExplosionKind) String() string {
	switch k {
	case ExplosionTorpedo:
		return "torpedo"
	case ExplosionSilent:
		return "silent"
	}
	return "damage"
}

// Effects creates transient visuals and plays sounds
type Effects interface {
	CreateMuzzleFlash(pos, dir vmath.Vec3, weaponType string, d time.Duration)
	CreateLaserBeam(from, to vmath.Vec3, weaponType string)
	CreateExplosion(pos vmath.Vec3, radiusM float64, kind ExplosionKind, soundPos *vmath.Vec3)
	PlaySound(id string, pos *vmath.Vec3, volume float64)
	PlaySuccessSound(pos *vmath.Vec3, volume float64)
	CreateProjectileTrail(id, kind string, start vmath.Vec3, mover func() vmath.Vec3)
	RemoveProjectileTrail(id string)
}

// FeedbackKind selects HUD weapon feedback styling
type FeedbackKind uint8

const (
	FeedbackMiss FeedbackKind = iota
	FeedbackTargetDestroyed
)

// HUD receives player-facing combat feedback
type HUD interface {
	ShowDamageFeedback(weapon string, damage float64, targetName string)
	ShowWeaponFeedback(kind FeedbackKind, text string)
	ShowOutOfRangeFeedback(weapon string, distanceM, rangeM float64)
	ShowInsufficientEnergyFeedback(weapon string, need, have float64)
	ShowCooldownMessage(weapon string, secondsRemaining float64)
	ShowMessage(text string, d time.Duration)
	ShowUnifiedMessage(text string, d time.Duration, lines int, fg, mid, bg string)
}

// Registry enumerates live candidate enemy targets
type Registry interface {
	Targets() []target.Target
}

// NopEffects discards every effect request
type NopEffects struct{}

func (NopEffects) CreateMuzzleFlash(vmath.Vec3, vmath.Vec3, string, time.Duration) {}
func (NopEffects) CreateLaserBeam(vmath.Vec3, vmath.Vec3, string) {}
func (NopEffects) CreateExplosion(vmath.Vec3, float64, ExplosionKind, *vmath.Vec3) {}
func (NopEffects) PlaySound(string, *vmath.Vec3, float64) {}
func (NopEffects) PlaySuccessSound(*vmath.Vec3, float64) {}
func (NopEffects) CreateProjectileTrail(string, string, vmath.Vec3, func() vmath.Vec3) {}
func (NopEffects) RemoveProjectileTrail(string) {}

// NopHUD discards every message
type NopHUD struct{}

func (NopHUD) ShowDamageFeedback(string, float64, string) {}
func (NopHUD) ShowWeaponFeedback(FeedbackKind, string) {}
func (NopHUD) ShowOutOfRangeFeedback(string, float64, float64) {}
func (NopHUD) ShowInsufficientEnergyFeedback(string, float64, float64) {}
func (NopHUD) ShowCooldownMessage(string, float64) {}
func (NopHUD) ShowMessage(string, time.Duration) {}
func (NopHUD) ShowUnifiedMessage(string, time.Duration, int, string, string, string) {}
