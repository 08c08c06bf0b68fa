package projectile

import (
	"time"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Spec is the weapon data a projectile carries
type Spec struct {
	WeaponName   string
	WeaponType   string
	Damage       float64
	BlastRadiusM float64 // 0 for direct hit
	FlightRangeM float64
	Homing       bool
	TurnRateDeg  float64
	SpeedMS      float64 // 0 selects the default for the homing mode
}

// IsSplash reports area damage on detonation
func (s Spec) IsSplash() bool {
	return s.BlastRadiusM > 0
}

// LaunchRequest is everything a weapon supplies when firing a projectile
type LaunchRequest struct {
	Origin    vmath.Vec3
	Direction vmath.Vec3
	Target    *target.Target // Optional; sizes the collider and steers homing
	Owner     core.Entity
	Spec      Spec
}

// Projectile is one in-flight shot
type Projectile struct {
	ID     string
	Spec   Spec
	Owner  core.Entity
	Target *target.Target

	LaunchTime time.Time
	Start      vmath.Vec3
	SpeedMS    float64
	RadiusM    float64
	Delay      time.Duration

	allowAfter time.Time
	body       physics.BodyID
	ballistic  *physics.Ballistic
	lastPos    vmath.Vec3

	collisionProcessed bool
	detonated          bool
	expired            bool
}

// AllowCollisionAfter is the earliest time a contact is honored
func (p *Projectile) AllowCollisionAfter() time.Time { return p.allowAfter }

func (p *Projectile) Detonated() bool { return p.detonated }
func (p *Projectile) Expired() bool { return p.expired }
func (p *Projectile) CollisionProcessed() bool { return p.collisionProcessed }

// IsBallistic reports a projectile integrated outside the rigid-body simulation
func (p *Projectile) IsBallistic() bool { return p.ballistic != nil }

// Body returns the rigid body id, 0 in ballistic mode or after removal
func (p *Projectile) Body() physics.BodyID { return p.body }

func (p *Projectile) finished() bool {
	return p.detonated || p.expired || p.collisionProcessed
}
