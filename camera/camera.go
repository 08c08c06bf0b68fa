// Package camera provides the cockpit camera the player aims with
package camera

import (
	"math"
	"sync"

	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Anchor yields the world position the camera rides on
type Anchor func() (vmath.Vec3, bool)

// Cockpit is a first-person camera attached to a ship
// Orientation is owned by the camera; position follows the anchor on Sync
type Cockpit struct {
	mu     sync.RWMutex
	pos    vmath.Vec3
	q      vmath.Orientation
	anchor Anchor
}

// New returns a camera at pos looking down -Z
func New(pos vmath.Vec3) *Cockpit {
	return &Cockpit{pos: pos, q: vmath.Identity()}
}

func (c *Cockpit) Position() vmath.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pos
}

func (c *Cockpit) Orientation() vmath.Orientation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.q
}

// Basis returns the current forward/right/up frame
func (c *Cockpit) Basis() vmath.Basis {
	return vmath.BasisOf(c.Orientation())
}

// Follow attaches the camera to an anchor; nil detaches it
func (c *Cockpit) Follow(a Anchor) {
	c.mu.Lock()
	c.anchor = a
	c.mu.Unlock()
	c.Sync()
}

// Sync moves the camera to its anchor plus the eye offset
func (c *Cockpit) Sync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.anchor == nil {
		return
	}
	p, ok := c.anchor()
	if !ok {
		return
	}
	up := vmath.BasisOf(c.q).Up
	c.pos = vmath.Add(p, vmath.Scale(up, parameter.CameraEyeOffset))
}

// SetPosition places a detached camera
func (c *Cockpit) SetPosition(p vmath.Vec3) {
	c.mu.Lock()
	c.pos = p
	c.mu.Unlock()
}

// SetOrientation replaces the orientation
func (c *Cockpit) SetOrientation(q vmath.Orientation) {
	c.mu.Lock()
	c.q = vmath.Compose(q, vmath.Identity())
	c.mu.Unlock()
}

// Turn rotates in the camera's own frame: yaw about up, pitch about right, roll about forward
func (c *Cockpit) Turn(yaw, pitch, roll float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.q
	if yaw != 0 {
		q = vmath.Compose(q, vmath.AxisAngle(vmath.Vec3{Y: 1}, yaw))
	}
	if pitch != 0 {
		q = vmath.Compose(q, vmath.AxisAngle(vmath.Vec3{X: 1}, pitch))
	}
	if roll != 0 {
		q = vmath.Compose(q, vmath.AxisAngle(vmath.Vec3{Z: -1}, roll))
	}
	c.q = q
}

// LookAt points forward at p; no-op when p is the camera position
func (c *Cockpit) LookAt(p vmath.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dir := vmath.Sub(p, c.pos)
	if vmath.Mag(dir) == 0 {
		return
	}
	c.q = vmath.LookRotation(dir)
}

// Project maps a world point onto normalized screen coordinates in [-1, 1]
// using a symmetric perspective; false when the point is behind the camera
func (c *Cockpit) Project(p vmath.Vec3, aspect float64) (x, y float64, ok bool) {
	c.mu.RLock()
	pos, q := c.pos, c.q
	c.mu.RUnlock()

	b := vmath.BasisOf(q)
	rel := vmath.Sub(p, pos)
	depth := vmath.Dot(rel, b.Forward)
	if depth <= 0 {
		return 0, 0, false
	}
	f := 1 / tanHalfFov()
	x = vmath.Dot(rel, b.Right) / depth * f
	y = vmath.Dot(rel, b.Up) / depth * f * aspect
	return x, y, true
}

func tanHalfFov() float64 {
	return math.Tan(parameter.CameraFovDeg * math.Pi / 360)
}
