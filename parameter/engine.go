package parameter

import "time"

// Game Loop & Engine Timing
const (
	// FrameUpdateInterval is the simulation tick interval (~60 Hz)
	FrameUpdateInterval = 16 * time.Millisecond

	// RenderInterval is the terminal HUD redraw interval
	RenderInterval = 50 * time.Millisecond

	// MaxFrameDelta caps a single tick after a stall so projectiles do not teleport
	MaxFrameDelta = 100 * time.Millisecond
)

// ECS & Resources Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 2048

	// EventBufferMask is the bitmask for fast modulo operations (2048 - 1)
	EventBufferMask = 2047
)

// Ship Contact
const (
	// ShipRestitution is the bounce factor of ship-to-ship contacts
	ShipRestitution = 0.4

	// ImmovableMass stands in for static bodies in contact resolution
	ImmovableMass = 1e12
)
