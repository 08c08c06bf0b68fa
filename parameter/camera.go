package parameter

// Cockpit Camera
const (
	// CameraTurnRate is the keyboard turn step in radians
	CameraTurnRate = 0.05

	// CameraEyeOffset raises the eye above the ship centre in world units
	CameraEyeOffset = 0.0

	// CameraFovDeg is the horizontal field of view of the HUD projection
	CameraFovDeg = 70.0
)

// Piloting
const (
	// ThrottleStep is the throttle change per key press, as a fraction of engine speed
	ThrottleStep = 0.25

	// FieldRepairFraction is the share of system health restored by one field repair
	FieldRepairFraction = 0.25
)
