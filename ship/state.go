package ship

import "github.com/lixenwraith/void-fighter/parameter"

// State is the health-derived condition of a ship system
type State uint8

const (
	StateOperational State = iota
	StateDamaged
	StateCritical
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateOperational:
		return "operational"
	case StateDamaged:
		return "damaged"
	case StateCritical:
		return "critical"
	case StateDisabled:
		return "disabled"
	}
	return "unknown"
}

// StateForHealth maps a health fraction to the unique consistent state
func StateForHealth(pct float64) State {
	switch {
	case pct <= 0:
		return StateDisabled
	case pct <= parameter.SystemCriticalThreshold:
		return StateCritical
	case pct <= parameter.SystemDamagedThreshold:
		return StateDamaged
	}
	return StateOperational
}
