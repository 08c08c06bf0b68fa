package system

import (
	"time"

	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/telemetry"
)

// TelemetrySystem appends combat events to the combat log
type TelemetrySystem struct {
	game   *engine.GameContext
	log    *telemetry.CombatLog
	failed bool
}

func NewTelemetrySystem(game *engine.GameContext, log *telemetry.CombatLog) *TelemetrySystem {
	return &TelemetrySystem{game: game, log: log}
}

func (s *TelemetrySystem) Name() string  { return "telemetry" }
func (s *TelemetrySystem) Priority() int { return parameter.PriorityTelemetry }

func (s *TelemetrySystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventWeaponFired,
		event.EventWeaponHit,
		event.EventWeaponMiss,
		event.EventProjectileLaunched,
		event.EventProjectileDetonated,
		event.EventProjectileExpired,
		event.EventShipDestroyed,
	}
}

func (s *TelemetrySystem) HandleEvent(ev event.GameEvent) {
	rec, ok := telemetry.RecordFromEvent(ev, s.game.Clock.Elapsed())
	if !ok {
		return
	}
	if err := s.log.Append(rec); err != nil && !s.failed {
		s.failed = true
		s.game.Log.Warn().Err(err).Msg("combat log write failed")
	}
}

func (s *TelemetrySystem) Update(dt time.Duration) {}

// Summary aggregates everything logged so far
func (s *TelemetrySystem) Summary() telemetry.Summary {
	return s.log.Summary()
}
