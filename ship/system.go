package ship

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/vmath"
)

var (
	ErrMaxLevel       = errors.New("ship: system at max level")
	ErrNotOperational = errors.New("ship: system not operational")
	ErrUnknownLevel   = errors.New("ship: no stats for level")
)

// Phase selects which tick stage updates a system
type Phase uint8

const (
	PhaseSystems   Phase = iota // Energy draw and upkeep, stage (a)
	PhaseTargeting              // Target computer advance, stage (d)
)

// LevelStats is one row of a system's level table
type LevelStats struct {
	Effectiveness float64            // Multiplier >= 1.0
	EnergyRate    float64            // Energy units per second while active
	Extra         map[string]float64 // System-specific fields
}

// Stat returns a system-specific field, 0 when absent
func (l LevelStats) Stat(key string) float64 {
	return l.Extra[key]
}

// Spec is the static description shared by all instances of a system kind
type Spec struct {
	Name         string
	DisplayName  string
	MaxLevel     int
	MaxHealth    float64
	Inefficiency float64 // Extra draw at zero effectiveness; multiplier bounded to [1, 1.5]
	AutoActivate bool
	Levels       map[int]LevelStats
}

// System is the uniform contract every ship system satisfies
type System interface {
	Name() string
	DisplayName() string
	Variant() string
	Level() int
	MaxLevel() int
	Health() float64
	MaxHealth() float64
	HealthPercentage() float64
	State() State
	Stats() LevelStats
	IsOperational() bool
	IsActive() bool
	Activate(s *Ship) bool
	Deactivate()
	TakeDamage(amount float64)
	Repair(fraction float64)
	Effectiveness() float64
	EnergyConsumptionRate() float64
	Update(dt time.Duration, s *Ship)
	Upgrade() error
	Phase() Phase
	SystemBase() *Base
}

// StateHook observes state transitions
type StateHook func(from, to State)

// Base implements the shared system behavior; concrete systems embed it
type Base struct {
	spec    Spec
	variant string
	level   int
	stats   LevelStats

	health    float64
	healthPct float64
	state     State
	active    bool

	owner *Ship
	sink  event.Sink
	rng   *vmath.FastRand
	hooks []StateHook
}

// NewBase creates a system at full health; variant is the card type that produced it
func NewBase(spec Spec, variant string, level int, rng *vmath.FastRand) (*Base, error) {
	if spec.MaxLevel <= 0 {
		spec.MaxLevel = parameter.SystemDefaultMaxLevel
	}
	if spec.MaxHealth <= 0 {
		spec.MaxHealth = 100
	}
	if spec.DisplayName == "" {
		spec.DisplayName = spec.Name
	}
	if level < 1 || level > spec.MaxLevel {
		return nil, fmt.Errorf("%w: %s level %d (max %d)", ErrUnknownLevel, spec.Name, level, spec.MaxLevel)
	}
	if rng == nil {
		rng = vmath.NewFastRand(uint64(len(spec.Name)*7919 + level))
	}
	b := &Base{
		spec:      spec,
		variant:   variant,
		level:     level,
		health:    spec.MaxHealth,
		healthPct: 1,
		state:     StateOperational,
		active:    spec.AutoActivate,
		sink:      event.Discard{},
		rng:       rng,
	}
	b.stats = b.statsFor(level)
	return b, nil
}

// statsFor returns the table row or the nearest lower defined row
func (b *Base) statsFor(level int) LevelStats {
	for l := level; l >= 1; l-- {
		if st, ok := b.spec.Levels[l]; ok {
			if st.Effectiveness < 1 {
				st.Effectiveness = 1
			}
			return st
		}
	}
	return LevelStats{Effectiveness: 1}
}

func (b *Base) SystemBase() *Base { return b }
func (b *Base) Name() string { return b.spec.Name }
func (b *Base) DisplayName() string { return b.spec.DisplayName }
func (b *Base) Variant() string { return b.variant }
func (b *Base) Level() int { return b.level }
func (b *Base) MaxLevel() int { return b.spec.MaxLevel }
func (b *Base) Health() float64 { return b.health }
func (b *Base) MaxHealth() float64 { return b.spec.MaxHealth }
func (b *Base) State() State { return b.state }
func (b *Base) Stats() LevelStats { return b.stats }
func (b *Base) IsActive() bool { return b.active }
func (b *Base) Phase() Phase { return PhaseSystems }
func (b *Base) Spec() Spec { return b.spec }
func (b *Base) RNG() *vmath.FastRand { return b.rng }
func (b *Base) Owner() *Ship { return b.owner }
func (b *Base) Sink() event.Sink { return b.sink }

func (b *Base) HealthPercentage() float64 { return b.healthPct }

// IsOperational holds iff state is not DISABLED and health is positive
func (b *Base) IsOperational() bool {
	return b.state != StateDisabled && b.health > 0
}

// Attach binds the system to its ship's event sink; called by Ship.AddSystem
func (b *Base) Attach(s *Ship) {
	b.owner = s
	if s != nil && s.sink != nil {
		b.sink = s.sink
	}
}

// OnStateChange registers a transition observer
func (b *Base) OnStateChange(h StateHook) {
	b.hooks = append(b.hooks, h)
}

// Activate turns the system on; fails when not operational
func (b *Base) Activate(_ *Ship) bool {
	if !b.IsOperational() {
		return false
	}
	b.active = true
	return true
}

func (b *Base) Deactivate() {
	b.active = false
}

// TakeDamage subtracts health; non-positive amounts are no-ops
func (b *Base) TakeDamage(amount float64) {
	if amount <= 0 || math.IsNaN(amount) {
		return
	}
	b.health = math.Max(0, b.health-amount)
	b.refreshState()
}

// Repair restores fraction × max health
func (b *Base) Repair(fraction float64) {
	if fraction <= 0 || math.IsNaN(fraction) {
		return
	}
	b.health = math.Min(b.spec.MaxHealth, b.health+fraction*b.spec.MaxHealth)
	b.refreshState()
}

func (b *Base) refreshState() {
	b.healthPct = b.health / b.spec.MaxHealth
	next := StateForHealth(b.healthPct)
	if next == b.state {
		return
	}
	prev := b.state
	b.state = next
	if next == StateDisabled {
		b.active = false
	}
	b.emitTransition(prev, next)
}

func (b *Base) emitTransition(from, to State) {
	payload := &event.SystemStatePayload{
		Ship:   b.shipID(),
		System: b.spec.Name,
		From:   from.String(),
		To:     to.String(),
		Health: b.healthPct,
	}
	b.sink.Emit(event.EventSystemStateChanged, payload)
	if to == StateCritical && b.rng.Chance(parameter.CascadingFailureChance) {
		b.sink.Emit(event.EventCascadingFailure, payload)
	}
	for _, h := range b.hooks {
		h(from, to)
	}
}

// Effectiveness is 0 when not operational, else clamp(health × level multiplier, 0, 1)
func (b *Base) Effectiveness() float64 {
	if !b.IsOperational() {
		return 0
	}
	return vmath.Clamp(b.healthPct*b.stats.Effectiveness, 0, 1)
}

// EnergyConsumptionRate applies the damaged inefficiency multiplier to the level rate
func (b *Base) EnergyConsumptionRate() float64 {
	if !b.active || !b.IsOperational() {
		return 0
	}
	rate := b.stats.EnergyRate
	if rate <= 0 {
		return 0
	}
	ineff := b.spec.Inefficiency
	if ineff == 0 {
		ineff = parameter.SystemDefaultInefficiency
	}
	mult := vmath.Clamp(1+(1-b.Effectiveness())*ineff, 1, parameter.SystemMaxInefficiencyMultiplier)
	return rate * mult
}

// Update draws energy for the tick; on shortfall the system deactivates itself
func (b *Base) Update(dt time.Duration, s *Ship) {
	b.DrawEnergy(dt, s)
}

// DrawEnergy pays for dt of operation; false when the system could not be powered this tick
func (b *Base) DrawEnergy(dt time.Duration, s *Ship) bool {
	if s == nil || !b.active || !b.IsOperational() {
		return false
	}
	rate := b.EnergyConsumptionRate()
	if rate <= 0 {
		return true
	}
	need := rate * dt.Seconds()
	if !s.ConsumeEnergy(need) {
		s.DrainEnergy()
		b.active = false
		return false
	}
	return true
}

// Upgrade increments the level and reloads level stats
func (b *Base) Upgrade() error {
	if b.level >= b.spec.MaxLevel {
		return ErrMaxLevel
	}
	b.level++
	b.stats = b.statsFor(b.level)
	return nil
}

func (b *Base) shipID() core.Entity {
	if b.owner != nil {
		return b.owner.ID
	}
	return 0
}
