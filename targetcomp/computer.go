// Package targetcomp implements the target computer ship system: tracked
// targets, lock, and sub-target selection at higher levels
package targetcomp

import (
	"errors"
	"math"
	"time"

	"github.com/lixenwraith/void-fighter/config"
	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/vmath"
)

// SystemName is the ship system name every computer card binds to
const SystemName = "target_computer"

// Level table keys
const (
	StatRangeMultiplier    = "range_multiplier"
	StatAccuracyMultiplier = "accuracy_multiplier"
	StatMaxTargetsBonus    = "max_targets_bonus"
)

var (
	ErrEnergyDepleted = errors.New("targetcomp: insufficient energy")
	ErrReactorOffline = errors.New("targetcomp: energy reactor offline")
)

// Error categories reported in EventSystemError
const (
	CategoryEnergyDepleted = "energy_depleted"
	CategoryReactorOffline = "reactor_offline"
)

// ShipLookup resolves ship ids to live ships
type ShipLookup interface {
	Ship(id core.Entity) (*ship.Ship, bool)
}

// Settings are the level-independent baselines scaled by the level table
type Settings struct {
	BaseRangeM     float64
	BaseAccuracy   float64
	BaseMaxTargets int
}

func SettingsFromConfig(c config.TargetComputerConfig) Settings {
	return Settings{BaseRangeM: c.BaseRangeM, BaseAccuracy: c.BaseAccuracy, BaseMaxTargets: c.BaseMaxTargets}
}

type tracked struct {
	target      *target.Target
	lastUpdated time.Duration // Computer uptime at last refresh
}

// TargetComputer tracks targets and drives lock and sub-targeting
type TargetComputer struct {
	*ship.Base

	settings Settings
	ships    ShipLookup

	targeting    bool
	current      *target.Target
	locked       bool
	lockStrength float64
	tracked      map[core.Entity]*tracked

	subTargets []target.SubTarget
	subIndex   int // -1 when no sub-target is selected

	uptime         time.Duration
	lastSubRefresh time.Duration
	lastErr        error
}

// Factory returns a constructor suitable for the loadout registry
func Factory(settings Settings, ships ShipLookup) func(ship.Spec, string, int, *vmath.FastRand) (ship.System, error) {
	return func(spec ship.Spec, variant string, level int, rng *vmath.FastRand) (ship.System, error) {
		tc, err := New(spec, variant, level, rng, settings, ships)
		if err != nil {
			return nil, err
		}
		return tc, nil
	}
}

// New creates a computer; it starts inactive until Activate succeeds
func New(spec ship.Spec, variant string, level int, rng *vmath.FastRand, settings Settings, ships ShipLookup) (*TargetComputer, error) {
	if spec.Inefficiency == 0 {
		spec.Inefficiency = parameter.TargetComputerInefficiency
	}
	spec.AutoActivate = false
	b, err := ship.NewBase(spec, variant, level, rng)
	if err != nil {
		return nil, err
	}
	if settings.BaseMaxTargets < 1 {
		settings.BaseMaxTargets = 1
	}
	tc := &TargetComputer{
		Base:     b,
		settings: settings,
		ships:    ships,
		tracked:  make(map[core.Entity]*tracked),
		subIndex: -1,
	}
	tc.OnStateChange(tc.onStateChange)
	return tc, nil
}

func (tc *TargetComputer) Phase() ship.Phase { return ship.PhaseTargeting }

// CanActivate requires an operational computer and an installed computer card
func (tc *TargetComputer) CanActivate(s *ship.Ship) bool {
	if !tc.IsOperational() {
		return false
	}
	if s == nil || s.Cards == nil || s.Cards.Len() == 0 {
		// Ships without a card configuration carry built-in systems
		return true
	}
	return s.Cards.HasBinding(SystemName)
}

func (tc *TargetComputer) Activate(s *ship.Ship) bool {
	if !tc.CanActivate(s) {
		return false
	}
	if !tc.Base.Activate(s) {
		return false
	}
	tc.targeting = true
	tc.lastErr = nil
	return true
}

// Deactivate powers down and forgets every target
func (tc *TargetComputer) Deactivate() {
	tc.Base.Deactivate()
	tc.targeting = false
	tc.reset()
}

func (tc *TargetComputer) reset() {
	tc.current = nil
	tc.locked = false
	tc.lockStrength = 0
	clear(tc.tracked)
	tc.subTargets = nil
	tc.subIndex = -1
}

func (tc *TargetComputer) IsTargeting() bool { return tc.targeting }
func (tc *TargetComputer) IsLocked() bool { return tc.locked }
func (tc *TargetComputer) LockStrength() float64 { return tc.lockStrength }
func (tc *TargetComputer) LastError() error { return tc.lastErr }

// CurrentTarget returns a copy of the current target, nil when none
func (tc *TargetComputer) CurrentTarget() *target.Target {
	return tc.current.Clone()
}

// TrackedCount returns the number of live tracking entries
func (tc *TargetComputer) TrackedCount() int {
	return len(tc.tracked)
}

// RangeM is the current targeting range
func (tc *TargetComputer) RangeM() float64 {
	return tc.settings.BaseRangeM * tc.levelStat(StatRangeMultiplier, 1) * tc.Effectiveness()
}

// Accuracy is the current accuracy in [0, 1]
func (tc *TargetComputer) Accuracy() float64 {
	return vmath.Clamp(tc.settings.BaseAccuracy*tc.levelStat(StatAccuracyMultiplier, 1)*tc.Effectiveness(), 0, 1)
}

// MaxTargets is the tracking capacity, at least 1 while operational
func (tc *TargetComputer) MaxTargets() int {
	if !tc.IsOperational() {
		return 0
	}
	n := float64(tc.settings.BaseMaxTargets) + tc.levelStat(StatMaxTargetsBonus, 0)
	return max(1, int(math.Round(n*tc.Effectiveness())))
}

// HasSubTargeting reports level-gated sub-target capability
func (tc *TargetComputer) HasSubTargeting() bool {
	return tc.Level() >= parameter.SubTargetMinLevel && tc.IsOperational()
}

func (tc *TargetComputer) levelStat(key string, fallback float64) float64 {
	if v, ok := tc.Stats().Extra[key]; ok {
		return v
	}
	return fallback
}

// SetTarget replaces the current target, resets lock and refreshes sub-targets
func (tc *TargetComputer) SetTarget(t *target.Target) {
	if t == nil {
		tc.ClearTarget()
		return
	}
	tc.current = t.Clone()
	tc.locked = false
	tc.lockStrength = 0
	tc.track(tc.current)
	tc.subIndex = -1
	tc.refreshSubTargets()
	tc.emitTargetChanged()
}

func (tc *TargetComputer) track(t *target.Target) {
	if entry, ok := tc.tracked[t.Entity]; ok {
		entry.target = t.Clone()
		entry.lastUpdated = tc.uptime
		return
	}
	limit := tc.MaxTargets()
	for limit > 0 && len(tc.tracked) >= limit {
		tc.evictOldest()
	}
	tc.tracked[t.Entity] = &tracked{target: t.Clone(), lastUpdated: tc.uptime}
}

func (tc *TargetComputer) evictOldest() {
	var oldest core.Entity
	first := true
	var at time.Duration
	for id, e := range tc.tracked {
		if tc.current != nil && id == tc.current.Entity {
			continue
		}
		if first || e.lastUpdated < at || (e.lastUpdated == at && id < oldest) {
			oldest, at, first = id, e.lastUpdated, false
		}
	}
	if first {
		// Only the current target remains
		for id := range tc.tracked {
			delete(tc.tracked, id)
		}
		return
	}
	delete(tc.tracked, oldest)
}

// LockTarget attempts a lock with probability LockChanceFactor × accuracy
func (tc *TargetComputer) LockTarget() bool {
	if tc.current == nil || !tc.IsOperational() || !tc.IsActive() {
		tc.locked = false
		return false
	}
	tc.locked = tc.RNG().Chance(parameter.LockChanceFactor * tc.Accuracy())
	if !tc.locked {
		tc.lockStrength = 0
	}
	return tc.locked
}

// ClearTarget drops current target, lock and sub-target; tracking entries stay
func (tc *TargetComputer) ClearTarget() {
	had := tc.current != nil
	tc.current = nil
	tc.locked = false
	tc.lockStrength = 0
	tc.subTargets = nil
	tc.subIndex = -1
	if had {
		tc.emitTargetChanged()
	}
}

func (tc *TargetComputer) ClearSubTarget() {
	tc.subIndex = -1
}

// SubTargets returns the selectable subsystems, highest priority first
func (tc *TargetComputer) SubTargets() []target.SubTarget {
	out := make([]target.SubTarget, len(tc.subTargets))
	copy(out, tc.subTargets)
	return out
}

// CurrentSubTarget returns the selected subsystem, nil when none
func (tc *TargetComputer) CurrentSubTarget() *target.SubTarget {
	if tc.subIndex < 0 || tc.subIndex >= len(tc.subTargets) {
		return nil
	}
	st := tc.subTargets[tc.subIndex]
	return &st
}

func (tc *TargetComputer) CycleSubTargetNext() bool {
	return tc.cycle(1)
}

func (tc *TargetComputer) CycleSubTargetPrevious() bool {
	return tc.cycle(-1)
}

func (tc *TargetComputer) cycle(step int) bool {
	n := len(tc.subTargets)
	if n == 0 || !tc.HasSubTargeting() {
		return false
	}
	switch {
	case tc.subIndex < 0 && step > 0:
		tc.subIndex = 0
	case tc.subIndex < 0:
		tc.subIndex = n - 1
	default:
		tc.subIndex = (tc.subIndex + step + n) % n
	}
	return true
}

// SelectRandomSubTarget picks any available subsystem
func (tc *TargetComputer) SelectRandomSubTarget() bool {
	if len(tc.subTargets) == 0 || !tc.HasSubTargeting() {
		return false
	}
	tc.subIndex = tc.RNG().Intn(len(tc.subTargets))
	return true
}

// AccuracyBonus applies to sub-targeted shots; zero without a sub-target
func (tc *TargetComputer) AccuracyBonus() float64 {
	if tc.CurrentSubTarget() == nil {
		return 0
	}
	return parameter.SubTargetAccuracyBonusFactor * tc.Accuracy()
}

// DamageBonus applies to sub-targeted shots; zero without a sub-target
func (tc *TargetComputer) DamageBonus() float64 {
	if tc.CurrentSubTarget() == nil {
		return 0
	}
	return parameter.SubTargetDamageBonusFactor * tc.Accuracy()
}

// Update advances tracking, lock strength and the sub-target refresh cadence
func (tc *TargetComputer) Update(dt time.Duration, s *ship.Ship) {
	if !tc.IsActive() {
		return
	}
	if !tc.DrawEnergy(dt, s) {
		tc.failPower(s)
		return
	}

	tc.uptime += dt

	for id, e := range tc.tracked {
		if tc.uptime-e.lastUpdated > parameter.TrackedTargetExpiry {
			delete(tc.tracked, id)
		}
	}

	if tc.current != nil {
		if !tc.refreshCurrent() {
			tc.ClearTarget()
		}
	}

	if tc.locked {
		tc.lockStrength = math.Min(1, tc.lockStrength+float64(dt)/float64(parameter.LockStrengthRamp))
	}

	if tc.uptime-tc.lastSubRefresh >= parameter.SubTargetRefreshInterval {
		tc.refreshSubTargets()
	}
}

// refreshCurrent follows the current target's ship; false when it is gone
func (tc *TargetComputer) refreshCurrent() bool {
	if tc.current.Ship != 0 && tc.ships != nil {
		sh, ok := tc.ships.Ship(tc.current.Ship)
		if !ok || sh.IsDestroyed() {
			return false
		}
		tc.current.Position = sh.Position
	}
	if entry, ok := tc.tracked[tc.current.Entity]; ok {
		entry.target = tc.current.Clone()
		entry.lastUpdated = tc.uptime
	} else {
		tc.track(tc.current)
	}
	return true
}

func (tc *TargetComputer) refreshSubTargets() {
	tc.lastSubRefresh = tc.uptime

	var selected string
	if st := tc.CurrentSubTarget(); st != nil {
		selected = st.System
	}

	tc.subTargets = tc.detectSubTargets()
	tc.subIndex = -1
	if selected == "" {
		return
	}
	for i, st := range tc.subTargets {
		if st.System == selected {
			tc.subIndex = i
			return
		}
	}
}

func (tc *TargetComputer) detectSubTargets() []target.SubTarget {
	if tc.current == nil || !tc.HasSubTargeting() {
		return nil
	}

	var subs []target.SubTarget
	if tc.current.Ship != 0 && tc.ships != nil {
		if sh, ok := tc.ships.Ship(tc.current.Ship); ok {
			subs = LiveSystems(sh)
			if len(subs) == 0 && len(sh.Systems()) == 0 {
				subs = SynthesizeSystems(sh.StationType)
			}
		}
	} else if tc.current.StationType != "" {
		subs = SynthesizeSystems(tc.current.StationType)
	}

	live := subs[:0]
	for _, st := range subs {
		if st.Health > 0 {
			live = append(live, st)
		}
	}
	sortByPriority(live)
	return live
}

func (tc *TargetComputer) failPower(s *ship.Ship) {
	err, category := ErrEnergyDepleted, CategoryEnergyDepleted
	if s != nil {
		if reactor, ok := s.System("energy_reactor"); ok && !reactor.IsOperational() {
			err, category = ErrReactorOffline, CategoryReactorOffline
		}
	}
	tc.Deactivate()
	tc.lastErr = err

	var id core.Entity
	if s != nil {
		id = s.ID
	}
	tc.Sink().Emit(event.EventSystemError, &event.SystemErrorPayload{
		Ship:     id,
		System:   tc.Name(),
		Category: category,
		Message:  err.Error(),
	})
}

func (tc *TargetComputer) onStateChange(_, to ship.State) {
	switch to {
	case ship.StateDisabled:
		tc.targeting = false
		tc.reset()
	case ship.StateCritical:
		if tc.Level() >= parameter.SubTargetMinLevel && tc.Accuracy() < parameter.LockLossAccuracy {
			tc.locked = false
			tc.lockStrength = 0
		}
	}
}

func (tc *TargetComputer) emitTargetChanged() {
	var owner, tgt core.Entity
	if o := tc.Owner(); o != nil {
		owner = o.ID
	}
	if tc.current != nil {
		tgt = tc.current.Entity
	}
	tc.Sink().Emit(event.EventTargetChanged, &event.TargetChangedPayload{Ship: owner, Target: tgt})
}
