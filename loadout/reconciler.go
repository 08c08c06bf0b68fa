package loadout

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/card"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/ship"
)

// Result lists the system names touched by one reconcile pass
type Result struct {
	Added    []string
	Removed  []string
	Replaced []string
}

func (r Result) Changed() bool {
	return len(r.Added)+len(r.Removed)+len(r.Replaced) > 0
}

// Reconciler keeps a ship's systems in agreement with its installed cards:
// a registered system exists iff some installed card binds to it, at that card's level and variant
type Reconciler struct {
	registry *Registry
	log      zerolog.Logger
}

func NewReconciler(registry *Registry, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		registry: registry,
		log:      log.With().Str("component", "reconciler").Logger(),
	}
}

func (r *Reconciler) Registry() *Registry { return r.registry }

// Reconcile adds, replaces and removes systems on s to match s.Cards
// Systems that fail to build are skipped and reported in the joined error;
// the rest of the pass still applies
func (r *Reconciler) Reconcile(s *ship.Ship) (Result, error) {
	var res Result
	if s == nil {
		return res, nil
	}
	var installed []card.Card
	if s.Cards != nil {
		installed = s.Cards.Cards()
	}
	order, desired := r.desired(installed)

	for _, name := range r.registry.Names() {
		if _, want := desired[name]; want {
			continue
		}
		if s.RemoveSystem(name) {
			res.Removed = append(res.Removed, name)
		}
	}

	var errs []error
	for _, name := range order {
		c := desired[name]
		level := r.clampLevel(name, c.Level)
		existing, has := s.System(name)
		if has && existing.Level() == level && existing.Variant() == string(c.Type) {
			continue
		}
		sys, err := r.registry.Build(name, string(c.Type), level, s.RNG())
		if err != nil {
			r.log.Warn().Err(err).Str("ship", s.Name).Str("system", name).Msg("build failed")
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		s.AddSystem(sys)
		if spec, _ := r.registry.Spec(name); spec.AutoActivate {
			sys.Activate(s)
		}
		if has {
			res.Replaced = append(res.Replaced, name)
		} else {
			res.Added = append(res.Added, name)
		}
	}

	if res.Changed() {
		s.RecalculateTotals()
		r.log.Debug().Str("ship", s.Name).
			Strs("added", res.Added).Strs("removed", res.Removed).Strs("replaced", res.Replaced).
			Msg("systems reconciled")
		s.Sink().Emit(event.EventSystemsReconciled, &event.SystemsReconciledPayload{
			Ship:     s.ID,
			Added:    res.Added,
			Removed:  res.Removed,
			Replaced: res.Replaced,
		})
	}
	return res, errors.Join(errs...)
}

// desired picks one card per bound system; the highest level wins and
// ties go to the lowest slot id, since cards arrive sorted by slot
func (r *Reconciler) desired(cards []card.Card) ([]string, map[string]card.Card) {
	var order []string
	out := make(map[string]card.Card)
	for _, c := range cards {
		name, ok := card.SystemName(c.Type)
		if !ok {
			continue
		}
		if !r.registry.Has(name) {
			r.log.Debug().Str("card", string(c.Type)).Msg("no system registered for card")
			continue
		}
		prev, seen := out[name]
		if !seen {
			order = append(order, name)
			out[name] = c
			continue
		}
		if c.Level > prev.Level {
			out[name] = c
		}
	}
	return order, out
}

func (r *Reconciler) clampLevel(name string, level int) int {
	spec, _ := r.registry.Spec(name)
	maxLevel := spec.MaxLevel
	if maxLevel <= 0 {
		maxLevel = parameter.SystemDefaultMaxLevel
	}
	switch {
	case level < 1:
		return 1
	case level > maxLevel:
		return maxLevel
	}
	return level
}
