// Package loadout turns installed cards into live ship systems and weapon slots
package loadout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lixenwraith/void-fighter/config"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/targetcomp"
	"github.com/lixenwraith/void-fighter/vmath"
)

var (
	ErrUnknownSystem = errors.New("loadout: unknown system")
	ErrUnknownKind   = errors.New("loadout: unknown system kind")
)

// Constructor builds one system instance from its static spec
type Constructor func(spec ship.Spec, variant string, level int, rng *vmath.FastRand) (ship.System, error)

type entry struct {
	spec ship.Spec
	ctor Constructor
}

// Registry maps system names to their spec and constructor
// The set of registered names is the reconciler's watch-set
type Registry struct {
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds or replaces the constructor for spec.Name
func (r *Registry) Register(spec ship.Spec, ctor Constructor) {
	r.entries[spec.Name] = entry{spec: spec, ctor: ctor}
}

func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

func (r *Registry) Spec(name string) (ship.Spec, bool) {
	e, ok := r.entries[name]
	return e.spec, ok
}

// Names returns registered system names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates the named system at level
func (r *Registry) Build(name, variant string, level int, rng *vmath.FastRand) (ship.System, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSystem, name)
	}
	return e.ctor(e.spec, variant, level, rng)
}

// RegistryFromConfig registers every configured system under the constructor
// its kind selects; target computers resolve ships through ships
func RegistryFromConfig(systems []config.SystemConfig, tc targetcomp.Settings, ships targetcomp.ShipLookup) (*Registry, error) {
	r := NewRegistry()
	for _, sc := range systems {
		ctor, err := constructorFor(sc.Kind, tc, ships)
		if err != nil {
			return nil, fmt.Errorf("system %s: %w", sc.Name, err)
		}
		r.Register(SpecFromConfig(sc), ctor)
	}
	return r, nil
}

func constructorFor(kind string, tc targetcomp.Settings, ships targetcomp.ShipLookup) (Constructor, error) {
	switch kind {
	case config.SystemGeneric, "":
		return ship.NewGeneric, nil
	case config.SystemShields:
		return ship.NewShields, nil
	case config.SystemReactor:
		return ship.NewReactor, nil
	case config.SystemHullPlating:
		return ship.NewHullPlating, nil
	case config.SystemEngines:
		return ship.NewEngines, nil
	case config.SystemTargetComputer:
		return targetcomp.Factory(tc, ships), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// SpecFromConfig converts a configured level table into a ship.Spec
func SpecFromConfig(sc config.SystemConfig) ship.Spec {
	levels := make(map[int]ship.LevelStats, len(sc.Levels))
	for _, lc := range sc.Levels {
		extra := make(map[string]float64, len(lc.Stats))
		for k, v := range lc.Stats {
			extra[k] = v
		}
		levels[lc.Level] = ship.LevelStats{
			Effectiveness: lc.Effectiveness,
			EnergyRate:    lc.EnergyRate,
			Extra:         extra,
		}
	}
	return ship.Spec{
		Name:         sc.Name,
		DisplayName:  sc.DisplayName,
		MaxLevel:     sc.MaxLevel,
		MaxHealth:    sc.MaxHealth,
		Inefficiency: sc.Inefficiency,
		AutoActivate: sc.AutoActivate,
		Levels:       levels,
	}
}
