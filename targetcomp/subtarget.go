package targetcomp

import (
	"sort"
	"strings"

	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/target"
)

// priorities ranks subsystems for sub-target ordering, higher first
var priorities = map[string]int{
	"weapons":            10,
	"shields":            9,
	"impulse_engines":    8,
	"warp_drive":         7,
	"target_computer":    6,
	"energy_reactor":     5,
	"long_range_scanner": 4,
	"subspace_radio":     3,
	"life_support":       2,
	"hull_plating":       1,
	"cargo_hold":         1,
}

// Priority returns the targeting priority of a subsystem, 0 when unranked
func Priority(system string) int {
	return priorities[system]
}

// stationBase is carried by every ship-less installation
var stationBase = []string{"hull_plating", "energy_reactor", "life_support"}

// stationExtras lists type-specific systems by station type
var stationExtras = map[string][]string{
	"Defense Platform":   {"weapons", "shields", "target_computer"},
	"Starbase":           {"weapons", "shields", "cargo_hold", "subspace_radio"},
	"Research Station":   {"long_range_scanner", "shields"},
	"Mining Station":     {"cargo_hold"},
	"Navigation Beacon":  {"subspace_radio", "long_range_scanner"},
	"Communications Hub": {"subspace_radio"},
}

// SynthesizeSystems builds the sub-target list of an installation that has
// no live systems, all at full health
func SynthesizeSystems(stationType string) []target.SubTarget {
	names := append([]string{}, stationBase...)
	names = append(names, stationExtras[stationType]...)
	out := make([]target.SubTarget, 0, len(names))
	for _, n := range names {
		out = append(out, target.SubTarget{
			System:      n,
			DisplayName: displayName(n),
			Health:      1,
			Priority:    Priority(n),
		})
	}
	return out
}

// LiveSystems lists a ship's systems with health above zero
func LiveSystems(s *ship.Ship) []target.SubTarget {
	var out []target.SubTarget
	for _, sys := range s.Systems() {
		if sys.Health() <= 0 {
			continue
		}
		out = append(out, target.SubTarget{
			System:      sys.Name(),
			DisplayName: sys.DisplayName(),
			Health:      sys.HealthPercentage(),
			Priority:    Priority(sys.Name()),
		})
	}
	return out
}

// sortByPriority orders highest priority first, ties by name
func sortByPriority(subs []target.SubTarget) {
	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].Priority != subs[j].Priority {
			return subs[i].Priority > subs[j].Priority
		}
		return subs[i].System < subs[j].System
	})
}

func displayName(system string) string {
	parts := strings.Split(system, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
