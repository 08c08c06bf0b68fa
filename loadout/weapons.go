package loadout

import (
	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/card"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/targetcomp"
	"github.com/lixenwraith/void-fighter/weapon"
)

// Source is one weapon card origin, listed in priority order
type Source uint8

const (
	SourceInstalled Source = iota
	SourceStarter
	SourceLegacy
	SourceInventory
)

func (s Source) String() string {
	switch s {
	case SourceInstalled:
		return "installed"
	case SourceStarter:
		return "starter"
	case SourceLegacy:
		return "legacy"
	}
	return "inventory"
}

type weaponKey struct {
	typ   card.Type
	level int
}

// WeaponReconciler rebuilds a ship's weapon system from its card sources
type WeaponReconciler struct {
	catalog *weapon.Catalog
	env     weapon.Env
	legacy  map[string]card.Type
	log     zerolog.Logger
}

func NewWeaponReconciler(catalog *weapon.Catalog, env weapon.Env, log zerolog.Logger) *WeaponReconciler {
	return &WeaponReconciler{
		catalog: catalog,
		env:     env,
		legacy:  make(map[string]card.Type),
		log:     log.With().Str("component", "weapon_reconciler").Logger(),
	}
}

// MapLegacy treats a ship system named system as a weapon of type t at the system's level
func (wr *WeaponReconciler) MapLegacy(system string, t card.Type) {
	wr.legacy[system] = t
}

// Gather unions the sources: installed cards, starter cards when nothing is
// installed, legacy ship systems, then inventory. Duplicates inside one source
// are kept; a (type, level) pair already supplied by an earlier source is dropped
func (wr *WeaponReconciler) Gather(s *ship.Ship, starter, inventory card.Inventory) []card.Card {
	var installed []card.Card
	if s.Cards != nil {
		installed = s.Cards.Cards()
	}

	sources := [][]card.Card{
		SourceInstalled: installed,
		SourceLegacy:    wr.legacyCards(s),
	}
	if len(installed) == 0 && starter != nil {
		sources[SourceStarter] = starter.Cards()
	}
	if inventory != nil {
		sources = append(sources, inventory.Cards())
	}

	seen := make(map[weaponKey]bool)
	var out []card.Card
	for src, cards := range sources {
		fresh := make(map[weaponKey]bool)
		for _, c := range cards {
			if !wr.usable(c) {
				continue
			}
			k := weaponKey{c.Type, max(c.Level, 1)}
			if seen[k] {
				wr.log.Debug().Str("card", c.String()).Str("source", Source(src).String()).Msg("duplicate weapon dropped")
				continue
			}
			fresh[k] = true
			out = append(out, c)
		}
		for k := range fresh {
			seen[k] = true
		}
	}
	return out
}

func (wr *WeaponReconciler) usable(c card.Card) bool {
	if !card.IsWeapon(c.Type) {
		return false
	}
	if _, ok := wr.catalog.Get(string(c.Type)); !ok {
		wr.log.Warn().Str("card", string(c.Type)).Msg("weapon card without definition")
		return false
	}
	return true
}

func (wr *WeaponReconciler) legacyCards(s *ship.Ship) []card.Card {
	var out []card.Card
	for _, sys := range s.Systems() {
		if t, ok := wr.legacy[sys.Name()]; ok {
			out = append(out, card.Card{SlotID: "legacy:" + sys.Name(), Type: t, Level: sys.Level()})
		}
	}
	return out
}

// Reconcile builds a weapon system sized max(count, 1), equips weapons in
// source order, carries state over from prev and relinks the target computer's
// current target as the locked target
func (wr *WeaponReconciler) Reconcile(s *ship.Ship, prev *weapon.System, starter, inventory card.Inventory) *weapon.System {
	cards := wr.Gather(s, starter, inventory)
	ws := weapon.NewSystem(s, max(len(cards), 1), wr.env)
	for i, c := range cards {
		def, _ := wr.catalog.Get(string(c.Type))
		if err := ws.Equip(i, weapon.New(def, c.Level)); err != nil {
			wr.log.Warn().Err(err).Int("slot", i).Msg("equip failed")
		}
	}
	ws.Adopt(prev)

	if sys, ok := s.System(targetcomp.SystemName); ok {
		if tc, ok := sys.(*targetcomp.TargetComputer); ok && tc.CurrentTarget() != nil {
			ws.SetLockedTarget(tc.CurrentTarget())
		}
	}
	wr.log.Debug().Str("ship", s.Name).Int("weapons", ws.EquippedCount()).Msg("weapons reconciled")
	return ws
}
