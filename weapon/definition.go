// Package weapon implements weapon definitions, slots and the per-ship weapon system
package weapon

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/void-fighter/card"
	"github.com/lixenwraith/void-fighter/config"
)

var ErrInvalidDefinition = errors.New("weapon: invalid definition")

// Kind is the resolution model of a weapon
type Kind uint8

const (
	KindScanHit Kind = iota // Resolved instantly by raycast
	KindSplash              // Launches a projectile
)

func (k Kind) String() string {
	if k == KindSplash {
		return config.KindSplash
	}
	return config.KindScanHit
}

// ParseKind maps a catalog string to a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case config.KindScanHit:
		return KindScanHit, nil
	case config.KindSplash:
		return KindSplash, nil
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidDefinition, s)
}

// Definition is the static data of one weapon type
type Definition struct {
	ID           string
	Name         string
	Kind         Kind
	Damage       float64
	Cooldown     time.Duration
	RangeM       float64
	EnergyCost   float64
	Accuracy     float64
	Autofire     bool
	LockRequired bool
	Homing       bool
	BlastRadiusM float64 // 0 for direct hit
	FlightRangeM float64
	TurnRateDeg  float64
	SpeedMS      float64 // 0 selects the projectile default
}

// Validate enforces catalog invariants
func (d Definition) Validate() error {
	switch {
	case d.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	case d.Cooldown <= 0:
		return fmt.Errorf("%w: %s cooldown must be positive", ErrInvalidDefinition, d.ID)
	case d.RangeM <= 0:
		return fmt.Errorf("%w: %s range must be positive", ErrInvalidDefinition, d.ID)
	case d.Damage < 0 || d.EnergyCost < 0:
		return fmt.Errorf("%w: %s negative damage or cost", ErrInvalidDefinition, d.ID)
	case d.Kind == KindSplash && d.Homing && !d.LockRequired:
		return fmt.Errorf("%w: %s homing splash weapon must require lock", ErrInvalidDefinition, d.ID)
	}
	return nil
}

// Catalog indexes definitions by weapon id (the card type)
type Catalog struct {
	defs  map[string]Definition
	order []string
}

func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.defs[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidDefinition, d.ID)
		}
		if d.Name == "" {
			d.Name = d.ID
		}
		c.defs[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	return c, nil
}

// CatalogFromConfig builds the catalog and registers every id as a weapon card type
func CatalogFromConfig(entries []config.WeaponConfig) (*Catalog, error) {
	defs := make([]Definition, 0, len(entries))
	for _, e := range entries {
		kind, err := ParseKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.ID, err)
		}
		defs = append(defs, Definition{
			ID:           e.ID,
			Name:         e.Name,
			Kind:         kind,
			Damage:       e.Damage,
			Cooldown:     e.Cooldown(),
			RangeM:       e.RangeM,
			EnergyCost:   e.EnergyCost,
			Accuracy:     e.Accuracy,
			Autofire:     e.Autofire,
			LockRequired: e.LockRequired,
			Homing:       e.Homing,
			BlastRadiusM: e.BlastRadiusM,
			FlightRangeM: e.FlightRangeM,
			TurnRateDeg:  e.TurnRateDeg,
			SpeedMS:      e.SpeedMS,
		})
	}
	c, err := NewCatalog(defs...)
	if err != nil {
		return nil, err
	}
	for _, id := range c.order {
		card.RegisterWeapon(card.Type(id))
	}
	return c, nil
}

func (c *Catalog) Get(id string) (Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// IDs returns weapon ids in catalog order
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
