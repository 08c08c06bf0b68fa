package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/void-fighter/card"
	"github.com/lixenwraith/void-fighter/config"
	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/loadout"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/vmath"
)

var (
	ErrUnknownShip = errors.New("engine: unknown ship type")
	ErrNotShip     = errors.New("engine: entity is not a ship")
)

// SpawnShip creates a ship from its template, installs the template's cards,
// reconciles its systems and registers a physics body
// The targeting cache is dropped so the ship is acquirable in the same frame
// name overrides the template name when non-empty
func (ctx *GameContext) SpawnShip(typeID, name string, pos vmath.Vec3) (*ship.Ship, error) {
	sc, ok := ctx.Config.Ship(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShip, typeID)
	}
	tpl := ship.TemplateFromConfig(sc)
	if name != "" {
		tpl.Name = name
	}

	id := ctx.World.CreateEntity()
	s := ship.New(id, tpl, ctx.Events, vmath.NewFastRand(ctx.seed^(uint64(id)*0x9E3779B97F4A7C15)))
	s.Position = pos
	for _, c := range card.SliceFromConfig(sc.Cards) {
		if err := s.Cards.Install(c); err != nil {
			return nil, fmt.Errorf("ship %s card %s: %w", typeID, c, err)
		}
	}
	if _, err := ctx.Reconciler.Reconcile(s); err != nil {
		ctx.Log.Warn().Err(err).Str("ship", s.Name).Msg("partial system reconcile")
	}

	ctx.World.Ships.Set(id, s)
	if err := ctx.attachBody(s); err != nil {
		ctx.World.Destroy(id)
		return nil, err
	}
	ctx.Targeting.ClearCache()
	ctx.Log.Debug().Uint64("entity", uint64(id)).Str("type", typeID).Str("name", s.Name).Msg("ship spawned")
	return s, nil
}

// attachBody registers a dynamic sphere; without a ready engine a static
// body keeps the ship raycastable
func (ctx *GameContext) attachBody(s *ship.Ship) error {
	cfg := physics.BodyConfig{
		Mass:     physics.VolumeMass(s.RadiusM / vmath.MetersPerUnit),
		RadiusM:  s.RadiusM,
		Position: s.Position,
		Velocity: s.Velocity,
		Record: physics.EntityRecord{
			Entity: s.ID,
			Kind:   s.Kind,
			Ship:   s.ID,
			Name:   s.Name,
			TypeID: s.TypeID,
			Health: s.Hull(),
		},
	}
	body, err := ctx.Physics.CreateRigidBody(cfg)
	if errors.Is(err, physics.ErrNotReady) {
		cfg.Mass = 0
		body, err = ctx.Physics.CreateRigidBody(cfg)
	}
	if err != nil {
		return fmt.Errorf("ship %s body: %w", s.Name, err)
	}
	ctx.World.Bodies.Set(s.ID, body)
	return nil
}

// SpawnPlayer creates the player ship with the given installed cards, builds
// its weapon system and attaches the camera to it
func (ctx *GameContext) SpawnPlayer(typeID string, installed []card.Card, pos vmath.Vec3) (*ship.Ship, error) {
	s, err := ctx.SpawnShip(typeID, "", pos)
	if err != nil {
		return nil, err
	}
	s.Kind = core.KindPlayerShip
	for _, c := range installed {
		if err := s.Cards.Install(c); err != nil {
			return nil, fmt.Errorf("player card %s: %w", c, err)
		}
	}
	ctx.World.SetPlayer(s.ID)
	if _, err := ctx.Refit(s.ID); err != nil {
		ctx.Log.Warn().Err(err).Msg("partial player refit")
	}

	id := s.ID
	ctx.Camera.Follow(func() (vmath.Vec3, bool) {
		p, ok := ctx.World.Ship(id)
		if !ok {
			return vmath.Vec3{}, false
		}
		return p.Position, true
	})
	ctx.Log.Info().Str("ship", s.Name).Int("cards", s.Cards.Len()).Msg("player spawned")
	return s, nil
}

// Refit reconciles the systems of ship id against its cards; for the player
// the weapon system is rebuilt as well, carrying cooldowns and lock over
func (ctx *GameContext) Refit(id core.Entity) (loadout.Result, error) {
	s, ok := ctx.World.Ship(id)
	if !ok {
		return loadout.Result{}, fmt.Errorf("%w: %d", ErrNotShip, id)
	}
	res, err := ctx.Reconciler.Reconcile(s)
	if id != ctx.World.PlayerID() {
		return res, err
	}
	prev, _ := ctx.World.Weapons.Get(id)
	ctx.World.Weapons.Set(id, ctx.Weapons.Reconcile(s, prev, ctx.Starter, ctx.Inventory))
	return res, err
}

// InstallCard places c on ship id and queues a card-change event
// The refit happens when the event is dispatched at the start of the next tick
func (ctx *GameContext) InstallCard(id core.Entity, c card.Card) error {
	s, ok := ctx.World.Ship(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotShip, id)
	}
	if err := s.Cards.Install(c); err != nil {
		return err
	}
	ctx.Events.Emit(event.EventCardsChanged, &event.CardsChangedPayload{Ship: id})
	return nil
}

// RemoveCard clears slotID on ship id; false when the slot was empty
func (ctx *GameContext) RemoveCard(id core.Entity, slotID string) bool {
	s, ok := ctx.World.Ship(id)
	if !ok || !s.Cards.Remove(slotID) {
		return false
	}
	ctx.Events.Emit(event.EventCardsChanged, &event.CardsChangedPayload{Ship: id})
	return true
}

// SpawnCelestial places a static, untargetable body
func (ctx *GameContext) SpawnCelestial(cc config.CelestialConfig) (Celestial, error) {
	kind := core.ParseKind(cc.Kind)
	if !kind.IsCelestial() {
		return Celestial{}, fmt.Errorf("engine: %q is not a celestial kind", cc.Kind)
	}
	id := ctx.World.CreateEntity()
	c := Celestial{
		ID:       id,
		Name:     cc.Name,
		Kind:     kind,
		Position: vmath.Vec3{X: cc.Position[0], Y: cc.Position[1], Z: cc.Position[2]},
		RadiusM:  cc.RadiusKm * vmath.MetersPerUnit,
	}
	body, err := ctx.Physics.CreateRigidBody(physics.BodyConfig{
		RadiusM:  c.RadiusM,
		Position: c.Position,
		Record:   physics.EntityRecord{Entity: id, Kind: kind, Name: c.Name},
	})
	if err != nil {
		return Celestial{}, fmt.Errorf("celestial %s body: %w", cc.Name, err)
	}
	ctx.World.Celestials.Set(id, c)
	ctx.World.Bodies.Set(id, body)
	ctx.Targeting.ClearCache()
	return c, nil
}

// Despawn releases the physics body and every arena entry of e
// The targeting cache is dropped so no result references a dead entity
func (ctx *GameContext) Despawn(e core.Entity) {
	if body, ok := ctx.World.Bodies.Get(e); ok {
		ctx.Physics.RemoveRigidBody(body)
	}
	ctx.World.Destroy(e)
	ctx.Targeting.ClearCache()
}

// SetupSandbox populates the world from the sandbox section: loadout sources,
// player, enemies and celestial bodies
func (ctx *GameContext) SetupSandbox() error {
	sb := ctx.Config.Sandbox
	ctx.Starter = card.SliceFromConfig(sb.Starter)
	ctx.Inventory = card.SliceFromConfig(sb.Stock)

	if _, err := ctx.SpawnPlayer(sb.PlayerShip, card.SliceFromConfig(sb.Loadout), vmath.Vec3{}); err != nil {
		return fmt.Errorf("sandbox player: %w", err)
	}

	var errs []error
	for _, e := range sb.Enemies {
		pos := vmath.Vec3{X: e.Position[0], Y: e.Position[1], Z: e.Position[2]}
		if _, err := ctx.SpawnShip(e.Ship, e.Name, pos); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range sb.Celestials {
		if _, err := ctx.SpawnCelestial(c); err != nil {
			errs = append(errs, err)
		}
	}
	ctx.Log.Info().
		Int("ships", ctx.World.Ships.Count()).
		Int("celestials", ctx.World.Celestials.Count()).
		Msg("sandbox ready")
	return errors.Join(errs...)
}
