package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/camera"
	"github.com/lixenwraith/void-fighter/card"
	"github.com/lixenwraith/void-fighter/config"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/loadout"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/physics/simworld"
	"github.com/lixenwraith/void-fighter/projectile"
	"github.com/lixenwraith/void-fighter/service"
	"github.com/lixenwraith/void-fighter/status"
	"github.com/lixenwraith/void-fighter/targetcomp"
	"github.com/lixenwraith/void-fighter/targeting"
	"github.com/lixenwraith/void-fighter/vmath"
	"github.com/lixenwraith/void-fighter/weapon"
)

var ErrNoPlayer = errors.New("engine: no player ship")

// Options are the collaborators supplied by the host; nil fields get defaults
type Options struct {
	Log     zerolog.Logger
	Status  *status.Registry
	Physics physics.Engine
	Effects service.Effects
	HUD     service.HUD
	Clock   *GameClock
	Epoch   time.Time
}

// GameContext owns every long-lived handle of a session
// Handles are built once in NewGameContext and shared by reference; no globals
type GameContext struct {
	// ===== Immutable After Init =====

	Config *config.Config
	Log    zerolog.Logger
	Status *status.Registry

	Clock     *GameClock
	Events    *event.Queue
	Router    *event.Router
	World     *World
	Scheduler *Scheduler

	Physics     physics.Engine
	Camera      *camera.Cockpit
	Effects     service.Effects
	HUD         service.HUD
	Targeting   *targeting.Service
	Projectiles *projectile.Manager

	Catalog    *weapon.Catalog
	Reconciler *loadout.Reconciler
	Weapons    *loadout.WeaponReconciler

	// ===== Loadout Sources =====
	// Mutated only from the tick goroutine or under World.RunSafe

	Starter   card.Slice
	Inventory card.Slice

	seed uint64
}

// NewGameContext wires the combat core from cfg
func NewGameContext(cfg *config.Config, opts Options) (*GameContext, error) {
	if cfg == nil {
		return nil, errors.New("engine: nil config")
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}
	if opts.Physics == nil {
		opts.Physics = simworld.New(opts.Log)
	}
	if opts.Effects == nil {
		opts.Effects = service.NopEffects{}
	}
	if opts.HUD == nil {
		opts.HUD = service.NopHUD{}
	}
	if opts.Clock == nil {
		if opts.Epoch.IsZero() {
			opts.Epoch = time.Unix(0, 0)
		}
		opts.Clock = NewGameClock(opts.Epoch)
	}

	catalog, err := weapon.CatalogFromConfig(cfg.Weapons)
	if err != nil {
		return nil, fmt.Errorf("weapon catalog: %w", err)
	}

	ctx := &GameContext{
		Config:  cfg,
		Log:     opts.Log,
		Status:  opts.Status,
		Clock:   opts.Clock,
		Events:  event.NewQueue(),
		World:   NewWorld(),
		Physics: opts.Physics,
		Camera:  camera.New(vmath.Vec3{}),
		Effects: opts.Effects,
		HUD:     opts.HUD,
		Catalog: catalog,
		seed:    cfg.Sandbox.Seed,
	}
	ctx.Router = event.NewRouter(ctx.Events)
	ctx.Scheduler = NewScheduler(ctx.World, ctx.Clock, ctx.Router, 0, ctx.Status, ctx.Log)

	registry, err := loadout.RegistryFromConfig(cfg.Systems, targetcomp.SettingsFromConfig(cfg.TargetComputer), ctx.World)
	if err != nil {
		return nil, fmt.Errorf("system registry: %w", err)
	}
	ctx.Reconciler = loadout.NewReconciler(registry, ctx.Log)

	ctx.Targeting = targeting.NewService(ctx.Physics, ctx.World, ctx.Clock, targeting.OptionsFromConfig(cfg.Targeting), ctx.Status, ctx.Log)

	ctx.Projectiles = projectile.NewManager(projectile.Env{
		Clock:    ctx.Clock,
		Physics:  ctx.Physics,
		Effects:  ctx.Effects,
		HUD:      ctx.HUD,
		Ships:    ctx.World,
		Removals: ctx.World,
		Events:   ctx.Events,
		Status:   ctx.Status,
		Log:      ctx.Log,
	}, projectile.OptionsFromConfig(cfg.Projectile))

	ctx.Weapons = loadout.NewWeaponReconciler(catalog, ctx.WeaponEnv(), ctx.Log)
	for system, t := range cfg.Sandbox.LegacyWeapons {
		ctx.Weapons.MapLegacy(system, card.Type(t))
	}

	return ctx, nil
}

// WeaponEnv is the collaborator set handed to every weapon system
func (ctx *GameContext) WeaponEnv() weapon.Env {
	return weapon.Env{
		Clock:                   ctx.Clock,
		Camera:                  ctx.Camera,
		Physics:                 ctx.Physics,
		Targeting:               ctx.Targeting,
		Projectiles:             ctx.Projectiles,
		Effects:                 ctx.Effects,
		HUD:                     ctx.HUD,
		Ships:                   ctx.World,
		Removals:                ctx.World,
		Events:                  ctx.Events,
		Status:                  ctx.Status,
		Log:                     ctx.Log,
		FallbackHitRadiusFactor: ctx.Config.Targeting.FallbackHitRadiusFactor,
	}
}

// Start runs the real-time tick loop
func (ctx *GameContext) Start() error { return ctx.Scheduler.Start() }

// Stop halts the tick loop
func (ctx *GameContext) Stop() error { return ctx.Scheduler.Stop() }

// TogglePause flips the game clock; returns the new paused state
func (ctx *GameContext) TogglePause() bool {
	return ctx.Clock.TogglePause()
}
