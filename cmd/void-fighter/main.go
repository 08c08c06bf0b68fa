package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/audio"
	"github.com/lixenwraith/void-fighter/config"
	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/effects"
	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/hud"
	"github.com/lixenwraith/void-fighter/inspect"
	"github.com/lixenwraith/void-fighter/logging"
	"github.com/lixenwraith/void-fighter/service"
	"github.com/lixenwraith/void-fighter/system"
	"github.com/lixenwraith/void-fighter/telemetry"
	"github.com/lixenwraith/void-fighter/vmath"
)

var (
	configFlag   = flag.String("config", "", "Path to a YAML config overlaying the built-in defaults")
	headlessFlag = flag.Bool("headless", false, "Run a scripted engagement without the terminal")
	ticksFlag    = flag.Int("ticks", 600, "Ticks to simulate in headless mode")
)

func main() {
	// Panic Recovery: restore the terminal before printing the trace
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "void-fighter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}

	// The terminal owns stdout while running; only headless runs log to console
	var console io.Writer
	if *headlessFlag {
		console = os.Stderr
	}
	root, err := logging.New(cfg.Log, console)
	if err != nil {
		return err
	}
	defer root.Close()

	clock := engine.NewGameClock(time.Unix(0, 0))
	feed := hud.NewFeed(clock)

	audioCfg := cfg.Audio
	if *headlessFlag {
		audioCfg.Enabled = false
	}
	sound := audio.New(audioCfg, root.Component("audio"))

	// The listener is read lazily; game is assigned before the first tick
	var game *engine.GameContext
	fx := effects.NewManager(clock, func() vmath.Vec3 { return game.Camera.Position() }, sound, root.Component("effects"))

	game, err = engine.NewGameContext(cfg, engine.Options{
		Log:     root.Component("engine"),
		Effects: fx,
		HUD:     feed,
		Clock:   clock,
	})
	if err != nil {
		return err
	}
	if err := game.SetupSandbox(); err != nil {
		game.Log.Warn().Err(err).Msg("sandbox partially populated")
	}

	combatLog, err := telemetry.OpenCombatLog(cfg.Telemetry.CombatLog)
	if err != nil {
		return err
	}
	if combatLog == nil && *headlessFlag {
		combatLog = telemetry.NewCombatLog(io.Discard)
	}
	defer combatLog.Close()
	set := system.Install(game, fx, combatLog)

	hub := service.NewHub()
	hub.Register(sound)
	if cfg.Inspect.Enabled {
		hub.Register(inspect.New(cfg.Inspect.Addr, game, feed, root.Component("inspect")))
	}

	if *headlessFlag {
		if err := hub.StartAll(); err != nil {
			return err
		}
		defer hub.StopAll()
		runHeadless(game, set, *ticksFlag, root.Component("headless"))
		return nil
	}

	term := hud.NewTerminal(game, feed, fx, sound, root.Component("terminal"))
	hub.Register(term)
	hub.Register(game.Scheduler)
	if err := hub.StartAll(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = term.Run(ctx)
	stopErr := hub.StopAll()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return errors.Join(err, stopErr)
}

// runHeadless designates the first target, enables autofire and steps the
// tick until the enemies are gone or ticks run out
func runHeadless(game *engine.GameContext, set *system.Set, ticks int, log zerolog.Logger) {
	if targets := game.World.Targets(); len(targets) > 0 {
		game.Camera.LookAt(targets[0].Position)
	}
	if tgt, locked, err := game.DesignateTarget(); err == nil && tgt != nil {
		log.Info().Str("target", tgt.Name).Bool("locked", locked).Msg("target designated")
	}
	if _, err := game.ToggleAutofire(); err != nil {
		log.Warn().Err(err).Msg("autofire unavailable")
	}

	step := 0
	for ; step < ticks; step++ {
		if step%10 == 0 {
			if res, err := game.FireActive(); err == nil && res.Fired {
				log.Debug().Str("weapon", res.Weapon).Bool("hit", res.Hit).Msg("fired")
			}
		}
		game.Scheduler.Step(game.Scheduler.Interval())
		if len(game.World.Targets()) == 0 {
			break
		}
	}

	sum := set.Telemetry.Summary()
	log.Info().
		Int("ticks", step).
		Dur("game_time", game.Clock.Elapsed()).
		Int("hits", sum.Hits).
		Int("kills", sum.Kills).
		Float64("damage", sum.TotalDamage).
		Float64("max_hit", sum.MaxDamage).
		Int("ships_left", game.World.Ships.Count()).
		Msg("engagement finished")
}
