package hud

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/effects"
	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Muter toggles sound output; implemented by audio.Player
type Muter interface {
	ToggleMute() bool
}

// Terminal is the interactive tcell front end
type Terminal struct {
	game  *engine.GameContext
	feed  *Feed
	fx    *effects.Manager
	muter Muter
	log   zerolog.Logger

	screen   tcell.Screen
	events   chan tcell.Event
	throttle float64

	stopOnce sync.Once
}

// NewTerminal builds the front end; fx and muter may be nil
func NewTerminal(game *engine.GameContext, feed *Feed, fx *effects.Manager, muter Muter, log zerolog.Logger) *Terminal {
	return &Terminal{
		game:   game,
		feed:   feed,
		fx:     fx,
		muter:  muter,
		log:    log.With().Str("component", "terminal").Logger(),
		events: make(chan tcell.Event, 100),
	}
}

func (t *Terminal) Name() string { return "terminal" }

// Start takes over the terminal
func (t *Terminal) Start() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	return t.attach(screen)
}

func (t *Terminal) attach(screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return err
	}
	screen.HideCursor()
	screen.Clear()
	t.screen = screen
	core.SetCrashReset(screen.Fini)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			t.events <- ev
		}
	})
	return nil
}

// Stop restores the terminal; idempotent
func (t *Terminal) Stop() error {
	t.stopOnce.Do(func() {
		if t.screen != nil {
			t.screen.Fini()
		}
	})
	return nil
}

// Run processes input and redraws until quit or ctx is done
func (t *Terminal) Run(ctx context.Context) error {
	ticker := time.NewTicker(parameter.RenderInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-t.events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !t.Handle(ActionFor(ev)) {
					return nil
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		case <-ticker.C:
			if t.throttle != 0 {
				t.game.Thrust(t.throttle, 0, 0)
			}
			w, h := t.screen.Size()
			t.Draw(Capture(t.game, t.fx, w, h))
		}
	}
}

// Handle executes a; false means quit
func (t *Terminal) Handle(a Action) bool {
	g := t.game
	turn := parameter.CameraTurnRate
	switch a {
	case ActionQuit:
		return false
	case ActionFire:
		if _, err := g.FireActive(); err != nil {
			t.feed.ShowMessage(err.Error(), 0)
		}
	case ActionNextWeapon:
		g.SelectWeapon(1)
	case ActionPrevWeapon:
		g.SelectWeapon(-1)
	case ActionAutofire:
		if _, err := g.ToggleAutofire(); err != nil {
			t.feed.ShowMessage(err.Error(), 0)
		}
	case ActionDesignate:
		g.DesignateTarget()
	case ActionClearTarget:
		g.ClearTarget()
	case ActionNextSub:
		g.CycleSubTarget(1)
	case ActionPrevSub:
		g.CycleSubTarget(-1)
	case ActionPause:
		if g.TogglePause() {
			t.feed.ShowMessage("PAUSED", 0)
		}
	case ActionMute:
		if t.muter != nil {
			if on := t.muter.ToggleMute(); on {
				t.feed.ShowMessage("Sound on", 0)
			} else {
				t.feed.ShowMessage("Sound off", 0)
			}
		}
	case ActionRepair:
		if err := g.RepairPlayer(parameter.FieldRepairFraction); err == nil {
			t.feed.ShowMessage("Field repair applied", 0)
		}
	case ActionYawLeft:
		g.Camera.Turn(turn, 0, 0)
	case ActionYawRight:
		g.Camera.Turn(-turn, 0, 0)
	case ActionPitchUp:
		g.Camera.Turn(0, turn, 0)
	case ActionPitchDown:
		g.Camera.Turn(0, -turn, 0)
	case ActionRollLeft:
		g.Camera.Turn(0, 0, -turn)
	case ActionRollRight:
		g.Camera.Turn(0, 0, turn)
	case ActionThrottleUp:
		t.setThrottle(t.throttle + parameter.ThrottleStep)
	case ActionThrottleDown:
		t.setThrottle(t.throttle - parameter.ThrottleStep)
	case ActionAllStop:
		t.setThrottle(0)
	}
	return true
}

func (t *Terminal) setThrottle(v float64) {
	t.throttle = vmath.Clamp(v, -1, 1)
	t.game.Thrust(t.throttle, 0, 0)
}

var (
	styleDefault = tcell.StyleDefault
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLock    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleActive  = tcell.StyleDefault.Reverse(true)
	styleWarn    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHit     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleKill    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

func toneStyle(m Message) tcell.Style {
	if m.FG != "" {
		st := styleDefault.Foreground(tcell.GetColor(m.FG))
		if m.BG != "" {
			st = st.Background(tcell.GetColor(m.BG))
		}
		return st
	}
	switch m.Tone {
	case ToneDamage:
		return styleHit
	case ToneDestroyed:
		return styleKill
	case ToneWarning:
		return styleWarn
	case ToneMiss:
		return styleDim
	}
	return styleDefault
}

// Draw renders v and the feed to the screen
func (t *Terminal) Draw(v View) {
	drawView(t.screen, v, t.feed.Active(parameter.FeedVisibleLines))
	t.screen.Show()
}

func drawView(s tcell.Screen, v View, msgs []Message) {
	s.Clear()
	w, h := v.Width, v.Height
	scopeH := h - parameter.HUDStatusLines
	if w <= 0 || scopeH <= 0 {
		return
	}

	for _, m := range v.Marks {
		st := styleDefault
		if m.Locked {
			st = styleLock
		}
		s.SetContent(m.X, m.Y, m.Rune, nil, st)
		if m.Label != "" {
			putString(s, m.X+2, m.Y, m.Label, styleDim)
		}
	}
	s.SetContent(w/2, scopeH/2, parameter.CrosshairRune, nil, styleDefault)

	for i, m := range msgs {
		putString(s, 1, i, m.Text, toneStyle(m))
	}

	y := scopeH
	if !v.Alive {
		putString(s, 1, y, "SHIP DESTROYED", styleKill)
		return
	}
	flags := ""
	if v.Autofire {
		flags += " [AUTO]"
	}
	if v.Paused {
		flags += " [PAUSED]"
	}
	putString(s, 1, y, fmt.Sprintf("HULL %s %.0f/%.0f  SHD %.0f  NRG %s %.0f/%.0f%s",
		bar(v.Hull, v.MaxHull, 10), v.Hull, v.MaxHull, v.Shield,
		bar(v.Energy, v.MaxEnergy, 10), v.Energy, v.MaxEnergy, flags), styleDefault)

	x := 1
	for _, wv := range v.Weapons {
		st := styleDefault
		if wv.Active {
			st = styleActive
		}
		label := fmt.Sprintf("%d %s", wv.Slot, wv.Name)
		if wv.CooldownPct > 0 {
			label += fmt.Sprintf(" %2.0f%%", wv.CooldownPct)
		}
		putString(s, x, y+1, fit(label, parameter.HUDWeaponColumnWidth-1), st)
		x += parameter.HUDWeaponColumnWidth
	}

	if v.Target != "" {
		state := "TRACK"
		if v.Locked {
			state = "LOCK"
		}
		line := fmt.Sprintf("%s %s %.1fkm", state, v.Target, v.TargetKm)
		if v.SubTarget != "" {
			line += fmt.Sprintf("  SUB %s %.0f%%", v.SubTarget, v.SubHealth*100)
		}
		putString(s, 1, y+2, line, styleDefault)
	}
}

func putString(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x++
	}
}

func fit(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s + strings.Repeat(" ", n-len(r))
}

func bar(v, maxV float64, n int) string {
	if maxV <= 0 {
		return strings.Repeat("░", n)
	}
	filled := int(vmath.Clamp(v/maxV, 0, 1)*float64(n) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", n-filled)
}
