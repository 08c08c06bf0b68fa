package hud

import (
	"github.com/lixenwraith/void-fighter/effects"
	"github.com/lixenwraith/void-fighter/engine"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/targetcomp"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Mark is a projected scope symbol
type Mark struct {
	X, Y   int
	Rune   rune
	Label  string
	Locked bool
}

// WeaponView is one slot of the weapon strip
type WeaponView struct {
	Slot        int
	Name        string
	CooldownPct float64
	Active      bool
}

// View is everything the terminal draws for one frame, captured under the
// world lock so the draw itself never touches simulation state
type View struct {
	Width, Height int

	Marks []Mark

	Alive     bool
	Hull      float64
	MaxHull   float64
	Shield    float64
	Energy    float64
	MaxEnergy float64
	Autofire  bool
	Paused    bool
	Weapons   []WeaponView

	Target    string
	TargetKm  float64
	Locked    bool
	SubTarget string
	SubHealth float64
}

// Capture snapshots game state for a w×h scope
func Capture(game *engine.GameContext, fx *effects.Manager, w, h int) View {
	v := View{Width: w, Height: h, Paused: game.Clock.IsPaused()}
	scopeH := h - parameter.HUDStatusLines
	aspect := 1.0
	if scopeH > 0 {
		aspect = float64(w) / float64(2*scopeH)
	}
	project := func(p vmath.Vec3) (int, int, bool) {
		x, y, ok := game.Camera.Project(p, aspect)
		if !ok || x < -1 || x > 1 || y < -1 || y > 1 {
			return 0, 0, false
		}
		return int((x + 1) / 2 * float64(w-1)), int((1 - y) / 2 * float64(scopeH-1)), true
	}

	game.World.RunSafe(func() {
		var locked *target.Target
		if s, ws, ok := game.World.Player(); ok {
			v.Alive = !s.IsDestroyed()
			v.Hull, v.MaxHull = s.Hull(), s.MaxHull()
			v.Energy, v.MaxEnergy = s.Energy(), s.MaxEnergy()
			v.Shield = s.ShieldHP()
			if ws != nil {
				v.Autofire = ws.Autofire()
				locked = ws.LockedTarget()
				for i := 0; i < ws.SlotCount(); i++ {
					sl := ws.Slot(i)
					if sl.IsEmpty() {
						continue
					}
					v.Weapons = append(v.Weapons, WeaponView{
						Slot:        i + 1,
						Name:        sl.Weapon().Name(),
						CooldownPct: sl.CooldownPercentage(),
						Active:      i == ws.ActiveIndex(),
					})
				}
			}
			if sys, ok := s.System(targetcomp.SystemName); ok {
				if tc, ok := sys.(*targetcomp.TargetComputer); ok && tc.IsActive() {
					if t := tc.CurrentTarget(); t != nil {
						v.Target = t.Name
						v.TargetKm = vmath.Distance(s.Position, t.Position)
						v.Locked = tc.IsLocked()
					}
					if sub := tc.CurrentSubTarget(); sub != nil {
						v.SubTarget, v.SubHealth = sub.DisplayName, sub.Health
					}
				}
			}
		}

		for _, c := range game.World.Celestials.Values() {
			if x, y, ok := project(c.Position); ok {
				v.Marks = append(v.Marks, Mark{X: x, Y: y, Rune: 'O', Label: c.Name})
			}
		}
		for _, t := range game.World.Targets() {
			if x, y, ok := project(t.Position); ok {
				lk := locked.SameAs(&t)
				r := 'x'
				if lk {
					r = parameter.LockRune
				}
				v.Marks = append(v.Marks, Mark{X: x, Y: y, Rune: r, Label: t.Name, Locked: lk})
			}
		}
		if fx == nil {
			return
		}
		frame := fx.Snapshot()
		for _, tr := range frame.Trails {
			if x, y, ok := project(tr.Position); ok {
				v.Marks = append(v.Marks, Mark{X: x, Y: y, Rune: '·'})
			}
		}
		for _, e := range frame.Visuals {
			r := '-'
			p := e.To
			if e.Kind == effects.KindExplosion {
				r, p = '*', e.From
			}
			if x, y, ok := project(p); ok {
				v.Marks = append(v.Marks, Mark{X: x, Y: y, Rune: r})
			}
		}
	})
	return v
}
