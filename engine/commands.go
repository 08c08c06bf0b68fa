package engine

import (
	"fmt"

	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/targetcomp"
	"github.com/lixenwraith/void-fighter/targeting"
	"github.com/lixenwraith/void-fighter/vmath"
	"github.com/lixenwraith/void-fighter/weapon"
)

// Player commands run under the world update lock so they never interleave
// with a tick

// FireActive fires the player's selected weapon slot
func (ctx *GameContext) FireActive() (res weapon.FireResult, err error) {
	ctx.World.RunSafe(func() {
		_, ws, ok := ctx.World.Player()
		if !ok || ws == nil {
			err = ErrNoPlayer
			return
		}
		res = ws.FireActive()
	})
	return res, err
}

// SelectWeapon moves the selection by step slots, skipping empty ones
func (ctx *GameContext) SelectWeapon(step int) bool {
	var moved bool
	ctx.World.RunSafe(func() {
		if _, ws, ok := ctx.World.Player(); ok && ws != nil {
			if step < 0 {
				moved = ws.SelectPrevious()
			} else {
				moved = ws.SelectNext()
			}
		}
	})
	return moved
}

// ToggleAutofire flips autofire; returns the new state
func (ctx *GameContext) ToggleAutofire() (on bool, err error) {
	ctx.World.RunSafe(func() {
		_, ws, ok := ctx.World.Player()
		if !ok || ws == nil {
			err = ErrNoPlayer
			return
		}
		on = ws.ToggleAutofire()
	})
	return on, err
}

// playerComputer returns the player's target computer, powering it up on demand
func (ctx *GameContext) playerComputer() (*ship.Ship, *targetcomp.TargetComputer, error) {
	s, _, ok := ctx.World.Player()
	if !ok {
		return nil, nil, ErrNoPlayer
	}
	sys, ok := s.System(targetcomp.SystemName)
	if !ok {
		return s, nil, fmt.Errorf("engine: %s not installed", targetcomp.SystemName)
	}
	tc, ok := sys.(*targetcomp.TargetComputer)
	if !ok {
		return s, nil, fmt.Errorf("engine: %s has unexpected type %T", targetcomp.SystemName, sys)
	}
	if !tc.IsActive() && !tc.Activate(s) {
		return s, nil, fmt.Errorf("engine: %s cannot activate", targetcomp.SystemName)
	}
	return s, tc, nil
}

// DesignateTarget hands whatever is under the crosshair to the target
// computer and attempts a lock
func (ctx *GameContext) DesignateTarget() (tgt *target.Target, locked bool, err error) {
	ctx.World.RunSafe(func() {
		var tc *targetcomp.TargetComputer
		if _, tc, err = ctx.playerComputer(); err != nil {
			ctx.HUD.ShowMessage("Target computer offline", parameter.DefaultMessageDuration)
			return
		}
		r := ctx.Targeting.CurrentTarget(targeting.Request{
			Camera:         ctx.Camera,
			WeaponRangeM:   tc.RangeM(),
			RequestedBy:    targetcomp.SystemName,
			EnableFallback: true,
		})
		if !r.HasTarget {
			ctx.HUD.ShowMessage("No target under crosshair", parameter.DefaultMessageDuration)
			return
		}
		tc.SetTarget(r.Target)
		locked = tc.LockTarget()
		tgt = tc.CurrentTarget()
		if _, ws, ok := ctx.World.Player(); ok && ws != nil {
			ws.SetLockedTarget(tgt)
		}
		if locked {
			ctx.HUD.ShowMessage("Locked: "+tgt.Name, parameter.DefaultMessageDuration)
		} else {
			ctx.HUD.ShowMessage("Tracking: "+tgt.Name, parameter.DefaultMessageDuration)
		}
	})
	return tgt, locked, err
}

// ClearTarget drops the computer's target and the weapon lock
func (ctx *GameContext) ClearTarget() {
	ctx.World.RunSafe(func() {
		if _, tc, err := ctx.playerComputer(); err == nil {
			tc.ClearTarget()
		}
		if _, ws, ok := ctx.World.Player(); ok && ws != nil {
			ws.SetLockedTarget(nil)
		}
	})
}

// CycleSubTarget steps through the current target's components
func (ctx *GameContext) CycleSubTarget(step int) bool {
	var ok bool
	ctx.World.RunSafe(func() {
		_, tc, err := ctx.playerComputer()
		if err != nil {
			return
		}
		if step < 0 {
			ok = tc.CycleSubTargetPrevious()
		} else {
			ok = tc.CycleSubTargetNext()
		}
		if sub := tc.CurrentSubTarget(); ok && sub != nil {
			ctx.HUD.ShowMessage("Sub-target: "+sub.DisplayName, parameter.DefaultMessageDuration)
		}
	})
	return ok
}

// Thrust sets the player's velocity to throttle × engine speed along the
// camera axes; throttle components are clamped to [-1, 1]
func (ctx *GameContext) Thrust(forward, right, up float64) {
	ctx.World.RunSafe(func() {
		s, _, ok := ctx.World.Player()
		if !ok {
			return
		}
		speed := 0.0
		for _, sys := range s.Systems() {
			if e, ok := sys.(*ship.Engines); ok {
				speed = max(speed, e.MaxSpeed())
			}
		}
		b := ctx.Camera.Basis()
		v := vmath.Add(
			vmath.Scale(b.Forward, vmath.Clamp(forward, -1, 1)),
			vmath.Add(vmath.Scale(b.Right, vmath.Clamp(right, -1, 1)), vmath.Scale(b.Up, vmath.Clamp(up, -1, 1))),
		)
		if m := vmath.Mag(v); m > 1 {
			v = vmath.Scale(v, 1/m)
		}
		s.Velocity = vmath.Scale(v, speed)
		if body, ok := ctx.World.Bodies.Get(s.ID); ok {
			ctx.Physics.SetBodyVelocity(body, s.Velocity)
		}
	})
}

// RepairPlayer restores fraction of every system's health on the player ship
func (ctx *GameContext) RepairPlayer(fraction float64) error {
	var err error
	ctx.World.RunSafe(func() {
		s, _, ok := ctx.World.Player()
		if !ok {
			err = ErrNoPlayer
			return
		}
		s.RepairAll(fraction)
	})
	return err
}
