package weapon

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/targeting"
)

var (
	ErrSlotIndex = errors.New("weapon: slot index out of range")
	ErrNilWeapon = errors.New("weapon: nil weapon")
)

const messageDuration = 2 * time.Second

// System is the ordered slot container of one ship
// Single-threaded; one update per tick, fires are synchronous
type System struct {
	owner *ship.Ship
	env   *Env
	log   zerolog.Logger

	slots    []*Slot
	active   int // -1 when nothing is equipped
	equipped int
	autofire bool
	locked   *target.Target
}

// NewSystem creates slotCount empty slots firing from owner
func NewSystem(owner *ship.Ship, slotCount int, env Env) *System {
	env.fill()
	ws := &System{
		owner:  owner,
		env:    &env,
		log:    env.Log.With().Str("component", "weapons").Logger(),
		active: -1,
	}
	m := newMeters(env.Status)
	ws.slots = make([]*Slot, slotCount)
	for i := range ws.slots {
		ws.slots[i] = &Slot{index: i, env: ws.env, meters: m, log: ws.log}
	}
	return ws
}

func (ws *System) Owner() *ship.Ship { return ws.owner }
func (ws *System) SlotCount() int { return len(ws.slots) }
func (ws *System) EquippedCount() int { return ws.equipped }
func (ws *System) ActiveIndex() int { return ws.active }
func (ws *System) Autofire() bool { return ws.autofire }

// Slot returns slot i, nil when out of range
func (ws *System) Slot(i int) *Slot {
	if i < 0 || i >= len(ws.slots) {
		return nil
	}
	return ws.slots[i]
}

// ActiveSlot returns the selected slot, nil when nothing is equipped
func (ws *System) ActiveSlot() *Slot {
	return ws.Slot(ws.active)
}

// Weapons returns equipped weapons keyed by slot index
func (ws *System) Weapons() map[int]*Weapon {
	out := make(map[int]*Weapon, ws.equipped)
	for _, sl := range ws.slots {
		if sl.weapon != nil {
			out[sl.index] = sl.weapon
		}
	}
	return out
}

// Equip loads w into slot i, replacing any weapon there with a fresh cooldown
func (ws *System) Equip(i int, w *Weapon) error {
	if i < 0 || i >= len(ws.slots) {
		return fmt.Errorf("%w: %d", ErrSlotIndex, i)
	}
	if w == nil {
		return ErrNilWeapon
	}
	sl := ws.slots[i]
	if sl.weapon == nil {
		ws.equipped++
	}
	sl.load(w)
	if ws.active < 0 {
		ws.active = i
	}
	ws.log.Debug().Int("slot", i).Str("weapon", w.String()).Msg("equipped")
	return nil
}

// Unequip empties slot i and returns the removed weapon
// When the active slot empties the cursor moves to the next equipped slot
func (ws *System) Unequip(i int) (*Weapon, error) {
	if i < 0 || i >= len(ws.slots) {
		return nil, fmt.Errorf("%w: %d", ErrSlotIndex, i)
	}
	sl := ws.slots[i]
	w := sl.weapon
	if w == nil {
		return nil, nil
	}
	sl.load(nil)
	ws.equipped--
	if ws.active == i {
		ws.active = ws.scan(i, 1)
	}
	ws.log.Debug().Int("slot", i).Str("weapon", w.String()).Msg("unequipped")
	return w, nil
}

// scan returns the next equipped slot after from in direction step, -1 when none
func (ws *System) scan(from, step int) int {
	n := len(ws.slots)
	for k := 1; k <= n; k++ {
		i := ((from+step*k)%n + n) % n
		if ws.slots[i].weapon != nil {
			return i
		}
	}
	return -1
}

func (ws *System) SelectNext() bool {
	return ws.selectStep(1)
}

func (ws *System) SelectPrevious() bool {
	return ws.selectStep(-1)
}

func (ws *System) selectStep(step int) bool {
	if ws.equipped == 0 {
		return false
	}
	from := ws.active
	if from < 0 {
		from = 0
	}
	next := ws.scan(from, step)
	if next < 0 {
		return false
	}
	ws.active = next
	w := ws.slots[next].weapon
	ws.env.HUD.ShowMessage(fmt.Sprintf("Weapon %d: %s", next+1, w.Name()), messageDuration)
	return true
}

// ToggleAutofire flips autofire and reports the new state
func (ws *System) ToggleAutofire() bool {
	ws.autofire = !ws.autofire
	state := "OFF"
	if ws.autofire {
		state = "ON"
	}
	ws.env.HUD.ShowMessage("Autofire "+state, messageDuration)
	return ws.autofire
}

// SetLockedTarget sets the target shared by every slot; nil clears it
func (ws *System) SetLockedTarget(t *target.Target) {
	ws.locked = t.Clone()
}

// LockedTarget returns a copy of the shared locked target
func (ws *System) LockedTarget() *target.Target {
	ws.refreshLocked()
	return ws.locked.Clone()
}

// refreshLocked drops a locked target whose ship is gone
func (ws *System) refreshLocked() {
	if ws.locked == nil || ws.locked.Ship == 0 || ws.env.Ships == nil {
		return
	}
	sh, ok := ws.env.Ships.Ship(ws.locked.Ship)
	if !ok || sh.IsDestroyed() {
		ws.locked = nil
		return
	}
	ws.locked.Position = sh.Position
}

// FireActive fires the selected slot at the locked target or, failing that,
// whatever the targeting service finds under the crosshair
func (ws *System) FireActive() FireResult {
	if ws.equipped == 0 {
		ws.env.HUD.ShowMessage("No weapons equipped", messageDuration)
		return FireResult{Slot: -1, Reason: ReasonNoWeapons}
	}
	sl := ws.ActiveSlot()
	if sl == nil || sl.weapon == nil {
		ws.env.HUD.ShowMessage("Empty weapon slot", messageDuration)
		return FireResult{Slot: ws.active, Reason: ReasonEmptySlot}
	}
	w := sl.weapon
	if sl.cooldown > 0 {
		ws.env.HUD.ShowCooldownMessage(w.Name(), sl.cooldown.Seconds())
		return FireResult{Slot: sl.index, Weapon: w.Name(), Reason: ReasonCooldown, CooldownRemaining: sl.cooldown}
	}

	res := sl.Fire(ws.owner, ws.targetFor(w))
	if res.Reason == ReasonLockRequired {
		ws.env.HUD.ShowMessage(w.Name()+": target lock required", messageDuration)
	}
	return res
}

func (ws *System) targetFor(w *Weapon) *target.Target {
	ws.refreshLocked()
	if ws.locked != nil {
		return ws.locked.Clone()
	}
	if ws.env.Targeting == nil {
		return nil
	}
	r := ws.env.Targeting.CurrentTarget(targeting.Request{
		Camera:         ws.env.Camera,
		WeaponRangeM:   w.RangeM(),
		RequestedBy:    w.ID(),
		Homing:         w.Homing(),
		EnableFallback: true,
	})
	if !r.HasTarget {
		return nil
	}
	return r.Target
}

// UpdateCooldowns advances every slot timer
func (ws *System) UpdateCooldowns(dt time.Duration) {
	for _, sl := range ws.slots {
		sl.UpdateCooldown(dt)
	}
}

// DispatchAutofire fires every ready autofire slot
// Lock-required weapons fire only at the shared locked target; others
// fall back to the crosshair and hold fire when nothing is there
func (ws *System) DispatchAutofire() []FireResult {
	if !ws.autofire || ws.owner == nil || ws.owner.IsDestroyed() {
		return nil
	}
	ws.refreshLocked()
	var out []FireResult
	for _, sl := range ws.slots {
		w := sl.weapon
		if w == nil || !w.Autofire() || !sl.CanFire() {
			continue
		}
		var tgt *target.Target
		if w.LockRequired() {
			if ws.locked == nil {
				continue
			}
			tgt = ws.locked.Clone()
		} else {
			tgt = ws.targetFor(w)
		}
		if tgt == nil {
			continue
		}
		out = append(out, sl.Fire(ws.owner, tgt))
	}
	return out
}

// UpdateAutofire advances cooldowns then dispatches autofire
func (ws *System) UpdateAutofire(dt time.Duration) []FireResult {
	ws.UpdateCooldowns(dt)
	return ws.DispatchAutofire()
}

// Adopt carries player-facing state over from the system this one replaces:
// autofire, the locked target, the selected slot when it still holds a weapon,
// and the cooldown of every slot whose weapon id and level are unchanged
func (ws *System) Adopt(prev *System) {
	if prev == nil {
		return
	}
	ws.autofire = prev.autofire
	ws.locked = prev.locked.Clone()
	if sl := ws.Slot(prev.active); sl != nil && sl.weapon != nil {
		ws.active = prev.active
	}
	for i, sl := range ws.slots {
		old := prev.Slot(i)
		if old == nil || old.weapon == nil || sl.weapon == nil {
			continue
		}
		if old.weapon.ID() == sl.weapon.ID() && old.weapon.Level() == sl.weapon.Level() {
			sl.cooldown = old.cooldown
		}
	}
}
