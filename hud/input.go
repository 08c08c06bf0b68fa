package hud

import "github.com/gdamore/tcell/v2"

// Action is a player command bound to a key
type Action uint8

const (
	ActionNone Action = iota
	ActionQuit
	ActionFire
	ActionNextWeapon
	ActionPrevWeapon
	ActionAutofire
	ActionDesignate
	ActionClearTarget
	ActionNextSub
	ActionPrevSub
	ActionPause
	ActionMute
	ActionRepair
	ActionYawLeft
	ActionYawRight
	ActionPitchUp
	ActionPitchDown
	ActionRollLeft
	ActionRollRight
	ActionThrottleUp
	ActionThrottleDown
	ActionAllStop
)

var runeActions = map[rune]Action{
	' ': ActionFire,
	'f': ActionFire,
	'a': ActionAutofire,
	't': ActionDesignate,
	'c': ActionClearTarget,
	']': ActionNextSub,
	'[': ActionPrevSub,
	'p': ActionPause,
	'm': ActionMute,
	'r': ActionRepair,
	',': ActionRollLeft,
	'.': ActionRollRight,
	'w': ActionThrottleUp,
	's': ActionThrottleDown,
	'x': ActionAllStop,
	'Q': ActionQuit,
}

var keyActions = map[tcell.Key]Action{
	tcell.KeyEscape:  ActionQuit,
	tcell.KeyCtrlC:   ActionQuit,
	tcell.KeyTab:     ActionNextWeapon,
	tcell.KeyBacktab: ActionPrevWeapon,
	tcell.KeyLeft:    ActionYawLeft,
	tcell.KeyRight:   ActionYawRight,
	tcell.KeyUp:      ActionPitchUp,
	tcell.KeyDown:    ActionPitchDown,
}

// ActionFor maps a key event to its action
func ActionFor(ev *tcell.EventKey) Action {
	if ev.Key() == tcell.KeyRune {
		return runeActions[ev.Rune()]
	}
	return keyActions[ev.Key()]
}
