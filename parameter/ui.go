package parameter

import "time"

// HUD Feed
const (
	// FeedCapacity is the number of retained HUD messages
	FeedCapacity = 64

	// FeedVisibleLines is the number of message lines drawn by the terminal HUD
	FeedVisibleLines = 6

	// DefaultMessageDuration applies to feedback without an explicit lifetime
	DefaultMessageDuration = 2 * time.Second

	// CooldownMessageThrottle suppresses repeated cooldown notices per weapon
	CooldownMessageThrottle = 500 * time.Millisecond
)

// Terminal Layout
const (
	// HUDStatusLines is the height of the bottom status block
	HUDStatusLines = 3

	// HUDWeaponColumnWidth is the width of one weapon slot column
	HUDWeaponColumnWidth = 22

	// CrosshairRune marks the boresight
	CrosshairRune = '+'

	// LockRune marks the locked target on the scope
	LockRune = '◎'
)
