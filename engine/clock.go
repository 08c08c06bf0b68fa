package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// GameClock is simulated time advanced only by the tick loop
// Paused clocks ignore Advance, so game time never includes pauses
type GameClock struct {
	mu      sync.RWMutex
	now     time.Time
	elapsed time.Duration
	paused  atomic.Bool
}

// NewGameClock starts game time at epoch
func NewGameClock(epoch time.Time) *GameClock {
	return &GameClock{now: epoch}
}

func (c *GameClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Elapsed returns total advanced game time
func (c *GameClock) Elapsed() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.elapsed
}

// Advance moves game time forward by dt; false while paused or for dt <= 0
func (c *GameClock) Advance(dt time.Duration) bool {
	if dt <= 0 || c.paused.Load() {
		return false
	}
	c.mu.Lock()
	c.now = c.now.Add(dt)
	c.elapsed += dt
	c.mu.Unlock()
	return true
}

func (c *GameClock) Pause()  { c.paused.Store(true) }
func (c *GameClock) Resume() { c.paused.Store(false) }

func (c *GameClock) IsPaused() bool { return c.paused.Load() }

// TogglePause flips the pause state and returns the new one
func (c *GameClock) TogglePause() bool {
	for {
		cur := c.paused.Load()
		if c.paused.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}
