package engine

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/event"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/status"
)

// System is one stage of the tick; lower priority runs first
type System interface {
	Priority() int
	Update(dt time.Duration)
}

// Scheduler runs the fixed-step tick: advance the clock, dispatch queued
// events, then update every system in priority order under the world lock
type Scheduler struct {
	world    *World
	clock    *GameClock
	router   *event.Router
	interval time.Duration
	log      zerolog.Logger

	mu      sync.RWMutex
	systems []System

	frames     atomic.Int64
	statFrame  *atomic.Int64
	statPaused *atomic.Bool

	running  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewScheduler(world *World, clock *GameClock, router *event.Router, interval time.Duration, reg *status.Registry, log zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = parameter.FrameUpdateInterval
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Scheduler{
		world:      world,
		clock:      clock,
		router:     router,
		interval:   interval,
		log:        log.With().Str("component", "scheduler").Logger(),
		statFrame:  reg.Ints.Get(parameter.StatFrame),
		statPaused: reg.Bools.Get(parameter.StatPaused),
		stopChan:   make(chan struct{}),
	}
}

// Add registers a system; event handlers are wired to the router as well
// Must be called before Start
func (s *Scheduler) Add(sys System) {
	s.mu.Lock()
	s.systems = append(s.systems, sys)
	sort.SliceStable(s.systems, func(i, j int) bool {
		return s.systems[i].Priority() < s.systems[j].Priority()
	})
	s.mu.Unlock()
	if h, ok := sys.(event.Handler); ok {
		s.router.Register(h)
	}
}

// Systems returns registered systems in execution order
func (s *Scheduler) Systems() []System {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]System, len(s.systems))
	copy(out, s.systems)
	return out
}

func (s *Scheduler) Interval() time.Duration { return s.interval }
func (s *Scheduler) Frame() int64 { return s.frames.Load() }

// Step runs one tick of dt; false when the clock is paused
func (s *Scheduler) Step(dt time.Duration) bool {
	if dt > parameter.MaxFrameDelta {
		dt = parameter.MaxFrameDelta
	}
	s.statPaused.Store(s.clock.IsPaused())
	if !s.clock.Advance(dt) {
		return false
	}
	systems := s.Systems()
	s.world.RunSafe(func() {
		s.router.DispatchAll()
		for _, sys := range systems {
			sys.Update(dt)
		}
	})
	s.statFrame.Store(s.frames.Add(1))
	return true
}

// StepN runs n fixed ticks synchronously; used by headless runs and tests
func (s *Scheduler) StepN(n int) {
	for i := 0; i < n; i++ {
		s.Step(s.interval)
	}
}

func (s *Scheduler) Name() string { return "scheduler" }

// Start launches the real-time loop
func (s *Scheduler) Start() error {
	if s.running.CompareAndSwap(false, true) {
		s.wg.Add(1)
		core.Go(s.loop)
	}
	return nil
}

// Stop halts the loop; safe to call repeatedly
func (s *Scheduler) Stop() error {
	s.stopOnce.Do(func() {
		if s.running.CompareAndSwap(true, false) {
			close(s.stopChan)
			s.wg.Wait()
		}
	})
	return nil
}

func (s *Scheduler) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-s.stopChan:
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if !s.Step(dt) && !s.clock.IsPaused() {
				s.log.Warn().Dur("dt", dt).Msg("tick skipped")
			}
		}
	}
}
