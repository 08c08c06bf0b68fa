// Package targeting answers "what is under the crosshair right now" for every weapon
package targeting

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/config"
	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/parameter"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/service"
	"github.com/lixenwraith/void-fighter/status"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/vmath"
)

// Result reasons
const (
	ReasonMissingInput = "missing_camera_or_range"
	ReasonNoTarget     = "no_target_found"
)

// Method is how a result was acquired
type Method uint8

const (
	MethodNone Method = iota
	MethodCrosshair
	MethodFallback
)

func (m Method) String() string {
	switch m {
	case MethodCrosshair:
		return "crosshair"
	case MethodFallback:
		return "fallback"
	}
	return "none"
}

// Request is one acquisition query
type Request struct {
	Camera         service.Camera
	WeaponRangeM   float64
	RequestedBy    string
	Homing         bool
	EnableFallback bool
}

// allowsFallback is false for missiles; they must fire on crosshair precision
func (r Request) allowsFallback() bool {
	if !r.EnableFallback || r.Homing {
		return false
	}
	return !strings.Contains(strings.ToLower(r.RequestedBy), "missile")
}

// Result is the unified targeting answer
type Result struct {
	HasTarget    bool
	Target       *target.Target
	Method       Method
	AcquiredAt   time.Time
	InRange      bool
	RangeState   RangeState
	WeaponRangeM float64
	CanFire      bool
	Reason       string
}

// Options tunes cache validity and fallback reach
type Options struct {
	CacheValidity           time.Duration
	CameraDrift             float64 // World units
	RangeDriftM             float64
	FallbackRangeMultiplier float64
}

// DefaultOptions mirrors the packaged defaults
func DefaultOptions() Options {
	return Options{
		CacheValidity:           parameter.TargetingCacheValidity,
		CameraDrift:             parameter.TargetingCacheCameraDrift,
		RangeDriftM:             parameter.TargetingCacheRangeDriftM,
		FallbackRangeMultiplier: parameter.TargetingFallbackRangeMultiplier,
	}
}

// OptionsFromConfig maps the targeting config section
func OptionsFromConfig(c config.TargetingConfig) Options {
	o := DefaultOptions()
	if c.CacheValidityMs > 0 {
		o.CacheValidity = c.CacheValidity()
	}
	if c.CameraDrift > 0 {
		o.CameraDrift = c.CameraDrift
	}
	if c.RangeDriftM > 0 {
		o.RangeDriftM = c.RangeDriftM
	}
	if c.FallbackRangeMultiplier > 0 {
		o.FallbackRangeMultiplier = c.FallbackRangeMultiplier
	}
	return o
}

type cacheEntry struct {
	result    Result
	cameraPos vmath.Vec3
	rangeM    float64
	at        time.Time
}

// Service is the single source of truth for crosshair targets
// Not safe for concurrent use; called from the tick loop only
type Service struct {
	crosshair *Crosshair
	registry  service.Registry
	clock     core.Clock
	opts      Options
	log       zerolog.Logger

	cache *cacheEntry

	statCacheHits   *atomic.Int64
	statCacheMisses *atomic.Int64
	statMethod      *status.AtomicString
}

// NewService wires the service; reg may be nil in tests
func NewService(engine physics.Engine, registry service.Registry, clock core.Clock, opts Options, reg *status.Registry, log zerolog.Logger) *Service {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Service{
		crosshair:       NewCrosshair(engine, registry),
		registry:        registry,
		clock:           clock,
		opts:            opts,
		log:             log.With().Str("component", "targeting").Logger(),
		statCacheHits:   reg.Ints.Get(parameter.StatTargetingHits),
		statCacheMisses: reg.Ints.Get(parameter.StatTargetingMisses),
		statMethod:      reg.Strings.Get(parameter.StatTargetingMethod),
	}
}

// CurrentTarget resolves the target for req, serving from cache when valid
func (s *Service) CurrentTarget(req Request) Result {
	if req.Camera == nil || req.WeaponRangeM <= 0 {
		return Result{Reason: ReasonMissingInput, WeaponRangeM: req.WeaponRangeM}
	}

	now := s.clock.Now()
	camPos := req.Camera.Position()

	if s.cacheValid(now, camPos, req) {
		s.statCacheHits.Add(1)
		return s.copyResult(s.cache.result)
	}
	s.statCacheMisses.Add(1)

	res := s.acquire(req, camPos, now)
	s.cache = &cacheEntry{result: res, cameraPos: camPos, rangeM: req.WeaponRangeM, at: now}
	s.statMethod.Store(res.Method.String())
	return s.copyResult(res)
}

// ClearCache invalidates immediately; the next request re-acquires
func (s *Service) ClearCache() {
	s.cache = nil
}

func (s *Service) cacheValid(now time.Time, camPos vmath.Vec3, req Request) bool {
	c := s.cache
	if c == nil {
		return false
	}
	if now.Sub(c.at) > s.opts.CacheValidity {
		return false
	}
	if vmath.Distance(camPos, c.cameraPos) > s.opts.CameraDrift {
		return false
	}
	if diff := req.WeaponRangeM - c.rangeM; diff > s.opts.RangeDriftM || diff < -s.opts.RangeDriftM {
		return false
	}
	// A fallback answer must not leak to a requester that forbids fallback
	if c.result.Method == MethodFallback && !req.allowsFallback() {
		return false
	}
	return true
}

func (s *Service) acquire(req Request, camPos vmath.Vec3, now time.Time) Result {
	basis := vmath.BasisOf(req.Camera.Orientation())
	maxKm := req.WeaponRangeM / vmath.MetersPerUnit * parameter.CrosshairSearchFactor

	if t, ok := s.crosshair.Acquire(camPos, basis.Forward, maxKm); ok {
		s.log.Debug().Str("by", req.RequestedBy).Str("target", t.Name).Float64("dist_m", t.DistanceM).Msg("crosshair target")
		return s.build(t, MethodCrosshair, req.WeaponRangeM, now)
	}

	if req.allowsFallback() && s.registry != nil {
		limit := req.WeaponRangeM * s.opts.FallbackRangeMultiplier
		if t, ok := Nearest(camPos, s.registry.Targets(), limit); ok {
			s.log.Debug().Str("by", req.RequestedBy).Str("target", t.Name).Float64("dist_m", t.DistanceM).Msg("fallback target")
			return s.build(t, MethodFallback, req.WeaponRangeM, now)
		}
	}

	return Result{Reason: ReasonNoTarget, WeaponRangeM: req.WeaponRangeM, AcquiredAt: now}
}

func (s *Service) build(t *target.Target, m Method, rangeM float64, now time.Time) Result {
	rc := ValidateRange(t.DistanceM, rangeM)
	return Result{
		HasTarget:    true,
		Target:       t,
		Method:       m,
		AcquiredAt:   now,
		InRange:      rc.InRange,
		RangeState:   rc.State,
		WeaponRangeM: rangeM,
		CanFire:      rc.InRange,
	}
}

// copyResult detaches the target so callers cannot mutate the cache
func (s *Service) copyResult(r Result) Result {
	r.Target = r.Target.Clone()
	return r
}
