// Package simworld is a reference physics engine backed by an ark ECS world
// Bodies are spheres; dynamic bodies are swept per step so fast projectiles
// cannot tunnel through thin targets
package simworld

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/mlange-42/ark/ecs"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/vmath"
)

type position struct {
	V    vmath.Vec3
	Prev vmath.Vec3
}

type velocity struct {
	V vmath.Vec3
}

type collider struct {
	ID       physics.BodyID
	RadiusKm float64
	Mass     float64
	Dynamic  bool
}

type metadata struct {
	Record physics.EntityRecord
}

// World implements physics.Engine
type World struct {
	mu sync.Mutex

	world  *ecs.World
	mapper *ecs.Map4[position, velocity, collider, metadata]
	filter *ecs.Filter4[position, velocity, collider, metadata]
	posMap *ecs.Map1[position]
	velMap *ecs.Map1[velocity]
	colMap *ecs.Map1[collider]
	metMap *ecs.Map1[metadata]

	bodies map[physics.BodyID]ecs.Entity
	nextID physics.BodyID
	ready  bool

	log zerolog.Logger
}

// New creates a ready physics world
func New(log zerolog.Logger) *World {
	w := ecs.NewWorld()
	return &World{
		world:  w,
		mapper: ecs.NewMap4[position, velocity, collider, metadata](w),
		filter: ecs.NewFilter4[position, velocity, collider, metadata](w),
		posMap: ecs.NewMap1[position](w),
		velMap: ecs.NewMap1[velocity](w),
		colMap: ecs.NewMap1[collider](w),
		metMap: ecs.NewMap1[metadata](w),
		bodies: make(map[physics.BodyID]ecs.Entity),
		ready:  true,
		log:    log.With().Str("component", "physics").Logger(),
	}
}

func (w *World) Ready() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ready
}

// SetReady toggles rigid-body simulation; raycasts and marches keep working
func (w *World) SetReady(ready bool) {
	w.mu.Lock()
	w.ready = ready
	w.mu.Unlock()
}

// BodyCount returns live bodies
func (w *World) BodyCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bodies)
}

func (w *World) CreateRigidBody(cfg physics.BodyConfig) (physics.BodyID, error) {
	if cfg.RadiusM <= 0 || math.IsNaN(cfg.RadiusM) {
		return 0, fmt.Errorf("%w: radius %v", physics.ErrInvalidBody, cfg.RadiusM)
	}
	if cfg.Shape != physics.ShapeSphere {
		return 0, fmt.Errorf("%w: unsupported shape %d", physics.ErrInvalidBody, cfg.Shape)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	dynamic := cfg.Mass > 0
	if dynamic && !w.ready {
		return 0, physics.ErrNotReady
	}

	w.nextID++
	id := w.nextID
	e := w.mapper.NewEntity(
		&position{V: cfg.Position, Prev: cfg.Position},
		&velocity{V: cfg.Velocity},
		&collider{ID: id, RadiusKm: cfg.RadiusM / vmath.MetersPerUnit, Mass: cfg.Mass, Dynamic: dynamic},
		&metadata{Record: cfg.Record},
	)
	w.bodies[id] = e
	w.log.Debug().Uint64("body", uint64(id)).Str("kind", cfg.Record.Kind.String()).Bool("dynamic", dynamic).Msg("body created")
	return id, nil
}

func (w *World) RemoveRigidBody(id physics.BodyID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.bodies[id]
	if !ok {
		return
	}
	delete(w.bodies, id)
	if w.world.Alive(e) {
		w.world.RemoveEntity(e)
	}
}

func (w *World) entity(id physics.BodyID) (ecs.Entity, bool) {
	e, ok := w.bodies[id]
	if !ok || !w.world.Alive(e) {
		return e, false
	}
	return e, true
}

func (w *World) EntityMetadata(id physics.BodyID) (physics.EntityRecord, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entity(id)
	if !ok {
		return physics.EntityRecord{}, false
	}
	return w.metMap.Get(e).Record, true
}

func (w *World) BodyPosition(id physics.BodyID) (vmath.Vec3, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entity(id)
	if !ok {
		return vmath.Vec3{}, false
	}
	return w.posMap.Get(e).V, true
}

func (w *World) SetBodyPosition(id physics.BodyID, p vmath.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.entity(id); ok {
		pos := w.posMap.Get(e)
		pos.V, pos.Prev = p, p
	}
}

func (w *World) BodyVelocity(id physics.BodyID) (vmath.Vec3, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entity(id)
	if !ok {
		return vmath.Vec3{}, false
	}
	return w.velMap.Get(e).V, true
}

func (w *World) SetBodyVelocity(id physics.BodyID, v vmath.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.entity(id); ok {
		w.velMap.Get(e).V = v
	}
}

// snapshot is a flat copy of one body used by the detection passes
type snapshot struct {
	id      physics.BodyID
	prev    vmath.Vec3
	pos     vmath.Vec3
	radius  float64
	dynamic bool
	record  physics.EntityRecord
}

// collect copies every body in storage order; caller holds mu
func (w *World) collect() []snapshot {
	out := make([]snapshot, 0, len(w.bodies))
	query := w.filter.Query()
	for query.Next() {
		pos, _, col, meta := query.Get()
		out = append(out, snapshot{
			id:      col.ID,
			prev:    pos.Prev,
			pos:     pos.V,
			radius:  col.RadiusKm,
			dynamic: col.Dynamic,
			record:  meta.Record,
		})
	}
	return out
}

// Step integrates dynamic bodies and returns contacts in detection order
// Each dynamic body reports at most its earliest contact per step
func (w *World) Step(dt time.Duration) []physics.Collision {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.ready || dt <= 0 {
		return nil
	}

	secs := dt.Seconds()
	query := w.filter.Query()
	for query.Next() {
		pos, vel, col, _ := query.Get()
		pos.Prev = pos.V
		if col.Dynamic {
			pos.V = vmath.Add(pos.V, vmath.Scale(vel.V, secs))
		}
	}

	bodies := w.collect()
	var contacts []physics.Collision
	reported := make(map[[2]physics.BodyID]bool)

	for i := range bodies {
		a := &bodies[i]
		if !a.dynamic {
			continue
		}
		bestT := math.Inf(1)
		var best *snapshot
		for j := range bodies {
			if i == j {
				continue
			}
			b := &bodies[j]
			t, hit := vmath.SegmentSphere(a.prev, a.pos, b.pos, a.radius+b.radius)
			if hit && t < bestT {
				bestT, best = t, b
			}
		}
		if best == nil {
			continue
		}
		key := pairKey(a.id, best.id)
		if reported[key] {
			continue
		}
		reported[key] = true
		point := vmath.Lerp(a.prev, a.pos, bestT)
		contacts = append(contacts, physics.Collision{A: a.id, B: best.id, Point: point})
	}
	return contacts
}

func pairKey(a, b physics.BodyID) [2]physics.BodyID {
	if a > b {
		a, b = b, a
	}
	return [2]physics.BodyID{a, b}
}

// Raycast returns the nearest non-projectile body along the ray within maxDist world units
func (w *World) Raycast(origin, dir vmath.Vec3, maxDist float64) (physics.Hit, bool) {
	dir = vmath.Normalize(dir)
	if vmath.Mag(dir) == 0 || maxDist <= 0 {
		return physics.Hit{}, false
	}

	w.mu.Lock()
	bodies := w.collect()
	w.mu.Unlock()

	var best physics.Hit
	found := false
	for _, b := range bodies {
		if b.record.Kind == core.KindProjectile {
			continue
		}
		t, ok := vmath.RaySphere(origin, dir, b.pos, b.radius)
		if !ok || t > maxDist {
			continue
		}
		if !found || t < best.Distance {
			point := vmath.Add(origin, vmath.Scale(dir, t))
			best = physics.Hit{
				Point:    point,
				Normal:   vmath.Normalize(vmath.Sub(point, b.pos)),
				Distance: t,
				Body:     b.id,
				Entity:   b.record,
			}
			found = true
		}
	}
	return best, found
}

// March sweeps a point of radiusM along from→to against non-projectile bodies
func (w *World) March(from, to vmath.Vec3, radiusM float64) (physics.Hit, bool) {
	w.mu.Lock()
	bodies := w.collect()
	w.mu.Unlock()

	r := radiusM / vmath.MetersPerUnit
	bestT := math.Inf(1)
	var best physics.Hit
	for _, b := range bodies {
		if b.record.Kind == core.KindProjectile {
			continue
		}
		t, hit := vmath.SegmentSphere(from, to, b.pos, b.radius+r)
		if !hit || t >= bestT {
			continue
		}
		bestT = t
		point := vmath.Lerp(from, to, t)
		best = physics.Hit{
			Point:    point,
			Normal:   vmath.Normalize(vmath.Sub(point, b.pos)),
			Distance: vmath.Distance(from, point),
			Body:     b.id,
			Entity:   b.record,
		}
	}
	return best, !math.IsInf(bestT, 1)
}

// SpatialQuery returns bodies whose surface lies within radiusM of center
func (w *World) SpatialQuery(center vmath.Vec3, radiusM float64) []physics.QueryResult {
	w.mu.Lock()
	bodies := w.collect()
	w.mu.Unlock()

	var out []physics.QueryResult
	for _, b := range bodies {
		surface := math.Max(0, vmath.DistanceM(center, b.pos)-b.radius*vmath.MetersPerUnit)
		if surface > radiusM {
			continue
		}
		out = append(out, physics.QueryResult{
			Body:      b.id,
			Entity:    b.record,
			Position:  b.pos,
			DistanceM: surface,
		})
	}
	return out
}
