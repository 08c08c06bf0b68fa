package engine

import (
	"sync"

	"github.com/lixenwraith/void-fighter/core"
	"github.com/lixenwraith/void-fighter/physics"
	"github.com/lixenwraith/void-fighter/ship"
	"github.com/lixenwraith/void-fighter/target"
	"github.com/lixenwraith/void-fighter/vmath"
	"github.com/lixenwraith/void-fighter/weapon"
)

// Celestial is a non-damageable body: star, planet or moon
type Celestial struct {
	ID       core.Entity
	Name     string
	Kind     core.EntityKind
	Position vmath.Vec3
	RadiusM  float64
}

// World holds every arena of the simulation, keyed by entity id
// Ships, their weapon systems and their physics bodies share one id
type World struct {
	mu         sync.Mutex
	nextEntity core.Entity
	player     core.Entity
	pending    []core.Entity

	Ships      *Store[*ship.Ship]
	Weapons    *Store[*weapon.System]
	Bodies     *Store[physics.BodyID]
	Celestials *Store[Celestial]

	updateMutex sync.Mutex
}

func NewWorld() *World {
	return &World{
		nextEntity: 1,
		Ships:      NewStore[*ship.Ship](),
		Weapons:    NewStore[*weapon.System](),
		Bodies:     NewStore[physics.BodyID](),
		Celestials: NewStore[Celestial](),
	}
}

// CreateEntity reserves a new id; zero is never returned
func (w *World) CreateEntity() core.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextEntity
	w.nextEntity++
	return id
}

func (w *World) SetPlayer(e core.Entity) {
	w.mu.Lock()
	w.player = e
	w.mu.Unlock()
}

func (w *World) PlayerID() core.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.player
}

// Player returns the player ship and its weapon system
func (w *World) Player() (*ship.Ship, *weapon.System, bool) {
	id := w.PlayerID()
	s, ok := w.Ships.Get(id)
	if !ok {
		return nil, nil, false
	}
	ws, _ := w.Weapons.Get(id)
	return s, ws, true
}

// Ship resolves a live or destroyed ship still present in the arena
func (w *World) Ship(id core.Entity) (*ship.Ship, bool) {
	return w.Ships.Get(id)
}

// ScheduleRemoval queues e for the next cull pass; repeated calls are coalesced
func (w *World) ScheduleRemoval(e core.Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.pending {
		if p == e {
			return
		}
	}
	w.pending = append(w.pending, e)
}

// DrainRemovals returns and clears the removal queue
func (w *World) DrainRemovals() []core.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.pending
	w.pending = nil
	return out
}

// PendingRemovals reports the queue length without draining it
func (w *World) PendingRemovals() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Targets lists every live targetable ship other than the player
func (w *World) Targets() []target.Target {
	player := w.PlayerID()
	var out []target.Target
	for _, s := range w.Ships.Values() {
		if s.ID == player || !s.Kind.IsTargetable() || s.IsDestroyed() {
			continue
		}
		out = append(out, TargetOf(s))
	}
	return out
}

// TargetOf builds a target reference for s
func TargetOf(s *ship.Ship) target.Target {
	return target.Target{
		Entity:      s.ID,
		Kind:        s.Kind,
		Name:        s.Name,
		TypeID:      s.TypeID,
		StationType: s.StationType,
		Ship:        s.ID,
		Position:    s.Position,
		RadiusM:     s.RadiusM,
	}
}

// Destroy drops every arena entry of e; the caller releases the physics body
func (w *World) Destroy(e core.Entity) {
	w.Ships.Remove(e)
	w.Weapons.Remove(e)
	w.Bodies.Remove(e)
	w.Celestials.Remove(e)
	w.mu.Lock()
	if w.player == e {
		w.player = 0
	}
	w.mu.Unlock()
}

// RunSafe executes fn while holding the update lock shared with the tick loop
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}
