package ecs

import "github.com/milk9111/keyframe/ecs/component"

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// World owns entities, their components and the system order.
type World struct {
	entities entityStore
	systems  []System
	events   EventQueue
	stores   map[component.ComponentID]store
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// CreateEntity allocates a new entity and queues an EventEntityAdded.
func CreateEntity(w *World) Entity {
	e := w.entities.create()
	w.events.Push(Event{Type: EventEntityAdded, Data: EntityEvent{Entity: e}})
	return e
}

// DestroyEntity drops every component of e and queues an
// EventEntityRemoved. It reports false when e was not alive.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	id := int(e.id())
	for _, s := range w.stores {
		s.remove(id)
	}
	w.entities.destroy(e)
	w.events.Push(Event{Type: EventEntityRemoved, Data: EntityEvent{Entity: e}})
	return true
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs all systems once. Events queued before the pass are dropped
// after it; events queued by systems during the pass carry over to the next
// one. Systems use Event.Seq to skip events they have already handled.
func (w *World) Update() {
	if w == nil {
		return
	}
	seen := w.events.Len()
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
	w.events.discard(seen)
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
