package ecs

import (
	"errors"
	"fmt"

	"github.com/milk9111/keyframe/anim"
	"github.com/milk9111/keyframe/ecs/component"
)

var (
	ErrUnresolvedEntity = errors.New("ecs: property reference does not resolve")
	ErrReadOnlyProperty = errors.New("ecs: property is read-only")
)

// PropRef is a resolved property location.
type PropRef struct {
	Entity Entity
	Key    string
}

func (r PropRef) String() string {
	return fmt.Sprintf("%v.%s", r.Entity, r.Key)
}

// PropertyValue returns the raw value stored under key on e.
func (w *World) PropertyValue(e Entity, key string) (any, bool) {
	props, ok := Get(w, e, component.PropertiesComponent.Kind())
	if !ok || props == nil {
		return nil, false
	}
	v, ok := props.Values[key]
	return v, ok
}

// Properties lists the keys stored on e.
func (w *World) Properties(e Entity) []string {
	props, ok := Get(w, e, component.PropertiesComponent.Kind())
	if !ok || props == nil {
		return nil
	}
	keys := make([]string, 0, len(props.Values))
	for k := range props.Values {
		keys = append(keys, k)
	}
	return keys
}

// SetProperty stores v at ref and queues an EventPropertyChanged. The
// entity gets a Properties component on first write.
func (w *World) SetProperty(ref PropRef, v any) error {
	if !IsAlive(w, ref.Entity) {
		return fmt.Errorf("set %s: %w", ref, component.ErrEntityNotAlive)
	}
	props, ok := Get(w, ref.Entity, component.PropertiesComponent.Kind())
	if !ok || props == nil {
		props = component.NewProperties()
		if err := Add(w, ref.Entity, component.PropertiesComponent.Kind(), props); err != nil {
			return fmt.Errorf("set %s: %w", ref, err)
		}
	}
	if props.ReadOnly[ref.Key] {
		return fmt.Errorf("set %s: %w", ref, ErrReadOnlyProperty)
	}
	if props.Values == nil {
		props.Values = map[string]any{}
	}
	props.Values[ref.Key] = v
	w.events.Push(Event{Type: EventPropertyChanged, Data: PropertyEvent{Ref: ref}})
	return nil
}

// SetPropertyValue is SetProperty for a key on e.
func (w *World) SetPropertyValue(e Entity, key string, v any) error {
	return w.SetProperty(PropRef{Entity: e, Key: key}, v)
}

// MarkReadOnly rejects later writes to key on e.
func (w *World) MarkReadOnly(e Entity, key string) error {
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	props, ok := Get(w, e, component.PropertiesComponent.Kind())
	if !ok || props == nil {
		props = component.NewProperties()
		if err := Add(w, e, component.PropertiesComponent.Kind(), props); err != nil {
			return err
		}
	}
	if props.ReadOnly == nil {
		props.ReadOnly = map[string]bool{}
	}
	props.ReadOnly[key] = true
	return nil
}

// FindByName returns the live entity in the lowest slot whose Name matches.
func (w *World) FindByName(name string) (Entity, bool) {
	for _, e := range Entities(w) {
		if n, ok := Get(w, e, component.NameComponent.Kind()); ok && n != nil && n.Value == name {
			return e, true
		}
	}
	return 0, false
}

// ResolveNamedPropRef turns a logical reference made from e's point of view
// into a concrete location. The property itself need not exist yet.
func (w *World) ResolveNamedPropRef(e Entity, ref anim.NamedPropRef) (PropRef, error) {
	if !IsAlive(w, e) {
		return PropRef{}, fmt.Errorf("resolve %s: %w", ref, component.ErrEntityNotAlive)
	}
	switch ref.Entity.Kind {
	case anim.PathThis:
		return PropRef{Entity: e, Key: ref.Key}, nil
	case anim.PathParent:
		p, ok := Get(w, e, component.ParentComponent.Kind())
		if !ok || p == nil || !IsAlive(w, Entity(p.Entity)) {
			return PropRef{}, fmt.Errorf("resolve %s from %v: no parent: %w", ref, e, ErrUnresolvedEntity)
		}
		return PropRef{Entity: Entity(p.Entity), Key: ref.Key}, nil
	default:
		target, ok := w.FindByName(ref.Entity.Name)
		if !ok {
			return PropRef{}, fmt.Errorf("resolve %s: no entity named %q: %w", ref, ref.Entity.Name, ErrUnresolvedEntity)
		}
		return PropRef{Entity: target, Key: ref.Key}, nil
	}
}
