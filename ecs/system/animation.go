package system

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/milk9111/keyframe/anim"
	"github.com/milk9111/keyframe/ecs"
	"github.com/milk9111/keyframe/ecs/component"
	"github.com/milk9111/keyframe/prefabs"
	"gopkg.in/yaml.v3"
)

// DefaultStep is the clock advance of one Update, at 60 updates a second.
const DefaultStep = time.Second / 60

// PropertyHost is what the animation system needs from the world.
type PropertyHost interface {
	PropertyValue(e ecs.Entity, key string) (any, bool)
	ResolveNamedPropRef(e ecs.Entity, ref anim.NamedPropRef) (ecs.PropRef, error)
	SetProperty(ref ecs.PropRef, v any) error
}

var _ PropertyHost = (*ecs.World)(nil)

type entityAnimation struct {
	track       anim.Track
	activatedAt time.Duration
	cache       map[anim.NamedPropRef]ecs.PropRef
	reported    map[anim.NamedPropRef]bool
}

// AnimationSystem evaluates every entity's animation property against one
// shared clock and writes the results back through the host.
type AnimationSystem struct {
	Step   time.Duration
	Logger *log.Logger

	lib     *anim.Library
	clock   time.Duration
	lastSeq uint64
	active  map[ecs.Entity]*entityAnimation
}

func NewAnimationSystem(lib *anim.Library) *AnimationSystem {
	return &AnimationSystem{
		Step:   DefaultStep,
		Logger: log.Default(),
		lib:    lib,
		active: make(map[ecs.Entity]*entityAnimation),
	}
}

// Clock reports the time elapsed since the system started.
func (a *AnimationSystem) Clock() time.Duration {
	return a.clock
}

// Animated reports whether e currently has a running animation.
func (a *AnimationSystem) Animated(e ecs.Entity) bool {
	_, ok := a.active[e]
	return ok
}

// Update advances the clock by Step.
func (a *AnimationSystem) Update(w *ecs.World) {
	step := a.Step
	if step <= 0 {
		step = DefaultStep
	}
	a.Advance(w, step)
}

// Advance moves the clock by dt, applies pending entity and property events,
// then writes one frame of values. Negative deltas are ignored.
func (a *AnimationSystem) Advance(w *ecs.World, dt time.Duration) {
	if w == nil {
		return
	}
	if a.active == nil {
		a.active = make(map[ecs.Entity]*entityAnimation)
	}
	if dt > 0 {
		a.clock += dt
	}
	a.handleEvents(w)
	a.Apply(w)
}

func (a *AnimationSystem) handleEvents(w *ecs.World) {
	for _, evt := range w.Events().Items() {
		if evt.Seq <= a.lastSeq {
			continue
		}
		a.lastSeq = evt.Seq

		switch evt.Type {
		case ecs.EventEntityAdded:
			if data, ok := evt.Data.(ecs.EntityEvent); ok {
				a.Reset(w, data.Entity)
			}
		case ecs.EventEntityRemoved:
			if data, ok := evt.Data.(ecs.EntityEvent); ok {
				delete(a.active, data.Entity)
			}
		case ecs.EventPropertyChanged:
			if data, ok := evt.Data.(ecs.PropertyEvent); ok && data.Ref.Key == component.AnimationKey {
				a.Reset(w, data.Ref.Entity)
			}
		}
	}
}

// Reset discards e's animation and rebuilds it from its animation property.
// The new animation starts at the current clock.
func (a *AnimationSystem) Reset(host PropertyHost, e ecs.Entity) {
	delete(a.active, e)

	raw, ok := host.PropertyValue(e, component.AnimationKey)
	if !ok || raw == nil {
		return
	}
	track, err := a.build(raw)
	if err != nil {
		a.logf("animation: entity=%v build error: %v", e, err)
		return
	}
	if track == nil {
		return
	}
	a.active[e] = &entityAnimation{
		track:       track,
		activatedAt: a.clock,
		cache:       make(map[anim.NamedPropRef]ecs.PropRef),
		reported:    make(map[anim.NamedPropRef]bool),
	}
}

func (a *AnimationSystem) build(raw any) (anim.Track, error) {
	switch v := raw.(type) {
	case anim.Track:
		return v, nil
	case *yaml.Node:
		return prefabs.BuildTrack(v, a.lib)
	case []byte:
		return prefabs.ParseTrack(v, a.lib)
	case string:
		return prefabs.ParseTrack([]byte(v), a.lib)
	default:
		return nil, fmt.Errorf("unsupported animation value %T: %w", raw, prefabs.ErrBadValue)
	}
}

// Apply evaluates every active animation at the current clock and writes
// the values. Entities are visited in ascending order so that writes to a
// shared target land the same way every tick.
func (a *AnimationSystem) Apply(host PropertyHost) {
	entities := make([]ecs.Entity, 0, len(a.active))
	for e := range a.active {
		entities = append(entities, e)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i] < entities[j] })

	for _, e := range entities {
		ea := a.active[e]
		for _, c := range ea.track.ValueAt(a.clock - ea.activatedAt) {
			if c.Value.IsZero() {
				continue
			}
			ref, ok := ea.cache[c.Property]
			if !ok {
				resolved, err := host.ResolveNamedPropRef(e, c.Property)
				if err != nil {
					a.reportOnce(ea, e, c.Property, "resolve", err)
					continue
				}
				ref = resolved
				ea.cache[c.Property] = ref
			}
			if err := host.SetProperty(ref, c.Value); err != nil {
				// The target may have been destroyed; resolve again next tick.
				delete(ea.cache, c.Property)
				a.reportOnce(ea, e, c.Property, "write", err)
				continue
			}
			delete(ea.reported, c.Property)
		}
	}
}

func (a *AnimationSystem) reportOnce(ea *entityAnimation, e ecs.Entity, prop anim.NamedPropRef, what string, err error) {
	if ea.reported[prop] {
		return
	}
	ea.reported[prop] = true
	a.logf("animation: entity=%v property=%s %s error: %v", e, prop, what, err)
}

func (a *AnimationSystem) logf(format string, args ...any) {
	if a.Logger == nil {
		return
	}
	a.Logger.Printf(format, args...)
}
