package entity

import (
	"fmt"

	"github.com/milk9111/keyframe/anim"
	"github.com/milk9111/keyframe/ecs"
	"github.com/milk9111/keyframe/ecs/component"
	"github.com/milk9111/keyframe/prefabs"
	"gopkg.in/yaml.v3"
)

type buildContext struct {
	Scene string
	Names map[string]ecs.Entity
}

type fieldBuildFn func(w *ecs.World, e ecs.Entity, spec *prefabs.EntitySpec, ctx *buildContext) error

var fieldRegistry = map[string]fieldBuildFn{
	"name":       addName,
	"properties": addProperties,
	"animation":  addAnimation,
	"read_only":  addReadOnly,
}

// read_only runs after every value has been written.
var fieldBuildOrder = []string{
	"name",
	"properties",
	"animation",
	"read_only",
}

// BuildScene registers the scene's library into lib and creates its
// entities. Parents are linked once every entity exists, so an entity may
// name a parent declared after it. On error nothing is left in the world.
func BuildScene(w *ecs.World, spec *prefabs.SceneSpec, lib *anim.Library) ([]ecs.Entity, error) {
	if w == nil {
		return nil, fmt.Errorf("build scene: world is nil")
	}
	if spec == nil {
		return nil, fmt.Errorf("build scene: spec is nil")
	}
	if lib == nil {
		return nil, fmt.Errorf("build scene %q: library is nil", spec.Name)
	}
	if err := prefabs.BuildLibrary(&spec.Library, lib); err != nil {
		return nil, fmt.Errorf("build scene %q: %w", spec.Name, err)
	}

	ctx := &buildContext{Scene: spec.Name, Names: make(map[string]ecs.Entity, len(spec.Entities))}
	created := make([]ecs.Entity, 0, len(spec.Entities))
	fail := func(err error) ([]ecs.Entity, error) {
		for _, e := range created {
			ecs.DestroyEntity(w, e)
		}
		return nil, err
	}

	for i := range spec.Entities {
		es := &spec.Entities[i]
		if es.Name != "" {
			if _, dup := ctx.Names[es.Name]; dup {
				return fail(fmt.Errorf("build scene %q: duplicate entity name %q", spec.Name, es.Name))
			}
		}

		e := ecs.CreateEntity(w)
		created = append(created, e)
		for _, field := range fieldBuildOrder {
			if err := fieldRegistry[field](w, e, es, ctx); err != nil {
				return fail(fmt.Errorf("build scene %q: entity %d (%s): %s: %w", spec.Name, i, es.Name, field, err))
			}
		}
		if es.Name != "" {
			ctx.Names[es.Name] = e
		}
	}

	for i := range spec.Entities {
		es := &spec.Entities[i]
		if es.Parent == "" {
			continue
		}
		parent, ok := ctx.Names[es.Parent]
		if !ok {
			return fail(fmt.Errorf("build scene %q: entity %d (%s): parent %q: %w", spec.Name, i, es.Name, es.Parent, ecs.ErrUnresolvedEntity))
		}
		if err := ecs.Add(w, created[i], component.ParentComponent.Kind(), &component.Parent{Entity: uint64(parent)}); err != nil {
			return fail(fmt.Errorf("build scene %q: entity %d (%s): parent: %w", spec.Name, i, es.Name, err))
		}
	}

	return created, nil
}

// LoadScene reads a scene document through prefabs.Load and builds it.
func LoadScene(w *ecs.World, filename string, lib *anim.Library) ([]ecs.Entity, error) {
	spec, err := prefabs.LoadSceneSpec(filename)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	return BuildScene(w, spec, lib)
}

func addName(w *ecs.World, e ecs.Entity, spec *prefabs.EntitySpec, _ *buildContext) error {
	if spec.Name == "" {
		return nil
	}
	return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name})
}

// addProperties writes the initial values directly so that no change
// events are queued for them.
func addProperties(w *ecs.World, e ecs.Entity, spec *prefabs.EntitySpec, _ *buildContext) error {
	props := component.NewProperties()
	for key, node := range spec.Properties {
		v, err := decodeProperty(&node)
		if err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
		props.Values[key] = v
	}
	return ecs.Add(w, e, component.PropertiesComponent.Kind(), props)
}

func addAnimation(w *ecs.World, e ecs.Entity, spec *prefabs.EntitySpec, _ *buildContext) error {
	if spec.Animation.Kind == 0 {
		return nil
	}
	props, ok := ecs.Get(w, e, component.PropertiesComponent.Kind())
	if !ok {
		return fmt.Errorf("no properties component")
	}
	node := spec.Animation
	props.Values[component.AnimationKey] = &node
	return nil
}

func addReadOnly(w *ecs.World, e ecs.Entity, spec *prefabs.EntitySpec, _ *buildContext) error {
	for _, key := range spec.ReadOnly {
		if err := w.MarkReadOnly(e, key); err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
	}
	return nil
}

// decodeProperty keeps numeric and colour values as anim.Animatable and
// plain strings as string.
func decodeProperty(n *yaml.Node) (any, error) {
	v, err := prefabs.DecodeValue(n)
	if err == nil {
		return v, nil
	}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" {
		return n.Value, nil
	}
	return nil, err
}
