package main

import (
	"encoding/json"
	"sort"

	"github.com/milk9111/keyframe/anim"
	"github.com/milk9111/keyframe/ecs"
	"github.com/milk9111/keyframe/ecs/component"
	"github.com/milk9111/keyframe/ecs/system"
)

// Frame is one published snapshot of every named entity's numeric
// properties.
type Frame struct {
	Clock    float64       `json:"clock"`
	Entities []EntityFrame `json:"entities"`
}

type EntityFrame struct {
	Name       string               `json:"name"`
	Properties map[string][]float32 `json:"properties"`
}

func buildFrame(w *ecs.World, sys *system.AnimationSystem) Frame {
	f := Frame{Clock: sys.Clock().Seconds()}
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		ef := EntityFrame{Name: n.Value, Properties: map[string][]float32{}}
		for _, key := range w.Properties(e) {
			raw, _ := w.PropertyValue(e, key)
			if v, ok := raw.(anim.Animatable); ok && !v.IsZero() {
				ef.Properties[key] = v.Values()
			}
		}
		f.Entities = append(f.Entities, ef)
	})
	sort.Slice(f.Entities, func(i, j int) bool { return f.Entities[i].Name < f.Entities[j].Name })
	return f
}

func (f Frame) MarshalBinary() ([]byte, error) {
	return json.Marshal(f)
}
