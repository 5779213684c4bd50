package entity

import (
	"errors"
	"testing"

	"github.com/milk9111/keyframe/anim"
	"github.com/milk9111/keyframe/ecs"
	"github.com/milk9111/keyframe/ecs/component"
	"github.com/milk9111/keyframe/prefabs"
	"gopkg.in/yaml.v3"
)

const testScene = `
name: test
library:
  spin:
    - !fixed_value { property: this.angle, value: 1 }
entities:
  - name: child
    parent: root
    properties:
      label: hello
      color: "#ff0000"
    animation: !resource spin
  - name: root
    properties:
      x: 10
      pos: [1, 2]
    read_only: [x]
`

func parseScene(t *testing.T, doc string) *prefabs.SceneSpec {
	t.Helper()
	spec, err := prefabs.ParseSceneSpec([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return spec
}

func TestBuildScene(t *testing.T) {
	w := ecs.NewWorld()
	lib := anim.NewLibrary()
	entities, err := BuildScene(w, parseScene(t, testScene), lib)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("got %d entities, want 2", len(entities))
	}
	child, root := entities[0], entities[1]

	if _, ok := lib.Lookup("spin"); !ok {
		t.Fatalf("library entry spin not registered")
	}
	if e, ok := w.FindByName("root"); !ok || e != root {
		t.Fatalf("FindByName(root) = %v, %v", e, ok)
	}

	parent, ok := ecs.Get(w, child, component.ParentComponent.Kind())
	if !ok || ecs.Entity(parent.Entity) != root {
		t.Fatalf("child parent = %v, want %v", parent, root)
	}

	if v, _ := w.PropertyValue(child, "label"); v != "hello" {
		t.Fatalf("label = %v, want hello", v)
	}
	if v, _ := w.PropertyValue(child, "color"); v != anim.Vec4(1, 0, 0, 1) {
		t.Fatalf("color = %v, want red", v)
	}
	if v, _ := w.PropertyValue(root, "pos"); v != anim.NewAnimatable(1, 2) {
		t.Fatalf("pos = %v, want [1 2]", v)
	}
	if _, ok := w.PropertyValue(root, component.AnimationKey); ok {
		t.Fatalf("root should have no animation")
	}

	raw, ok := w.PropertyValue(child, component.AnimationKey)
	if !ok {
		t.Fatalf("child has no animation property")
	}
	node, ok := raw.(*yaml.Node)
	if !ok {
		t.Fatalf("animation is %T, want *yaml.Node", raw)
	}
	if _, err := prefabs.BuildTrack(node, lib); err != nil {
		t.Fatalf("stored animation does not build: %v", err)
	}

	if err := w.SetPropertyValue(root, "x", anim.Float(3)); !errors.Is(err, ecs.ErrReadOnlyProperty) {
		t.Fatalf("write to read-only x: got %v", err)
	}
}

func TestBuildSceneQueuesOnlyAddEvents(t *testing.T) {
	w := ecs.NewWorld()
	if _, err := BuildScene(w, parseScene(t, testScene), anim.NewLibrary()); err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, evt := range w.Events().Items() {
		if evt.Type != ecs.EventEntityAdded {
			t.Fatalf("unexpected %s event", evt.Type)
		}
	}
	if got := w.Events().Len(); got != 2 {
		t.Fatalf("got %d events, want 2", got)
	}
}

func TestBuildSceneErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "unknown_parent",
			doc: `
entities:
  - name: a
  - name: b
    parent: nobody
`,
			want: ecs.ErrUnresolvedEntity,
		},
		{
			name: "bad_library",
			doc: `
library:
  broken: !spline {}
entities: []
`,
			want: prefabs.ErrUnknownType,
		},
		{
			name: "bad_property",
			doc: `
entities:
  - name: a
    properties:
      x: [1, 2, 3, 4, 5]
`,
			want: prefabs.ErrBadValue,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, err := BuildScene(w, parseScene(t, c.doc), anim.NewLibrary())
			if !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
			if n := len(ecs.Entities(w)); n != 0 {
				t.Fatalf("%d entities left after failure", n)
			}
		})
	}
}

func TestBuildSceneRejectsDuplicateNames(t *testing.T) {
	doc := `
entities:
  - name: a
  - name: a
`
	if _, err := BuildScene(ecs.NewWorld(), parseScene(t, doc), anim.NewLibrary()); err == nil {
		t.Fatalf("expected an error for duplicate names")
	}
}

func TestLoadEmbeddedScene(t *testing.T) {
	w := ecs.NewWorld()
	entities, err := LoadScene(w, "demo_scene.yaml", anim.NewLibrary())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entities) != 4 {
		t.Fatalf("got %d entities, want 4", len(entities))
	}
}
