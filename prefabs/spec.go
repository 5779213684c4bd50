package prefabs

import (
	"fmt"

	"github.com/milk9111/keyframe/anim"
	"gopkg.in/yaml.v3"
)

// SceneSpec is a scene document: shared track sets and the entities that use
// them.
type SceneSpec struct {
	Name     string       `yaml:"name"`
	Library  yaml.Node    `yaml:"library"`
	Entities []EntitySpec `yaml:"entities"`
}

// EntitySpec describes one scene entity. Animation is kept as a raw node and
// built by the animation system when the entity is added.
type EntitySpec struct {
	Name       string               `yaml:"name"`
	Parent     string               `yaml:"parent"`
	Properties map[string]yaml.Node `yaml:"properties"`
	ReadOnly   []string             `yaml:"read_only"`
	Animation  yaml.Node            `yaml:"animation"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadSceneSpec(filename string) (*SceneSpec, error) {
	spec, err := LoadSpec[SceneSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

func ParseSceneSpec(data []byte) (*SceneSpec, error) {
	var spec SceneSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal scene: %w", err)
	}
	return &spec, nil
}

// BuildLibrary registers every entry of a library mapping into lib, in
// document order, so later entries may reference earlier ones as resources.
// An untagged list is read as a track_set; other entries that are not track
// sets are wrapped in one.
func BuildLibrary(n *yaml.Node, lib *anim.Library) error {
	n = resolveAlias(n)
	if n == nil || n.Kind == 0 {
		return nil
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("prefabs: library at line %d: want a mapping: %w", n.Line, ErrBadValue)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		entry := resolveAlias(n.Content[i+1])
		var (
			track anim.Track
			err   error
		)
		if entry.Kind == yaml.SequenceNode && entry.ShortTag() == "!!seq" {
			track, err = buildTrackSet(&trackBuilder{lib: lib, path: make(map[*yaml.Node]bool)}, entry)
		} else {
			track, err = BuildTrack(entry, lib)
		}
		if err != nil {
			return fmt.Errorf("prefabs: library %q: %w", name, err)
		}
		set, ok := track.(*anim.TrackSet)
		if !ok {
			set = anim.NewTrackSet(track)
		}
		lib.Register(name, set)
	}
	return nil
}
