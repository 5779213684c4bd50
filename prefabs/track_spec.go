package prefabs

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/milk9111/keyframe/anim"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingField    = errors.New("prefabs: missing field")
	ErrUnknownType     = errors.New("prefabs: unknown track type")
	ErrBadValue        = errors.New("prefabs: bad value")
	ErrKeyShape        = errors.New("prefabs: key value shape does not match the first key")
	ErrUnknownResource = anim.ErrUnknownResource
)

const (
	TagKeyFramed      = "key_framed"
	TagFixedValue     = "fixed_value"
	TagTrackSet       = "track_set"
	TagWeightedTracks = "weighted_tracks"
	TagResource       = "resource"
	TagExpression     = "expression"
)

const (
	defaultDuration = time.Second
)

type trackBuildFn func(b *trackBuilder, n *yaml.Node) (anim.Track, error)

// trackBuilder carries the resource library and the nodes on the current
// construction path, so an anchor that contains its own alias is rejected.
type trackBuilder struct {
	lib  *anim.Library
	path map[*yaml.Node]bool
}

var trackRegistry map[string]trackBuildFn

func init() {
	trackRegistry = map[string]trackBuildFn{
		TagKeyFramed:      buildKeyFramed,
		TagFixedValue:     buildFixedValue,
		TagTrackSet:       buildTrackSet,
		TagWeightedTracks: buildWeightedTracks,
		TagResource:       buildResource,
		TagExpression:     buildExpression,
	}
}

// ParseTrack decodes a YAML document describing one track tree.
func ParseTrack(data []byte, lib *anim.Library) (anim.Track, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("prefabs: parse track: %w", err)
	}
	return BuildTrack(&doc, lib)
}

// LoadTrack reads a track document through Load.
func LoadTrack(name string, lib *anim.Library) (anim.Track, error) {
	data, err := Load(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	track, err := ParseTrack(data, lib)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return track, nil
}

// BuildTrack constructs a track tree from a tagged node. The tag is either a
// local YAML tag (!key_framed) or a "type" field on a mapping. Resource
// references are looked up in lib, which may be nil when none are used.
func BuildTrack(n *yaml.Node, lib *anim.Library) (anim.Track, error) {
	b := &trackBuilder{lib: lib, path: make(map[*yaml.Node]bool)}
	return b.build(n)
}

func (b *trackBuilder) build(n *yaml.Node) (anim.Track, error) {
	n = resolveAlias(n)
	if n == nil {
		return nil, fmt.Errorf("track: %w", ErrMissingField)
	}
	if b.path[n] {
		return nil, fmt.Errorf("track at line %d: recursive alias: %w", n.Line, ErrBadValue)
	}
	b.path[n] = true
	defer delete(b.path, n)

	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, fmt.Errorf("track: empty document: %w", ErrMissingField)
		}
		return b.build(n.Content[0])
	}

	tag, err := trackTag(n)
	if err != nil {
		return nil, err
	}
	build, ok := trackRegistry[tag]
	if !ok {
		return nil, fmt.Errorf("track at line %d: %q: %w", n.Line, tag, ErrUnknownType)
	}
	track, err := build(b, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tag, err)
	}
	return track, nil
}

func trackTag(n *yaml.Node) (string, error) {
	if tag := n.Tag; strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!") {
		return strings.TrimPrefix(tag, "!"), nil
	}
	if n.Kind == yaml.MappingNode {
		if t := field(n, "type"); t != nil {
			if t.Kind != yaml.ScalarNode || t.Value == "" {
				return "", fmt.Errorf("track at line %d: type: %w", t.Line, ErrBadValue)
			}
			return t.Value, nil
		}
	}
	return "", fmt.Errorf("track at line %d: no tag or type field: %w", n.Line, ErrMissingField)
}

func buildKeyFramed(_ *trackBuilder, n *yaml.Node) (anim.Track, error) {
	if err := requireMapping(n); err != nil {
		return nil, err
	}
	track, err := curveTrackFields(n)
	if err != nil {
		return nil, err
	}

	keysNode := field(n, "keys")
	if keysNode == nil {
		return nil, fmt.Errorf("keys: %w", ErrMissingField)
	}
	keys, err := decodeKeys(keysNode)
	if err != nil {
		return nil, err
	}

	interpolation, err := stringField(n, "interpolation", "linear")
	if err != nil {
		return nil, err
	}
	easeName, err := stringField(n, "ease", "")
	if err != nil {
		return nil, err
	}

	switch interpolation {
	case "linear":
		if easeName == "" {
			track.Curve = &anim.LinearKeyFrameCurve{Keys: keys}
			break
		}
		fn, ok := easings[easeName]
		if !ok {
			return nil, fmt.Errorf("ease %q: %w", easeName, ErrBadValue)
		}
		track.Curve = &anim.EasedKeyFrameCurve{Keys: keys, EaseName: easeName, Ease: fn}
	case "discrete":
		if easeName != "" {
			return nil, fmt.Errorf("ease %q: not allowed with discrete keys: %w", easeName, ErrBadValue)
		}
		track.Curve = &anim.DiscreteKeyFrameCurve{Keys: keys}
	default:
		return nil, fmt.Errorf("interpolation %q: %w", interpolation, ErrBadValue)
	}
	return track, nil
}

func buildFixedValue(_ *trackBuilder, n *yaml.Node) (anim.Track, error) {
	if err := requireMapping(n); err != nil {
		return nil, err
	}
	prop, err := propertyField(n)
	if err != nil {
		return nil, err
	}
	valueNode := field(n, "value")
	if valueNode == nil {
		return nil, fmt.Errorf("value: %w", ErrMissingField)
	}
	v, err := DecodeValue(valueNode)
	if err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	return anim.NewFixedValue(prop, v), nil
}

func buildExpression(_ *trackBuilder, n *yaml.Node) (anim.Track, error) {
	if err := requireMapping(n); err != nil {
		return nil, err
	}
	track, err := curveTrackFields(n)
	if err != nil {
		return nil, err
	}
	src, err := stringField(n, "expr", "")
	if err != nil {
		return nil, err
	}
	if src == "" {
		return nil, fmt.Errorf("expr: %w", ErrMissingField)
	}
	curve, err := anim.NewExpressionCurve(src)
	if err != nil {
		return nil, fmt.Errorf("expr: %v: %w", err, ErrBadValue)
	}
	track.Curve = curve
	return track, nil
}

func buildTrackSet(b *trackBuilder, n *yaml.Node) (anim.Track, error) {
	items, err := childList(n)
	if err != nil {
		return nil, err
	}
	set := &anim.TrackSet{Tracks: make([]anim.Track, 0, len(items))}
	for i, item := range items {
		track, err := b.build(item)
		if err != nil {
			return nil, fmt.Errorf("tracks[%d]: %w", i, err)
		}
		set.Tracks = append(set.Tracks, track)
	}
	return set, nil
}

func buildWeightedTracks(b *trackBuilder, n *yaml.Node) (anim.Track, error) {
	items, err := childList(n)
	if err != nil {
		return nil, err
	}
	out := &anim.WeightedTracks{Tracks: make([]anim.WeightedTrack, 0, len(items))}
	for i, item := range items {
		item = resolveAlias(item)
		var weightNode, trackNode *yaml.Node
		switch item.Kind {
		case yaml.MappingNode:
			weightNode, trackNode = field(item, "weight"), field(item, "track")
		case yaml.SequenceNode:
			if len(item.Content) != 2 {
				return nil, fmt.Errorf("tracks[%d]: want [weight, track]: %w", i, ErrBadValue)
			}
			weightNode, trackNode = item.Content[0], item.Content[1]
		default:
			return nil, fmt.Errorf("tracks[%d]: want {weight, track} or [weight, track]: %w", i, ErrBadValue)
		}
		if weightNode == nil {
			return nil, fmt.Errorf("tracks[%d].weight: %w", i, ErrMissingField)
		}
		if trackNode == nil {
			return nil, fmt.Errorf("tracks[%d].track: %w", i, ErrMissingField)
		}
		weight, err := decodeFloat(resolveAlias(weightNode))
		if err != nil {
			return nil, fmt.Errorf("tracks[%d].weight: %w", i, err)
		}
		track, err := b.build(trackNode)
		if err != nil {
			return nil, fmt.Errorf("tracks[%d].track: %w", i, err)
		}
		out.Tracks = append(out.Tracks, anim.WeightedTrack{Weight: weight, Track: track})
	}
	return out, nil
}

func buildResource(b *trackBuilder, n *yaml.Node) (anim.Track, error) {
	var name string
	switch n.Kind {
	case yaml.ScalarNode:
		name = n.Value
	case yaml.MappingNode:
		s, err := stringField(n, "name", "")
		if err != nil {
			return nil, err
		}
		name = s
	}
	if name == "" {
		return nil, fmt.Errorf("name: %w", ErrMissingField)
	}
	shared, err := b.lib.Share(name)
	if err != nil {
		return nil, err
	}
	return shared, nil
}

// curveTrackFields reads the fields shared by every curve-backed track.
func curveTrackFields(n *yaml.Node) (*anim.CurveTrack, error) {
	prop, err := propertyField(n)
	if err != nil {
		return nil, err
	}
	duration, err := durationField(n, "duration", defaultDuration)
	if err != nil {
		return nil, err
	}
	offset, err := durationField(n, "offset", 0)
	if err != nil {
		return nil, err
	}

	track := &anim.CurveTrack{
		Property: prop,
		Offset:   offset,
		Duration: duration,
	}

	loop, err := stringField(n, "loop", "once")
	if err != nil {
		return nil, err
	}
	switch loop {
	case "once":
		track.Loop = anim.LoopOnce
	case "forever":
		track.Loop = anim.LoopForever
	default:
		return nil, fmt.Errorf("loop %q: %w", loop, ErrBadValue)
	}

	curveTime, err := stringField(n, "curve_time", "absolute")
	if err != nil {
		return nil, err
	}
	switch curveTime {
	case "absolute":
		track.CurveTime = anim.CurveTimeAbsolute
	case "relative":
		track.CurveTime = anim.CurveTimeRelative
	default:
		return nil, fmt.Errorf("curve_time %q: %w", curveTime, ErrBadValue)
	}
	return track, nil
}

func propertyField(n *yaml.Node) (anim.NamedPropRef, error) {
	s, err := stringField(n, "property", "")
	if err != nil {
		return anim.NamedPropRef{}, err
	}
	if s == "" {
		return anim.NamedPropRef{}, fmt.Errorf("property: %w", ErrMissingField)
	}
	ref, err := anim.ParseNamedPropRef(s)
	if err != nil {
		return anim.NamedPropRef{}, fmt.Errorf("property: %v: %w", err, ErrBadValue)
	}
	return ref, nil
}

// decodeKeys reads a non-empty key list. Every key must carry a value of the
// same length as the first one. Keys are returned sorted by time.
func decodeKeys(n *yaml.Node) ([]anim.Key, error) {
	n = resolveAlias(n)
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return nil, fmt.Errorf("keys at line %d: want a non-empty list: %w", n.Line, ErrBadValue)
	}
	keys := make([]anim.Key, 0, len(n.Content))
	for i, item := range n.Content {
		item = resolveAlias(item)
		var timeNode, valueNode *yaml.Node
		switch item.Kind {
		case yaml.MappingNode:
			timeNode, valueNode = field(item, "time"), field(item, "value")
		case yaml.SequenceNode:
			if len(item.Content) != 2 {
				return nil, fmt.Errorf("keys[%d]: want [time, value]: %w", i, ErrBadValue)
			}
			timeNode, valueNode = item.Content[0], item.Content[1]
		default:
			return nil, fmt.Errorf("keys[%d]: want {time, value} or [time, value]: %w", i, ErrBadValue)
		}
		if timeNode == nil {
			return nil, fmt.Errorf("keys[%d].time: %w", i, ErrMissingField)
		}
		if valueNode == nil {
			return nil, fmt.Errorf("keys[%d].value: %w", i, ErrMissingField)
		}
		at, err := decodeFloat(resolveAlias(timeNode))
		if err != nil {
			return nil, fmt.Errorf("keys[%d].time: %w", i, err)
		}
		v, err := DecodeValue(valueNode)
		if err != nil {
			return nil, fmt.Errorf("keys[%d].value: %w", i, err)
		}
		if len(keys) > 0 && v.Len() != keys[0].Value.Len() {
			return nil, fmt.Errorf("keys[%d]: %d components, first key has %d: %w", i, v.Len(), keys[0].Value.Len(), ErrKeyShape)
		}
		keys = append(keys, anim.Key{Time: at, Value: v})
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })
	return keys, nil
}

// childList returns the children of a composite track, given either as a
// bare sequence or under a "tracks" field.
func childList(n *yaml.Node) ([]*yaml.Node, error) {
	switch n.Kind {
	case yaml.SequenceNode:
		return n.Content, nil
	case yaml.MappingNode:
		tracks := resolveAlias(field(n, "tracks"))
		if tracks == nil {
			return nil, fmt.Errorf("tracks: %w", ErrMissingField)
		}
		if tracks.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("tracks at line %d: want a list: %w", tracks.Line, ErrBadValue)
		}
		return tracks.Content, nil
	default:
		return nil, fmt.Errorf("line %d: want a list of tracks: %w", n.Line, ErrBadValue)
	}
}

func requireMapping(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: want a mapping: %w", n.Line, ErrBadValue)
	}
	return nil
}

func field(n *yaml.Node, name string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == name {
			return n.Content[i+1]
		}
	}
	return nil
}

func stringField(n *yaml.Node, name, def string) (string, error) {
	v := resolveAlias(field(n, name))
	if v == nil {
		return def, nil
	}
	if v.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%s at line %d: want a string: %w", name, v.Line, ErrBadValue)
	}
	return strings.TrimSpace(v.Value), nil
}

// durationField reads a non-negative number of seconds that fits in a
// time.Duration.
func durationField(n *yaml.Node, name string, def time.Duration) (time.Duration, error) {
	v := resolveAlias(field(n, name))
	if v == nil {
		return def, nil
	}
	var secs float64
	if v.Kind != yaml.ScalarNode || v.Decode(&secs) != nil {
		return 0, fmt.Errorf("%s at line %d: want seconds: %w", name, v.Line, ErrBadValue)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("%s at line %d: %v: %w", name, v.Line, secs, ErrBadValue)
	}
	ns := math.Round(secs * float64(time.Second))
	if ns < 0 || ns >= float64(math.MaxInt64) {
		return 0, fmt.Errorf("%s at line %d: %v seconds out of range: %w", name, v.Line, secs, ErrBadValue)
	}
	return time.Duration(ns), nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
