package prefabs

import (
	"fmt"
	"strconv"
	"time"

	"github.com/milk9111/keyframe/anim"
	"gopkg.in/yaml.v3"
)

// EncodeTrack renders a track tree back into the tagged form BuildTrack
// reads. Colours come back as number lists.
func EncodeTrack(track anim.Track) (*yaml.Node, error) {
	switch t := track.(type) {
	case *anim.CurveTrack:
		return encodeCurveTrack(t)
	case *anim.TrackSet:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!" + TagTrackSet}
		for i, child := range t.Tracks {
			if child == nil {
				continue
			}
			n, err := EncodeTrack(child)
			if err != nil {
				return nil, fmt.Errorf("track_set[%d]: %w", i, err)
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case *anim.WeightedTracks:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!" + TagWeightedTracks}
		for i, wt := range t.Tracks {
			if wt.Track == nil {
				continue
			}
			n, err := EncodeTrack(wt.Track)
			if err != nil {
				return nil, fmt.Errorf("weighted_tracks[%d]: %w", i, err)
			}
			seq.Content = append(seq.Content, mapping("",
				"weight", numberNode(wt.Weight),
				"track", n,
			))
		}
		return seq, nil
	case *anim.SharedTrack:
		return mapping("!"+TagResource, "name", stringNode(t.Name)), nil
	default:
		return nil, fmt.Errorf("encode %T: %w", track, ErrUnknownType)
	}
}

// MarshalTrack is EncodeTrack followed by YAML serialization.
func MarshalTrack(track anim.Track) ([]byte, error) {
	n, err := EncodeTrack(track)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(n)
}

func encodeCurveTrack(t *anim.CurveTrack) (*yaml.Node, error) {
	prop := stringNode(t.Property.String())

	if fixed, ok := t.Curve.(*anim.FixedValueCurve); ok && isFixedValueTrack(t) {
		return mapping("!"+TagFixedValue,
			"property", prop,
			"value", valueNode(fixed.V),
		), nil
	}

	common := []any{
		"property", prop,
		"duration", secondsNode(t.Duration),
		"offset", secondsNode(t.Offset),
		"loop", stringNode(t.Loop.String()),
		"curve_time", stringNode(t.CurveTime.String()),
	}

	switch c := t.Curve.(type) {
	case *anim.FixedValueCurve:
		return mapping("!"+TagKeyFramed, append(common,
			"keys", keysNode([]anim.Key{{Time: 0, Value: c.V}}),
		)...), nil
	case *anim.LinearKeyFrameCurve:
		return mapping("!"+TagKeyFramed, append(common,
			"interpolation", stringNode("linear"),
			"keys", keysNode(c.Keys),
		)...), nil
	case *anim.EasedKeyFrameCurve:
		if _, ok := easings[c.EaseName]; !ok {
			return nil, fmt.Errorf("encode ease %q: %w", c.EaseName, ErrBadValue)
		}
		return mapping("!"+TagKeyFramed, append(common,
			"interpolation", stringNode("linear"),
			"ease", stringNode(c.EaseName),
			"keys", keysNode(c.Keys),
		)...), nil
	case *anim.DiscreteKeyFrameCurve:
		return mapping("!"+TagKeyFramed, append(common,
			"interpolation", stringNode("discrete"),
			"keys", keysNode(c.Keys),
		)...), nil
	case *anim.ExpressionCurve:
		return mapping("!"+TagExpression, append(common,
			"expr", stringNode(c.Source),
		)...), nil
	default:
		return nil, fmt.Errorf("encode curve %T: %w", t.Curve, ErrUnknownType)
	}
}

func isFixedValueTrack(t *anim.CurveTrack) bool {
	return t.Offset == 0 &&
		t.Loop == anim.LoopForever &&
		t.Duration == anim.FixedValueDuration &&
		t.CurveTime == anim.CurveTimeAbsolute
}

// mapping builds a mapping node from alternating keys and *yaml.Node values.
func mapping(tag string, kv ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Content = append(n.Content, stringNode(kv[i].(string)), kv[i+1].(*yaml.Node))
	}
	return n
}

func keysNode(keys []anim.Key) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, k := range keys {
		seq.Content = append(seq.Content, mapping("",
			"time", numberNode(k.Time),
			"value", valueNode(k.Value),
		))
	}
	return seq
}

func valueNode(v anim.Animatable) *yaml.Node {
	if v.Len() == 1 {
		return numberNode(v.Scalar())
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, f := range v.Values() {
		seq.Content = append(seq.Content, numberNode(f))
	}
	return seq
}

func numberNode(f float32) *yaml.Node {
	return scalarNumber(strconv.FormatFloat(float64(f), 'g', -1, 32))
}

func secondsNode(d time.Duration) *yaml.Node {
	return scalarNumber(strconv.FormatFloat(d.Seconds(), 'g', -1, 64))
}

func scalarNumber(s string) *yaml.Node {
	tag := "!!float"
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		tag = "!!int"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: s}
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
