package prefabs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/milk9111/keyframe/anim"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// DecodeValue reads an animatable value: a number, a list of 1..4 numbers, or
// a colour string ("#rgb", "#rrggbb", "#rrggbbaa" or an SVG colour name)
// which becomes an RGBA 4-vector in [0, 1].
func DecodeValue(n *yaml.Node) (anim.Animatable, error) {
	n = resolveAlias(n)
	if n == nil {
		return anim.Animatable{}, fmt.Errorf("value: %w", ErrMissingField)
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if tag := n.ShortTag(); tag == "!!str" {
			return decodeColor(n.Value)
		}
		f, err := decodeFloat(n)
		if err != nil {
			return anim.Animatable{}, err
		}
		return anim.Float(f), nil
	case yaml.SequenceNode:
		if len(n.Content) == 0 || len(n.Content) > anim.MaxComponents {
			return anim.Animatable{}, fmt.Errorf("value at line %d: %d components, want 1..%d: %w", n.Line, len(n.Content), anim.MaxComponents, ErrBadValue)
		}
		vals := make([]float32, len(n.Content))
		for i, c := range n.Content {
			f, err := decodeFloat(resolveAlias(c))
			if err != nil {
				return anim.Animatable{}, fmt.Errorf("value[%d]: %w", i, err)
			}
			vals[i] = f
		}
		return anim.NewAnimatable(vals...), nil
	default:
		return anim.Animatable{}, fmt.Errorf("value at line %d: want number, list or colour: %w", n.Line, ErrBadValue)
	}
}

func decodeFloat(n *yaml.Node) (float32, error) {
	if n == nil || n.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("want number: %w", ErrBadValue)
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return 0, fmt.Errorf("line %d: %q is not a number: %w", n.Line, n.Value, ErrBadValue)
	}
	return float32(f), nil
}

func decodeColor(s string) (anim.Animatable, error) {
	s = strings.TrimSpace(s)
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return anim.Vec4(
			float32(named.R)/255,
			float32(named.G)/255,
			float32(named.B)/255,
			float32(named.A)/255,
		), nil
	}
	if !strings.HasPrefix(s, "#") {
		return anim.Animatable{}, fmt.Errorf("colour %q: %w", s, ErrBadValue)
	}

	alpha := 1.0
	hex := s
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return anim.Animatable{}, fmt.Errorf("colour %q: %w", s, ErrBadValue)
		}
		alpha = float64(a) / 255
		hex = s[:7]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return anim.Animatable{}, fmt.Errorf("colour %q: %v: %w", s, err, ErrBadValue)
	}
	return anim.Vec4(float32(c.R), float32(c.G), float32(c.B), float32(alpha)), nil
}
