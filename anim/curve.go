package anim

import "math"

// Key is a single keyframe: a value pinned to a point in curve time.
type Key struct {
	Time  float32
	Value Animatable
}

// Curve maps curve time to a value. Implementations are pure and safe for
// concurrent use.
type Curve interface {
	Value(t float32) Animatable
}

// FixedValueCurve ignores time and always yields the same value.
type FixedValueCurve struct {
	V Animatable
}

func (c *FixedValueCurve) Value(float32) Animatable {
	return c.V
}

// LinearKeyFrameCurve interpolates linearly between keys. Keys must be sorted
// by ascending time; this is not checked at evaluation. Times before the first
// key or after the last key clamp to the respective end value.
type LinearKeyFrameCurve struct {
	Keys []Key
}

func (c *LinearKeyFrameCurve) Value(t float32) Animatable {
	before, after, ok := bracket(c.Keys, t)
	if !ok {
		return Animatable{}
	}
	if before < 0 {
		return c.Keys[0].Value
	}
	if after < 0 {
		return c.Keys[len(c.Keys)-1].Value
	}
	return Interpolate(c.Keys[before].Value, c.Keys[after].Value, progress(c.Keys[before], c.Keys[after], t))
}

// EasedKeyFrameCurve behaves like LinearKeyFrameCurve but remaps the progress
// within each segment through Ease before interpolating.
type EasedKeyFrameCurve struct {
	Keys     []Key
	EaseName string
	Ease     func(float64) float64
}

func (c *EasedKeyFrameCurve) Value(t float32) Animatable {
	before, after, ok := bracket(c.Keys, t)
	if !ok {
		return Animatable{}
	}
	if before < 0 {
		return c.Keys[0].Value
	}
	if after < 0 {
		return c.Keys[len(c.Keys)-1].Value
	}
	p := progress(c.Keys[before], c.Keys[after], t)
	if c.Ease != nil {
		p = float32(c.Ease(float64(p)))
	}
	return Interpolate(c.Keys[before].Value, c.Keys[after].Value, p)
}

// DiscreteKeyFrameCurve steps between key values without interpolation. Time
// is read as normalized progress: key i covers [i/n, (i+1)/n). Key times are
// ignored.
type DiscreteKeyFrameCurve struct {
	Keys []Key
}

func (c *DiscreteKeyFrameCurve) Value(t float32) Animatable {
	n := len(c.Keys)
	if n == 0 {
		return Animatable{}
	}
	f := math.Floor(float64(t) * float64(n))
	switch {
	case math.IsNaN(f) || f < 0:
		f = 0
	case f > float64(n-1):
		f = float64(n - 1)
	}
	return c.Keys[int(f)].Value
}

// bracket locates the last key at or before t and the first key after t. A
// missing side is reported as -1.
func bracket(keys []Key, t float32) (before, after int, ok bool) {
	if len(keys) == 0 {
		return -1, -1, false
	}
	before, after = -1, -1
	for i := range keys {
		if keys[i].Time > t {
			break
		}
		before = i
	}
	for i := range keys {
		if keys[i].Time > t {
			after = i
			break
		}
	}
	return before, after, true
}

func progress(a, b Key, t float32) float32 {
	d := b.Time - a.Time
	if d <= 0 {
		return 1
	}
	return (t - a.Time) / d
}
