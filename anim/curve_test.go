package anim

import (
	"math"
	"testing"
)

const tolerance = 1e-5

func approxEqual(a, b Animatable) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if math.Abs(float64(a.At(i)-b.At(i))) > tolerance {
			return false
		}
	}
	return true
}

func floatKeys(pairs ...float32) []Key {
	keys := make([]Key, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		keys = append(keys, Key{Time: pairs[i], Value: Float(pairs[i+1])})
	}
	return keys
}

func TestAnimatableAlgebra(t *testing.T) {
	cases := []struct {
		name string
		got  Animatable
		want Animatable
	}{
		{"interpolate_scalar", Interpolate(Float(0), Float(10), 0.25), Float(2.5)},
		{"interpolate_vec3", Interpolate(Vec3(0, 0, 0), Vec3(2, 4, 8), 0.5), Vec3(1, 2, 4)},
		{"interpolate_extrapolates", Interpolate(Float(0), Float(1), 2), Float(2)},
		{"interpolate_truncates", Interpolate(Vec4(1, 1, 1, 1), Vec3(3, 3, 3), 0.5), Vec3(2, 2, 2)},
		{"weighted", Vec3(1, 2, 3).Weighted(0.5), Vec3(0.5, 1, 1.5)},
		{"add_weighted", Float(1).AddWeighted(2, Float(3)), Float(7)},
		{"add_weighted_truncates", Vec4(1, 1, 1, 1).AddWeighted(1, Float(1)), Float(2)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !approxEqual(c.got, c.want) {
				t.Fatalf("got %v, want %v", c.got, c.want)
			}
		})
	}
}

func TestAnimatableValueSemantics(t *testing.T) {
	if Vec3(1, 2, 3) != NewAnimatable(1, 2, 3) {
		t.Fatalf("expected equal values to compare equal")
	}
	if Float(1) == NewAnimatable(1, 0) {
		t.Fatalf("values of different length must differ")
	}
	if got := NewAnimatable(1, 2, 3, 4, 5).Len(); got != MaxComponents {
		t.Fatalf("expected extra components dropped, len=%d", got)
	}
	v := Vec3(1, 2, 3)
	vals := v.Values()
	vals[0] = 99
	if v.At(0) != 1 {
		t.Fatalf("Values must return a copy")
	}
	if v.At(7) != 0 || v.At(-1) != 0 {
		t.Fatalf("out of range components should read as zero")
	}
}

func TestWeightedSumOrderIndependent(t *testing.T) {
	parts := []struct {
		w float32
		v Animatable
	}{
		{0.1, Vec3(10, 1, 3)},
		{0.7, Vec3(-4, 2.5, 9)},
		{0.33, Vec3(100, 0.001, -7)},
		{1.5, Vec3(0.2, 0.4, 0.8)},
	}
	forward := parts[0].v.Weighted(parts[0].w)
	for _, p := range parts[1:] {
		forward = forward.AddWeighted(p.w, p.v)
	}
	last := len(parts) - 1
	backward := parts[last].v.Weighted(parts[last].w)
	for i := last - 1; i >= 0; i-- {
		backward = backward.AddWeighted(parts[i].w, parts[i].v)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(float64(forward.At(i)-backward.At(i))) > 1e-3 {
			t.Fatalf("component %d: forward %v backward %v", i, forward, backward)
		}
	}
}

func TestLinearKeyFrameBoundaries(t *testing.T) {
	curve := &LinearKeyFrameCurve{Keys: floatKeys(0, 0, 1, 1)}
	cases := []struct {
		t    float32
		want float32
	}{
		{-0.1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.1, 1},
	}
	for _, c := range cases {
		if got := curve.Value(c.t); !approxEqual(got, Float(c.want)) {
			t.Fatalf("value(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestLinearKeyFrameMultiKey(t *testing.T) {
	curve := &LinearKeyFrameCurve{Keys: floatKeys(0, 0, 10, 1, 20, 0.5, 21, 1, 22, 5)}
	cases := []struct {
		t    float32
		want float32
	}{
		{0.5, 0.05},
		{20.5, 0.75},
		{21.5, 3.0},
		{30, 5.0},
	}
	for _, c := range cases {
		if got := curve.Value(c.t); !approxEqual(got, Float(c.want)) {
			t.Fatalf("value(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestLinearKeyFrameDegenerate(t *testing.T) {
	single := &LinearKeyFrameCurve{Keys: []Key{{Time: 3, Value: Vec3(1, 2, 3)}}}
	for _, tm := range []float32{-10, 0, 3, 100} {
		if got := single.Value(tm); got != Vec3(1, 2, 3) {
			t.Fatalf("single key value(%v) = %v", tm, got)
		}
	}
	empty := &LinearKeyFrameCurve{}
	if got := empty.Value(1); !got.IsZero() {
		t.Fatalf("empty curve should yield a zero-length value, got %v", got)
	}
}

func TestLinearKeyFrameVectors(t *testing.T) {
	curve := &LinearKeyFrameCurve{Keys: []Key{
		{Time: 0, Value: NewAnimatable(0, 10)},
		{Time: 1, Value: NewAnimatable(-2, 0)},
	}}
	if got := curve.Value(0.5); !approxEqual(got, NewAnimatable(-1, 5)) {
		t.Fatalf("got %v", got)
	}
}

func TestEasedKeyFrame(t *testing.T) {
	curve := &EasedKeyFrameCurve{
		Keys: floatKeys(0, 0, 1, 1, 2, 3),
		Ease: func(p float64) float64 { return p * p },
	}
	cases := []struct {
		t    float32
		want float32
	}{
		{-1, 0},
		{0.5, 0.25},
		{1, 1},
		{1.5, 1.5},
		{9, 3},
	}
	for _, c := range cases {
		if got := curve.Value(c.t); !approxEqual(got, Float(c.want)) {
			t.Fatalf("value(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestDiscreteKeyFrame(t *testing.T) {
	curve := &DiscreteKeyFrameCurve{Keys: floatKeys(0, 1, 0, 2, 0, 3, 0, 4)}
	cases := []struct {
		t    float32
		want float32
	}{
		{-1, 1},
		{0, 1},
		{0.24, 1},
		{0.26, 2},
		{0.5, 3},
		{0.99, 4},
		{1, 4},
		{5, 4},
	}
	for _, c := range cases {
		if got := curve.Value(c.t); got != Float(c.want) {
			t.Fatalf("value(%v) = %v, want %v", c.t, got, c.want)
		}
	}
	nan := float32(math.NaN())
	if got := curve.Value(nan); got != Float(1) {
		t.Fatalf("NaN time should clamp to the first key, got %v", got)
	}
}

func TestFixedValueCurve(t *testing.T) {
	c := &FixedValueCurve{V: Vec4(1, 0, 0, 1)}
	for _, tm := range []float32{-5, 0, 1e6} {
		if got := c.Value(tm); got != Vec4(1, 0, 0, 1) {
			t.Fatalf("value(%v) = %v", tm, got)
		}
	}
}
