package anim

import (
	"fmt"
	"strings"
)

// MaxComponents is the widest value an Animatable can hold.
const MaxComponents = 4

// Animatable is a small fixed-shape numeric vector: a scalar, a 3-vector or a
// 4-vector in practice, though any length up to MaxComponents is accepted.
// It is an immutable value type and compares with ==.
type Animatable struct {
	v [MaxComponents]float32
	n uint8
}

// NewAnimatable builds a value from its components. Components past
// MaxComponents are dropped.
func NewAnimatable(values ...float32) Animatable {
	var a Animatable
	n := min(len(values), MaxComponents)
	copy(a.v[:n], values)
	a.n = uint8(n)
	return a
}

// Float returns a scalar Animatable.
func Float(v float32) Animatable {
	return Animatable{v: [MaxComponents]float32{v}, n: 1}
}

// Vec3 returns a 3-component Animatable.
func Vec3(x, y, z float32) Animatable {
	return Animatable{v: [MaxComponents]float32{x, y, z}, n: 3}
}

// Vec4 returns a 4-component Animatable.
func Vec4(x, y, z, w float32) Animatable {
	return Animatable{v: [MaxComponents]float32{x, y, z, w}, n: 4}
}

// Len reports the number of components.
func (a Animatable) Len() int {
	return int(a.n)
}

// IsZero reports whether the value has no components at all.
func (a Animatable) IsZero() bool {
	return a.n == 0
}

// At returns component i, or 0 when i is out of range.
func (a Animatable) At(i int) float32 {
	if i < 0 || i >= int(a.n) {
		return 0
	}
	return a.v[i]
}

// Scalar returns the first component.
func (a Animatable) Scalar() float32 {
	return a.At(0)
}

// Values returns a copy of the components.
func (a Animatable) Values() []float32 {
	out := make([]float32, a.n)
	copy(out, a.v[:a.n])
	return out
}

// Interpolate blends a and b elementwise as a*(1-p) + b*p. The result is as
// long as the shorter input; p is not clamped.
func Interpolate(a, b Animatable, p float32) Animatable {
	n := min(a.n, b.n)
	out := Animatable{n: n}
	for i := uint8(0); i < n; i++ {
		out.v[i] = a.v[i]*(1-p) + b.v[i]*p
	}
	return out
}

// Weighted scales every component by w.
func (a Animatable) Weighted(w float32) Animatable {
	out := Animatable{n: a.n}
	for i := uint8(0); i < a.n; i++ {
		out.v[i] = a.v[i] * w
	}
	return out
}

// AddWeighted returns a + w*other, truncated to the shorter length.
func (a Animatable) AddWeighted(w float32, other Animatable) Animatable {
	n := min(a.n, other.n)
	out := Animatable{n: n}
	for i := uint8(0); i < n; i++ {
		out.v[i] = a.v[i] + w*other.v[i]
	}
	return out
}

func (a Animatable) String() string {
	if a.n == 1 {
		return fmt.Sprintf("%g", a.v[0])
	}
	parts := make([]string, a.n)
	for i := uint8(0); i < a.n; i++ {
		parts[i] = fmt.Sprintf("%g", a.v[i])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
