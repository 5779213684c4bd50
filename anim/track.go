// Package anim evaluates declarative animation tracks. A Track is a stateless
// generator: given the time elapsed since it was activated it returns the
// property values it contributes at that moment. Curves supply the values,
// tracks add timing, and TrackSet / WeightedTracks compose other tracks.
package anim

import "time"

// Contribution is one property value produced by a track.
type Contribution struct {
	Property NamedPropRef
	Value    Animatable
}

// Track produces contributions for a given elapsed time. Implementations do
// not keep time themselves and are safe for concurrent evaluation.
type Track interface {
	ValueAt(elapsed time.Duration) []Contribution
}

// Loop decides what a track does once its duration has passed.
type Loop uint8

const (
	// LoopOnce stops contributing after the duration.
	LoopOnce Loop = iota
	// LoopForever wraps around modulo the duration.
	LoopForever
)

func (l Loop) String() string {
	if l == LoopForever {
		return "forever"
	}
	return "once"
}

// CurveTime chooses the time domain a curve is sampled in.
type CurveTime uint8

const (
	// CurveTimeAbsolute samples the curve in seconds since the track offset;
	// keys are expected between 0 and the duration.
	CurveTimeAbsolute CurveTime = iota
	// CurveTimeRelative samples normalized progress; keys are expected
	// between 0 and 1.
	CurveTimeRelative
)

func (c CurveTime) String() string {
	if c == CurveTimeRelative {
		return "relative"
	}
	return "absolute"
}
