package anim

import "time"

// FixedValueDuration is the duration given to fixed-value tracks; they loop
// forever over it so the value holds indefinitely.
const FixedValueDuration = 7 * 24 * time.Hour

// CurveTrack animates one property with one curve.
type CurveTrack struct {
	Curve     Curve
	Offset    time.Duration
	Property  NamedPropRef
	Loop      Loop
	Duration  time.Duration
	CurveTime CurveTime
}

// NewFixedValue returns a track that yields value on every tick.
func NewFixedValue(property NamedPropRef, value Animatable) *CurveTrack {
	return &CurveTrack{
		Curve:     &FixedValueCurve{V: value},
		Property:  property,
		Loop:      LoopForever,
		Duration:  FixedValueDuration,
		CurveTime: CurveTimeAbsolute,
	}
}

// ValueAt returns nothing before the offset and, for LoopOnce, after the
// duration has elapsed.
func (t *CurveTrack) ValueAt(elapsed time.Duration) []Contribution {
	ct, ok := t.SampleTime(elapsed)
	if !ok {
		return nil
	}
	return []Contribution{{Property: t.Property, Value: t.Curve.Value(ct)}}
}

// SampleTime maps elapsed track time to the curve's time domain. ok is false
// when the track contributes nothing at that time.
func (t *CurveTrack) SampleTime(elapsed time.Duration) (float32, bool) {
	local := elapsed - t.Offset
	if local < 0 {
		return 0, false
	}
	if local > t.Duration {
		if t.Loop != LoopForever {
			return 0, false
		}
		if t.Duration > 0 {
			local %= t.Duration
		} else {
			local = 0
		}
	}
	switch t.CurveTime {
	case CurveTimeRelative:
		if t.Duration <= 0 {
			return 0, true
		}
		return float32(float64(local) / float64(t.Duration)), true
	default:
		return float32(local.Seconds()), true
	}
}
