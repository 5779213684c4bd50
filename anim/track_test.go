package anim

import (
	"sort"
	"sync"
	"testing"
	"time"
)

var propX = NewNamedPropRef(This, "x")
var propY = NewNamedPropRef(This, "y")

func rampTrack(loop Loop) *CurveTrack {
	return &CurveTrack{
		Curve:     &LinearKeyFrameCurve{Keys: floatKeys(0, 0, 1, 1)},
		Property:  propX,
		Loop:      loop,
		Duration:  time.Second,
		CurveTime: CurveTimeAbsolute,
	}
}

func single(t *testing.T, out []Contribution) Contribution {
	t.Helper()
	if len(out) != 1 {
		t.Fatalf("expected one contribution, got %v", out)
	}
	return out[0]
}

func TestCurveTrackSamples(t *testing.T) {
	track := rampTrack(LoopOnce)
	cases := []struct {
		at   time.Duration
		want float32
	}{
		{0, 0},
		{100 * time.Millisecond, 0.1},
		{600 * time.Millisecond, 0.6},
		{time.Second, 1},
	}
	for _, c := range cases {
		got := single(t, track.ValueAt(c.at))
		if got.Property != propX || !approxEqual(got.Value, Float(c.want)) {
			t.Fatalf("at %v: got %v, want x=%v", c.at, got, c.want)
		}
	}
}

func TestCurveTrackLoopForeverWraps(t *testing.T) {
	track := rampTrack(LoopForever)
	wrapped := single(t, track.ValueAt(1600*time.Millisecond))
	direct := single(t, track.ValueAt(600*time.Millisecond))
	if !approxEqual(wrapped.Value, direct.Value) {
		t.Fatalf("1.6s = %v, 0.6s = %v", wrapped.Value, direct.Value)
	}
}

func TestCurveTrackLoopOnceExhausts(t *testing.T) {
	track := rampTrack(LoopOnce)
	if out := track.ValueAt(1001 * time.Millisecond); len(out) != 0 {
		t.Fatalf("expected no contribution past duration, got %v", out)
	}
}

func TestCurveTrackOffset(t *testing.T) {
	track := rampTrack(LoopOnce)
	track.Offset = 500 * time.Millisecond

	if out := track.ValueAt(200 * time.Millisecond); len(out) != 0 {
		t.Fatalf("expected nothing before the offset, got %v", out)
	}
	got := single(t, track.ValueAt(750*time.Millisecond))
	if !approxEqual(got.Value, Float(0.25)) {
		t.Fatalf("got %v, want 0.25", got.Value)
	}
}

func TestCurveTrackRelative(t *testing.T) {
	track := &CurveTrack{
		Curve:     &LinearKeyFrameCurve{Keys: floatKeys(0, 0, 1, 10)},
		Property:  propX,
		Loop:      LoopForever,
		Duration:  4 * time.Second,
		CurveTime: CurveTimeRelative,
	}
	cases := []struct {
		at   time.Duration
		want float32
	}{
		{time.Second, 2.5},
		{2 * time.Second, 5},
		{4 * time.Second, 10},
		{5 * time.Second, 2.5},
	}
	for _, c := range cases {
		got := single(t, track.ValueAt(c.at))
		if !approxEqual(got.Value, Float(c.want)) {
			t.Fatalf("at %v: got %v, want %v", c.at, got.Value, c.want)
		}
	}
}

func TestCurveTrackZeroDuration(t *testing.T) {
	cases := []struct {
		name      string
		loop      Loop
		curveTime CurveTime
		at        time.Duration
		wantCount int
	}{
		{"once_at_zero", LoopOnce, CurveTimeRelative, 0, 1},
		{"once_after", LoopOnce, CurveTimeRelative, time.Second, 0},
		{"forever_relative", LoopForever, CurveTimeRelative, time.Second, 1},
		{"forever_absolute", LoopForever, CurveTimeAbsolute, time.Second, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			track := &CurveTrack{
				Curve:     &LinearKeyFrameCurve{Keys: floatKeys(0, 3, 1, 4)},
				Property:  propX,
				Loop:      c.loop,
				CurveTime: c.curveTime,
			}
			out := track.ValueAt(c.at)
			if len(out) != c.wantCount {
				t.Fatalf("expected %d contributions, got %v", c.wantCount, out)
			}
			for _, o := range out {
				if o.Value != Float(3) {
					t.Fatalf("expected the value at time 0, got %v", o.Value)
				}
			}
		})
	}
}

func TestNewFixedValue(t *testing.T) {
	track := NewFixedValue(propY, Float(0.2))
	for _, at := range []time.Duration{0, time.Hour, 30 * 24 * time.Hour} {
		got := single(t, track.ValueAt(at))
		if got.Property != propY || got.Value != Float(0.2) {
			t.Fatalf("at %v: got %v", at, got)
		}
	}
	if track.Loop != LoopForever || track.Duration != FixedValueDuration || track.CurveTime != CurveTimeAbsolute {
		t.Fatalf("unexpected fixed value track settings: %+v", track)
	}
}

func TestTrackSetUnion(t *testing.T) {
	set := NewTrackSet(
		NewFixedValue(propX, Float(0.5)),
		NewFixedValue(propY, Float(0.2)),
		NewFixedValue(propX, Float(0.9)),
	)
	out := set.ValueAt(0)
	want := []Contribution{
		{Property: propX, Value: Float(0.5)},
		{Property: propY, Value: Float(0.2)},
		{Property: propX, Value: Float(0.9)},
	}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("entry %d: got %v, want %v", i, out[i], want[i])
		}
	}

	// Writing in list order leaves the later contribution in place.
	stored := map[NamedPropRef]Animatable{}
	for _, c := range out {
		stored[c.Property] = c.Value
	}
	if stored[propX] != Float(0.9) {
		t.Fatalf("expected last writer to win, got %v", stored[propX])
	}
}

func TestTrackSetSkipsExhaustedChildren(t *testing.T) {
	set := NewTrackSet(rampTrack(LoopOnce), NewFixedValue(propY, Float(1)), nil)
	out := set.ValueAt(2 * time.Second)
	if len(out) != 1 || out[0].Property != propY {
		t.Fatalf("expected only the fixed value, got %v", out)
	}
}

func sortedByKey(out []Contribution) []Contribution {
	sorted := append([]Contribution(nil), out...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Property.Key < sorted[j].Property.Key })
	return sorted
}

func TestWeightedTracksBlend(t *testing.T) {
	tracks := []WeightedTrack{
		{Weight: 0.1, Track: NewFixedValue(propX, Float(10))},
		{Weight: 0.5, Track: NewFixedValue(propY, Float(10))},
		{Weight: 0.2, Track: NewFixedValue(propY, Float(100))},
	}
	check := func(t *testing.T, wt *WeightedTracks) {
		t.Helper()
		out := sortedByKey(wt.ValueAt(0))
		if len(out) != 2 {
			t.Fatalf("expected two properties, got %v", out)
		}
		if out[0].Property != propX || !approxEqual(out[0].Value, Float(1)) {
			t.Fatalf("x: got %v", out[0])
		}
		if out[1].Property != propY || !approxEqual(out[1].Value, Float(25)) {
			t.Fatalf("y: got %v", out[1])
		}
	}

	t.Run("declared_order", func(t *testing.T) {
		check(t, &WeightedTracks{Tracks: tracks})
	})
	t.Run("reversed_order", func(t *testing.T) {
		reversed := make([]WeightedTrack, len(tracks))
		for i := range tracks {
			reversed[len(tracks)-1-i] = tracks[i]
		}
		check(t, &WeightedTracks{Tracks: reversed})
	})
}

func TestWeightedTracksOmitsSilentProperties(t *testing.T) {
	wt := &WeightedTracks{Tracks: []WeightedTrack{
		{Weight: 1, Track: rampTrack(LoopOnce)},
		{Weight: 2, Track: NewFixedValue(propY, Float(3))},
	}}
	out := wt.ValueAt(5 * time.Second)
	if len(out) != 1 || out[0].Property != propY || out[0].Value != Float(6) {
		t.Fatalf("expected only y=6, got %v", out)
	}
	empty := &WeightedTracks{}
	if out := empty.ValueAt(0); len(out) != 0 {
		t.Fatalf("expected nothing, got %v", out)
	}
}

func TestWeightedTracksVectors(t *testing.T) {
	pos := NewNamedPropRef(Named("camera"), "pos")
	wt := &WeightedTracks{Tracks: []WeightedTrack{
		{Weight: 0.25, Track: NewFixedValue(pos, Vec3(4, 8, 12))},
		{Weight: 0.75, Track: NewFixedValue(pos, Vec3(0, 4, 0))},
	}}
	got := single(t, wt.ValueAt(0))
	if !approxEqual(got.Value, Vec3(1, 5, 3)) {
		t.Fatalf("got %v", got.Value)
	}
}

func TestLibrarySharedTracks(t *testing.T) {
	lib := NewLibrary()
	set := NewTrackSet(NewFixedValue(propX, Float(1)))
	lib.Register("idle", set)

	a, err := lib.Share("idle")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	b, err := lib.Share("idle")
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if a.Set != b.Set {
		t.Fatalf("shared handles must point at the same set")
	}
	if got := single(t, a.ValueAt(0)); got.Value != Float(1) {
		t.Fatalf("got %v", got)
	}
	if _, err := lib.Share("missing"); err == nil {
		t.Fatalf("expected an error for a missing name")
	}
	if names := lib.Names(); len(names) != 1 || names[0] != "idle" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestConcurrentEvaluation(t *testing.T) {
	lib := NewLibrary()
	lib.Register("walk", NewTrackSet(rampTrack(LoopForever), NewFixedValue(propY, Float(2))))
	shared, err := lib.Share("walk")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				at := time.Duration(i*100+j) * time.Millisecond
				if out := shared.ValueAt(at); len(out) != 2 {
					t.Errorf("at %v: got %v", at, out)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
