package anim

import "time"

// WeightedTrack pairs a track with its blend weight.
type WeightedTrack struct {
	Weight float32
	Track  Track
}

// WeightedTracks blends children additively per property: the result for a
// property is the sum of weight*value over every child that contributed to
// it. Weights are not normalized.
type WeightedTracks struct {
	Tracks []WeightedTrack
}

// ValueAt returns one contribution per distinct property. The order of the
// result is not part of the contract.
func (w *WeightedTracks) ValueAt(elapsed time.Duration) []Contribution {
	var (
		order []NamedPropRef
		sums  = make(map[NamedPropRef]Animatable)
	)
	for _, wt := range w.Tracks {
		if wt.Track == nil {
			continue
		}
		for _, c := range wt.Track.ValueAt(elapsed) {
			acc, ok := sums[c.Property]
			if !ok {
				order = append(order, c.Property)
				sums[c.Property] = c.Value.Weighted(wt.Weight)
				continue
			}
			sums[c.Property] = acc.AddWeighted(wt.Weight, c.Value)
		}
	}
	if len(order) == 0 {
		return nil
	}
	out := make([]Contribution, 0, len(order))
	for _, p := range order {
		out = append(out, Contribution{Property: p, Value: sums[p]})
	}
	return out
}
