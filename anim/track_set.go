package anim

import "time"

// TrackSet is a flat union of tracks. Contributions are concatenated in child
// order; when two children target the same property both entries are kept
// and the later one wins when written.
type TrackSet struct {
	Tracks []Track
}

// NewTrackSet groups tracks in order.
func NewTrackSet(tracks ...Track) *TrackSet {
	return &TrackSet{Tracks: tracks}
}

func (s *TrackSet) ValueAt(elapsed time.Duration) []Contribution {
	var out []Contribution
	for _, track := range s.Tracks {
		if track == nil {
			continue
		}
		out = append(out, track.ValueAt(elapsed)...)
	}
	return out
}
