package anim

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrUnknownResource is returned when a shared track name is not registered.
var ErrUnknownResource = errors.New("anim: unknown shared track")

// Library holds named, reusable track sets. Entries are read-only once
// registered; many SharedTrack handles may point at the same set.
type Library struct {
	mu   sync.RWMutex
	sets map[string]*TrackSet
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{sets: make(map[string]*TrackSet)}
}

// Register stores set under name, replacing any previous entry. Handles
// obtained earlier keep pointing at the old set.
func (l *Library) Register(name string, set *TrackSet) {
	if l == nil || set == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sets == nil {
		l.sets = make(map[string]*TrackSet)
	}
	l.sets[name] = set
}

// Lookup returns the set registered under name.
func (l *Library) Lookup(name string) (*TrackSet, bool) {
	if l == nil {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	set, ok := l.sets[name]
	return set, ok
}

// Names lists registered names in sorted order.
func (l *Library) Names() []string {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.sets))
	for name := range l.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Share returns a handle to the set registered under name.
func (l *Library) Share(name string) (*SharedTrack, error) {
	set, ok := l.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return &SharedTrack{Name: name, Set: set}, nil
}

// SharedTrack is a reference to a library track set. It evaluates the shared
// set directly and never copies it.
type SharedTrack struct {
	Name string
	Set  *TrackSet
}

func (s *SharedTrack) ValueAt(elapsed time.Duration) []Contribution {
	if s == nil || s.Set == nil {
		return nil
	}
	return s.Set.ValueAt(elapsed)
}
