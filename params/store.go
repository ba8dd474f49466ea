package params

import "sync"

// Store is the single owner of the live parameter set. Writers submit events;
// the frame loop reads immutable snapshots. Concurrent writers resolve as
// last-write-wins.
type Store struct {
	mu       sync.RWMutex
	current  ParameterSet
	ranges   Ranges
	version  uint64
	watchers []func(ParameterSet)
}

// NewStore creates a store seeded with initial, clamped to ranges.
func NewStore(initial ParameterSet, ranges Ranges) *Store {
	return &Store{
		current: ranges.Clamp(initial),
		ranges:  ranges,
	}
}

// Apply applies an event. Rejected events leave the set untouched.
func (s *Store) Apply(ev Event) error {
	s.mu.Lock()
	next := s.current
	if err := ev.apply(&next, s.ranges); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = next
	s.version++
	watchers := s.watchers
	s.mu.Unlock()

	for _, w := range watchers {
		w(next)
	}
	return nil
}

// Snapshot returns a copy of the current set.
func (s *Store) Snapshot() ParameterSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Version increments once per accepted event.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Ranges returns the ranges the store clamps against.
func (s *Store) Ranges() Ranges {
	return s.ranges
}

// Watch registers fn to be called with the new set after every accepted event.
// fn runs on the writer's goroutine and must not call Apply.
func (s *Store) Watch(fn func(ParameterSet)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, fn)
}
