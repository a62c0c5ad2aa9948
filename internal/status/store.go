// internal/status/store.go
package status

import (
	"sync"
	"sync/atomic"
)

// Store maps entity id to its latest Status.
//
// Single writer, many readers. Every Merge builds a new map and publishes
// it atomically, so a Snapshot taken by a reader never changes underneath
// it and never shows half a merge. Entries are never deleted.
type Store struct {
	mu  sync.Mutex // serializes writers
	cur atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	s := &Store{}
	empty := Snapshot{}
	s.cur.Store(&empty)
	return s
}

// Snapshot returns the current immutable view.
func (s *Store) Snapshot() Snapshot {
	return *s.cur.Load()
}

// Get returns a copy of the status for id.
func (s *Store) Get(id string) (Status, bool) {
	st, ok := s.Snapshot()[id]
	return st, ok
}

// Len returns the number of known entities.
func (s *Store) Len() int {
	return len(s.Snapshot())
}

// Merge replaces the given entries in one step.
// Entries not named in batch are carried over untouched.
func (s *Store) Merge(batch []Status) {
	if len(batch) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := *s.cur.Load()
	next := make(Snapshot, len(old)+len(batch))
	for id, st := range old {
		next[id] = st
	}
	for _, st := range batch {
		next[st.ID] = st
	}
	s.cur.Store(&next)
}
