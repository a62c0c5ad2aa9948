// internal/status/snapshot.go
package status

import (
	"slices"
	"time"
)

// Record is one entity as reported by the status provider.
// Until is unix seconds; 0 means no expiry.
type Record struct {
	ID          string
	Name        string
	State       string
	Description string
	Until       int64
}

// Status is the classified snapshot of one entity.
// It is a value: the Store replaces it wholesale on every merge.
type Status struct {
	ID    string
	Name  string
	Group string

	State       State
	Label       string // provider state word, verbatim
	Description string // abbreviated
	Phase       Phase
	Location    string // abbreviated, travel family only

	Until time.Time
	Since time.Time

	// Time since the previous confirmed observation when Traveling was
	// first seen: the real departure happened somewhere in that window.
	TransitionUncertainty time.Duration

	LastObservedAt time.Time
}

// Snapshot is an immutable view of the Store.
// Callers MUST NOT modify it.
type Snapshot map[string]Status

// Get returns the status for id, or nil.
func (s Snapshot) Get(id string) *Status {
	st, ok := s[id]
	if !ok {
		return nil
	}
	return &st
}

// IDs returns the entity ids in ascending order.
func (s Snapshot) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// InGroups returns the entries reported by one of groups, ordered by id.
func (s Snapshot) InGroups(groups []string) []Status {
	want := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		want[g] = struct{}{}
	}
	var out []Status
	for _, id := range s.IDs() {
		st := s[id]
		if _, ok := want[st.Group]; ok {
			out = append(out, st)
		}
	}
	return out
}
