package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_MergeReplacesOnlyNamedEntries(t *testing.T) {
	s := NewStore()
	s.Merge([]Status{
		{ID: "a", Group: "g1", State: StateHealthy},
		{ID: "b", Group: "g2", State: StateHealthy},
	})

	s.Merge([]Status{{ID: "a", Group: "g1", State: StateConfined}})

	a, ok := s.Get("a")
	require.True(t, ok)
	require.Equal(t, StateConfined, a.State)

	b, ok := s.Get("b")
	require.True(t, ok)
	require.Equal(t, StateHealthy, b.State)
	require.Equal(t, 2, s.Len())
}

func TestStore_SnapshotIsImmutable(t *testing.T) {
	s := NewStore()
	s.Merge([]Status{{ID: "a", State: StateHealthy, Since: t0}})

	before := s.Snapshot()
	s.Merge([]Status{{ID: "a", State: StateTraveling, Since: t0.Add(time.Minute)}})

	require.Equal(t, StateHealthy, before["a"].State, "earlier snapshot must not observe later merges")
	require.Equal(t, StateTraveling, s.Snapshot()["a"].State)
}

func TestStore_EmptyMergeIsNoop(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()

	s.Merge(nil)

	require.Empty(t, snap)
	require.Equal(t, 0, s.Len())
}

func TestSnapshot_InGroupsOrderedByID(t *testing.T) {
	snap := Snapshot{
		"c": {ID: "c", Group: "g1"},
		"a": {ID: "a", Group: "g1"},
		"b": {ID: "b", Group: "g2"},
	}

	got := snap.InGroups([]string{"g1"})

	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].ID)
	require.Equal(t, "c", got[1].ID)
	require.Nil(t, snap.Get("zzz"))
	require.Equal(t, []string{"a", "b", "c"}, snap.IDs())
}
