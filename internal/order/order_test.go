package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tamzrod/rosterwatch/internal/status"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func countdown(in time.Duration) Key {
	return Key{Tier: status.TierCountdown, Countdown: true, Until: now.Add(in)}
}

func idle(since time.Duration) Key {
	return Key{Tier: status.TierDefault, Since: now.Add(since)}
}

func travel(tier status.Tier, loc string) Key {
	return Key{Tier: tier, Group: loc}
}

func TestCompare_TierFirst(t *testing.T) {
	require.Negative(t, Compare(countdown(time.Hour), idle(0)))
	require.Negative(t, Compare(idle(0), travel(status.TierOutbound, "AAA")))
	require.Negative(t, Compare(travel(status.TierOutbound, "ZZZ"), travel(status.TierArrived, "AAA")))
	require.Negative(t, Compare(travel(status.TierArrived, "ZZZ"), travel(status.TierReturning, "AAA")))
}

func TestCompare_TravelGroupAlphabetical(t *testing.T) {
	require.Negative(t, Compare(travel(status.TierArrived, "CAN"), travel(status.TierArrived, "JPN")))
	require.Positive(t, Compare(travel(status.TierArrived, "UK"), travel(status.TierArrived, "JPN")))
}

func TestCompare_GroupIgnoredOutsideTravel(t *testing.T) {
	a := Key{Tier: status.TierDefault, Group: "Z", Since: now}
	b := Key{Tier: status.TierDefault, Group: "A", Since: now.Add(-time.Minute)}
	require.Negative(t, Compare(a, b), "since decides, not group")
}

func TestCompare_CountdownSoonestFirst(t *testing.T) {
	require.Negative(t, Compare(countdown(10*time.Second), countdown(20*time.Second)))
	require.Zero(t, Compare(countdown(12*time.Second), countdown(12*time.Second)))
}

func TestCompare_SinceMostRecentFirst(t *testing.T) {
	require.Negative(t, Compare(idle(-time.Second), idle(-time.Hour)))
	require.Positive(t, Compare(idle(-time.Hour), idle(-time.Second)))
}

func TestSort_Ordering(t *testing.T) {
	keys := map[string]Key{
		"ret":   travel(status.TierReturning, "MEX"),
		"idle1": idle(-time.Hour),
		"idle2": idle(-time.Minute),
		"cd30":  countdown(30 * time.Second),
		"cd10":  countdown(10 * time.Second),
		"outUK": travel(status.TierOutbound, "UK"),
		"outCA": travel(status.TierOutbound, "CAN"),
	}
	ids := []string{"ret", "idle1", "idle2", "cd30", "cd10", "outUK", "outCA"}

	got := Sort(ids, keys)
	require.Equal(t, []string{"cd10", "cd30", "idle2", "idle1", "outCA", "outUK", "ret"}, got)
	require.Equal(t, "ret", ids[0], "input must not be modified")
}

// Two rows that tie on every key keep the order they had on the previous
// tick, whichever that was.
func TestSort_TiesKeepPreviousOrder(t *testing.T) {
	keys := map[string]Key{
		"x":     countdown(12 * time.Second),
		"y":     countdown(12 * time.Second),
		"later": countdown(time.Minute),
	}

	require.Equal(t, []string{"x", "y", "later"}, Sort([]string{"later", "x", "y"}, keys))
	require.Equal(t, []string{"y", "x", "later"}, Sort([]string{"y", "later", "x"}, keys))

	// Re-sorting a sorted list is a no-op across consecutive ticks.
	first := Sort([]string{"y", "later", "x"}, keys)
	require.Equal(t, first, Sort(first, keys))
}

func TestSort_UnkeyedLast(t *testing.T) {
	keys := map[string]Key{
		"a": idle(0),
		"b": countdown(time.Second),
	}
	got := Sort([]string{"u2", "a", "u1", "b"}, keys)
	require.Equal(t, []string{"b", "a", "u2", "u1"}, got)
}

func TestKeyOf(t *testing.T) {
	p := status.Priority{Tier: status.TierCountdown, Until: now}
	k := KeyOf(p)
	require.True(t, k.Countdown)
	require.Equal(t, now, k.Until)

	k = KeyOf(status.Priority{Tier: status.TierArrived, Group: "JPN"})
	require.False(t, k.Countdown)
	require.Equal(t, "JPN", k.Group)
}
