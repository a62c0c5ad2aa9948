// internal/order/order.go
package order

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/tamzrod/rosterwatch/internal/status"
)

// Key is the sort key of one display row.
type Key struct {
	Tier      status.Tier
	Group     string // travel tiers only
	Countdown bool
	Until     time.Time
	Since     time.Time
}

// KeyOf derives the sort key from a priority.
func KeyOf(p status.Priority) Key {
	return Key{
		Tier:      p.Tier,
		Group:     p.Group,
		Countdown: p.Countdown(),
		Until:     p.Until,
		Since:     p.Since,
	}
}

// Compare orders a before b when it returns < 0.
//
//  1. tier ascending
//  2. group alphabetically, both rows in a travel tier
//  3. countdown: until ascending; otherwise since descending
//
// Equal keys compare 0 so a stable sort keeps their previous order.
func Compare(a, b Key) int {
	if c := cmp.Compare(a.Tier, b.Tier); c != 0 {
		return c
	}
	if a.Tier.Travel() && b.Tier.Travel() {
		if c := strings.Compare(a.Group, b.Group); c != 0 {
			return c
		}
	}
	if a.Countdown && b.Countdown {
		return a.Until.Compare(b.Until)
	}
	return b.Since.Compare(a.Since)
}

// Sort returns ids stably ordered by their keys. ids has the current display
// order; ids with no key keep their relative order after every keyed id.
// The input slice is not modified.
func Sort(ids []string, keys map[string]Key) []string {
	out := slices.Clone(ids)
	slices.SortStableFunc(out, func(a, b string) int {
		ka, okA := keys[a]
		kb, okB := keys[b]
		switch {
		case okA && okB:
			return Compare(ka, kb)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	return out
}
