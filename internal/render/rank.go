// internal/render/rank.go
package render

import (
	"time"

	"github.com/tamzrod/rosterwatch/internal/order"
	"github.com/tamzrod/rosterwatch/internal/status"
)

// Row is one ranked roster entry.
type Row struct {
	Position int
	Status   status.Status
	View     status.View
}

// Rank orders entries the way a surface would display them at now.
// Entries are taken in the given order as the base for the stable sort.
func Rank(entries []status.Status, now time.Time, threshold time.Duration) []Row {
	byID := make(map[string]Row, len(entries))
	keys := make(map[string]order.Key, len(entries))
	ids := make([]string, 0, len(entries))

	for _, st := range entries {
		if _, dup := byID[st.ID]; dup {
			continue
		}
		v := status.Present(&st, now, threshold)
		byID[st.ID] = Row{Status: st, View: v}
		keys[st.ID] = order.KeyOf(v.Priority)
		ids = append(ids, st.ID)
	}

	out := make([]Row, 0, len(ids))
	for i, id := range order.Sort(ids, keys) {
		row := byID[id]
		row.Position = i + 1
		out = append(out, row)
	}
	return out
}
