// internal/render/engine.go
package render

import (
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/tamzrod/rosterwatch/internal/order"
	"github.com/tamzrod/rosterwatch/internal/status"
)

// TickResult summarizes one tick.
type TickResult struct {
	At        time.Time
	Rows      int   // ids in the index after pruning
	Mutations int   // writes committed
	Sorted    bool  // display order recomputed
	Pruned    int   // elements dropped
	Err       error // Flush failure, Flusher surfaces only
}

// Observer receives tick summaries (metrics).
type Observer interface {
	TickObserved(r TickResult, took time.Duration)
}

type nopObserver struct{}

func (nopObserver) TickObserved(TickResult, time.Duration) {}

// Engine turns Store snapshots into display mutations for one surface.
//
// It never touches the network and never writes to the Store. An Engine is
// not safe for concurrent use: drive it from one goroutine.
type Engine struct {
	store     StoreReader
	surface   Surface
	threshold time.Duration
	obs       Observer

	index   map[string][]Element
	keys    map[string]order.Key
	written map[Element]map[string]string // last value per attr, "" = text
}

// NewEngine creates an engine for surface.
func NewEngine(store StoreReader, surface Surface, threshold time.Duration, obs Observer) (*Engine, error) {
	if store == nil {
		return nil, errors.New("render: store required")
	}
	if surface == nil {
		return nil, errors.New("render: surface required")
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Engine{
		store:     store,
		surface:   surface,
		threshold: threshold,
		obs:       obs,
		index:     make(map[string][]Element),
		keys:      make(map[string]order.Key),
		written:   make(map[Element]map[string]string),
	}, nil
}

// Tick renders every indexed entity at now.
//
// All writes of the tick go to the surface in one Commit. The display
// order is recomputed only when a sort key changed or a new entity showed
// up. A Flusher surface is flushed once, after both. Detached elements are
// forgotten at the end of the tick.
func (e *Engine) Tick(now time.Time) TickResult {
	start := time.Now()
	res := TickResult{At: now}

	dirty := e.discover()
	snap := e.store.Snapshot()

	var batch Batch
	ids := make([]string, 0, len(e.index))
	for id := range e.index {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		st := snap.Get(id)
		v := status.Present(st, now, e.threshold)

		key := order.KeyOf(v.Priority)
		if prev, ok := e.keys[id]; !ok || !sameKey(prev, key) {
			dirty = true
		}
		e.keys[id] = key

		vals := values(st, v)
		for _, el := range e.index[id] {
			if !el.Attached() {
				continue
			}
			batch = e.diff(batch, id, el, vals)
		}
	}

	if len(batch) > 0 {
		e.surface.Commit(batch)
		res.Mutations = len(batch)
	}
	if dirty {
		e.surface.Reorder(order.Sort(e.surface.Order(), e.keys))
		res.Sorted = true
	}
	if f, ok := e.surface.(Flusher); ok {
		res.Err = f.Flush()
	}

	res.Pruned = e.prune()
	res.Rows = len(e.index)
	e.obs.TickObserved(res, time.Since(start))
	return res
}

// discover merges the surface's element index into ours.
// Reports whether a new entity appeared.
func (e *Engine) discover() bool {
	added := false
	for id, els := range e.surface.Elements() {
		cur, known := e.index[id]
		if !known {
			added = true
		}
		for _, el := range els {
			if el == nil || slices.Contains(cur, el) {
				continue
			}
			cur = append(cur, el)
		}
		e.index[id] = cur
	}
	return added
}

// attr order is fixed so batches are deterministic.
var attrOrder = []string{"", AttrTier, AttrState, AttrUrgent, AttrUntil, AttrLocation}

func (e *Engine) diff(batch Batch, id string, el Element, vals map[string]string) Batch {
	last := e.written[el]
	if last == nil {
		last = make(map[string]string, len(attrOrder))
		e.written[el] = last
	}
	for _, attr := range attrOrder {
		v := vals[attr]
		if old, ok := last[attr]; ok && old == v {
			continue
		}
		last[attr] = v
		batch = append(batch, Mutation{ID: id, Element: el, Attr: attr, Value: v})
	}
	return batch
}

// prune drops detached elements, and ids left without any.
func (e *Engine) prune() int {
	n := 0
	for id, els := range e.index {
		kept := els[:0]
		for _, el := range els {
			if el.Attached() {
				kept = append(kept, el)
				continue
			}
			delete(e.written, el)
			n++
		}
		if len(kept) == 0 {
			delete(e.index, id)
			delete(e.keys, id)
			continue
		}
		e.index[id] = kept
	}
	return n
}

func values(st *status.Status, v status.View) map[string]string {
	vals := map[string]string{
		"":         v.Text,
		AttrTier:   strconv.Itoa(int(v.Tier)),
		AttrState:  status.NeutralText,
		AttrUrgent: strconv.FormatBool(v.Urgent),
	}
	if st == nil {
		return vals
	}
	vals[AttrState] = st.State.String()
	if v.Priority.Countdown() {
		vals[AttrUntil] = strconv.FormatInt(v.Until.Unix(), 10)
	}
	vals[AttrLocation] = st.Location
	return vals
}

func sameKey(a, b order.Key) bool {
	return a.Tier == b.Tier &&
		a.Group == b.Group &&
		a.Countdown == b.Countdown &&
		a.Until.Equal(b.Until) &&
		a.Since.Equal(b.Since)
}
