// internal/tui/board.go
package tui

import (
	"slices"

	"github.com/tamzrod/rosterwatch/internal/render"
	"github.com/tamzrod/rosterwatch/internal/status"
)

// row is one roster line and the render.Element bound to it.
type row struct {
	id       string
	name     string
	group    string
	text     string
	attrs    map[string]string
	attached bool
}

func (r *row) Attached() bool             { return r.attached }
func (r *row) SetText(text string)        { r.text = text }
func (r *row) SetAttr(name, value string) { r.attrs[name] = value }

func (r *row) label() string {
	if r.name != "" {
		return r.name
	}
	return r.id
}

// Board is the terminal render.Surface. It owns its rows: Sync creates a
// row for every entity of the watched groups and detaches the rest.
type Board struct {
	rows  map[string]*row
	order []string
}

func NewBoard() *Board {
	return &Board{rows: make(map[string]*row)}
}

// Sync makes the rows match entries. Departed rows are detached and
// disappear from the view; the engine prunes them on its next tick.
func (b *Board) Sync(entries []status.Status) {
	keep := make(map[string]status.Status, len(entries))
	for _, st := range entries {
		keep[st.ID] = st
	}

	for id, r := range b.rows {
		if _, ok := keep[id]; ok {
			continue
		}
		r.attached = false
		delete(b.rows, id)
	}
	b.order = slices.DeleteFunc(b.order, func(id string) bool {
		_, ok := b.rows[id]
		return !ok
	})

	for _, st := range entries {
		r, ok := b.rows[st.ID]
		if !ok {
			r = &row{id: st.ID, attrs: make(map[string]string), attached: true}
			b.rows[st.ID] = r
			b.order = append(b.order, st.ID)
		}
		r.name = st.Name
		r.group = st.Group
	}
}

// Len returns the number of rows.
func (b *Board) Len() int { return len(b.order) }

// ---- render.Surface ----

func (b *Board) Elements() map[string][]render.Element {
	out := make(map[string][]render.Element, len(b.rows))
	for id, r := range b.rows {
		out[id] = []render.Element{r}
	}
	return out
}

func (b *Board) Order() []string { return slices.Clone(b.order) }

func (b *Board) Commit(batch render.Batch) { batch.Apply() }

func (b *Board) Reorder(ids []string) {
	next := make([]string, 0, len(b.rows))
	for _, id := range ids {
		if _, ok := b.rows[id]; ok && !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	for _, id := range b.order {
		if !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	b.order = next
}

// visible returns the rows in display order.
func (b *Board) visible() []*row {
	out := make([]*row, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.rows[id])
	}
	return out
}
