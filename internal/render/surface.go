// internal/render/surface.go
package render

import "github.com/tamzrod/rosterwatch/internal/status"

// Element is one display element bound to an entity.
// Implementations must be comparable (pointer types): the engine keys its
// write memo by Element.
type Element interface {
	Attached() bool
	SetText(text string)
	SetAttr(name, value string)
}

// Surface is the display the engine drives. The surface owns its elements
// and discovers them however it likes; the engine only reads the index and
// writes content.
type Surface interface {
	// Elements returns the current element index: entity id -> elements.
	Elements() map[string][]Element
	// Order returns the entity ids in current display order.
	Order() []string
	// Commit applies one tick's mutations. Called at most once per tick.
	Commit(b Batch)
	// Reorder moves rows into the given id order.
	Reorder(ids []string)
}

// Flusher is implemented by surfaces that stage Commit and Reorder locally
// and push them out in one write. The engine calls Flush once at the end of
// every tick, after Commit and Reorder.
type Flusher interface {
	Flush() error
}

// StoreReader is the read side of the Status Store.
type StoreReader interface {
	Snapshot() status.Snapshot
}

// Attribute names written besides the text.
const (
	AttrTier     = "tier"
	AttrState    = "state"
	AttrUrgent   = "urgent"
	AttrUntil    = "until"
	AttrLocation = "location"
)

// Mutation is a single pending write. An empty Attr means the text.
type Mutation struct {
	ID      string
	Element Element
	Attr    string
	Value   string
}

// Batch is every mutation of one tick.
type Batch []Mutation

// Apply performs the writes in order.
func (b Batch) Apply() {
	for _, m := range b {
		if m.Attr == "" {
			m.Element.SetText(m.Value)
			continue
		}
		m.Element.SetAttr(m.Attr, m.Value)
	}
}

// IDs returns the distinct entity ids touched by the batch, in first-seen order.
func (b Batch) IDs() []string {
	seen := make(map[string]struct{}, len(b))
	var out []string
	for _, m := range b {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m.ID)
	}
	return out
}
