// internal/mirror/surface.go
package mirror

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/tamzrod/rosterwatch/internal/render"
	"github.com/tamzrod/rosterwatch/internal/status"
)

// Transport is the exact contract the mirror uses to reach the register
// endpoint. Area is always holding registers.
type Transport interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
	Close() error
}

type Config struct {
	UnitID      uint8
	BaseAddress uint16
	MaxSlots    int
}

// Surface mirrors the roster into a block of holding registers.
//
// Sync, Commit and Reorder only stage changes in the local register image.
// Flush pushes them out, once per render tick. The first flush after start,
// and the first after any failed write, re-asserts the whole block;
// otherwise only runs of changed slots are written. Not safe for
// concurrent use.
type Surface struct {
	tr  Transport
	cfg Config
	log *slog.Logger

	want     []uint16 // desired image
	sent     []uint16 // last image confirmed by the endpoint
	needFull bool
	lastErr  error

	slots []string // slot -> id, "" = free
	byID  map[string]*slotElement
	order []string
}

func New(tr Transport, cfg Config, log *slog.Logger) (*Surface, error) {
	if tr == nil {
		return nil, errors.New("mirror: transport required")
	}
	if cfg.MaxSlots <= 0 {
		return nil, errors.New("mirror: max_slots must be > 0")
	}
	if end := int(cfg.BaseAddress) + cfg.MaxSlots*RegsPerSlot; end > 0x10000 {
		return nil, fmt.Errorf("mirror: block ends at %d, past the register space", end)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	n := cfg.MaxSlots * RegsPerSlot
	return &Surface{
		tr:       tr,
		cfg:      cfg,
		log:      log.With("surface", "mirror"),
		want:     make([]uint16, n),
		sent:     make([]uint16, n),
		needFull: true,
		slots:    make([]string, cfg.MaxSlots),
		byID:     make(map[string]*slotElement),
	}, nil
}

// Close closes the transport.
func (s *Surface) Close() error { return s.tr.Close() }

// Err returns the last write error, nil after a successful flush.
func (s *Surface) Err() error { return s.lastErr }

var _ render.Flusher = (*Surface)(nil)

// ---- discovery ----

// Sync binds slots to ids. Ids that left lose their slot, which is zeroed
// on the next flush; their elements report detached. New ids take the
// lowest free slot. Ids beyond capacity are not mirrored.
func (s *Surface) Sync(ids []string) {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}

	freed := false
	for id, el := range s.byID {
		if _, ok := keep[id]; ok {
			continue
		}
		el.attached = false
		s.slots[el.slot] = ""
		clear(s.slotRegs(el.slot))
		delete(s.byID, id)
		freed = true
	}
	if freed {
		s.order = slices.DeleteFunc(s.order, func(id string) bool {
			_, ok := s.byID[id]
			return !ok
		})
	}

	skipped := 0
	for _, id := range ids {
		if _, ok := s.byID[id]; ok {
			continue
		}
		slot := slices.Index(s.slots, "")
		if slot < 0 {
			skipped++
			continue
		}
		s.slots[slot] = id
		s.byID[id] = &slotElement{s: s, slot: slot, attached: true}
		copy(s.slotRegs(slot)[OffID:OffID+IDRegs], encodeASCII(id, IDRegs))
		s.order = append(s.order, id)
	}
	if skipped > 0 {
		s.log.Warn("mirror full, entities not mirrored", "skipped", skipped, "max_slots", s.cfg.MaxSlots)
	}
}

// ---- render.Surface ----

func (s *Surface) Elements() map[string][]render.Element {
	out := make(map[string][]render.Element, len(s.byID))
	for id, el := range s.byID {
		out[id] = []render.Element{el}
	}
	return out
}

func (s *Surface) Order() []string { return slices.Clone(s.order) }

// Commit applies the batch to the local image.
func (s *Surface) Commit(b render.Batch) { b.Apply() }

// Reorder stages each slot's display position.
func (s *Surface) Reorder(ids []string) {
	next := make([]string, 0, len(s.byID))
	for _, id := range ids {
		if _, ok := s.byID[id]; ok && !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	for _, id := range s.order {
		if !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	s.order = next

	for i, id := range s.order {
		s.slotRegs(s.byID[id].slot)[OffPosition] = uint16(i + 1)
	}
}

// ---- writes ----

// Flush implements render.Flusher. Adjacent changed slots go out as one
// run, so no register is written twice in a flush.
func (s *Surface) Flush() error {
	if s.needFull {
		if err := s.write(0, s.want); err != nil {
			return s.fail(fmt.Errorf("mirror: full block write failed: %w", err))
		}
		copy(s.sent, s.want)
		s.needFull = false
		s.lastErr = nil
		return nil
	}

	for first := 0; first < len(s.slots); {
		if !s.dirty(first) {
			first++
			continue
		}
		last := first + 1
		for last < len(s.slots) && s.dirty(last) {
			last++
		}
		lo, hi := first*RegsPerSlot, last*RegsPerSlot
		if err := s.write(lo, s.want[lo:hi]); err != nil {
			// Any partial failure introduces doubt: re-assert on next flush.
			return s.fail(fmt.Errorf("mirror: slots %d-%d write failed: %w", first, last-1, err))
		}
		copy(s.sent[lo:hi], s.want[lo:hi])
		first = last
	}
	s.lastErr = nil
	return nil
}

func (s *Surface) dirty(slot int) bool {
	lo, hi := slot*RegsPerSlot, (slot+1)*RegsPerSlot
	return !slices.Equal(s.want[lo:hi], s.sent[lo:hi])
}

func (s *Surface) fail(err error) error {
	if s.lastErr == nil {
		s.log.Warn("mirror write failed, will re-assert full block", "error", err)
	}
	s.needFull = true
	s.lastErr = err
	return err
}

// write sends regs starting at offset, split into protocol-sized requests.
func (s *Surface) write(offset int, regs []uint16) error {
	for len(regs) > 0 {
		n := min(len(regs), MaxRegsPerWrite)
		addr := s.cfg.BaseAddress + uint16(offset)
		if err := s.tr.WriteRegisters(s.cfg.UnitID, addr, regs[:n]); err != nil {
			return err
		}
		regs = regs[n:]
		offset += n
	}
	return nil
}

func (s *Surface) slotRegs(slot int) []uint16 {
	return s.want[slot*RegsPerSlot : (slot+1)*RegsPerSlot]
}

// ---- element ----

// slotElement is the render.Element of one slot.
type slotElement struct {
	s        *Surface
	slot     int
	attached bool
}

func (e *slotElement) Attached() bool { return e.attached }

// arrows have no ASCII form
var asciiText = strings.NewReplacer("→", ">", "←", "<")

func (e *slotElement) SetText(text string) {
	copy(e.s.slotRegs(e.slot)[OffText:OffText+TextRegs], encodeASCII(asciiText.Replace(text), TextRegs))
}

func (e *slotElement) SetAttr(name, value string) {
	regs := e.s.slotRegs(e.slot)
	switch name {
	case render.AttrState:
		regs[OffState] = uint16(status.ParseState(value))
	case render.AttrTier:
		n, _ := strconv.Atoi(value)
		regs[OffTier] = uint16(n)
	case render.AttrUrgent:
		regs[OffUrgent] = 0
		if value == "true" {
			regs[OffUrgent] = 1
		}
	case render.AttrUntil:
		v, _ := strconv.ParseInt(value, 10, 64)
		regs[OffUntilHi], regs[OffUntilLo] = splitU32(v)
	case render.AttrLocation:
		copy(regs[OffLocation:OffLocation+LocationRegs], encodeASCII(value, LocationRegs))
	}
}
