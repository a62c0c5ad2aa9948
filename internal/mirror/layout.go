// internal/mirror/layout.go
package mirror

// Roster slot layout.
// Every mirrored entity owns a fixed RegsPerSlot block of holding registers.
// These values define the protocol and MUST NOT be configurable.

// ---- SLOT GEOMETRY ----

// RegsPerSlot is the fixed number of registers per entity slot.
const RegsPerSlot = 24

// ---- REGISTER OFFSETS ----

const (
	OffState    = 0 // status.State code
	OffTier     = 1 // priority tier
	OffUrgent   = 2 // 1 while highlighted
	OffUntilHi  = 3 // expiry, unix seconds, high word
	OffUntilLo  = 4 // expiry, unix seconds, low word
	OffPosition = 5 // 1-based display position, 0 = free slot
	OffLocation = 6 // 2 regs, 4 ASCII chars
	OffID       = 8 // 8 regs, 16 ASCII chars
	OffText     = 16
)

const (
	LocationRegs = 2
	IDRegs       = 8
	TextRegs     = 8
)

// MaxRegsPerWrite keeps a single request under the Modbus limit of 123
// registers per write.
const MaxRegsPerWrite = 120

// encodeASCII packs s into n registers, two bytes per register, big-endian.
// Longer strings are cut, non-printable bytes become '?'.
func encodeASCII(s string, n int) []uint16 {
	out := make([]uint16, n)

	b := []byte(s)
	if len(b) > 2*n {
		b = b[:2*n]
	}
	for i := range b {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < 2*n; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}
	return out
}

// decodeASCII is the inverse of encodeASCII, trailing NULs dropped.
func decodeASCII(regs []uint16) string {
	b := make([]byte, 0, 2*len(regs))
	for _, r := range regs {
		b = append(b, byte(r>>8), byte(r))
	}
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b)
}

// splitU32 clamps v into uint32 range and returns its high and low words.
func splitU32(v int64) (hi, lo uint16) {
	if v < 0 {
		v = 0
	}
	if v > 0xFFFFFFFF {
		v = 0xFFFFFFFF
	}
	u := uint32(v)
	return uint16(u >> 16), uint16(u)
}
