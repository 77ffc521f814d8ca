package threadir

import "github.com/ulte-soft/threadvm/internal/ring"

// Cursor is the compile-time StackTopCursor of spec.md §3: one index per
// scalar type, into that type's ring, naming the slot that currently holds
// the logical TOS value of that type. The translator drives it; the
// emitted Program keeps only the post-body state (Program.FinalCursor),
// which the engine's cache fill/spill replays at activation entry and exit.
type Cursor struct {
	ranges Ranges
	pos    [4]uint8 // index order: I32, I64, F32, F64
}

// NewCursor returns a Cursor initialized to the start of each type's
// range. The translator treats this as a fully populated ring: its first
// consumer of a cached type pops from here, and the engine fills the ring
// from operand-stack memory before execution so those slots hold values.
func NewCursor(ranges Ranges) Cursor {
	c := Cursor{ranges: ranges}
	for i := 0; i < 4; i++ {
		r := ranges.Get(i)
		if !r.Empty() {
			c.pos[i] = r.Begin
		}
	}
	return c
}

// Type is the 0..3 scalar-type index this package uses internally
// (TypeFromAPI maps an api.ValueType tag to it). Callers pass one of the
// Type* constants below.
type Type int

const (
	TypeI32 Type = iota
	TypeI64
	TypeF32
	TypeF64
)

// Range returns the configured ring for t.
func (c Cursor) Range(t Type) ring.Range {
	return c.ranges.Get(int(t))
}

// Enabled reports whether TOS caching is enabled for t.
func (c Cursor) Enabled(t Type) bool {
	return !c.Range(t).Empty()
}

// Top returns the slot currently holding the logical TOS of type t.
// Callers must check Enabled(t) first; calling Top on a disabled type is
// a translator bug, not a run-time condition.
func (c Cursor) Top(t Type) uint8 {
	if !c.Enabled(t) {
		panic("threadir: Top called for a type with caching disabled")
	}
	return c.pos[int(t)]
}

// Push advances the cursor for t as if a value of that type were pushed,
// returning the new Cursor and the slot the pushed value now occupies
// (spec.md §4.1: "new_c = prev(c_T)").
func (c Cursor) Push(t Type) (Cursor, uint8) {
	r := c.Range(t)
	slot := r.Prev(c.pos[int(t)])
	c.pos[int(t)] = slot
	return c, slot
}

// Pop advances the cursor for t as if its current TOS value were popped,
// returning the new Cursor and the slot the popped value came from
// (spec.md §4.1: "popping reads slot c_T and sets c_T = next(c_T)").
func (c Cursor) Pop(t Type) (Cursor, uint8) {
	r := c.Range(t)
	slot := c.pos[int(t)]
	c.pos[int(t)] = r.Next(slot)
	return c, slot
}

// Snapshot returns an opaque copy of the cursor state suitable for storing
// at a structured-block entry/exit point, so forward branches can be
// checked against the cursor state the branch target expects (spec.md
// §4.2: "on entering and leaving structured blocks the translator
// snapshots the cursor").
func (c Cursor) Snapshot() Cursor {
	return c
}

// Equal reports whether two cursor snapshots hold the same per-type slot
// positions. Translate itself does not call it.
func (c Cursor) Equal(other Cursor) bool {
	return c.pos == other.pos
}
