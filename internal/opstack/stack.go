// Package opstack is the operand-stack memory spec.md §3 describes: a
// byte-addressed spill area for operands the TOS cache isn't currently
// holding. Every Wasm scalar value fits in one uint64 regardless of its
// logical width, so — exactly like the teacher's callEngine.stack — this
// is modeled as a []uint64 slot vector rather than literal bytes; native
// endianness and width are the caller's concern when it narrows a slot
// back to i32/f32.
package opstack

// Stack is a per-activation operand-stack memory. It is grown once to the
// validator-supplied maximum height and released when the activation
// returns (spec.md §3, §5).
type Stack struct {
	slots []uint64
}

// New returns a Stack pre-sized to maxHeight slots, matching "the
// translator reserves enough bytes for the validated stack-height
// maximum" (spec.md §3).
func New(maxHeight int) *Stack {
	return &Stack{slots: make([]uint64, 0, maxHeight)}
}

// Len reports the current logical height.
func (s *Stack) Len() int {
	return len(s.slots)
}

// Push writes v as the new top, advancing the top pointer away from the
// base (spec.md §3: "writes push").
func (s *Stack) Push(v uint64) {
	s.slots = append(s.slots, v)
}

// Pop reads and removes the current top, advancing the top pointer
// toward the base (spec.md §3: "reads pop").
func (s *Stack) Pop() uint64 {
	n := len(s.slots) - 1
	v := s.slots[n]
	s.slots = s.slots[:n]
	return v
}

// Peek returns the value at the given depth below the top (0 is the
// current top) without moving the top pointer, the ring-size-1
// binary-op contract of spec.md §4.1 ("LHS is peeked, not popped").
func (s *Stack) Peek(depth int) uint64 {
	return s.slots[len(s.slots)-1-depth]
}

// Poke overwrites the value at the given depth below the top without
// moving the top pointer — how the ring-size-1 binary-op result replaces
// the peeked LHS slot in place (spec.md §4.1: "net -1 stack height").
func (s *Stack) Poke(depth int, v uint64) {
	s.slots[len(s.slots)-1-depth] = v
}

// Drop removes the current top without returning it, used to discard a
// memory-mirrored slot whose value was already consumed from the cache.
func (s *Stack) Drop() {
	s.slots = s.slots[:len(s.slots)-1]
}

// Snapshot returns a copy of the current slots, base to top, for a caller
// that needs to inspect the final operand stack after a run without
// risking aliasing the live backing array.
func (s *Stack) Snapshot() []uint64 {
	out := make([]uint64, len(s.slots))
	copy(out, s.slots)
	return out
}
