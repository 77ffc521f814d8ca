package threadir

// Opcode enumerates every handler this core implements, scoped exactly to
// spec.md §4.4–§4.6 (control, integer/float numeric, conversions and
// reinterpretations). It plays the role of the teacher's
// wazeroir.OperationKind, restricted to this core's smaller opcode set.
type Opcode uint8

const (
	OpUnreachable Opcode = iota
	OpBr
	OpBrIf
	OpEnd // function/block terminator: by-reference mode returns here.
	OpMark // input-only pseudo-instruction marking a branch target; never emitted to a Program.

	// Integer unary.
	OpClz
	OpCtz
	OpPopcnt

	// Integer binary, wrapping semantics.
	OpAdd
	OpSub
	OpMul
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShrS
	OpShrU
	OpRotl
	OpRotr

	// Integer division/remainder.
	OpDivS
	OpDivU
	OpRemS
	OpRemU

	// Float unary.
	OpFAbs
	OpFNeg
	OpFCeil
	OpFFloor
	OpFTrunc
	OpFNearest
	OpFSqrt

	// Float binary.
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFMin
	OpFMax
	OpFCopysign

	// Conversions and reinterpretations.
	OpI32WrapI64
	OpI64ExtendI32S
	OpI64ExtendI32U
	OpTruncFToI // src/dst Type + Signed on Record select the 8 combinations.
	OpConvertIToF
	OpF32DemoteF64
	OpF64PromoteF32
	OpReinterpret
)

// SourceMode tells a handler how to fetch or store one operand. Most of
// these exist purely to implement spec.md §4.1's ring-size-1 rule: when a
// type's ring holds only one slot, the cache can still serve as a
// read-ahead/write-behind shortcut over an always-present memory copy,
// but a binary op's LHS operand (already evicted from the single slot by
// the time RHS was pushed) can only come from memory, and the result is
// fused back in place rather than popped-then-pushed.
type SourceMode uint8

const (
	// ModeCache reads/writes Slot in the TOS ring only — used whenever a
	// type's ring holds 2 or more slots, so no memory mirroring is needed.
	ModeCache SourceMode = iota

	// ModeMemoryMove pops (source) or pushes (destination) operand-stack
	// memory — used whenever a type's cache is disabled entirely.
	ModeMemoryMove

	// ModeMemoryKeep peeks (source) or pokes (destination) memory without
	// moving its top pointer — the ring-size-1 binary op's LHS operand and
	// fused result.
	ModeMemoryKeep

	// ModeCacheReadMemDrop reads Slot in the cache and drops (without
	// reading) the matching operand-stack memory slot that a prior
	// ModeCacheWriteMemPush kept in lockstep — a ring-size-1 type's
	// ordinary (non-fused) consumption, including a ring-size-1 binary
	// op's RHS operand.
	ModeCacheReadMemDrop

	// ModeCacheWriteMemPush writes Slot in the cache and pushes the same
	// value onto operand-stack memory — a ring-size-1 type's ordinary
	// (non-fused) production.
	ModeCacheWriteMemPush

	// ModeCacheWriteMemPoke writes Slot in the cache and pokes the current
	// memory top with the same value, without moving the top pointer — a
	// ring-size-1 binary op's fused result.
	ModeCacheWriteMemPoke
)

// OperandSource describes where one handler operand comes from or goes to.
// The translator bakes this choice into the Record at lowering time
// (spec.md §4.2); the handler never recomputes it at run time.
type OperandSource struct {
	Mode SourceMode
	Slot uint8 // meaningful for the Mode* cache variants.
}

// FromMemory is the ordinary (move) memory-operand source/destination,
// used when a type's cache is disabled entirely.
var FromMemory = OperandSource{Mode: ModeMemoryMove}

// PeekMemory is the ring-size-1 "peek LHS without popping" source.
var PeekMemory = OperandSource{Mode: ModeMemoryKeep}

// CacheSlot returns a pure-register OperandSource (ring length >= 2).
func CacheSlot(slot uint8) OperandSource {
	return OperandSource{Mode: ModeCache, Slot: slot}
}
