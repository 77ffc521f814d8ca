package threadir

// Record is one entry of the translated instruction stream: the handler
// selection plus its immediates, laid out in the fixed order spec.md §6
// prescribes (handler first, then the opcode's own fields). In a systems
// language this would be a handler pointer followed by a packed,
// unaligned immediate blob; Go has no portable equivalent that is both
// safe and avoids per-call allocation, and the teacher's own interpreter
// represents its stream the same way — a typed slice of decoded ops, not
// a raw byte vector (see SPEC_FULL.md §3) — so Record plays that role
// here. Each handler still "knows its own stride": the engine advances
// exactly one Record per step, never reading past what its Opcode needs.
type Record struct {
	Op Opcode

	// Type is the primary operand type for unary/binary numeric ops.
	// For conversions, SrcType/DstType are used instead.
	Type Type

	SrcA, SrcB OperandSource
	Dst        OperandSource

	SrcType, DstType Type
	Signed           bool // trunc/convert signedness; shr_s/shr_u etc. are distinct opcodes.

	// Target is the absolute Record index a branch (Br/BrIf) resumes at.
	// This is the Go-idiomatic analogue of the "absolute byte offset"
	// spec.md §3/§6 describes: since the stream here is a slice of
	// Records rather than raw bytes, offsets are expressed as indices
	// into that slice instead of byte counts, without changing the
	// contract ("branch targets are encoded as absolute offsets").
	Target int

	// HasDescriptor and Descriptor carry the unreachable instruction's
	// optional descriptor payload (spec.md §4.4): if HasDescriptor is
	// false the engine raises the host-installed unreachable trap callback
	// instead, which aborts when no callback is installed.
	HasDescriptor bool
	Descriptor    any
}

// Program is the translator's output: the Record stream plus the final
// cursor state the successor block expects (spec.md §4.2). Once built, a
// Program is immutable and may be executed concurrently by unrelated
// activations (spec.md §5: "instruction stream is immutable after
// translation").
type Program struct {
	Records []Record
	Option  Option

	// FinalCursor is the cursor state after the last Record. The engine
	// reads it at activation exit (spillCache) to write still-cached ring
	// slots back onto operand-stack memory.
	FinalCursor Cursor
}
