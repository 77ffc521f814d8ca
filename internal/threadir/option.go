// Package threadir is the translation-time intermediate representation for
// the threaded interpreter core: the TranslateOption configuration, the
// compile-time cursor that tracks TOS ring occupancy, the opcode/operation
// vocabulary, the emitted instruction stream, and the translator that
// lowers a validated function body into that stream (spec.md §3, §4.2).
//
// The package is deliberately free of any execution-time dependency: the
// engine that actually runs a threadir.Program lives in
// internal/engine/interpreter and only needs to switch on each Record's
// Opcode.
package threadir

import (
	"fmt"

	"github.com/ulte-soft/threadvm/internal/ring"
)

// MaxRing bounds how many slots any one type's TOS ring may have. No
// translator this core's Option.Validate accepts needs more than this —
// it exists so interpreter.Args can hold its per-type cache as a fixed-size
// array (spec.md §9, "monomorphising generics" rendition of the source's
// parameter-pack argument vector) rather than a heap-allocated slice.
const MaxRing = 4

// ArgPosition identifies one of the uniform handler argument vector's two
// distinguished slots (the instruction-stream cursor and the operand-stack
// pointer). A negative value is the "absent" sentinel spec.md §3 allows for
// at most one of the two.
type ArgPosition int8

// NoArgPosition is the sentinel for "this argument role is absent; the
// other argument also serves it" (spec.md §3).
const NoArgPosition ArgPosition = -1

// Ranges holds one half-open slot range per scalar type, the TOS ring
// layout portion of a TranslateOption (spec.md §3).
type Ranges struct {
	I32, I64, F32, F64 ring.Range
}

// Get returns the range for the i-th type in (I32, I64, F32, F64) order,
// used by code that iterates all four types uniformly.
func (r Ranges) Get(i int) ring.Range {
	switch i {
	case 0:
		return r.I32
	case 1:
		return r.I64
	case 2:
		return r.F32
	case 3:
		return r.F64
	default:
		panic("threadir: type index out of range")
	}
}

// AllEmpty reports whether every range is empty, the by-reference mode
// requirement (spec.md §3: "In by-reference mode all ranges must be
// empty").
func (r Ranges) AllEmpty() bool {
	return r.I32.Empty() && r.I64.Empty() && r.F32.Empty() && r.F64.Empty()
}

// Option is the immutable TranslateOption of spec.md §3: chosen once per
// translation, never mutated afterward.
type Option struct {
	// IsTailCall selects the execution shape. See SPEC_FULL.md §9 for
	// why, in Go, tail-call mode is a best-effort
	// continuation-passing chain rather than a guaranteed tail call.
	IsTailCall bool

	// LocalPtrPosition and OperandPtrPosition identify which argument
	// carries the instruction-stream cursor and which carries the
	// operand-stack pointer. Exactly one may be NoArgPosition.
	LocalPtrPosition   ArgPosition
	OperandPtrPosition ArgPosition

	Ranges Ranges
}

// NewOption constructs an Option and validates it, returning a translation
// error instead of an Option a translator could act on if the combination
// is unsupported (spec.md §7: "Translation-time errors ... must prevent
// the corresponding function from ever being executed").
func NewOption(isTailCall bool, localPtr, operandPtr ArgPosition, ranges Ranges) (Option, error) {
	o := Option{
		IsTailCall:         isTailCall,
		LocalPtrPosition:   localPtr,
		OperandPtrPosition: operandPtr,
		Ranges:             ranges,
	}
	if err := o.Validate(); err != nil {
		return Option{}, err
	}
	return o, nil
}

// Validate checks the structural invariants spec.md §3 and §4.2 require.
func (o Option) Validate() error {
	if o.LocalPtrPosition == NoArgPosition && o.OperandPtrPosition == NoArgPosition {
		return fmt.Errorf("threadir: both local-ptr and operand-ptr positions are absent")
	}

	types := [4]ring.Range{o.Ranges.I32, o.Ranges.I64, o.Ranges.F32, o.Ranges.F64}
	if !o.IsTailCall {
		// by-reference mode: caching must be fully disabled (spec.md §3).
		if !o.Ranges.AllEmpty() {
			return fmt.Errorf("threadir: by-reference mode requires all TOS ranges to be empty")
		}
		return nil
	}
	for i, r := range types {
		if r.Empty() {
			continue
		}
		if int(r.End) > MaxRing {
			return fmt.Errorf("threadir: type %d ring [%d,%d) extends past MaxRing=%d", i, r.Begin, r.End, MaxRing)
		}
		for j := i + 1; j < len(types); j++ {
			other := types[j]
			if other.Empty() {
				continue
			}
			if r.Overlaps(other) {
				return fmt.Errorf("threadir: type %d and type %d ranges overlap without being merged; unsupported configuration (spec.md §9)", i, j)
			}
		}
	}
	return nil
}

// ByReference reports whether o selects the by-reference execution shape.
func (o Option) ByReference() bool {
	return !o.IsTailCall
}
