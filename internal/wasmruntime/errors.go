// Package wasmruntime collects the sentinel errors the interpreter core
// panics with when it hits one of the run-time failure kinds spec.md §7
// enumerates. This mirrors tetratelabs/wazero's internal/wasmruntime
// package, which internal/engine/interpreter.interpreter.go panics with
// at each trap site (ErrRuntimeUnreachable, ErrRuntimeIntegerDivideByZero,
// ErrRuntimeIntegerOverflow, ErrRuntimeInvalidConversionToInteger,
// ErrRuntimeOutOfBoundsMemoryAccess, ErrRuntimeIndirectCallTypeMismatch);
// the package itself was not retrieved alongside that file, so it is
// reconstructed here from those call sites.
package wasmruntime

import "errors"

var (
	// ErrRuntimeUnreachable is raised by the unreachable instruction.
	ErrRuntimeUnreachable = errors.New("unreachable")

	// ErrRuntimeIntegerDivideByZero is raised by div/rem on a zero divisor.
	ErrRuntimeIntegerDivideByZero = errors.New("integer divide by zero")

	// ErrRuntimeIntegerOverflow is raised only by signed division overflow
	// (INT_MIN / -1); an out-of-range float-to-int truncation raises
	// ErrRuntimeInvalidConversionToInteger instead.
	ErrRuntimeIntegerOverflow = errors.New("integer overflow")

	// ErrRuntimeInvalidConversionToInteger is raised when a float-to-int
	// truncation source is NaN or otherwise outside the destination range.
	ErrRuntimeInvalidConversionToInteger = errors.New("invalid conversion to integer")

	// ErrRuntimeOutOfBoundsMemoryAccess is raised by the memory collaborator
	// and propagated identically by the core (spec.md §7).
	ErrRuntimeOutOfBoundsMemoryAccess = errors.New("out of bounds memory access")

	// ErrRuntimeIndirectCallTypeMismatch is raised by the linker/table
	// collaborator on a call_indirect signature mismatch or null reference,
	// and propagated identically by the core (spec.md §7).
	ErrRuntimeIndirectCallTypeMismatch = errors.New("indirect call type mismatch")
)
