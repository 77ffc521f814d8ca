// Package threadvm is the public entry point for the threaded/tail-call
// interpreter core: compiling a validated function body into a Function and
// running it against fresh operand-stack memory. Everything it does is a
// thin façade over internal/threadir (translation) and
// internal/engine/interpreter (execution), the same role the teacher's own
// root "wazero" package plays over its internal/wasm and internal/engine
// packages. It re-exports Option, Instr and Traps; the opcode and type
// constants, the Instr constructors, Ranges and ArgPosition stay in
// internal/threadir and are not re-exported here.
package threadvm

import (
	"github.com/ulte-soft/threadvm/internal/engine/interpreter"
	"github.com/ulte-soft/threadvm/internal/opstack"
	"github.com/ulte-soft/threadvm/internal/threadir"
)

// Traps is the set of host-installable trap callbacks (spec.md §7),
// re-exported so callers never import internal/engine/interpreter.
type Traps = interpreter.Traps

// Option is a translation configuration (spec.md §3), re-exported from
// internal/threadir.
type Option = threadir.Option

// Instr is one input instruction (spec.md §4.2's translator input),
// re-exported from internal/threadir.
type Instr = threadir.Instr

// NewOption validates and returns an Option. See threadir.NewOption for the
// full contract.
func NewOption(isTailCall bool, localPtr, operandPtr threadir.ArgPosition, ranges threadir.Ranges) (Option, error) {
	return threadir.NewOption(isTailCall, localPtr, operandPtr, ranges)
}

// Function is a compiled, ready-to-run function body: the translated
// instruction stream plus the operand-stack height the validator computed
// for it (spec.md §3: "the translator reserves enough bytes for the
// validated stack-height maximum").
type Function struct {
	prog          threadir.Program
	stackCapacity int
}

// Compile translates instrs under opt into a Function. stackCapacity should
// be the validator's computed maximum operand-stack height for this body;
// this package does not itself validate that bound, matching spec.md §1's
// collaborator boundary (validation is external).
func Compile(instrs []Instr, opt Option, stackCapacity int) (*Function, error) {
	prog, err := threadir.Translate(instrs, opt)
	if err != nil {
		return nil, err
	}
	return &Function{prog: prog, stackCapacity: stackCapacity}, nil
}

// Run executes f to completion (or to the first unrecovered trap) against
// fresh operand-stack memory seeded with initialOperands, base to top.
// traps may be nil, meaning no host callback is installed for any trap
// kind — every trap then performs the fatal-abort path spec.md §7
// describes, surfaced here as a returned error.
//
// Run returns the final operand-stack contents, base to top.
func Run(f *Function, traps *Traps, initialOperands ...uint64) ([]uint64, error) {
	mem := newSeededStack(f.stackCapacity, initialOperands)
	args, err := interpreter.ExecuteOn(&f.prog, mem, traps)
	if err != nil {
		return nil, err
	}
	return args.Mem.Snapshot(), nil
}

func newSeededStack(capacity int, initial []uint64) *opstack.Stack {
	if capacity < len(initial) {
		capacity = len(initial)
	}
	s := opstack.New(capacity)
	for _, v := range initial {
		s.Push(v)
	}
	return s
}
