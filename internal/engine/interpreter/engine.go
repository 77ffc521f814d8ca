package interpreter

import (
	"fmt"

	"github.com/ulte-soft/threadvm/internal/opstack"
	"github.com/ulte-soft/threadvm/internal/threadir"
	"github.com/ulte-soft/threadvm/internal/wasmruntime"
)

// Execute runs prog to completion (its End Record) against a fresh
// operand-stack memory of the given capacity, using traps for any trap
// this run hits. It recovers any panic — a trap, a host callback's own
// unwind, or an engine bug — and turns it into a returned error exactly
// the way the teacher's moduleEngine.Call recovers a single top-level
// boundary per activation (spec.md §5, §7).
func Execute(prog *threadir.Program, stackCapacity int, traps *Traps) (args *Args, err error) {
	return ExecuteOn(prog, opstack.New(stackCapacity), traps)
}

// ExecuteOn is Execute against caller-supplied operand-stack memory,
// letting a caller seed initial operands (the way a real caller would
// have already pushed a block's incoming arguments) before running.
func ExecuteOn(prog *threadir.Program, mem *opstack.Stack, traps *Traps) (args *Args, err error) {
	args = NewArgs(mem)
	defer func() {
		if r := recover(); r != nil {
			err = toError(r)
		}
	}()
	fillCache(args, prog.Option.Ranges)
	if prog.Option.IsTailCall {
		runTailCall(prog, args, traps)
	} else {
		runByReference(prog, args, traps)
	}
	spillCache(args, prog.FinalCursor)
	return args, nil
}

func toError(r any) error {
	if e, ok := r.(error); ok {
		return e
	}
	return fmt.Errorf("%v", r)
}

// runByReference is the primary execution shape (spec.md §4.8): an
// ordinary explicit loop over the Record stream, safe regardless of
// function-body length since Go gives it no call-stack growth at all.
func runByReference(prog *threadir.Program, args *Args, traps *Traps) {
	for {
		if prog.Records[args.PC].Op == threadir.OpEnd {
			return
		}
		args.PC = dispatch(prog, args, traps)
	}
}

// runTailCall is the alternate execution shape (spec.md §4.8): each step
// is expressed as a self-call in tail position. Go does not guarantee
// tail-call elimination, so this is a best-effort rendition documented in
// SPEC_FULL.md §9, not a substitute for runByReference's safety; the two
// shapes still dispatch through the identical handler bodies below, so
// observable behavior is identical regardless of which one runs (spec.md
// §4.8: "the two execution shapes are interchangeable").
func runTailCall(prog *threadir.Program, args *Args, traps *Traps) {
	if prog.Records[args.PC].Op == threadir.OpEnd {
		return
	}
	args.PC = dispatch(prog, args, traps)
	runTailCall(prog, args, traps)
}

// dispatch executes exactly the Record at args.PC and returns the next PC,
// playing the role of the teacher's giant switch over wazeroir.OperationKind
// in interpreter.go, restricted to this core's opcode set (spec.md §4.4-
// §4.6) and expressed against Args/threadir.Record instead of a raw stack
// and byte-encoded operations.
func dispatch(prog *threadir.Program, args *Args, traps *Traps) int {
	pc := args.PC
	rec := &prog.Records[pc]

	switch rec.Op {
	case threadir.OpUnreachable:
		// spec.md §4.4: a record-level descriptor, when present, overrides
		// the process-wide unreachable trap callback for this one site
		// (e.g. a location-specific handler baked in at translation time);
		// its absence falls back to the host-installed Traps callback.
		if rec.HasDescriptor {
			cb, _ := rec.Descriptor.(func())
			invokeTrap(cb, wasmruntime.ErrRuntimeUnreachable)
		} else {
			traps.unreachable()
		}
		panic("interpreter: unreachable trap did not unwind")

	case threadir.OpBr:
		return rec.Target

	case threadir.OpBrIf:
		cond := uint32(read(args, threadir.TypeI32, rec.SrcA))
		if cond != 0 {
			return rec.Target
		}
		return pc + 1

	case threadir.OpClz, threadir.OpCtz, threadir.OpPopcnt,
		threadir.OpFAbs, threadir.OpFNeg, threadir.OpFCeil, threadir.OpFFloor,
		threadir.OpFTrunc, threadir.OpFNearest, threadir.OpFSqrt:
		execUnary(args, rec, traps)
		return pc + 1

	case threadir.OpAdd, threadir.OpSub, threadir.OpMul,
		threadir.OpAnd, threadir.OpOr, threadir.OpXor,
		threadir.OpShl, threadir.OpShrS, threadir.OpShrU, threadir.OpRotl, threadir.OpRotr,
		threadir.OpDivS, threadir.OpDivU, threadir.OpRemS, threadir.OpRemU,
		threadir.OpFAdd, threadir.OpFSub, threadir.OpFMul, threadir.OpFDiv,
		threadir.OpFMin, threadir.OpFMax, threadir.OpFCopysign:
		execBinary(args, rec, traps)
		return pc + 1

	case threadir.OpI32WrapI64, threadir.OpI64ExtendI32S, threadir.OpI64ExtendI32U,
		threadir.OpTruncFToI, threadir.OpConvertIToF,
		threadir.OpF32DemoteF64, threadir.OpF64PromoteF32, threadir.OpReinterpret:
		execConvert(args, rec, traps)
		return pc + 1

	default:
		panic(fmt.Errorf("interpreter: record %d has unhandled opcode %d", pc, rec.Op))
	}
}
