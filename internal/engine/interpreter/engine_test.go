package interpreter_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ulte-soft/threadvm/internal/engine/interpreter"
	"github.com/ulte-soft/threadvm/internal/opstack"
	"github.com/ulte-soft/threadvm/internal/ring"
	"github.com/ulte-soft/threadvm/internal/threadir"
	"github.com/ulte-soft/threadvm/internal/wasmruntime"
)

func byRefOption(t *testing.T) threadir.Option {
	t.Helper()
	o, err := threadir.NewOption(false, 0, 1, threadir.Ranges{})
	require.NoError(t, err)
	return o
}

func cachedI32Option(t *testing.T, r ring.Range) threadir.Option {
	t.Helper()
	o, err := threadir.NewOption(true, 0, 1, threadir.Ranges{I32: r})
	require.NoError(t, err)
	return o
}

func seeded(vals ...uint64) *opstack.Stack {
	s := opstack.New(len(vals))
	for _, v := range vals {
		s.Push(v)
	}
	return s
}

// S1: i32.const 7; i32.const 11; i32.mul; end leaves 77 on the stack.
func TestScenarioS1MulByReference(t *testing.T) {
	prog, err := threadir.Translate([]threadir.Instr{
		threadir.Binary(threadir.OpMul, threadir.TypeI32, false),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	args, err := interpreter.ExecuteOn(&prog, seeded(7, 11), nil)
	require.NoError(t, err)
	require.Equal(t, 1, args.Mem.Len())
	require.Equal(t, uint64(77), args.Mem.Peek(0))
}

// S2: i64 MinInt64 / -1 traps integer_overflow.
func TestScenarioS2DivSOverflowTraps(t *testing.T) {
	prog, err := threadir.Translate([]threadir.Instr{
		threadir.Binary(threadir.OpDivS, threadir.TypeI64, true),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	_, err = interpreter.ExecuteOn(&prog, seeded(uint64(math.MinInt64), uint64(int64(-1))), nil)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeIntegerOverflow)
}

// S3: f32 NaN truncated to i32 (unsigned) traps invalid_conversion.
func TestScenarioS3TruncNaNTraps(t *testing.T) {
	prog, err := threadir.Translate([]threadir.Instr{
		threadir.Convert(threadir.OpTruncFToI, threadir.TypeF32, threadir.TypeI32, false),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	nan := uint64(math.Float32bits(float32(math.NaN())))
	_, err = interpreter.ExecuteOn(&prog, seeded(nan), nil)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeInvalidConversionToInteger)
}

// S4: f64.nearest(0.5) == 0.0.
func TestScenarioS4NearestHalf(t *testing.T) {
	prog, err := threadir.Translate([]threadir.Instr{
		threadir.Unary(threadir.OpFNearest, threadir.TypeF64),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	args, err := interpreter.ExecuteOn(&prog, seeded(math.Float64bits(0.5)), nil)
	require.NoError(t, err)
	require.Equal(t, math.Float64bits(0.0), args.Mem.Peek(0))
}

// S5: i32.const 1; br 0; <dead code>; end (the branch target) leaves 1.
func TestScenarioS5ForwardBranchSkipsDeadCode(t *testing.T) {
	prog, err := threadir.Translate([]threadir.Instr{
		threadir.Br(0),
		threadir.Unary(threadir.OpFNeg, threadir.TypeF32), // would corrupt the stack if reached
		threadir.Mark(0),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	args, err := interpreter.ExecuteOn(&prog, seeded(1), nil)
	require.NoError(t, err)
	require.Equal(t, 1, args.Mem.Len())
	require.Equal(t, uint64(1), args.Mem.Peek(0))
}

// S6: a cached i32 [0,2) translation and a by-reference translation of the
// same single binary op agree across 10000 random trials. Each trial is its
// own activation (fresh Args, fresh fill-at-entry/spill-at-exit), which is
// exactly the unit the TOS cache is specified over (spec.md §4.1's ring
// covers one activation's operand window, not an unbounded chain of
// dependent ops sharing a 2-slot register file) — so this, rather than one
// long folded chain, is what "cached agrees with by-reference" means here.
func TestScenarioS6CachedAgreesWithByReference(t *testing.T) {
	const n = 10000
	rng := rand.New(rand.NewSource(1))
	opcodes := [3]threadir.Opcode{threadir.OpAdd, threadir.OpSub, threadir.OpMul}

	var byRefProgs, cachedProgs [3]threadir.Program
	for i, op := range opcodes {
		instrs := []threadir.Instr{
			threadir.Binary(op, threadir.TypeI32, false),
			threadir.End(),
		}
		p, err := threadir.Translate(instrs, byRefOption(t))
		require.NoError(t, err)
		byRefProgs[i] = p

		cp, err := threadir.Translate(instrs, cachedI32Option(t, ring.Range{Begin: 0, End: 2}))
		require.NoError(t, err)
		cachedProgs[i] = cp
	}

	for i := 0; i < n; i++ {
		idx := rng.Intn(len(opcodes))
		lhs, rhs := uint64(rng.Uint32()), uint64(rng.Uint32())

		byRefArgs, err := interpreter.ExecuteOn(&byRefProgs[idx], seeded(lhs, rhs), nil)
		require.NoError(t, err)
		cachedArgs, err := interpreter.ExecuteOn(&cachedProgs[idx], seeded(lhs, rhs), nil)
		require.NoError(t, err)

		require.Equal(t, byRefArgs.Mem.Peek(0), cachedArgs.Mem.Peek(0))
	}
}

// Property 1: modular integer arithmetic, checked on i32 add.
func TestPropertyModularArithmeticI32(t *testing.T) {
	prog, err := threadir.Translate([]threadir.Instr{
		threadir.Binary(threadir.OpAdd, threadir.TypeI32, false),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	args, err := interpreter.ExecuteOn(&prog, seeded(uint64(uint32(math.MaxUint32)), 2), nil)
	require.NoError(t, err)
	require.Equal(t, uint64(1), args.Mem.Peek(0)) // (2^32 - 1 + 2) mod 2^32 == 1
}

// Property 2: shift amounts are masked to the operand width.
func TestPropertyShiftMasking(t *testing.T) {
	prog, err := threadir.Translate([]threadir.Instr{
		threadir.Binary(threadir.OpShl, threadir.TypeI32, false),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	direct, err := interpreter.ExecuteOn(&prog, seeded(1, 33), nil) // 33 mod 32 == 1
	require.NoError(t, err)
	masked, err := interpreter.ExecuteOn(&prog, seeded(1, 1), nil)
	require.NoError(t, err)
	require.Equal(t, masked.Mem.Peek(0), direct.Mem.Peek(0))
}

// Property 3: reinterpret round-trips preserve bits, including NaN payloads.
func TestPropertyReinterpretRoundTrip(t *testing.T) {
	toI32, err := threadir.Translate([]threadir.Instr{
		threadir.Convert(threadir.OpReinterpret, threadir.TypeF32, threadir.TypeI32, false),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)
	backToF32, err := threadir.Translate([]threadir.Instr{
		threadir.Convert(threadir.OpReinterpret, threadir.TypeI32, threadir.TypeF32, false),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	nanPayload := uint64(math.Float32bits(float32(math.NaN()))) | 1 // keep a nonzero payload bit set
	mid, err := interpreter.ExecuteOn(&toI32, seeded(nanPayload), nil)
	require.NoError(t, err)
	final, err := interpreter.ExecuteOn(&backToF32, seeded(mid.Mem.Peek(0)), nil)
	require.NoError(t, err)
	require.Equal(t, nanPayload, final.Mem.Peek(0))
}

// Property 4: i32 -> i64 signed extend -> wrap round-trips.
func TestPropertyExtendWrapRoundTrip(t *testing.T) {
	extendS, err := threadir.Translate([]threadir.Instr{
		threadir.Convert(threadir.OpI64ExtendI32S, threadir.TypeI32, threadir.TypeI64, true),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)
	wrap, err := threadir.Translate([]threadir.Instr{
		threadir.Convert(threadir.OpI32WrapI64, threadir.TypeI64, threadir.TypeI32, false),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	x := uint64(uint32(int32(-12345)))
	mid, err := interpreter.ExecuteOn(&extendS, seeded(x), nil)
	require.NoError(t, err)
	final, err := interpreter.ExecuteOn(&wrap, seeded(mid.Mem.Peek(0)), nil)
	require.NoError(t, err)
	require.Equal(t, x, final.Mem.Peek(0))
}

// Property 5: trunc traps on NaN and out-of-range, succeeds at the edge.
func TestPropertyTruncBoundary(t *testing.T) {
	prog, err := threadir.Translate([]threadir.Instr{
		threadir.Convert(threadir.OpTruncFToI, threadir.TypeF32, threadir.TypeI32, true),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	_, err = interpreter.ExecuteOn(&prog, seeded(uint64(math.Float32bits(float32(math.NaN())))), nil)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeInvalidConversionToInteger)

	_, err = interpreter.ExecuteOn(&prog, seeded(uint64(math.Float32bits(float32(2147483648.0)))), nil) // 2^31
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeInvalidConversionToInteger)

	ok, err := interpreter.ExecuteOn(&prog, seeded(uint64(math.Float32bits(float32(2147483520.0)))), nil) // just under 2^31-1 in f32 precision
	require.NoError(t, err)
	require.Equal(t, uint64(uint32(int32(2147483520))), ok.Mem.Peek(0))
}

// Property 6: division and remainder by zero always trap, both widths.
func TestPropertyDivByZero(t *testing.T) {
	for _, op := range []threadir.Opcode{threadir.OpDivS, threadir.OpDivU, threadir.OpRemS, threadir.OpRemU} {
		for _, typ := range []threadir.Type{threadir.TypeI32, threadir.TypeI64} {
			prog, err := threadir.Translate([]threadir.Instr{
				threadir.Binary(op, typ, true),
				threadir.End(),
			}, byRefOption(t))
			require.NoError(t, err)

			_, err = interpreter.ExecuteOn(&prog, seeded(5, 0), nil)
			require.ErrorIs(t, err, wasmruntime.ErrRuntimeIntegerDivideByZero)
		}
	}
}

// Property 7: INT_MIN / -1 overflows; INT_MIN % -1 is 0 without trapping.
func TestPropertyIntMinNegOne(t *testing.T) {
	divProg, err := threadir.Translate([]threadir.Instr{
		threadir.Binary(threadir.OpDivS, threadir.TypeI32, true),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)
	remProg, err := threadir.Translate([]threadir.Instr{
		threadir.Binary(threadir.OpRemS, threadir.TypeI32, true),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	minI32 := uint64(uint32(math.MinInt32))
	negOne := uint64(uint32(int32(-1)))

	_, err = interpreter.ExecuteOn(&divProg, seeded(minI32, negOne), nil)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeIntegerOverflow)

	args, err := interpreter.ExecuteOn(&remProg, seeded(minI32, negOne), nil)
	require.NoError(t, err)
	require.Equal(t, uint64(0), args.Mem.Peek(0))
}

// Property 8: min/max NaN propagation and signed-zero tie-breaking.
func TestPropertyMinMaxNaNAndSignedZero(t *testing.T) {
	minProg, err := threadir.Translate([]threadir.Instr{
		threadir.Binary(threadir.OpFMin, threadir.TypeF64, false),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)
	maxProg, err := threadir.Translate([]threadir.Instr{
		threadir.Binary(threadir.OpFMax, threadir.TypeF64, false),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	nan := math.Float64bits(math.NaN())
	one := math.Float64bits(1.0)

	r, err := interpreter.ExecuteOn(&minProg, seeded(nan, one), nil)
	require.NoError(t, err)
	require.True(t, math.IsNaN(math.Float64frombits(r.Mem.Peek(0))))

	r, err = interpreter.ExecuteOn(&minProg, seeded(one, nan), nil)
	require.NoError(t, err)
	require.True(t, math.IsNaN(math.Float64frombits(r.Mem.Peek(0))))

	posZero, negZero := math.Float64bits(0.0), math.Float64bits(math.Copysign(0, -1))
	r, err = interpreter.ExecuteOn(&minProg, seeded(posZero, negZero), nil)
	require.NoError(t, err)
	require.Equal(t, negZero, r.Mem.Peek(0))

	r, err = interpreter.ExecuteOn(&maxProg, seeded(posZero, negZero), nil)
	require.NoError(t, err)
	require.Equal(t, posZero, r.Mem.Peek(0))
}

// Property 9: nearest ties-to-even is deterministic, independent of any
// notion of an ambient rounding mode (there is none in this core).
func TestPropertyNearestDeterminism(t *testing.T) {
	prog, err := threadir.Translate([]threadir.Instr{
		threadir.Unary(threadir.OpFNearest, threadir.TypeF64),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	cases := map[float64]float64{0.5: 0.0, 1.5: 2.0, 2.5: 2.0}
	for in, want := range cases {
		r, err := interpreter.ExecuteOn(&prog, seeded(math.Float64bits(in)), nil)
		require.NoError(t, err)
		require.Equal(t, want, math.Float64frombits(r.Mem.Peek(0)))
	}
}

// A nil Traps (no host callback installed at all) still performs a fatal
// abort rather than silently continuing past a trap (spec.md §7).
func TestNilTrapsStillAborts(t *testing.T) {
	prog, err := threadir.Translate([]threadir.Instr{
		threadir.Unreachable(nil),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	_, err = interpreter.ExecuteOn(&prog, seeded(), nil)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeUnreachable)
}

// A host-installed trap callback that itself panics unwinds exactly like
// any other trap, through the same recover boundary.
func TestTrapCallbackUnwind(t *testing.T) {
	prog, err := threadir.Translate([]threadir.Instr{
		threadir.Unreachable(nil),
		threadir.End(),
	}, byRefOption(t))
	require.NoError(t, err)

	unwound := false
	traps := &interpreter.Traps{OnUnreachable: func() { unwound = true; panic("host unwind") }}
	_, err = interpreter.ExecuteOn(&prog, seeded(), traps)
	require.Error(t, err)
	require.True(t, unwound)
}
