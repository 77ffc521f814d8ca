package interpreter

import (
	"math"
	"math/bits"

	"github.com/ulte-soft/threadvm/internal/moremath"
	"github.com/ulte-soft/threadvm/internal/threadir"
)

// The handlers in this file mirror the arithmetic bodies of
// tetratelabs/wazero's internal/engine/interpreter.interpreter.go
// OperationKindAdd/Sub/Mul/.../Div/Rem/... cases, adapted to read/write
// through Args instead of a raw []uint64 stack, and to panic through Traps
// instead of wazero's own package-level panic sites (spec.md §4.5, §4.6).

func execUnary(a *Args, rec *threadir.Record, traps *Traps) {
	v := read(a, rec.Type, rec.SrcA)
	var res uint64
	switch rec.Op {
	case threadir.OpClz:
		switch rec.Type {
		case threadir.TypeI32:
			res = uint64(bits.LeadingZeros32(uint32(v)))
		case threadir.TypeI64:
			res = uint64(bits.LeadingZeros64(v))
		}
	case threadir.OpCtz:
		switch rec.Type {
		case threadir.TypeI32:
			res = uint64(bits.TrailingZeros32(uint32(v)))
		case threadir.TypeI64:
			res = uint64(bits.TrailingZeros64(v))
		}
	case threadir.OpPopcnt:
		switch rec.Type {
		case threadir.TypeI32:
			res = uint64(bits.OnesCount32(uint32(v)))
		case threadir.TypeI64:
			res = uint64(bits.OnesCount64(v))
		}
	case threadir.OpFAbs:
		res = floatUnary(rec.Type, v, math.Abs, func(f float32) float32 {
			return float32(math.Abs(float64(f)))
		})
	case threadir.OpFNeg:
		res = floatUnary(rec.Type, v, func(f float64) float64 { return -f }, func(f float32) float32 { return -f })
	case threadir.OpFCeil:
		res = floatUnary(rec.Type, v, math.Ceil, func(f float32) float32 { return float32(math.Ceil(float64(f))) })
	case threadir.OpFFloor:
		res = floatUnary(rec.Type, v, math.Floor, func(f float32) float32 { return float32(math.Floor(float64(f))) })
	case threadir.OpFTrunc:
		res = floatUnary(rec.Type, v, math.Trunc, func(f float32) float32 { return float32(math.Trunc(float64(f))) })
	case threadir.OpFNearest:
		res = floatUnary(rec.Type, v, moremath.WasmCompatNearestF64, moremath.WasmCompatNearestF32)
	case threadir.OpFSqrt:
		res = floatUnary(rec.Type, v, math.Sqrt, func(f float32) float32 { return float32(math.Sqrt(float64(f))) })
	default:
		panic("interpreter: execUnary called with non-unary opcode")
	}
	write(a, rec.Type, rec.Dst, res)
}

// floatUnary applies f64 to f64-bit-pattern v and f32 to f32-bit-pattern v,
// selected by t, returning the result re-encoded as bits. Every float unary
// handler shares this shape, so op-specific code is just the two closures.
func floatUnary(t threadir.Type, v uint64, f64 func(float64) float64, f32 func(float32) float32) uint64 {
	if t == threadir.TypeF32 {
		return uint64(math.Float32bits(f32(math.Float32frombits(uint32(v)))))
	}
	return math.Float64bits(f64(math.Float64frombits(v)))
}

func execBinary(a *Args, rec *threadir.Record, traps *Traps) {
	// RHS must be read before LHS: it is the value physically closest to
	// the operand-stack top (pushed last), and the ring-size-1 fused case
	// (spec.md §4.1) depends on this order — dropping RHS's memory mirror
	// before LHS is peeked is what brings LHS to the new top of memory.
	rhs := read(a, rec.Type, rec.SrcB)
	lhs := read(a, rec.Type, rec.SrcA)
	var res uint64
	switch rec.Op {
	case threadir.OpAdd:
		res = intOrFloat(rec.Type, lhs, rhs,
			func(x, y uint32) uint32 { return x + y }, func(x, y uint64) uint64 { return x + y },
			func(x, y float64) float64 { return x + y }, func(x, y float32) float32 { return x + y })
	case threadir.OpSub:
		res = intOrFloat(rec.Type, lhs, rhs,
			func(x, y uint32) uint32 { return x - y }, func(x, y uint64) uint64 { return x - y },
			func(x, y float64) float64 { return x - y }, func(x, y float32) float32 { return x - y })
	case threadir.OpMul:
		res = intOrFloat(rec.Type, lhs, rhs,
			func(x, y uint32) uint32 { return x * y }, func(x, y uint64) uint64 { return x * y },
			func(x, y float64) float64 { return x * y }, func(x, y float32) float32 { return x * y })
	case threadir.OpAnd:
		res = intOnly(rec.Type, lhs, rhs, func(x, y uint32) uint32 { return x & y }, func(x, y uint64) uint64 { return x & y })
	case threadir.OpOr:
		res = intOnly(rec.Type, lhs, rhs, func(x, y uint32) uint32 { return x | y }, func(x, y uint64) uint64 { return x | y })
	case threadir.OpXor:
		res = intOnly(rec.Type, lhs, rhs, func(x, y uint32) uint32 { return x ^ y }, func(x, y uint64) uint64 { return x ^ y })
	case threadir.OpShl:
		res = intOnly(rec.Type, lhs, rhs,
			func(x, y uint32) uint32 { return x << (y % 32) }, func(x, y uint64) uint64 { return x << (y % 64) })
	case threadir.OpShrS:
		if rec.Type == threadir.TypeI32 {
			res = uint64(uint32(int32(uint32(lhs)) >> (uint32(rhs) % 32)))
		} else {
			res = uint64(int64(lhs) >> (rhs % 64))
		}
	case threadir.OpShrU:
		res = intOnly(rec.Type, lhs, rhs,
			func(x, y uint32) uint32 { return x >> (y % 32) }, func(x, y uint64) uint64 { return x >> (y % 64) })
	case threadir.OpRotl:
		if rec.Type == threadir.TypeI32 {
			res = uint64(bits.RotateLeft32(uint32(lhs), int(uint32(rhs)%32)))
		} else {
			res = bits.RotateLeft64(lhs, int(rhs%64))
		}
	case threadir.OpRotr:
		if rec.Type == threadir.TypeI32 {
			res = uint64(bits.RotateLeft32(uint32(lhs), -int(uint32(rhs)%32)))
		} else {
			res = bits.RotateLeft64(lhs, -int(rhs%64))
		}
	case threadir.OpDivS:
		res = execDivS(rec.Type, lhs, rhs, traps)
	case threadir.OpDivU:
		res = execDivU(rec.Type, lhs, rhs, traps)
	case threadir.OpRemS:
		res = execRemS(rec.Type, lhs, rhs, traps)
	case threadir.OpRemU:
		res = execRemU(rec.Type, lhs, rhs, traps)
	case threadir.OpFAdd:
		res = floatOnly(rec.Type, lhs, rhs, func(x, y float64) float64 { return x + y }, func(x, y float32) float32 { return x + y })
	case threadir.OpFSub:
		res = floatOnly(rec.Type, lhs, rhs, func(x, y float64) float64 { return x - y }, func(x, y float32) float32 { return x - y })
	case threadir.OpFMul:
		res = floatOnly(rec.Type, lhs, rhs, func(x, y float64) float64 { return x * y }, func(x, y float32) float32 { return x * y })
	case threadir.OpFDiv:
		res = floatOnly(rec.Type, lhs, rhs, func(x, y float64) float64 { return x / y }, func(x, y float32) float32 { return x / y })
	case threadir.OpFMin:
		res = floatOnly(rec.Type, lhs, rhs, moremath.WasmCompatMin, func(x, y float32) float32 {
			return float32(moremath.WasmCompatMin(float64(x), float64(y)))
		})
	case threadir.OpFMax:
		res = floatOnly(rec.Type, lhs, rhs, moremath.WasmCompatMax, func(x, y float32) float32 {
			return float32(moremath.WasmCompatMax(float64(x), float64(y)))
		})
	case threadir.OpFCopysign:
		res = floatOnly(rec.Type, lhs, rhs, math.Copysign, func(x, y float32) float32 {
			return float32(math.Copysign(float64(x), float64(y)))
		})
	default:
		panic("interpreter: execBinary called with non-binary opcode")
	}
	write(a, rec.Type, rec.Dst, res)
}

func intOnly(t threadir.Type, lhs, rhs uint64, f32 func(x, y uint32) uint32, f64 func(x, y uint64) uint64) uint64 {
	if t == threadir.TypeI32 {
		return uint64(f32(uint32(lhs), uint32(rhs)))
	}
	return f64(lhs, rhs)
}

func floatOnly(t threadir.Type, lhs, rhs uint64, f64 func(x, y float64) float64, f32 func(x, y float32) float32) uint64 {
	if t == threadir.TypeF32 {
		return uint64(math.Float32bits(f32(math.Float32frombits(uint32(lhs)), math.Float32frombits(uint32(rhs)))))
	}
	return math.Float64bits(f64(math.Float64frombits(lhs), math.Float64frombits(rhs)))
}

func intOrFloat(t threadir.Type, lhs, rhs uint64,
	i32 func(x, y uint32) uint32, i64 func(x, y uint64) uint64,
	f64 func(x, y float64) float64, f32 func(x, y float32) float32) uint64 {
	switch t {
	case threadir.TypeI32:
		return uint64(i32(uint32(lhs), uint32(rhs)))
	case threadir.TypeI64:
		return i64(lhs, rhs)
	case threadir.TypeF32:
		return uint64(math.Float32bits(f32(math.Float32frombits(uint32(lhs)), math.Float32frombits(uint32(rhs)))))
	default: // TypeF64
		return math.Float64bits(f64(math.Float64frombits(lhs), math.Float64frombits(rhs)))
	}
}

// execDivS implements signed integer division, trapping on a zero divisor
// and on the single representable overflow case MinInt / -1 (spec.md §7:
// "Integer overflow (only INT_MIN / -1 in div_s)").
func execDivS(t threadir.Type, lhs, rhs uint64, traps *Traps) uint64 {
	if t == threadir.TypeI32 {
		n, d := int32(uint32(lhs)), int32(uint32(rhs))
		if d == 0 {
			traps.divideByZero()
		}
		if n == math.MinInt32 && d == -1 {
			traps.integerOverflow()
		}
		return uint64(uint32(n / d))
	}
	n, d := int64(lhs), int64(rhs)
	if d == 0 {
		traps.divideByZero()
	}
	if n == math.MinInt64 && d == -1 {
		traps.integerOverflow()
	}
	return uint64(n / d)
}

func execDivU(t threadir.Type, lhs, rhs uint64, traps *Traps) uint64 {
	if t == threadir.TypeI32 {
		d := uint32(rhs)
		if d == 0 {
			traps.divideByZero()
		}
		return uint64(uint32(lhs) / d)
	}
	if rhs == 0 {
		traps.divideByZero()
	}
	return lhs / rhs
}

// execRemS implements signed remainder: a zero divisor still traps, but
// MinInt % -1 is defined (result 0), unlike division (spec.md §4.5).
func execRemS(t threadir.Type, lhs, rhs uint64, traps *Traps) uint64 {
	if t == threadir.TypeI32 {
		n, d := int32(uint32(lhs)), int32(uint32(rhs))
		if d == 0 {
			traps.divideByZero()
		}
		if n == math.MinInt32 && d == -1 {
			return 0
		}
		return uint64(uint32(n % d))
	}
	n, d := int64(lhs), int64(rhs)
	if d == 0 {
		traps.divideByZero()
	}
	if n == math.MinInt64 && d == -1 {
		return 0
	}
	return uint64(n % d)
}

func execRemU(t threadir.Type, lhs, rhs uint64, traps *Traps) uint64 {
	if t == threadir.TypeI32 {
		d := uint32(rhs)
		if d == 0 {
			traps.divideByZero()
		}
		return uint64(uint32(lhs) % d)
	}
	if rhs == 0 {
		traps.divideByZero()
	}
	return lhs % rhs
}
