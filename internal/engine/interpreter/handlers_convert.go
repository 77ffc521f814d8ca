package interpreter

import (
	"math"

	"github.com/ulte-soft/threadvm/internal/threadir"
)

// execConvert implements the conversion/reinterpretation family of
// spec.md §4.6. rec.Signed distinguishes the signed/unsigned halves of
// trunc and convert; rec.SrcType/DstType select the width/kind.
func execConvert(a *Args, rec *threadir.Record, traps *Traps) {
	v := read(a, rec.SrcType, rec.SrcA)
	var res uint64
	switch rec.Op {
	case threadir.OpI32WrapI64:
		res = uint64(uint32(v))
	case threadir.OpI64ExtendI32S:
		res = uint64(int64(int32(uint32(v))))
	case threadir.OpI64ExtendI32U:
		res = uint64(uint32(v))
	case threadir.OpTruncFToI:
		res = execTruncFToI(rec, v, traps)
	case threadir.OpConvertIToF:
		res = execConvertIToF(rec, v)
	case threadir.OpF32DemoteF64:
		res = uint64(math.Float32bits(float32(math.Float64frombits(v))))
	case threadir.OpF64PromoteF32:
		res = math.Float64bits(float64(math.Float32frombits(uint32(v))))
	case threadir.OpReinterpret:
		// Same bit width on both sides: a pure passthrough (spec.md §4.6).
		res = v
	default:
		panic("interpreter: execConvert called with non-conversion opcode")
	}
	write(a, rec.DstType, rec.Dst, res)
}

// execTruncFToI implements float-to-integer truncation toward zero. Per
// spec.md §4.6, both a NaN operand and a mathematical result outside the
// destination's representable range trap with the same kind
// (invalid_conversion) — this core does not distinguish an "overflow"
// sub-case the way the teacher's two separate sentinel errors do, since
// spec.md §7 reserves integer_overflow exclusively for div_s.
func execTruncFToI(rec *threadir.Record, v uint64, traps *Traps) uint64 {
	var f float64
	if rec.SrcType == threadir.TypeF32 {
		f = float64(math.Float32frombits(uint32(v)))
	} else {
		f = math.Float64frombits(v)
	}
	if math.IsNaN(f) {
		traps.invalidConversion()
	}
	trunc := math.Trunc(f)

	switch {
	case rec.DstType == threadir.TypeI32 && rec.Signed:
		if trunc < math.MinInt32 || trunc > math.MaxInt32 {
			traps.invalidConversion()
		}
		return uint64(uint32(int32(trunc)))
	case rec.DstType == threadir.TypeI32 && !rec.Signed:
		if trunc < 0 || trunc > math.MaxUint32 {
			traps.invalidConversion()
		}
		return uint64(uint32(trunc))
	case rec.DstType == threadir.TypeI64 && rec.Signed:
		// math.MaxInt64 rounds up when widened to float64, so the upper
		// bound check must use >= rather than >.
		if trunc < math.MinInt64 || trunc >= math.MaxInt64 {
			traps.invalidConversion()
		}
		return uint64(int64(trunc))
	default: // I64, unsigned
		if trunc < 0 || trunc >= math.MaxUint64 {
			traps.invalidConversion()
		}
		return uint64(trunc)
	}
}

// execConvertIToF implements integer-to-float conversion, round-to-nearest
// ties-to-even per Go's int-to-float conversion semantics (Go spec:
// "conversions between integer and floating-point types round using IEEE
// 754 round-to-even"), matching spec.md §4.6's requirement without any
// extra rounding-mode bookkeeping. i64/u64 convert straight to the
// destination width rather than via float64: widening to float64 first and
// then narrowing to float32 rounds twice, which can land 1 ulp away from
// the single-rounding result for large magnitudes (the teacher converts
// directly for the same reason, interpreter.go's Convert cases). i32/u32
// are exact in float64, so routing them through it changes nothing, but
// they take the same direct path here for one uniform rule.
func execConvertIToF(rec *threadir.Record, v uint64) uint64 {
	if rec.DstType == threadir.TypeF32 {
		var f float32
		switch {
		case rec.SrcType == threadir.TypeI32 && rec.Signed:
			f = float32(int32(uint32(v)))
		case rec.SrcType == threadir.TypeI32 && !rec.Signed:
			f = float32(uint32(v))
		case rec.SrcType == threadir.TypeI64 && rec.Signed:
			f = float32(int64(v))
		default: // I64, unsigned
			f = float32(v)
		}
		return uint64(math.Float32bits(f))
	}

	var f float64
	switch {
	case rec.SrcType == threadir.TypeI32 && rec.Signed:
		f = float64(int32(uint32(v)))
	case rec.SrcType == threadir.TypeI32 && !rec.Signed:
		f = float64(uint32(v))
	case rec.SrcType == threadir.TypeI64 && rec.Signed:
		f = float64(int64(v))
	default: // I64, unsigned
		f = float64(v)
	}
	return math.Float64bits(f)
}
