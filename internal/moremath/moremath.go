// Package moremath provides floating-point helpers whose contract differs
// from the Go standard library's in ways the Wasm numeric spec requires.
package moremath

import "math"

// math.Min doen't comply with the Wasm spec, so we borrow from the original
// with a change that either one of NaN results in NaN even if another is -Inf.
// https://github.com/golang/go/blob/1d20a362d0ca4898d77865e314ef6f73582daef0/src/math/dim.go#L74-L91
func WasmCompatMin(x, y float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return math.NaN()
	case math.IsInf(x, -1) || math.IsInf(y, -1):
		return math.Inf(-1)
	case x == 0 && x == y:
		if math.Signbit(x) {
			return x
		}
		return y
	}
	if x < y {
		return x
	}
	return y
}

// math.Max doen't comply with the Wasm spec, so we borrow from the original
// with a change that either one of NaN results in NaN even if another is Inf.
// https://github.com/golang/go/blob/1d20a362d0ca4898d77865e314ef6f73582daef0/src/math/dim.go#L42-L59
func WasmCompatMax(x, y float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return math.NaN()
	case math.IsInf(x, 1) || math.IsInf(y, 1):
		return math.Inf(1)

	case x == 0 && x == y:
		if math.Signbit(x) {
			return y
		}
		return x
	}
	if x > y {
		return x
	}
	return y
}

// WasmCompatNearestF32 implements the Wasm "nearest" operator for f32:
// round to the nearest integer, ties to even, independent of the host's
// floating-point rounding mode. NaN and infinities pass through unchanged;
// signed zero is preserved so nearest(-0.0) == -0.0.
//
// float32 values are exactly representable as float64, so widening before
// calling math.RoundToEven introduces no double-rounding: the rounding
// decision is made against the exact original value.
func WasmCompatNearestF32(f float32) float32 {
	if f == 0 || math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return f
	}
	return float32(math.RoundToEven(float64(f)))
}

// WasmCompatNearestF64 is WasmCompatNearestF32's f64 counterpart.
func WasmCompatNearestF64(f float64) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	return math.RoundToEven(f)
}
