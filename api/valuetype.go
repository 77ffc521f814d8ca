// Package api defines the scalar value vocabulary shared by every layer of
// the interpreter core: the translator, the TOS cache, the handler set and
// the operand-stack memory all speak in terms of api.ValueType.
package api

// ValueType describes one of the four scalar Wasm MVP types this core
// supports. Reference types, v128 and the GC/typed-function-reference
// extensions are out of scope (spec.md §1) and have no ValueType constant.
//
// The encoding reuses the Wasm binary format's type tag byte, mirroring
// tetratelabs/wazero's api.ValueType so that numeric literals read the same
// way a binary decoder would produce them, even though decoding itself is
// an external collaborator here.
type ValueType = byte

const (
	// ValueTypeI32 is a 32-bit integer, two's-complement, sign-agnostic.
	ValueTypeI32 ValueType = 0x7f
	// ValueTypeI64 is a 64-bit integer, two's-complement, sign-agnostic.
	ValueTypeI64 ValueType = 0x7e
	// ValueTypeF32 is an IEEE-754 binary32 floating point number.
	ValueTypeF32 ValueType = 0x7d
	// ValueTypeF64 is an IEEE-754 binary64 floating point number.
	ValueTypeF64 ValueType = 0x7c
)

// ValueTypeName returns a human-readable name for v, or "unknown" if v is
// not one of the four constants above.
func ValueTypeName(v ValueType) string {
	switch v {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	default:
		return "unknown"
	}
}
