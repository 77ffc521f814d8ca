package threadir

import "github.com/ulte-soft/threadvm/api"

// TypeFromAPI maps the external, binary-format-shaped api.ValueType tag an
// Instr decoder hands this package to the internal Type this package's
// Cursor/Record machinery actually indexes by. It is the one place the
// translation-time IR touches the public value-type vocabulary (spec.md
// §1's collaborator boundary: decoding and validation happen outside this
// core; all it consumes is the already-resolved scalar type).
func TypeFromAPI(v api.ValueType) Type {
	switch v {
	case api.ValueTypeI32:
		return TypeI32
	case api.ValueTypeI64:
		return TypeI64
	case api.ValueTypeF32:
		return TypeF32
	case api.ValueTypeF64:
		return TypeF64
	default:
		panic("threadir: unknown api.ValueType")
	}
}

// ToAPI is TypeFromAPI's inverse, used when a Program's result needs to be
// reported back in the external vocabulary (e.g. a host-facing trace or
// disassembly tool).
func (t Type) ToAPI() api.ValueType {
	switch t {
	case TypeI32:
		return api.ValueTypeI32
	case TypeI64:
		return api.ValueTypeI64
	case TypeF32:
		return api.ValueTypeF32
	default: // TypeF64
		return api.ValueTypeF64
	}
}
