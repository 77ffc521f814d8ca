package threadir

// Instr is one decoded, type-checked instruction of the validated function
// body the translator consumes (spec.md §4.2's input). Producing this
// sequence — binary decoding, validation, type checking — is an external
// collaborator's job (spec.md §1); this core only ever reads it.
type Instr struct {
	Op Opcode

	// Type is the primary operand type for unary/binary numeric ops.
	Type Type

	// SrcType/DstType are used by conversions and reinterpretations; for
	// every other opcode they are left zero and ignored.
	SrcType, DstType Type
	Signed           bool

	// Label names a branch target for OpMark (definition site) and
	// OpBr/OpBrIf (use site). IDs are caller-assigned and only need to be
	// unique within one function body.
	Label int

	// Descriptor is OpUnreachable's optional descriptor payload.
	Descriptor    any
	HasDescriptor bool
}

// Unreachable returns an Instr for the unreachable opcode.
func Unreachable(descriptor any) Instr {
	return Instr{Op: OpUnreachable, Descriptor: descriptor, HasDescriptor: descriptor != nil}
}

// Mark returns an Instr that defines branch target label.
func Mark(label int) Instr {
	return Instr{Op: OpMark, Label: label}
}

// Br returns an unconditional branch to label.
func Br(label int) Instr {
	return Instr{Op: OpBr, Label: label}
}

// BrIf returns a conditional branch to label, tested on i32.
func BrIf(label int) Instr {
	return Instr{Op: OpBrIf, Label: label, Type: TypeI32}
}

// Unary returns an Instr for a single-type unary numeric opcode.
func Unary(op Opcode, t Type) Instr {
	return Instr{Op: op, Type: t}
}

// UnarySigned is Unary with the Signed flag set as given. Signed/unsigned
// operator pairs such as shr_s/shr_u are distinct opcodes in this core, and
// no unary handler reads Signed.
func UnarySigned(op Opcode, t Type, signed bool) Instr {
	return Instr{Op: op, Type: t, Signed: signed}
}

// Binary returns an Instr for a single-type binary numeric opcode.
func Binary(op Opcode, t Type, signed bool) Instr {
	return Instr{Op: op, Type: t, Signed: signed}
}

// Convert returns an Instr for a conversion/reinterpretation between two
// distinct value types.
func Convert(op Opcode, src, dst Type, signed bool) Instr {
	return Instr{Op: op, SrcType: src, DstType: dst, Signed: signed}
}

// End returns the function-body terminator Instr.
func End() Instr {
	return Instr{Op: OpEnd}
}
