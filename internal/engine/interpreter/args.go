// Package interpreter is the execution-time half of the threaded/tail-call
// core: Args (the uniform handler argument vector of spec.md §6), the
// opcode handlers (spec.md §4.4-§4.6), and the two driver loops that walk a
// threadir.Program to completion (spec.md §4.7-§4.8).
//
// Everything here is built against threadir.Program/Record/OperandSource
// only; it never sees the validated bytecode threadir.Translate consumed,
// matching spec.md §1's collaborator boundary.
package interpreter

import (
	"github.com/ulte-soft/threadvm/internal/opstack"
	"github.com/ulte-soft/threadvm/internal/threadir"
)

// Args is the single struct every handler receives: the instruction-stream
// cursor, the operand-stack memory pointer, and one fixed-size cache array
// per scalar type. spec.md §9 asks for "a plain struct with one fixed-size
// array field per scalar type" in place of the source language's
// parameter-pack argument vector; threadir.MaxRing bounds each array so no
// handler call allocates.
type Args struct {
	PC  int
	Mem *opstack.Stack

	I32 [threadir.MaxRing]uint32
	I64 [threadir.MaxRing]uint64
	F32 [threadir.MaxRing]uint32
	F64 [threadir.MaxRing]uint64
}

// NewArgs returns an Args ready to execute a Program from its first Record,
// with mem as the operand-stack memory for the activation (spec.md §5: a
// fresh Args per activation, never shared across calls).
func NewArgs(mem *opstack.Stack) *Args {
	return &Args{Mem: mem}
}

func cacheRead(a *Args, t threadir.Type, slot uint8) uint64 {
	switch t {
	case threadir.TypeI32:
		return uint64(a.I32[slot])
	case threadir.TypeI64:
		return a.I64[slot]
	case threadir.TypeF32:
		return uint64(a.F32[slot])
	case threadir.TypeF64:
		return a.F64[slot]
	default:
		panic("interpreter: unknown type in cacheRead")
	}
}

func cacheWrite(a *Args, t threadir.Type, slot uint8, v uint64) {
	switch t {
	case threadir.TypeI32:
		a.I32[slot] = uint32(v)
	case threadir.TypeI64:
		a.I64[slot] = v
	case threadir.TypeF32:
		a.F32[slot] = uint32(v)
	case threadir.TypeF64:
		a.F64[slot] = v
	default:
		panic("interpreter: unknown type in cacheWrite")
	}
}

// read fetches one operand according to its Record-baked OperandSource
// (spec.md §4.1). The translator already chose the Mode; the handler never
// re-derives it.
func read(a *Args, t threadir.Type, src threadir.OperandSource) uint64 {
	switch src.Mode {
	case threadir.ModeCache:
		return cacheRead(a, t, src.Slot)
	case threadir.ModeMemoryMove:
		return a.Mem.Pop()
	case threadir.ModeMemoryKeep:
		return a.Mem.Peek(0)
	case threadir.ModeCacheReadMemDrop:
		v := cacheRead(a, t, src.Slot)
		a.Mem.Drop()
		return v
	default:
		panic("interpreter: operand source not readable")
	}
}

// write stores one result according to its Record-baked OperandSource.
func write(a *Args, t threadir.Type, dst threadir.OperandSource, v uint64) {
	switch dst.Mode {
	case threadir.ModeCache:
		cacheWrite(a, t, dst.Slot, v)
	case threadir.ModeMemoryMove:
		a.Mem.Push(v)
	case threadir.ModeMemoryKeep:
		a.Mem.Poke(0, v)
	case threadir.ModeCacheWriteMemPush:
		cacheWrite(a, t, dst.Slot, v)
		a.Mem.Push(v)
	case threadir.ModeCacheWriteMemPoke:
		cacheWrite(a, t, dst.Slot, v)
		a.Mem.Poke(0, v)
	default:
		panic("interpreter: operand destination not writable")
	}
}
