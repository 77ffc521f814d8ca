package threadir

import "fmt"

// Translate lowers a validated instruction sequence into a Program under
// the given Option, implementing the single forward walk of spec.md §4.2:
// for each operator it picks operand sources/destinations from the
// current Cursor and Option, emits the corresponding Record, and advances
// the Cursor exactly as a real execution would advance the TOS rings.
//
// Branch targets are resolved by label: OpMark defines a label at the
// current output position; OpBr/OpBrIf reference one. A forward branch
// (label not yet marked) is queued and patched once its Mark is reached;
// a backward branch (label already marked, as a loop head is) resolves
// immediately. An Instr sequence with a Br/BrIf whose label is never
// marked is a translation error (spec.md §7: "branch fix-up failures...
// must prevent the corresponding function from ever being executed").
func Translate(instrs []Instr, opt Option) (Program, error) {
	if err := opt.Validate(); err != nil {
		return Program{}, err
	}

	cur := NewCursor(opt.Ranges)
	records := make([]Record, 0, len(instrs))
	resolved := map[int]int{}        // label -> record index
	pending := map[int][]int{}       // label -> record indices awaiting Target
	sawEnd := false

	for _, in := range instrs {
		switch in.Op {
		case OpMark:
			if _, dup := resolved[in.Label]; dup {
				return Program{}, fmt.Errorf("threadir: label %d marked twice", in.Label)
			}
			resolved[in.Label] = len(records)
			for _, idx := range pending[in.Label] {
				records[idx].Target = len(records)
			}
			delete(pending, in.Label)

		case OpUnreachable:
			records = append(records, Record{
				Op:            OpUnreachable,
				HasDescriptor: in.HasDescriptor,
				Descriptor:    in.Descriptor,
			})

		case OpBr, OpBrIf:
			rec := Record{Op: in.Op}
			if in.Op == OpBrIf {
				rec.Type = TypeI32
				var src OperandSource
				cur, src = popOperand(cur, TypeI32)
				rec.SrcA = src
			}
			if target, ok := resolved[in.Label]; ok {
				rec.Target = target
			} else {
				pending[in.Label] = append(pending[in.Label], len(records))
			}
			records = append(records, rec)

		case OpEnd:
			records = append(records, Record{Op: OpEnd})
			sawEnd = true

		case OpClz, OpCtz, OpPopcnt,
			OpFAbs, OpFNeg, OpFCeil, OpFFloor, OpFTrunc, OpFNearest, OpFSqrt:
			nc, src, dst := generateUnary(cur, in.Type)
			cur = nc
			records = append(records, Record{Op: in.Op, Type: in.Type, SrcA: src, Dst: dst})

		case OpAdd, OpSub, OpMul, OpAnd, OpOr, OpXor,
			OpShl, OpShrS, OpShrU, OpRotl, OpRotr,
			OpDivS, OpDivU, OpRemS, OpRemU,
			OpFAdd, OpFSub, OpFMul, OpFDiv, OpFMin, OpFMax, OpFCopysign:
			nc, lhs, rhs, dst := generateBinary(cur, in.Type)
			cur = nc
			records = append(records, Record{
				Op: in.Op, Type: in.Type, Signed: in.Signed,
				SrcA: lhs, SrcB: rhs, Dst: dst,
			})

		case OpI32WrapI64, OpI64ExtendI32S, OpI64ExtendI32U,
			OpTruncFToI, OpConvertIToF, OpF32DemoteF64, OpF64PromoteF32, OpReinterpret:
			nc, src, dst := generateConvert(cur, in.SrcType, in.DstType)
			cur = nc
			records = append(records, Record{
				Op: in.Op, SrcType: in.SrcType, DstType: in.DstType, Signed: in.Signed,
				SrcA: src, Dst: dst,
			})

		default:
			return Program{}, fmt.Errorf("threadir: unsupported opcode %d", in.Op)
		}
	}

	if len(pending) > 0 {
		return Program{}, fmt.Errorf("threadir: %d branch target label(s) never marked", len(pending))
	}
	if !sawEnd {
		return Program{}, fmt.Errorf("threadir: function body missing terminating End instruction")
	}

	return Program{Records: records, Option: opt, FinalCursor: cur}, nil
}

// popOperand selects the source for consuming one logical top-of-stack
// value of type t: a pure cache read when the ring holds 2+ slots, a
// cache-read-and-drop-memory-mirror when it holds exactly 1 (spec.md
// §4.1's read-ahead/write-behind model), or a plain memory pop when
// caching is disabled for t.
func popOperand(cur Cursor, t Type) (Cursor, OperandSource) {
	if !cur.Enabled(t) {
		return cur, FromMemory
	}
	c, slot := cur.Pop(t)
	if cur.Range(t).Len() == 1 {
		return c, OperandSource{Mode: ModeCacheReadMemDrop, Slot: slot}
	}
	return c, CacheSlot(slot)
}

// pushOperand selects the destination for producing one logical
// top-of-stack value of type t: the mirror image of popOperand.
func pushOperand(cur Cursor, t Type) (Cursor, OperandSource) {
	if !cur.Enabled(t) {
		return cur, FromMemory
	}
	ringLen := cur.Range(t).Len()
	c, slot := cur.Push(t)
	if ringLen == 1 {
		return c, OperandSource{Mode: ModeCacheWriteMemPush, Slot: slot}
	}
	return c, CacheSlot(slot)
}

// generateUnary selects operand source/destination for a pop-one-push-one
// same-type operator (spec.md §4.5 unary integer/float ops).
func generateUnary(cur Cursor, t Type) (Cursor, OperandSource, OperandSource) {
	c, src := popOperand(cur, t)
	c, dst := pushOperand(c, t)
	return c, src, dst
}

// generateBinary selects operand sources/destination for a pop-two-push-one
// same-type operator, implementing the ring-size-1 special case of
// spec.md §4.1 verbatim: when exactly one slot is available, RHS comes
// from that cache slot (an ordinary popOperand consumption), LHS is
// peeked from memory (it was evicted from the single slot when RHS was
// pushed, so only its memory mirror survives), and the result pokes back
// into LHS's memory slot in place while also refreshing the cache slot
// so a subsequent consumer of this type still has a fast path.
func generateBinary(cur Cursor, t Type) (newCur Cursor, lhs, rhs, dst OperandSource) {
	if !cur.Enabled(t) {
		return cur, FromMemory, FromMemory, FromMemory
	}
	if cur.Range(t).Len() == 1 {
		c, rhsSrc := popOperand(cur, t)
		_, dstSlot := c.Push(t)
		return c, PeekMemory, rhsSrc, OperandSource{Mode: ModeCacheWriteMemPoke, Slot: dstSlot}
	}
	c, rhsSlot := cur.Pop(t)
	c, lhsSlot := c.Pop(t)
	c, dstSlot := c.Push(t)
	return c, CacheSlot(lhsSlot), CacheSlot(rhsSlot), CacheSlot(dstSlot)
}

// generateConvert selects operand source/destination for a conversion or
// reinterpretation between src and dst types (spec.md §4.2, §4.6). The
// 1D-merged, 2D-disjoint and output-only variants spec.md describes all
// reduce to the same pop-src/push-dst cursor sequence: the distinction
// between them is a property of how Option.Ranges was configured
// (coincident, disjoint, or one side disabled), already enforced by
// Option.Validate, not a separate code path here.
func generateConvert(cur Cursor, src, dst Type) (Cursor, OperandSource, OperandSource) {
	c, srcOp := popOperand(cur, src)
	c, dstOp := pushOperand(c, dst)
	return c, srcOp, dstOp
}
