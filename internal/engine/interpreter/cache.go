package interpreter

import "github.com/ulte-soft/threadvm/internal/threadir"

// fillCache seeds args' TOS cache from operand-stack memory at activation
// entry. The translator's very first consuming Record for a cached type
// reads straight out of the cache (spec.md §4.1: "ModeCache" has no memory
// counterpart once a ring holds 2+ slots), so that ring must already hold
// its logical top-of-stack values the moment execution begins — the same
// way threadir.NewCursor starts a translation assuming a fully populated
// ring, not an empty one. Without this step every cached run reads
// uninitialized cache slots instead of the values a caller actually seeded.
//
// A ring-size-1 type keeps its one slot mirrored in memory throughout
// execution (ModeCacheReadMemDrop/ModeCacheWriteMemPush always touch both),
// so its entry value is peeked, never removed. A ring of 2+ slots has no
// memory counterpart at all, so its entry values are popped out of memory
// entirely, top-down, matching the order generateBinary's first operand
// reads would expect (spec.md §4.1's rhs-before-lhs order).
func fillCache(args *Args, ranges threadir.Ranges) {
	c := threadir.NewCursor(ranges)
	for i := 0; i < 4; i++ {
		t := threadir.Type(i)
		n := ranges.Get(i).Len()
		if n == 0 {
			continue
		}
		mirrored := n == 1
		for depth := 0; depth < n; depth++ {
			var slot uint8
			c, slot = c.Pop(t)
			var v uint64
			if mirrored {
				v = args.Mem.Peek(0)
			} else {
				v = args.Mem.Pop()
			}
			cacheWrite(args, t, slot, v)
		}
	}
}

// spillCache is fillCache's mirror image at activation exit: every type
// whose ring holds 2+ slots is pure register with no memory counterpart, so
// its still-cached logical values must be written back onto operand-stack
// memory before a caller can read the final stack (spec.md §4.1; this is
// what threadvm.Run relies on to see a cached function's true result).
// finalCursor is the translator's own post-body cursor state
// (threadir.Program.FinalCursor), so the slot/depth order matches exactly
// what execution actually left behind. A ring-size-1 type needs no spill:
// its single slot was kept mirrored in memory the whole time.
func spillCache(args *Args, finalCursor threadir.Cursor) {
	for i := 0; i < 4; i++ {
		t := threadir.Type(i)
		r := finalCursor.Range(t)
		n := r.Len()
		if n < 2 {
			continue
		}
		c := finalCursor
		var slots [threadir.MaxRing]uint8
		for depth := 0; depth < n; depth++ {
			c, slots[depth] = c.Pop(t)
		}
		for depth := n - 1; depth >= 0; depth-- {
			args.Mem.Push(cacheRead(args, t, slots[depth]))
		}
	}
}
