package ring_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ulte-soft/threadvm/internal/ring"
)

func TestRangeLenAndEmpty(t *testing.T) {
	require.Equal(t, 0, ring.Range{Begin: 2, End: 2}.Len())
	require.True(t, ring.Range{Begin: 2, End: 2}.Empty())
	require.Equal(t, 3, ring.Range{Begin: 1, End: 4}.Len())
	require.False(t, ring.Range{Begin: 1, End: 4}.Empty())
}

func TestSingleSlotRingIsIdentity(t *testing.T) {
	r := ring.Range{Begin: 0, End: 1}
	require.Equal(t, uint8(0), r.Next(0))
	require.Equal(t, uint8(0), r.Prev(0))
}

func TestMultiSlotRingWraps(t *testing.T) {
	r := ring.Range{Begin: 0, End: 2}
	require.Equal(t, uint8(1), r.Next(0))
	require.Equal(t, uint8(0), r.Next(1))
	require.Equal(t, uint8(0), r.Prev(1))
	require.Equal(t, uint8(1), r.Prev(0))
}

func TestMergedWith(t *testing.T) {
	a := ring.Range{Begin: 0, End: 2}
	b := ring.Range{Begin: 0, End: 2}
	c := ring.Range{Begin: 2, End: 4}
	require.True(t, a.MergedWith(b))
	require.False(t, a.MergedWith(c))
	require.False(t, ring.Range{}.MergedWith(ring.Range{}))
}

func TestOverlapsDistinguishesFromMerged(t *testing.T) {
	a := ring.Range{Begin: 0, End: 2}
	b := ring.Range{Begin: 1, End: 3}
	require.True(t, a.Overlaps(b))
	merged := ring.Range{Begin: 0, End: 2}
	require.False(t, a.Overlaps(merged))
}

func TestNextPrevPanicOutsideRange(t *testing.T) {
	r := ring.Range{Begin: 0, End: 2}
	require.Panics(t, func() { r.Next(5) })
	require.Panics(t, func() { r.Prev(5) })
}
