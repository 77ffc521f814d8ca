package collab_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ulte-soft/threadvm/internal/collab"
)

// fakeMemory is the minimal embedding-host stand-in this core's own tests
// use to exercise the Memory boundary without a real linear-memory
// implementation behind it.
type fakeMemory struct {
	buf      []byte
	pages    uint32
	maxPages uint32
}

func newFakeMemory(initialPages, maxPages uint32) *fakeMemory {
	return &fakeMemory{
		buf:      make([]byte, initialPages*65536),
		pages:    initialPages,
		maxPages: maxPages,
	}
}

func (m *fakeMemory) Grow(deltaPages uint32) int32 {
	if m.pages+deltaPages > m.maxPages {
		return -1
	}
	prev := m.pages
	m.pages += deltaPages
	m.buf = append(m.buf, make([]byte, deltaPages*65536)...)
	return int32(prev)
}

func (m *fakeMemory) Base() []byte { return m.buf }

func (m *fakeMemory) Size() uint32 { return m.pages }

var _ collab.Memory = (*fakeMemory)(nil)

func TestMemoryGrowWithinMax(t *testing.T) {
	m := newFakeMemory(1, 4)

	prev := m.Grow(2)
	require.Equal(t, int32(1), prev)
	require.EqualValues(t, 3, m.Size())
	require.Len(t, m.Base(), 3*65536)
}

func TestMemoryGrowBeyondMaxFails(t *testing.T) {
	m := newFakeMemory(3, 4)

	prev := m.Grow(2)
	require.Equal(t, int32(-1), prev)
	require.EqualValues(t, 3, m.Size())
}

// fakeImports is a tiny function table, keyed by index, standing in for a
// resolved import/call_indirect table.
type fakeImports struct {
	fns  map[uint32]func(args []uint64) []uint64
	sigs map[uint32]uint64
}

func newFakeImports() *fakeImports {
	return &fakeImports{
		fns:  make(map[uint32]func(args []uint64) []uint64),
		sigs: make(map[uint32]uint64),
	}
}

func (i *fakeImports) register(index uint32, sig uint64, fn func(args []uint64) []uint64) {
	i.fns[index] = fn
	i.sigs[index] = sig
}

func (i *fakeImports) Resolve(index uint32) (func(args []uint64) []uint64, bool) {
	fn, ok := i.fns[index]
	return fn, ok
}

func (i *fakeImports) SignatureOf(index uint32) (uint64, bool) {
	sig, ok := i.sigs[index]
	return sig, ok
}

var _ collab.ImportedFunctions = (*fakeImports)(nil)

func TestImportedFunctionsResolveAndCall(t *testing.T) {
	imports := newFakeImports()
	imports.register(0, 0xCAFE, func(args []uint64) []uint64 {
		return []uint64{args[0] + args[1]}
	})

	fn, ok := imports.Resolve(0)
	require.True(t, ok)
	require.Equal(t, []uint64{7}, fn([]uint64{3, 4}))

	sig, ok := imports.SignatureOf(0)
	require.True(t, ok)
	require.EqualValues(t, 0xCAFE, sig)
}

func TestImportedFunctionsUnresolvedIndexReportsNotOK(t *testing.T) {
	imports := newFakeImports()

	_, ok := imports.Resolve(9)
	require.False(t, ok)

	_, ok = imports.SignatureOf(9)
	require.False(t, ok)
}
