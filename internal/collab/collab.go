// Package collab names the two external collaborator boundaries spec.md
// §6 describes but leaves to "module linking, import resolution" outside
// this core's scope: linear memory and resolved imported functions. They
// exist here purely as narrow Go interfaces, checked against test fakes in
// this package; the interpreter engine itself dispatches no load, store or
// call_indirect and does not use them —
// grounded on the shape of tetratelabs/wazero's wasm.MemoryInstance
// (Grow/Buffer/Size) and wasm.ModuleInstance's function table, trimmed to
// exactly the operations spec.md §6 names, and confirmed against the
// reference implementation's local imported-memory/function header, whose
// contract is exactly grow, base pointer, size, and a resolved-index call.
package collab

// Memory is the linear-memory collaborator: the operations the numeric
// core itself never calls directly (spec.md's scope is the operand
// stack and TOS cache, not load/store opcodes) but that an embedding
// engine needs to grow and address the same way.
type Memory interface {
	// Grow adds deltaPages pages (each 64KiB) and returns the previous
	// size in pages, or -1 if the growth would exceed the memory's
	// maximum (mirrors the Wasm memory.grow instruction's contract).
	Grow(deltaPages uint32) (previousPages int32)

	// Base returns the backing byte slice's current address range; it is
	// call's responsibility to revalidate after any Grow, since growth
	// may reallocate.
	Base() []byte

	// Size returns the current size in pages.
	Size() uint32
}

// ImportedFunctions resolves a module-local function index to a callable,
// the call_indirect / call collaborator spec.md §4.4 and §7 describe:
// a signature mismatch or an out-of-range/null resolution is reported as
// wasmruntime.ErrRuntimeIndirectCallTypeMismatch by the caller, not by
// this interface itself.
type ImportedFunctions interface {
	// Resolve returns the callable at index, and ok=false if index names
	// no function (a null table slot or an out-of-range call_indirect).
	Resolve(index uint32) (fn func(args []uint64) []uint64, ok bool)

	// SignatureOf returns a stable per-function signature tag the caller
	// can compare against call_indirect's expected type index.
	SignatureOf(index uint32) (signature uint64, ok bool)
}
