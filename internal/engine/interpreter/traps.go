package interpreter

import (
	"fmt"

	"github.com/ulte-soft/threadvm/internal/wasmruntime"
)

// Traps holds the four host-installable trap callbacks of spec.md §7. A nil
// field (or a nil *Traps itself) means "no callback installed" for that
// kind; raising that trap then performs the fatal abort spec.md §7
// describes for a missing handler.
type Traps struct {
	OnUnreachable       func()
	OnInvalidConversion func()
	OnDivideByZero      func()
	OnIntegerOverflow   func()
}

// invokeTrap calls cb, expecting it to unwind the activation (by panicking
// itself, a goroutine-local longjmp equivalent). If cb is nil, or if it
// returns control to the engine instead of unwinding, invokeTrap panics
// with sentinel so the activation still tears down — spec.md §7: "if no
// handler is installed, or the handler returns control to the engine, the
// engine performs a fatal abort equivalent to the trap". It never returns
// normally.
func invokeTrap(cb func(), sentinel error) {
	if cb == nil {
		panic(fmt.Errorf("%w: fatal abort, no trap callback installed", sentinel))
	}
	cb()
	panic(fmt.Errorf("%w: fatal abort, trap callback returned control to the engine", sentinel))
}

func (t *Traps) unreachable() {
	var cb func()
	if t != nil {
		cb = t.OnUnreachable
	}
	invokeTrap(cb, wasmruntime.ErrRuntimeUnreachable)
}

func (t *Traps) invalidConversion() {
	var cb func()
	if t != nil {
		cb = t.OnInvalidConversion
	}
	invokeTrap(cb, wasmruntime.ErrRuntimeInvalidConversionToInteger)
}

func (t *Traps) divideByZero() {
	var cb func()
	if t != nil {
		cb = t.OnDivideByZero
	}
	invokeTrap(cb, wasmruntime.ErrRuntimeIntegerDivideByZero)
}

func (t *Traps) integerOverflow() {
	var cb func()
	if t != nil {
		cb = t.OnIntegerOverflow
	}
	invokeTrap(cb, wasmruntime.ErrRuntimeIntegerOverflow)
}
