package caseerror

import (
	"fmt"
	"runtime/debug"
)

type PanicError struct {
	any
	Stack []byte
}

func NewPanicError(any any, stack []byte) PanicError {
	return PanicError{
		any:   any,
		Stack: stack,
	}
}

func (pe PanicError) Error() string {
	return fmt.Sprintf("panic occurred: %v", pe.any)
}

// Value returns the value the panic was raised with.
func (pe PanicError) Value() any {
	return pe.any
}

// CatchPanic runs f and converts a panic raised by it into a PanicError.
func CatchPanic(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(r, debug.Stack())
		}
	}()

	return f()
}
