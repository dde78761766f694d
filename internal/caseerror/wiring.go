package caseerror

import (
	"fmt"

	"github.com/pkg/errors"
)

// WiringError reports a broken contract between framework components, such as
// a method dispatched to an instance of the wrong type or a failure recorded
// without an active run. It is never reported as a test failure.
type WiringError struct {
	cause error
}

// NewWiringError builds a WiringError carrying the stack of the caller.
func NewWiringError(format string, args ...any) *WiringError {
	return &WiringError{cause: errors.Errorf(format, args...)}
}

func (we *WiringError) Error() string {
	return "wiring error: " + we.cause.Error()
}

func (we *WiringError) Unwrap() error {
	return we.cause
}

// Format prints the stack trace with %+v.
func (we *WiringError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "wiring error: %+v", we.cause)
		return
	}
	fmt.Fprint(s, we.Error())
}

// IsWiringError reports whether err is or wraps a WiringError.
func IsWiringError(err error) bool {
	var we *WiringError
	return errors.As(err, &we)
}
