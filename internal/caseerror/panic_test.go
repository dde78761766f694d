package caseerror

import (
	"errors"
	"fmt"
	"testing"
)

func TestCatchPanic(t *testing.T) {
	t.Run("no panic", func(t *testing.T) {
		err := CatchPanic(func() error { return nil })
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("error", func(t *testing.T) {
		err := CatchPanic(func() error { return fmt.Errorf("test error") })
		if err == nil {
			t.Fatalf("expected an error, got nil")
		}

		if _, ok := err.(PanicError); ok {
			t.Errorf("expected non-panic error, got panic error")
		}

		if err.Error() != "test error" {
			t.Errorf("expected test error, got %v", err)
		}
	})

	t.Run("panic", func(t *testing.T) {
		err := CatchPanic(func() error {
			panic("test panic")
		})
		if err == nil {
			t.Fatalf("expected an error, got nil")
		}

		pe, ok := err.(PanicError)
		if !ok {
			t.Fatalf("expected panic error, got %T", err)
		}

		if pe.Error() != "panic occurred: test panic" {
			t.Errorf("unexpected panic error message %q", pe.Error())
		}

		if pe.Value() != "test panic" {
			t.Errorf("unexpected panic value %v", pe.Value())
		}

		if len(pe.Stack) == 0 {
			t.Errorf("expected a captured stack")
		}
	})
}

func TestWiringError(t *testing.T) {
	err := NewWiringError("method '%s' bound to %s", "testAdd", "*calc.Calc")

	if err.Error() != "wiring error: method 'testAdd' bound to *calc.Calc" {
		t.Errorf("unexpected message %q", err.Error())
	}

	wrapped := fmt.Errorf("dispatch: %w", err)
	if !IsWiringError(wrapped) {
		t.Errorf("expected wrapped error to be a wiring error")
	}

	if IsWiringError(errors.New("plain")) {
		t.Errorf("plain error must not be a wiring error")
	}

	if verbose := fmt.Sprintf("%+v", err); len(verbose) <= len(err.Error()) {
		t.Errorf("expected %%+v to include a stack trace, got %q", verbose)
	}
}
