package testmgr

import "sync/atomic"

// Expectation is a minimal expectation handle created by Case.Expect.
type Expectation struct {
	description string
	file        string
	line        uint
	fulfilled   atomic.Bool
}

func newExpectation(description string, file string, line uint) *Expectation {
	return &Expectation{
		description: description,
		file:        file,
		line:        line,
	}
}

func (e *Expectation) Description() string {
	return e.description
}

// Fulfill marks the awaited condition as resolved. It may be called from any
// goroutine.
func (e *Expectation) Fulfill() {
	e.fulfilled.Store(true)
}

func (e *Expectation) Fulfilled() bool {
	return e.fulfilled.Load()
}

func (e *Expectation) Location() (string, uint) {
	return e.file, e.line
}
