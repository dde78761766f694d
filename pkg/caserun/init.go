package caserun

import (
	"errors"

	"github.com/microsoft/caserun/internal/collector"
	"github.com/microsoft/caserun/internal/testmgr"
	"github.com/microsoft/caserun/pkg/caserun/core"
	"github.com/microsoft/caserun/pkg/caserun/suite"
)

// Case is the base of every test-case type. Embed *Case in a struct and
// register the struct with MakeEntry.
type Case = testmgr.Case

type TestCase = core.TestCase
type TestRun = core.TestRun
type Failure = core.Failure
type Hooks = core.Hooks
type Expectation = testmgr.Expectation
type PerformanceMeter = core.PerformanceMeter

type Entry = collector.Entry
type Run = testmgr.Run

// ErrNoCurrentTest is returned when a failure is recorded while no test case
// is executing.
var ErrNoCurrentTest = errors.New("no test case is currently executing")

// MakeEntry builds the entry of the test-case type T from its test methods.
func MakeEntry[T TestCase](newT func(*Case) T, methods ...collector.TypedMethod[T]) (*Entry, error) {
	return collector.MakeEntry(newT, methods...)
}

// Throwing registers a test method that may return an error.
func Throwing[T TestCase](name string, f func(T) error) collector.TypedMethod[T] {
	return collector.Throwing(name, f)
}

// NonThrowing registers a test method that cannot return an error.
func NonThrowing[T TestCase](name string, f func(T)) collector.TypedMethod[T] {
	return collector.NonThrowing(name, f)
}

// SetRunFactory makes every case of entry run with runs of kind R.
func SetRunFactory[R TestRun](entry *Entry, f func(*Case) R) error {
	return collector.SetRunFactory(entry, f)
}

// Current returns the test case being performed, or nil when none is.
func Current() *Case {
	return testmgr.DefaultRegistry.Current()
}

// RecordFailure records a failure against the test case being performed.
func RecordFailure(description string, filePath string, lineNumber uint, expected bool) error {
	current := Current()
	if current == nil {
		return ErrNoCurrentTest
	}

	current.RecordFailure(description, filePath, lineNumber, expected)
	return nil
}

// Creates a new suite with the given name.
func CreateSuite(name string) suite.CaseSuite {
	return suite.CreateSuite(name)
}
