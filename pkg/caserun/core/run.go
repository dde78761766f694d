package core

import "time"

// Failure is a single recorded failure.
type Failure struct {
	Description string
	FilePath    string
	LineNumber  uint
	// Expected is true when the failure came from an assertion API and false
	// when it came from an uncaught error.
	Expected bool
	Time     time.Time
}

// TestRun is the bookkeeping object of one test case execution.
type TestRun interface {
	// Returns the test case this run belongs to.
	Test() TestCase

	// Start marks the beginning of the execution.
	Start()

	// Stop marks the end of the execution.
	Stop()

	// RecordFailure appends a failure to the run.
	RecordFailure(f Failure)

	// Number of failures recorded with Expected set.
	FailureCount() int

	// Number of failures recorded without Expected set.
	UnexpectedFailureCount() int

	// Returns whether the run finished without any failures.
	Succeeded() bool
}
