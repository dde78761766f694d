package core

// TestCase is the view of an executing test case that assertion and
// expectation implementations report against.
type TestCase interface {
	Named

	LoggerProvider

	// Record a failure against the active run of this test case.
	//
	// expected is true for failures surfaced through an assertion API and
	// false for uncaught errors. A zero lineNumber together with an empty
	// filePath denotes an unknown location.
	RecordFailure(description string, filePath string, lineNumber uint, expected bool)

	// Returns whether the test body keeps executing after a failure.
	ContinueAfterFailure() bool
}

// Invocable is the uniform calling convention of a registered test method.
// It receives the test case instance it was bound to.
type Invocable = func(TestCase) error

// Expectation is a handle to an asynchronous condition that must be resolved
// before a test case ends.
type Expectation interface {
	// Description of the awaited condition, used in failure reports.
	Description() string

	// Fulfilled reports whether the condition has been resolved.
	Fulfilled() bool

	// Location where the expectation was created.
	Location() (filePath string, lineNumber uint)
}

// PerformanceMeter is an in-flight performance measurement session.
type PerformanceMeter interface {
	// Abort discards the measurement. Called when a failure is recorded while
	// the meter is active.
	Abort()
}

// Hooks are the per-type setUp/tearDown operations surrounding each test
// body. A nil hook is a no-op.
type Hooks struct {
	SetUp    func()
	TearDown func()
}
