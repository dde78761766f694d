package testmgr

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microsoft/caserun/internal/caseerror"
	"github.com/microsoft/caserun/internal/metrics"
	"github.com/microsoft/caserun/pkg/caserun/core"
	"github.com/sirupsen/logrus"
)

// Run is the default bookkeeping object of a single case execution.
type Run struct {
	id   uuid.UUID
	test *Case

	mu              sync.Mutex
	status          RunStatus
	startTime       time.Time
	endTime         time.Time
	executionCount  int
	failures        []core.Failure
	expectedCount   int
	unexpectedCount int
}

func NewRun(c *Case) *Run {
	return &Run{
		id:     uuid.New(),
		test:   c,
		status: RunStatusNotStarted,
	}
}

func (r *Run) ID() uuid.UUID {
	return r.id
}

func (r *Run) Test() core.TestCase {
	return r.test
}

// Case returns the case this run belongs to.
func (r *Run) Case() *Case {
	return r.test
}

func (r *Run) Start() {
	r.mu.Lock()
	status := r.status
	if status == RunStatusNotStarted {
		r.status = RunStatusRunning
		r.startTime = time.Now()
	}
	r.mu.Unlock()

	if status != RunStatusNotStarted {
		r.test.fatal(caseerror.NewWiringError(
			"run %s of '%s' started twice (status %s)",
			r.id,
			r.test.Name(),
			status,
		))
		return
	}

	r.test.suiteLog.WithField("run", r.id.String()).Debugf("%s (started)", r.test.Name())
}

func (r *Run) Stop() {
	r.mu.Lock()
	status := r.status
	if status == RunStatusRunning {
		r.endTime = time.Now()
		r.executionCount++
		if len(r.failures) == 0 {
			r.status = RunStatusPassed
		} else {
			r.status = RunStatusFailed
		}
	}
	final := r.status
	r.mu.Unlock()

	if status != RunStatusRunning {
		r.test.fatal(caseerror.NewWiringError(
			"run %s of '%s' stopped while %s",
			r.id,
			r.test.Name(),
			status,
		))
		return
	}

	localEntry := logrus.NewEntry(r.test.log)
	if !final.Passed() {
		localEntry = localEntry.WithField("failures", r.TotalFailureCount())
	}
	localEntry.Log(final.logLevel(), final.String())

	metrics.RecordCase(
		r.test.TypeName(),
		final.Passed(),
		r.Duration(),
		r.FailureCount(),
		r.UnexpectedFailureCount(),
	)
}

func (r *Run) RecordFailure(f core.Failure) {
	if f.Time.IsZero() {
		f.Time = time.Now()
	}

	r.mu.Lock()
	status := r.status
	if status == RunStatusRunning {
		r.failures = append(r.failures, f)
		if f.Expected {
			r.expectedCount++
		} else {
			r.unexpectedCount++
		}
	}
	r.mu.Unlock()

	if status != RunStatusRunning {
		r.test.fatal(caseerror.NewWiringError(
			"failure recorded on run %s of '%s' while %s: %s",
			r.id,
			r.test.Name(),
			status,
			f.Description,
		))
	}
}

func (r *Run) Status() RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Failures returns the recorded failures in the order they occurred.
func (r *Run) Failures() []core.Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Failure(nil), r.failures...)
}

func (r *Run) FailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expectedCount
}

func (r *Run) UnexpectedFailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unexpectedCount
}

func (r *Run) TotalFailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expectedCount + r.unexpectedCount
}

// ExecutionCount is 1 once the run has been stopped.
func (r *Run) ExecutionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.executionCount
}

func (r *Run) Succeeded() bool {
	return r.Status().Passed()
}

func (r *Run) StartTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startTime
}

func (r *Run) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.status {
	case RunStatusNotStarted:
		return 0
	case RunStatusRunning:
		return time.Since(r.startTime)
	default:
		return r.endTime.Sub(r.startTime)
	}
}

// StatusOf returns the status of run. Runs of custom kinds that do not
// expose a status are derived from Succeeded once performed.
func StatusOf(run core.TestRun) RunStatus {
	if run == nil {
		return RunStatusNotStarted
	}

	if r, ok := run.(interface{ Status() RunStatus }); ok {
		return r.Status()
	}

	if run.Succeeded() {
		return RunStatusPassed
	}
	return RunStatusFailed
}

// FailuresOf returns the failures recorded by run, or nil when its kind does
// not keep them.
func FailuresOf(run core.TestRun) []core.Failure {
	if r, ok := run.(interface{ Failures() []core.Failure }); ok {
		return r.Failures()
	}
	return nil
}
