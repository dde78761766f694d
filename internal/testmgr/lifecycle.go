package testmgr

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/microsoft/caserun/internal/caseerror"
	"github.com/microsoft/caserun/pkg/caserun/core"
)

// Perform drives the case through its lifecycle using run: the case becomes
// current in its registry, the run is started, the test is invoked,
// unfulfilled expectations are reported, the run is stopped and the registry
// is cleared.
//
// A run of another kind than the one the case was built for, or a run that
// belongs to another case, halts the process.
func (c *Case) Perform(run core.TestRun) {
	if run == nil || reflect.TypeOf(run) != c.runKind {
		c.fatal(caseerror.NewWiringError(
			"'%s' must be performed with a run of kind %v, got %T",
			c.Name(),
			c.runKind,
			run,
		))
		return
	}

	if owner := run.Test(); owner != core.TestCase(c) {
		ownerName := "<none>"
		if owner != nil {
			ownerName = owner.Name()
		}
		c.fatal(caseerror.NewWiringError(
			"'%s' was handed a run belonging to '%s'",
			c.Name(),
			ownerName,
		))
		return
	}

	if other := c.registry.install(c); other != nil {
		c.fatal(caseerror.NewWiringError(
			"'%s' cannot be performed while '%s' is still executing",
			c.Name(),
			other.Name(),
		))
		return
	}
	defer c.registry.clear(c)

	c.mu.Lock()
	c.run = run
	c.mu.Unlock()

	run.Start()
	c.invokeTest()
	c.failUnfulfilledExpectations()
	run.Stop()
}

// invokeTest runs the setUp hook, the test closure and the tearDown hook.
// Errors and panics are recorded as unexpected failures. The body only runs
// when setUp completed; tearDown always runs.
func (c *Case) invokeTest() {
	if c.runStep("setUp", c.setUp) {
		c.runStep("test body", c.invokeClosure)
	}
	c.runStep("tearDown", c.tearDown)
}

func (c *Case) setUp() error {
	if c.hooks.SetUp != nil {
		c.hooks.SetUp()
	}
	return nil
}

func (c *Case) tearDown() error {
	if c.hooks.TearDown != nil {
		c.hooks.TearDown()
	}
	return nil
}

func (c *Case) invokeClosure() error {
	c.mu.Lock()
	self := c.self
	c.mu.Unlock()

	if c.closure == nil {
		return nil
	}
	return c.closure(self)
}

// runStep runs one step of the lifecycle and records what it threw. It
// reports whether the step returned normally.
func (c *Case) runStep(step string, f func() error) bool {
	err := runIsolated(f)
	switch {
	case errors.Is(err, errGoexit):
		c.log.Debugf("%s called runtime.Goexit", step)
		return false
	case err != nil:
		c.recordThrown(err)
		return false
	}

	return true
}

var errGoexit = errors.New("goroutine exited")

// runIsolated executes f on its own goroutine so that runtime.Goexit stops
// only f. It returns errGoexit when f did not return.
func runIsolated(f func() error) error {
	var err error
	var finished bool
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		err = caseerror.CatchPanic(f)
		finished = true
	}()

	wg.Wait()
	if !finished {
		return errGoexit
	}
	return err
}

func (c *Case) recordThrown(err error) {
	if caseerror.IsWiringError(err) {
		c.fatal(err)
		return
	}

	c.RecordFailure(fmt.Sprintf("threw error \"%v\"", err), "", 0, false)
}

func (c *Case) failUnfulfilledExpectations() {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, e := range pending {
		if e.Fulfilled() {
			continue
		}

		file, line := e.Location()
		c.RecordFailure(
			fmt.Sprintf("Failed due to unwaited expectation \"%s\"", e.Description()),
			file,
			line,
			false,
		)
	}
}
