package testmgr

import (
	"bytes"
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/microsoft/caserun/internal/caseerror"
	"github.com/microsoft/caserun/pkg/caserun/core"
	"github.com/sirupsen/logrus"
)

// Case is one test case instance: a single test method bound to a fresh
// instance of its test-case type. User test-case types embed *Case.
type Case struct {
	typeName   string
	methodName string
	index      uint
	closure    core.Invocable
	hooks      core.Hooks
	runKind    reflect.Type
	newRun     func(*Case) core.TestRun
	registry   *Registry
	suiteLog   *logrus.Logger
	log        *logrus.Logger
	logBuffer  bytes.Buffer

	mu                   sync.Mutex
	self                 core.TestCase
	run                  core.TestRun
	pending              []core.Expectation
	meter                core.PerformanceMeter
	continueAfterFailure bool
}

// CaseOptions describes how to build a Case.
type CaseOptions struct {
	TypeName   string
	MethodName string
	Closure    core.Invocable
	Hooks      core.Hooks

	// RunKind is the concrete type every run performed by the case must have.
	// RunFactory must produce runs of that type. Both are set together or
	// left nil for *Run.
	RunKind    reflect.Type
	RunFactory func(*Case) core.TestRun
}

// Implementer of logrus.Hook interface to tee log messages from the test case
// logger to the suite logger
type testCaseLogTee struct {
	suiteLogger *logrus.Logger
	testCaseId  string
}

func (tee testCaseLogTee) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (tee testCaseLogTee) Fire(entry *logrus.Entry) error {
	newEntry := tee.suiteLogger.WithFields(entry.Data)
	newEntry.Caller = entry.Caller
	newEntry.Log(entry.Level, fmt.Sprintf("[%s] > %s", tee.testCaseId, entry.Message))
	return nil
}

func newCase(opts CaseOptions, index uint, suiteLog *logrus.Logger, registry *Registry) *Case {
	c := &Case{
		typeName:             opts.TypeName,
		methodName:           opts.MethodName,
		index:                index,
		closure:              opts.Closure,
		hooks:                opts.Hooks,
		runKind:              opts.RunKind,
		newRun:               opts.RunFactory,
		registry:             registry,
		suiteLog:             suiteLog,
		log:                  logrus.New(),
		continueAfterFailure: true,
	}

	if c.newRun == nil {
		c.newRun = func(c *Case) core.TestRun { return NewRun(c) }
		c.runKind = reflect.TypeFor[*Run]()
	}
	if c.registry == nil {
		c.registry = DefaultRegistry
	}
	c.self = c

	c.log.SetLevel(logrus.TraceLevel)
	c.log.SetOutput(&c.logBuffer)
	c.log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableTimestamp: false,
	})
	c.log.AddHook(testCaseLogTee{
		suiteLogger: suiteLog,
		testCaseId:  c.id(),
	})

	return c
}

// Bind sets the instance handed to the test closure. It is the user
// test-case value embedding this Case; by default the Case itself.
func (c *Case) Bind(self core.TestCase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.self = self
}

// Name returns <type>.<method>.
func (c *Case) Name() string {
	return c.typeName + "." + c.methodName
}

func (c *Case) TypeName() string {
	return c.typeName
}

func (c *Case) MethodName() string {
	return c.methodName
}

func (c *Case) Index() uint {
	return c.index
}

func (c *Case) id() string {
	return fmt.Sprintf("%04d:%s", c.index, c.Name())
}

func (c *Case) Logger() *logrus.Logger {
	return c.log
}

// LogLines returns everything logged through the case logger.
func (c *Case) LogLines() []string {
	rawLines := bytes.Split(bytes.TrimRight(c.logBuffer.Bytes(), "\n"), []byte("\n"))
	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		if len(line) == 0 {
			continue
		}
		lines = append(lines, string(line))
	}

	return lines
}

// TestRun returns the run handed to the last Perform call, or nil.
func (c *Case) TestRun() core.TestRun {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run
}

// NewRun builds a run of the kind this case expects.
func (c *Case) NewRun() core.TestRun {
	return c.newRun(c)
}

// ContinueAfterFailure is always true: a failure never stops the test body.
func (c *Case) ContinueAfterFailure() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.continueAfterFailure
}

// SetContinueAfterFailure is accepted for interface compatibility and
// ignored.
func (c *Case) SetContinueAfterFailure(continueAfterFailure bool) {
	if !continueAfterFailure {
		c.suiteLog.Debugf("Ignoring request to stop '%s' after the first failure", c.Name())
	}
}

// RecordFailure forwards a failure to the active run. A measurement in
// progress is aborted.
func (c *Case) RecordFailure(description string, filePath string, lineNumber uint, expected bool) {
	c.mu.Lock()
	run := c.run
	meter := c.meter
	c.meter = nil
	c.mu.Unlock()

	if run == nil {
		c.fatal(caseerror.NewWiringError(
			"failure recorded for '%s' without an active run: %s",
			c.Name(),
			description,
		))
		return
	}

	entry := c.log.WithField("expected", expected)
	if filePath != "" || lineNumber != 0 {
		entry = entry.WithFields(logrus.Fields{
			"file": filePath,
			"line": lineNumber,
		})
	}
	entry.Error(description)

	run.RecordFailure(core.Failure{
		Description: description,
		FilePath:    filePath,
		LineNumber:  lineNumber,
		Expected:    expected,
	})

	if meter != nil {
		c.suiteLog.Debugf("Aborting performance measurement of '%s'", c.Name())
		meter.Abort()
	}

	if !c.ContinueAfterFailure() {
		c.suiteLog.Fatalf("Halting: '%s' failed and does not continue after failures", c.Name())
	}
}

// AddExpectation registers an expectation that must be fulfilled before
// the case finishes.
func (c *Case) AddExpectation(e core.Expectation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, e)
}

// Expect creates and registers an expectation located at the caller.
func (c *Case) Expect(description string) *Expectation {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "", 0
	}

	e := newExpectation(description, file, uint(line))
	c.AddExpectation(e)
	return e
}

// PendingExpectations returns the registered expectations in creation order.
func (c *Case) PendingExpectations() []core.Expectation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Expectation(nil), c.pending...)
}

// StartMeasuring makes m the active performance meter.
func (c *Case) StartMeasuring(m core.PerformanceMeter) {
	c.mu.Lock()
	busy := c.meter != nil
	if !busy {
		c.meter = m
	}
	c.mu.Unlock()

	if busy {
		c.fatal(caseerror.NewWiringError("'%s' is already measuring", c.Name()))
	}
}

// StopMeasuring drops the active performance meter, if any.
func (c *Case) StopMeasuring() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meter = nil
}

// PerformanceMeter returns the active meter, or nil.
func (c *Case) PerformanceMeter() core.PerformanceMeter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meter
}

// Measure runs block with m as the active performance meter.
func (c *Case) Measure(m core.PerformanceMeter, block func()) {
	c.StartMeasuring(m)
	defer c.StopMeasuring()
	block()
}

// fatal halts the process through the suite logger.
func (c *Case) fatal(err error) {
	c.suiteLog.Fatalf("%+v", err)
}
