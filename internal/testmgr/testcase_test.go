package testmgr

import (
	"errors"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/microsoft/caserun/pkg/caserun/core"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fatalExit struct {
	code int
}

func newTestLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	logger.ExitFunc = func(code int) {
		panic(fatalExit{code: code})
	}
	return logger, hook
}

// requireFatal fails the test unless f halts through the logger.
func requireFatal(t *testing.T, f func()) {
	t.Helper()

	defer func() {
		r := recover()
		if _, ok := r.(fatalExit); !ok {
			t.Fatalf("expected a fatal halt, got %v", r)
		}
	}()

	f()
}

func newTestCase(method string, closure core.Invocable, hooks core.Hooks) *Case {
	logger, _ := newTestLogger()
	manager := NewCaseManager(logger, &Registry{})
	return manager.NewCase(CaseOptions{
		TypeName:   "Calc",
		MethodName: method,
		Closure:    closure,
		Hooks:      hooks,
	})
}

func perform(c *Case) *Run {
	run := c.NewRun().(*Run)
	c.Perform(run)
	return run
}

type fakeMeter struct {
	aborts int
}

func (m *fakeMeter) Abort() {
	m.aborts++
}

func TestPerform_Passing(t *testing.T) {
	c := newTestCase("testAdd", func(tc core.TestCase) error {
		if 1+1 != 2 {
			tc.RecordFailure("1+1 != 2", "calc.go", 1, true)
		}
		return nil
	}, core.Hooks{})

	run := perform(c)

	assert.Equal(t, "Calc.testAdd", c.Name())
	assert.True(t, run.Succeeded())
	assert.Equal(t, RunStatusPassed, run.Status())
	assert.Equal(t, 0, run.TotalFailureCount())
	assert.Equal(t, 1, run.ExecutionCount())
	assert.Same(t, c, run.Case())
	assert.Equal(t, core.TestRun(run), c.TestRun())
}

func TestPerform_ReturnedError(t *testing.T) {
	c := newTestCase("testDivByZero", func(core.TestCase) error {
		return errors.New("division by zero")
	}, core.Hooks{})

	run := perform(c)

	require.Len(t, run.Failures(), 1)
	failure := run.Failures()[0]
	assert.Equal(t, `threw error "division by zero"`, failure.Description)
	assert.Equal(t, "", failure.FilePath)
	assert.Equal(t, uint(0), failure.LineNumber)
	assert.False(t, failure.Expected)
	assert.Equal(t, 1, run.UnexpectedFailureCount())
	assert.Equal(t, 0, run.FailureCount())
	assert.False(t, run.Succeeded())
}

func TestPerform_Panic(t *testing.T) {
	c := newTestCase("testPanic", func(core.TestCase) error {
		panic("boom")
	}, core.Hooks{})

	run := perform(c)

	require.Len(t, run.Failures(), 1)
	assert.Equal(t, `threw error "panic occurred: boom"`, run.Failures()[0].Description)
	assert.False(t, run.Failures()[0].Expected)
}

func TestPerform_Goexit(t *testing.T) {
	var tornDown bool
	c := newTestCase("testGoexit", func(core.TestCase) error {
		runtime.Goexit()
		return errors.New("unreachable")
	}, core.Hooks{TearDown: func() { tornDown = true }})

	run := perform(c)

	assert.True(t, run.Succeeded())
	assert.True(t, tornDown)
}

func TestPerform_HookGoexit(t *testing.T) {
	t.Run("setUp", func(t *testing.T) {
		var calls []string
		logger, _ := newTestLogger()
		registry := &Registry{}
		c := NewCaseManager(logger, registry).NewCase(CaseOptions{
			TypeName:   "Calc",
			MethodName: "testSetUpGoexit",
			Closure: func(core.TestCase) error {
				calls = append(calls, "body")
				return nil
			},
			Hooks: core.Hooks{
				SetUp:    func() { runtime.Goexit() },
				TearDown: func() { calls = append(calls, "tearDown") },
			},
		})

		run := perform(c)

		assert.Equal(t, []string{"tearDown"}, calls)
		assert.Equal(t, RunStatusPassed, run.Status())
		assert.Equal(t, 1, run.ExecutionCount())
		assert.Nil(t, registry.Current())
	})

	t.Run("tearDown", func(t *testing.T) {
		logger, _ := newTestLogger()
		registry := &Registry{}
		c := NewCaseManager(logger, registry).NewCase(CaseOptions{
			TypeName:   "Calc",
			MethodName: "testTearDownGoexit",
			Closure: func(tc core.TestCase) error {
				tc.(*Case).Expect("result published")
				return nil
			},
			Hooks: core.Hooks{
				TearDown: func() { runtime.Goexit() },
			},
		})

		run := perform(c)

		assert.Equal(t, RunStatusFailed, run.Status())
		require.Len(t, run.Failures(), 1)
		assert.Equal(t, `Failed due to unwaited expectation "result published"`, run.Failures()[0].Description)
		assert.Nil(t, registry.Current())
	})
}

func TestPerform_UnfulfilledExpectations(t *testing.T) {
	c := newTestCase("testAsync", func(tc core.TestCase) error {
		self := tc.(*Case)
		self.Expect("first result")
		self.Expect("fulfilled result").Fulfill()
		self.Expect("second result")
		return nil
	}, core.Hooks{})

	run := perform(c)

	failures := run.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, `Failed due to unwaited expectation "first result"`, failures[0].Description)
	assert.Equal(t, `Failed due to unwaited expectation "second result"`, failures[1].Description)

	_, thisFile, _, _ := runtime.Caller(0)
	for _, f := range failures {
		assert.Equal(t, thisFile, f.FilePath)
		assert.NotZero(t, f.LineNumber)
		assert.False(t, f.Expected)
	}

	assert.Empty(t, c.PendingExpectations())
}

func TestPerform_ExpectationsCheckedAfterFailingBody(t *testing.T) {
	c := newTestCase("testAsyncError", func(tc core.TestCase) error {
		tc.(*Case).Expect("never")
		return errors.New("bad input")
	}, core.Hooks{})

	run := perform(c)

	failures := run.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, `threw error "bad input"`, failures[0].Description)
	assert.Equal(t, `Failed due to unwaited expectation "never"`, failures[1].Description)
}

func TestPerform_HookOrder(t *testing.T) {
	var calls []string
	hooks := core.Hooks{
		SetUp:    func() { calls = append(calls, "setUp") },
		TearDown: func() { calls = append(calls, "tearDown") },
	}

	t.Run("passing body", func(t *testing.T) {
		calls = nil
		c := newTestCase("testOrder", func(core.TestCase) error {
			calls = append(calls, "body")
			return nil
		}, hooks)

		perform(c)
		assert.Equal(t, []string{"setUp", "body", "tearDown"}, calls)
	})

	t.Run("raising body", func(t *testing.T) {
		calls = nil
		c := newTestCase("testOrderRaise", func(core.TestCase) error {
			calls = append(calls, "body")
			return errors.New("raised")
		}, hooks)

		run := perform(c)
		assert.Equal(t, []string{"setUp", "body", "tearDown"}, calls)
		assert.Equal(t, 1, run.TotalFailureCount())
	})

	t.Run("panicking setUp", func(t *testing.T) {
		calls = nil
		c := newTestCase("testSetUpPanic", func(core.TestCase) error {
			calls = append(calls, "body")
			return nil
		}, core.Hooks{
			SetUp:    func() { panic("no fixture") },
			TearDown: hooks.TearDown,
		})

		run := perform(c)
		assert.Equal(t, []string{"tearDown"}, calls)
		require.Len(t, run.Failures(), 1)
		assert.Equal(t, `threw error "panic occurred: no fixture"`, run.Failures()[0].Description)
	})
}

func TestPerform_RegistryLifetime(t *testing.T) {
	logger, _ := newTestLogger()
	registry := &Registry{}
	manager := NewCaseManager(logger, registry)

	var seenByA, seenByB *Case
	a := manager.NewCase(CaseOptions{TypeName: "Calc", MethodName: "testA", Closure: func(core.TestCase) error {
		seenByA = registry.Current()
		return nil
	}})
	b := manager.NewCase(CaseOptions{TypeName: "Calc", MethodName: "testB", Closure: func(core.TestCase) error {
		seenByB = registry.Current()
		return nil
	}})

	assert.Nil(t, registry.Current())

	perform(a)
	assert.Same(t, a, seenByA)
	assert.Nil(t, registry.Current())

	perform(b)
	assert.Same(t, b, seenByB)
	assert.Nil(t, registry.Current())
}

func TestPerform_WiringErrors(t *testing.T) {
	type otherRun struct {
		*Run
	}

	t.Run("run of another kind", func(t *testing.T) {
		c := newTestCase("testKind", func(core.TestCase) error { return nil }, core.Hooks{})
		requireFatal(t, func() { c.Perform(&otherRun{NewRun(c)}) })
	})

	t.Run("nil run", func(t *testing.T) {
		c := newTestCase("testNilRun", func(core.TestCase) error { return nil }, core.Hooks{})
		requireFatal(t, func() { c.Perform(nil) })
	})

	t.Run("run of another case", func(t *testing.T) {
		c := newTestCase("testOwner", func(core.TestCase) error { return nil }, core.Hooks{})
		other := newTestCase("testOther", func(core.TestCase) error { return nil }, core.Hooks{})
		requireFatal(t, func() { c.Perform(NewRun(other)) })
	})

	t.Run("case already executing", func(t *testing.T) {
		logger, _ := newTestLogger()
		manager := NewCaseManager(logger, &Registry{})
		a := manager.NewCase(CaseOptions{TypeName: "Calc", MethodName: "testA"})
		b := manager.NewCase(CaseOptions{TypeName: "Calc", MethodName: "testB"})

		require.Nil(t, manager.Registry().install(a))
		requireFatal(t, func() { b.Perform(b.NewRun()) })
		assert.Same(t, a, manager.Registry().Current())
	})

	t.Run("custom run kind", func(t *testing.T) {
		logger, _ := newTestLogger()
		manager := NewCaseManager(logger, &Registry{})
		c := manager.NewCase(CaseOptions{
			TypeName:   "Calc",
			MethodName: "testCustom",
			Closure:    func(core.TestCase) error { return nil },
			RunKind:    reflect.TypeFor[*otherRun](),
			RunFactory: func(c *Case) core.TestRun { return &otherRun{NewRun(c)} },
		})

		run := c.NewRun()
		c.Perform(run)
		assert.True(t, run.Succeeded())

		requireFatal(t, func() { c.Perform(NewRun(c)) })
	})
}

func TestNewCase_PartialRunKind(t *testing.T) {
	type otherRun struct {
		*Run
	}

	tests := []struct {
		name string
		opts CaseOptions
	}{
		{
			name: "factory without kind",
			opts: CaseOptions{
				TypeName:   "Calc",
				MethodName: "testFactory",
				RunFactory: func(c *Case) core.TestRun { return &otherRun{NewRun(c)} },
			},
		},
		{
			name: "kind without factory",
			opts: CaseOptions{
				TypeName:   "Calc",
				MethodName: "testKind",
				RunKind:    reflect.TypeFor[*otherRun](),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := newTestLogger()
			manager := NewCaseManager(logger, &Registry{})

			requireFatal(t, func() { manager.NewCase(tt.opts) })
			assert.Empty(t, manager.Cases())
		})
	}
}

func TestRecordFailure(t *testing.T) {
	t.Run("without an active run", func(t *testing.T) {
		c := newTestCase("testNoRun", nil, core.Hooks{})
		requireFatal(t, func() { c.RecordFailure("lost", "calc.go", 3, true) })
	})

	t.Run("after the run stopped", func(t *testing.T) {
		c := newTestCase("testLate", func(core.TestCase) error { return nil }, core.Hooks{})
		perform(c)
		requireFatal(t, func() { c.RecordFailure("late", "calc.go", 3, true) })
	})

	t.Run("continues after failure", func(t *testing.T) {
		var reachedEnd bool
		c := newTestCase("testContinue", func(tc core.TestCase) error {
			tc.(*Case).SetContinueAfterFailure(false)
			tc.RecordFailure("first", "calc.go", 10, true)
			tc.RecordFailure("second", "calc.go", 11, true)
			reachedEnd = true
			return nil
		}, core.Hooks{})

		run := perform(c)

		assert.True(t, reachedEnd)
		assert.True(t, c.ContinueAfterFailure())
		failures := run.Failures()
		require.Len(t, failures, 2)
		assert.Equal(t, "first", failures[0].Description)
		assert.Equal(t, "second", failures[1].Description)
		assert.Equal(t, uint(10), failures[0].LineNumber)
		assert.True(t, failures[0].Expected)
		assert.Equal(t, 2, run.FailureCount())
	})

	t.Run("aborts measurement", func(t *testing.T) {
		meter := &fakeMeter{}
		c := newTestCase("testMeasure", func(tc core.TestCase) error {
			self := tc.(*Case)
			self.Measure(meter, func() {
				tc.RecordFailure("slow", "calc.go", 20, true)
				tc.RecordFailure("slower", "calc.go", 21, true)
			})
			return nil
		}, core.Hooks{})

		perform(c)

		assert.Equal(t, 1, meter.aborts)
		assert.Nil(t, c.PerformanceMeter())
	})

	t.Run("captures log lines", func(t *testing.T) {
		c := newTestCase("testLogs", func(tc core.TestCase) error {
			tc.RecordFailure("values differ", "calc.go", 30, true)
			return nil
		}, core.Hooks{})

		perform(c)

		lines := c.LogLines()
		require.NotEmpty(t, lines)
		assert.Contains(t, strings.Join(lines, "\n"), "values differ")
	})
}

func TestMeasure_Nested(t *testing.T) {
	logger, _ := newTestLogger()
	c := NewCaseManager(logger, &Registry{}).NewCase(CaseOptions{TypeName: "Calc", MethodName: "testNested"})

	c.StartMeasuring(&fakeMeter{})
	requireFatal(t, func() { c.StartMeasuring(&fakeMeter{}) })
	c.StopMeasuring()
	assert.Nil(t, c.PerformanceMeter())
}
