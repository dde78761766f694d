package calc

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/microsoft/caserun/pkg/caserun"
)

// Calculators opened by setUp and not yet released by tearDown.
var openCalculators atomic.Int32

type Calc struct {
	*caserun.Case
	calculator *Calculator
}

func NewCalc(c *caserun.Case) *Calc {
	return &Calc{
		Case:       c,
		calculator: &Calculator{},
	}
}

func setUp() {
	openCalculators.Add(1)
}

func tearDown() {
	openCalculators.Add(-1)
}

// Entry returns the registration of the Calc test cases.
func Entry() (*caserun.Entry, error) {
	entry, err := caserun.MakeEntry(NewCalc,
		caserun.NonThrowing("testAdd", (*Calc).testAdd),
		caserun.Throwing("testDivByZero", (*Calc).testDivByZero),
		caserun.NonThrowing("testAsync", (*Calc).testAsync),
		caserun.NonThrowing("testAsyncDelivered", (*Calc).testAsyncDelivered),
		caserun.NonThrowing("testMeasuredAdd", (*Calc).testMeasuredAdd),
	)
	if err != nil {
		return nil, err
	}

	return entry.WithHooks(caserun.Hooks{
		SetUp:    setUp,
		TearDown: tearDown,
	}), nil
}

func (c *Calc) testAdd() {
	assertEqual(c.calculator.Add(1, 1), 2, "1+1")
}

func (c *Calc) testDivByZero() error {
	quotient, err := c.calculator.Div(1, 0)
	if err != nil {
		return err
	}

	c.Logger().Infof("1/0 = %d", quotient)
	return nil
}

func (c *Calc) testAsync() {
	// Nothing publishes the sum, so the expectation stays unwaited.
	c.Expect("sum of 2 and 3 published")
	c.calculator.AddAsync(2, 3, func(int) {})
}

func (c *Calc) testAsyncDelivered() {
	delivered := c.Expect("sum of 2 and 3 delivered")

	var wg sync.WaitGroup
	wg.Add(1)
	c.calculator.AddAsync(2, 3, func(sum int) {
		defer wg.Done()
		assertEqual(sum, 5, "2+3")
		delivered.Fulfill()
	})
	wg.Wait()
}

func (c *Calc) testMeasuredAdd() {
	sw := &stopwatch{}
	c.Measure(sw.start(), func() {
		for i := 0; i < 1000; i++ {
			c.calculator.Add(i, i)
		}
	})

	if !sw.aborted {
		c.Logger().Debugf("1000 additions took %s", sw.elapsed())
	}
	assertEqual(c.calculator.Memory(), 1998, "memory after 999+999")
}

type stopwatch struct {
	begin   time.Time
	aborted bool
}

func (s *stopwatch) start() *stopwatch {
	s.begin = time.Now()
	return s
}

func (s *stopwatch) elapsed() time.Duration {
	return time.Since(s.begin)
}

// Abort discards the measurement.
func (s *stopwatch) Abort() {
	s.aborted = true
}
