package calc

import (
	"errors"
	"sync"
)

var ErrDivisionByZero = errors.New("division by zero")

// Calculator is the system exercised by the Calc test cases.
type Calculator struct {
	mu     sync.Mutex
	memory int
}

func (c *Calculator) Add(a, b int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory = a + b
	return c.memory
}

func (c *Calculator) Div(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.memory = a / b
	return c.memory, nil
}

// AddAsync computes a+b on another goroutine and hands the sum to done.
func (c *Calculator) AddAsync(a, b int, done func(int)) {
	go func() {
		done(c.Add(a, b))
	}()
}

func (c *Calculator) Memory() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memory
}
