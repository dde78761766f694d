package testmgr

import (
	"sync"
	"weak"
)

// Registry is a single slot holding the test case that is currently being
// performed. The slot never keeps a case alive.
//
// A registry supports one executing case at a time. Runners that execute
// cases concurrently need one registry per worker.
type Registry struct {
	mu      sync.RWMutex
	current weak.Pointer[Case]
}

// DefaultRegistry is the process-wide registry used by assertion
// implementations that do not receive an explicit test case.
var DefaultRegistry = &Registry{}

// Current returns the case being performed, or nil when no case is
// executing.
func (r *Registry) Current() *Case {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current.Value()
}

// install puts c in the slot. It returns the case already occupying the slot
// when there is one, in which case the slot is left untouched.
func (r *Registry) install(c *Case) *Case {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.current.Value(); existing != nil {
		return existing
	}

	r.current = weak.Make(c)
	return nil
}

// clear empties the slot if it still holds c.
func (r *Registry) clear(c *Case) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current.Value() == c {
		r.current = weak.Pointer[Case]{}
	}
}
