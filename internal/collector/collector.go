package collector

import (
	"fmt"
	"reflect"

	"github.com/microsoft/caserun/internal/caseerror"
	"github.com/microsoft/caserun/internal/testmgr"
	"github.com/microsoft/caserun/pkg/caserun/core"
)

// Method is a named test method in the uniform calling convention.
type Method struct {
	Name   string
	Invoke core.Invocable
}

// TypedMethod is a named test method bound to the concrete test-case type T.
type TypedMethod[T core.TestCase] struct {
	name string
	f    func(T) error
}

// Throwing wraps a test method that may return an error.
func Throwing[T core.TestCase](name string, f func(T) error) TypedMethod[T] {
	return TypedMethod[T]{
		name: name,
		f:    f,
	}
}

// NonThrowing wraps a test method that cannot return an error.
func NonThrowing[T core.TestCase](name string, f func(T)) TypedMethod[T] {
	return TypedMethod[T]{
		name: name,
		f: func(instance T) error {
			f(instance)
			return nil
		},
	}
}

func (m TypedMethod[T]) Name() string {
	return m.name
}

// Erase returns m in the uniform calling convention. Invoking the result with
// an instance that is not a T returns a wiring error.
func (m TypedMethod[T]) Erase() Method {
	return Method{
		Name: m.name,
		Invoke: func(tc core.TestCase) error {
			instance, ok := tc.(T)
			if !ok {
				return caseerror.NewWiringError(
					"test method '%s' of %v invoked with an instance of %T",
					m.name,
					reflect.TypeFor[T](),
					tc,
				)
			}

			if m.f == nil {
				return nil
			}

			return m.f(instance)
		},
	}
}

// Entry pairs a test-case type with its ordered test methods.
type Entry struct {
	typ         reflect.Type
	name        string
	methods     []Method
	hooks       core.Hooks
	newInstance func(*testmgr.Case) core.TestCase
	runKind     reflect.Type
	newRun      func(*testmgr.Case) core.TestRun
}

// MakeEntry builds the entry of the test-case type T. newT allocates a T
// around the base case it receives.
func MakeEntry[T core.TestCase](newT func(*testmgr.Case) T, methods ...TypedMethod[T]) (*Entry, error) {
	typ := reflect.TypeFor[T]()
	if newT == nil {
		return nil, fmt.Errorf("entry of %v has no instance factory", typ)
	}

	erased := make([]Method, 0, len(methods))
	for _, m := range methods {
		erased = append(erased, m.Erase())
	}

	return NewEntry(typ, func(c *testmgr.Case) core.TestCase {
		return newT(c)
	}, erased...)
}

// NewEntry builds an entry from methods already in the uniform calling
// convention. The methods are only guaranteed to accept instances of typ at
// dispatch time.
func NewEntry(typ reflect.Type, newInstance func(*testmgr.Case) core.TestCase, methods ...Method) (*Entry, error) {
	if typ == nil {
		return nil, fmt.Errorf("entry has no test case type")
	}

	if typ.Kind() == reflect.Interface {
		return nil, fmt.Errorf("test case type of an entry must be a concrete type, got %v", typ)
	}

	name := typeName(typ)
	err := core.ValidateEntityName(name, "test case type")
	if err != nil {
		return nil, err
	}

	if newInstance == nil {
		return nil, fmt.Errorf("entry '%s' has no instance factory", name)
	}

	// Check if names are valid and unique.
	names := make(map[string]bool)
	for _, m := range methods {
		if _, exists := names[m.Name]; exists {
			return nil, fmt.Errorf("test method name '%s.%s' is not unique", name, m.Name)
		}

		err := core.ValidateEntityName(m.Name, "test method")
		if err != nil {
			return nil, fmt.Errorf("entry '%s': %w", name, err)
		}

		if m.Invoke == nil {
			return nil, fmt.Errorf("test method '%s.%s' has no body", name, m.Name)
		}

		names[m.Name] = true
	}

	return &Entry{
		typ:         typ,
		name:        name,
		methods:     methods,
		newInstance: newInstance,
	}, nil
}

func typeName(typ reflect.Type) string {
	if typ.Kind() == reflect.Pointer {
		return typ.Elem().Name()
	}
	return typ.Name()
}

// WithHooks sets the setUp/tearDown hooks run around every method of the
// entry.
func (e *Entry) WithHooks(hooks core.Hooks) *Entry {
	e.hooks = hooks
	return e
}

// SetRunFactory binds the run kind of the entry to R. Every case built from
// the entry must then be performed with runs produced by f.
func SetRunFactory[R core.TestRun](e *Entry, f func(*testmgr.Case) R) error {
	kind := reflect.TypeFor[R]()
	if kind.Kind() == reflect.Interface {
		return fmt.Errorf("run kind of entry '%s' must be a concrete type, got %v", e.name, kind)
	}

	if f == nil {
		return fmt.Errorf("entry '%s' has no run factory", e.name)
	}

	e.runKind = kind
	e.newRun = func(c *testmgr.Case) core.TestRun {
		return f(c)
	}

	return nil
}

func (e *Entry) Name() string {
	return e.name
}

func (e *Entry) Type() reflect.Type {
	return e.typ
}

func (e *Entry) Methods() []Method {
	return e.methods
}

func (e *Entry) Hooks() core.Hooks {
	return e.hooks
}

// MethodNames returns the full <type>.<method> names in registration order.
func (e *Entry) MethodNames() []string {
	names := make([]string, 0, len(e.methods))
	for _, m := range e.methods {
		names = append(names, e.name+"."+m.Name)
	}
	return names
}

// NewCase builds the case that runs m on a fresh instance of the entry type.
func (e *Entry) NewCase(mgr *testmgr.CaseManager, m Method) *testmgr.Case {
	c := mgr.NewCase(testmgr.CaseOptions{
		TypeName:   e.name,
		MethodName: m.Name,
		Closure:    m.Invoke,
		Hooks:      e.hooks,
		RunKind:    e.runKind,
		RunFactory: e.newRun,
	})

	c.Bind(e.newInstance(c))
	return c
}
