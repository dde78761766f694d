package testmgr

import (
	"github.com/microsoft/caserun/internal/caseerror"
	"github.com/sirupsen/logrus"
)

// CaseManager creates the cases of a suite run and keeps them in creation
// order.
type CaseManager struct {
	logger   *logrus.Logger
	registry *Registry
	cases    []*Case
}

// NewCaseManager returns a manager whose cases log to logger and become
// current in registry while performed. A nil registry selects
// DefaultRegistry.
func NewCaseManager(logger *logrus.Logger, registry *Registry) *CaseManager {
	if registry == nil {
		registry = DefaultRegistry
	}

	return &CaseManager{
		logger:   logger,
		registry: registry,
		cases:    make([]*Case, 0),
	}
}

// NewCase builds the next case. RunKind and RunFactory must be set together;
// setting only one of them halts the process.
func (m *CaseManager) NewCase(opts CaseOptions) *Case {
	if (opts.RunKind == nil) != (opts.RunFactory == nil) {
		m.logger.Fatalf("%+v", caseerror.NewWiringError(
			"test case '%s.%s' must set both a run kind and a run factory",
			opts.TypeName,
			opts.MethodName,
		))
		return nil
	}

	c := newCase(opts, uint(len(m.cases)), m.logger, m.registry)
	m.cases = append(m.cases, c)

	m.logger.Tracef("Created test case '%s'", c.id())
	return c
}

func (m *CaseManager) Cases() []*Case {
	return m.cases
}

func (m *CaseManager) Registry() *Registry {
	return m.registry
}

func (m *CaseManager) Logger() *logrus.Logger {
	return m.logger
}
