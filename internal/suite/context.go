package suite

import (
	"github.com/microsoft/caserun/internal/collector"
	"github.com/microsoft/caserun/internal/config"
	"github.com/microsoft/caserun/pkg/caserun/core"
)

type SuiteContext interface {
	core.SuiteContext

	// Returns the registered entries in registration order.
	Entries() []*collector.Entry

	// Returns the configuration loaded for this invocation.
	Config() config.Config
}
