package core

import "context"

type SuiteContext interface {
	Named

	LoggerProvider

	// Returns the names of all registered test cases, formatted as
	// <type>.<method>, in registration order.
	TestNames() []string

	// Returns whether the suite has Azure DevOps integration enabled
	AzureDevops() bool

	// Returns a context for the suite.
	Context() context.Context
}
