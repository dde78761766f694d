package suite

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/microsoft/caserun/internal/cli"
	"github.com/microsoft/caserun/internal/collector"
	"github.com/microsoft/caserun/internal/config"
	isuite "github.com/microsoft/caserun/internal/suite"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

type CaseSuite struct {
	name        string
	entries     []*collector.Entry
	ctx         *kong.Context
	Log         *logrus.Logger
	azureDevops bool
	config      config.Config
	context     context.Context
}

// CreateSuite parses the command line of the process and builds the suite
// named caserun-<name>.
func CreateSuite(name string) CaseSuite {
	name = fmt.Sprintf("caserun-%s", name)
	ctx, global := cli.ParseCommandLine(name)

	s := NewSuite(name, newLogger(global.Verbosity))
	s.ctx = ctx
	s.applyGlobalOpts(global)

	return s
}

// NewSuite builds a suite that is not bound to the process command line.
// Use Execute to run it.
func NewSuite(name string, logger *logrus.Logger) CaseSuite {
	logger.Infof("Creating suite '%s'", name)

	return CaseSuite{
		name:    name,
		entries: make([]*collector.Entry, 0),
		Log:     logger,
		config:  config.Default(),
	}
}

func newLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors: true,
	})
	return logger
}

// Loads the configuration file named on the command line. The file only
// provides the verbosity when the flag was left at its default.
func (s *CaseSuite) applyGlobalOpts(global cli.GlobalOpts) {
	cfg, err := config.Load(global.Config)
	if err != nil {
		s.Log.Fatalf("Suite '%s': %v", s.name, err)
	}

	if level, ok := cfg.Level(); ok && global.Verbosity == logrus.InfoLevel {
		s.Log.SetLevel(level)
	}

	s.config = cfg
	s.azureDevops = global.AzureDevops || cfg.AzureDevops
}

// Run the suite with the command line parsed by CreateSuite and exit the
// process with its status.
func (s *CaseSuite) Run() {
	if s.ctx == nil {
		s.Log.Fatalf("Suite '%s' not initialized", s.name)
	}

	err := s.run(s.ctx)
	s.reportExitStatus(err)
}

// Execute parses args as the suite command line and runs the selected
// command. Unlike Run, it returns instead of exiting.
func (s *CaseSuite) Execute(args []string) error {
	parser, global, err := cli.NewParser(s.name)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	s.Log.SetLevel(global.Verbosity)
	s.applyGlobalOpts(*global)

	return s.run(ctx)
}

func (s *CaseSuite) run(ctx *kong.Context) error {
	var stop context.CancelFunc
	s.context, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s.Log.Infof("Running suite '%s' - %d entries, %d test cases collected.", s.name, len(s.entries), len(s.TestNames()))
	ctx.BindTo(s, (*isuite.SuiteContext)(nil))
	return ctx.Run()
}

// Adds a test case entry to the suite
func (s *CaseSuite) AddEntry(entry *collector.Entry) {
	if entry == nil {
		s.Log.Fatalf("Cannot register a nil entry in suite '%s'", s.name)
		return
	}

	for _, existing := range s.entries {
		if existing.Name() == entry.Name() {
			s.Log.Fatalf("Entry '%s' already exists", entry.Name())
			return
		}
	}

	s.Log.Debugf("Registering entry '%s'", entry.Name())
	s.Log.Tracef("Test cases: %v", entry.MethodNames())
	s.entries = append(s.entries, entry)
}

// Returns the name of the suite
func (s *CaseSuite) Name() string {
	return s.name
}

func (s *CaseSuite) Entries() []*collector.Entry {
	return s.entries
}

// Returns the names of all registered test cases
func (s *CaseSuite) TestNames() []string {
	names := make([]string, 0)
	for _, entry := range s.entries {
		names = append(names, entry.MethodNames()...)
	}
	return names
}

func (s *CaseSuite) AzureDevops() bool {
	return s.azureDevops
}

func (s *CaseSuite) Config() config.Config {
	return s.config
}

// Returns the context of the running command. It is cancelled on interrupt.
func (s *CaseSuite) Context() context.Context {
	if s.context == nil {
		return context.Background()
	}
	return s.context
}

func (s *CaseSuite) Logger() *logrus.Logger {
	return s.Log
}
