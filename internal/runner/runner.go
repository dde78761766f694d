package runner

import (
	"fmt"
	"io"
	"os"

	"github.com/microsoft/caserun/internal/collector"
	"github.com/microsoft/caserun/internal/reporter"
	"github.com/microsoft/caserun/internal/testmgr"
	"github.com/microsoft/caserun/pkg/caserun/core"
	"github.com/microsoft/caserun/pkg/caserun/utils"
)

type Options struct {
	// Selects the test cases to run by <type>.<method> or <type>. Nil runs
	// every case.
	Filter *utils.StringFilter

	// Print the captured logs of failed test cases in the report.
	ShowLogs bool

	// Destination of the report, defaults to stdout.
	Output io.Writer
}

// RunEntries builds one test case per selected method of entries, performs
// them in registration order and prints a report. The returned error is
// non-nil when any test case failed or was not run.
func RunEntries(suite core.SuiteContext, entries []*collector.Entry, opts Options) ([]*testmgr.Case, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	filter := opts.Filter
	if filter == nil {
		filter = utils.NewStringFilterFromSlice(nil)
	}

	// Cases report through the process-wide registry so that assertions can
	// find them without a handle.
	testMgr := testmgr.NewCaseManager(suite.Logger(), testmgr.DefaultRegistry)

	for _, entry := range entries {
		for _, method := range entry.Methods() {
			name := entry.Name() + "." + method.Name
			if !filter.MatchAny([]string{entry.Name(), name}) {
				suite.Logger().Tracef("Skipping test case '%s' because it does not match the filter", name)
				continue
			}

			entry.NewCase(testMgr, method)
		}
	}

	cases := testMgr.Cases()
	if len(cases) == 0 {
		return nil, fmt.Errorf("no test cases selected")
	}

	suite.Logger().Debugf("Selected %d test cases", len(cases))
	executeTestCases(suite, cases)

	rep := reporter.NewTestReporter(suite, cases, out)
	rep.SetShowLogs(opts.ShowLogs)

	err := rep.PrintReport()
	if err != nil {
		return cases, fmt.Errorf("failed to print report: %w", err)
	}

	return cases, rep.ExitError()
}

func executeTestCases(suite core.SuiteContext, cases []*testmgr.Case) {
	for i, testCase := range cases {
		if err := suite.Context().Err(); err != nil {
			suite.Logger().Warnf("Suite interrupted, %d test cases not run: %v", len(cases)-i, err)
			return
		}

		suite.Logger().Infof("%s (started)", testCase.Name())

		run := testCase.NewRun()
		testCase.Perform(run)

		suite.Logger().Infof("%s %s", testCase.Name(), testmgr.StatusOf(run).ColorString())
	}
}
