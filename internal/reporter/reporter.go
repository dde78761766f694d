package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/microsoft/caserun/internal/devops"
	"github.com/microsoft/caserun/internal/testmgr"
	"github.com/microsoft/caserun/pkg/caserun/core"
	"github.com/microsoft/caserun/pkg/caserun/utils"
)

type TestReporter struct {
	suite    core.SuiteContext
	cases    []*testmgr.Case
	out      io.Writer
	showLogs bool
}

func NewTestReporter(suite core.SuiteContext, cases []*testmgr.Case, out io.Writer) *TestReporter {
	return &TestReporter{
		suite:    suite,
		cases:    cases,
		out:      out,
		showLogs: true,
	}
}

// SetShowLogs controls whether the captured logs of failed cases are
// printed.
func (r *TestReporter) SetShowLogs(show bool) {
	r.showLogs = show
}

func (r *TestReporter) PrintReport() error {
	summary := newSummaryFromCases(r.cases)

	if summary.total == 0 {
		return fmt.Errorf("no test cases were run")
	}

	stripColors := !isTerminal(r.out)

	if r.showLogs {
		for _, testCase := range r.cases {
			status := testmgr.StatusOf(testCase.TestRun())
			if !status.Failed() {
				continue
			}

			r.printCaseLogs(testCase, status, stripColors)
		}
	}

	if summary.expected+summary.unexpected > 0 {
		r.printFailureTable()
	}

	if r.suite.AzureDevops() {
		r.logDevopsIssues()
	}

	statusStr := summary.Status().StringColor()
	if stripColors {
		statusStr = summary.Status().String()
	}

	printSeparator(r.out)
	fmt.Fprintf(r.out, "TEST RESULT: %s. %s\n", statusStr, summary.Summary())

	return nil
}

func (r *TestReporter) printCaseLogs(testCase *testmgr.Case, status testmgr.RunStatus, stripColors bool) {
	title := fmt.Sprintf("Test case: '%s' status: %s; collected logs:", testCase.Name(), status.String())
	if r.suite.AzureDevops() {
		group := devops.OpenGroup(r.out, title)
		defer group.Close()
	} else {
		printSeparatorWithTitle(r.out, title)
	}

	for _, line := range testCase.LogLines() {
		if stripColors {
			line = utils.StripAnsi(line)
		}
		fmt.Fprintln(r.out, "    ", line)
	}
}

func (r *TestReporter) printFailureTable() {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("Recorded failures")
	t.AppendHeader(table.Row{"Case", "Kind", "Location", "Description"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Case", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Location", WidthMax: 40, WidthMaxEnforcer: text.WrapHard},
		{Name: "Description", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})
	t.SetStyle(table.StyleLight)

	for _, testCase := range r.cases {
		for _, failure := range testmgr.FailuresOf(testCase.TestRun()) {
			t.AppendRow(table.Row{
				testCase.Name(),
				failureKind(failure),
				failureLocation(failure),
				failure.Description,
			})
		}
	}

	t.Render()
}

func (r *TestReporter) logDevopsIssues() {
	for _, testCase := range r.cases {
		for _, failure := range testmgr.FailuresOf(testCase.TestRun()) {
			devops.LogIssue(
				r.out,
				devops.IssueError,
				failure.FilePath,
				failure.LineNumber,
				"%s: %s",
				testCase.Name(),
				failure.Description,
			)
		}
	}
}

func (r *TestReporter) ExitError() error {
	summary := newSummaryFromCases(r.cases)

	if summary.failed > 0 {
		return fmt.Errorf("test suite finished with %d failed test cases", summary.failed)
	}

	if summary.notRun > 0 {
		return fmt.Errorf("test suite finished with %d test cases not run", summary.notRun)
	}

	return nil
}

func failureKind(f core.Failure) string {
	if f.Expected {
		return "assertion"
	}
	return "unexpected"
}

func failureLocation(f core.Failure) string {
	if f.FilePath == "" && f.LineNumber == 0 {
		return "<unknown>"
	}
	return filepath.Base(f.FilePath) + ":" + strconv.FormatUint(uint64(f.LineNumber), 10)
}
