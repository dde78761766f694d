package reporter

import (
	"fmt"
	"strings"

	"github.com/microsoft/caserun/internal/testmgr"
)

type TestSummary struct {
	total      int
	passed     int
	failed     int
	notRun     int
	expected   int
	unexpected int
}

func newSummaryFromCases(cases []*testmgr.Case) TestSummary {
	var summary TestSummary

	for _, testCase := range cases {
		summary.total++
		run := testCase.TestRun()
		switch testmgr.StatusOf(run) {
		case testmgr.RunStatusPassed:
			summary.passed++
		case testmgr.RunStatusFailed:
			summary.failed++
		default:
			summary.notRun++
		}

		if run != nil {
			summary.expected += run.FailureCount()
			summary.unexpected += run.UnexpectedFailureCount()
		}
	}

	return summary
}

func (s TestSummary) Status() TestSummaryStatus {
	if s.failed > 0 {
		return TestStatusFailed
	}
	if s.notRun > 0 {
		return TestStatusIncomplete
	}
	return TestStatusOk
}

func (s TestSummary) Summary() string {
	var out []string

	if s.failed > 0 {
		out = append(out, fmt.Sprintf("failed: %d", s.failed))
	}
	if s.notRun > 0 {
		out = append(out, fmt.Sprintf("notrun: %d", s.notRun))
	}

	out = append(out, fmt.Sprintf("passed: %d", s.passed))
	out = append(out, fmt.Sprintf("total: %d", s.total))

	if s.expected+s.unexpected > 0 {
		out = append(out, fmt.Sprintf("failures: %d (%d unexpected)", s.expected+s.unexpected, s.unexpected))
	}

	return strings.Join(out, "; ")
}
