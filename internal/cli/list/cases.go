package list

import (
	"fmt"
	"io"
	"os"

	"github.com/microsoft/caserun/internal/suite"
	"github.com/microsoft/caserun/pkg/caserun/utils"
)

type ListCasesCmd struct {
	Filter []string `short:"f" help:"Filter test cases by <type>, <type>.<method> or glob"`
}

func (cmd *ListCasesCmd) Run(suite suite.SuiteContext) error {
	return listCases(suite, cmd.Filter, os.Stdout)
}

func listCases(suite suite.SuiteContext, filters []string, out io.Writer) error {
	log := suite.Logger()
	log.Info("Listing test cases")

	if len(filters) == 0 {
		filters = suite.Config().Filter
	}
	filter := utils.NewStringFilterFromSlice(filters)

	collected := 0
	for _, entry := range suite.Entries() {
		for _, name := range entry.MethodNames() {
			if !filter.MatchAny([]string{entry.Name(), name}) {
				log.Tracef("Skipping test case '%s' because it does not match the filter", name)
				continue
			}

			collected++
			fmt.Fprintln(out, name)
		}
	}

	log.Infof("Selected %d test cases", collected)
	return nil
}
