package list

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/microsoft/caserun/internal/suite"
)

type ListEntriesCmd struct {
}

func (cmd *ListEntriesCmd) Run(suite suite.SuiteContext) error {
	return listEntries(suite, os.Stdout)
}

func listEntries(suite suite.SuiteContext, out io.Writer) error {
	suite.Logger().Info("Listing test case types")

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Type", "Methods", "Hooks"})
	t.SetStyle(table.StyleLight)

	for _, entry := range suite.Entries() {
		hooks := entry.Hooks()
		t.AppendRow(table.Row{
			entry.Name(),
			len(entry.Methods()),
			fmt.Sprintf("setUp=%t tearDown=%t", hooks.SetUp != nil, hooks.TearDown != nil),
		})
	}

	t.Render()
	return nil
}
