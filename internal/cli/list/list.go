package list

type ListCmd struct {
	Cases   ListCasesCmd   `cmd:"" default:"1" help:"List test cases as <type>.<method>"`
	Entries ListEntriesCmd `cmd:"" help:"List test case types and their methods"`
}
