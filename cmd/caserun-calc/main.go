package main

import (
	"github.com/microsoft/caserun/pkg/caserun"
	"github.com/microsoft/caserun/suites/calc"
)

func main() {
	suite := caserun.CreateSuite("calc")

	entry, err := calc.Entry()
	if err != nil {
		suite.Log.Fatalf("Failed to build the Calc entry: %v", err)
	}

	suite.AddEntry(entry)

	suite.Run()
}
