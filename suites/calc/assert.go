package calc

import (
	"fmt"
	"runtime"

	"github.com/microsoft/caserun/pkg/caserun"
)

// assertEqual records an assertion failure against the current test case
// when got differs from want.
func assertEqual[T comparable](got, want T, what string) {
	if got == want {
		return
	}

	_, file, line, _ := runtime.Caller(1)
	err := caserun.RecordFailure(fmt.Sprintf("%s: got %v, want %v", what, got, want), file, uint(line), true)
	if err != nil {
		panic(fmt.Sprintf("assertEqual(%s) called outside a test case: %v", what, err))
	}
}
