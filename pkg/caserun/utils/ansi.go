package utils

import (
	"regexp"
)

var (
	// ANSI escape code cleaner
	ANSI_CLEANER = regexp.MustCompile(`(\x9B|\x1B\[)[0-?]*[ -\/]*[@-~]`)
)

// StripAnsi removes ANSI escape sequences, such as the colors of the
// captured case logs, from s.
func StripAnsi(s string) string {
	return ANSI_CLEANER.ReplaceAllString(s, "")
}
