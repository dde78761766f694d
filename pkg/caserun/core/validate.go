package core

import (
	"fmt"
	"regexp"
)

var entityNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateEntityName checks that name is usable as a test-case type or method
// name. kind is used in the returned error only.
func ValidateEntityName(name string, kind string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}

	if !entityNameRegex.MatchString(name) {
		return fmt.Errorf("%s name '%s' is invalid, it must match %s", kind, name, entityNameRegex.String())
	}

	return nil
}
