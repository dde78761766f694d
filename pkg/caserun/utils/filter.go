package utils

import (
	"path"
	"strings"
)

// A filter that matches strings, either exactly or against glob patterns
// using path.Match syntax.
type StringFilter struct {
	emptyIsAny bool
	contents   map[string]bool
	patterns   []string
}

func NewStringFilterFromSlice(slice []string) *StringFilter {
	contents := make(map[string]bool)
	patterns := make([]string, 0)
	for _, item := range slice {
		if item == "" {
			continue
		}

		if strings.ContainsAny(item, "*?[") {
			patterns = append(patterns, item)
			continue
		}

		contents[item] = true
	}

	return &StringFilter{true, contents, patterns}
}

// Force the filter to match nothing if it is empty.
func (f *StringFilter) SetStrict() {
	f.emptyIsAny = false
}

func (f *StringFilter) IsEmpty() bool {
	return len(f.contents) == 0 && len(f.patterns) == 0
}

func (f *StringFilter) Match(item string) bool {
	if f.IsEmpty() {
		return f.emptyIsAny
	}

	if _, ok := f.contents[item]; ok {
		return true
	}

	for _, pattern := range f.patterns {
		// Malformed patterns never match.
		if ok, err := path.Match(pattern, item); err == nil && ok {
			return true
		}
	}

	return false
}

func (f *StringFilter) MatchAny(items []string) bool {
	if f.IsEmpty() {
		return f.emptyIsAny
	}

	for _, item := range items {
		if f.Match(item) {
			return true
		}
	}

	return false
}
