package utils

import "testing"

func TestStringFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  []string
		strict  bool
		items   []string
		matches bool
	}{
		{"empty matches any", nil, false, []string{"Calc.testAdd"}, true},
		{"strict empty matches nothing", nil, true, []string{"Calc.testAdd"}, false},
		{"exact case name", []string{"Calc.testAdd"}, false, []string{"Calc", "Calc.testAdd"}, true},
		{"exact type name", []string{"Calc"}, false, []string{"Calc", "Calc.testAdd"}, true},
		{"other type", []string{"Parser"}, false, []string{"Calc", "Calc.testAdd"}, false},
		{"glob", []string{"Calc.testDiv*"}, false, []string{"Calc", "Calc.testDivByZero"}, true},
		{"glob miss", []string{"*.testAsync"}, false, []string{"Calc", "Calc.testAdd"}, false},
		{"malformed glob", []string{"Calc.[test"}, false, []string{"Calc.[test"}, false},
		{"blank entries ignored", []string{""}, true, []string{""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewStringFilterFromSlice(tt.filter)
			if tt.strict {
				f.SetStrict()
			}

			if got := f.MatchAny(tt.items); got != tt.matches {
				t.Errorf("MatchAny(%v) with filter %v = %v, want %v", tt.items, tt.filter, got, tt.matches)
			}
		})
	}
}
