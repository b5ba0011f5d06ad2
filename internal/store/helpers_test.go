// ABOUTME: Tests for the LIKE escaping helper.
// ABOUTME: Covers wildcard and backslash handling.

package store

import "testing"

func TestEscapeSQLLike(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain name", input: "Acme Corp", expected: "Acme Corp"},
		{name: "empty", input: "", expected: ""},
		{name: "percent", input: "100% Foods", expected: `100\% Foods`},
		{name: "underscore", input: "Custom__c", expected: `Custom\_\_c`},
		{name: "backslash", input: `a\b`, expected: `a\\b`},
		{name: "backslash before percent", input: `x\%`, expected: `x\\\%`},
		{name: "injection attempt", input: "'; DROP TABLE sobject_records; --", expected: `'; DROP TABLE sobject\_records; --`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeSQLLike(tt.input); got != tt.expected {
				t.Errorf("escapeSQLLike(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
