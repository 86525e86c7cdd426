// Package testutil carries the small assertion helpers shared by tests
// that do not pull in testify.
package testutil

import (
	"strings"
	"testing"
)

// AssertEqual checks if two comparable values are equal
func AssertEqual[T comparable](t *testing.T, expected, actual T) {
	t.Helper()

	if expected != actual {
		t.Errorf("Expected: %+v\nActual: %+v", expected, actual)
	}
}

// AssertTrue checks if a value is true
func AssertTrue(t *testing.T, value bool) {
	t.Helper()

	if !value {
		t.Errorf("Expected true, got false")
	}
}

// AssertFalse checks if a value is false
func AssertFalse(t *testing.T, value bool) {
	t.Helper()

	if value {
		t.Errorf("Expected false, got true")
	}
}

// AssertContains checks if a string contains a substring
func AssertContains(t *testing.T, str, substr string) {
	t.Helper()

	if !strings.Contains(str, substr) {
		t.Errorf("String %q does not contain %q", str, substr)
	}
}

// CountOccurrences returns how many times substr appears in str
func CountOccurrences(str, substr string) int {
	return strings.Count(str, substr)
}
