package assert

import (
	"testing"

	"digital.vasic.assert/pkg/predicate"
)

// Require evaluates p against value and stops the test with the
// failure message when it does not hold.
func Require(t testing.TB, value any, p predicate.Predicate, note ...string) {
	t.Helper()
	if err := That(value, p, note...); err != nil {
		t.Fatal(err.Error())
	}
}

// Check evaluates p against value and marks the test failed with
// the failure message when it does not hold. It reports whether p
// held.
func Check(t testing.TB, value any, p predicate.Predicate, note ...string) bool {
	t.Helper()
	if err := That(value, p, note...); err != nil {
		t.Error(err.Error())
		return false
	}
	return true
}
