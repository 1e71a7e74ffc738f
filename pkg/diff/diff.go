// Package diff renders the unified-diff-style block shown below the
// summary line of a failed equality assertion.
//
// The block always replaces the whole expected value with the whole
// actual value: there are no context lines and no attempt at a
// minimal diff, so the output only depends on the two inputs.
package diff

import "strings"

const (
	// Header opens every diff block.
	Header = "--- Expected\n+++ Actual\n@@ @@"

	removed = "-"
	added   = "+"
)

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Render returns the diff block for the expected and actual
// representations, or "" when both consist of the same lines.
func Render(expected, actual string) string {
	exp := Lines(expected)
	act := Lines(actual)
	if equalLines(exp, act) {
		return ""
	}

	var b strings.Builder
	b.WriteString(Header)
	for _, line := range exp {
		b.WriteString("\n" + removed + line)
	}
	for _, line := range act {
		b.WriteString("\n" + added + line)
	}
	return b.String()
}

// Lines splits s on \r\n, \r and \n. A trailing line break yields a
// trailing empty line, so "foo\n" and "foo" differ.
func Lines(s string) []string {
	return strings.Split(lineBreaks.Replace(s), "\n")
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
