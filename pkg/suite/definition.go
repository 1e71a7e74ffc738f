// Package suite evaluates declarative assertion suites: lists of
// assertion definitions loaded from JSON, YAML or TOML files and
// checked against value documents through the assert dispatcher.
package suite

import "time"

// Definition describes a single assertion to evaluate against a
// value in a document.
type Definition struct {
	// Type is the assertion type (e.g., "equals", "contains",
	// "is_of_size"). A compact "type:value" form is accepted
	// when Value is empty.
	Type string `json:"type"`

	// Target is the dotted path of the value to check (e.g.,
	// "user.name", "items.0"). Empty targets the whole document.
	Target string `json:"target,omitempty"`

	// Value is the expected value for single-value assertions.
	Value any `json:"value,omitempty"`

	// Values holds expected values for multi-value assertions
	// (e.g., "contains_any").
	Values []any `json:"values,omitempty"`

	// Delta is the numeric tolerance of "equals" and
	// "not_equals".
	Delta float64 `json:"delta,omitempty"`

	// Not negates the assertion.
	Not bool `json:"not,omitempty"`

	// All holds the children of an "all" assertion.
	All []Definition `json:"all,omitempty"`

	// Any holds the children of an "any" assertion.
	Any []Definition `json:"any,omitempty"`

	// Message is a note appended to the failure message.
	Message string `json:"message,omitempty"`
}

// Suite is a named list of assertions.
type Suite struct {
	Version     string       `json:"version,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Assertions  []Definition `json:"assertions"`

	// Source is the file the suite was loaded from.
	Source string `json:"-"`
}

// Result captures the outcome of evaluating a single assertion.
type Result struct {
	// Type is the assertion type that was evaluated.
	Type string `json:"type"`

	// Target is the path of the value checked.
	Target string `json:"target"`

	// Predicate is the description of the evaluated predicate.
	Predicate string `json:"predicate,omitempty"`

	// Expected is the value the assertion expected.
	Expected any `json:"expected,omitempty"`

	// Actual is the value that was observed.
	Actual any `json:"actual,omitempty"`

	// Passed indicates whether the assertion succeeded.
	Passed bool `json:"passed"`

	// Message is the failure message, empty on success.
	Message string `json:"message,omitempty"`
}

// SuiteResult is the outcome of running a Suite.
type SuiteResult struct {
	Name      string        `json:"name"`
	Source    string        `json:"source,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Results   []Result      `json:"results"`
	Summary   Summary       `json:"summary"`
}

// Passed reports whether every assertion of the run passed.
func (r *SuiteResult) Passed() bool {
	return r.Summary.Failed == 0
}
