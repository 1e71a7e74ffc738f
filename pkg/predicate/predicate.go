// Package predicate provides composable conditions over runtime
// values. A Predicate evaluates a value to a boolean and describes
// the condition it checks; the assert package turns a failed
// evaluation into a failure message built from that description.
package predicate

import (
	"fmt"

	"digital.vasic.assert/pkg/export"
)

// Predicate is a reusable condition over a value.
type Predicate interface {
	// Test reports whether value satisfies the condition. It must
	// be pure and safe to call repeatedly.
	Test(value any) bool

	// String describes the condition independently of any value,
	// for example "is equal to <int:5>".
	String() string
}

// Differ is implemented by predicates that can explain a failed
// evaluation with a diff block.
type Differ interface {
	// Diff returns the diff block for value, or "" when no diff
	// applies.
	Diff(value any) string
}

// Evaluator is implemented by predicates that test a value and
// explain the outcome in a single pass, so children with side effects
// are not evaluated again to build the diff.
type Evaluator interface {
	// Evaluate reports whether value satisfies the condition and,
	// when it does not, the diff block explaining why.
	Evaluate(value any) (bool, string)
}

// ValueDescriber is implemented by predicates that render the
// tested value themselves instead of using export.Shorten.
type ValueDescriber interface {
	DescribeValue(value any) string
}

// DescribeValue renders value the way p wants it shown after
// "Failed asserting that".
func DescribeValue(p Predicate, value any) string {
	if d, ok := p.(ValueDescriber); ok {
		return d.DescribeValue(value)
	}
	return export.Shorten(value)
}

// DiffOf returns the diff block p produces for value, or "" when p
// is not a Differ.
func DiffOf(p Predicate, value any) string {
	if d, ok := p.(Differ); ok {
		return d.Diff(value)
	}
	return ""
}

// Evaluate tests value against p and returns the diff block of a
// failed evaluation. p is tested exactly once.
func Evaluate(p Predicate, value any) (bool, string) {
	if e, ok := p.(Evaluator); ok {
		return e.Evaluate(value)
	}
	if p.Test(value) {
		return true, ""
	}
	return false, DiffOf(p, value)
}

// DefaultFuncDescription describes a Func predicate built without
// an explicit description.
const DefaultFuncDescription = "satisfies custom predicate"

type funcPredicate struct {
	fn          func(any) bool
	description string
}

// Func adapts a plain function into a Predicate. The optional
// description defaults to DefaultFuncDescription.
func Func(fn func(value any) bool, description ...string) Predicate {
	desc := DefaultFuncDescription
	if len(description) > 0 && description[0] != "" {
		desc = description[0]
	}
	return &funcPredicate{fn: fn, description: desc}
}

func (f *funcPredicate) Test(value any) bool { return f.fn(value) }
func (f *funcPredicate) String() string      { return f.description }
func (f *funcPredicate) kind() string        { return "func" }

type wrapped struct {
	inner  Predicate
	format string
}

// Wrap returns a predicate that behaves like p but renders the
// tested value through format, which receives the value description
// p would use. Wrap(p, "error message %s") yields failures such as
// "Failed asserting that error message 'x' is equal to ...".
func Wrap(p Predicate, format string) Predicate {
	return &wrapped{inner: p, format: format}
}

func (w *wrapped) Test(value any) bool { return w.inner.Test(value) }
func (w *wrapped) String() string      { return w.inner.String() }
func (w *wrapped) kind() string        { return Kind(w.inner) }

// Diff delegates to the wrapped predicate.
func (w *wrapped) Diff(value any) string {
	return DiffOf(w.inner, value)
}

// Evaluate delegates to the wrapped predicate.
func (w *wrapped) Evaluate(value any) (bool, string) {
	return Evaluate(w.inner, value)
}

// DescribeValue formats the wrapped predicate's value description.
func (w *wrapped) DescribeValue(value any) string {
	return fmt.Sprintf(w.format, DescribeValue(w.inner, value))
}

// kinder is implemented by every predicate in this package.
type kinder interface {
	kind() string
}

// Kind returns a short stable name for p suitable as a metrics
// label, for example "equals" or "and". Predicates defined outside
// this package report "custom".
func Kind(p Predicate) string {
	if k, ok := p.(kinder); ok {
		return k.kind()
	}
	return "custom"
}
