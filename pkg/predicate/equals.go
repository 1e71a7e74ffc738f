package predicate

import (
	"math"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"digital.vasic.assert/pkg/diff"
	"digital.vasic.assert/pkg/export"
)

// IsEqual is the structural equality predicate built by Equals.
type IsEqual struct {
	expected any
	delta    float64
}

// Equals returns a predicate comparing values structurally against
// expected. Numbers may differ by at most the delta set with Within
// (0 by default).
//
// Beyond plain equality a few loose rules apply: a bool equals a
// number when the number's truthiness matches, false equals null and
// null equals 0. Strings, composites and errors are never equal to a
// value of another kind. Composite values are compared field by
// field, honouring Equal methods, and the loose rules hold for their
// elements too. Funcs are equal only to themselves.
func Equals(expected any) *IsEqual {
	return &IsEqual{expected: expected}
}

// Within returns a copy of e tolerating numeric differences up to
// delta, also for numbers nested in composite values.
func (e *IsEqual) Within(delta float64) *IsEqual {
	return &IsEqual{expected: e.expected, delta: math.Abs(delta)}
}

// Expected returns the value snapshot the predicate compares to.
func (e *IsEqual) Expected() any { return e.expected }

// Delta returns the numeric tolerance.
func (e *IsEqual) Delta() float64 { return e.delta }

// Test reports whether value equals the expected value.
func (e *IsEqual) Test(value any) bool {
	return equal(e.expected, value, e.delta)
}

// String describes the predicate with the tagged expected value.
func (e *IsEqual) String() string {
	return "is equal to " + export.Tag(e.expected)
}

// Diff renders the expected and actual values as a diff block.
func (e *IsEqual) Diff(value any) string {
	return diff.Render(export.Export(e.expected), export.Export(value))
}

func (e *IsEqual) kind() string { return "equals" }

// IsNotEqual is the negated form of IsEqual.
type IsNotEqual struct {
	eq *IsEqual
}

// IsNotEqualTo returns a predicate satisfied by every value Equals
// would reject.
func IsNotEqualTo(expected any) *IsNotEqual {
	return &IsNotEqual{eq: Equals(expected)}
}

// Within returns a copy of n with the given numeric tolerance.
func (n *IsNotEqual) Within(delta float64) *IsNotEqual {
	return &IsNotEqual{eq: n.eq.Within(delta)}
}

// Test reports whether value differs from the expected value.
func (n *IsNotEqual) Test(value any) bool { return !n.eq.Test(value) }

// String describes the negated predicate with the tagged expected
// value.
func (n *IsNotEqual) String() string {
	return "is not equal to " + export.Tag(n.eq.expected)
}

func (n *IsNotEqual) kind() string { return "not_equals" }

func equal(expected, actual any, delta float64) bool {
	expNull, actNull := export.IsNull(expected), export.IsNull(actual)
	if expNull && actNull {
		return true
	}

	if eq, ok := loose(expected, actual, expNull, actNull, delta); ok {
		return eq
	}
	if expNull || actNull {
		return false
	}

	ev, av := reflect.ValueOf(expected), reflect.ValueOf(actual)
	if ev.Kind() == reflect.String && av.Kind() == reflect.String {
		return ev.String() == av.String()
	}
	if ev.Type() != av.Type() {
		return false
	}
	return cmp.Equal(expected, actual, compareOptions(delta))
}

// loose applies the scalar rules shared by booleans, null and
// numbers. The second result is false when neither operand pair
// falls under those rules.
func loose(expected, actual any, expNull, actNull bool, delta float64) (bool, bool) {
	eb, expBool := expected.(bool)
	ab, actBool := actual.(bool)
	expNum, actNum := isNumber(expected), isNumber(actual)

	switch {
	case expBool && actBool:
		return eb == ab, true
	case expBool && actNum:
		return eb == !isZeroNumber(reflect.ValueOf(actual)), true
	case actBool && expNum:
		return ab == !isZeroNumber(reflect.ValueOf(expected)), true
	case expBool && actNull:
		return !eb, true
	case actBool && expNull:
		return !ab, true
	case expNull && actNum:
		return isZeroNumber(reflect.ValueOf(actual)), true
	case actNull && expNum:
		return isZeroNumber(reflect.ValueOf(expected)), true
	case expNum && actNum:
		return numbersEqual(
			reflect.ValueOf(expected), reflect.ValueOf(actual), delta,
		), true
	}
	return false, false
}

func compareOptions(delta float64) cmp.Options {
	return cmp.Options{
		cmp.Exporter(func(reflect.Type) bool { return true }),
		cmpopts.EquateEmpty(),
		cmp.FilterValues(
			func(x, y any) bool { return isLooseOperand(x) && isLooseOperand(y) },
			cmp.Comparer(func(x, y any) bool { return scalarsEqual(x, y, delta) }),
		),
		cmp.FilterValues(isFuncPair, cmp.Comparer(sameFunc)),
	}
}

// isLooseOperand reports whether v takes part in the bool, number and
// null rules, so nested values follow them as top-level ones do.
func isLooseOperand(v any) bool {
	if _, ok := v.(bool); ok {
		return true
	}
	return isNumber(v) || export.IsNull(v)
}

func scalarsEqual(x, y any, delta float64) bool {
	xNull, yNull := export.IsNull(x), export.IsNull(y)
	if xNull && yNull {
		return true
	}
	eq, _ := loose(x, y, xNull, yNull, delta)
	return eq
}

// isFuncPair selects two funcs of one type unless both are nil, which
// the null rule already covers.
func isFuncPair(x, y any) bool {
	if x == nil || y == nil {
		return false
	}
	tx, ty := reflect.TypeOf(x), reflect.TypeOf(y)
	if tx.Kind() != reflect.Func || tx != ty {
		return false
	}
	return !(export.IsNull(x) && export.IsNull(y))
}

// sameFunc compares funcs by identity. Closures built from one
// literal share their code pointer and compare equal.
func sameFunc(x, y any) bool {
	return reflect.ValueOf(x).Pointer() == reflect.ValueOf(y).Pointer()
}

// isNumber reports whether v is of an integer or float kind. Types
// declaring an Equal method are left to that method.
func isNumber(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64, reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		_, hasEqual := t.MethodByName("Equal")
		return !hasEqual
	}
	return false
}

func isSigned(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isSigned(v):
		return float64(v.Int())
	case isUnsigned(v):
		return float64(v.Uint())
	}
	return v.Float()
}

func isZeroNumber(v reflect.Value) bool {
	return toFloat(v) == 0
}

// numbersEqual compares two numeric values. Without a tolerance two
// integers are compared exactly so large values do not lose
// precision in float64.
func numbersEqual(a, b reflect.Value, delta float64) bool {
	if delta == 0 {
		switch {
		case isSigned(a) && isSigned(b):
			return a.Int() == b.Int()
		case isUnsigned(a) && isUnsigned(b):
			return a.Uint() == b.Uint()
		case isSigned(a) && isUnsigned(b):
			return a.Int() >= 0 && uint64(a.Int()) == b.Uint()
		case isUnsigned(a) && isSigned(b):
			return b.Int() >= 0 && a.Uint() == uint64(b.Int())
		}
	}
	return math.Abs(toFloat(a)-toFloat(b)) <= delta
}
