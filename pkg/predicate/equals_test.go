package predicate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type point struct {
	X, Y int
}

type secret struct {
	name  string
	score float64
}

type tagged string

type withFunc struct {
	F func()
}

func TestEquals_Tuples(t *testing.T) {
	var nilPtr *point

	tests := []struct {
		name     string
		expected any
		value    any
		equal    bool
	}{
		{"true true", true, true, true},
		{"false false", false, false, true},
		{"same int", 5, 5, true},
		{"nil nil", nil, nil, true},
		{"same string", "foo", "foo", true},
		{"true and non-zero", true, 5, true},
		{"false and zero", false, 0, true},
		{"false and nil", false, nil, true},
		{"nil and zero", nil, 0, true},
		{"nil and typed nil", nil, nilPtr, true},
		{"true false", true, false, false},
		{"false true", false, true, false},
		{"false and struct", false, point{}, false},
		{"int and string", 5, "foo", false},
		{"different ints", 5, 6, false},
		{"true and string", true, "foo", false},
		{"different strings", "foo", "bar", false},
		{"int and struct", 5, point{}, false},
		{"string and struct", "foo", point{}, false},
		{"true and nil", true, nil, false},
		{"true and zero", true, 0, false},
		{"nil and non-zero", nil, 1, false},
		{"nil and empty string", nil, "", false},
		{"false and empty string", false, "", false},
		{"zero and empty string", 0, "", false},
		{"nil and empty slice", nil, []int{}, false},
		{"int and float", 2, 2.0, true},
		{"named string", tagged("foo"), "foo", true},
		{"different slice types", []int{1}, []int64{1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Equals(tt.expected).Test(tt.value))
		})
	}
}

func TestEquals_Reflexive(t *testing.T) {
	values := []any{
		nil, true, false, 0, -3, uint8(7), 1.25, "", "text",
		[]string{"a", "b"}, map[string]int{"a": 1}, point{1, 2},
		&point{3, 4}, secret{"x", 1.5}, [2]int{1, 2},
		errors.New("boom"), withFunc{F: func() {}}, withFunc{},
		strings.ToUpper,
	}

	for _, v := range values {
		assert.True(t, Equals(v).Test(v), "value %#v", v)
	}
}

func TestEquals_Funcs(t *testing.T) {
	upper := withFunc{F: func() {}}
	other := withFunc{F: func() {}}

	assert.True(t, Equals(upper).Test(upper))
	assert.False(t, Equals(upper).Test(other))
	assert.False(t, Equals(upper).Test(withFunc{}))
	assert.False(t, Equals(withFunc{}).Test(upper))
	assert.True(t, Equals(strings.ToUpper).Test(strings.ToUpper))
	assert.False(t, Equals(strings.ToUpper).Test(strings.ToLower))
	assert.True(t, Equals([]any{strings.TrimSpace}).Test([]any{strings.TrimSpace}))
}

func TestEquals_Delta(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		value    any
		delta    float64
		equal    bool
	}{
		{"within", 1.0, 1.05, 0.1, true},
		{"on the edge", 10, 12, 2, true},
		{"outside", 1.0, 1.2, 0.1, false},
		{"negative delta is absolute", 1.0, 1.05, -0.1, true},
		{"no delta", 1.0, 1.0000001, 0, false},
		{"mixed int and float", 3, 3.4, 0.5, true},
		{"delta ignored for strings", "1.0", "1.05", 1, false},
		{
			"nested in slice",
			[]float64{1.0, 2.0}, []float64{1.05, 1.95}, 0.1, true,
		},
		{
			"nested in map",
			map[string]any{"a": 1, "b": []any{2.0}},
			map[string]any{"a": 1.01, "b": []any{2.02}},
			0.05, true,
		},
		{
			"nested unexported field",
			secret{"x", 1.0}, secret{"x", 1.01}, 0.1, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Equals(tt.expected).Within(tt.delta)
			assert.Equal(t, tt.equal, p.Test(tt.value))
		})
	}
}

func TestEquals_WithinReturnsCopy(t *testing.T) {
	base := Equals(1.0)
	tolerant := base.Within(0.5)

	assert.Zero(t, base.Delta())
	assert.Equal(t, 0.5, tolerant.Delta())
	assert.Equal(t, 1.0, tolerant.Expected())
	assert.False(t, base.Test(1.2))
	assert.True(t, tolerant.Test(1.2))
}

func TestEquals_IntegersExact(t *testing.T) {
	big := int64(math.MaxInt64)

	assert.False(t, Equals(big).Test(big-1))
	assert.True(t, Equals(uint64(5)).Test(int8(5)))
	assert.False(t, Equals(uint64(math.MaxUint64)).Test(int64(-1)))
}

func TestEquals_Composites(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		value    any
		equal    bool
	}{
		{"equal slices", []int{1, 2}, []int{1, 2}, true},
		{"different length", []int{1, 2}, []int{1, 2, 3}, false},
		{"different order", []int{1, 2}, []int{2, 1}, false},
		{"nil and empty slice", []int{}, []int(nil), true},
		{"equal maps", map[string]int{"a": 1}, map[string]int{"a": 1}, true},
		{"different keys", map[string]int{"a": 1}, map[string]int{"b": 1}, false},
		{"equal structs", point{1, 2}, point{1, 2}, true},
		{"different structs", point{1, 2}, point{2, 1}, false},
		{"pointers by value", &point{1, 2}, &point{1, 2}, true},
		{"unexported fields", secret{"a", 1}, secret{"b", 1}, false},
		{"struct and pointer", point{1, 2}, &point{1, 2}, false},
		{"equal errors", errors.New("boom"), errors.New("boom"), true},
		{"different errors", errors.New("boom"), errors.New("bang"), false},
		{
			"loose numbers inside any",
			[]any{1, "a"}, []any{1.0, "a"}, true,
		},
		{"bool and number inside slice", []any{true}, []any{1}, true},
		{"false and number inside slice", []any{false}, []any{2}, false},
		{
			"null and false inside map",
			map[string]any{"a": nil}, map[string]any{"a": false}, true,
		},
		{
			"null and zero inside map",
			map[string]any{"a": 0}, map[string]any{"a": nil}, true,
		},
		{
			"null and non-zero inside map",
			map[string]any{"a": nil}, map[string]any{"a": 3}, false,
		},
		{"string and number inside slice", []any{"1"}, []any{1}, false},
		{"null and string inside slice", []any{nil}, []any{""}, false},
		{
			"loose rules in nested composites",
			map[string]any{"list": []any{true, nil}},
			map[string]any{"list": []any{1, 0}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Equals(tt.expected).Test(tt.value))
		})
	}
}

func TestEquals_EqualMethodIsAuthoritative(t *testing.T) {
	a := decimal.RequireFromString("1.50")
	b := decimal.RequireFromString("1.5")

	assert.True(t, Equals(a).Test(b))
	assert.True(t, Equals(a).Within(0.001).Test(b))
	assert.False(t, Equals(a).Test(decimal.RequireFromString("1.51")))
	assert.True(t, Equals([]decimal.Decimal{a}).Test([]decimal.Decimal{b}))
}

func TestEquals_String(t *testing.T) {
	assert.Equal(t, "is equal to <string:foo>", Equals("foo").String())
	assert.Equal(t, "is equal to <int:5>", Equals(5).String())
	assert.Equal(t, "is equal to <null>", Equals(nil).String())
	assert.Equal(t, "is equal to <text>", Equals("foo\n").String())
}

func TestEquals_Diff(t *testing.T) {
	assert.Equal(t,
		"--- Expected\n+++ Actual\n@@ @@\n-'foo'\n+'bar'",
		Equals("foo").Diff("bar"),
	)
	assert.Equal(t,
		"--- Expected\n+++ Actual\n@@ @@\n-'foo\n-'\n+'bar'",
		Equals("foo\n").Diff("bar"),
	)
}

func TestIsNotEqualTo(t *testing.T) {
	p := IsNotEqualTo("foo")

	assert.True(t, p.Test("bar"))
	assert.False(t, p.Test("foo"))
	assert.Equal(t, "is not equal to <string:foo>", p.String())

	tolerant := IsNotEqualTo(1.0).Within(0.5)
	assert.False(t, tolerant.Test(1.2))
	assert.True(t, tolerant.Test(2.0))
}
