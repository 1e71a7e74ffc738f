package suite

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"digital.vasic.assert/pkg/predicate"
)

var errNoValue = errors.New("value is required")

// builtinFactories returns the factories registered by
// NewRegistry. Type names match the predicate.Kind of the predicate
// built, except for contains_any.
func builtinFactories() map[string]Factory {
	return map[string]Factory{
		"equals":     buildEquals,
		"not_equals": buildNotEquals,

		"is_true":      fixed(predicate.IsTrue),
		"is_false":     fixed(predicate.IsFalse),
		"is_nil":       fixed(predicate.IsNil),
		"is_not_nil":   fixed(predicate.IsNotNil),
		"is_empty":     fixed(predicate.IsEmpty),
		"is_not_empty": fixed(predicate.IsNotEmpty),

		"contains":          withValue(predicate.Contains),
		"does_not_contain":  withValue(predicate.DoesNotContain),
		"contains_any":      buildContainsAny,
		"has_key":           withValue(predicate.HasKey),
		"does_not_have_key": withValue(predicate.DoesNotHaveKey),

		"matches":        withPattern(predicate.Matches),
		"does_not_match": withPattern(predicate.DoesNotMatch),

		"is_of_size":     withSize(predicate.IsOfSize),
		"is_not_of_size": withSize(predicate.IsNotOfSize),

		"is_greater_than":             withNumber(predicate.IsGreaterThan),
		"is_greater_than_or_equal_to": withNumber(predicate.IsGreaterThanOrEqualTo),
		"is_less_than":                withNumber(predicate.IsLessThan),
		"is_less_than_or_equal_to":    withNumber(predicate.IsLessThanOrEqualTo),

		"is_of_type":     withString(predicate.IsOfTypeName),
		"is_not_of_type": withString(predicate.IsNotOfTypeName),

		"is_existing_file":          withBasePath(predicate.IsExistingFile),
		"is_non_existing_file":      withBasePath(predicate.IsNonExistingFile),
		"is_existing_directory":     withBasePath(predicate.IsExistingDirectory),
		"is_non_existing_directory": withBasePath(predicate.IsNonExistingDirectory),
	}
}

func buildEquals(def Definition) (predicate.Predicate, error) {
	return predicate.Equals(def.Value).Within(def.Delta), nil
}

func buildNotEquals(def Definition) (predicate.Predicate, error) {
	return predicate.IsNotEqualTo(def.Value).Within(def.Delta), nil
}

func fixed(build func() predicate.Predicate) Factory {
	return func(Definition) (predicate.Predicate, error) {
		return build(), nil
	}
}

func withValue(build func(any) predicate.Predicate) Factory {
	return func(def Definition) (predicate.Predicate, error) {
		if def.Value == nil {
			return nil, errNoValue
		}
		return build(def.Value), nil
	}
}

func buildContainsAny(def Definition) (predicate.Predicate, error) {
	if len(def.Values) == 0 {
		return nil, errors.New("values are required")
	}
	p := predicate.Contains(def.Values[0])
	for _, v := range def.Values[1:] {
		p = predicate.Or(p, predicate.Contains(v))
	}
	return p, nil
}

func withString(build func(string) predicate.Predicate) Factory {
	return func(def Definition) (predicate.Predicate, error) {
		s, ok := def.Value.(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("value must be a non-empty string, got %T", def.Value)
		}
		return build(s), nil
	}
}

func withPattern(build func(string) predicate.Predicate) Factory {
	return func(def Definition) (predicate.Predicate, error) {
		s, ok := def.Value.(string)
		if !ok {
			return nil, fmt.Errorf("value must be a string, got %T", def.Value)
		}
		if _, err := predicate.CompileRegexp(s); err != nil {
			return nil, err
		}
		return build(s), nil
	}
}

func withSize(build func(int) predicate.Predicate) Factory {
	return func(def Definition) (predicate.Predicate, error) {
		n, ok := number(def.Value)
		if !ok || n < 0 || n != math.Trunc(n) {
			return nil, fmt.Errorf("value must be a non-negative integer, got %v", def.Value)
		}
		return build(int(n)), nil
	}
}

func withNumber(build func(any) predicate.Predicate) Factory {
	return func(def Definition) (predicate.Predicate, error) {
		if _, ok := number(def.Value); !ok {
			return nil, fmt.Errorf("value must be a number, got %T", def.Value)
		}
		return build(def.Value), nil
	}
}

func withBasePath(build func(...string) predicate.Predicate) Factory {
	return func(def Definition) (predicate.Predicate, error) {
		switch base := def.Value.(type) {
		case nil:
			return build(), nil
		case string:
			return build(base), nil
		}
		return nil, fmt.Errorf("value must be a base path string, got %T", def.Value)
	}
}

func number(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
