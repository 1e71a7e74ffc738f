package predicate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"digital.vasic.assert/pkg/export"
)

// leaf is a named, described test function. Most catalogue
// predicates are leaves.
type leaf struct {
	name        string
	description string
	test        func(any) bool
}

func (l *leaf) Test(value any) bool { return l.test(value) }
func (l *leaf) String() string      { return l.description }
func (l *leaf) kind() string        { return l.name }

func newLeaf(name, description string, test func(any) bool) Predicate {
	return &leaf{name: name, description: description, test: test}
}

func inverse(test func(any) bool) func(any) bool {
	return func(value any) bool { return !test(value) }
}

// IsTrue is satisfied by the boolean true only.
func IsTrue() Predicate {
	return newLeaf("is_true", "is true", func(v any) bool {
		b, ok := v.(bool)
		return ok && b
	})
}

// IsFalse is satisfied by the boolean false only.
func IsFalse() Predicate {
	return newLeaf("is_false", "is false", func(v any) bool {
		b, ok := v.(bool)
		return ok && !b
	})
}

// IsNil is satisfied by nil and by nil pointers, interfaces, funcs
// and channels.
func IsNil() Predicate {
	return newLeaf("is_nil", "is null", export.IsNull)
}

// IsNotNil is the inverse of IsNil.
func IsNotNil() Predicate {
	return newLeaf("is_not_nil", "is not null", inverse(export.IsNull))
}

// IsEmpty is satisfied by nil, zero-length strings, slices, arrays,
// maps and channels, and by zero values of every other type.
func IsEmpty() Predicate {
	return newLeaf("is_empty", "is empty", isEmpty)
}

// IsNotEmpty is the inverse of IsEmpty.
func IsNotEmpty() Predicate {
	return newLeaf("is_not_empty", "is not empty", inverse(isEmpty))
}

func isEmpty(v any) bool {
	if export.IsNull(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map,
		reflect.Chan:
		return rv.Len() == 0
	}
	return rv.IsZero()
}

// Contains is satisfied by strings containing needle as a substring
// and by slices, arrays and maps holding an element equal to needle.
func Contains(needle any) Predicate {
	return newLeaf(
		"contains",
		"contains "+export.Shorten(needle),
		func(v any) bool { return contains(v, needle) },
	)
}

// DoesNotContain is the inverse of Contains. Values that cannot
// contain anything satisfy it.
func DoesNotContain(needle any) Predicate {
	return newLeaf(
		"does_not_contain",
		"does not contain "+export.Shorten(needle),
		func(v any) bool { return !contains(v, needle) },
	)
}

func contains(haystack, needle any) bool {
	if export.IsNull(haystack) {
		return export.IsNull(needle)
	}
	rv := reflect.ValueOf(haystack)
	switch rv.Kind() {
	case reflect.String:
		s, ok := stringOf(needle)
		return ok && strings.Contains(rv.String(), s)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if equal(needle, rv.Index(i).Interface(), 0) {
				return true
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if equal(needle, iter.Value().Interface(), 0) {
				return true
			}
		}
	}
	return false
}

// HasKey is satisfied by maps with the given key, by slices and
// arrays where key is a valid index and by structs with a field of
// that name.
func HasKey(key any) Predicate {
	return newLeaf(
		"has_key",
		"has key "+export.Shorten(key),
		func(v any) bool { return hasKey(v, key) },
	)
}

// DoesNotHaveKey is the inverse of HasKey.
func DoesNotHaveKey(key any) Predicate {
	return newLeaf(
		"does_not_have_key",
		"does not have key "+export.Shorten(key),
		func(v any) bool { return !hasKey(v, key) },
	)
}

func hasKey(container, key any) bool {
	if export.IsNull(container) {
		return false
	}
	rv := reflect.Indirect(reflect.ValueOf(container))
	switch rv.Kind() {
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if equal(key, iter.Key().Interface(), 0) {
				return true
			}
		}
	case reflect.Slice, reflect.Array:
		i, ok := indexOf(key)
		return ok && i >= 0 && i < rv.Len()
	case reflect.Struct:
		name, ok := key.(string)
		if !ok {
			return false
		}
		_, found := rv.Type().FieldByName(name)
		return found
	}
	return false
}

func indexOf(key any) (int, bool) {
	if s, ok := key.(string); ok {
		i, err := strconv.Atoi(s)
		return i, err == nil
	}
	if !isNumber(key) {
		return 0, false
	}
	f := toFloat(reflect.ValueOf(key))
	if f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// IsOfSize is satisfied by strings with size runes and by slices,
// arrays, maps and channels holding size elements.
func IsOfSize(size int) Predicate {
	return newLeaf(
		"is_of_size",
		fmt.Sprintf("is of size %d", size),
		func(v any) bool {
			n, ok := sizeOf(v)
			return ok && n == size
		},
	)
}

// IsNotOfSize is satisfied by sized values of any other size.
// Values without a size never satisfy it.
func IsNotOfSize(size int) Predicate {
	return newLeaf(
		"is_not_of_size",
		fmt.Sprintf("is not of size %d", size),
		func(v any) bool {
			n, ok := sizeOf(v)
			return ok && n != size
		},
	)
}

func sizeOf(v any) (int, bool) {
	if export.IsNull(v) {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), true
	}
	return 0, false
}

// IsGreaterThan is satisfied by numbers greater than bound.
func IsGreaterThan(bound any) Predicate {
	return ordered("is_greater_than", "is greater than", bound,
		func(a, b float64) bool { return a > b })
}

// IsGreaterThanOrEqualTo is satisfied by numbers not below bound.
func IsGreaterThanOrEqualTo(bound any) Predicate {
	return ordered("is_greater_than_or_equal_to",
		"is greater than or equal to", bound,
		func(a, b float64) bool { return a >= b })
}

// IsLessThan is satisfied by numbers below bound.
func IsLessThan(bound any) Predicate {
	return ordered("is_less_than", "is less than", bound,
		func(a, b float64) bool { return a < b })
}

// IsLessThanOrEqualTo is satisfied by numbers not above bound.
func IsLessThanOrEqualTo(bound any) Predicate {
	return ordered("is_less_than_or_equal_to",
		"is less than or equal to", bound,
		func(a, b float64) bool { return a <= b })
}

func ordered(
	name, prefix string,
	bound any,
	cmpFn func(a, b float64) bool,
) Predicate {
	return newLeaf(name, prefix+" "+export.Export(bound), func(v any) bool {
		if !isNumber(v) || !isNumber(bound) {
			return false
		}
		return cmpFn(
			toFloat(reflect.ValueOf(v)),
			toFloat(reflect.ValueOf(bound)),
		)
	})
}

// IsOfType is satisfied by values of type T, or implementing T when
// T is an interface.
func IsOfType[T any]() Predicate {
	name := typeName[T]()
	return newLeaf("is_of_type", fmt.Sprintf("is of type %q", name),
		func(v any) bool {
			_, ok := v.(T)
			return ok
		})
}

// IsNotOfType is the inverse of IsOfType.
func IsNotOfType[T any]() Predicate {
	name := typeName[T]()
	return newLeaf("is_not_of_type", fmt.Sprintf("is not of type %q", name),
		func(v any) bool {
			_, ok := v.(T)
			return !ok
		})
}

// IsOfTypeName is satisfied by values whose Go type or kind is
// named name, for example "string", "float64", "map" or
// "map[string]interface {}".
func IsOfTypeName(name string) Predicate {
	return newLeaf("is_of_type", fmt.Sprintf("is of type %q", name),
		func(v any) bool { return hasTypeName(v, name) })
}

// IsNotOfTypeName is the inverse of IsOfTypeName.
func IsNotOfTypeName(name string) Predicate {
	return newLeaf("is_not_of_type", fmt.Sprintf("is not of type %q", name),
		func(v any) bool { return !hasTypeName(v, name) })
}

func hasTypeName(v any, name string) bool {
	if v == nil {
		return name == "null"
	}
	t := reflect.TypeOf(v)
	return t.String() == name || t.Kind().String() == name
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// IsSameAs is satisfied by the identical value: the same pointer,
// map, slice header, channel or func, or an equal comparable value
// of the same type.
func IsSameAs(expected any) Predicate {
	return newLeaf("is_same_as", "is identical to "+export.Tag(expected),
		func(v any) bool { return same(expected, v) })
}

// IsNotSameAs is the inverse of IsSameAs.
func IsNotSameAs(expected any) Predicate {
	return newLeaf("is_not_same_as",
		"is not identical to "+export.Tag(expected),
		func(v any) bool { return !same(expected, v) })
}

func same(a, b any) (identical bool) {
	// Comparable types may still hold incomparable dynamic values.
	defer func() {
		if recover() != nil {
			identical = false
		}
	}()

	if a == nil || b == nil {
		return a == nil && b == nil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	switch av.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func,
		reflect.UnsafePointer:
		return av.Pointer() == bv.Pointer()
	case reflect.Slice:
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
	}
	if !av.Type().Comparable() {
		return false
	}
	return a == b
}

func stringOf(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), true
	}
	return "", false
}
