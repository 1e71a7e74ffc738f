package predicate

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// IsErrorOfType is satisfied by errors matching target. target is
// either a sentinel error, matched with errors.Is, or a pointer to
// an error type or interface, matched with errors.As. Test never
// writes to target.
func IsErrorOfType(target any) Predicate {
	return newLeaf(
		"is_error_of_type",
		fmt.Sprintf("is an error of type %q", ErrorTypeName(target)),
		func(v any) bool {
			err, ok := v.(error)
			if !ok || err == nil {
				return false
			}
			return MatchesError(err, scratchTarget(target))
		},
	)
}

// MatchesError reports whether err matches target in the sense of
// IsErrorOfType. A pointer target is filled by errors.As on success.
func MatchesError(err error, target any) bool {
	if isAsTarget(target) {
		return errors.As(err, target)
	}
	if sentinel, ok := target.(error); ok {
		return errors.Is(err, sentinel)
	}
	return false
}

// ErrorTypeName returns the type name shown for target in failure
// messages: the pointed-to type for errors.As targets and the
// dynamic type of a sentinel otherwise.
func ErrorTypeName(target any) string {
	if isAsTarget(target) {
		return reflect.TypeOf(target).Elem().String()
	}
	if target == nil {
		return "error"
	}
	return reflect.TypeOf(target).String()
}

// isAsTarget reports whether target is a non-nil pointer to an
// interface or to a type implementing error.
func isAsTarget(target any) bool {
	if target == nil {
		return false
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return false
	}
	elem := rv.Type().Elem()
	return elem.Kind() == reflect.Interface || elem.Implements(errorType)
}

// scratchTarget returns a fresh pointer of the same type for errors.As
// targets so evaluation does not touch the caller's variable.
func scratchTarget(target any) any {
	if !isAsTarget(target) {
		return target
	}
	return reflect.New(reflect.TypeOf(target).Elem()).Interface()
}
