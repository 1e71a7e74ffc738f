// Package export renders runtime values as text for assertion
// failure messages: a full form used in diff bodies, a shortened
// one-line form used in summaries, and a type-tagged form used in
// predicate descriptions.
package export

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kr/pretty"
)

const (
	// shortLimit is the rune length above which Shorten cuts a
	// string representation.
	shortLimit = 40
	shortHead  = 30
	shortTail  = 7
)

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Export returns the full representation of v. Strings are single
// quoted with backslash and quote escaped and line breaks kept,
// nil is "null", numbers and booleans use their literal form and
// everything else is rendered as Go syntax by kr/pretty.
func Export(v any) string {
	if IsNull(v) {
		return "null"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return quote(rv.String())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	}

	return pretty.Sprint(v)
}

// Shorten returns a one-line representation of v suitable for the
// summary line of a failure message.
func Shorten(v any) string {
	if IsNull(v) {
		return "null"
	}

	if err, ok := v.(error); ok {
		return fmt.Sprintf("%T(%s)", v, strconv.Quote(err.Error()))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return shortenText(Export(v))
	case reflect.Slice, reflect.Array, reflect.Map:
		if rv.Len() == 0 {
			return fmt.Sprintf("%T{}", v)
		}
		return fmt.Sprintf("%T{...}", v)
	case reflect.Struct:
		if rv.NumField() == 0 {
			return fmt.Sprintf("%T{}", v)
		}
		return fmt.Sprintf("%T{...}", v)
	case reflect.Ptr:
		return "&" + Shorten(rv.Elem().Interface())
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("%T", v)
	}

	return Export(v)
}

// Tag returns the type-tagged description of v used in predicate
// descriptions, for example <string:foo> or <int:5>. Values whose
// representation spans several lines are tagged <text> so the
// summary line stays on one line.
func Tag(v any) string {
	if IsNull(v) {
		return "<null>"
	}

	raw := Export(v)
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		raw = rv.String()
	}

	if strings.ContainsAny(raw, "\r\n") {
		return "<text>"
	}
	return "<" + TypeLabel(v) + ":" + raw + ">"
}

// TypeLabel returns "null" for nil and the Go type name otherwise.
func TypeLabel(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

// IsNull reports whether v is untyped nil or a nil pointer,
// interface, func, channel or unsafe pointer. Nil slices and maps
// are empty sequences, not null.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Func,
		reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

func quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}

func shortenText(s string) string {
	if utf8.RuneCountInString(s) > shortLimit {
		runes := []rune(s)
		s = string(runes[:shortHead]) + "..." +
			string(runes[len(runes)-shortTail:])
	}
	s = strings.ReplaceAll(s, "\r", `\r`)
	return strings.ReplaceAll(s, "\n", `\n`)
}
