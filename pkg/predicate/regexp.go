package predicate

import (
	"fmt"
	"regexp"

	lru "github.com/hashicorp/golang-lru"
)

// regexpCacheSize bounds the number of compiled patterns kept by
// Matches.
const regexpCacheSize = 256

var regexpCache = mustCache(regexpCacheSize)

func mustCache(size int) *lru.Cache {
	c, err := lru.New(size)
	if err != nil {
		panic(err)
	}
	return c
}

// CompileRegexp compiles pattern, reusing a previously compiled
// expression for the same pattern.
func CompileRegexp(pattern string) (*regexp.Regexp, error) {
	if cached, ok := regexpCache.Get(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %w", pattern, err)
	}
	regexpCache.Add(pattern, re)
	return re, nil
}

// Matches is satisfied by strings, byte slices and Stringers that
// match pattern. An invalid pattern matches nothing; use
// CompileRegexp to validate patterns up front.
func Matches(pattern string) Predicate {
	return newLeaf(
		"matches",
		fmt.Sprintf("matches regular expression %q", pattern),
		func(v any) bool { return matches(pattern, v) },
	)
}

// DoesNotMatch is satisfied by strings that do not match pattern.
// Values that are not text never satisfy it.
func DoesNotMatch(pattern string) Predicate {
	return newLeaf(
		"does_not_match",
		fmt.Sprintf("does not match regular expression %q", pattern),
		func(v any) bool {
			if _, ok := textOf(v); !ok {
				return false
			}
			return !matches(pattern, v)
		},
	)
}

func matches(pattern string, v any) bool {
	text, ok := textOf(v)
	if !ok {
		return false
	}
	re, err := CompileRegexp(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

func textOf(v any) (string, bool) {
	if b, ok := v.([]byte); ok {
		return string(b), true
	}
	return stringOf(v)
}
