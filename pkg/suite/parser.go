package suite

import "strings"

// ParseAssertionString parses a compact assertion string of the
// form "type:value" into its components. If no colon is present
// the entire string is treated as the type and value is nil.
//
// Examples:
//
//	"contains:func"  -> ("contains", "func")
//	"is_not_empty"   -> ("is_not_empty", nil)
//	"matches:^a:b$"  -> ("matches", "^a:b$")
func ParseAssertionString(
	s string,
) (assertionType string, value any) {
	parts := strings.SplitN(s, ":", 2)
	assertionType = parts[0]

	if len(parts) > 1 {
		value = parts[1]
	}

	return
}

// normalize expands the compact type form of def and its children.
// The children slices are copied, never modified in place.
func normalize(def Definition) Definition {
	if def.Value == nil && strings.Contains(def.Type, ":") {
		def.Type, def.Value = ParseAssertionString(def.Type)
	}
	def.All = normalizeAll(def.All)
	def.Any = normalizeAll(def.Any)
	return def
}

func normalizeAll(defs []Definition) []Definition {
	if len(defs) == 0 {
		return defs
	}
	out := make([]Definition, len(defs))
	for i, d := range defs {
		out[i] = normalize(d)
	}
	return out
}
