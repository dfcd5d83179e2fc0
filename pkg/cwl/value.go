// Package cwl provides representation and traversal helpers for raw CWL
// documents decoded from YAML: maps, slices, and scalars with no fixed schema.
package cwl

import "sort"

// DeepCopy returns a structural copy of v such that mutating the result never
// affects v. Only the shapes YAML decoding produces are handled: map[string]any,
// []any, and scalars (which are copied by value already).
func DeepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = DeepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = DeepCopy(item)
		}
		return out
	default:
		return v
	}
}

// Visitor is called once per string leaf found during Walk, in Walk's
// depth-first order (map keys lexically). It returns the replacement value for the leaf (itself, if
// unchanged).
type Visitor func(s string) string

// Walk rewrites every string leaf in v using fn, returning a new tree. Maps
// and slices are rebuilt; non-string scalars pass through untouched.
// Traversal is depth-first; for a map, keys are visited in lexical order
// (not Go's randomized map iteration order) so that callers assigning
// sequential indices as they walk — the Tool Rewriter's FreeText sites — get
// a result that is stable across repeated runs over the same document.
func Walk(v any, fn Visitor) any {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(val))
		for _, k := range keys {
			out[k] = Walk(val[k], fn)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Walk(item, fn)
		}
		return out
	case string:
		return fn(val)
	default:
		return v
	}
}

// AsObject returns v as a map[string]any and true if v has that shape.
func AsObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// AsArray returns v as a []any and true if v has that shape.
func AsArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// AsString returns v as a string and true if v has that shape.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// StringField reads a string-valued key from an object, defaulting to "".
func StringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// BoolField reads a bool-valued key from an object, defaulting to false.
func BoolField(m map[string]any, key string) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return false
}
