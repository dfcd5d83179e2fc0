package cwl

import (
	"fmt"
	"sort"
)

// IdMap gives uniform get/set/add/remove/keys/to_array access to a CWL
// "id-map": a logical keyed collection that is physically either an Object
// (key -> value) or an Array of objects, each carrying a distinguished
// identifier field (normally "id"; requirements/hints use "class"). Both
// encodings appear throughout CWL documents for the same logical data.
//
// Order is preserved for the array encoding and irrelevant for the object
// encoding, matching CWL's own semantics.
type IdMap struct {
	idField string
	object  map[string]any // non-nil when physically an Object
	array   []any          // non-nil when physically an Array
}

// NewIdMap wraps raw (an Object or Array) for uniform access using idField as
// the identifier field name in array form (e.g. "id" or "class"). A nil or
// missing raw is treated as an empty Object.
func NewIdMap(raw any, idField string) (*IdMap, error) {
	switch v := raw.(type) {
	case nil:
		return &IdMap{idField: idField, object: map[string]any{}}, nil
	case map[string]any:
		return &IdMap{idField: idField, object: v}, nil
	case []any:
		seen := make(map[string]bool, len(v))
		for i, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("idmap: array element %d is not an object", i)
			}
			id, ok := m[idField].(string)
			if !ok || id == "" {
				return nil, fmt.Errorf("idmap: array element %d missing identifier field %q", i, idField)
			}
			if seen[id] {
				return nil, fmt.Errorf("idmap: duplicate identifier %q", id)
			}
			seen[id] = true
		}
		return &IdMap{idField: idField, array: v}, nil
	default:
		return nil, fmt.Errorf("idmap: unsupported shape %T", raw)
	}
}

// IsArray reports whether the underlying encoding is the array form.
func (m *IdMap) IsArray() bool {
	return m.array != nil
}

// Get returns the value named name and whether it was present.
func (m *IdMap) Get(name string) (any, bool) {
	if m.array != nil {
		for _, entry := range m.array {
			obj := entry.(map[string]any)
			if obj[m.idField] == name {
				return obj, true
			}
		}
		return nil, false
	}
	v, ok := m.object[name]
	return v, ok
}

// Set replaces the value named name, which must already exist.
func (m *IdMap) Set(name string, value any) {
	if m.array != nil {
		for i, entry := range m.array {
			obj := entry.(map[string]any)
			if obj[m.idField] == name {
				if asObj, ok := value.(map[string]any); ok {
					asObj[m.idField] = name
					m.array[i] = asObj
				} else {
					m.array[i] = value
				}
				return
			}
		}
		return
	}
	m.object[name] = value
}

// Add appends a new entry named name. In array form it is appended at the
// end; in object form it is simply inserted under the key.
func (m *IdMap) Add(name string, value any) {
	if m.array != nil {
		if asObj, ok := value.(map[string]any); ok {
			asObj[m.idField] = name
			m.array = append(m.array, asObj)
		} else {
			m.array = append(m.array, map[string]any{m.idField: name, "value": value})
		}
		return
	}
	m.object[name] = value
}

// Remove deletes the entry named name, if present.
func (m *IdMap) Remove(name string) {
	if m.array != nil {
		for i, entry := range m.array {
			obj := entry.(map[string]any)
			if obj[m.idField] == name {
				m.array = append(m.array[:i], m.array[i+1:]...)
				return
			}
		}
		return
	}
	delete(m.object, name)
}

// Keys returns the identifiers present, in array order for the array
// encoding. The object encoding has no declaration order of its own (Go map
// iteration is randomized), so Keys returns its identifiers sorted
// lexically: this is what makes expression-site indexing deterministic
// across repeated runs over the same document (spec.md §8's "expression
// renumbering stability" property).
func (m *IdMap) Keys() []string {
	if m.array != nil {
		keys := make([]string, len(m.array))
		for i, entry := range m.array {
			keys[i] = entry.(map[string]any)[m.idField].(string)
		}
		return keys
	}
	keys := make([]string, 0, len(m.object))
	for k := range m.object {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Raw returns the underlying encoding (map[string]any or []any) for
// reassignment back into a parent document after mutation.
func (m *IdMap) Raw() any {
	if m.array != nil {
		return m.array
	}
	return m.object
}

// ToArray lifts an Object-encoded id-map to Array form, the representation
// CWL tooling increasingly prefers. secondaryField names the field used to
// wrap scalar values (e.g. a bare type name) that aren't already objects:
// `{id: name, secondaryField: scalar}`. Map values that are already objects
// are copied and tagged with the identifier field; arrays of objects are
// assumed to already be in array form and are returned as-is (NewIdMap would
// have rejected a malformed one).
func ToArray(raw any, idField, secondaryField string) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		out := make([]any, 0, len(v))
		for name, val := range v {
			switch item := val.(type) {
			case map[string]any:
				entry := make(map[string]any, len(item)+1)
				for k, vv := range item {
					entry[k] = vv
				}
				entry[idField] = name
				out = append(out, entry)
			default:
				out = append(out, map[string]any{idField: name, secondaryField: item})
			}
		}
		return out
	default:
		return nil
	}
}

// PromoteStepInput normalizes a CWL step "in" entry to object form: a bare
// string source reference becomes {source: S}; a bare array of sources
// becomes {source: [S, ...]} (MultipleInputFeatureRequirement shorthand). An
// entry that is already an object passes through unchanged.
func PromoteStepInput(v any) map[string]any {
	switch val := v.(type) {
	case string:
		return map[string]any{"source": val}
	case []any:
		return map[string]any{"source": val}
	case map[string]any:
		return val
	default:
		return map[string]any{}
	}
}
