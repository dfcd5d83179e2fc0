package cwl

import (
	"reflect"
	"sort"
	"testing"
)

func TestIdMap_ObjectForm(t *testing.T) {
	raw := map[string]any{"x": "File", "y": map[string]any{"type": "int"}}
	m, err := NewIdMap(raw, "id")
	if err != nil {
		t.Fatal(err)
	}
	if m.IsArray() {
		t.Fatal("expected object form")
	}
	v, ok := m.Get("x")
	if !ok || v != "File" {
		t.Errorf("Get(x) = %v, %v", v, ok)
	}
	m.Set("x", "Directory")
	if v, _ := m.Get("x"); v != "Directory" {
		t.Errorf("Set did not take effect: %v", v)
	}
	m.Add("z", "string")
	if _, ok := m.Get("z"); !ok {
		t.Error("Add did not insert z")
	}
	m.Remove("y")
	if _, ok := m.Get("y"); ok {
		t.Error("Remove did not delete y")
	}
	keys := m.Keys()
	sort.Strings(keys)
	if !reflect.DeepEqual(keys, []string{"x", "z"}) {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestIdMap_ArrayForm(t *testing.T) {
	raw := []any{
		map[string]any{"id": "x", "type": "File"},
		map[string]any{"id": "y", "type": "int"},
	}
	m, err := NewIdMap(raw, "id")
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsArray() {
		t.Fatal("expected array form")
	}
	if keys := m.Keys(); !reflect.DeepEqual(keys, []string{"x", "y"}) {
		t.Errorf("Keys() = %v, want order preserved [x y]", keys)
	}
	m.Remove("x")
	if keys := m.Keys(); !reflect.DeepEqual(keys, []string{"y"}) {
		t.Errorf("Keys() after remove = %v", keys)
	}
	m.Add("z", map[string]any{"type": "string"})
	if v, ok := m.Get("z"); !ok || v.(map[string]any)["id"] != "z" {
		t.Errorf("Add did not tag identifier field: %v", v)
	}
}

func TestIdMap_DuplicateIdentifierRejected(t *testing.T) {
	raw := []any{
		map[string]any{"id": "x"},
		map[string]any{"id": "x"},
	}
	if _, err := NewIdMap(raw, "id"); err == nil {
		t.Fatal("expected error for duplicate identifier")
	}
}

func TestToArray_ObjectScalarsWrapped(t *testing.T) {
	raw := map[string]any{
		"a": "File",
		"b": map[string]any{"type": "int"},
	}
	arr := ToArray(raw, "id", "type")
	if len(arr) != 2 {
		t.Fatalf("len = %d", len(arr))
	}
	byID := map[string]map[string]any{}
	for _, item := range arr {
		m := item.(map[string]any)
		byID[m["id"].(string)] = m
	}
	if byID["a"]["type"] != "File" {
		t.Errorf("scalar not wrapped: %v", byID["a"])
	}
	if byID["b"]["type"] != "int" {
		t.Errorf("object entry mishandled: %v", byID["b"])
	}
}

func TestToArray_AlreadyArray(t *testing.T) {
	raw := []any{map[string]any{"id": "a"}}
	arr := ToArray(raw, "id", "type")
	if !reflect.DeepEqual(arr, raw) {
		t.Errorf("ToArray should pass through existing array form")
	}
}

func TestPromoteStepInput(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want map[string]any
	}{
		{"bare string", "inp", map[string]any{"source": "inp"}},
		{"bare array", []any{"a", "b"}, map[string]any{"source": []any{"a", "b"}}},
		{"already object", map[string]any{"source": "inp", "default": 1}, map[string]any{"source": "inp", "default": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PromoteStepInput(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PromoteStepInput(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
