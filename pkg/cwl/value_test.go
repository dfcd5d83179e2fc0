package cwl

import (
	"reflect"
	"testing"
)

func TestDeepCopy_Isolation(t *testing.T) {
	orig := map[string]any{
		"a": []any{"x", map[string]any{"y": "z"}},
	}
	copied := DeepCopy(orig).(map[string]any)

	copied["a"].([]any)[1].(map[string]any)["y"] = "mutated"

	if orig["a"].([]any)[1].(map[string]any)["y"] != "z" {
		t.Fatal("DeepCopy did not isolate nested structures")
	}
}

func TestWalk_RewritesStringLeavesOnly(t *testing.T) {
	tree := map[string]any{
		"s":    "hello",
		"n":    42,
		"list": []any{"a", "b"},
	}
	out := Walk(tree, func(s string) string { return s + "!" }).(map[string]any)
	if out["s"] != "hello!" {
		t.Errorf("string leaf not rewritten: %v", out["s"])
	}
	if out["n"] != 42 {
		t.Errorf("non-string leaf mutated: %v", out["n"])
	}
	list := out["list"].([]any)
	if !reflect.DeepEqual(list, []any{"a!", "b!"}) {
		t.Errorf("list leaves = %v", list)
	}
}

func TestStringFieldAndBoolField(t *testing.T) {
	m := map[string]any{"name": "x", "flag": true, "wrong": 5}
	if StringField(m, "name") != "x" {
		t.Error("StringField wrong value")
	}
	if StringField(m, "wrong") != "" {
		t.Error("StringField should default on type mismatch")
	}
	if !BoolField(m, "flag") {
		t.Error("BoolField wrong value")
	}
	if BoolField(m, "missing") {
		t.Error("BoolField should default false")
	}
}
