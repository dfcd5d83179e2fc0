package parsecache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCache_PutThenGet(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "tool.cwl")
	if err := os.WriteFile(docPath, []byte("class: CommandLineTool\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Open(filepath.Join(dir, "cache.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	if _, ok := c.Get(docPath); ok {
		t.Fatalf("expected miss before any Put")
	}

	c.Put(docPath, map[string]any{"class": "CommandLineTool"})

	got, ok := c.Get(docPath)
	if !ok {
		t.Fatalf("expected hit after Put")
	}
	doc := got.(map[string]any)
	if doc["class"] != "CommandLineTool" {
		t.Fatalf("unexpected cached document: %v", doc)
	}
}

func TestCache_MissAfterFileModified(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "tool.cwl")
	if err := os.WriteFile(docPath, []byte("class: CommandLineTool\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Open(filepath.Join(dir, "cache.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	c.Put(docPath, map[string]any{"class": "CommandLineTool"})

	if err := os.WriteFile(docPath, []byte("class: CommandLineTool\nextra: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get(docPath); ok {
		t.Fatalf("expected miss once size/mtime no longer match the cached row")
	}
}
