package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wtsi-hgi/unjsify-go/internal/evaltemplate"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRun_InstallsTemplateAndRewritesTree(t *testing.T) {
	base := t.TempDir()
	out := t.TempDir()

	tool := writeFile(t, base, "tool.cwl", `
class: CommandLineTool
cwlVersion: v1.0
baseCommand: echo
requirements:
  InlineJavascriptRequirement: {}
inputs:
  - id: x
    type: string
outputs: []
arguments:
  - valueFrom: "${ return inputs.x + '!'; }"
`)

	result, err := Run(Options{
		Workflow: tool,
		Output:   out,
		Language: evaltemplate.JS,
	}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(result.TemplatePath); err != nil {
		t.Errorf("template not installed at %s: %v", result.TemplatePath, err)
	}
	if len(result.Written) == 0 {
		t.Error("expected at least one written document")
	}
	if _, err := os.Stat(filepath.Join(out, "tool.cwl")); err != nil {
		t.Errorf("synthesized wrapper workflow not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "__tool.cwl")); err != nil {
		t.Errorf("rewritten tool not written: %v", err)
	}
}

func TestRun_MissingCacheDBDegradesSilently(t *testing.T) {
	base := t.TempDir()
	out := t.TempDir()

	tool := writeFile(t, base, "tool.cwl", `
class: CommandLineTool
cwlVersion: v1.0
baseCommand: echo
inputs: []
outputs: []
`)

	cacheDB := filepath.Join(t.TempDir(), "does", "not", "exist", "cache.db")
	_, err := Run(Options{
		Workflow: tool,
		Output:   out,
		Language: evaltemplate.JS,
		CacheDB:  cacheDB,
	}, nil)
	if err != nil {
		t.Fatalf("Run should tolerate an unopenable cache db, got: %v", err)
	}
}
