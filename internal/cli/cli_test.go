package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRootCmd_RewriteEndToEnd(t *testing.T) {
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

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{tool, "-o", out})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v, stderr: %s", err, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(out, "eval_exprs.cwl")); err != nil {
		t.Errorf("evaluation template not installed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "tool.cwl")); err != nil {
		t.Errorf("synthesized wrapper workflow not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "__tool.cwl")); err != nil {
		t.Errorf("rewritten tool not written: %v", err)
	}
}

func TestRootCmd_RequiresOutput(t *testing.T) {
	base := t.TempDir()
	tool := writeFile(t, base, "tool.cwl", `
class: CommandLineTool
cwlVersion: v1.0
baseCommand: echo
inputs: []
outputs: []
`)

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{tool})

	if err := root.Execute(); err == nil {
		t.Fatal("expected an error when -o is omitted")
	}
}

func TestRootCmd_MissingInputFile(t *testing.T) {
	out := t.TempDir()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"/no/such/workflow.cwl", "-o", out})

	if err := root.Execute(); err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}
