package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testServer() *Server {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(logger)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestHealthz(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Fatalf("body = %q, want %q", rr.Body.String(), "ok")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestStatus(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "text/html") {
		t.Errorf("content-type = %q, want text/html", rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Body.String(), "Uptime") {
		t.Errorf("expected uptime in body, got: %s", rr.Body.String())
	}
}

func TestRewrite_Success(t *testing.T) {
	base := t.TempDir()
	out := t.TempDir()

	writeFile(t, base, "tool.cwl", `
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

	srv := testServer()
	body, _ := json.Marshal(map[string]string{
		"workflow": filepath.Join(base, "tool.cwl"),
		"output":   out,
		"language": "js",
	})
	req := httptest.NewRequest(http.MethodPost, "/rewrite", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp rewriteResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.OK {
		t.Fatalf("ok = false, error = %q", resp.Error)
	}
	if len(resp.Written) == 0 {
		t.Error("expected at least one written file")
	}
	if _, err := os.Stat(filepath.Join(out, "eval_exprs.cwl")); err != nil {
		t.Errorf("evaluation template not installed: %v", err)
	}
}

func TestRewrite_MissingFields(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodPost, "/rewrite", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var resp rewriteResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OK {
		t.Error("expected ok = false")
	}
}

func TestRewrite_UnknownLanguage(t *testing.T) {
	base := t.TempDir()
	out := t.TempDir()
	writeFile(t, base, "tool.cwl", `
class: CommandLineTool
cwlVersion: v1.0
baseCommand: echo
inputs: []
outputs: []
`)

	srv := testServer()
	body, _ := json.Marshal(map[string]string{
		"workflow": filepath.Join(base, "tool.cwl"),
		"output":   out,
		"language": "ruby",
	})
	req := httptest.NewRequest(http.MethodPost, "/rewrite", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", rr.Code, rr.Body.String())
	}
}
