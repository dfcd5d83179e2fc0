package server

import (
	"encoding/json"
	"net/http"

	"github.com/wtsi-hgi/unjsify-go/internal/config"
	"github.com/wtsi-hgi/unjsify-go/internal/evaltemplate"
	"github.com/wtsi-hgi/unjsify-go/internal/orchestrator"
)

// rewriteRequest is the POST /rewrite body (SPEC_FULL.md §6).
type rewriteRequest struct {
	Workflow string `json:"workflow"`
	Output   string `json:"output"`
	BaseDir  string `json:"base_dir"`
	Language string `json:"language"`
}

// rewriteResponse is the fixed POST /rewrite response shape SPEC_FULL.md §6
// specifies: {"ok": true, "written": [...]} or {"ok": false, "error": "..."}.
type rewriteResponse struct {
	OK      bool     `json:"ok"`
	Written []string `json:"written,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req rewriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRewriteResponse(w, http.StatusBadRequest, rewriteResponse{OK: false, Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Workflow == "" || req.Output == "" {
		writeRewriteResponse(w, http.StatusBadRequest, rewriteResponse{OK: false, Error: "\"workflow\" and \"output\" are required"})
		return
	}

	cfg := config.RewriteConfig{
		Workflow: req.Workflow,
		Output:   req.Output,
		BaseDir:  req.BaseDir,
		Language: req.Language,
	}
	if cfg.Language == "" {
		cfg.Language = string(evaltemplate.JS)
	}
	lang, err := evaltemplate.ParseLanguage(cfg.Language)
	if err != nil {
		writeRewriteResponse(w, http.StatusBadRequest, rewriteResponse{OK: false, Error: err.Error()})
		return
	}

	logger := s.logger.With("request_id", reqID)
	result, err := orchestrator.Run(orchestrator.Options{
		Workflow: cfg.Workflow,
		Output:   cfg.Output,
		BaseDir:  cfg.BaseDir,
		Language: lang,
	}, logger)
	if err != nil {
		logger.Error("rewrite failed", "error", err)
		writeRewriteResponse(w, http.StatusUnprocessableEntity, rewriteResponse{OK: false, Error: err.Error()})
		return
	}

	writeRewriteResponse(w, http.StatusOK, rewriteResponse{OK: true, Written: result.Written})
}

func writeRewriteResponse(w http.ResponseWriter, status int, resp rewriteResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
