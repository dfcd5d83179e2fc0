// Package orchestrator implements the Entry Orchestrator: the single
// function the CLI and the diagnostics HTTP service both call to run one
// end-to-end rewrite of a CWL document tree.
package orchestrator

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/wtsi-hgi/unjsify-go/internal/emitter"
	"github.com/wtsi-hgi/unjsify-go/internal/evaltemplate"
	"github.com/wtsi-hgi/unjsify-go/internal/loader"
	"github.com/wtsi-hgi/unjsify-go/internal/logging"
	"github.com/wtsi-hgi/unjsify-go/internal/parsecache"
	"github.com/wtsi-hgi/unjsify-go/internal/workflowrewrite"
	"github.com/wtsi-hgi/unjsify-go/pkg/cwl"
)

// Options configures one rewrite run.
type Options struct {
	Workflow string // path to the root CWL document
	Output   string // output directory
	BaseDir  string // base directory the output mirrors; defaults to Workflow's directory
	Language evaltemplate.Language
	CacheDB  string // optional sqlite parse cache path; "" disables it
}

// Result reports what a run produced.
type Result struct {
	Written        []string
	TemplatePath   string
}

// Run installs the evaluation template, then rewrites opts.Workflow and
// every document it transitively reaches, writing everything under
// opts.Output.
func Run(opts Options, logger *slog.Logger) (*Result, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = filepath.Dir(opts.Workflow)
	}

	templatePath, err := evaltemplate.Install(opts.Language, opts.Output)
	if err != nil {
		return nil, fmt.Errorf("install evaluation template: %w", err)
	}

	var persist loader.Cache
	if opts.CacheDB != "" {
		c, err := parsecache.Open(opts.CacheDB, logger)
		if err != nil {
			if logger != nil {
				logger.Warn("parse cache unavailable, continuing without it", "path", opts.CacheDB, "error", err)
			}
		} else {
			defer c.Close()
			persist = c
		}
	}

	loaderLogger, emitterLogger, engineLogger := logger, logger, logger
	if logger != nil {
		loaderLogger = logging.Component(logger, "loader")
		emitterLogger = logging.Component(logger, "emitter")
		engineLogger = logging.Component(logger, "workflowrewrite")
	}

	ld := loader.New(loaderLogger, persist)
	em := emitter.New(baseDir, opts.Output, ld, emitterLogger)
	engine := workflowrewrite.New(ld, em, opts.Language, engineLogger)

	root, err := filepath.Abs(opts.Workflow)
	if err != nil {
		return nil, fmt.Errorf("resolve workflow path %s: %w", opts.Workflow, err)
	}
	if err := engine.Rewrite(cwl.DocumentRef{BasePath: root}); err != nil {
		return nil, err
	}

	return &Result{Written: em.Written(), TemplatePath: templatePath}, nil
}
