package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wtsi-hgi/unjsify-go/internal/config"
	"github.com/wtsi-hgi/unjsify-go/internal/cwlexpr"
	"github.com/wtsi-hgi/unjsify-go/internal/evaltemplate"
	"github.com/wtsi-hgi/unjsify-go/internal/logging"
	"github.com/wtsi-hgi/unjsify-go/internal/orchestrator"
)

func newRewriteCmd() *cobra.Command {
	cfg := config.RewriteConfig{Language: "js"}

	cmd := &cobra.Command{
		Use:  "rewrite <cwl_workflow>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Workflow = args[0]
			logger := logging.NewLogger(logging.ParseLevel(flagLogLevel), flagLogFormat)

			return runRewrite(cmd, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "Output directory (required)")
	cmd.Flags().StringVarP(&cfg.BaseDir, "base-dir", "b", "", "Base directory the output mirrors (default: directory of cwl_workflow)")
	cmd.Flags().StringVar(&cfg.Language, "language", cfg.Language, `Evaluation template language: "js" or "python"`)
	cmd.Flags().BoolVar(&cfg.Lint, "lint", false, "Statically check lifted expressions as JavaScript without running them")
	cmd.Flags().StringVar(&cfg.CacheDB, "cache-db", "", "Optional sqlite parse-cache path")
	cmd.MarkFlagRequired("output")

	return cmd
}

// runRewrite drives one transform from a populated RewriteConfig for the
// rewrite command. The diagnostics HTTP service's /rewrite handler builds
// its own config.RewriteConfig and calls orchestrator.Run directly.
func runRewrite(cmd *cobra.Command, cfg config.RewriteConfig, logger *slog.Logger) error {
	if _, err := os.Stat(cfg.Workflow); err != nil {
		return fmt.Errorf("input file %s: %w", cfg.Workflow, err)
	}

	lang, err := evaltemplate.ParseLanguage(cfg.Language)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Processing %s\n", cfg.Workflow)

	if cfg.Lint {
		runLint(cmd, cfg.Workflow)
	}

	result, err := orchestrator.Run(orchestrator.Options{
		Workflow: cfg.Workflow,
		Output:   cfg.Output,
		BaseDir:  cfg.BaseDir,
		Language: lang,
		CacheDB:  cfg.CacheDB,
	}, logger)
	if err != nil {
		return err
	}

	for _, path := range result.Written {
		logger.Info("wrote", "path", path)
	}
	return nil
}

// runLint scans the raw document text for expressions and reports any that
// fail to parse as JavaScript. It never aborts the rewrite: lint findings
// are diagnostics, not errors (SPEC_FULL.md §4.9).
func runLint(cmd *cobra.Command, workflow string) {
	data, err := os.ReadFile(workflow)
	if err != nil {
		return
	}
	diags, err := cwlexpr.Lint(string(data))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "lint: %v\n", err)
		return
	}
	for _, d := range diags {
		fmt.Fprintf(cmd.ErrOrStderr(), "lint: %s: %s\n", d.Expression, d.Message)
	}
}
