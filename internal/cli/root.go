// Package cli wires the cobra command surface described in spec.md §6 and
// SPEC_FULL.md §6: a root "unjsify <cwl_workflow>" command that runs one
// rewrite, plus a "serve" subcommand that exposes the same transform over
// HTTP.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	flagLogLevel  string
	flagLogFormat string
)

// NewRootCmd creates the root cobra command for the unjsify CLI. The root
// command itself performs a rewrite (spec.md §6's single positional
// cwl_workflow command); "serve" is its one subcommand.
func NewRootCmd() *cobra.Command {
	root := newRewriteCmd()
	root.Use = "unjsify <cwl_workflow>"
	root.Short = "Rewrite a CWL workflow to remove embedded script expressions"
	root.Long = `unjsify lifts $(...) and ${...} expressions out of CommandLineTool and
ExpressionTool documents in a CWL workflow and replaces them with an
auxiliary evaluation step, producing an equivalent workflow runnable by any
CWL executor that supports only the core specification.`
	root.SilenceUsage = true

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(newServeCmd())

	return root
}
