// Package evaltemplate embeds and installs the evaluation template: the
// fixed CWL document that receives an array of raw input values, a
// parallel array of names, and a list of extracted expressions, and
// produces an array of evaluated results (spec.md §9's "evaluation
// template" contract). Two language variants exist — a JavaScript
// ExpressionTool and a Python CommandLineTool — selected by the
// CLI's --language flag.
package evaltemplate

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed templates/eval_exprs_js.cwl templates/eval_exprs_python.cwl
var templatesFS embed.FS

// Language selects which evaluation template variant to install.
type Language string

const (
	JS     Language = "js"
	Python Language = "python"

	// Filename is the fixed name the installed template is always
	// written under, regardless of language: step "run" references
	// across the rewritten tree all say "./eval_exprs.cwl".
	Filename = "eval_exprs.cwl"
)

// ParseLanguage validates a --language flag value.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case JS, Python:
		return Language(s), nil
	default:
		return "", fmt.Errorf("unsupported --language %q: want \"js\" or \"python\"", s)
	}
}

func (l Language) templateAsset() string {
	switch l {
	case Python:
		return "templates/eval_exprs_python.cwl"
	default:
		return "templates/eval_exprs_js.cwl"
	}
}

// Install copies the template for lang into outDir/eval_exprs.cwl.
func Install(lang Language, outDir string) (string, error) {
	data, err := templatesFS.ReadFile(lang.templateAsset())
	if err != nil {
		return "", fmt.Errorf("read embedded template for %q: %w", lang, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", outDir, err)
	}
	dest := filepath.Join(outDir, Filename)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}
