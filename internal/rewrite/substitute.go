package rewrite

import (
	"fmt"
	"strings"

	"github.com/wtsi-hgi/unjsify-go/internal/cwlexpr"
)

// LiftFunc is called for every non-parameter-reference expression span
// found by LiftString. It must record the site (in the caller's collector)
// and return the token that should appear inside the replacement "$(...)"
// reference, e.g. "inputs.__exprs[3]" or "self[1]".
type LiftFunc func(raw string) (token string, err error)

// LiftString scans s for $(...)/${...} spans, leaves parameter references
// untouched, and replaces every other span with a new "$(<token>)"
// parameter reference produced by lift. It returns the rewritten string and
// whether anything was lifted. This is the one substitution primitive
// shared by the Tool Rewriter and the Workflow Rewriter.
func LiftString(s string, lift LiftFunc) (string, bool, error) {
	exprs, err := cwlexpr.ScanAll(s)
	if err != nil {
		return "", false, err
	}

	var b strings.Builder
	lifted := false
	prev := 0
	for _, expr := range exprs {
		if !expr.Brace && cwlexpr.IsParameterReference(expr.Body) {
			continue
		}
		token, err := lift(expr.Full)
		if err != nil {
			return "", false, err
		}
		b.WriteString(s[prev:expr.Span.Lo])
		b.WriteString("$(")
		b.WriteString(token)
		b.WriteString(")")
		prev = expr.Span.Hi
		lifted = true
	}
	b.WriteString(s[prev:])
	return b.String(), lifted, nil
}

// ExprsToken builds the "inputs.<field>[k]" token the input-binding and
// free-text lifts use.
func ExprsToken(field string, index int) string {
	return fmt.Sprintf("inputs.%s[%d]", field, index)
}

// SelfToken builds the "self[k]" token the output-eval lift uses.
func SelfToken(index int) string {
	return fmt.Sprintf("self[%d]", index)
}
