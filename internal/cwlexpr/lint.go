package cwlexpr

import (
	"fmt"

	"github.com/dop251/goja"
)

// Diagnostic is a single lint finding against one extracted expression.
type Diagnostic struct {
	Expression string
	Message    string
}

// Lint statically checks that every $(...)/${...} expression in s parses as
// valid JavaScript, without ever running it: it calls goja.Compile to parse
// and compile the expression body but never constructs a goja.Runtime or
// invokes RunProgram. This exists to catch malformed scripts before they
// reach an executor, not to evaluate them.
func Lint(s string) ([]Diagnostic, error) {
	exprs, err := ScanAll(s)
	if err != nil {
		return nil, err
	}

	var diags []Diagnostic
	for _, expr := range exprs {
		if !expr.Brace && IsParameterReference(expr.Body) {
			continue
		}
		src := expr.Body
		if expr.Brace {
			// ${...} bodies are function bodies (they end in a return
			// statement), so they are compiled inside a function literal.
			src = "(function(){" + src + "\n})"
		} else {
			// $(...) bodies are expressions; wrap so the parser accepts them
			// the same way a statement-oriented parser would.
			src = "(" + src + ")"
		}
		if _, compileErr := goja.Compile(fmt.Sprintf("expr:%d", expr.Span.Lo), src, true); compileErr != nil {
			diags = append(diags, Diagnostic{
				Expression: expr.Full,
				Message:    compileErr.Error(),
			})
		}
	}
	return diags, nil
}
