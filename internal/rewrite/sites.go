// Package rewrite holds the primitives shared by the Tool Rewriter
// (internal/toolrewrite) and the Workflow Rewriter (internal/workflowrewrite):
// expression-site records, the index-counting Collector, the LiftString
// substitution, and the reserved identifiers they synthesize.
package rewrite

// SiteKind classifies where a lifted expression came from, which in turn
// determines how its "self" binding is produced at evaluation time.
type SiteKind int

const (
	// InputBinding is a CommandLineTool input's inputBinding.valueFrom.
	// self is the tool input's own value.
	InputBinding SiteKind = iota
	// OutputEval is a CommandLineTool output's outputBinding.outputEval.
	// self is the output's raw collected value.
	OutputEval
	// WorkflowValueFrom is a workflow step input's valueFrom.
	// self is that step input's own (pre-valueFrom) value.
	WorkflowValueFrom
	// FreeText is a string anywhere else in the document tree that
	// happened to contain an expression. self is always null.
	FreeText
)

func (k SiteKind) String() string {
	switch k {
	case InputBinding:
		return "InputBinding"
	case OutputEval:
		return "OutputEval"
	case WorkflowValueFrom:
		return "WorkflowValueFrom"
	case FreeText:
		return "FreeText"
	default:
		return "Unknown"
	}
}

// ExpressionSite records one extracted $(...)/${...} expression: where it
// came from, what script-visible variable "self" should be bound to when it
// is evaluated, and its position in the per-step expression list.
type ExpressionSite struct {
	Kind SiteKind

	// SelfName is the name of the variable whose value self is bound to
	// when the expression is evaluated (an input id, a synthesized
	// "__output_<id>" stash name, or a step-input id). Empty for FreeText,
	// whose self is always null.
	SelfName string

	// RawExpression is the exact matched span, including its "$(" / "${"
	// delimiters and closing bracket.
	RawExpression string

	// Index is the site's position in the expression list handed to the
	// evaluation step. A tool's input list holds InputBinding sites first
	// (in inputs iteration order), then FreeText (depth-first tree order);
	// OutputEval sites (outputs iteration order) form a separate list
	// numbered from 0.
	Index int
}

// OutputMemo records an output's pre-rewrite outputEval and declared type,
// stashed so the Workflow Rewriter can reconstruct an equivalent outputEval
// around the evaluation step's result.
type OutputMemo struct {
	OriginalOutputEval string
	OriginalType       any
}

// RewrittenTool is the result of rewriting a single CommandLineTool.
type RewrittenTool struct {
	Tool              map[string]any
	InputExpressions  []ExpressionSite
	OutputExpressions []ExpressionSite
	OutputTypeMemo    map[string]OutputMemo
}

// Collector accumulates expression sites during one tool rewrite, threading
// the shared index counter so that two lift passes writing into the same
// site list (the Tool Rewriter's input-binding and free-text passes both
// feed result.InputExpressions) number their sites in a single sequence
// rather than each restarting from zero (spec.md §9's "sentinel-free
// closure state").
type Collector struct {
	sites []ExpressionSite
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records one extracted expression and returns it with Index set to its
// position in the sequence.
func (c *Collector) Add(kind SiteKind, selfName, raw string) ExpressionSite {
	site := ExpressionSite{Kind: kind, SelfName: selfName, RawExpression: raw, Index: len(c.sites)}
	c.sites = append(c.sites, site)
	return site
}

// Sites returns every site recorded so far, in recording order.
func (c *Collector) Sites() []ExpressionSite {
	return c.sites
}
