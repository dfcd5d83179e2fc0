package rewrite

// Reserved identifiers the rewriter synthesizes into a document. Per
// spec.md §3's invariant (ii), a collision with any pre-existing name in
// the tool or workflow is a validation failure (model.NameCollisionError),
// never a silent rename.
const (
	// ExprsInput is the tool-level input that carries every lifted
	// InputBinding/FreeText expression's evaluated result. OutputEval
	// sites are referenced as self[k] instead.
	ExprsInput = "__exprs"

	// OutputExprsInput is the step-level input that carries the result of
	// a workflow-level valueFrom lift.
	OutputExprsInput = "__output_exprs"

	// EvalWorkflowExprsStep and ProcessWorkflowExprsStep are the two
	// helper steps synthesized by a workflow-level valueFrom lift.
	EvalWorkflowExprsStep    = "__eval_workflow_exprs"
	ProcessWorkflowExprsStep = "__process_workflow_exprs"

	// EvalInputExprsStep and EvalOutputExprsStep are the two helper steps
	// synthesized around a rewritten CommandLineTool.
	EvalInputExprsStep  = "__eval_input_exprs"
	EvalOutputExprsStep = "__eval_output_exprs"
)

// ReservedNames lists the reserved identifiers above. The Tool Rewriter
// checks a tool's existing input ids against it; step ids are not checked.
// The other helper ids the Workflow Rewriter synthesizes
// ("__process_output_exprs", "rewritten_tool") are not in this list.
var ReservedNames = []string{
	ExprsInput,
	OutputExprsInput,
	EvalWorkflowExprsStep,
	ProcessWorkflowExprsStep,
	EvalInputExprsStep,
	EvalOutputExprsStep,
}
