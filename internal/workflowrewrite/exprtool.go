package workflowrewrite

import "github.com/wtsi-hgi/unjsify-go/pkg/cwl"

// transmuteExpressionTool turns an ExpressionTool into a trivial
// CommandLineTool that emits cwl.output.json by shelling out the original
// expression text (spec.md §4.6.c / §8 scenario 4). The tool is then
// treated like any other CommandLineTool by the rest of the step pipeline,
// including a further Tool Rewriter pass if it still carries
// InlineJavascriptRequirement.
func transmuteExpressionTool(doc map[string]any) map[string]any {
	out := cwl.DeepCopy(doc).(map[string]any)
	expression, _ := cwl.AsString(out["expression"])
	delete(out, "expression")

	out["class"] = "CommandLineTool"
	out["arguments"] = []any{
		"bash",
		"-c",
		"echo $0 | cut -c 2- > cwl.output.json",
		"|" + expression,
	}
	return out
}
