package workflowrewrite

import "github.com/wtsi-hgi/unjsify-go/internal/rewrite"

// identityTool is a minimal CommandLineTool that passes its single input
// through as its single output. Its outputEval is a pure parameter
// reference ("$(inputs.value)"), so it never needs InlineJavascriptRequirement
// — it is the building block every "process" scaffold below uses to pick one
// element out of an evaluator's result array without a script engine.
func identityTool() map[string]any {
	return map[string]any{
		"class":       "CommandLineTool",
		"baseCommand": "true",
		"inputs": []any{
			map[string]any{"id": "value", "type": "Any"},
		},
		"outputs": []any{
			map[string]any{
				"id":   "value",
				"type": "Any",
				"outputBinding": map[string]any{
					"outputEval": "$(inputs.value)",
				},
			},
		},
	}
}

// pickItem is one element an identityProcessor exposes: an output id and
// the index into arrayField it should pick.
type pickItem struct {
	OutputID string
	Index    int
	Type     any // original declared type, or nil for "Any"
}

// identityProcessor builds the inline sub-workflow behind
// __process_workflow_exprs (spec.md §4.6.b): a Workflow whose single array
// input (named arrayField) is picked apart by one identity step per item,
// each step's step-input valueFrom reading "inputs.<arrayField>[k]" — a
// pure parameter reference, since "inputs" inside a step-input valueFrom
// scopes to that step's own bound inputs (CWL's WorkflowStepInput
// semantics), not the parent workflow.
func identityProcessor(arrayField string, items []pickItem) map[string]any {
	steps := map[string]any{}
	outputs := map[string]any{}
	for _, item := range items {
		stepID := "pick_" + item.OutputID
		steps[stepID] = map[string]any{
			"run": identityTool(),
			"in": map[string]any{
				"value": map[string]any{
					"source":    arrayField,
					"valueFrom": "$(" + rewrite.ExprsToken(arrayField, item.Index) + ")",
				},
			},
			"out": []any{"value"},
		}
		outType := item.Type
		if outType == nil {
			outType = "Any"
		}
		outputs[item.OutputID] = map[string]any{
			"type":        outType,
			"outputSource": stepID + "/value",
		}
	}

	return map[string]any{
		"class":      "Workflow",
		"cwlVersion": "v1.0",
		"requirements": []any{
			map[string]any{"class": "StepInputExpressionRequirement"},
		},
		"inputs": []any{
			map[string]any{
				"id": arrayField,
				"type": map[string]any{
					"type":  "array",
					"items": "Any",
				},
			},
		},
		"steps":   steps,
		"outputs": outputs,
	}
}
