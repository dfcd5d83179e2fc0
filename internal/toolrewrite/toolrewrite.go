// Package toolrewrite implements the Tool Rewriter (spec.md §4.5): it turns
// a single CommandLineTool containing $(...)/${...} expressions into an
// equivalent one with every non-parameter-reference expression replaced by
// a reference into a synthesized array-valued input, plus the list of
// expressions that a caller must have an evaluation step compute.
package toolrewrite

import (
	"github.com/wtsi-hgi/unjsify-go/internal/rewrite"
	"github.com/wtsi-hgi/unjsify-go/pkg/cwl"
	"github.com/wtsi-hgi/unjsify-go/pkg/model"
)

// Rewrite transforms tool (a CommandLineTool document) in place semantics:
// it returns a new document tree (the input is never mutated) plus every
// extracted expression, in two independently numbered lists:
// InputExpressions holds InputBinding sites first (inputs iteration order),
// then FreeText sites (the remaining tree, depth-first); OutputExpressions
// holds the OutputEval sites (outputs iteration order), numbered from 0.
func Rewrite(tool map[string]any) (*rewrite.RewrittenTool, error) {
	doc := cwl.DeepCopy(tool).(map[string]any)

	inputsMap, err := cwl.NewIdMap(doc["inputs"], "id")
	if err != nil {
		return nil, err
	}
	for _, name := range rewrite.ReservedNames {
		if _, ok := inputsMap.Get(name); ok {
			return nil, &model.NameCollisionError{Name: name, Context: "tool inputs"}
		}
	}

	result := &rewrite.RewrittenTool{
		OutputTypeMemo: map[string]rewrite.OutputMemo{},
	}

	// inputExprs is shared by the input-binding and free-text passes so
	// that both number into the same InputExpressions sequence instead of
	// each restarting its own counter at zero.
	inputExprs := rewrite.NewCollector()
	outputExprs := rewrite.NewCollector()

	if err := liftInputBindings(inputsMap, inputExprs); err != nil {
		return nil, err
	}
	doc["inputs"] = inputsMap.Raw()

	outputsMap, err := cwl.NewIdMap(doc["outputs"], "id")
	if err != nil {
		return nil, err
	}
	if err := liftOutputEvals(outputsMap, outputExprs, result); err != nil {
		return nil, err
	}
	doc["outputs"] = outputsMap.Raw()

	if err := liftFreeText(doc, inputExprs); err != nil {
		return nil, err
	}

	result.InputExpressions = inputExprs.Sites()
	result.OutputExpressions = outputExprs.Sites()

	stripInlineJavascript(doc)

	if len(result.InputExpressions) > 0 {
		inputsMap, _ = cwl.NewIdMap(doc["inputs"], "id")
		inputsMap.Add(rewrite.ExprsInput, map[string]any{
			"type": map[string]any{
				"type":  "array",
				"items": []any{"Any", "null"},
			},
		})
		doc["inputs"] = inputsMap.Raw()
	}

	result.Tool = doc
	return result, nil
}

func liftInputBindings(inputsMap *cwl.IdMap, exprs *rewrite.Collector) error {
	for _, id := range inputsMap.Keys() {
		raw, _ := inputsMap.Get(id)
		input, ok := cwl.AsObject(raw)
		if !ok {
			continue
		}
		binding, ok := cwl.AsObject(input["inputBinding"])
		if !ok {
			continue
		}
		valueFrom, ok := cwl.AsString(binding["valueFrom"])
		if !ok {
			continue
		}

		rewritten, lifted, err := rewrite.LiftString(valueFrom, func(raw string) (string, error) {
			site := exprs.Add(rewrite.InputBinding, id, raw)
			return rewrite.ExprsToken(rewrite.ExprsInput, site.Index), nil
		})
		if err != nil {
			return err
		}
		if lifted {
			binding["valueFrom"] = rewritten
			input["inputBinding"] = binding
			inputsMap.Set(id, input)
		}
	}
	return nil
}

func liftOutputEvals(outputsMap *cwl.IdMap, exprs *rewrite.Collector, result *rewrite.RewrittenTool) error {
	for _, id := range outputsMap.Keys() {
		raw, _ := outputsMap.Get(id)
		output, ok := cwl.AsObject(raw)
		if !ok {
			continue
		}
		binding, ok := cwl.AsObject(output["outputBinding"])
		if !ok {
			continue
		}
		outputEval, ok := cwl.AsString(binding["outputEval"])
		if !ok {
			continue
		}

		rewritten, lifted, err := rewrite.LiftString(outputEval, func(raw string) (string, error) {
			site := exprs.Add(rewrite.OutputEval, "__output_"+id, raw)
			return rewrite.SelfToken(site.Index), nil
		})
		if err != nil {
			return err
		}
		if !lifted {
			continue
		}

		result.OutputTypeMemo[id] = rewrite.OutputMemo{
			OriginalOutputEval: outputEval,
			OriginalType:       output["type"],
		}
		delete(binding, "outputEval")
		output["outputBinding"] = binding
		output["type"] = "Any?"
		outputsMap.Set(id, output)
	}
	return nil
}

func liftFreeText(doc map[string]any, exprs *rewrite.Collector) error {
	var walkErr error
	walked := cwl.Walk(doc, func(s string) string {
		if walkErr != nil {
			return s
		}
		rewritten, _, err := rewrite.LiftString(s, func(raw string) (string, error) {
			site := exprs.Add(rewrite.FreeText, "", raw)
			return rewrite.ExprsToken(rewrite.ExprsInput, site.Index), nil
		})
		if err != nil {
			walkErr = err
			return s
		}
		return rewritten
	})
	if walkErr != nil {
		return walkErr
	}
	for k, v := range walked.(map[string]any) {
		doc[k] = v
	}
	return nil
}

func stripInlineJavascript(doc map[string]any) {
	reqsMap, err := cwl.NewIdMap(doc["requirements"], "class")
	if err != nil {
		return
	}
	reqsMap.Remove("InlineJavascriptRequirement")
	doc["requirements"] = reqsMap.Raw()
}
