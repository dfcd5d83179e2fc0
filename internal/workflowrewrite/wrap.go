package workflowrewrite

import (
	"fmt"
	"path/filepath"

	"github.com/wtsi-hgi/unjsify-go/pkg/cwl"
)

// wrapBareTool synthesizes a one-step identity Workflow around a bare
// CommandLineTool/ExpressionTool root document (spec.md §4.6 step 1), so
// the rest of the pipeline can treat every root document uniformly. The
// original tool is kept under its own path (wrappedRef) so the caller can
// still load and rewrite it as a step target; the returned document is the
// synthesized wrapper.
func wrapBareTool(ref cwl.DocumentRef, tool map[string]any) (wrapper map[string]any, wrappedRef cwl.DocumentRef) {
	dir := filepath.Dir(ref.BasePath)
	wrappedPath := filepath.Join(dir, "__"+filepath.Base(ref.BasePath))
	wrappedRef = cwl.DocumentRef{BasePath: wrappedPath}

	inputsMap, _ := cwl.NewIdMap(tool["inputs"], "id")
	outputsMap, _ := cwl.NewIdMap(tool["outputs"], "id")

	wrapperInputs := make([]any, 0, len(inputsMap.Keys()))
	stepIn := map[string]any{}
	for _, id := range inputsMap.Keys() {
		wrapperInputs = append(wrapperInputs, map[string]any{
			"id":   id,
			"type": "Any?",
		})
		stepIn[id] = map[string]any{"source": id}
	}

	wrapperOutputs := map[string]any{}
	stepOut := make([]any, 0, len(outputsMap.Keys()))
	for _, id := range outputsMap.Keys() {
		wrapperOutputs[id] = map[string]any{
			"type":         "Any?",
			"outputSource": fmt.Sprintf("cmdline_tool/%s", id),
		}
		stepOut = append(stepOut, id)
	}

	wrapper = map[string]any{
		"class":      "Workflow",
		"cwlVersion": "v1.0",
		"inputs":     wrapperInputs,
		"outputs":    wrapperOutputs,
		"steps": map[string]any{
			"cmdline_tool": map[string]any{
				"run": "./" + filepath.Base(wrappedPath),
				"in":  stepIn,
				"out": stepOut,
			},
		},
	}
	return wrapper, wrappedRef
}
