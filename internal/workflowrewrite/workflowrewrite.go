// Package workflowrewrite implements the Workflow Rewriter (spec.md §4.6):
// it walks each step of a workflow, lifts step-level valueFrom expressions,
// hands CommandLineTool steps to the Tool Rewriter, and wires the
// synthesized evaluation scaffolding back into a runnable sub-workflow.
package workflowrewrite

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wtsi-hgi/unjsify-go/internal/emitter"
	"github.com/wtsi-hgi/unjsify-go/internal/evaltemplate"
	"github.com/wtsi-hgi/unjsify-go/internal/loader"
	"github.com/wtsi-hgi/unjsify-go/internal/rewrite"
	"github.com/wtsi-hgi/unjsify-go/internal/toolrewrite"
	"github.com/wtsi-hgi/unjsify-go/pkg/cwl"
	"github.com/wtsi-hgi/unjsify-go/pkg/model"
)

// outerRequirements are added to every rewritten Workflow document
// (spec.md §4.6 step 3).
var outerRequirements = []string{
	"MultipleInputFeatureRequirement",
	"SubworkflowFeatureRequirement",
	"StepInputExpressionRequirement",
}

// Engine drives the recursive rewrite of a workflow document tree.
type Engine struct {
	loader *loader.Loader
	em     *emitter.Emitter
	lang   evaltemplate.Language
	logger *slog.Logger
}

// New creates an Engine. lang selects the evaluator template the emitted
// workflows reference by filename ("./eval_exprs.cwl"); the template's own
// installation is the caller's responsibility (internal/evaltemplate).
func New(ld *loader.Loader, em *emitter.Emitter, lang evaltemplate.Language, logger *slog.Logger) *Engine {
	return &Engine{loader: ld, em: em, lang: lang, logger: logger}
}

// Rewrite processes the document at ref and every step/sub-workflow it
// reaches, writing results through the Engine's Emitter.
func (e *Engine) Rewrite(ref cwl.DocumentRef) error {
	return e.rewrite(ref, map[string]bool{})
}

func (e *Engine) rewrite(ref cwl.DocumentRef, visiting map[string]bool) error {
	key := ref.String()
	if visiting[key] {
		return &model.CycleDetectedError{Path: key}
	}
	visiting[key] = true
	defer delete(visiting, key)

	if e.logger != nil {
		e.logger.Info("processing", "path", key)
	}

	raw, err := e.loader.Get(ref)
	if err != nil {
		return err
	}
	doc, ok := cwl.AsObject(raw)
	if !ok {
		return fmt.Errorf("%s: not a CWL document object", key)
	}

	if cwl.StringField(doc, "class") != "Workflow" {
		wrapper, wrappedRef := wrapBareTool(ref, doc)
		e.loader.Seed(wrappedRef.BasePath, doc)
		doc = wrapper
	}

	expressionLib := stripTopLevelInlineJavascript(doc)
	ensureRequirements(doc, outerRequirements)

	stepsMap, err := cwl.NewIdMap(doc["steps"], "id")
	if err != nil {
		return err
	}

	for _, stepID := range stepsMap.Keys() {
		rawStep, _ := stepsMap.Get(stepID)
		step, ok := cwl.AsObject(rawStep)
		if !ok {
			continue
		}
		rewrittenStep, err := e.rewriteStep(ref, stepID, step, expressionLib, visiting)
		if err != nil {
			return err
		}
		stepsMap.Set(stepID, rewrittenStep)
	}
	doc["steps"] = stepsMap.Raw()

	return e.em.Write(ref, doc)
}

// rewriteStep implements spec.md §4.6 steps 4.a-4.f for a single step.
func (e *Engine) rewriteStep(parentRef cwl.DocumentRef, stepID string, step map[string]any, parentExprLib string, visiting map[string]bool) (map[string]any, error) {
	runPath, isPathRun := cwl.AsString(step["run"])
	if !isPathRun {
		return nil, &model.UnsupportedBindingError{Detail: fmt.Sprintf("step %q: run is not a path reference", stepID)}
	}

	stepIn := normalizeStepIn(step["in"])
	inputIDs := sortedKeys(stepIn)
	stepOut := step["out"]

	workflowExprs, affected := liftWorkflowValueFrom(stepIn, inputIDs)

	stepRef := cwl.ResolveRef(parentRef, runPath)
	targetRaw, err := e.loader.Get(stepRef)
	if err != nil {
		return nil, err
	}
	target, ok := cwl.AsObject(targetRaw)
	if !ok {
		return nil, fmt.Errorf("%s: not a CWL document object", stepRef)
	}
	targetClass := cwl.StringField(target, "class")

	if targetClass == "ExpressionTool" {
		target = transmuteExpressionTool(target)
		targetClass = "CommandLineTool"
	}

	switch targetClass {
	case "Workflow":
		if err := e.rewrite(stepRef, visiting); err != nil {
			return nil, err
		}
		return map[string]any{
			"run": relativeRun(parentRef, stepRef),
			"in":  stepIn,
			"out": stepOut,
		}, nil

	case "CommandLineTool":
		return e.rewriteToolStep(parentRef, stepRef, target, stepIn, inputIDs, workflowExprs, affected, parentExprLib)

	default:
		return nil, &model.UnsupportedStepClassError{Name: stepID, Class: targetClass}
	}
}

// rewriteToolStep implements spec.md §4.6.d/e for a CommandLineTool step.
func (e *Engine) rewriteToolStep(parentRef cwl.DocumentRef, stepRef cwl.DocumentRef, tool map[string]any, stepIn map[string]any, inputIDs []string, workflowExprs []rewrite.ExpressionSite, affected []string, parentExprLib string) (map[string]any, error) {
	hasInlineJS := requirementsHave(tool, "InlineJavascriptRequirement")
	exprLib := mergedExpressionLib(parentExprLib, requirementExpressionLib(tool))

	innerInputs := make([]any, 0, len(inputIDs))
	for _, id := range inputIDs {
		innerInputs = append(innerInputs, map[string]any{"id": id, "type": "Any?"})
	}

	innerSteps := map[string]any{}
	innerOutputs := map[string]any{}

	// Workflow-level valueFrom lift scaffolding (§4.6.b), embedded inside
	// this step's own sub-workflow rather than as outer siblings.
	if len(workflowExprs) > 0 {
		innerSteps[rewrite.EvalWorkflowExprsStep] = buildEvalStep(inputIDs, workflowExprs, exprLib)
		innerSteps[rewrite.ProcessWorkflowExprsStep] = map[string]any{
			"run": identityProcessor(rewrite.OutputExprsInput, pickItemsFromSites(workflowExprs, affected)),
			"in": map[string]any{
				rewrite.OutputExprsInput: map[string]any{
					"source": rewrite.EvalWorkflowExprsStep + "/output",
				},
			},
			"out": toAnySlice(affected),
		}
		for _, id := range affected {
			stepIn[id] = map[string]any{
				"source": rewrite.ProcessWorkflowExprsStep + "/" + id,
			}
		}
	}

	var rewritten *rewrite.RewrittenTool
	if hasInlineJS {
		rt, err := toolrewrite.Rewrite(tool)
		if err != nil {
			return nil, err
		}
		rewritten = rt
		tool = rt.Tool
	}

	if err := e.em.Write(stepRef, tool); err != nil {
		return nil, err
	}

	toolOutputsMap, err := cwl.NewIdMap(tool["outputs"], "id")
	if err != nil {
		return nil, err
	}
	outputIDs := toolOutputsMap.Keys()

	rewrittenToolIn := map[string]any{}
	for _, id := range inputIDs {
		rewrittenToolIn[id] = map[string]any{"source": id}
	}
	// Inputs whose valueFrom was lifted reach the tool through the
	// processor step's per-input outputs inside this sub-workflow.
	for _, id := range affected {
		rewrittenToolIn[id] = map[string]any{
			"source": rewrite.ProcessWorkflowExprsStep + "/" + id,
		}
	}

	if rewritten != nil && len(rewritten.InputExpressions) > 0 {
		innerSteps[rewrite.EvalInputExprsStep] = buildEvalStep(inputIDs, rewritten.InputExpressions, exprLib)
		rewrittenToolIn[rewrite.ExprsInput] = map[string]any{
			"source": rewrite.EvalInputExprsStep + "/output",
		}
	}

	innerSteps["rewritten_tool"] = map[string]any{
		"run": relativeRun(parentRef, stepRef),
		"in":  rewrittenToolIn,
		"out": toAnySlice(outputIDs),
	}

	if rewritten != nil && len(rewritten.OutputExpressions) > 0 {
		memoIDs := make([]string, 0, len(rewritten.OutputTypeMemo))
		for id := range rewritten.OutputTypeMemo {
			memoIDs = append(memoIDs, id)
		}
		sort.Strings(memoIDs)

		sources := make([]string, len(memoIDs))
		for i, id := range memoIDs {
			sources[i] = "rewritten_tool/" + id
		}
		innerSteps[rewrite.EvalOutputExprsStep] = buildEvalStepFromSources(sources, memoIDs, rewritten.OutputExpressions, exprLib)

		bySelf := map[string]int{}
		for _, site := range rewritten.OutputExpressions {
			bySelf[site.SelfName] = site.Index
		}
		items := make([]pickItem, 0, len(memoIDs))
		for _, id := range memoIDs {
			idx, ok := bySelf["__output_"+id]
			if !ok {
				continue
			}
			items = append(items, pickItem{OutputID: id, Index: idx, Type: rewritten.OutputTypeMemo[id].OriginalType})
		}
		innerSteps["__process_output_exprs"] = map[string]any{
			"run": identityProcessor("results", items),
			"in": map[string]any{
				"results": map[string]any{"source": rewrite.EvalOutputExprsStep + "/output"},
			},
			"out": toAnySlice(memoIDs),
		}
	}

	for _, id := range outputIDs {
		if rewritten != nil {
			if memo, ok := rewritten.OutputTypeMemo[id]; ok {
				innerOutputs[id] = map[string]any{
					"type":         memo.OriginalType,
					"outputSource": "__process_output_exprs/" + id,
				}
				continue
			}
		}
		innerOutputs[id] = map[string]any{
			"type":         "Any?",
			"outputSource": "rewritten_tool/" + id,
		}
	}

	innerWorkflow := map[string]any{
		"class":      "Workflow",
		"cwlVersion": "v1.0",
		"requirements": []any{
			map[string]any{"class": "StepInputExpressionRequirement"},
			map[string]any{"class": "MultipleInputFeatureRequirement"},
			map[string]any{"class": "SubworkflowFeatureRequirement"},
		},
		"inputs":  innerInputs,
		"steps":   innerSteps,
		"outputs": innerOutputs,
	}

	return map[string]any{
		"run": innerWorkflow,
		"in":  stepIn,
		"out": toAnySlice(outputIDs),
	}, nil
}

func pickItemsFromSites(sites []rewrite.ExpressionSite, affected []string) []pickItem {
	bySelf := map[string]int{}
	for _, site := range sites {
		bySelf[site.SelfName] = site.Index
	}
	items := make([]pickItem, 0, len(affected))
	for _, id := range affected {
		items = append(items, pickItem{OutputID: id, Index: bySelf[id]})
	}
	return items
}

// relativeRun computes the "run" reference a document at parentRef uses to
// point at stepRef, assuming the Output Emitter mirrors both under the same
// relative tree (so the relationship between their source paths holds for
// their emitted locations too).
func relativeRun(parentRef, stepRef cwl.DocumentRef) string {
	rel, err := filepath.Rel(filepath.Dir(parentRef.BasePath), stepRef.BasePath)
	if err != nil {
		return stepRef.BasePath
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// normalizeStepIn promotes every step "in" entry to object form (spec.md
// §4.6g / §9's bare-string Open Question) and returns it as a fresh map so
// callers can mutate freely.
func normalizeStepIn(raw any) map[string]any {
	out := map[string]any{}
	switch v := raw.(type) {
	case map[string]any:
		for id, entry := range v {
			out[id] = cwl.PromoteStepInput(entry)
		}
	case []any:
		for _, entry := range v {
			m, ok := cwl.AsObject(entry)
			if !ok {
				continue
			}
			id := cwl.StringField(m, "id")
			if id == "" {
				continue
			}
			out[id] = m
		}
	}
	return out
}

// liftWorkflowValueFrom implements spec.md §4.6.b: every step-input
// valueFrom string is scanned; non-parameter-reference expressions are
// moved into workflowExprs and the valueFrom is stripped from the entry
// that carried one.
func liftWorkflowValueFrom(stepIn map[string]any, inputIDs []string) (workflowExprs []rewrite.ExpressionSite, affected []string) {
	for _, id := range inputIDs {
		entry, ok := cwl.AsObject(stepIn[id])
		if !ok {
			continue
		}
		valueFrom, ok := cwl.AsString(entry["valueFrom"])
		if !ok {
			continue
		}

		_, lifted, err := rewrite.LiftString(valueFrom, func(raw string) (string, error) {
			site := rewrite.ExpressionSite{
				Kind:          rewrite.WorkflowValueFrom,
				SelfName:      id,
				RawExpression: raw,
				Index:         len(workflowExprs),
			}
			workflowExprs = append(workflowExprs, site)
			return rewrite.ExprsToken(rewrite.OutputExprsInput, site.Index), nil
		})
		if err != nil || !lifted {
			continue
		}

		delete(entry, "valueFrom")
		stepIn[id] = entry
		affected = append(affected, id)
	}
	return workflowExprs, affected
}

// buildEvalStep synthesizes a call to the evaluation template over the
// named step inputs, producing its "output" array.
func buildEvalStep(inputIDs []string, sites []rewrite.ExpressionSite, exprLib string) map[string]any {
	return buildEvalStepFromSources(inputIDs, inputIDs, sites, exprLib)
}

func buildEvalStepFromSources(sources, names []string, sites []rewrite.ExpressionSite, exprLib string) map[string]any {
	expressions := make([]any, len(sites))
	for i, site := range sites {
		expressions[i] = site.RawExpression
	}

	in := map[string]any{
		"input_values": map[string]any{"source": toAnySlice(sources)},
		"input_names":  map[string]any{"default": toAnySlice(names)},
		"expressions":  map[string]any{"default": expressions},
	}
	if exprLib != "" {
		in["expressionLib"] = map[string]any{"default": exprLib}
	}
	return map[string]any{
		"run": "./" + evaltemplate.Filename,
		"in":  in,
		"out": []any{"output"},
	}
}

func mergedExpressionLib(parent, own string) string {
	switch {
	case parent == "":
		return own
	case own == "":
		return parent
	default:
		return parent + ";" + own
	}
}

func requirementsHave(doc map[string]any, class string) bool {
	reqsMap, err := cwl.NewIdMap(doc["requirements"], "class")
	if err != nil {
		return false
	}
	_, ok := reqsMap.Get(class)
	return ok
}

// requirementExpressionLib joins an InlineJavascriptRequirement's
// expressionLib entries (if any) into the single string the evaluation
// template's expressionLib input expects.
func requirementExpressionLib(doc map[string]any) string {
	reqsMap, err := cwl.NewIdMap(doc["requirements"], "class")
	if err != nil {
		return ""
	}
	raw, ok := reqsMap.Get("InlineJavascriptRequirement")
	if !ok {
		return ""
	}
	obj, ok := cwl.AsObject(raw)
	if !ok {
		return ""
	}
	arr, ok := cwl.AsArray(obj["expressionLib"])
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := cwl.AsString(item); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ";")
}

// stripTopLevelInlineJavascript removes InlineJavascriptRequirement from
// doc's requirements, returning its expressionLib entries (spec.md §4.6
// step 2: "retaining its expressionLib... for use in descendants").
func stripTopLevelInlineJavascript(doc map[string]any) string {
	lib := requirementExpressionLib(doc)
	reqsMap, err := cwl.NewIdMap(doc["requirements"], "class")
	if err != nil {
		return lib
	}
	reqsMap.Remove("InlineJavascriptRequirement")
	doc["requirements"] = reqsMap.Raw()
	return lib
}

// ensureRequirements adds each named requirement class if not already
// present (spec.md §4.6 step 3).
func ensureRequirements(doc map[string]any, classes []string) {
	reqsMap, err := cwl.NewIdMap(doc["requirements"], "class")
	if err != nil {
		reqsMap, _ = cwl.NewIdMap(nil, "class")
	}
	for _, class := range classes {
		if _, ok := reqsMap.Get(class); !ok {
			reqsMap.Add(class, map[string]any{"class": class})
		}
	}
	doc["requirements"] = reqsMap.Raw()
}
