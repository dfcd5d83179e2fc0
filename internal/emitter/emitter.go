// Package emitter implements the Output Emitter (spec.md §4.7): it writes
// a rewritten CWL document to a path mirroring its location relative to a
// declared base directory, refusing to write outside it.
package emitter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wtsi-hgi/unjsify-go/pkg/cwl"
	"github.com/wtsi-hgi/unjsify-go/pkg/model"
)

// RootLoader is the minimal loader surface the emitter needs: fetching an
// unfragmented document so it can splice a single $graph entry back in
// without disturbing its siblings.
type RootLoader interface {
	GetRoot(basePath string) (any, error)
}

// Emitter writes rewritten documents under outDir, mirroring their source
// location relative to baseDir.
type Emitter struct {
	baseDir string
	outDir  string
	loader  RootLoader
	logger  *slog.Logger

	written []string
}

// New creates an Emitter rooted at baseDir, writing output under outDir.
func New(baseDir, outDir string, loader RootLoader, logger *slog.Logger) *Emitter {
	return &Emitter{baseDir: baseDir, outDir: outDir, loader: loader, logger: logger}
}

// Written returns every output path written so far, in write order.
func (e *Emitter) Written() []string {
	return append([]string(nil), e.written...)
}

// Write serializes doc as the rewritten form of ref and writes it to its
// mirrored location under outDir. If ref carries a fragment, the whole
// $graph root is loaded, the named entry replaced, and the entire root
// written back out, so sibling $graph entries are left untouched.
func (e *Emitter) Write(ref cwl.DocumentRef, doc map[string]any) error {
	outPath, err := e.outputPath(ref.BasePath)
	if err != nil {
		return err
	}

	toWrite := any(doc)
	if ref.Fragment != "" {
		root, err := e.loader.GetRoot(ref.BasePath)
		if err != nil {
			return err
		}
		spliced, err := spliceFragment(root, ref.BasePath, ref.Fragment, doc)
		if err != nil {
			return err
		}
		toWrite = spliced
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory for %s: %w", outPath, err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(toWrite); err != nil {
		return fmt.Errorf("encode %s: %w", outPath, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush %s: %w", outPath, err)
	}

	e.written = append(e.written, outPath)
	if e.logger != nil {
		e.logger.Debug("wrote document", "path", outPath)
	}
	return nil
}

// outputPath computes outDir/relative(sourcePath, baseDir), refusing with
// PathEscapeError when sourcePath's canonical form is not a descendant of
// baseDir's.
func (e *Emitter) outputPath(sourcePath string) (string, error) {
	absBase, err := filepath.Abs(e.baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve base dir %s: %w", e.baseDir, err)
	}
	absSource, err := filepath.Abs(sourcePath)
	if err != nil {
		return "", fmt.Errorf("resolve source path %s: %w", sourcePath, err)
	}

	rel, err := filepath.Rel(absBase, absSource)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &model.PathEscapeError{Path: absSource, Base: absBase}
	}

	return filepath.Join(e.outDir, rel), nil
}

// spliceFragment replaces the $graph entry named fragment in root with
// replacement, returning the whole document tree for re-serialization.
func spliceFragment(root any, path, fragment string, replacement map[string]any) (any, error) {
	obj, ok := cwl.AsObject(root)
	if !ok {
		return nil, &model.FragmentMissingError{Path: path, ID: fragment}
	}
	graph, ok := cwl.AsArray(obj["$graph"])
	if !ok {
		return nil, &model.FragmentMissingError{Path: path, ID: fragment}
	}

	out := make([]any, len(graph))
	found := false
	for i, item := range graph {
		m, ok := cwl.AsObject(item)
		if !ok {
			out[i] = item
			continue
		}
		id, _ := cwl.AsString(m["id"])
		if trimFragmentID(id) == fragment {
			out[i] = replacement
			found = true
			continue
		}
		out[i] = item
	}
	if !found {
		return nil, &model.FragmentMissingError{Path: path, ID: fragment}
	}

	newRoot := make(map[string]any, len(obj))
	for k, v := range obj {
		newRoot[k] = v
	}
	newRoot["$graph"] = out
	return newRoot, nil
}

func trimFragmentID(id string) string {
	if len(id) > 0 && id[0] == '#' {
		return id[1:]
	}
	return id
}
