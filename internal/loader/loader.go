// Package loader fetches and caches CWL documents by path, resolving
// $graph fragments and handing out deep copies so callers can rewrite
// freely without tainting the cached original.
package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wtsi-hgi/unjsify-go/pkg/cwl"
	"github.com/wtsi-hgi/unjsify-go/pkg/model"
)

// entry is one cached base document as parsed. It is never handed out
// directly: Get and GetRoot return deep copies, so a repeated Get always
// clones from the pristine parse.
type entry struct {
	original any
}

// Loader is a process-wide (well: one-invocation-wide) document cache.
// The zero value is not usable; construct with New.
type Loader struct {
	mu      sync.Mutex
	cache   map[string]*entry
	logger  *slog.Logger
	persist Cache // optional secondary cache, e.g. the sqlite parse cache
}

// Cache is the optional persistence hook a Loader can consult before
// touching the filesystem and populate after a successful parse. It lets
// repeated invocations (the --cache-db parse cache in internal/parsecache)
// skip re-parsing documents already seen, without the Loader needing to
// know how that persistence works.
type Cache interface {
	Get(path string) (any, bool)
	Put(path string, doc any)
}

// New creates a Loader with an empty in-memory cache. persist may be nil.
func New(logger *slog.Logger, persist Cache) *Loader {
	return &Loader{
		cache:   make(map[string]*entry),
		logger:  logger,
		persist: persist,
	}
}

// Get resolves ref, returning a deep copy of the referenced document (or
// document fragment) so the caller may mutate it freely.
func (l *Loader) Get(ref cwl.DocumentRef) (any, error) {
	root, err := l.getRoot(ref.BasePath)
	if err != nil {
		return nil, err
	}
	if ref.Fragment == "" {
		return cwl.DeepCopy(root), nil
	}

	obj, ok := cwl.AsObject(root)
	if !ok {
		return nil, &model.FragmentMissingError{Path: ref.BasePath, ID: ref.Fragment}
	}
	graphRaw, ok := obj["$graph"]
	if !ok {
		return nil, &model.FragmentMissingError{Path: ref.BasePath, ID: ref.Fragment}
	}
	graph, ok := cwl.AsArray(graphRaw)
	if !ok {
		return nil, &model.FragmentMissingError{Path: ref.BasePath, ID: ref.Fragment}
	}
	for _, item := range graph {
		m, ok := cwl.AsObject(item)
		if !ok {
			continue
		}
		if id, _ := cwl.AsString(m["id"]); trimFragmentID(id) == ref.Fragment {
			return cwl.DeepCopy(m), nil
		}
	}
	return nil, &model.FragmentMissingError{Path: ref.BasePath, ID: ref.Fragment}
}

// Seed injects doc into the cache under basePath as if it had been parsed
// from that path, without touching the filesystem. The Workflow Rewriter
// uses this to make a synthesized wrapper's original document available at
// its synthesized sibling path (spec.md §4.6 step 1), since that path never
// existed on disk.
func (l *Loader) Seed(basePath string, doc any) {
	canonical, err := filepath.Abs(basePath)
	if err != nil {
		canonical = basePath
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[canonical] = &entry{original: cwl.DeepCopy(doc)}
}

// GetRoot returns a deep copy of the whole document at basePath, ignoring
// any fragment: used by the Output Emitter, which must rewrite a single
// $graph entry in place without disturbing its siblings.
func (l *Loader) GetRoot(basePath string) (any, error) {
	root, err := l.getRoot(basePath)
	if err != nil {
		return nil, err
	}
	return cwl.DeepCopy(root), nil
}

func (l *Loader) getRoot(basePath string) (any, error) {
	canonical, err := filepath.Abs(basePath)
	if err != nil {
		canonical = basePath
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.cache[canonical]; ok {
		return e.original, nil
	}

	if l.persist != nil {
		if doc, ok := l.persist.Get(canonical); ok {
			l.cache[canonical] = &entry{original: doc}
			return doc, nil
		}
	}

	data, err := os.ReadFile(canonical)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &model.DocumentNotFoundError{Path: canonical}
		}
		return nil, fmt.Errorf("read %s: %w", canonical, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &model.ParseErrorKind{Path: canonical, Detail: err.Error()}
	}
	doc, err = resolveImports(doc, filepath.Dir(canonical))
	if err != nil {
		return nil, fmt.Errorf("resolve $import in %s: %w", canonical, err)
	}
	doc = normalize(doc)

	l.cache[canonical] = &entry{original: doc}
	if l.persist != nil {
		l.persist.Put(canonical, doc)
	}
	if l.logger != nil {
		l.logger.Debug("loaded document", "path", canonical)
	}
	return doc, nil
}

// resolveImports recursively replaces "$import: path" directives with the
// parsed contents of the referenced file, relative to dir. CWL documents
// commonly factor shared requirements or types out into $import'd snippets;
// the rewriter needs to see the expanded tree to find every expression.
func resolveImports(v any, dir string) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		if importPath, ok := val["$import"].(string); ok && len(val) == 1 {
			full := importPath
			if !filepath.IsAbs(importPath) {
				full = filepath.Join(dir, importPath)
			}
			data, err := os.ReadFile(full)
			if err != nil {
				return nil, fmt.Errorf("read $import %q: %w", importPath, err)
			}
			var imported any
			if err := yaml.Unmarshal(data, &imported); err != nil {
				return nil, fmt.Errorf("parse $import %q: %w", importPath, err)
			}
			return resolveImports(imported, filepath.Dir(full))
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			resolved, err := resolveImports(item, dir)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			resolved, err := resolveImports(item, dir)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

// trimFragmentID strips a leading "#" from a packed $graph entry's id, so
// fragment comparisons work whether or not the source used the "#main"
// convention.
func trimFragmentID(id string) string {
	if len(id) > 0 && id[0] == '#' {
		return id[1:]
	}
	return id
}

// normalize recursively copies yaml.v3's map[string]any / []any decode
// result. yaml.v3 decodes string-keyed mappings into map[string]any
// directly, so this is a pass-through; a map[interface{}]any (from
// non-string keys) is returned unchanged, not converted.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return val
	}
}
