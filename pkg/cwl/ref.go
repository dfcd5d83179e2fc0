package cwl

import (
	"path/filepath"
	"strings"
)

// DocumentRef identifies a CWL document: a base file path, optionally
// narrowed to one entry of a $graph bundle by its "id" field.
type DocumentRef struct {
	BasePath string
	Fragment string // "" when the ref names the whole document
}

// String renders the ref the way CWL tooling writes a "run" target:
// "path#fragment", or bare "path" when there is no fragment.
func (r DocumentRef) String() string {
	if r.Fragment == "" {
		return r.BasePath
	}
	return r.BasePath + "#" + r.Fragment
}

// WithFragment returns a copy of r narrowed to the given fragment.
func (r DocumentRef) WithFragment(fragment string) DocumentRef {
	return DocumentRef{BasePath: r.BasePath, Fragment: fragment}
}

// ParseRef splits "path#fragment" into a DocumentRef.
func ParseRef(raw string) DocumentRef {
	if idx := strings.IndexByte(raw, '#'); idx >= 0 {
		return DocumentRef{BasePath: raw[:idx], Fragment: raw[idx+1:]}
	}
	return DocumentRef{BasePath: raw}
}

// ResolveRef resolves a raw "run" target relative to current, per CWL run
// resolution semantics:
//   - "#id" attaches to current's own base document, replacing any fragment.
//   - An absolute path is used as-is (with its own optional #fragment).
//   - A relative path is joined against the directory of current's base path.
func ResolveRef(current DocumentRef, raw string) DocumentRef {
	if strings.HasPrefix(raw, "#") {
		return current.WithFragment(strings.TrimPrefix(raw, "#"))
	}

	target := ParseRef(raw)
	if filepath.IsAbs(target.BasePath) {
		return target
	}
	dir := filepath.Dir(current.BasePath)
	target.BasePath = filepath.Clean(filepath.Join(dir, target.BasePath))
	return target
}
