// Package model holds types shared between the rewriter, its CLI, and its
// optional diagnostics HTTP service.
package model

import "fmt"

// The following are the rewriter's own structured error kinds (see the
// error handling section of the design notes). Each implements error so
// callers can use errors.As to branch on kind, rather than matching on a
// formatted message.

// UnterminatedExpressionError reports that the scanner reached end of input
// with an open bracket, quote, or brace.
type UnterminatedExpressionError struct {
	Position int
	Text     string
}

func (e *UnterminatedExpressionError) Error() string {
	return fmt.Sprintf("unterminated expression at position %d: %s", e.Position, e.Text)
}

// ParseErrorKind reports that a YAML document failed to load.
type ParseErrorKind struct {
	Path   string
	Detail string
}

func (e *ParseErrorKind) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Detail)
}

// DocumentNotFoundError reports that the loader could not find the document
// at the given path.
type DocumentNotFoundError struct {
	Path string
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document not found: %s", e.Path)
}

// FragmentMissingError reports that a $graph document has no entry whose id
// matches the requested fragment.
type FragmentMissingError struct {
	Path string
	ID   string
}

func (e *FragmentMissingError) Error() string {
	return fmt.Sprintf("fragment %q not found in %s", e.ID, e.Path)
}

// PathEscapeError reports that the emitter refused to write outside its
// declared base directory.
type PathEscapeError struct {
	Path string
	Base string
}

func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("refusing to write %s: outside base directory %s", e.Path, e.Base)
}

// NameCollisionError reports that a reserved identifier the rewriter needs
// to synthesize already exists in the source document.
type NameCollisionError struct {
	Name    string
	Context string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("reserved name %q already present in %s", e.Name, e.Context)
}

// UnsupportedStepClassError reports that a step's run target is neither
// Workflow, CommandLineTool, nor ExpressionTool.
type UnsupportedStepClassError struct {
	Name  string
	Class string
}

func (e *UnsupportedStepClassError) Error() string {
	return fmt.Sprintf("step %q: unsupported class %q", e.Name, e.Class)
}

// UnsupportedBindingError reports a step shape the rewriter does not
// handle (e.g. a step whose run is not a path reference).
type UnsupportedBindingError struct {
	Detail string
}

func (e *UnsupportedBindingError) Error() string {
	return fmt.Sprintf("unsupported binding: %s", e.Detail)
}

// CycleDetectedError reports that a document graph references itself
// transitively through "run" targets, which CWL does not permit.
type CycleDetectedError struct {
	Path string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("cycle detected while resolving %s", e.Path)
}
