// Package errors defines the error kinds the engine distinguishes, wrapping an
// underlying cause with enough context (operation, file) for the engine
// and CLI to decide whether to abort or degrade gracefully. Grounded on
// the teacher's internal/errors package: a typed Kind plus an
// Underlying/Unwrap pair, generalized from indexing-specific fields to
// this module's scan/detect/config boundaries.
package errors

import "fmt"

// Kind discriminates the error categories that get different
// propagation policies to.
type Kind string

const (
	KindConfig          Kind = "config"           // malformed YAML, unknown enum, cyclic extends: fatal
	KindPathResolution  Kind = "path_resolution"  // unresolvable target path / empty glob expansion: fatal for the scan
	KindParse           Kind = "parse"            // per-file: file is skipped, warning logged
	KindCacheIO         Kind = "cache_io"         // demoted to warning; analysis proceeds without cache
	KindGit             Kind = "git"              // demoted to "churn unavailable"
	KindCancellation    Kind = "cancellation"     // propagated distinctly so callers can tell it apart from failure
	KindForeignBoundary Kind = "foreign_boundary" // internal error surfaced as a string across the foreign API
)

// Error wraps an underlying cause with a Kind and enough context to log
// or report it.
type Error struct {
	Kind       Kind
	Operation  string
	Path       string
	Underlying error
}

// New creates an Error of kind for operation op, wrapping err.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Operation: op, Underlying: err}
}

// WithPath attaches the file or directory the error concerns.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s failed for %s: %v", e.Kind, e.Operation, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Kind, e.Operation, e.Underlying)
}

// Unwrap lets errors.Is/errors.As see through to the underlying cause.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// Recoverable reports whether the propagation policy handles this
// kind locally (demoted to a warning) rather than propagating it to the
// top-level caller.
func (e *Error) Recoverable() bool {
	switch e.Kind {
	case KindParse, KindCacheIO, KindGit:
		return true
	default:
		return false
	}
}

// Cancelled is a sentinel the engine returns from a cooperatively
// cancelled scan, propagated as a distinct error rather than a warning.
var Cancelled = &Error{Kind: KindCancellation, Operation: "scan", Underlying: fmt.Errorf("scan cancelled")}
