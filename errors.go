// Package svgform fills designer-authored SVG templates with structured data
// and recovers text geometry from existing SVG documents.
//
// The root package holds the error taxonomy shared by all subpackages. The
// actual functionality lives in svgdom (document tree), geom (transforms),
// binding (value resolution), paginate (row chunking), textfit (text fitting
// and layout), format (value formatters), extract (text geometry recovery)
// and render (page assembly).
package svgform

import (
	"errors"
	"fmt"
)

// Sentinel errors for common template processing failure conditions.
var (
	ErrNoMetaSource    = errors.New(`svgform: mandatory "meta" data source is missing`)
	ErrNoFirstPage     = errors.New("svgform: template defines no first page")
	ErrRowsPerPage     = errors.New("svgform: rows_per_page must be positive")
	ErrNoRowTemplate   = errors.New("svgform: row template element not found")
	ErrNoBaseDocument  = errors.New("svgform: no base document available for page")
	ErrElementNotFound = errors.New("svgform: bound element not found in document")
)

// Error represents an error that occurred in a specific subsystem during
// template processing. Scope identifies the subsystem ("table", "svg",
// "template", "data"), Detail carries optional context such as an element id.
type Error struct {
	Op     string // operation name, e.g. "Render", "Split"
	Scope  string // subsystem tag
	Detail string // optional detail, e.g. element or source id
	Err    error  // underlying error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("svgform.%s [%s]", e.Op, e.Scope)
	if e.Detail != "" {
		msg += " " + e.Detail
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg + ": unknown error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap creates a new Error carrying operation, subsystem and detail context.
func Wrap(op, scope, detail string, err error) *Error {
	return &Error{Op: op, Scope: scope, Detail: detail, Err: err}
}

// ConfigError marks a structural template misconfiguration. Fatal: the
// render cannot proceed.
func ConfigError(op, detail string, err error) *Error {
	return Wrap(op, "template", detail, err)
}

// DataError marks missing or malformed input data. Fatal.
func DataError(op, detail string, err error) *Error {
	return Wrap(op, "data", detail, err)
}

// BindingError marks a single bound element that could not be found.
// Recoverable: the binding is skipped and the page still completes.
func BindingError(op, id string) *Error {
	return Wrap(op, "svg", id, ErrElementNotFound)
}

// IsFatal reports whether err should abort an entire render. Missing bound
// elements are recoverable (the one binding is skipped and the page still
// completes); structural misconfiguration and missing mandatory data are not.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrElementNotFound)
}
