package render

import (
	"github.com/lvillar/svgform/format"
	"github.com/lvillar/svgform/observe"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger routes render diagnostics (skipped bindings, page counts,
// timings) to log.
func WithLogger(log observe.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// WithFormatters replaces the default formatter registry. The default
// registry carries the built-in formatters and a JavaScript engine.
func WithFormatters(reg *format.Registry) Option {
	return func(r *Renderer) { r.fmts = reg }
}

// WithJobID stamps every Result with a caller-supplied correlation id.
func WithJobID(id string) Option {
	return func(r *Renderer) { r.jobID = id }
}
