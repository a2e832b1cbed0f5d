// Package observe provides logging hooks for the template pipeline.
//
// The core never writes to stderr on its own; callers supply a Logger (or
// accept NopLogger) and route warnings about skipped bindings, glyph
// clustering fallbacks and render progress wherever they want.
package observe

// Logger receives structured log events from the render and extract pipelines.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is a typed key/value pair attached to a log event.
type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field        { return stringField{key, value} }
func Int(key string, value int) Field       { return intField{key, value} }
func Float64(key string, value float64) Field { return float64Field{key, value} }
func Error(key string, err error) Field     { return errorField{key, err} }

// NopLogger discards all events.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// Standard metric names emitted by the library.
const (
	MetricRenderTime    = "svgform.render.duration"
	MetricPageCount     = "svgform.pages.count"
	MetricRowCount      = "svgform.rows.count"
	MetricSkippedBinds  = "svgform.bindings.skipped"
	MetricTextElements  = "svgform.extract.elements"
	MetricGlyphSegments = "svgform.extract.segments"
)
