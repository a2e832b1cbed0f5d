// Package format applies named and inline formatters to resolved values
// before they are placed into the document.
//
// Formatters come in three flavors: built-in named functions, caller
// registered functions, and inline script expressions prefixed with "js:"
// evaluated by a scripting Engine. Unknown formatter names leave the value
// unchanged; formatting is never fatal.
package format

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Func transforms a resolved value.
type Func func(string) string

// Registry holds named formatters and an optional script engine.
type Registry struct {
	funcs  map[string]Func
	engine Engine
}

// NewRegistry returns a registry preloaded with the built-in formatters.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	r.Register("upper", strings.ToUpper)
	r.Register("lower", strings.ToLower)
	r.Register("trim", strings.TrimSpace)
	r.Register("number", formatNumber)
	r.Register("currency", formatCurrency)
	r.Register("date", formatDate)
	return r
}

// Register adds or replaces a named formatter.
func (r *Registry) Register(name string, f Func) {
	r.funcs[name] = f
}

// SetEngine installs the script engine used for "js:" formatter specs.
func (r *Registry) SetEngine(e Engine) {
	r.engine = e
}

// ScriptPrefix marks an inline script formatter spec.
const ScriptPrefix = "js:"

// Apply runs the formatter named by spec on value. An empty spec and an
// unknown name both return the value unchanged; the returned error is
// advisory (the caller may log it) and never carries a changed value.
func (r *Registry) Apply(ctx context.Context, spec, value string) (string, error) {
	if spec == "" {
		return value, nil
	}
	if expr, ok := strings.CutPrefix(spec, ScriptPrefix); ok {
		if r.engine == nil {
			return value, fmt.Errorf("format: script formatter %q without engine", spec)
		}
		out, err := r.engine.Eval(ctx, expr, value)
		if err != nil {
			return value, fmt.Errorf("format: script formatter: %w", err)
		}
		return out, nil
	}
	if f, ok := r.funcs[spec]; ok {
		return f(value), nil
	}
	return value, fmt.Errorf("format: unknown formatter %q", spec)
}

// formatNumber inserts thousands separators into the integer part of a
// decimal string. Values that do not look numeric pass through unchanged.
func formatNumber(s string) string {
	sign := ""
	v := strings.TrimSpace(s)
	if strings.HasPrefix(v, "-") || strings.HasPrefix(v, "+") {
		sign, v = v[:1], v[1:]
	}
	intPart, frac, hasFrac := strings.Cut(v, ".")
	if intPart == "" || !digitsOnly(intPart) || (hasFrac && !digitsOnly(frac)) {
		return s
	}
	var sb strings.Builder
	sb.WriteString(sign)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	if hasFrac {
		sb.WriteByte('.')
		sb.WriteString(frac)
	}
	return sb.String()
}

// formatCurrency normalizes to two decimals before grouping. Values that do
// not look numeric pass through unchanged, like formatNumber.
func formatCurrency(s string) string {
	sign := ""
	v := strings.TrimSpace(s)
	if strings.HasPrefix(v, "-") || strings.HasPrefix(v, "+") {
		sign, v = v[:1], v[1:]
	}
	intPart, frac, hasFrac := strings.Cut(v, ".")
	if !digitsOnly(intPart) || (hasFrac && frac != "" && !digitsOnly(frac)) {
		return s
	}
	switch {
	case len(frac) == 0:
		frac = "00"
	case len(frac) == 1:
		frac += "0"
	case len(frac) > 2:
		frac = frac[:2]
	}
	return formatNumber(sign + intPart + "." + frac)
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

var dateInputLayouts = []string{"2006-01-02", time.RFC3339, "2006/01/02"}

// formatDate re-renders ISO-style dates as day.month.year; anything else
// passes through unchanged.
func formatDate(s string) string {
	v := strings.TrimSpace(s)
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("02.01.2006")
		}
	}
	return s
}
