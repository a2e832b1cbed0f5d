package render

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	svgform "github.com/lvillar/svgform"
	"github.com/lvillar/svgform/binding"
	"github.com/lvillar/svgform/format"
	"github.com/lvillar/svgform/observe"
	"github.com/lvillar/svgform/paginate"
	"github.com/lvillar/svgform/svgdom"
	"github.com/lvillar/svgform/textfit"
)

// Renderer fills templates against a fixed set of base documents. Base
// documents are parsed once and cloned per output page; a Renderer is safe
// to reuse across renders but not for concurrent use.
type Renderer struct {
	raw    map[string][]byte
	parsed map[string]*svgdom.Document
	log    observe.Logger
	fmts   *format.Registry
	jobID  string
}

// RenderedPage is one finished output page.
type RenderedPage struct {
	PageNumber int    `json:"pageNumber"`
	Kind       string `json:"kind"`
	SVG        []byte `json:"svg"`
}

// Result is the output of one render.
type Result struct {
	Pages           []RenderedPage `json:"pages"`
	TotalPages      int            `json:"totalPages"`
	TemplateID      string         `json:"templateId"`
	TemplateVersion string         `json:"templateVersion,omitempty"`
	JobID           string         `json:"jobId,omitempty"`
}

// NewRenderer builds a renderer over the named base documents.
func NewRenderer(docs map[string][]byte, opts ...Option) *Renderer {
	r := &Renderer{
		raw:    docs,
		parsed: make(map[string]*svgdom.Document, len(docs)),
		log:    observe.NopLogger{},
	}
	for _, o := range opts {
		o(r)
	}
	if r.fmts == nil {
		r.fmts = format.NewRegistry()
		r.fmts.SetEngine(format.NewGojaEngine())
	}
	return r
}

// base returns a fresh clone of the named base document.
func (r *Renderer) base(name string) (*svgdom.Document, error) {
	if doc, ok := r.parsed[name]; ok {
		return doc.Clone(), nil
	}
	raw, ok := r.raw[name]
	if !ok {
		return nil, svgform.ConfigError("Render", name, svgform.ErrNoBaseDocument)
	}
	doc, err := svgdom.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("render: parsing base document %q: %w", name, err)
	}
	r.parsed[name] = doc
	return doc.Clone(), nil
}

// Render produces one finished SVG per output page. The meta source is
// mandatory; a missing bound element is logged and skipped, every other
// failure aborts the render.
func (r *Renderer) Render(ctx context.Context, tpl *Template, src *binding.Sources) (*Result, error) {
	started := time.Now()
	if _, ok := src.Meta(); !ok {
		return nil, svgform.DataError("Render", tpl.ID, svgform.ErrNoMetaSource)
	}
	if len(tpl.Pages) == 0 {
		return nil, svgform.ConfigError("Render", tpl.ID, svgform.ErrNoFirstPage)
	}

	first := tpl.firstPage()
	repeat := tpl.repeatPage()

	totalPages, err := paginate.TotalPages(src, tableRefs(first))
	if err != nil {
		return nil, err
	}
	plan, err := paginate.BuildPlan(src, tableRefs(first), tableRefs(repeat), repeat != nil, totalPages)
	if err != nil {
		return nil, err
	}

	res := &Result{
		TotalPages:      totalPages,
		TemplateID:      tpl.ID,
		TemplateVersion: tpl.Version,
		JobID:           r.jobID,
	}
	skipped := 0
	for _, info := range plan {
		layout := first
		if info.Kind == paginate.Repeat && repeat != nil {
			layout = repeat
		}
		page, n, err := r.renderPage(ctx, tpl, layout, info, totalPages, src)
		if err != nil {
			return nil, err
		}
		skipped += n
		res.Pages = append(res.Pages, page)
	}

	r.log.Info("render complete",
		observe.String("template", tpl.ID),
		observe.Int(observe.MetricPageCount, len(res.Pages)),
		observe.Int(observe.MetricSkippedBinds, skipped),
		observe.Float64(observe.MetricRenderTime, time.Since(started).Seconds()))
	return res, nil
}

// renderPage assembles one output page and reports how many bindings it had
// to skip.
func (r *Renderer) renderPage(ctx context.Context, tpl *Template, layout *Page, info paginate.PageInfo, totalPages int, src *binding.Sources) (RenderedPage, int, error) {
	doc, err := r.base(layout.Doc)
	if err != nil {
		return RenderedPage{}, 0, err
	}
	rules := svgdom.StyleRules(doc)

	skipped := 0
	apply := func(f Field, value string) {
		if !r.applyField(ctx, tpl, doc.Root, f, value, rules) {
			skipped++
		}
	}

	for _, f := range tpl.Fields {
		apply(f, src.Resolve(f.Binding, nil, ""))
	}
	for _, f := range layout.Fields {
		apply(f, src.Resolve(f.Binding, nil, ""))
	}

	for _, tb := range layout.Tables {
		chunk, ok := info.Chunks[tb.Source]
		if !ok {
			continue
		}
		n, err := r.instantiateRows(ctx, tpl, doc, tb, chunk, src, rules)
		if err != nil {
			return RenderedPage{}, 0, err
		}
		skipped += n
	}

	if pn := layout.PageNumber; pn != nil {
		text := pn.Format
		if text == "" {
			text = "{current} / {total}"
		}
		text = strings.ReplaceAll(text, "{current}", strconv.Itoa(info.PageNumber))
		text = strings.ReplaceAll(text, "{total}", strconv.Itoa(totalPages))
		if el := doc.ByID(pn.SVGID); el != nil {
			el.SetText(text)
		} else {
			r.warnMissing("pageNumber", pn.SVGID)
			skipped++
		}
	}

	return RenderedPage{
		PageNumber: info.PageNumber,
		Kind:       info.Kind.String(),
		SVG:        doc.Serialize(),
	}, skipped, nil
}

// applyField writes one resolved value into the element named by f, scoped
// to scope's subtree. It reports false when the element is missing.
func (r *Renderer) applyField(ctx context.Context, tpl *Template, scope *svgdom.Node, f Field, value string, rules map[string]float64) bool {
	el := scope.FindByID(f.SVGID)
	if el == nil {
		r.warnMissing("field", f.SVGID)
		return false
	}

	spec := resolveFormat(tpl, f.Format)
	if format.IsBarcode(spec) {
		w, h := f.Width, f.Height
		if w <= 0 {
			w = 100
		}
		if h <= 0 {
			h = 30
		}
		group, err := format.BarcodeGroup(spec, value, w, h)
		if err != nil {
			r.log.Warn("barcode generation failed",
				observe.String("svg_id", f.SVGID), observe.Error("error", err))
			return true
		}
		el.ClearChildren()
		el.AppendChild(group)
		return true
	}

	formatted, err := r.fmts.Apply(ctx, spec, value)
	if err != nil {
		r.log.Warn("formatter failed",
			observe.String("svg_id", f.SVGID),
			observe.String("format", spec),
			observe.Error("error", err))
	}

	opts := textfit.Options{
		Fit:      f.Fit,
		Align:    f.Align,
		MaxWidth: f.MaxWidth,
		MaxLines: f.MaxLines,
	}
	if f.LabelID != "" && opts.MaxWidth <= 0 {
		if label := scope.FindByID(f.LabelID); label != nil {
			size := svgdom.FontSize(label, rules)
			if size <= 0 {
				size = 12
			}
			opts.LabelWidth = textfit.EstimateWidth(strings.TrimSpace(label.Text()), size)
		}
	}
	textfit.Apply(el, formatted, opts, rules)
	return true
}

// resolveFormat maps template-defined formatter names onto inline script
// specs; anything else passes through to the registry untouched.
func resolveFormat(tpl *Template, spec string) string {
	if expr, ok := tpl.Formatters[spec]; ok {
		if strings.HasPrefix(expr, format.ScriptPrefix) {
			return expr
		}
		return format.ScriptPrefix + expr
	}
	return spec
}

func (r *Renderer) warnMissing(kind, id string) {
	err := svgform.BindingError("Render", id)
	r.log.Warn("bound element missing, skipping",
		observe.String("kind", kind),
		observe.String("svg_id", id),
		observe.Error("error", err))
}

// tableRefs extracts the pagination references of a layout; nil-safe.
func tableRefs(p *Page) []paginate.TableRef {
	if p == nil {
		return nil
	}
	refs := make([]paginate.TableRef, 0, len(p.Tables))
	for _, tb := range p.Tables {
		refs = append(refs, paginate.TableRef{Source: tb.Source, RowsPerPage: tb.RowsPerPage})
	}
	return refs
}
