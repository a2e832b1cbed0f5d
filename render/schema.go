// Package render assembles finished SVG pages from a template, a set of base
// documents and bound data sources.
//
// A template is a declarative JSON document: page layouts referencing base
// SVG files by name, field bindings that place meta values into identified
// elements, and table bindings that clone a designer-drawn row template once
// per data row. Long tables overflow onto repeated pages automatically.
//
// Example JSON:
//
//	{
//	  "id": "invoice",
//	  "version": "3",
//	  "pages": [
//	    {"id": "main", "kind": "first", "doc": "invoice.svg",
//	     "fields": [{"svgId": "customer", "binding": {"source": "meta", "key": "customer"}}],
//	     "tables": [{"source": "items", "rowGroupId": "row-tpl", "rowsPerPage": 12,
//	                 "rowHeightMm": 8,
//	                 "body": [{"svgId": "cell-desc", "binding": {"source": "items", "key": "desc"}}]}]}
//	  ]
//	}
package render

import (
	"encoding/json"
	"fmt"

	"github.com/lvillar/svgform/binding"
)

// Page kinds. A template carries one first page and optionally one repeat
// layout used for overflow pages.
const (
	KindFirst  = "first"
	KindRepeat = "repeat"
)

// Template is the top-level render description.
type Template struct {
	ID      string `json:"id"`
	Version string `json:"version,omitempty"`
	// Fields apply to every page regardless of layout.
	Fields []Field `json:"fields,omitempty"`
	Pages  []Page  `json:"pages"`
	// Formatters maps custom formatter names to inline script expressions
	// registered before rendering.
	Formatters map[string]string `json:"formatters,omitempty"`
}

// Page is one layout: which base document it instantiates and what gets
// bound into it.
type Page struct {
	ID     string         `json:"id"`
	Kind   string         `json:"kind,omitempty"` // first (default) or repeat
	Doc    string         `json:"doc"`            // base document name
	Fields []Field        `json:"fields,omitempty"`
	Tables []TableBinding `json:"tables,omitempty"`
	// PageNumber, when set, writes "page X of Y" style text.
	PageNumber *PageNumber `json:"pageNumber,omitempty"`
}

// Field binds one value into one identified element.
type Field struct {
	SVGID   string          `json:"svgId"`
	Binding binding.Binding `json:"binding"`
	Fit     string          `json:"fit,omitempty"`   // shrink or wrap
	Align   string          `json:"align,omitempty"` // left, center, right
	Format  string          `json:"format,omitempty"`
	// MaxWidth is a width hint in document units; 0 means unconstrained.
	MaxWidth float64 `json:"maxWidth,omitempty"`
	MaxLines int     `json:"maxLines,omitempty"`
	// LabelID names a sibling label element whose rendered width caps this
	// field when MaxWidth is absent.
	LabelID string `json:"labelId,omitempty"`
	// Width and Height size generated barcode groups.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Cell is a per-row field inside a table row template.
type Cell = Field

// TableBinding clones a row template once per data row of a tabular source.
type TableBinding struct {
	Source     string `json:"source"`
	RowGroupID string `json:"rowGroupId"`
	// RowHeightMM is the vertical advance between cloned rows.
	RowHeightMM float64 `json:"rowHeightMm"`
	RowsPerPage int     `json:"rowsPerPage"`
	// StartYMM anchors the first row; 0 keeps the row template's own offset.
	StartYMM float64 `json:"startYMm,omitempty"`
	Header   []Cell  `json:"header,omitempty"`
	Body     []Cell  `json:"body"`
}

// PageNumber places the current/total page counter.
type PageNumber struct {
	SVGID string `json:"svgId"`
	// Format uses {current} and {total} placeholders;
	// empty means "{current} / {total}".
	Format string `json:"format,omitempty"`
}

// ParseTemplate decodes a JSON template.
func ParseTemplate(data []byte) (*Template, error) {
	var tpl Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("render: parsing template: %w", err)
	}
	if len(tpl.Pages) == 0 {
		return nil, fmt.Errorf("render: template %q has no pages", tpl.ID)
	}
	return &tpl, nil
}

// firstPage returns the first-kind page, defaulting to the first listed.
func (t *Template) firstPage() *Page {
	for i := range t.Pages {
		if t.Pages[i].Kind == "" || t.Pages[i].Kind == KindFirst {
			return &t.Pages[i]
		}
	}
	return &t.Pages[0]
}

// repeatPage returns the repeat layout, or nil when the template has none.
func (t *Template) repeatPage() *Page {
	for i := range t.Pages {
		if t.Pages[i].Kind == KindRepeat {
			return &t.Pages[i]
		}
	}
	return nil
}
