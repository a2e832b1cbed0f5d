package render

import (
	"context"
	"fmt"
	"math"
	"strconv"

	svgform "github.com/lvillar/svgform"
	"github.com/lvillar/svgform/binding"
	"github.com/lvillar/svgform/geom"
	"github.com/lvillar/svgform/observe"
	"github.com/lvillar/svgform/paginate"
	"github.com/lvillar/svgform/svgdom"
)

// RowMarkerAttr tags instantiated rows with their absolute 0-based row index
// so repeated fills replace earlier instances instead of stacking.
const RowMarkerAttr = "data-svgform-row"

// instantiateRows clones the table's designer-drawn row template once per
// chunk row, repositions each clone vertically and fills its cells. It
// reports how many cell bindings were skipped.
func (r *Renderer) instantiateRows(ctx context.Context, tpl *Template, doc *svgdom.Document, tb TableBinding, chunk paginate.Chunk, src *binding.Sources, rules map[string]float64) (int, error) {
	rowTpl := doc.ByID(tb.RowGroupID)
	if rowTpl == nil {
		return 0, svgform.Wrap("instantiateRows", "table", tb.RowGroupID, svgform.ErrNoRowTemplate)
	}
	parent := rowTpl.Parent
	if parent == nil {
		return 0, svgform.Wrap("instantiateRows", "table", tb.RowGroupID+" has no parent", svgform.ErrNoRowTemplate)
	}

	for _, old := range markedRows(parent) {
		parent.RemoveChild(old)
	}

	// The template's own translate supplies the horizontal offset and, when
	// StartYMM is absent, the vertical baseline. Without a transform the
	// offset is synthesized from the x/y attributes instead; those must then
	// come off each clone or the offset would apply twice.
	m := geom.ParseTransform(rowTpl.Attr("transform"))
	baseX, baseY := m.E, m.F
	fromXY := rowTpl.Attr("transform") == ""
	if fromXY {
		baseX = parseFloatAttr(rowTpl, "x")
		baseY = parseFloatAttr(rowTpl, "y")
	}
	if tb.StartYMM > 0 {
		baseY = geom.MMToUnits(tb.StartYMM)
	}
	advance := geom.MMToUnits(tb.RowHeightMM)

	skipped := 0
	for _, cell := range tb.Header {
		if !r.applyField(ctx, tpl, doc.Root, cell, src.Resolve(cell.Binding, nil, ""), rules) {
			skipped++
		}
	}

	for i, row := range chunk.Rows {
		clone := rowTpl.Clone()
		clone.RemoveAttr("id")
		clone.RemoveAttr("display")
		if fromXY {
			clone.RemoveAttr("x")
			clone.RemoveAttr("y")
		}
		clone.SetAttr(RowMarkerAttr, strconv.Itoa(chunk.StartIndex+i))
		clone.SetAttr("transform", fmt.Sprintf("translate(%s,%s)",
			trimFloat(baseX), trimFloat(baseY+float64(i)*advance)))

		for _, cell := range tb.Body {
			value := src.Resolve(cell.Binding, row, tb.Source)
			if !r.applyField(ctx, tpl, clone, cell, value, rules) {
				skipped++
			}
		}

		stripIDs(clone)
		parent.AppendChild(clone)
	}

	// Hide the template itself so only instantiated rows show.
	rowTpl.SetAttr("display", "none")

	r.log.Debug("rows instantiated",
		observe.String("source", tb.Source),
		observe.Int(observe.MetricRowCount, len(chunk.Rows)),
		observe.Int("start_index", chunk.StartIndex))
	return skipped, nil
}

// markedRows returns the direct children carrying the row marker.
func markedRows(parent *svgdom.Node) []*svgdom.Node {
	var out []*svgdom.Node
	for _, c := range parent.Children {
		if c.HasAttr(RowMarkerAttr) {
			out = append(out, c)
		}
	}
	return out
}

// stripIDs removes id attributes from an instantiated row subtree; cloned
// cell ids would otherwise collide across rows.
func stripIDs(n *svgdom.Node) {
	n.RemoveAttr("id")
	for _, c := range n.Children {
		stripIDs(c)
	}
}

func parseFloatAttr(n *svgdom.Node, name string) float64 {
	v, err := strconv.ParseFloat(n.Attr(name), 64)
	if err != nil {
		return 0
	}
	return v
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
