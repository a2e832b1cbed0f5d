// Package extract reconstructs logical text elements from an SVG document.
//
// Documents authored by hand carry real <text> nodes and the extractor simply
// reports them with absolute positions, resolved font sizes and identifier
// suggestions. Documents converted from a fixed-layout source often contain
// no text at all, only individually positioned glyph references; for those
// the extractor falls back to a clustering heuristic that groups glyphs into
// lines and runs and emits synthetic elements with geometry but no content.
package extract

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lvillar/svgform/observe"
	"github.com/lvillar/svgform/svgdom"
	"github.com/lvillar/svgform/textfit"
)

// BBox is an estimated axis-aligned bounding box in document units.
type BBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is one recovered text candidate.
type Element struct {
	// Index is the 1-based position in reading order (top to bottom,
	// left to right), assigned after the final sort.
	Index int `json:"index"`
	// ID is the element's own id attribute, empty when absent.
	ID string `json:"id,omitempty"`
	// Content is the trimmed text content. Synthetic glyph-run elements
	// carry no content; only their geometry is recoverable.
	Content string `json:"content"`
	// X, Y are absolute document coordinates after transform composition.
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// DOMIndex is the element's position in document pre-order.
	DOMIndex    int     `json:"domIndex"`
	Anchor      string  `json:"anchor,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	SuggestedID string  `json:"suggestedId"`
	// Synthetic marks elements reconstructed from glyph references.
	Synthetic bool `json:"synthetic,omitempty"`
	BBox      BBox `json:"bbox"`
}

// Stats summarizes an extraction pass.
type Stats struct {
	Total        int     `json:"total"`
	WithID       int     `json:"withId"`
	WithoutID    int     `json:"withoutId"`
	GlyphCount   int     `json:"glyphCount,omitempty"`
	SegmentCount int     `json:"segmentCount,omitempty"`
	PathAsText   bool    `json:"pathAsText,omitempty"`
	AvgFontSize  float64 `json:"avgFontSize,omitempty"`
}

// Result is the extractor output: elements in reading order plus statistics
// and human-readable warnings.
type Result struct {
	Elements []Element `json:"elements"`
	Stats    Stats     `json:"stats"`
	Warnings []string  `json:"warnings,omitempty"`
}

// Option configures an extraction pass.
type Option func(*config)

type config struct {
	profile Profile
	log     observe.Logger
}

// WithProfile selects the glyph clustering profile. The default is Balanced.
func WithProfile(p Profile) Option {
	return func(c *config) { c.profile = p }
}

// WithLogger routes extraction diagnostics to log.
func WithLogger(log observe.Logger) Option {
	return func(c *config) { c.log = log }
}

// pathAsTextThreshold is the path count above which a document with no text
// nodes is suspected of carrying outlined (path-converted) text.
const pathAsTextThreshold = 20

// Extract walks doc and returns every recovered text candidate in reading
// order. When the document has native text nodes they are reported directly;
// otherwise glyph references are clustered into synthetic elements.
func Extract(doc *svgdom.Document, opts ...Option) *Result {
	cfg := config{profile: Balanced, log: observe.NopLogger{}}
	for _, o := range opts {
		o(&cfg)
	}

	res := &Result{}
	rules := svgdom.StyleRules(doc)

	var paths int
	nodes := doc.Root.Descendants()
	for i, n := range nodes {
		switch n.Tag {
		case "path":
			paths++
		case "text":
			res.Elements = append(res.Elements, nativeElement(n, i, rules))
		}
	}

	if len(res.Elements) == 0 {
		glyphs := collectGlyphs(nodes)
		res.Stats.GlyphCount = len(glyphs)
		if len(glyphs) > 0 {
			res.Elements = clusterGlyphs(glyphs, cfg.profile)
			res.Stats.SegmentCount = len(res.Elements)
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"no text nodes found, %d glyphs grouped into %d segments",
				len(glyphs), len(res.Elements)))
			cfg.log.Info("glyph fallback engaged",
				observe.Int("glyphs", len(glyphs)),
				observe.Int(observe.MetricGlyphSegments, len(res.Elements)))
		} else if paths > pathAsTextThreshold {
			res.Stats.PathAsText = true
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"no text nodes found and %d path elements present; text may have been converted to outlines", paths))
		}
	}

	finalize(res)
	cfg.log.Debug("extraction complete",
		observe.Int(observe.MetricTextElements, len(res.Elements)))
	return res
}

// nativeElement builds a candidate from a real <text> node.
func nativeElement(n *svgdom.Node, domIndex int, rules map[string]float64) Element {
	lx := parseCoord(n.Attr("x"))
	ly := parseCoord(n.Attr("y"))
	ax, ay := n.AbsolutePoint(lx, ly)

	content := strings.TrimSpace(n.Text())
	size := svgdom.FontSize(n, rules)

	el := Element{
		ID:       n.Attr("id"),
		Content:  content,
		X:        ax,
		Y:        ay,
		DOMIndex: domIndex,
		Anchor:   n.Attr("text-anchor"),
		FontSize: size,
	}
	el.SuggestedID = suggestIdentifier(content, ax, ay)
	el.BBox = nativeBBox(el)
	return el
}

// nativeBBox estimates the box a text node occupies. Width estimation reuses
// the per-character weight table shared with the fitting engine; the baseline
// sits at Y so the box extends one font size upward.
func nativeBBox(el Element) BBox {
	size := el.FontSize
	if size <= 0 {
		size = 12
	}
	w := textfit.EstimateWidth(el.Content, size)
	if w < size {
		w = size
	}
	return BBox{X: el.X, Y: el.Y - size, Width: w, Height: size * 1.2}
}

func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// rowTolerance collapses elements whose Y differs by no more than this many
// units into one visual row for the final ordering.
const rowTolerance = 5.0

// finalize sorts elements top to bottom (rows collapsed within tolerance)
// and left to right, assigns 1-based indices and fills the summary stats.
func finalize(res *Result) {
	els := res.Elements
	sort.SliceStable(els, func(i, j int) bool { return els[i].Y < els[j].Y })

	// Elements are Y-sorted, so each row is a contiguous range; sort every
	// range by X independently.
	for start := 0; start < len(els); {
		end := start + 1
		for end < len(els) && els[end].Y-els[start].Y <= rowTolerance {
			end++
		}
		sort.SliceStable(els[start:end], func(i, j int) bool {
			return els[start+i].X < els[start+j].X
		})
		start = end
	}

	seen := map[string]bool{}
	var sizeSum float64
	var sized int
	for i := range els {
		els[i].Index = i + 1
		if id := els[i].ID; id != "" {
			res.Stats.WithID++
			if seen[id] {
				res.Warnings = append(res.Warnings, fmt.Sprintf("duplicate identifier %q", id))
			}
			seen[id] = true
		} else {
			res.Stats.WithoutID++
		}
		if els[i].FontSize > 0 {
			sizeSum += els[i].FontSize
			sized++
		}
	}
	res.Stats.Total = len(els)
	if sized > 0 {
		res.Stats.AvgFontSize = sizeSum / float64(sized)
	}
}
