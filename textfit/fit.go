package textfit

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lvillar/svgform/svgdom"
)

// Fit modes. An empty mode places the value literally unless a width
// constraint forces shrinking.
const (
	FitShrink = "shrink"
	FitWrap   = "wrap"
)

// Alignments map onto SVG text-anchor values.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

const (
	defaultFontSize = 12.0
	minFontSize     = 4.0
	lineSpacing     = 1.2
)

// Options carries the layout hints for one binding application.
type Options struct {
	Fit        string  // "", FitShrink or FitWrap
	Align      string  // "", AlignLeft, AlignCenter or AlignRight
	MaxWidth   float64 // explicit width hint in document units; 0 = none
	MaxLines   int     // line-count cap; 0 = unconstrained
	LabelWidth float64 // measured width of a paired label element; 0 = none
}

// Apply writes value into el according to the layout hints. rules carries
// the document's class font-size rules for size resolution.
func Apply(el *svgdom.Node, value string, opts Options, rules map[string]float64) {
	if anchor := anchorFor(opts.Align); anchor != "" {
		el.SetAttr("text-anchor", anchor)
	}

	maxWidth := opts.MaxWidth
	if maxWidth <= 0 && opts.LabelWidth > 0 {
		maxWidth = opts.LabelWidth
	}

	fontSize := svgdom.FontSize(el, rules)
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}

	if opts.Fit == FitWrap || strings.Contains(value, "\n") || opts.MaxLines > 1 {
		applyWrap(el, value, fontSize, maxWidth, opts.MaxLines)
		return
	}

	el.SetText(value)
	if opts.Fit == FitShrink || opts.MaxLines == 1 || maxWidth > 0 {
		applyShrink(el, value, fontSize, maxWidth)
	}
}

func anchorFor(align string) string {
	switch align {
	case AlignLeft:
		return "start"
	case AlignCenter:
		return "middle"
	case AlignRight:
		return "end"
	}
	return ""
}

// applyWrap splits on explicit breaks, wraps each line to maxWidth when one
// is known, and renders the lines as vertically offset tspans. Lines past
// the cap are truncated without reflow.
func applyWrap(el *svgdom.Node, value string, fontSize, maxWidth float64, maxLines int) {
	var lines []string
	for _, part := range strings.Split(value, "\n") {
		if maxWidth > 0 {
			lines = append(lines, wrapLine(part, fontSize, maxWidth)...)
		} else {
			lines = append(lines, part)
		}
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	x := el.Attr("x")
	lineHeight := fontSize * lineSpacing
	el.ClearChildren()
	for i, line := range lines {
		span := &svgdom.Node{Tag: "tspan"}
		if x != "" {
			span.SetAttr("x", x)
		}
		if i == 0 {
			span.SetAttr("dy", "0")
		} else {
			span.SetAttr("dy", formatNumber(lineHeight))
		}
		span.SetText(line)
		el.AppendChild(span)
	}
}

// wrapLine greedily wraps one logical line so every visual line's estimated
// width stays within maxWidth. Lines without spaces (scripts that do not
// separate words) wrap at character boundaries instead.
func wrapLine(line string, fontSize, maxWidth float64) []string {
	if line == "" {
		return []string{""}
	}
	if EstimateWidth(line, fontSize) <= maxWidth {
		return []string{line}
	}
	if !strings.Contains(line, " ") {
		return wrapRunes(line, fontSize, maxWidth)
	}

	var out []string
	var cur string
	for _, word := range strings.Fields(line) {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if cur != "" && EstimateWidth(candidate, fontSize) > maxWidth {
			out = append(out, cur)
			cur = word
			continue
		}
		cur = candidate
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

func wrapRunes(line string, fontSize, maxWidth float64) []string {
	var out []string
	var cur strings.Builder
	var curWidth float64
	for _, r := range line {
		rw := RuneWidth(r) * fontSize
		if cur.Len() > 0 && curWidth+rw > maxWidth {
			out = append(out, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteRune(r)
		curWidth += rw
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// applyShrink reduces the element's font size so the value fits maxWidth.
// Size is only ever reduced, never enlarged. Without a known width a coarse
// fallback shrinks conspicuously long strings.
func applyShrink(el *svgdom.Node, value string, fontSize, maxWidth float64) {
	if maxWidth > 0 {
		unit := EstimateWidth(value, 1)
		if unit <= 0 {
			return
		}
		required := maxWidth / unit
		if required >= fontSize {
			return
		}
		if required < minFontSize {
			required = minFontSize
		}
		el.SetAttr("font-size", formatNumber(required))
		return
	}
	if utf8.RuneCountInString(value) > 20 && fontSize > 8 {
		reduced := fontSize * 0.8
		if reduced < 8 {
			reduced = 8
		}
		el.SetAttr("font-size", formatNumber(reduced))
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
