package svgdom

import (
	"strconv"
	"strings"
)

// StyleRules extracts per-class font sizes from the document's <style>
// blocks. Only class selectors and the font-size property are recognized;
// everything else is ignored. This is deliberately not a CSS engine.
func StyleRules(d *Document) map[string]float64 {
	rules := make(map[string]float64)
	for _, sheet := range d.StyleSheets() {
		parseSheet(sheet, rules)
	}
	return rules
}

func parseSheet(sheet string, rules map[string]float64) {
	for _, block := range strings.Split(sheet, "}") {
		open := strings.Index(block, "{")
		if open < 0 {
			continue
		}
		selectors, body := block[:open], block[open+1:]
		size, ok := declValue(body, "font-size")
		if !ok {
			continue
		}
		for _, sel := range strings.Split(selectors, ",") {
			sel = strings.TrimSpace(sel)
			if strings.HasPrefix(sel, ".") {
				rules[sel[1:]] = size
			}
		}
	}
}

// declValue finds a property in a declaration body and parses its length.
func declValue(body, prop string) (float64, bool) {
	for _, decl := range strings.Split(body, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found || strings.TrimSpace(name) != prop {
			continue
		}
		return ParseLength(strings.TrimSpace(value))
	}
	return 0, false
}

// ParseLength parses a numeric length, tolerating a trailing unit suffix
// such as "px" or "pt".
func ParseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := len(s)
	for end > 0 {
		c := s[end-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		end--
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FontSize resolves an element's font size: inline attribute first, then an
// inline style declaration, then a class rule from the document's <style>
// blocks. Returns 0 when unresolved.
func FontSize(n *Node, rules map[string]float64) float64 {
	if v, ok := ParseLength(n.Attr("font-size")); ok {
		return v
	}
	if style := n.Attr("style"); style != "" {
		if v, ok := declValue(style, "font-size"); ok {
			return v
		}
	}
	for _, class := range strings.Fields(n.Attr("class")) {
		if v, ok := rules[class]; ok {
			return v
		}
	}
	return 0
}
