// Package textfit decides and performs text placement for bound values:
// literal placement, shrink-to-fit, or multi-line wrapping with an optional
// line cap.
//
// Width estimation is a fixed per-character weight table, not true font
// metrics. The same table backs both shrink decisions here and the
// extractor's previews so the two subsystems agree on one document.
package textfit

import (
	"golang.org/x/text/width"
)

// Per-character weights in em units at font size 1.
const (
	wideWeight    = 1.0 // CJK and other full-width ranges
	letterWeight  = 0.6 // Latin letters and digits
	defaultWeight = 0.5 // everything else, including spaces and punctuation
)

// RuneWidth returns the estimated advance of r at font size 1.
func RuneWidth(r rune) float64 {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return wideWeight
	}
	switch {
	case r >= '0' && r <= '9':
		return letterWeight
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return letterWeight
	}
	return defaultWeight
}

// EstimateWidth returns the estimated rendered width of s at fontSize.
func EstimateWidth(s string, fontSize float64) float64 {
	var w float64
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w * fontSize
}
