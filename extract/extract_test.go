package extract_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lvillar/svgform/extract"
	"github.com/lvillar/svgform/svgdom"
)

func parse(t *testing.T, markup string) *svgdom.Document {
	t.Helper()
	doc, err := svgdom.Parse([]byte(markup))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestNativeTextElements(t *testing.T) {
	doc := parse(t, `<svg>
		<style>.label { font-size: 9px; }</style>
		<g transform="translate(10,20)">
			<text id="who" x="5" y="7" font-size="14" text-anchor="middle">Customer Name</text>
		</g>
		<text class="label" x="5" y="100">1. Invoice Number</text>
	</svg>`)

	res := extract.Extract(doc)
	if len(res.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(res.Elements))
	}

	first := res.Elements[0]
	if first.ID != "who" || first.Content != "Customer Name" {
		t.Fatalf("unexpected first element: %+v", first)
	}
	if first.X != 15 || first.Y != 27 {
		t.Fatalf("absolute position = (%v,%v), want (15,27)", first.X, first.Y)
	}
	if first.FontSize != 14 || first.Anchor != "middle" {
		t.Fatalf("font/anchor: %+v", first)
	}
	if first.SuggestedID != "customer_name" {
		t.Fatalf("suggested id %q", first.SuggestedID)
	}
	if first.Index != 1 || res.Elements[1].Index != 2 {
		t.Fatal("indices must be 1-based in final order")
	}

	second := res.Elements[1]
	if second.FontSize != 9 {
		t.Fatalf("class rule font size = %v, want 9", second.FontSize)
	}
	if second.SuggestedID != "invoice_number" {
		t.Fatalf("enumerator not stripped: %q", second.SuggestedID)
	}

	if res.Stats.WithID != 1 || res.Stats.WithoutID != 1 {
		t.Fatalf("stats: %+v", res.Stats)
	}
}

func TestReadingOrderCollapsesRows(t *testing.T) {
	// Same visual row (Y within 5 units) must sort by X despite Y jitter.
	doc := parse(t, `<svg>
		<text x="200" y="50">right</text>
		<text x="10" y="52">left</text>
		<text x="10" y="90">below</text>
	</svg>`)
	res := extract.Extract(doc)
	var got []string
	for _, el := range res.Elements {
		got = append(got, el.Content)
	}
	want := "left,right,below"
	if strings.Join(got, ",") != want {
		t.Fatalf("order %v, want %s", got, want)
	}
}

func TestDuplicateIdentifierWarning(t *testing.T) {
	doc := parse(t, `<svg>
		<text id="dup" x="0" y="10">a</text>
		<text id="dup" x="0" y="30">b</text>
	</svg>`)
	res := extract.Extract(doc)
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "duplicate identifier") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no duplicate warning in %v", res.Warnings)
	}
}

func glyphDoc(withIDs bool) string {
	var sb strings.Builder
	sb.WriteString(`<svg><g>`)
	emit := func(i int, x, y float64) {
		if withIDs {
			fmt.Fprintf(&sb, `<use id="g%d" href="#glyph-%d" x="%g" y="%g"/>`, i, i, x, y)
		} else {
			fmt.Fprintf(&sb, `<use href="#glyph-%d" x="%g" y="%g"/>`, i, x, y)
		}
	}
	// Two compact runs at pitch 8, separated by a 46-unit gap.
	for i := 0; i < 4; i++ {
		emit(i, 100+float64(i)*8, 50)
	}
	for i := 0; i < 4; i++ {
		emit(4+i, 170+float64(i)*8, 50)
	}
	sb.WriteString(`</g></svg>`)
	return sb.String()
}

func TestGlyphClusteringTwoRuns(t *testing.T) {
	res := extract.Extract(parse(t, glyphDoc(false)))

	if len(res.Elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(res.Elements))
	}
	a, b := res.Elements[0], res.Elements[1]
	if a.X != 100 || a.Y != 50 || b.X != 170 || b.Y != 50 {
		t.Fatalf("runs not anchored at first glyphs: (%v,%v) (%v,%v)", a.X, a.Y, b.X, b.Y)
	}
	for _, el := range res.Elements {
		if !el.Synthetic || el.Content != "" {
			t.Fatalf("synthetic element with content: %+v", el)
		}
		if el.FontSize < 8 || el.FontSize > 24 {
			t.Fatalf("font size %v outside clamp", el.FontSize)
		}
		if el.BBox.Width <= 24 {
			t.Fatalf("bbox width %v must cover extent plus pitch pad", el.BBox.Width)
		}
	}

	warned := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "8 glyphs grouped into 2 segments") {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("missing fallback warning: %v", res.Warnings)
	}
	if res.Stats.GlyphCount != 8 || res.Stats.SegmentCount != 2 {
		t.Fatalf("stats: %+v", res.Stats)
	}
}

func TestIdentifierBackedGlyphsNeverMerge(t *testing.T) {
	res := extract.Extract(parse(t, glyphDoc(true)))
	if len(res.Elements) != 8 {
		t.Fatalf("id-backed document merged: %d elements, want 8", len(res.Elements))
	}
	for _, el := range res.Elements {
		if el.ID == "" {
			t.Fatalf("element lost its id: %+v", el)
		}
	}
}

func TestProfilesChangeSplitting(t *testing.T) {
	// A single line with modest gaps: pitch 8 runs separated by 14 units.
	// MergeAggressive keeps one element where SplitAggressive cuts.
	var sb strings.Builder
	sb.WriteString(`<svg>`)
	xs := []float64{0, 8, 16, 30, 38, 46}
	for i, x := range xs {
		fmt.Fprintf(&sb, `<use href="#glyph-%d" x="%g" y="10"/>`, i, x)
	}
	sb.WriteString(`</svg>`)

	merged := extract.Extract(parse(t, sb.String()), extract.WithProfile(extract.MergeAggressive))
	split := extract.Extract(parse(t, sb.String()), extract.WithProfile(extract.SplitAggressive))
	if len(merged.Elements) != 1 {
		t.Fatalf("merge-aggressive: %d elements, want 1", len(merged.Elements))
	}
	if len(split.Elements) < 2 {
		t.Fatalf("split-aggressive did not split: %d elements", len(split.Elements))
	}
}

func TestPathAsTextSuspicion(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`<svg>`)
	for i := 0; i < 25; i++ {
		sb.WriteString(`<path d="M0 0h1"/>`)
	}
	sb.WriteString(`</svg>`)

	res := extract.Extract(parse(t, sb.String()))
	if !res.Stats.PathAsText {
		t.Fatal("path-heavy textless document not flagged")
	}
	if len(res.Elements) != 0 {
		t.Fatalf("unexpected elements: %d", len(res.Elements))
	}
}

func TestSuggestedIdentifierFallback(t *testing.T) {
	doc := parse(t, `<svg><text x="12" y="34">#!</text></svg>`)
	res := extract.Extract(doc)
	if got := res.Elements[0].SuggestedID; got != "text_12_34" {
		t.Fatalf("fallback id = %q", got)
	}
}

func TestSuggestedIdentifierTruncation(t *testing.T) {
	long := strings.Repeat("verylongword ", 8)
	doc := parse(t, `<svg><text x="0" y="0">`+long+`</text></svg>`)
	got := res0(t, doc).SuggestedID
	if len([]rune(got)) > 40 {
		t.Fatalf("identifier %q exceeds 40 chars", got)
	}
	if strings.HasSuffix(got, "_") {
		t.Fatalf("identifier %q has trailing underscore", got)
	}
}

func res0(t *testing.T, doc *svgdom.Document) extract.Element {
	t.Helper()
	res := extract.Extract(doc)
	if len(res.Elements) == 0 {
		t.Fatal("no elements extracted")
	}
	return res.Elements[0]
}
