package svgdom_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/lvillar/svgform/svgdom"
)

const sample = `<svg xmlns="http://www.w3.org/2000/svg" width="210" height="297">
  <defs><style>.small { font-size: 9px; } .big, .huge { font-size: 18pt }</style></defs>
  <g id="header" transform="translate(10,20)">
    <text id="title" x="5" y="7" font-size="14">Invoice</text>
    <text id="styled" class="small">Note</text>
  </g>
  <g id="rows"><rect id="row-template" x="0" y="0"/></g>
</svg>`

func mustParse(t *testing.T, data string) *svgdom.Document {
	t.Helper()
	doc, err := svgdom.Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestParseAndLookup(t *testing.T) {
	doc := mustParse(t, sample)
	if doc.Root.Tag != "svg" {
		t.Fatalf("root tag = %q, want svg", doc.Root.Tag)
	}
	title := doc.ByID("title")
	if title == nil {
		t.Fatal("title element not found")
	}
	if got := title.Text(); got != "Invoice" {
		t.Fatalf("text = %q, want Invoice", got)
	}
	if doc.ByID("missing") != nil {
		t.Fatal("lookup of missing id should return nil")
	}
}

func TestParseNoSVGRoot(t *testing.T) {
	if _, err := svgdom.Parse([]byte("<div>not svg</div>")); err == nil {
		t.Fatal("expected error for markup without an svg root")
	}
}

func TestAbsolutePoint(t *testing.T) {
	doc := mustParse(t, sample)
	title := doc.ByID("title")
	x, y := title.AbsolutePoint(5, 7)
	if math.Abs(x-15) > 1e-9 || math.Abs(y-27) > 1e-9 {
		t.Fatalf("absolute point = (%v, %v), want (15, 27)", x, y)
	}
}

func TestStyleRulesAndFontSize(t *testing.T) {
	doc := mustParse(t, sample)
	rules := svgdom.StyleRules(doc)
	if rules["small"] != 9 {
		t.Fatalf("rules[small] = %v, want 9", rules["small"])
	}
	if rules["big"] != 18 || rules["huge"] != 18 {
		t.Fatalf("grouped selectors not parsed: %v", rules)
	}
	if got := svgdom.FontSize(doc.ByID("title"), rules); got != 14 {
		t.Fatalf("attribute font size = %v, want 14", got)
	}
	if got := svgdom.FontSize(doc.ByID("styled"), rules); got != 9 {
		t.Fatalf("class font size = %v, want 9", got)
	}
}

func TestFontSizeInlineStyle(t *testing.T) {
	doc := mustParse(t, `<svg><text id="t" style="fill:#000; font-size: 11.5px">x</text></svg>`)
	if got := svgdom.FontSize(doc.ByID("t"), nil); got != 11.5 {
		t.Fatalf("inline style font size = %v, want 11.5", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	doc := mustParse(t, sample)
	clone := doc.Clone()

	clone.ByID("title").SetText("Changed")
	if got := doc.ByID("title").Text(); got != "Invoice" {
		t.Fatalf("mutating clone leaked into original: %q", got)
	}

	row := clone.ByID("row-template")
	row.SetAttr("data-row", "1")
	if doc.ByID("row-template").HasAttr("data-row") {
		t.Fatal("attribute edit on clone leaked into original")
	}
}

func TestMutationAndSerialize(t *testing.T) {
	doc := mustParse(t, `<svg><g id="g"><text id="t" x="1">old</text></g></svg>`)
	el := doc.ByID("t")
	el.SetText(`a < b & "c"`)
	el.SetAttr("font-size", "10")

	out := doc.Serialize()
	if !bytes.Contains(out, []byte("a &lt; b &amp;")) {
		t.Fatalf("text not escaped: %s", out)
	}
	if !bytes.Contains(out, []byte(`font-size="10"`)) {
		t.Fatalf("attribute not serialized: %s", out)
	}
}

func TestRemoveAndAppendChildren(t *testing.T) {
	doc := mustParse(t, `<svg><g id="c"><rect id="a"/><rect id="b"/></g></svg>`)
	container := doc.ByID("c")
	a := doc.ByID("a")
	a.Remove()
	if doc.ByID("a") != nil {
		t.Fatal("removed node still reachable")
	}
	clone := doc.ByID("b").Clone()
	clone.SetAttr("id", "b2")
	container.AppendChild(clone)
	if doc.ByID("b2") == nil {
		t.Fatal("appended clone not reachable")
	}
	if clone.Parent != container {
		t.Fatal("appended clone has wrong parent")
	}
}

func TestFindByIDScopedToSubtree(t *testing.T) {
	doc := mustParse(t, `<svg><g id="r1"><text id="cell">one</text></g><g id="r2"><text id="cell">two</text></g></svg>`)
	r2 := doc.ByID("r2")
	cell := r2.FindByID("cell")
	if cell == nil || cell.Text() != "two" {
		t.Fatalf("subtree lookup returned wrong node")
	}
}
