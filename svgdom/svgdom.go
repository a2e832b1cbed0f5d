// Package svgdom provides a mutable SVG document tree for template filling.
//
// Documents are parsed leniently via golang.org/x/net/html, which understands
// SVG foreign content. The tree supports lookup by id, deep structural
// cloning (each rendered page works on its own independent copy), attribute
// and text mutation, and serialization back to SVG markup.
package svgdom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/lvillar/svgform/geom"
)

// Attr is a single element attribute. Order is preserved on serialization.
type Attr struct {
	Name  string
	Value string
}

// Node is one node of the document tree. Element nodes carry Tag and Attrs;
// text nodes carry their content in Data and have an empty Tag.
type Node struct {
	Tag      string
	Data     string
	Attrs    []Attr
	Parent   *Node
	Children []*Node
}

// Document is a parsed SVG document.
type Document struct {
	Root   *Node
	styles []string
}

// Parse parses SVG markup. The first <svg> element found becomes the
// document root; its <style> blocks are collected for class rule lookup.
func Parse(data []byte) (*Document, error) {
	tree, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("svgdom: parsing markup: %w", err)
	}
	svg := findSVG(tree)
	if svg == nil {
		return nil, fmt.Errorf("svgdom: no <svg> root element found")
	}
	doc := &Document{}
	doc.Root = doc.convert(svg, nil)
	return doc, nil
}

func findSVG(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "svg" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findSVG(c); found != nil {
			return found
		}
	}
	return nil
}

func (d *Document) convert(src *html.Node, parent *Node) *Node {
	switch src.Type {
	case html.ElementNode:
		n := &Node{Tag: src.Data, Parent: parent}
		for _, a := range src.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.Attrs = append(n.Attrs, Attr{Name: name, Value: a.Val})
		}
		for c := src.FirstChild; c != nil; c = c.NextSibling {
			if child := d.convert(c, n); child != nil {
				n.Children = append(n.Children, child)
			}
		}
		if src.Data == "style" {
			d.styles = append(d.styles, n.Text())
		}
		return n
	case html.TextNode:
		// Drop inter-element whitespace except where text content matters.
		if strings.TrimSpace(src.Data) == "" && !textBearing(parent) {
			return nil
		}
		return &Node{Data: src.Data, Parent: parent}
	default:
		return nil
	}
}

func textBearing(n *Node) bool {
	if n == nil {
		return false
	}
	switch n.Tag {
	case "text", "tspan", "style", "title", "desc":
		return true
	}
	return false
}

// StyleSheets returns the raw contents of all <style> blocks.
func (d *Document) StyleSheets() []string {
	return d.styles
}

// ByID returns the first element in document order whose id attribute equals
// id, or nil. Lookup walks the live tree, so structural edits are always
// reflected.
func (d *Document) ByID(id string) *Node {
	if d.Root == nil {
		return nil
	}
	return d.Root.FindByID(id)
}

// Clone returns a structurally independent copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{styles: append([]string(nil), d.styles...)}
	if d.Root != nil {
		out.Root = d.Root.Clone()
	}
	return out
}

// FindByID returns the first element within this subtree (including n itself)
// whose id attribute equals id, or nil.
func (n *Node) FindByID(id string) *Node {
	if n.Tag != "" && n.Attr("id") == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// Clone deep-copies the subtree rooted at n. The copy has no parent.
func (n *Node) Clone() *Node {
	out := &Node{Tag: n.Tag, Data: n.Data}
	out.Attrs = append(out.Attrs, n.Attrs...)
	for _, c := range n.Children {
		cc := c.Clone()
		cc.Parent = out
		out.Children = append(out.Children, cc)
	}
	return out
}

// Attr returns the value of the named attribute, or "" if absent.
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present.
func (n *Node) HasAttr(name string) bool {
	for _, a := range n.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// SetAttr sets or replaces the named attribute.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes the named attribute if present.
func (n *Node) RemoveAttr(name string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// Text returns the concatenated text content of the subtree.
func (n *Node) Text() string {
	if n.Tag == "" {
		return n.Data
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// SetText replaces the subtree's content with a single text node.
func (n *Node) SetText(s string) {
	n.ClearChildren()
	n.AppendChild(&Node{Data: s})
}

// ClearChildren removes all children.
func (n *Node) ClearChildren() {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = n.Children[:0]
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild detaches child from n. It is a no-op if child is not a direct
// child.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Descendants returns all element nodes under n in document order.
func (n *Node) Descendants() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if c.Tag != "" {
				out = append(out, c)
				walk(c)
			}
		}
	}
	walk(n)
	return out
}

// AbsolutePoint maps a point local to n into absolute document coordinates by
// composing the transform attributes of n and its ancestors. Transforms are
// recomputed per call; nothing is cached.
func (n *Node) AbsolutePoint(x, y float64) (float64, float64) {
	var chain []string
	for cur := n; cur != nil; cur = cur.Parent {
		if t := cur.Attr("transform"); t != "" {
			chain = append(chain, t)
		}
	}
	// Collected element-first; compose wants outermost-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return geom.Compose(chain).Apply(x, y)
}
