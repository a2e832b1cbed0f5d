package format

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	pdf417 "github.com/ruudk/golang-pdf417"

	"github.com/lvillar/svgform/svgdom"
)

// Barcode formatter specs. A cell or field carrying one of these replaces
// its target element's content with generated vector bars instead of text.
const (
	BarcodeCode128 = "barcode128"
	BarcodeQR      = "qr"
	BarcodePDF417  = "pdf417"
)

// IsBarcode reports whether spec names a barcode formatter.
func IsBarcode(spec string) bool {
	switch spec {
	case BarcodeCode128, BarcodeQR, BarcodePDF417:
		return true
	}
	return false
}

// BarcodeGroup encodes text as the given symbology and returns a <g> of
// filled rects spanning width×height document units, anchored at (0,0).
func BarcodeGroup(spec, text string, width, height float64) (*svgdom.Node, error) {
	var (
		img    image.Image
		linear bool
	)
	switch spec {
	case BarcodeCode128:
		bc, err := code128.Encode(text)
		if err != nil {
			return nil, fmt.Errorf("format: encoding code128: %w", err)
		}
		img, linear = bc, true
	case BarcodeQR:
		bc, err := qr.Encode(text, qr.M, qr.Auto)
		if err != nil {
			return nil, fmt.Errorf("format: encoding qr: %w", err)
		}
		img = bc
	case BarcodePDF417:
		img = pdf417.Encode(text, 4, 2)
	default:
		return nil, fmt.Errorf("format: unknown barcode kind %q", spec)
	}

	g := &svgdom.Node{Tag: "g"}
	g.SetAttr("fill", "#000000")
	if linear {
		emitBars(g, img, width, height)
	} else {
		emitModules(g, img, width, height)
	}
	return g, nil
}

// emitBars renders a one-dimensional symbol: one sample row, bars stretched
// to the full target height.
func emitBars(g *svgdom.Node, img image.Image, width, height float64) {
	b := img.Bounds()
	modW := width / float64(b.Dx())
	y := b.Min.Y
	for x := b.Min.X; x < b.Max.X; {
		if !dark(img, x, y) {
			x++
			continue
		}
		run := x
		for run < b.Max.X && dark(img, run, y) {
			run++
		}
		appendRect(g,
			float64(x-b.Min.X)*modW, 0,
			float64(run-x)*modW, height)
		x = run
	}
}

// emitModules renders a two-dimensional symbol module by module, merging
// horizontal runs per row.
func emitModules(g *svgdom.Node, img image.Image, width, height float64) {
	b := img.Bounds()
	modW := width / float64(b.Dx())
	modH := height / float64(b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; {
			if !dark(img, x, y) {
				x++
				continue
			}
			run := x
			for run < b.Max.X && dark(img, run, y) {
				run++
			}
			appendRect(g,
				float64(x-b.Min.X)*modW, float64(y-b.Min.Y)*modH,
				float64(run-x)*modW, modH)
			x = run
		}
	}
}

func appendRect(g *svgdom.Node, x, y, w, h float64) {
	rect := &svgdom.Node{Tag: "rect"}
	rect.SetAttr("x", coord(x))
	rect.SetAttr("y", coord(y))
	rect.SetAttr("width", coord(w))
	rect.SetAttr("height", coord(h))
	g.AppendChild(rect)
}

func dark(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r+g+b < 3*0x8000
}

func coord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
