package extract

import (
	"sort"
	"strings"

	"github.com/lvillar/svgform/svgdom"
)

// Profile tunes how eagerly glyph runs are split at wide gaps. Converted
// documents vary: dense CJK pages need merging, wide tabular layouts need
// splitting, and Balanced handles most mixed pages.
type Profile int

const (
	Balanced Profile = iota
	SplitAggressive
	MergeAggressive
)

func (p Profile) String() string {
	switch p {
	case SplitAggressive:
		return "split-aggressive"
	case MergeAggressive:
		return "merge-aggressive"
	default:
		return "balanced"
	}
}

// thresholds holds the gap-split parameters of a profile. A gap splits a run
// when it exceeds max(Floor, step*Mult, step+Add) for the line's typical step.
type thresholds struct {
	Floor float64
	Mult  float64
	Add   float64
}

func (p Profile) params() thresholds {
	switch p {
	case SplitAggressive:
		return thresholds{Floor: 2.5, Mult: 1.6, Add: 2.0}
	case MergeAggressive:
		return thresholds{Floor: 4.5, Mult: 3.0, Add: 5.0}
	default:
		return thresholds{Floor: 3.5, Mult: 2.2, Add: 3.5}
	}
}

// subdivideParams is the tighter second-pass threshold the split-aggressive
// profile applies inside runs of three or more glyphs.
var subdivideParams = thresholds{Floor: 2.0, Mult: 1.3, Add: 1.5}

func (t thresholds) limit(step float64) float64 {
	lim := t.Floor
	if v := step * t.Mult; v > lim {
		lim = v
	}
	if v := step + t.Add; v > lim {
		lim = v
	}
	return lim
}

// glyph is one positioned glyph reference.
type glyph struct {
	x, y     float64
	id       string
	domIndex int
}

// glyphHrefPrefix is the shared naming convention of glyph symbol references
// in converted documents: <use href="#glyph-..."/>.
const glyphHrefPrefix = "#glyph"

// collectGlyphs gathers every glyph reference with its absolute position.
func collectGlyphs(nodes []*svgdom.Node) []glyph {
	var out []glyph
	for i, n := range nodes {
		if n.Tag != "use" {
			continue
		}
		href := n.Attr("href")
		if href == "" {
			href = n.Attr("xlink:href")
		}
		if !strings.HasPrefix(href, glyphHrefPrefix) {
			continue
		}
		lx := parseCoord(n.Attr("x"))
		ly := parseCoord(n.Attr("y"))
		ax, ay := n.AbsolutePoint(lx, ly)
		out = append(out, glyph{x: ax, y: ay, id: n.Attr("id"), domIndex: i})
	}
	return out
}

// lineTolerance is the vertical band within which glyphs are considered to
// share a baseline.
const lineTolerance = 1.5

// line is one horizontal band of glyphs, X-sorted.
type line struct {
	glyphs []glyph
	meanY  float64
}

// groupLines buckets glyphs into horizontal lines with an incremental
// running mean: a glyph joins the current line while its Y stays within
// tolerance of the line's mean, otherwise it opens a new line.
func groupLines(glyphs []glyph) []line {
	sorted := make([]glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].y != sorted[j].y {
			return sorted[i].y < sorted[j].y
		}
		return sorted[i].x < sorted[j].x
	})

	var lines []line
	for _, g := range sorted {
		if n := len(lines); n > 0 && abs(g.y-lines[n-1].meanY) <= lineTolerance {
			cur := &lines[n-1]
			cur.glyphs = append(cur.glyphs, g)
			cur.meanY += (g.y - cur.meanY) / float64(len(cur.glyphs))
			continue
		}
		lines = append(lines, line{glyphs: []glyph{g}, meanY: g.y})
	}
	for i := range lines {
		sort.SliceStable(lines[i].glyphs, func(a, b int) bool {
			return lines[i].glyphs[a].x < lines[i].glyphs[b].x
		})
	}
	return lines
}

// idBackedFraction is the share of glyphs that must carry their own id for
// the document to count as identifier-backed (per-glyph elements, no runs).
const idBackedFraction = 0.7

// clusterGlyphs turns positioned glyphs into synthetic text candidates.
func clusterGlyphs(glyphs []glyph, profile Profile) []Element {
	lines := groupLines(glyphs)

	withID := 0
	for _, g := range glyphs {
		if g.id != "" {
			withID++
		}
	}
	if float64(withID) >= idBackedFraction*float64(len(glyphs)) {
		return perGlyphElements(lines)
	}

	var out []Element
	for _, ln := range lines {
		for _, run := range splitLine(ln.glyphs, profile) {
			out = append(out, runElement(run, typicalStep(gaps(ln.glyphs))))
		}
	}
	return out
}

// perGlyphElements keeps every glyph as its own candidate. Identifier-backed
// documents already encode the logical structure, so merging would destroy
// the mapping between ids and positions.
func perGlyphElements(lines []line) []Element {
	var out []Element
	for _, ln := range lines {
		pitch := typicalStep(gaps(ln.glyphs))
		if pitch <= 0 {
			pitch = 8
		}
		for i, g := range ln.glyphs {
			w := pitch
			if d := neighborGap(ln.glyphs, i); d > 0 && d < w {
				w = d
			}
			w = clamp(w, 4, 48)
			size := clamp(1.8*pitch, 8, 24)
			out = append(out, Element{
				ID:          g.id,
				X:           g.x,
				Y:           g.y,
				DOMIndex:    g.domIndex,
				SuggestedID: suggestIdentifier("", g.x, g.y),
				Synthetic:   true,
				FontSize:    size,
				BBox:        BBox{X: g.x, Y: g.y - size, Width: w, Height: size * 1.2},
			})
		}
	}
	return out
}

// neighborGap returns the smaller of the gaps to the glyph's line neighbors,
// or 0 when it has none.
func neighborGap(gs []glyph, i int) float64 {
	best := 0.0
	if i > 0 {
		best = gs[i].x - gs[i-1].x
	}
	if i+1 < len(gs) {
		if d := gs[i+1].x - gs[i].x; best == 0 || d < best {
			best = d
		}
	}
	return best
}

// gaps returns the positive inter-glyph X gaps of an X-sorted line.
func gaps(gs []glyph) []float64 {
	var out []float64
	for i := 1; i < len(gs); i++ {
		if d := gs[i].x - gs[i-1].x; d > 0 {
			out = append(out, d)
		}
	}
	return out
}

// typicalStep estimates normal glyph spacing as the median of the lower half
// of the sorted positive gaps, which ignores isolated wide column gaps.
func typicalStep(gs []float64) float64 {
	if len(gs) == 0 {
		return 0
	}
	sorted := make([]float64, len(gs))
	copy(sorted, gs)
	sort.Float64s(sorted)
	lower := sorted[:(len(sorted)+1)/2]
	return lower[len(lower)/2]
}

// overSplit reports whether a split looks like a compact script broken per
// character: three or more runs of which at least 60% are single glyphs.
func overSplit(runs [][]glyph) bool {
	if len(runs) < 3 {
		return false
	}
	singles := 0
	for _, r := range runs {
		if len(r) == 1 {
			singles++
		}
	}
	return float64(singles) >= 0.6*float64(len(runs))
}

// relaxFactor widens the split threshold when an over-split line is retried.
const relaxFactor = 1.5

// splitLine cuts one X-sorted line into runs at wide gaps.
func splitLine(gs []glyph, profile Profile) [][]glyph {
	if len(gs) == 0 {
		return nil
	}
	step := typicalStep(gaps(gs))
	p := profile.params()
	limit := p.limit(step)

	runs := splitAt(gs, limit)

	if profile == SplitAggressive {
		var refined [][]glyph
		for _, r := range runs {
			if len(r) >= 3 {
				sub := subdivideParams.limit(typicalStep(gaps(r)))
				refined = append(refined, splitAt(r, sub)...)
			} else {
				refined = append(refined, r)
			}
		}
		return refined
	}

	if overSplit(runs) {
		runs = splitAt(gs, limit*relaxFactor)
	}
	if avgRunLen(runs) < 2.5 {
		runs = mergeShortRuns(runs, limit)
	}
	return runs
}

func splitAt(gs []glyph, limit float64) [][]glyph {
	var runs [][]glyph
	start := 0
	for i := 1; i < len(gs); i++ {
		if gs[i].x-gs[i-1].x > limit {
			runs = append(runs, gs[start:i])
			start = i
		}
	}
	return append(runs, gs[start:])
}

func avgRunLen(runs [][]glyph) float64 {
	if len(runs) == 0 {
		return 0
	}
	total := 0
	for _, r := range runs {
		total += len(r)
	}
	return float64(total) / float64(len(runs))
}

// mergeShortRuns joins adjacent runs separated by less than the merge limit.
// When both neighbors already hold two or more glyphs the limit tightens so
// two genuine words are not fused across a normal word space.
func mergeShortRuns(runs [][]glyph, limit float64) [][]glyph {
	if len(runs) < 2 {
		return runs
	}
	merged := [][]glyph{runs[0]}
	for _, next := range runs[1:] {
		prev := merged[len(merged)-1]
		gap := next[0].x - prev[len(prev)-1].x
		allow := limit * 1.25
		if len(prev) >= 2 && len(next) >= 2 {
			allow = limit
		}
		if gap < allow {
			merged[len(merged)-1] = append(append([]glyph{}, prev...), next...)
		} else {
			merged = append(merged, next)
		}
	}
	return merged
}

// runElement builds a synthetic candidate from a final glyph run, anchored
// at the run's first glyph. Content is unrecoverable and stays empty.
func runElement(run []glyph, lineStep float64) Element {
	first := run[0]

	pitch := lineStep
	if len(run) >= 2 {
		pitch = (run[len(run)-1].x - first.x) / float64(len(run)-1)
	}
	if pitch <= 0 {
		pitch = 8
	}
	size := clamp(1.8*pitch, 8, 24)
	extent := run[len(run)-1].x - first.x

	return Element{
		ID:          first.id,
		X:           first.x,
		Y:           first.y,
		DOMIndex:    first.domIndex,
		SuggestedID: suggestIdentifier("", first.x, first.y),
		Synthetic:   true,
		FontSize:    size,
		BBox:        BBox{X: first.x, Y: first.y - size, Width: extent + pitch, Height: size * 1.2},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
