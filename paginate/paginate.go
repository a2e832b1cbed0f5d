// Package paginate chunks ordered row collections into per-page slices and
// builds the page plan for a render.
//
// All functions are pure: they read the data sources and table references
// and return plans without touching any document.
package paginate

import (
	"fmt"

	svgform "github.com/lvillar/svgform"
	"github.com/lvillar/svgform/binding"
)

// Chunk is a contiguous slice of a tabular source assigned to a single page.
// StartIndex and EndIndex are absolute 0-based row indices (EndIndex
// inclusive; -1 for an empty chunk). TotalRows always carries the source's
// full length so a renderer can still show "0 of N" context.
type Chunk struct {
	Rows       []map[string]string
	StartIndex int
	EndIndex   int
	TotalRows  int
}

// Empty reports whether the chunk carries no rows.
func (c Chunk) Empty() bool {
	return len(c.Rows) == 0
}

// Split partitions rows into contiguous chunks of perPage rows each; only
// the last chunk may be shorter. The chunks preserve the original order with
// no gaps or overlaps.
func Split(rows []map[string]string, perPage int) ([]Chunk, error) {
	if perPage <= 0 {
		return nil, svgform.Wrap("Split", "table", fmt.Sprintf("rows_per_page=%d", perPage), svgform.ErrRowsPerPage)
	}
	var chunks []Chunk
	for start := 0; start < len(rows); start += perPage {
		end := start + perPage
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, Chunk{
			Rows:       rows[start:end],
			StartIndex: start,
			EndIndex:   end - 1,
			TotalRows:  len(rows),
		})
	}
	return chunks, nil
}

// TableRef names a tabular source bound on a page together with its page
// capacity.
type TableRef struct {
	Source      string
	RowsPerPage int
}

// TotalPages computes the page count needed to fit every table bound on the
// first page: the maximum of per-table page counts, floored at 1 so a
// document with no table rows still renders one page.
func TotalPages(src *binding.Sources, tables []TableRef) (int, error) {
	total := 1
	for _, ref := range tables {
		if ref.RowsPerPage <= 0 {
			return 0, svgform.Wrap("TotalPages", "table", ref.Source, svgform.ErrRowsPerPage)
		}
		rows := 0
		if tbl, ok := src.Table(ref.Source); ok {
			rows = len(tbl.Rows)
		}
		pages := (rows + ref.RowsPerPage - 1) / ref.RowsPerPage
		if pages > total {
			total = pages
		}
	}
	return total, nil
}

// Kind distinguishes the first page layout from the repeated overflow layout.
type Kind int

const (
	First Kind = iota
	Repeat
)

func (k Kind) String() string {
	if k == Repeat {
		return "repeat"
	}
	return "first"
}

// PageInfo describes one output page of a render: its 1-based number, which
// layout it uses, and the table chunk assigned to each bound source.
type PageInfo struct {
	PageNumber int
	Kind       Kind
	Chunks     map[string]Chunk
}

// BuildPlan pre-chunks every table referenced by the first page and assigns
// chunks to pages 1..totalPages. Page 1 uses the First layout; later pages
// use Repeat when hasRepeat is set and otherwise fall back to reusing the
// First layout, which supports single-layout multi-page templates. A table
// bound on the active page whose chunk index does not exist receives an
// empty chunk that still carries the source's true row count; tables bound
// only on the first page receive no chunk on later pages.
func BuildPlan(src *binding.Sources, first, repeat []TableRef, hasRepeat bool, totalPages int) ([]PageInfo, error) {
	chunked := make(map[string][]Chunk, len(first))
	for _, ref := range first {
		tbl, ok := src.Table(ref.Source)
		if !ok {
			continue
		}
		chunks, err := Split(tbl.Rows, ref.RowsPerPage)
		if err != nil {
			return nil, err
		}
		chunked[ref.Source] = chunks
	}

	plan := make([]PageInfo, 0, totalPages)
	for page := 1; page <= totalPages; page++ {
		info := PageInfo{PageNumber: page, Chunks: make(map[string]Chunk)}
		active := first
		if page > 1 {
			if hasRepeat {
				info.Kind = Repeat
				active = repeat
			} else {
				info.Kind = First
			}
		}
		for _, ref := range active {
			chunks := chunked[ref.Source]
			if idx := page - 1; idx < len(chunks) {
				info.Chunks[ref.Source] = chunks[idx]
				continue
			}
			total := 0
			if tbl, ok := src.Table(ref.Source); ok {
				total = len(tbl.Rows)
			}
			info.Chunks[ref.Source] = Chunk{StartIndex: 0, EndIndex: -1, TotalRows: total}
		}
		plan = append(plan, info)
	}
	return plan, nil
}
