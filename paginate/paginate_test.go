package paginate_test

import (
	"errors"
	"fmt"
	"testing"

	svgform "github.com/lvillar/svgform"
	"github.com/lvillar/svgform/binding"
	"github.com/lvillar/svgform/paginate"
)

func makeRows(n int) []map[string]string {
	rows := make([]map[string]string, n)
	for i := range rows {
		rows[i] = map[string]string{"n": fmt.Sprintf("%d", i)}
	}
	return rows
}

func TestSplitPartitions(t *testing.T) {
	tests := []struct {
		rows, perPage, wantChunks int
	}{
		{0, 2, 0},
		{1, 2, 1},
		{4, 2, 2},
		{5, 2, 3},
		{5, 5, 1},
		{5, 10, 1},
		{10, 3, 4},
	}
	for _, tc := range tests {
		chunks, err := paginate.Split(makeRows(tc.rows), tc.perPage)
		if err != nil {
			t.Fatalf("%d/%d: %v", tc.rows, tc.perPage, err)
		}
		if len(chunks) != tc.wantChunks {
			t.Fatalf("%d rows / %d per page: got %d chunks, want %d", tc.rows, tc.perPage, len(chunks), tc.wantChunks)
		}

		// Chunks partition the rows in order with no gaps or overlaps.
		next := 0
		for i, c := range chunks {
			if c.StartIndex != next {
				t.Fatalf("chunk %d starts at %d, want %d", i, c.StartIndex, next)
			}
			if c.TotalRows != tc.rows {
				t.Fatalf("chunk %d TotalRows = %d, want %d", i, c.TotalRows, tc.rows)
			}
			if i < len(chunks)-1 && len(c.Rows) != tc.perPage {
				t.Fatalf("non-final chunk %d has %d rows, want %d", i, len(c.Rows), tc.perPage)
			}
			for j, row := range c.Rows {
				if row["n"] != fmt.Sprintf("%d", c.StartIndex+j) {
					t.Fatalf("chunk %d row %d out of order: %v", i, j, row)
				}
			}
			if c.EndIndex != c.StartIndex+len(c.Rows)-1 {
				t.Fatalf("chunk %d EndIndex = %d", i, c.EndIndex)
			}
			next = c.EndIndex + 1
		}
		if next != tc.rows {
			t.Fatalf("chunks cover %d rows, want %d", next, tc.rows)
		}
	}
}

func TestSplitRejectsNonPositive(t *testing.T) {
	for _, perPage := range []int{0, -1} {
		_, err := paginate.Split(makeRows(3), perPage)
		if !errors.Is(err, svgform.ErrRowsPerPage) {
			t.Fatalf("perPage=%d: got %v, want ErrRowsPerPage", perPage, err)
		}
	}
}

func sourcesWithItems(n int) *binding.Sources {
	s := binding.NewSources()
	s.AddKV("meta", map[string]string{})
	s.AddTable("items", []string{"n"}, makeRows(n))
	return s
}

func TestTotalPagesFloorsAtOne(t *testing.T) {
	s := sourcesWithItems(0)
	got, err := paginate.TotalPages(s, []paginate.TableRef{{Source: "items", RowsPerPage: 4}})
	if err != nil {
		t.Fatalf("total pages: %v", err)
	}
	if got != 1 {
		t.Fatalf("got %d, want 1", got)
	}

	// No tables at all still renders one page.
	got, err = paginate.TotalPages(s, nil)
	if err != nil || got != 1 {
		t.Fatalf("got %d, %v; want 1, nil", got, err)
	}
}

func TestTotalPagesMaxAcrossTables(t *testing.T) {
	s := sourcesWithItems(5)
	s.AddTable("notes", []string{"n"}, makeRows(12))
	got, err := paginate.TotalPages(s, []paginate.TableRef{
		{Source: "items", RowsPerPage: 2}, // 3 pages
		{Source: "notes", RowsPerPage: 4}, // 3 pages
	})
	if err != nil {
		t.Fatalf("total pages: %v", err)
	}
	if got != 3 {
		t.Fatalf("got %d, want 3", got)
	}
}

func TestBuildPlanKindsAndChunks(t *testing.T) {
	s := sourcesWithItems(5)
	refs := []paginate.TableRef{{Source: "items", RowsPerPage: 2}}

	plan, err := paginate.BuildPlan(s, refs, refs, true, 3)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if len(plan) != 3 {
		t.Fatalf("plan has %d pages, want 3", len(plan))
	}
	if plan[0].Kind != paginate.First {
		t.Fatalf("page 1 kind = %v, want first", plan[0].Kind)
	}
	for _, info := range plan[1:] {
		if info.Kind != paginate.Repeat {
			t.Fatalf("page %d kind = %v, want repeat", info.PageNumber, info.Kind)
		}
	}

	wantRanges := [][2]int{{0, 1}, {2, 3}, {4, 4}}
	for i, info := range plan {
		c := info.Chunks["items"]
		if c.StartIndex != wantRanges[i][0] || c.EndIndex != wantRanges[i][1] {
			t.Fatalf("page %d chunk range [%d,%d], want %v", info.PageNumber, c.StartIndex, c.EndIndex, wantRanges[i])
		}
		if c.TotalRows != 5 {
			t.Fatalf("page %d TotalRows = %d, want 5", info.PageNumber, c.TotalRows)
		}
	}
}

func TestBuildPlanFallsBackToFirstLayout(t *testing.T) {
	s := sourcesWithItems(5)
	refs := []paginate.TableRef{{Source: "items", RowsPerPage: 2}}

	plan, err := paginate.BuildPlan(s, refs, nil, false, 3)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	for _, info := range plan {
		if info.Kind != paginate.First {
			t.Fatalf("page %d kind = %v, want first fallback", info.PageNumber, info.Kind)
		}
		if _, ok := info.Chunks["items"]; !ok {
			t.Fatalf("page %d is missing its chunk under first-layout fallback", info.PageNumber)
		}
	}
}

func TestBuildPlanEmptyChunkKeepsTotal(t *testing.T) {
	s := sourcesWithItems(3)
	s.AddTable("notes", []string{"n"}, makeRows(9))
	first := []paginate.TableRef{
		{Source: "items", RowsPerPage: 2}, // 2 pages of items
		{Source: "notes", RowsPerPage: 3}, // 3 pages of notes
	}

	plan, err := paginate.BuildPlan(s, first, first, true, 3)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	c := plan[2].Chunks["items"]
	if !c.Empty() {
		t.Fatalf("page 3 items chunk should be empty, got %d rows", len(c.Rows))
	}
	if c.TotalRows != 3 {
		t.Fatalf("empty chunk lost TotalRows: %d, want 3", c.TotalRows)
	}
	if c.EndIndex != -1 {
		t.Fatalf("empty chunk EndIndex = %d, want -1", c.EndIndex)
	}
}

func TestBuildPlanFirstOnlyTableAbsentOnRepeat(t *testing.T) {
	s := sourcesWithItems(5)
	first := []paginate.TableRef{{Source: "items", RowsPerPage: 2}}

	plan, err := paginate.BuildPlan(s, first, nil, true, 3)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if _, ok := plan[0].Chunks["items"]; !ok {
		t.Fatal("page 1 should carry the items chunk")
	}
	for _, info := range plan[1:] {
		if _, ok := info.Chunks["items"]; ok {
			t.Fatalf("page %d should not carry a chunk for a first-only table", info.PageNumber)
		}
	}
}
