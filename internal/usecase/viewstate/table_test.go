package viewstate

import (
	"fmt"
	"testing"
)

type row struct {
	ID    int
	Name  string
	Email string
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{ID: i, Name: fmt.Sprintf("user-%02d", i), Email: fmt.Sprintf("u%02d@example.com", i)}
	}
	return out
}

func TestPaginateBoundaries(t *testing.T) {
	data := rows(25)

	testCases := []struct {
		name    string
		page    int
		wantLen int
		wantID  int
	}{
		{name: "first page", page: 0, wantLen: 10, wantID: 0},
		{name: "last partial page", page: 2, wantLen: 5, wantID: 20},
		{name: "past the end", page: 3, wantLen: 0},
		{name: "negative page", page: -1, wantLen: 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Paginate(data, testCase.page, 10)
			if len(got) != testCase.wantLen {
				t.Fatalf("Paginate() len = %d, want %d", len(got), testCase.wantLen)
			}
			if testCase.wantLen > 0 && got[0].ID != testCase.wantID {
				t.Fatalf("Paginate() first id = %d, want %d", got[0].ID, testCase.wantID)
			}
		})
	}
}

func TestFilterMatchesAnyAccessorIgnoringCase(t *testing.T) {
	data := []row{
		{ID: 1, Name: "Alice", Email: "ops@port.example"},
		{ID: 2, Name: "Bob", Email: "BOB@depot.example"},
		{ID: 3, Name: "Carol", Email: "carol@port.example"},
	}
	accessors := []Accessor[row]{
		func(r row) string { return r.Name },
		func(r row) string { return r.Email },
	}

	testCases := []struct {
		query string
		want  []int
	}{
		{query: "", want: []int{1, 2, 3}},
		{query: "PORT", want: []int{1, 3}},
		{query: "bob", want: []int{2}},
		{query: "  carol ", want: []int{3}},
		{query: "zzz", want: []int{}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.query, func(t *testing.T) {
			got := Filter(data, testCase.query, accessors...)
			ids := make([]int, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			if fmt.Sprint(ids) != fmt.Sprint(testCase.want) {
				t.Fatalf("Filter(%q) = %v, want %v", testCase.query, ids, testCase.want)
			}
		})
	}
}

func TestFieldStringifiesProjection(t *testing.T) {
	data := rows(12)
	got := Filter(data, "11", Field(func(r row) int { return r.ID }))
	if len(got) != 1 || got[0].ID != 11 {
		t.Fatalf("Filter() by numeric field = %+v", got)
	}
}

func TestTableQueryResetsPage(t *testing.T) {
	table := NewTable[row](10, func(r row) string { return r.Name })
	table.SetRows(rows(25))
	table.SetPage(2)

	if got := table.Page(); len(got) != 5 || got[0].ID != 20 {
		t.Fatalf("Page() before query = %+v", got)
	}

	table.SetQuery("user-1")
	if table.CurrentPage() != 0 {
		t.Fatalf("CurrentPage() after query = %d, want 0", table.CurrentPage())
	}
	if got := table.Page(); len(got) != 10 || got[0].ID != 10 {
		t.Fatalf("Page() after query = %+v", got)
	}

	table.SetPage(1)
	table.SetQuery("user-0")
	if got := table.Filtered(); len(got) != 10 {
		t.Fatalf("Filtered() = %d rows, want 10", len(got))
	}
	table.SetQuery("user-2")
	if table.CurrentPage() != 0 || len(table.Page()) != 5 {
		t.Fatalf("after narrowing: page %d rows %d", table.CurrentPage(), len(table.Page()))
	}
}

func TestTableQueryNarrowingToTwoRowsResetsFromPageTwo(t *testing.T) {
	data := rows(25)
	data[3].Name = "Mombasa depot"
	data[17].Name = "mombasa port"

	table := NewTable[row](10, func(r row) string { return r.Name })
	table.SetRows(data)
	table.SetPage(2)
	if table.CurrentPage() != 2 {
		t.Fatalf("CurrentPage() = %d, want 2", table.CurrentPage())
	}

	table.SetQuery("MOMBASA")
	if table.CurrentPage() != 0 {
		t.Fatalf("CurrentPage() = %d, want 0", table.CurrentPage())
	}
	got := table.Page()
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 17 {
		t.Fatalf("Page() = %+v", got)
	}
}

func TestTablePageSizeResetsPageAndStalePageClamps(t *testing.T) {
	table := NewTable[row](10, func(r row) string { return r.Name })
	table.SetRows(rows(25))
	table.SetPage(2)

	table.SetPageSize(5)
	if table.CurrentPage() != 0 || table.PageCount() != 5 {
		t.Fatalf("after SetPageSize: page %d count %d", table.CurrentPage(), table.PageCount())
	}

	table.SetPage(4)
	table.SetRows(rows(7))
	if table.CurrentPage() != 1 {
		t.Fatalf("CurrentPage() after shrink = %d, want clamp to 1", table.CurrentPage())
	}
	if got := table.Page(); len(got) != 2 || got[0].ID != 5 {
		t.Fatalf("Page() after shrink = %+v", got)
	}
}

func TestTableNextPrevStayInRange(t *testing.T) {
	table := NewTable[row](10)
	table.SetRows(rows(25))

	table.PrevPage()
	if table.CurrentPage() != 0 {
		t.Fatalf("PrevPage() at start moved to %d", table.CurrentPage())
	}
	for i := 0; i < 5; i++ {
		table.NextPage()
	}
	if table.CurrentPage() != 2 {
		t.Fatalf("NextPage() past end = %d, want 2", table.CurrentPage())
	}
	table.PrevPage()
	if table.CurrentPage() != 1 {
		t.Fatalf("PrevPage() = %d, want 1", table.CurrentPage())
	}
}

func TestTableEmptyCollection(t *testing.T) {
	table := NewTable[row](10)

	if table.PageCount() != 1 || len(table.Page()) != 0 || table.Total() != 0 {
		t.Fatalf("empty table: count %d page %d total %d", table.PageCount(), len(table.Page()), table.Total())
	}
}
