package viewstate

import (
	"fmt"
	"strings"
)

// Accessor projects a row onto one searchable field.
type Accessor[T any] func(T) string

// Field adapts any field projection into an Accessor using its %v form.
func Field[T any, V any](project func(T) V) Accessor[T] {
	return func(row T) string {
		return fmt.Sprint(project(row))
	}
}

// Filter keeps rows where any accessor contains query, ignoring case. An
// empty query keeps every row.
func Filter[T any](rows []T, query string, accessors ...Accessor[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		out := make([]T, len(rows))
		copy(out, rows)
		return out
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		for _, accessor := range accessors {
			if strings.Contains(strings.ToLower(accessor(row)), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Paginate returns rows[page*size : (page+1)*size]. Pages outside the range
// yield an empty slice.
func Paginate[T any](rows []T, page int, size int) []T {
	if size <= 0 || page < 0 {
		return []T{}
	}
	start := page * size
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+size, len(rows))
	out := make([]T, end-start)
	copy(out, rows[start:end])
	return out
}

// PageCount is ceil(total/size), never below 1.
func PageCount(total int, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Table is the query and pagination state for one list view.
type Table[T any] struct {
	rows      []T
	accessors []Accessor[T]
	query     string
	page      int
	pageSize  int
}

func NewTable[T any](pageSize int, accessors ...Accessor[T]) *Table[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Table[T]{accessors: accessors, pageSize: pageSize}
}

// SetRows swaps the collection and keeps the page index; Page clamps it.
func (t *Table[T]) SetRows(rows []T) {
	t.rows = rows
}

func (t *Table[T]) SetQuery(query string) {
	if query == t.query {
		return
	}
	t.query = query
	t.page = 0
}

func (t *Table[T]) SetPageSize(size int) {
	if size <= 0 || size == t.pageSize {
		return
	}
	t.pageSize = size
	t.page = 0
}

func (t *Table[T]) SetPage(page int) {
	t.page = max(page, 0)
}

func (t *Table[T]) Query() string {
	return t.query
}

func (t *Table[T]) PageSize() int {
	return t.pageSize
}

// CurrentPage is the page index Page renders, clamped to the filtered set.
func (t *Table[T]) CurrentPage() int {
	return min(t.page, t.PageCount()-1)
}

func (t *Table[T]) Filtered() []T {
	return Filter(t.rows, t.query, t.accessors...)
}

func (t *Table[T]) Total() int {
	return len(t.rows)
}

func (t *Table[T]) PageCount() int {
	return PageCount(len(t.Filtered()), t.pageSize)
}

// Page renders the visible rows. A page index left stale by a shrinking
// filter is clamped to the last page.
func (t *Table[T]) Page() []T {
	filtered := t.Filtered()
	last := PageCount(len(filtered), t.pageSize) - 1
	return Paginate(filtered, min(t.page, last), t.pageSize)
}

func (t *Table[T]) NextPage() {
	if t.CurrentPage() < t.PageCount()-1 {
		t.page = t.CurrentPage() + 1
	}
}

func (t *Table[T]) PrevPage() {
	if current := t.CurrentPage(); current > 0 {
		t.page = current - 1
	}
}
