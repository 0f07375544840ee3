// Package listing filters, sorts and pages the small in-memory row sets
// the TUI tables show.
package listing

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultPageSize is used when a Query leaves PageSize unset.
const DefaultPageSize = 10

// Query describes one table view.
type Query struct {
	Search   string
	SortKey  string
	Desc     bool
	Page     int // 1-based; clamped into range
	PageSize int
}

// Page is one slice of a filtered, sorted list.
type Page[T any] struct {
	Items []T
	Total int // rows matching the search
	Page  int
	Pages int
}

// Columns tells Apply how to read rows: Text returns the searchable
// fields of a row, Sorters maps sort keys to comparison functions.
type Columns[T any] struct {
	Text    func(T) []string
	Sorters map[string]func(a, b T) int
}

// Apply runs search, sort and pagination over rows. rows is not
// modified.
func Apply[T any](rows []T, cols Columns[T], q Query) Page[T] {
	filtered := Filter(rows, cols.Text, q.Search)
	if less, ok := cols.Sorters[q.SortKey]; ok {
		slices.SortStableFunc(filtered, func(a, b T) int {
			if q.Desc {
				return less(b, a)
			}
			return less(a, b)
		})
	}
	return Paginate(filtered, q.Page, q.PageSize)
}

// Filter keeps rows whose text matches every search term.
func Filter[T any](rows []T, text func(T) []string, search string) []T {
	terms := strings.Fields(strings.ToLower(search))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if len(terms) == 0 || text == nil || matchesAll(text(r), terms) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(fields []string, terms []string) bool {
	for _, term := range terms {
		if !matches(fields, term) {
			return false
		}
	}
	return true
}

// matches is a case-insensitive substring test that tolerates typos in
// terms of four or more letters: any word within edit distance
// maxDistance(term) counts.
func matches(fields []string, term string) bool {
	for _, f := range fields {
		lf := strings.ToLower(f)
		if strings.Contains(lf, term) {
			return true
		}
		limit := maxDistance(term)
		if limit == 0 {
			continue
		}
		for _, w := range strings.Fields(lf) {
			if levenshtein.ComputeDistance(w, term) <= limit {
				return true
			}
		}
	}
	return false
}

func maxDistance(term string) int {
	switch n := len([]rune(term)); {
	case n < 4:
		return 0
	case n < 7:
		return 1
	default:
		return 2
	}
}

// Paginate cuts rows into pages of size (DefaultPageSize when not
// positive) and returns page, clamped to [1, Pages].
func Paginate[T any](rows []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (len(rows) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	page = min(max(page, 1), pages)
	lo := (page - 1) * size
	hi := min(lo+size, len(rows))
	items := make([]T, 0, hi-lo)
	if lo < hi {
		items = append(items, rows[lo:hi]...)
	}
	return Page[T]{Items: items, Total: len(rows), Page: page, Pages: pages}
}

// ByString builds a case-insensitive sorter from a field accessor.
func ByString[T any](get func(T) string) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
	}
}

// ByOrdered builds a sorter from an ordered field accessor.
func ByOrdered[T any, V cmp.Ordered](get func(T) V) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(get(a), get(b)) }
}
