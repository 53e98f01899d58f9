// Package pagination slices ordered result sets into fixed-size pages and
// exposes the navigation metadata the templates need.
package pagination

// DefaultPageSize is the number of posts shown per feed page.
const DefaultPageSize = 10

// Page is a bounded slice of an ordered result set plus navigation metadata.
// Number is 1-based.
type Page[T any] struct {
	Items   []T
	Total   int64
	Number  int
	Size    int
	Pages   int
	HasPrev bool
	HasNext bool
}

// PrevNumber is the previous page number, for navigation links.
func (p Page[T]) PrevNumber() int {
	if p.Number <= 1 {
		return 1
	}
	return p.Number - 1
}

// NextNumber is the next page number, for navigation links.
func (p Page[T]) NextNumber() int {
	if p.Number >= p.Pages {
		return p.Pages
	}
	return p.Number + 1
}

// PageCount returns how many pages a result set of `total` items occupies at
// the given page size. An empty set still has one (empty) page.
func PageCount(total int64, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Resolve clamps a requested page number into the valid range and returns
// the resolved number together with the query offset. Page 0 or a negative
// page resolves to the first page; a page beyond the end resolves to the
// last page. Out-of-range requests are never an error.
func Resolve(total int64, size, number int) (resolved, offset int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := PageCount(total, size)
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}
	return number, (number - 1) * size
}

// New assembles a Page from an already-sliced item list. `number` must be
// the resolved (clamped) page number.
func New[T any](items []T, total int64, size, number int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := PageCount(total, size)
	return Page[T]{
		Items:   items,
		Total:   total,
		Number:  number,
		Size:    size,
		Pages:   pages,
		HasPrev: number > 1,
		HasNext: number < pages,
	}
}
