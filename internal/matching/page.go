package matching

import "iter"

// DefaultPageSize is the number of candidates shown per page.
const DefaultPageSize = 10

// Page is one page of a sequence.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"page"`
	Size        int  `json:"page_size"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Paginate drains seq and returns the requested page. Pages below 1 resolve to
// the first page and pages past the end to the last one. An empty sequence
// still has one (empty) page.
func Paginate[T any](seq iter.Seq[T], number, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}

	var all []T
	for v := range seq {
		all = append(all, v)
	}

	totalPages := (len(all) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	start := (number - 1) * size
	end := min(start+size, len(all))
	items := make([]T, 0, end-start)
	items = append(items, all[start:end]...)

	return Page[T]{
		Items:       items,
		Number:      number,
		Size:        size,
		TotalItems:  len(all),
		TotalPages:  totalPages,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}
}
