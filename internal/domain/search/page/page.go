package page

// Pagination describes the page window over the filtered result set.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// Paginate slices items into the requested 1-indexed page.
// Totals are computed over all items before slicing. A page past the end yields an
// empty, non-nil slice with totals intact.
func Paginate[T any](items []T, pageNum, limit int) ([]T, Pagination) {
	if pageNum < 1 {
		pageNum = 1
	}
	if limit < 1 {
		limit = 1
	}

	total := len(items)
	p := Pagination{
		Page:       pageNum,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
	}

	// Compared before multiplying so huge page numbers cannot overflow the offset.
	if pageNum > p.TotalPages {
		return []T{}, p
	}
	start := (pageNum - 1) * limit
	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], p
}

// TotalPages returns ceil(total/limit), 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Empty returns the pagination of an empty result set for the given window.
func Empty(pageNum, limit int) Pagination {
	return Pagination{Page: pageNum, Limit: limit}
}
