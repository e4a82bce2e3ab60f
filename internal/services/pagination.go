package services

// PageInfo carries the listing metadata returned alongside every page.
type PageInfo struct {
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Pages   int `json:"pages"`
}

const (
	defaultPage    = 1
	defaultPerPage = 10
)

// paginate slices one page out of the full ordered collection. Non-positive
// page or per_page values are clamped to the defaults; the reference
// implementation let them fall through to Python slicing, which Go slices
// cannot express.
func paginate[T any](items []T, page, perPage int) ([]T, PageInfo) {
	if page < 1 {
		page = defaultPage
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	total := len(items)
	info := PageInfo{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   (total + perPage - 1) / perPage,
	}

	// Any page past the end is empty. Checking against the page count before
	// computing slice bounds keeps (page-1)*perPage from overflowing for
	// arbitrarily large query values.
	if page > info.Pages {
		return items[total:], info
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	return items[start:end], info
}
