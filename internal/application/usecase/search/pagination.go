package search

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 6
	MaxLimit     = 100

	// maxPage keeps (page-1)*limit far from overflowing.
	maxPage = math.MaxInt32
)

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// PageParams parses raw query values. Anything that is not a positive
// integer falls back to the default; limit is capped at MaxLimit.
func PageParams(rawPage, rawLimit string) (page, limit int) {
	page, limit = DefaultPage, DefaultLimit
	if n, err := strconv.Atoi(rawPage); err == nil && n >= 1 {
		page = n
	}
	if n, err := strconv.Atoi(rawLimit); err == nil && n >= 1 {
		limit = n
	}
	return normalize(page, limit)
}

func normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func NewPagination(total int64, page, limit int) Pagination {
	return Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: int((total + int64(limit) - 1) / int64(limit)),
	}
}

// window returns the [start, end) bounds of a page over n items, clamped to n.
func window(n, page, limit int) (int, int) {
	start := (page - 1) * limit
	if start > n || start < 0 {
		return n, n
	}
	end := start + limit
	if end > n {
		end = n
	}
	return start, end
}
