package utils

import (
	"math"
	"strconv"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination holds normalised page parameters
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// NewPagination normalises raw page and pageSize values. Non-numeric or
// non-positive values fall back to the defaults; pageSize is capped.
func NewPagination(page, pageSize string, defaultSize int) Pagination {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	p := Pagination{Page: DefaultPage, PageSize: defaultSize}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(pageSize); err == nil && n > 0 {
		p.PageSize = n
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt
// instead of overflowing for very large pages.
func (p Pagination) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns the page count for total rows
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 || p.PageSize <= 0 {
		return 0
	}
	return int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// Bounds returns the [start, end) slice indices of this page within n items
func (p Pagination) Bounds(n int) (int, int) {
	if n <= 0 {
		return 0, 0
	}
	start := p.Offset()
	if start < 0 || start > n {
		start = n
	}
	end := n
	if p.PageSize > 0 && p.PageSize < n-start {
		end = start + p.PageSize
	}
	return start, end
}
