package utils

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		pageSize    string
		defaultSize int
		want        Pagination
	}{
		{"defaults", "", "", 0, Pagination{Page: 1, PageSize: 10}},
		{"custom default size", "", "", 20, Pagination{Page: 1, PageSize: 20}},
		{"explicit values", "3", "25", 10, Pagination{Page: 3, PageSize: 25}},
		{"non numeric", "abc", "xyz", 10, Pagination{Page: 1, PageSize: 10}},
		{"negative", "-2", "0", 10, Pagination{Page: 1, PageSize: 10}},
		{"capped", "1", "1000", 10, Pagination{Page: 1, PageSize: MaxPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.pageSize, tt.defaultSize))
		})
	}
}

func TestPaginationMath(t *testing.T) {
	p := Pagination{Page: 3, PageSize: 10}

	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 3, p.TotalPages(25))
	assert.Equal(t, 2, p.TotalPages(20))
	assert.Equal(t, 0, p.TotalPages(0))

	start, end := p.Bounds(25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = Pagination{Page: 5, PageSize: 10}.Bounds(25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)
}

func TestPaginationHugePage(t *testing.T) {
	p := NewPagination(strconv.Itoa(math.MaxInt), "10", 10)
	assert.Equal(t, math.MaxInt, p.Page)
	assert.Equal(t, math.MaxInt, p.Offset())

	start, end := p.Bounds(1)
	assert.Equal(t, 1, start)
	assert.Equal(t, 1, end)

	start, end = Pagination{Page: 2, PageSize: math.MaxInt}.Bounds(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)

	start, end = Pagination{Page: -3, PageSize: 10}.Bounds(5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)
}
