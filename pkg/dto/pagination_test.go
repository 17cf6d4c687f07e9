package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationInfo_ZeroItems(t *testing.T) {
	p := NewPaginationInfo(0, 50, 1, false)

	assert.Equal(t, 0, p.TotalItems)
	assert.Equal(t, 1, p.TotalPages, "an empty list still has one page")
	assert.Equal(t, 1, p.CurrentPage)
	assert.False(t, p.HasPrevious)
	assert.False(t, p.HasNext)
	assert.Equal(t, 0, p.StartIndex)
	assert.Equal(t, 0, p.EndIndex)
}

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name        string
		totalItems  int
		pageSize    int
		currentPage int
		openEnd     bool
		wantPage    int
		wantPages   int
		wantStart   int
		wantEnd     int
		wantHasNext bool
	}{
		{
			name:       "Single page less than page size",
			totalItems: 25, pageSize: 50, currentPage: 1,
			wantPage: 1, wantPages: 1, wantStart: 0, wantEnd: 25,
		},
		{
			name:       "Exactly one page",
			totalItems: 50, pageSize: 50, currentPage: 1,
			wantPage: 1, wantPages: 1, wantStart: 0, wantEnd: 50,
		},
		{
			name:       "Partial last page",
			totalItems: 120, pageSize: 50, currentPage: 3,
			wantPage: 3, wantPages: 3, wantStart: 100, wantEnd: 120,
		},
		{
			name:       "Middle page has next",
			totalItems: 120, pageSize: 50, currentPage: 2,
			wantPage: 2, wantPages: 3, wantStart: 50, wantEnd: 100, wantHasNext: true,
		},
		{
			name:       "Page beyond range is clamped to last",
			totalItems: 120, pageSize: 50, currentPage: 9,
			wantPage: 3, wantPages: 3, wantStart: 100, wantEnd: 120,
		},
		{
			name:       "Page below range is clamped to first",
			totalItems: 10, pageSize: 5, currentPage: -2,
			wantPage: 1, wantPages: 2, wantStart: 0, wantEnd: 5, wantHasNext: true,
		},
		{
			name:       "Open end keeps next available",
			totalItems: 50, pageSize: 50, currentPage: 1, openEnd: true,
			wantPage: 1, wantPages: 1, wantStart: 0, wantEnd: 50, wantHasNext: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginationInfo(tt.totalItems, tt.pageSize, tt.currentPage, tt.openEnd)
			assert.Equal(t, tt.wantPage, p.CurrentPage)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantStart, p.StartIndex)
			assert.Equal(t, tt.wantEnd, p.EndIndex)
			assert.Equal(t, tt.wantHasNext, p.HasNext)
			assert.Equal(t, p.CurrentPage > 1, p.HasPrevious)
		})
	}
}

func TestPagesCountAndClamp(t *testing.T) {
	for total := 0; total <= 30; total++ {
		for size := 1; size <= 7; size++ {
			pages := PagesCount(total, size)
			assert.GreaterOrEqual(t, pages, 1)
			assert.GreaterOrEqual(t, pages*size, total)
			for page := -1; page <= pages+3; page++ {
				got := ClampPage(page, pages)
				assert.GreaterOrEqual(t, got, 1)
				assert.LessOrEqual(t, got, pages)
			}
		}
	}
	assert.Equal(t, 1, PagesCount(10, 0))
}
