package dto

// PaginationInfo describes one page of a locally held, filtered item list.
// Page numbers are 1-indexed, StartIndex and EndIndex are 0-indexed slice bounds.
type PaginationInfo struct {
	// CurrentPage is the current page number, always within [1, TotalPages].
	CurrentPage int `json:"currentPage"`

	// TotalPages is never below 1, even for an empty list.
	TotalPages int `json:"totalPages"`

	TotalItems int `json:"totalItems"`
	PageSize   int `json:"pageSize"`

	// OpenEnd is set when more items can still be fetched from the remote
	// listing, so a page after the last local one may exist.
	OpenEnd bool `json:"openEnd"`

	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`

	// StartIndex and EndIndex bound the page: items[StartIndex:EndIndex].
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

// PagesCount returns max(1, ceil(totalItems/pageSize)).
func PagesCount(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 1
	}
	return (totalItems + pageSize - 1) / pageSize
}

// ClampPage moves page into [1, pagesCount].
func ClampPage(page, pagesCount int) int {
	if pagesCount < 1 {
		pagesCount = 1
	}
	return max(1, min(page, pagesCount))
}

// NewPaginationInfo computes the pagination of totalItems items, clamping
// currentPage into range.
func NewPaginationInfo(totalItems, pageSize, currentPage int, openEnd bool) PaginationInfo {
	totalPages := PagesCount(totalItems, pageSize)
	currentPage = ClampPage(currentPage, totalPages)

	startIndex := 0
	endIndex := 0
	if pageSize > 0 {
		startIndex = (currentPage - 1) * pageSize
		endIndex = min(startIndex+pageSize, totalItems)
	} else {
		endIndex = max(totalItems, 0)
	}

	return PaginationInfo{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PageSize:    pageSize,
		OpenEnd:     openEnd,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages || openEnd,
		StartIndex:  startIndex,
		EndIndex:    endIndex,
	}
}
