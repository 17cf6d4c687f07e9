package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

var (
	// ErrInvalidPageFormat is returned when the page parameter cannot be parsed as a number.
	ErrInvalidPageFormat = errors.New("invalid page parameter: must be a number")

	// ErrInvalidPageValue is returned when the page parameter is less than 1.
	ErrInvalidPageValue = errors.New("invalid page parameter: must be >= 1")

	// ErrInvalidPageSize is returned when the size parameter is not a positive number up to MaxPageSize.
	ErrInvalidPageSize = errors.New("invalid size parameter")

	// ErrInvalidIndex is returned when a selected row index is not a number.
	ErrInvalidIndex = errors.New("invalid index parameter")
)

// MaxPageSize is the largest number of rows per page.
const MaxPageSize = 1000

// ParsePaginationParams extracts and validates the page number from HTTP request query parameters.
// It returns the page number (1-indexed) or an error if parsing fails.
//
// Behavior:
//   - Missing parameter: Returns page=1, no error
//   - Empty parameter: Returns page=1, no error
//   - Valid number >= 1: Returns the number, no error
//   - Invalid format (non-numeric): Returns 0, error
//   - Number < 1: Returns 0, error
//
// Pages past the last one are accepted; the browser either fetches the next
// remote page or clamps.
func ParsePaginationParams(r *http.Request) (int, error) {
	pageStr := r.URL.Query().Get("page")

	if pageStr == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPageFormat, err)
	}

	if page < 1 {
		return 0, ErrInvalidPageValue
	}

	return page, nil
}

// ParsePageSize reads the size query parameter. A missing parameter returns
// 0, which the browser replaces with its default page size.
func ParsePageSize(r *http.Request) (int, error) {
	sizeStr := r.URL.Query().Get("size")
	if sizeStr == "" {
		return 0, nil
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 || size > MaxPageSize {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPageSize, sizeStr)
	}
	return size, nil
}

// parseIndexes reads the index form values of a selection.
func parseIndexes(r *http.Request) ([]int, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}
	values := r.PostForm["index"]
	indexes := make([]int, 0, len(values))
	for _, v := range values {
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIndex, v)
		}
		indexes = append(indexes, i)
	}
	return indexes, nil
}
