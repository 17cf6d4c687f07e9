package browser

import (
	"strings"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dto"
)

// Action is a state transition handled by Reduce.
type Action interface {
	isAction()
}

// SetContext moves the browser to another context. Everything fetched for the
// previous context is dropped.
type SetContext struct {
	Context *dataset.Context
}

// SetPagination merges the set fields into the pagination.
type SetPagination struct {
	CurrentPageIndex *int
	PagesCount       *int
	OpenEnd          *bool
	Disabled         *bool
}

// SetFilter merges the set fields into the filter.
type SetFilter struct {
	FilteringText        *string
	FilteringTextDisplay *string
	FilteredItems        *[]Item
}

// SetState merges the set fields into the state.
type SetState struct {
	Items         *[]Item
	SelectedItems *[]Item
	NextToken     *string
	PageSize      *int
	ManageMode    *bool
	Loading       *bool
}

func (SetContext) isAction()    {}
func (SetPagination) isAction() {}
func (SetFilter) isAction()     {}
func (SetState) isAction()      {}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}

// Reduce applies an action to the state and returns the new state. It never
// modifies the slices of the given state.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case SetContext:
		s.Context = a.Context.Clone()
		s.Breadcrumbs = BuildBreadcrumbs(s.Context, s.Pinned)
		s.Items = []Item{}
		s.SelectedItems = []Item{}
		s.NextToken = ""
		s.Filter = Filter{FilteredItems: []Item{}}
	case SetPagination:
		if a.CurrentPageIndex != nil {
			s.Pagination.CurrentPageIndex = *a.CurrentPageIndex
		}
		if a.PagesCount != nil {
			s.Pagination.PagesCount = *a.PagesCount
		}
		if a.OpenEnd != nil {
			s.Pagination.OpenEnd = *a.OpenEnd
		}
		if a.Disabled != nil {
			s.Pagination.Disabled = *a.Disabled
		}
	case SetFilter:
		if a.FilteringText != nil {
			s.Filter.FilteringText = *a.FilteringText
		}
		if a.FilteringTextDisplay != nil {
			s.Filter.FilteringTextDisplay = *a.FilteringTextDisplay
		}
		if a.FilteredItems != nil {
			s.Filter.FilteredItems = *a.FilteredItems
		}
	case SetState:
		if a.Items != nil {
			s.Items = *a.Items
		}
		if a.SelectedItems != nil {
			s.SelectedItems = *a.SelectedItems
		}
		if a.NextToken != nil {
			s.NextToken = *a.NextToken
		}
		if a.PageSize != nil {
			s.PageSize = *a.PageSize
		}
		if a.ManageMode != nil {
			s.ManageMode = *a.ManageMode
		}
		if a.Loading != nil {
			s.Loading = *a.Loading
		}
	}
	return s
}

// FilterItems returns the items whose name contains text. Scope items also
// match on their label. The match is case sensitive.
func FilterItems(items []Item, text string) []Item {
	filtered := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(it.Name, text) {
			filtered = append(filtered, it)
			continue
		}
		// scope rows display their label
		if it.Kind == KindScope && strings.Contains(TypeLabel(it.Type), text) {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

// Derive recomputes the filtered items and the pagination from the items,
// the filter text and the page size.
func Derive(s State) State {
	filtered := FilterItems(s.Items, s.Filter.FilteringText)
	s = Reduce(s, SetFilter{FilteredItems: &filtered})

	p := dto.NewPaginationInfo(len(filtered), s.PageSize, s.Pagination.CurrentPageIndex, s.NextToken != "")
	return Reduce(s, SetPagination{
		CurrentPageIndex: &p.CurrentPage,
		PagesCount:       &p.TotalPages,
		OpenEnd:          &p.OpenEnd,
		Disabled:         Ptr(s.Loading),
	})
}
