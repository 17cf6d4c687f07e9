// Package browser implements the dataset browser: a virtual file-system
// navigator over the datasets stored in object storage. It is independent of
// any user interface; the web and terminal front ends drive a Browser and
// render its State.
package browser

import (
	"time"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dto"
)

// DefaultPageSize is the number of rows displayed per local page.
const DefaultPageSize = 20

// ItemKind is the kind of a browser row.
type ItemKind string

const (
	KindScope   ItemKind = "scope"
	KindDataset ItemKind = "dataset"
	KindObject  ItemKind = "object"
	KindPrefix  ItemKind = "prefix"
)

// Item is one row of the browser. Depending on Kind it describes a dataset
// type, a catalog dataset or a storage resource.
type Item struct {
	Kind         ItemKind     `json:"kind"`
	Name         string       `json:"name"`
	Type         dataset.Type `json:"type,omitempty"`
	Scope        string       `json:"scope,omitempty"`
	Key          string       `json:"key,omitempty"`
	Prefix       string       `json:"prefix,omitempty"`
	Size         *int64       `json:"size,omitempty"`
	LastModified *time.Time   `json:"lastModified,omitempty"`
	Bucket       string       `json:"bucket,omitempty"`
	Location     string       `json:"location,omitempty"`
	Description  string       `json:"description,omitempty"`
	LocalPath    string       `json:"localPath,omitempty"`
}

// ItemFromResource converts a listed storage resource, attaching the bucket
// of the listing and deriving the display name from the key or prefix.
func ItemFromResource(r dataset.Resource, bucket string) Item {
	kind := KindObject
	if r.Type == dataset.ResourcePrefix {
		kind = KindPrefix
	}
	return Item{
		Kind:         kind,
		Name:         dataset.LastComponent(r.Path()),
		Key:          r.Key,
		Prefix:       r.Prefix,
		Size:         r.Size,
		LastModified: r.LastModified,
		Bucket:       bucket,
	}
}

// ItemFromDataset converts a catalog record.
func ItemFromDataset(ds dataset.Dataset) Item {
	return Item{
		Kind:        KindDataset,
		Name:        ds.Name,
		Type:        ds.Type,
		Scope:       ds.Scope,
		Location:    ds.Location,
		Description: ds.Description,
	}
}

// Crumb is one breadcrumb. Href is a serialized dataset.Context, empty for the
// top level.
type Crumb struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Filter holds the text filter. FilteringTextDisplay is what the user typed,
// FilteringText is the part matched against item names.
type Filter struct {
	FilteringText        string `json:"filteringText"`
	FilteringTextDisplay string `json:"filteringTextDisplay"`
	FilteredItems        []Item `json:"filteredItems"`
}

// Pagination is the local pagination over the filtered items.
type Pagination struct {
	CurrentPageIndex int  `json:"currentPageIndex"`
	PagesCount       int  `json:"pagesCount"`
	OpenEnd          bool `json:"openEnd"`
	Disabled         bool `json:"disabled"`
}

// State is the state of one browser instance.
type State struct {
	Context       *dataset.Context `json:"context,omitempty"`
	Breadcrumbs   []Crumb          `json:"breadcrumbs"`
	Items         []Item           `json:"items"`
	SelectedItems []Item           `json:"selectedItems"`
	NextToken     string           `json:"nextToken,omitempty"`
	Filter        Filter           `json:"filter"`
	Pagination    Pagination       `json:"pagination"`
	PageSize      int              `json:"pageSize"`
	Pinned        bool             `json:"pinned"`
	ManageMode    bool             `json:"manageMode"`
	Loading       bool             `json:"loading"`
}

// NewState returns the initial state at the top level.
func NewState(pageSize int, pinned, manageMode bool) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		Breadcrumbs:   BuildBreadcrumbs(nil, pinned),
		Items:         []Item{},
		SelectedItems: []Item{},
		Filter:        Filter{FilteredItems: []Item{}},
		Pagination:    Pagination{CurrentPageIndex: 1, PagesCount: 1},
		PageSize:      pageSize,
		Pinned:        pinned,
		ManageMode:    manageMode,
	}
}

// Mode returns the display mode of the current context.
func (s State) Mode() Mode {
	return ResolveMode(s.Context)
}

// Page returns the filtered items displayed on the current page.
func (s State) Page() []Item {
	p := dto.NewPaginationInfo(len(s.Filter.FilteredItems), s.PageSize, s.Pagination.CurrentPageIndex, s.Pagination.OpenEnd)
	return s.Filter.FilteredItems[p.StartIndex:p.EndIndex]
}

// Clone returns a deep enough copy of the state to be handed out of a Browser.
func (s State) Clone() State {
	s.Context = s.Context.Clone()
	s.Breadcrumbs = append([]Crumb(nil), s.Breadcrumbs...)
	s.Items = append([]Item{}, s.Items...)
	s.SelectedItems = append([]Item{}, s.SelectedItems...)
	s.Filter.FilteredItems = append([]Item{}, s.Filter.FilteredItems...)
	return s
}
