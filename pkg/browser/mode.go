package browser

import (
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/dto"
)

// Mode is what the browser currently lists.
type Mode int

const (
	// ModeScope lists the dataset types.
	ModeScope Mode = iota
	// ModeDataset lists the datasets of a type.
	ModeDataset
	// ModeResource lists the content of a dataset.
	ModeResource
)

func (m Mode) String() string {
	switch m {
	case ModeDataset:
		return "dataset"
	case ModeResource:
		return "resource"
	default:
		return "scope"
	}
}

// ResolveMode returns the mode matching a context.
func ResolveMode(ctx *dataset.Context) Mode {
	switch {
	case ctx == nil || ctx.Type == "":
		return ModeScope
	case ctx.Name == "":
		return ModeDataset
	default:
		return ModeResource
	}
}

// Column is a table column.
type Column struct {
	ID     string
	Header string
}

// Row is a rendered table row. Index is the position of the item in the
// filtered items. Target is where a click on the row leads, nil when the row
// is terminal.
type Row struct {
	Index      int
	Item       Item
	Cells      []string
	Target     *dataset.Context
	Selectable bool
	Selected   bool
}

// TableConfig describes the table of one mode.
type TableConfig struct {
	Mode              Mode
	Title             string
	Columns           []Column
	Rows              []Row
	Empty             string
	FilterPlaceholder string
}

const dateFormat = "2006-01-02 15:04:05"

// TableConfigFor builds the table displaying the current page of s.
// selectable lists the item kinds the caller allows to select; rows are
// never selectable in scope mode.
func TableConfigFor(mode Mode, s State, selectable []ItemKind) TableConfig {
	cfg := TableConfig{Mode: mode}
	switch mode {
	case ModeScope:
		cfg.Title = RootCrumbText
		cfg.Columns = []Column{{ID: "scope", Header: "Scope"}}
		cfg.Empty = "No scopes"
		cfg.FilterPlaceholder = "Find scope"
	case ModeDataset:
		cfg.Title = TypeLabel(s.Context.Type) + " datasets"
		cfg.Columns = []Column{
			{ID: "name", Header: "Name"},
			{ID: "scope", Header: "Scope"},
			{ID: "description", Header: "Description"},
		}
		cfg.Empty = "No datasets"
		cfg.FilterPlaceholder = "Find dataset"
	case ModeResource:
		cfg.Title = s.Context.Name
		cfg.Columns = []Column{
			{ID: "name", Header: "Name"},
			{ID: "type", Header: "Type"},
			{ID: "size", Header: "Size"},
			{ID: "lastModified", Header: "Last modified"},
		}
		cfg.Empty = "No files"
		cfg.FilterPlaceholder = "Find file or enter prefix/"
	}

	start := dto.NewPaginationInfo(len(s.Filter.FilteredItems), s.PageSize, s.Pagination.CurrentPageIndex, false).StartIndex
	for i, it := range s.Page() {
		cfg.Rows = append(cfg.Rows, Row{
			Index:      start + i,
			Item:       it,
			Cells:      cells(mode, it),
			Target:     rowTarget(mode, s.Context, it),
			Selectable: mode != ModeScope && slices.Contains(selectable, it.Kind),
			Selected:   isSelected(s.SelectedItems, it),
		})
	}
	return cfg
}

func cells(mode Mode, it Item) []string {
	switch mode {
	case ModeScope:
		return []string{TypeLabel(it.Type)}
	case ModeDataset:
		return []string{it.Name, it.Scope, it.Description}
	}

	size := "-"
	if it.Size != nil && *it.Size >= 0 {
		size = humanize.IBytes(uint64(*it.Size))
	}
	modified := "-"
	if it.LastModified != nil {
		modified = it.LastModified.Format(dateFormat)
	}
	return []string{it.Name, string(it.Kind), size, modified}
}

func rowTarget(mode Mode, current *dataset.Context, it Item) *dataset.Context {
	switch mode {
	case ModeScope:
		return &dataset.Context{Type: it.Type}
	case ModeDataset:
		t := it.Type
		if current != nil && current.Type != "" {
			t = current.Type
		}
		return &dataset.Context{Type: t, Scope: it.Scope, Name: it.Name}
	case ModeResource:
		if it.Kind != KindPrefix || current == nil {
			return nil
		}
		next := current.Clone()
		next.Location = dataset.StripDatasetPrefix(it.Prefix)
		return next
	}
	return nil
}

func isSelected(selected []Item, it Item) bool {
	return slices.ContainsFunc(selected, func(s Item) bool {
		return s.Kind == it.Kind && s.Name == it.Name && s.Key == it.Key && s.Prefix == it.Prefix && s.Scope == it.Scope
	})
}

// ScopeItems returns one row per known dataset type.
func ScopeItems() []Item {
	items := make([]Item, 0, len(dataset.Types()))
	for _, t := range dataset.Types() {
		items = append(items, Item{Kind: KindScope, Name: string(t), Type: t})
	}
	return items
}

// SelectionURI returns the canonical URI of an item: the object or prefix URI
// for resources and the stored location for datasets.
func SelectionURI(scheme string, it Item) string {
	switch it.Kind {
	case KindObject:
		return scheme + "://" + it.Bucket + "/" + it.Key
	case KindPrefix:
		return scheme + "://" + it.Bucket + "/" + it.Prefix
	case KindDataset:
		return it.Location
	}
	return ""
}
