package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

// DefaultFetchTimeout bounds every remote listing.
const DefaultFetchTimeout = 30 * time.Second

// ErrRowOutOfRange is returned when a row index does not match a filtered item.
var ErrRowOutOfRange = errors.New("row index out of range")

// Config configures a Browser.
type Config struct {
	// Scheme of the selection URIs, "s3" by default.
	Scheme string
	// PageSize is the number of rows per local page.
	PageSize int
	// ListPageSize is the number of entries asked per remote listing, 0 lets
	// the lister decide.
	ListPageSize int
	Pinned       bool
	ManageMode   bool
	// Selectable lists the item kinds that can be selected.
	Selectable   []ItemKind
	FetchTimeout time.Duration
}

// Browser drives one browser state. All transitions go through Reduce under
// a single lock. Remote listings run in goroutines; every listing is tagged
// and its result is dropped if another transition happened in the meantime.
type Browser struct {
	cfg      Config
	lister   Lister
	catalog  Catalog
	identity Identity
	notifier Notifier
	log      *slog.Logger

	mu      sync.Mutex
	state   State
	fetchID uint64
	// baseLocation is the location the filter text is relative to and
	// filterPrefix the path part of the filter text already navigated to.
	baseLocation string
	filterPrefix string
	localFiles   []UploadFile
	pending      []notification
	onChange     func(State)
	onSelect     func(string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type notification struct {
	message  string
	severity Severity
}

// New creates a browser at the top level. lister serves dataset contents and
// catalog the datasets; identity resolves private and project scopes.
// notifier may be nil.
func New(cfg Config, lister Lister, catalog Catalog, identity Identity, notifier Notifier) *Browser {
	if cfg.Scheme == "" {
		cfg.Scheme = "s3"
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if identity == nil {
		identity = StaticIdentity{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &Browser{
		cfg:      cfg,
		lister:   lister,
		catalog:  catalog,
		identity: identity,
		notifier: notifier,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:    NewState(cfg.PageSize, cfg.Pinned, cfg.ManageMode),
		ctx:      ctx,
		cancel:   cancel,
	}
	b.update(func() bool {
		b.applyContextLocked(nil)
		return true
	})
	return b
}

// SetLogger sets the logger
func (b *Browser) SetLogger(log *slog.Logger) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = log
}

// OnChange registers a function called with a snapshot after every applied
// transition. It is called without the browser lock held.
func (b *Browser) OnChange(fn func(State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// OnSelectionChange registers a function receiving the URI of the first
// selected item, or "" when the selection is empty.
func (b *Browser) OnSelectionChange(fn func(uri string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onSelect = fn
}

// State returns a snapshot of the current state.
func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

// Table returns the table of the current page.
func (b *Browser) Table() TableConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return TableConfigFor(b.state.Mode(), b.state, b.cfg.Selectable)
}

// Config returns the browser configuration.
func (b *Browser) Config() Config {
	return b.cfg
}

// Wait blocks until no listing is in flight.
func (b *Browser) Wait() {
	b.wg.Wait()
}

// Close cancels in-flight listings and waits for them.
func (b *Browser) Close() {
	b.cancel()
	b.wg.Wait()
}

// SetResource moves the browser to the location of a storage URI. URIs that
// are not dataset URIs lead to the top level.
func (b *Browser) SetResource(uri string) {
	ctx := dataset.Decode(uri)
	b.update(func() bool {
		if ctx == nil && uri != "" {
			b.log.Debug("not a dataset uri", slog.String("uri", uri))
		}
		b.applyContextLocked(ctx)
		return true
	})
}

// Navigate moves the browser to ctx, nil being the top level.
func (b *Browser) Navigate(ctx *dataset.Context) {
	b.update(func() bool {
		b.applyContextLocked(ctx)
		return true
	})
}

// NavigateHref moves the browser to the context serialized in a crumb href.
func (b *Browser) NavigateHref(href string) error {
	ctx, err := ParseHref(href)
	if err != nil {
		return fmt.Errorf("NavigateHref: %w", err)
	}
	b.Navigate(ctx)
	return nil
}

// OpenRow follows the row at index in the filtered items. It reports whether
// the browser moved; objects are terminal and never move it.
func (b *Browser) OpenRow(index int) (bool, error) {
	moved := false
	var err error
	b.update(func() bool {
		items := b.state.Filter.FilteredItems
		if index < 0 || index >= len(items) {
			err = fmt.Errorf("OpenRow: %d: %w", index, ErrRowOutOfRange)
			return false
		}
		target := rowTarget(b.state.Mode(), b.state.Context, items[index])
		if target == nil {
			return false
		}
		b.applyContextLocked(target)
		moved = true
		return true
	})
	return moved, err
}

// Refresh reloads the current context.
func (b *Browser) Refresh() {
	b.update(func() bool {
		b.applyContextLocked(b.state.Context)
		return true
	})
}

// SetFilterText applies the text typed in the filter. In resource mode a path
// typed before the last slash navigates into that prefix and only the rest
// is matched against item names.
func (b *Browser) SetFilterText(text string) {
	b.update(func() bool {
		if b.state.Mode() != ModeResource {
			b.state = Reduce(b.state, SetFilter{FilteringText: &text, FilteringTextDisplay: &text})
			return true
		}

		typedPrefix := dataset.PrefixForPath(text)
		if typedPrefix != b.filterPrefix {
			base := b.baseLocation
			target := b.state.Context.Clone()
			target.Location = base + typedPrefix
			b.applyContextLocked(target)
			b.baseLocation = base
			b.filterPrefix = typedPrefix
		}
		b.state = Reduce(b.state, SetFilter{
			FilteringText:        Ptr(dataset.ResourceForPath(text)),
			FilteringTextDisplay: &text,
		})
		return true
	})
}

// SetPage moves to a local page. Asking for the page after the last one while
// the remote listing has more entries fetches the next remote page first.
func (b *Browser) SetPage(page int) {
	b.update(func() bool {
		requestedPageAvailable := page <= b.state.Pagination.PagesCount
		if !requestedPageAvailable && b.state.NextToken != "" && !b.state.ManageMode && b.state.Mode() == ModeResource {
			if b.state.Loading {
				return false
			}
			b.fetchContentsLocked(b.state.Items, b.state.NextToken, page)
			return true
		}
		b.state = Reduce(b.state, SetPagination{CurrentPageIndex: &page})
		return true
	})
}

// SetPageSize changes the number of rows per page.
func (b *Browser) SetPageSize(size int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	b.update(func() bool {
		b.state = Reduce(b.state, SetState{PageSize: &size})
		return true
	})
}

// Select replaces the selection with the filtered items at indexes. Items
// that are not selectable are ignored.
func (b *Browser) Select(indexes []int) {
	var uri string
	b.update(func() bool {
		selected := []Item{}
		if b.state.Mode() != ModeScope {
			items := b.state.Filter.FilteredItems
			for _, i := range indexes {
				if i < 0 || i >= len(items) || !slices.Contains(b.cfg.Selectable, items[i].Kind) {
					continue
				}
				selected = append(selected, items[i])
			}
		}
		b.state = Reduce(b.state, SetState{SelectedItems: &selected})
		if len(selected) > 0 {
			uri = SelectionURI(b.cfg.Scheme, selected[0])
		}
		return true
	})

	b.mu.Lock()
	onSelect := b.onSelect
	b.mu.Unlock()
	if onSelect != nil {
		onSelect(uri)
	}
}

// update runs fn under the lock, recomputes the derived state when fn reports
// a change, then publishes the snapshot and queued notifications.
func (b *Browser) update(fn func() bool) {
	b.mu.Lock()
	changed := fn()
	if changed {
		b.state = Derive(b.state)
	}
	snapshot := b.state.Clone()
	onChange := b.onChange
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	for _, n := range pending {
		if b.notifier != nil {
			b.notifier.Notify(n.message, n.severity)
		}
	}
	if changed && onChange != nil {
		onChange(snapshot)
	}
}

// applyContextLocked switches to ctx and starts loading its items.
func (b *Browser) applyContextLocked(ctx *dataset.Context) {
	ctx = ctx.Normalize()
	// invalidates whatever is in flight
	b.fetchID++

	b.state = Reduce(b.state, SetContext{Context: ctx})
	b.state = Reduce(b.state, SetState{Loading: Ptr(false)})
	b.state = Reduce(b.state, SetPagination{CurrentPageIndex: Ptr(1)})
	b.baseLocation = ""
	b.filterPrefix = ""
	if ctx != nil {
		b.baseLocation = dataset.PrefixForPath(ctx.Location)
	}

	switch ResolveMode(ctx) {
	case ModeScope:
		b.state = Reduce(b.state, SetState{Items: Ptr(ScopeItems())})
	case ModeDataset:
		b.fetchDatasetsLocked()
	case ModeResource:
		if b.state.ManageMode {
			b.state = Reduce(b.state, SetState{Items: Ptr(b.localItemsLocked())})
			return
		}
		b.fetchContentsLocked(nil, "", 0)
	}
}

// fetchContentsLocked lists the current dataset location. The result is
// appended to base; page, when positive, becomes the current page.
func (b *Browser) fetchContentsLocked(base []Item, token string, page int) {
	b.fetchID++
	id := b.fetchID
	target := b.state.Context.Clone()
	base = slices.Clone(base)

	if b.lister == nil {
		b.failLocked(target, errors.New("no lister configured"))
		return
	}

	req := ListRequest{
		Type:        target.Type,
		Scope:       dataset.ResolveScope(target, PrincipalOf(b.identity)),
		DatasetName: target.Name,
		Prefix:      dataset.PrefixForPath(target.Location),
		NextToken:   token,
		PageSize:    b.cfg.ListPageSize,
	}
	b.state = Reduce(b.state, SetState{Loading: Ptr(true)})
	b.log.Debug("list dataset contents",
		slog.String("type", string(req.Type)),
		slog.String("scope", req.Scope),
		slog.String("dataset", req.DatasetName),
		slog.String("prefix", req.Prefix),
		slog.Bool("continuation", token != ""))

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(b.ctx, b.cfg.FetchTimeout)
		defer cancel()
		res, err := b.lister.ListDatasetContents(ctx, req)

		b.update(func() bool {
			if !b.currentLocked(id) {
				return false
			}
			if err != nil {
				b.failLocked(target, err)
				return true
			}
			items := base
			for _, r := range res.Contents {
				items = append(items, ItemFromResource(r, res.Bucket))
			}
			b.state = Reduce(b.state, SetState{
				Items:     &items,
				NextToken: &res.NextToken,
				Loading:   Ptr(false),
			})
			if page > 0 {
				b.state = Reduce(b.state, SetPagination{CurrentPageIndex: &page})
			}
			return true
		})
	}()
}

// fetchDatasetsLocked lists the catalog datasets of the current type.
func (b *Browser) fetchDatasetsLocked() {
	b.fetchID++
	id := b.fetchID
	target := b.state.Context.Clone()

	if b.catalog == nil {
		b.state = Reduce(b.state, SetState{Items: &[]Item{}})
		return
	}
	b.state = Reduce(b.state, SetState{Loading: Ptr(true)})

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(b.ctx, b.cfg.FetchTimeout)
		defer cancel()
		datasets, err := b.catalog.ListDatasets(ctx)

		b.update(func() bool {
			if !b.currentLocked(id) {
				return false
			}
			if err != nil {
				b.failLocked(target, err)
				return true
			}
			items := []Item{}
			for _, ds := range datasets {
				if ds.Type == target.Type && (target.Scope == "" || ds.Scope == target.Scope) {
					items = append(items, ItemFromDataset(ds))
				}
			}
			b.state = Reduce(b.state, SetState{Items: &items, Loading: Ptr(false)})
			return true
		})
	}()
}

// currentLocked reports whether the listing tagged id is still wanted.
func (b *Browser) currentLocked(id uint64) bool {
	if id != b.fetchID {
		b.log.Debug("dropping stale listing", slog.Uint64("id", id), slog.Uint64("current", b.fetchID))
		return false
	}
	if b.ctx.Err() != nil {
		return false
	}
	return true
}

// failLocked returns to the top level and queues one error notification.
func (b *Browser) failLocked(target *dataset.Context, err error) {
	b.log.Error("listing failed",
		slog.String("context", EncodeHref(target)),
		slog.String("error", err.Error()))
	b.pending = append(b.pending, notification{
		message:  "Unable to load " + describe(target) + ": " + err.Error(),
		severity: SeverityError,
	})
	b.applyContextLocked(nil)
}

func describe(ctx *dataset.Context) string {
	switch ResolveMode(ctx) {
	case ModeResource:
		return "dataset " + ctx.Name
	case ModeDataset:
		return TypeLabel(ctx.Type) + " datasets"
	}
	return "scopes"
}
