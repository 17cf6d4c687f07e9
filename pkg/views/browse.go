package views

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/health"
)

// Notice is a message shown above the table.
type Notice struct {
	Message  string
	Severity browser.Severity
}

// BrowsePage is what the browse page displays.
type BrowsePage struct {
	State   browser.State
	Table   browser.TableConfig
	Notices []Notice
	// Selection is the URI of the first selected item.
	Selection string
	CanUpload bool
	CanDelete bool
	Health    []health.Info
}

// PageSizes are the choices of the page size selector.
var PageSizes = []int{10, 20, 50, 100}

// Browse renders the dataset browser.
func Browse(p BrowsePage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		for _, n := range p.Notices {
			h.printf(`<div class="notice notice-%s" role="alert">%s</div>`+"\n", esc(string(n.Severity)), esc(n.Message))
		}
		h.render(ctx, Breadcrumbs(p.State.Breadcrumbs))
		h.printf(`<section class="card">
<h1>%s</h1>
`, esc(p.Table.Title))
		h.render(ctx, toolbar(p))
		if p.State.Loading {
			h.printf(`<p class="loading">Loading...</p>`)
		}
		h.render(ctx, table(p))
		h.render(ctx, Pagination(p.State.Pagination))
		if p.Selection != "" {
			h.printf(`<div class="selection">Selected: <code>%s</code></div>`, esc(p.Selection))
		}
		if p.CanUpload && p.Table.Mode == browser.ModeResource {
			h.render(ctx, uploadForm())
		}
		h.printf("\n</section>\n")
		if len(p.Health) > 0 {
			h.printf(`<footer class="health">`)
			for _, info := range p.Health {
				h.render(ctx, StatusBadge(info.Name, info.Status, info.LastError))
			}
			h.printf(`</footer>`)
		}
		return h.err
	})
}

// Breadcrumbs renders the path to the current context.
func Breadcrumbs(crumbs []browser.Crumb) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<nav class="breadcrumbs" aria-label="Breadcrumb"><ol>`)
		for i, c := range crumbs {
			if i == len(crumbs)-1 {
				h.printf(`<li aria-current="page">%s</li>`, esc(c.Text))
				continue
			}
			h.printf(`<li><a href="/browse/href?h=%s">%s</a></li>`, esc(url.QueryEscape(c.Href)), esc(c.Text))
		}
		h.printf("</ol></nav>\n")
		return h.err
	})
}

func toolbar(p BrowsePage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<div class="toolbar">
<form method="get" action="/browse/filter" role="search">
<input type="text" name="q" value="%s" placeholder="%s" aria-label="%s">
</form>
<form method="get" action="/browse/pagesize">
<label>Rows <select name="size" onchange="this.form.submit()">`,
			esc(p.State.Filter.FilteringTextDisplay), esc(p.Table.FilterPlaceholder), esc(p.Table.FilterPlaceholder))
		for _, size := range PageSizes {
			selected := ""
			if size == p.State.PageSize {
				selected = " selected"
			}
			h.printf(`<option value="%d"%s>%d</option>`, size, selected, size)
		}
		h.printf(`</select></label>
</form>
<a class="btn" href="/browse/refresh">`)
		h.render(ctx, Icon("refresh", "icon-sm"))
		h.printf(` Refresh</a>
</div>
`)
		return h.err
	})
}

func table(p BrowsePage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		selectable := false
		for _, row := range p.Table.Rows {
			selectable = selectable || row.Selectable
		}

		h.printf(`<form method="post" action="/browse/select">
<table class="listing">
<thead><tr>`)
		if selectable {
			h.printf(`<th><input type="checkbox" aria-label="Select all" onclick="toggleAllKeys(this)"></th>`)
		}
		for _, col := range p.Table.Columns {
			h.printf(`<th scope="col">%s</th>`, esc(col.Header))
		}
		h.printf("</tr></thead>\n<tbody>\n")

		if len(p.Table.Rows) == 0 {
			span := len(p.Table.Columns)
			if selectable {
				span++
			}
			h.printf(`<tr><td class="empty" colspan="%d">%s</td></tr>`+"\n", span, esc(p.Table.Empty))
		}
		for _, row := range p.Table.Rows {
			h.render(ctx, tableRow(p.Table.Columns, row, selectable))
		}
		h.printf("</tbody>\n</table>\n")

		if selectable {
			h.printf(`<div class="toolbar"><button type="submit" class="btn">Select</button>`)
			if p.CanDelete && p.Table.Mode == browser.ModeResource {
				h.printf(`<button type="submit" class="btn btn-danger" formaction="/datasets/delete" onclick="return confirmDelete(this.form)">`)
				h.render(ctx, Icon("trash", "icon-sm"))
				h.printf(` Delete</button>`)
			}
			h.printf(`</div>`)
		}
		h.printf("</form>\n")
		return h.err
	})
}

func tableRow(columns []browser.Column, row browser.Row, selectable bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if row.Selected {
			h.printf(`<tr class="selected">`)
		} else {
			h.printf(`<tr>`)
		}
		if selectable {
			h.printf(`<td>`)
			if row.Selectable {
				checked := ""
				if row.Selected {
					checked = " checked"
				}
				h.printf(`<input type="checkbox" name="index" value="%d" aria-label="Select %s"%s>`, row.Index, esc(row.Item.Name), checked)
			}
			h.printf(`</td>`)
		}
		for i, cell := range row.Cells {
			h.printf(`<td>`)
			switch {
			case i == 0:
				h.render(ctx, Icon(itemIconName(row.Item), "icon-sm"))
				if row.Target != nil {
					h.printf(` <a href="/browse/open/%s">%s</a>`, strconv.Itoa(row.Index), esc(cell))
				} else {
					h.printf(` %s`, esc(cell))
				}
			case i < len(columns) && columns[i].ID == "lastModified" && row.Item.LastModified != nil:
				h.printf(`<time datetime="%s" title="%s">%s</time>`,
					row.Item.LastModified.UTC().Format("2006-01-02T15:04:05Z"), esc(formatRelativeTime(*row.Item.LastModified)), esc(cell))
			default:
				h.printf(`%s`, esc(cell))
			}
			h.printf(`</td>`)
		}
		h.printf("</tr>\n")
		return h.err
	})
}

// Pagination renders the page links. An open end adds a link past the last
// known page.
func Pagination(p browser.Pagination) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		disabled := ""
		if p.Disabled {
			disabled = ` aria-disabled="true"`
		}
		h.printf(`<nav class="pagination" aria-label="Pagination">`)
		if p.CurrentPageIndex > 1 {
			h.printf(`<a class="btn" href="/browse/page?page=%d"%s>Previous</a>`, p.CurrentPageIndex-1, disabled)
		}
		for page := 1; page <= p.PagesCount; page++ {
			if page == p.CurrentPageIndex {
				h.printf(`<span class="btn current" aria-current="page">%d</span>`, page)
				continue
			}
			h.printf(`<a class="btn" href="/browse/page?page=%d"%s>%d</a>`, page, disabled, page)
		}
		if p.OpenEnd {
			h.printf(`<a class="btn" href="/browse/page?page=%d"%s>...</a>`, p.PagesCount+1, disabled)
		}
		if p.CurrentPageIndex < p.PagesCount || p.OpenEnd {
			h.printf(`<a class="btn" href="/browse/page?page=%d"%s>Next</a>`, p.CurrentPageIndex+1, disabled)
		}
		h.printf("</nav>\n")
		return h.err
	})
}

func uploadForm() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<form class="toolbar" method="post" action="/datasets/upload" enctype="multipart/form-data">
<input type="file" name="file" multiple required aria-label="Files to upload">
<button type="submit" class="btn btn-primary">`)
		h.render(ctx, Icon("upload", "icon-sm"))
		h.printf(` Upload</button>
</form>
`)
		return h.err
	})
}
