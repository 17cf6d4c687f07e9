package views

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/health"
)

const (
	hoursPerDay   = 24
	hoursPerWeek  = hoursPerDay * 7
	hoursPerMonth = hoursPerDay * 30
	hoursPerYear  = hoursPerDay * 365
)

// formatRelativeTime converts a time.Time to a human-readable relative time string.
func formatRelativeTime(t time.Time) string {
	return relativeTime(time.Since(t))
}

func relativeTime(duration time.Duration) string {
	switch {
	case duration < 0:
		return "in the future"
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		return plural(int(duration.Minutes()), "minute")
	case duration < hoursPerDay*time.Hour:
		return plural(int(duration.Hours()), "hour")
	case duration < hoursPerWeek*time.Hour:
		days := int(duration.Hours() / hoursPerDay)
		if days == 1 {
			return "yesterday"
		}
		return plural(days, "day")
	case duration < hoursPerMonth*time.Hour:
		return plural(int(duration.Hours()/hoursPerWeek), "week")
	case duration < hoursPerYear*time.Hour:
		return plural(int(duration.Hours()/hoursPerMonth), "month")
	default:
		return plural(int(duration.Hours()/hoursPerYear), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// truncate shortens s to length runes for display.
func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length]) + "..."
}

// Icon renders an SVG icon from the sprite sheet. class is "icon" or "icon-sm".
func Icon(name string, class string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<svg class="%s" aria-hidden="true"><use href="/static/icons.svg#%s"></use></svg>`,
			esc(class), esc(name))
		return err
	})
}

// itemIconName returns the sprite icon of a browser row.
func itemIconName(it browser.Item) string {
	switch it.Kind {
	case browser.KindScope:
		return "layers"
	case browser.KindDataset:
		return "database"
	case browser.KindPrefix:
		return "folder"
	}
	return getFileIconName(it.Name)
}

// getFileIconName returns an appropriate icon name for a file based on its extension.
func getFileIconName(filename string) string {
	ext := strings.ToLower(filename)
	lastDot := strings.LastIndex(ext, ".")
	if lastDot == -1 {
		return "file"
	}
	ext = ext[lastDot+1:]

	switch {
	case slices.Contains([]string{"jpg", "jpeg", "png", "gif", "bmp", "svg", "webp", "ico", "tif", "tiff"}, ext):
		return "file-image"
	case slices.Contains([]string{"xls", "xlsx", "ods", "csv", "tsv", "parquet"}, ext):
		return "file-spreadsheet"
	case slices.Contains([]string{"zip", "rar", "7z", "tar", "gz", "bz2", "zst"}, ext):
		return "file-archive"
	case slices.Contains([]string{"txt", "md", "doc", "docx", "pdf", "rtf", "json"}, ext):
		return "file-text"
	}
	return "file"
}

// StatusBadge renders the health status of a dependency.
func StatusBadge(name string, status health.Status, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		icon := "check-circle"
		class := "badge"
		if status != health.StatusHealthy {
			icon = "x-circle"
			class = "badge notice-error"
		}
		h.printf(`<span class="%s" role="status">`, class)
		h.render(ctx, Icon(icon, "icon-sm"))
		h.printf(`<span>%s: %s</span>`, esc(name), esc(string(status)))
		if message != "" {
			h.printf(` <small title="%s">%s</small>`, esc(message), esc(truncate(message, 40)))
		}
		h.printf(`</span>`)
		return h.err
	})
}

// SkipToContent renders a skip to content link for accessibility.
func SkipToContent() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<a href="#main-content" class="sr-only skip-link">Skip to main content</a>`)
		return err
	})
}
