// Package views renders the HTML pages of the web browser.
package views

import (
	"context"
	"embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

//go:embed static
var staticFS embed.FS

//go:embed static/file-heart.png
var faviconPNG []byte

// StaticHandler serves the embedded assets under /static/.
var StaticHandler = http.FileServer(http.FS(staticFS))

type Views struct {
	staticHandler http.Handler
	log           *slog.Logger
}

func NewViews() *Views {
	return &Views{
		staticHandler: StaticHandler,
		log:           slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger
func (v *Views) SetLogger(log *slog.Logger) {
	v.log = log
}

// Render writes a full page with the given status.
func (v *Views) Render(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(r.Context(), w); err != nil {
		v.log.Error("failed to render page", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	}
}

// htmlWriter keeps the first write error so components can chain writes.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) printf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func esc(s string) string {
	return templ.EscapeString(s)
}
