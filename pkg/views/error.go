package views

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// ErrorPage shows a message and a way back to the top level.
func ErrorPage(status int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<div class="card notice-error" role="alert">
<h1>`)
		h.render(ctx, Icon("x-circle", "icon"))
		h.printf(` %d %s</h1>
<p>%s</p>
<p><a href="/">Back to datasets</a></p>
</div>`, status, esc(http.StatusText(status)), esc(message))
		return h.err
	})
}

// HandlerError renders the error page
func (v *Views) HandlerError(response http.ResponseWriter, request *http.Request, status int, errorStr string) {
	v.Render(response, request, status, Layout("Error", ErrorPage(status, errorStr)))
}
