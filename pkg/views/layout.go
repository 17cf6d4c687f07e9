package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const appName = "dsxplorer"

// Layout wraps a page body with the document head and the top bar.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if title == "" {
			title = appName
		} else {
			title += " - " + appName
		}
		h.printf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="icon" type="image/png" href="/favicon.ico">
<link rel="stylesheet" href="/static/app.css">
<script src="/static/app.js"></script>
</head>
<body>
`, esc(title))
		h.render(ctx, SkipToContent())
		h.printf(`<header class="topbar">
<a href="/">`)
		h.render(ctx, Icon("database", "icon"))
		h.printf(` %s</a>
<button type="button" class="btn" onclick="toggleTheme()" aria-label="Toggle theme">Theme</button>
</header>
<main id="main-content">
`, appName)
		h.render(ctx, body)
		h.printf("\n</main>\n</body>\n</html>\n")
		return h.err
	})
}
