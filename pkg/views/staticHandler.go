package views

import "net/http"

// GetStaticHandler returns the static handler (for CSS, scripts and icons)
func (v *Views) GetStaticHandler() http.Handler {
	return v.staticHandler
}
