package views

import (
	"bytes"
	"net/http"
	"time"
)

// FaviconHandler handles the favicon.ico request
func FaviconHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=7776000")
	http.ServeContent(w, r, "favicon.png", time.Time{}, bytes.NewReader(faviconPNG))
}
