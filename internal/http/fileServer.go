package http

import (
	"io/fs"
	"net/http"
	"strings"
)

// NewFileServerHandler serves embedded static assets.
func NewFileServerHandler(assets fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(assets))

	return func(w http.ResponseWriter, r *http.Request) {
		// Prevent serving the static.go file
		if strings.HasSuffix(r.URL.Path, ".go") {
			http.NotFound(w, r)
			return
		}

		// No directory listings
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}

		fileServer.ServeHTTP(w, r)
	}
}
