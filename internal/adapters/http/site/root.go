// Package site serves the embedded report web pages.
package site

import (
	"context"
	"io"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// serveFileFS mirrors http.ServeFileFS, which is unavailable before Go 1.22.
func serveFileFS(w http.ResponseWriter, req *http.Request, fsys fs.FS, name string) {
	f, err := fsys.Open(name)
	if err != nil {
		http.NotFound(w, req)
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil || stat.IsDir() {
		http.NotFound(w, req)
		return
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, req, stat.Name(), stat.ModTime(), rs)
}

// Register attaches the web page routes to the router. The pages are
// static shells; they load their data from the JSON API.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		serveFileFS(w, req, pagesFS, "index.html")
	})
	r.Get("/report/{owner}/{repo}", func(w http.ResponseWriter, req *http.Request) {
		serveFileFS(w, req, pagesFS, "report.html")
	})
}
