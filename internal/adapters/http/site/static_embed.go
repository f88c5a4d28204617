package site

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var staticFS embed.FS

// pagesFS exposes a sub-filesystem rooted at static/.
var pagesFS fs.FS = func() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}()
