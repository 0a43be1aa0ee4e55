// Package web embeds the single-page dashboard client.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html
var IndexHTML []byte

//go:embed static
var assets embed.FS

// Static returns the files under static/, rooted at that directory.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
