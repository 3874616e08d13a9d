package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

const (
	StylesheetName    = "formquery.css"
	RuntimeScriptName = "formquery.js"
)

// TemplatesFS exposes the embedded page templates.
func TemplatesFS() fs.FS {
	return subFS(embeddedTemplates, "templates")
}

// AssetsFS exposes the stylesheet and page script so callers can serve them
// over HTTP.
func AssetsFS() fs.FS {
	return subFS(embeddedAssets, "assets")
}

func subFS(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return fsys
	}
	return sub
}
