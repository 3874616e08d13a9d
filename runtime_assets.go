package formquery

import (
	"io/fs"

	vanilla "github.com/goliatone/go-formquery/pkg/renderers/vanilla"
)

// RuntimeAssetsFS exposes the page stylesheet and script the HTML renderer
// links to.
//
// Typical mount:
//
//	r.PathPrefix("/runtime/").Handler(
//	  http.StripPrefix("/runtime/",
//	    http.FileServerFS(formquery.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
