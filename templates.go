package formquery

import (
	"io/fs"

	vanilla "github.com/goliatone/go-formquery/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// and override them (see vanilla.WithTemplatesDir).
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
