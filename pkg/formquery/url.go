package formquery

import (
	"strings"

	"github.com/goliatone/go-formquery/pkg/schema"
)

// RewriteURL replaces the query of rawURL with the encoding of state. The
// boolean reports whether the URL changed; callers replace the current
// history entry only when it did. Fragments are preserved.
func RewriteURL(cfg *schema.Config, rawURL string, state State) (string, bool) {
	base, fragment := rawURL, ""
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base, fragment = base[:i], base[i:]
	}
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	next := base + Search(cfg, state) + fragment
	return next, next != rawURL
}

// Sync encodes the current form and rewrites rawURL to match.
func (f *Form) Sync(rawURL string) (string, bool) {
	return RewriteURL(f.cfg, rawURL, f.Read())
}

// Load decodes search and applies it to a freshly reset form.
func (f *Form) Load(search string) []Rejection {
	state, rejected := Decode(f.cfg, search)
	f.Reset()
	f.Apply(state)
	return rejected
}
