// Package listing applies the page side effects of a filter change: the
// view select switches the page layout and the order select rearranges the
// items using precomputed orders.
package listing

import (
	"sync"

	"github.com/goliatone/go-formquery/internal/logging"
	"github.com/goliatone/go-formquery/pkg/formquery"
	"github.com/goliatone/go-formquery/pkg/schema"
)

// Default control ids and grid view.
const (
	DefaultViewControl  = "view"
	DefaultOrderControl = "order"
	DefaultGridView     = "cuadricula"
)

// Change records a tracked control moving from one value to another.
type Change struct {
	Control string `json:"control"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// Page is the rendered state the side effects act upon.
type Page struct {
	View  string   `json:"view"`
	Order []string `json:"order"`

	// Expandable is set in the grid view, where clicking a poster expands
	// its item in place.
	Expandable bool `json:"expandable,omitempty"`
}

type options struct {
	viewControl  string
	orderControl string
	gridView     string
}

// Option customises a Tracker.
type Option func(*options)

// WithControls overrides the ids of the view and order selects.
func WithControls(view, order string) Option {
	return func(o *options) {
		o.viewControl = view
		o.orderControl = order
	}
}

// WithGridView names the view in which posters expand in place.
func WithGridView(name string) Option {
	return func(o *options) {
		o.gridView = name
	}
}

// Tracker remembers the last applied value of the view and order selects,
// starting from their defaults, and updates the Page when they change.
type Tracker struct {
	mu      sync.Mutex
	opts    options
	cfg     *schema.Config
	catalog Catalog
	current map[string]string
	page    Page
}

// NewTracker builds a tracker whose page shows the catalog in its own order
// under the default view.
func NewTracker(cfg *schema.Config, catalog Catalog, opts ...Option) *Tracker {
	o := options{
		viewControl:  DefaultViewControl,
		orderControl: DefaultOrderControl,
		gridView:     DefaultGridView,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	t := &Tracker{
		opts:    o,
		cfg:     cfg,
		catalog: catalog,
		current: make(map[string]string),
		page:    Page{Order: catalog.IDs()},
	}
	for _, id := range []string{o.viewControl, o.orderControl} {
		t.current[id] = t.defaultOf(id)
	}
	t.page.View = t.current[o.viewControl]
	t.page.Expandable = t.page.View == o.gridView
	return t
}

// Apply reconciles the page with a freshly read form state and returns the
// changes it acted upon.
func (t *Tracker) Apply(state formquery.State) []Change {
	t.mu.Lock()
	defer t.mu.Unlock()

	var changes []Change
	for _, id := range []string{t.opts.viewControl, t.opts.orderControl} {
		next := state.String(id)
		if next == "" {
			next = t.defaultOf(id)
		}
		prev := t.current[id]
		if next == prev {
			continue
		}
		logging.Debug("listing: %s %s -> %s", id, prev, next)
		switch id {
		case t.opts.viewControl:
			t.page.View = next
			t.page.Expandable = next == t.opts.gridView
		case t.opts.orderControl:
			t.page.Order = t.reorder(next)
		}
		t.current[id] = next
		changes = append(changes, Change{Control: id, From: prev, To: next})
	}
	return changes
}

// Page returns a copy of the current page.
func (t *Tracker) Page() Page {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.page
	out.Order = append([]string(nil), t.page.Order...)
	return out
}

// Items returns the catalog items in the current page order.
func (t *Tracker) Items() []Item {
	order := t.Page().Order
	out := make([]Item, 0, len(order))
	for _, id := range order {
		if item, ok := t.catalog.Item(id); ok {
			out = append(out, item)
		}
	}
	return out
}

// reorder moves the items listed by the named order to the end, in that
// order; unlisted items keep their relative position in front.
func (t *Tracker) reorder(name string) []string {
	listed, ok := t.catalog.Orders[name]
	if !ok {
		logging.Warn("listing: no precomputed order %q", name)
		return t.page.Order
	}
	inOrder := make(map[string]struct{}, len(listed))
	for _, id := range listed {
		inOrder[id] = struct{}{}
	}
	out := make([]string, 0, len(t.page.Order))
	for _, id := range t.page.Order {
		if _, ok := inOrder[id]; !ok {
			out = append(out, id)
		}
	}
	return append(out, listed...)
}

func (t *Tracker) defaultOf(id string) string {
	ctrl, ok := t.cfg.Control(id)
	if !ok {
		return ""
	}
	return ctrl.Default()
}
