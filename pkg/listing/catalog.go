package listing

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item is one entry of the listing.
type Item struct {
	ID     string            `json:"id" yaml:"id"`
	Title  string            `json:"title" yaml:"title"`
	URL    string            `json:"url" yaml:"url"`
	Poster string            `json:"poster,omitempty" yaml:"poster,omitempty"`
	Meta   map[string]string `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Orders maps an order option to the item ids in that order.
type Orders map[string][]string

// Catalog is the listing content plus its precomputed orders.
type Catalog struct {
	Items  []Item `json:"items" yaml:"items"`
	Orders Orders `json:"orders" yaml:"orders"`
}

// IDs returns the item ids in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ID
	}
	return ids
}

// Item looks up an item by id.
func (c Catalog) Item(id string) (Item, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// ParseCatalog decodes a JSON or YAML catalog and checks that every order
// only references known items.
func ParseCatalog(data []byte, source string) (Catalog, error) {
	if strings.TrimSpace(string(data)) == "" {
		return Catalog{}, fmt.Errorf("listing: catalog %s is empty", source)
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		cat = Catalog{}
		if yerr := yaml.Unmarshal(data, &cat); yerr != nil {
			return Catalog{}, fmt.Errorf("listing: parse %s: invalid JSON or YAML", source)
		}
	}

	known := make(map[string]struct{}, len(cat.Items))
	for _, item := range cat.Items {
		if item.ID == "" {
			return Catalog{}, fmt.Errorf("listing: %s: item without id", source)
		}
		if _, dup := known[item.ID]; dup {
			return Catalog{}, fmt.Errorf("listing: %s: duplicate item %q", source, item.ID)
		}
		known[item.ID] = struct{}{}
	}
	for name, ids := range cat.Orders {
		for _, id := range ids {
			if _, ok := known[id]; !ok {
				return Catalog{}, fmt.Errorf("listing: %s: order %q references unknown item %q", source, name, id)
			}
		}
	}
	return cat, nil
}

// LoadCatalog reads name from fsys.
func LoadCatalog(fsys fs.FS, name string) (Catalog, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Catalog{}, fmt.Errorf("listing: read %s: %w", name, err)
	}
	return ParseCatalog(data, name)
}
