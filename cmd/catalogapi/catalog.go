package main

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/Nicko-rgb/client-ecomerse-sub000/internal/catalog"
)

// catalogEntry is one product as stored in the catalog file. It is the
// wire Product plus server-only flags.
type catalogEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
	Featured    bool     `json:"featured"`
}

func (e catalogEntry) product() catalog.Product {
	return catalog.Product{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Price:       e.Price,
		Category:    e.Category,
		Stock:       e.Stock,
		Images:      e.Images,
	}
}

// productCatalog serves a file-backed, read-only product collection.
type productCatalog struct {
	mu      sync.RWMutex
	entries []catalogEntry
}

// loadCatalog reads and parses the catalog file.
func loadCatalog(path string) (*productCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read catalog file %s", path)
	}
	var parsed struct {
		Products []catalogEntry `json:"products"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, errors.Wrapf(err, "failed to parse catalog file %s", path)
	}
	return &productCatalog{entries: parsed.Products}, nil
}

// List applies category and search filters, then paginates. Pages are
// 1-based; hasMore reports whether a later page exists.
func (c *productCatalog) List(category, search string, page, limit int) ([]catalog.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var filtered []catalog.Product
	for _, e := range c.entries {
		if category != "" && !strings.EqualFold(e.Category, category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(search)) {
			continue
		}
		filtered = append(filtered, e.product())
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(filtered) {
		return []catalog.Product{}, false
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], end < len(filtered)
}

// Featured returns the products flagged featured in the catalog file.
func (c *productCatalog) Featured() []catalog.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []catalog.Product{}
	for _, e := range c.entries {
		if e.Featured {
			out = append(out, e.product())
		}
	}
	return out
}

// Categories returns the distinct category names in catalog order.
func (c *productCatalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range c.entries {
		if e.Category == "" {
			continue
		}
		if _, dup := seen[e.Category]; dup {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// Get looks a product up by id.
func (c *productCatalog) Get(id string) (catalog.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if e.ID == id {
			return e.product(), true
		}
	}
	return catalog.Product{}, false
}

// Related returns other products sharing the category of the given id.
func (c *productCatalog) Related(id string) ([]catalog.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var ref *catalogEntry
	for i := range c.entries {
		if c.entries[i].ID == id {
			ref = &c.entries[i]
			break
		}
	}
	if ref == nil {
		return nil, false
	}

	out := []catalog.Product{}
	for _, e := range c.entries {
		if e.ID == id || !strings.EqualFold(e.Category, ref.Category) {
			continue
		}
		out = append(out, e.product())
	}
	return out, true
}
