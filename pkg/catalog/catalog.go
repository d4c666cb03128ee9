package catalog

import (
	"strings"

	verrors "github.com/Humphrey-He/vanya/pkg/errors"
)

// Catalog is a read-only product list. Every accessor returns copies, so the
// products a Catalog was built from are never mutated at runtime.
type Catalog struct {
	products []Product
	index    map[string]int
}

// New builds a catalog from products, keeping their order.
// Later duplicates of an id are ignored by Find.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for i, p := range products {
		c.products[i] = p.Clone()
		if _, seen := c.index[p.ID]; !seen {
			c.index[p.ID] = i
		}
	}
	return c
}

// Default returns the compiled-in catalog.
func Default() *Catalog {
	return New(products)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// All returns every product in catalog order.
func (c *Catalog) All() []Product {
	return c.collect(func(Product) bool { return true }, -1)
}

// Find returns the product with the given id.
func (c *Catalog) Find(id string) (Product, error) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, verrors.ErrProductNotFound
	}
	return c.products[i].Clone(), nil
}

// NewArrivals returns the products flagged new.
func (c *Catalog) NewArrivals() []Product {
	return c.collect(func(p Product) bool { return p.IsNew }, -1)
}

// BestSellers returns the products flagged best seller.
func (c *Catalog) BestSellers() []Product {
	return c.collect(func(p Product) bool { return p.IsBestSeller }, -1)
}

// Featured returns the first n products.
func (c *Catalog) Featured(n int) []Product {
	return c.collect(func(Product) bool { return true }, n)
}

// Related returns up to n products other than id, in catalog order.
func (c *Catalog) Related(id string, n int) []Product {
	return c.collect(func(p Product) bool { return p.ID != id }, n)
}

// Filter applies criteria to the whole catalog.
func (c *Catalog) Filter(criteria Criteria) []Product {
	return Filter(c.products, criteria)
}

// CategoryName returns the display name for a category id, matched
// case-insensitively, falling back to "Collection".
func CategoryName(id string) string {
	for _, cat := range Categories {
		if strings.EqualFold(cat.ID, id) {
			return cat.Name
		}
	}
	return "Collection"
}

func (c *Catalog) collect(keep func(Product) bool, limit int) []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if limit >= 0 && len(out) == limit {
			break
		}
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}
