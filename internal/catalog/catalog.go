// Package catalog holds the read-only product list seeded at startup.
package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is immutable once the catalog is built.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
}

// Catalog serves products in definition order.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New builds a catalog from products, rejecting blank or duplicate ids and
// negative prices.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("product %q has a blank id", p.Name)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("duplicate product id %q", id)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %q has a negative price", id)
		}
		p.ID = id
		c.byID[id] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// List returns a copy of every product in definition order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by id.
func (c *Catalog) Get(id string) (Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[idx], true
}

// Len reports how many products the catalog holds.
func (c *Catalog) Len() int {
	return len(c.products)
}
