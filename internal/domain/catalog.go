package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry with its list price.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// Catalog holds the read-only customer and product lists, keyed by id.
// Insertion order is preserved for listing.
type Catalog struct {
	customers     map[string]Customer
	customerOrder []string
	products      map[string]Product
	productOrder  []string
}

func NewCatalog(customers []Customer, products []Product) (*Catalog, error) {
	c := &Catalog{
		customers: make(map[string]Customer, len(customers)),
		products:  make(map[string]Product, len(products)),
	}

	for i, cu := range customers {
		id := strings.TrimSpace(cu.ID)
		if id == "" {
			return nil, fmt.Errorf("new catalog: customer at index %d: id must not be empty", i)
		}
		if _, ok := c.customers[id]; ok {
			return nil, fmt.Errorf("new catalog: duplicate customer id %q", id)
		}
		cu.ID = id
		c.customers[id] = cu
		c.customerOrder = append(c.customerOrder, id)
	}

	for i, p := range products {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, fmt.Errorf("new catalog: product at index %d: id must not be empty", i)
		}
		if _, ok := c.products[id]; ok {
			return nil, fmt.Errorf("new catalog: duplicate product id %q", id)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("new catalog: product %q: name must not be empty", id)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("new catalog: product %q: negative price %s", id, p.Price)
		}
		p.ID = id
		c.products[id] = p
		c.productOrder = append(c.productOrder, id)
	}

	return c, nil
}

var ErrEmptyCatalog = errors.New("catalog is empty")

func (c *Catalog) Customer(id string) (Customer, bool) {
	if c == nil {
		return Customer{}, false
	}
	cu, ok := c.customers[strings.TrimSpace(id)]
	return cu, ok
}

func (c *Catalog) Customers() []Customer {
	if c == nil {
		return nil
	}
	out := make([]Customer, 0, len(c.customerOrder))
	for _, id := range c.customerOrder {
		out = append(out, c.customers[id])
	}
	return out
}

func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, 0, len(c.productOrder))
	for _, id := range c.productOrder {
		out = append(out, c.products[id])
	}
	return out
}

// LookupProduct resolves a product by id, then by case-insensitive name.
func (c *Catalog) LookupProduct(ref string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Product{}, false
	}
	if p, ok := c.products[ref]; ok {
		return p, true
	}
	for _, id := range c.productOrder {
		if strings.EqualFold(c.products[id].Name, ref) {
			return c.products[id], true
		}
	}
	return Product{}, false
}

func (c *Catalog) Empty() bool {
	return c == nil || (len(c.customers) == 0 && len(c.products) == 0)
}
