package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCatalogLookups(t *testing.T) {
	cat, err := NewCatalog(
		[]Customer{{ID: "1", Company: "TechCorp Solutions"}, {ID: "2", Company: "Global Industries"}},
		[]Product{
			{ID: "hardware-kit", Name: "Hardware Kit", Price: decimal.NewFromInt(750)},
			{ID: "software-license", Name: "Software License", Price: decimal.NewFromInt(500)},
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := cat.Customer(" 2 "); !ok {
		t.Fatalf("customer 2 not found")
	}
	if p, ok := cat.LookupProduct("hardware kit"); !ok || p.ID != "hardware-kit" {
		t.Fatalf("lookup by name = %+v, %v", p, ok)
	}
	if p, ok := cat.LookupProduct("software-license"); !ok || p.Name != "Software License" {
		t.Fatalf("lookup by id = %+v, %v", p, ok)
	}
	if _, ok := cat.LookupProduct("Widget"); ok {
		t.Fatalf("unexpected product match")
	}

	customers := cat.Customers()
	if len(customers) != 2 || customers[0].ID != "1" || customers[1].ID != "2" {
		t.Fatalf("customers not in insertion order: %+v", customers)
	}
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	if _, err := NewCatalog([]Customer{{ID: "1"}, {ID: "1"}}, nil); err == nil {
		t.Fatalf("expected duplicate customer error")
	}
	p := Product{ID: "x", Name: "X", Price: decimal.NewFromInt(1)}
	if _, err := NewCatalog(nil, []Product{p, p}); err == nil {
		t.Fatalf("expected duplicate product error")
	}
	if _, err := NewCatalog(nil, []Product{{ID: "y", Name: "Y", Price: decimal.NewFromInt(-1)}}); err == nil {
		t.Fatalf("expected negative price error")
	}
}
