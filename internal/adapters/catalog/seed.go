package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"field-workflow-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Seed is the on-disk catalog format shared by the JSON source and the
// Postgres seeder.
type Seed struct {
	Customers []CustomerSeed `json:"customers" validate:"dive"`
	Products  []ProductSeed  `json:"products" validate:"dive"`
}

type CustomerSeed struct {
	ID            string           `json:"id" validate:"required"`
	Name          string           `json:"name" validate:"required"`
	Company       string           `json:"company"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email" validate:"omitempty,email"`
	Address       string           `json:"address"`
	Location      string           `json:"location"`
	Coordinates   CoordinatesSeed  `json:"coordinates"`
	Status        string           `json:"status" validate:"omitempty,oneof=active pending inactive"`
	Priority      string           `json:"priority" validate:"omitempty,oneof=high medium low"`
	LastVisit     domain.LastVisit `json:"last_visit"`
	PendingOrders int              `json:"pending_orders" validate:"min=0"`
	PendingIssues []string         `json:"pending_issues"`
}

type CoordinatesSeed struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

type ProductSeed struct {
	ID       string          `json:"id" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

var seedValidator = newSeedValidator()

func newSeedValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// ReadSeed loads and validates a catalog seed file.
func ReadSeed(path string) (Seed, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read catalog seed: read %q: %w", path, err)
	}

	var seed Seed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return Seed{}, fmt.Errorf("read catalog seed: parse json: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return Seed{}, fmt.Errorf("read catalog seed: %w", err)
	}
	return seed, nil
}

func (s Seed) Validate() error {
	if err := seedValidator.Struct(s); err != nil {
		return fmt.Errorf("invalid seed: %w", err)
	}
	for _, p := range s.Products {
		if p.Price.IsNegative() {
			return fmt.Errorf("invalid seed: product %q has negative price %s", p.ID, p.Price)
		}
	}
	return nil
}

// Catalog converts the seed into the domain catalog.
func (s Seed) Catalog() (*domain.Catalog, error) {
	customers := make([]domain.Customer, 0, len(s.Customers))
	for _, c := range s.Customers {
		customers = append(customers, c.toDomain())
	}
	products := make([]domain.Product, 0, len(s.Products))
	for _, p := range s.Products {
		products = append(products, domain.Product{
			ID:       p.ID,
			Name:     strings.TrimSpace(p.Name),
			Price:    p.Price,
			Category: p.Category,
		})
	}
	return domain.NewCatalog(customers, products)
}

func (c CustomerSeed) toDomain() domain.Customer {
	return domain.Customer{
		ID:            c.ID,
		Name:          strings.TrimSpace(c.Name),
		Company:       strings.TrimSpace(c.Company),
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		Location:      c.Location,
		Coordinates:   domain.Coordinates{Lat: c.Coordinates.Lat, Lng: c.Coordinates.Lng},
		Status:        domain.CustomerStatus(c.Status),
		Priority:      domain.Priority(c.Priority),
		LastVisit:     c.LastVisit,
		PendingOrders: c.PendingOrders,
		PendingIssues: append([]string(nil), c.PendingIssues...),
	}
}
