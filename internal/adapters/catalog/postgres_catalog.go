package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/platform/logger"
	"field-workflow-service/internal/platform/obs"
)

// PostgresCatalog reads customers and products from the catalog tables.
type PostgresCatalog struct {
	DB  *sql.DB
	Log *logger.Logger
}

func NewPostgresCatalog(db *sql.DB, log *logger.Logger) *PostgresCatalog {
	return &PostgresCatalog{DB: db, Log: log}
}

func (p *PostgresCatalog) LoadCatalog(ctx context.Context) (_ *domain.Catalog, err error) {
	defer obs.Time(ctx, p.Log, "catalog.postgres.Load")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres catalog: db is nil")
	}

	customers, err := p.listCustomers(ctx)
	if err != nil {
		return nil, err
	}
	products, err := p.listProducts(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := domain.NewCatalog(customers, products)
	if err != nil {
		return nil, err
	}
	if cat.Empty() {
		return nil, fmt.Errorf("postgres catalog: %w (run dbtool to seed it)", domain.ErrEmptyCatalog)
	}
	return cat, nil
}

func (p *PostgresCatalog) listCustomers(ctx context.Context) ([]domain.Customer, error) {
	q := `
	SELECT id, name, company, phone, email, address, location, lat, lng,
		status, priority, last_visit, pending_orders, pending_issues
	FROM customers
	ORDER BY sort_order, id;
	`
	rows, err := p.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list customers: query customers table: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, 16)
	for rows.Next() {
		var c domain.Customer
		var status, priority string
		var lastVisit, issues []byte
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Company, &c.Phone, &c.Email, &c.Address, &c.Location,
			&c.Coordinates.Lat, &c.Coordinates.Lng, &status, &priority,
			&lastVisit, &c.PendingOrders, &issues,
		); err != nil {
			return nil, fmt.Errorf("list customers: scan row: %w", err)
		}
		c.Status = domain.CustomerStatus(status)
		c.Priority = domain.Priority(priority)
		if err := json.Unmarshal(lastVisit, &c.LastVisit); err != nil {
			return nil, fmt.Errorf("list customers: customer %q: decode last_visit: %w", c.ID, err)
		}
		if err := json.Unmarshal(issues, &c.PendingIssues); err != nil {
			return nil, fmt.Errorf("list customers: customer %q: decode pending_issues: %w", c.ID, err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: row iteration: %w", err)
	}

	return customers, nil
}

func (p *PostgresCatalog) listProducts(ctx context.Context) ([]domain.Product, error) {
	q := `
	SELECT id, name, price, category
	FROM products
	ORDER BY sort_order, id;
	`
	rows, err := p.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list products: query products table: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 16)
	for rows.Next() {
		var pr domain.Product
		if err := rows.Scan(&pr.ID, &pr.Name, &pr.Price, &pr.Category); err != nil {
			return nil, fmt.Errorf("list products: scan row: %w", err)
		}
		products = append(products, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: row iteration: %w", err)
	}

	return products, nil
}

// SeedPostgres upserts every customer and product in the seed, keeping the
// seed's order for listing.
func SeedPostgres(ctx context.Context, db *sql.DB, seed Seed) error {
	if db == nil {
		return errors.New("seed catalog: db is nil")
	}
	if err := seed.Validate(); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed catalog: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	custStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO customers (
		id, name, company, phone, email, address, location, lat, lng,
		status, priority, last_visit, pending_orders, pending_issues, sort_order
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		company = EXCLUDED.company,
		phone = EXCLUDED.phone,
		email = EXCLUDED.email,
		address = EXCLUDED.address,
		location = EXCLUDED.location,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		status = EXCLUDED.status,
		priority = EXCLUDED.priority,
		last_visit = EXCLUDED.last_visit,
		pending_orders = EXCLUDED.pending_orders,
		pending_issues = EXCLUDED.pending_issues,
		sort_order = EXCLUDED.sort_order;
	`)
	if err != nil {
		return fmt.Errorf("seed catalog: prepare customer insert: %w", err)
	}
	defer custStmt.Close()

	for i, c := range seed.Customers {
		lastVisit, err := json.Marshal(c.LastVisit)
		if err != nil {
			return fmt.Errorf("seed catalog: customer %q: encode last_visit: %w", c.ID, err)
		}
		issues := c.PendingIssues
		if issues == nil {
			issues = []string{}
		}
		issuesJSON, err := json.Marshal(issues)
		if err != nil {
			return fmt.Errorf("seed catalog: customer %q: encode pending_issues: %w", c.ID, err)
		}
		status, priority := c.Status, c.Priority
		if status == "" {
			status = string(domain.CustomerActive)
		}
		if priority == "" {
			priority = string(domain.PriorityMedium)
		}
		if _, err := custStmt.ExecContext(ctx,
			c.ID, c.Name, c.Company, c.Phone, c.Email, c.Address, c.Location,
			c.Coordinates.Lat, c.Coordinates.Lng, status, priority,
			string(lastVisit), c.PendingOrders, string(issuesJSON), i,
		); err != nil {
			return fmt.Errorf("seed catalog: insert customer %q: %w", c.ID, err)
		}
	}

	prodStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO products (id, name, price, category, sort_order)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		price = EXCLUDED.price,
		category = EXCLUDED.category,
		sort_order = EXCLUDED.sort_order;
	`)
	if err != nil {
		return fmt.Errorf("seed catalog: prepare product insert: %w", err)
	}
	defer prodStmt.Close()

	for i, p := range seed.Products {
		if _, err := prodStmt.ExecContext(ctx, p.ID, p.Name, p.Price, p.Category, i); err != nil {
			return fmt.Errorf("seed catalog: insert product %q: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed catalog: commit tx: %w", err)
	}

	return nil
}
