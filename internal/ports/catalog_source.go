package ports

import (
	"context"

	"field-workflow-service/internal/domain"
)

// Port: supplies the read-only customer and product lists at process start.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (*domain.Catalog, error)
}
