package catalog

import (
	"context"
	"fmt"

	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/platform/logger"
	"field-workflow-service/internal/platform/obs"
)

// JSONCatalog reads the catalog from a seed file on every load.
type JSONCatalog struct {
	Path string
	Log  *logger.Logger
}

func NewJSONCatalog(path string, log *logger.Logger) *JSONCatalog {
	return &JSONCatalog{Path: path, Log: log}
}

func (j *JSONCatalog) LoadCatalog(ctx context.Context) (_ *domain.Catalog, err error) {
	defer obs.Time(ctx, j.Log, "catalog.json.Load")(&err)

	seed, err := ReadSeed(j.Path)
	if err != nil {
		return nil, err
	}
	cat, err := seed.Catalog()
	if err != nil {
		return nil, err
	}
	if cat.Empty() {
		return nil, fmt.Errorf("json catalog %q: %w", j.Path, domain.ErrEmptyCatalog)
	}
	return cat, nil
}
