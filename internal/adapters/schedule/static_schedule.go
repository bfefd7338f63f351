package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"field-workflow-service/internal/domain"
)

// StaticSchedule plans the same customers, in the same order, every day.
type StaticSchedule struct {
	catalog     *domain.Catalog
	customerIDs []string
}

// NewStaticSchedule checks every id against the catalog up front so a bad
// configuration fails at startup rather than at route start.
func NewStaticSchedule(catalog *domain.Catalog, customerIDs []string) (*StaticSchedule, error) {
	ids := make([]string, 0, len(customerIDs))
	seen := make(map[string]bool, len(customerIDs))
	for _, id := range customerIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		if _, ok := catalog.Customer(id); !ok {
			return nil, fmt.Errorf("static schedule: customer %q not in catalog", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return &StaticSchedule{catalog: catalog, customerIDs: ids}, nil
}

func (s *StaticSchedule) PlannedCustomers(ctx context.Context, day time.Time) ([]domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(s.customerIDs))
	for _, id := range s.customerIDs {
		c, ok := s.catalog.Customer(id)
		if !ok {
			return nil, fmt.Errorf("planned customers: customer %q not in catalog", id)
		}
		out = append(out, c)
	}
	return out, nil
}
