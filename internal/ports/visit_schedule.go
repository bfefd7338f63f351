package ports

import (
	"context"
	"time"

	"field-workflow-service/internal/domain"
)

// Port: the customers planned for an agent's day, in visiting order.
type VisitSchedule interface {
	PlannedCustomers(ctx context.Context, day time.Time) ([]domain.Customer, error)
}
