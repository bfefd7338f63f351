package ports

import (
	"context"
	"time"

	"field-workflow-service/internal/domain"
)

// Port: publishes the agent's live position while a route shares location.
type LocationSharer interface {
	SharePosition(ctx context.Context, routeID string, pos domain.Coordinates, at time.Time) error
	StopSharing(ctx context.Context, routeID string) error
}

// SharedPosition is the payload stored and published for each sample.
type SharedPosition struct {
	RouteID  string             `json:"route_id"`
	Position domain.Coordinates `json:"position"`
	At       time.Time          `json:"at"`
}

// Port: reads back the last sample published for a route.
type SharedPositionReader interface {
	LatestPosition(ctx context.Context, routeID string) (SharedPosition, bool, error)
}
