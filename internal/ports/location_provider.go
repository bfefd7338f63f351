package ports

import (
	"context"

	"field-workflow-service/internal/domain"
)

// Contract for reading the device position.
type LocationProvider interface {
	// Return the current device position.
	GetCurrentPosition(ctx context.Context) (domain.Coordinates, error)
	// Stream positions in the order they are produced until ctx is done.
	// The channel is closed when the stream ends.
	WatchPosition(ctx context.Context) (<-chan domain.Coordinates, error)
}
