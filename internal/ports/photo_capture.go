package ports

import (
	"context"

	"field-workflow-service/internal/domain"
)

// Port: captures a photo and returns an opaque reference to it.
type PhotoCapture interface {
	Capture(ctx context.Context) (domain.PhotoRef, error)
}
