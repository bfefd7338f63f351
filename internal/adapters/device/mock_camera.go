package device

import (
	"context"
	"sync"

	"field-workflow-service/internal/domain"

	"github.com/google/uuid"
)

// MockCamera returns a fresh photo reference per capture, or Err when set.
type MockCamera struct {
	Err error

	mu       sync.Mutex
	captured []domain.PhotoRef
}

func NewMockCamera() *MockCamera { return &MockCamera{} }

func (c *MockCamera) Capture(ctx context.Context) (domain.PhotoRef, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Err != nil {
		return "", c.Err
	}
	ref := domain.PhotoRef("photo://" + uuid.NewString())

	c.mu.Lock()
	c.captured = append(c.captured, ref)
	c.mu.Unlock()
	return ref, nil
}

// Captured lists the references handed out so far, oldest first.
func (c *MockCamera) Captured() []domain.PhotoRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.PhotoRef(nil), c.captured...)
}
