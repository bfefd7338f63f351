package schedule

import (
	"context"
	"testing"
	"time"

	"field-workflow-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	cat, err := domain.NewCatalog([]domain.Customer{
		{ID: "1", Name: "John Smith"},
		{ID: "2", Name: "Maria Garcia"},
		{ID: "3", Name: "David Chen"},
	}, nil)
	require.NoError(t, err)
	return cat
}

func TestStaticSchedulePreservesOrder(t *testing.T) {
	s, err := NewStaticSchedule(testCatalog(t), []string{"3", " 1 ", "", "3"})
	require.NoError(t, err)

	got, err := s.PlannedCustomers(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "1", got[1].ID)
}

func TestStaticScheduleUnknownCustomer(t *testing.T) {
	_, err := NewStaticSchedule(testCatalog(t), []string{"1", "9"})
	assert.ErrorContains(t, err, `customer "9" not in catalog`)
}

func TestStaticScheduleCancelled(t *testing.T) {
	s, err := NewStaticSchedule(testCatalog(t), []string{"1"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.PlannedCustomers(ctx, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}
