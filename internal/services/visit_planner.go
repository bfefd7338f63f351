package services

import (
	"math"

	"field-workflow-service/internal/domain"
)

// OrderVisitsNearestFirst orders the planned customers with a greedy
// nearest-neighbor walk starting at start.
//
// Each step picks the closest remaining customer by great-circle distance.
// It does not attempt global route optimization; equal distances break on
// customer id so the order is deterministic. The input slice is not modified.
func OrderVisitsNearestFirst(start domain.Coordinates, customers []domain.Customer) []domain.Customer {
	remaining := append([]domain.Customer(nil), customers...)
	ordered := make([]domain.Customer, 0, len(customers))

	current := start
	for len(remaining) > 0 {
		best := -1
		bestKm := math.MaxFloat64
		for i, c := range remaining {
			km := SegmentDistanceKm(current, c.Coordinates)
			if km < bestKm || (km == bestKm && c.ID < remaining[best].ID) {
				best, bestKm = i, km
			}
		}

		next := remaining[best]
		ordered = append(ordered, next)
		current = next.Coordinates
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return ordered
}
