package services

import (
	"testing"

	"field-workflow-service/internal/domain"
)

func TestOrderVisitsNearestFirst(t *testing.T) {
	hub := domain.Coordinates{Lat: 40.0, Lng: -74.0}
	customers := []domain.Customer{
		{ID: "b", Coordinates: domain.Coordinates{Lat: 40.03, Lng: -74.0}},
		{ID: "a", Coordinates: domain.Coordinates{Lat: 40.01, Lng: -74.0}},
		{ID: "c", Coordinates: domain.Coordinates{Lat: 40.01, Lng: -73.98}},
	}

	got := OrderVisitsNearestFirst(hub, customers)

	want := []string{"a", "c", "b"}
	if len(got) != len(want) {
		t.Fatalf("expected %d stops, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("stop %d = %q, want %q", i, got[i].ID, id)
		}
	}
	if customers[0].ID != "b" {
		t.Fatalf("input slice was reordered")
	}
}

func TestOrderVisitsNearestFirstBreaksTiesByID(t *testing.T) {
	hub := domain.Coordinates{Lat: 40.0, Lng: -74.0}
	same := domain.Coordinates{Lat: 40.02, Lng: -74.0}
	customers := []domain.Customer{
		{ID: "2", Coordinates: same},
		{ID: "1", Coordinates: same},
	}

	got := OrderVisitsNearestFirst(hub, customers)

	if got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("order = %q, %q; want 1, 2", got[0].ID, got[1].ID)
	}
}

func TestOrderVisitsNearestFirstEmpty(t *testing.T) {
	if got := OrderVisitsNearestFirst(domain.Coordinates{}, nil); len(got) != 0 {
		t.Fatalf("expected no stops, got %d", len(got))
	}
}
