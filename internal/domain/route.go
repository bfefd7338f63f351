package domain

import (
	"errors"
	"fmt"
	"time"
)

type VisitStatus string

const (
	VisitPending VisitStatus = "pending"
	VisitVisited VisitStatus = "visited"
	VisitSkipped VisitStatus = "skipped"
)

var (
	ErrVisitNotPending    = errors.New("visit is no longer pending")
	ErrInvalidVisitStatus = errors.New("visit can only be marked visited or skipped")
	ErrRouteEnded         = errors.New("route has already ended")
	ErrEndBeforeStart     = errors.New("end odometer is less than start odometer")
	ErrMissingPhoto       = errors.New("odometer photo is required")
	ErrEndTimeBeforeStart = errors.New("end time precedes start time")
)

// Represents a planned stop at a customer during a route.
// DistanceFromCurrent is in kilometers from the agent's current position.
type Visit struct {
	CustomerID          string      `json:"customer_id"`
	CustomerName        string      `json:"customer_name"`
	Address             string      `json:"address"`
	Coordinates         Coordinates `json:"coordinates"`
	DistanceFromCurrent float64     `json:"distance_from_current"`
	Status              VisitStatus `json:"status"`
	VisitTime           *time.Time  `json:"visit_time,omitempty"`
	LastVisit           *LastVisit  `json:"last_visit,omitempty"`
}

// NewVisit builds a pending visit for the customer, carrying the prior visit
// summary for context when one is known.
func NewVisit(c Customer) Visit {
	v := Visit{
		CustomerID:   c.ID,
		CustomerName: c.DisplayName(),
		Address:      c.Address,
		Coordinates:  c.Coordinates,
		Status:       VisitPending,
	}
	if c.LastVisit != (LastVisit{}) {
		lv := c.LastVisit
		v.LastVisit = &lv
	}
	return v
}

// Mark moves a pending visit to visited or skipped. Transitions are one-way.
func (v *Visit) Mark(status VisitStatus, at time.Time) error {
	if status != VisitVisited && status != VisitSkipped {
		return ErrInvalidVisitStatus
	}
	if v.Status != VisitPending {
		return fmt.Errorf("mark visit %q %s: %w", v.CustomerID, status, ErrVisitNotPending)
	}
	v.Status = status
	t := at
	v.VisitTime = &t
	return nil
}

// Route is a single field trip. Distances are in kilometers; odometer readings
// are whole kilometers.
type Route struct {
	ID                 string        `json:"id"`
	StartOdometer      int           `json:"start_odometer"`
	StartOdometerPhoto PhotoRef      `json:"start_odometer_photo"`
	EndOdometer        *int          `json:"end_odometer,omitempty"`
	EndOdometerPhoto   PhotoRef      `json:"end_odometer_photo,omitempty"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            *time.Time    `json:"end_time,omitempty"`
	ShareLocation      bool          `json:"share_location"`
	GPSDistance        float64       `json:"gps_distance"`
	CurrentPosition    *Coordinates  `json:"current_position,omitempty"`
	Path               []Coordinates `json:"route_path"`
	Visits             []Visit       `json:"visits"`
}

func (r *Route) Ended() bool { return r.EndOdometer != nil && r.EndTime != nil }

// Visit returns the visit for the customer, or false when the customer is not
// on this route.
func (r *Route) Visit(customerID string) (*Visit, bool) {
	for i := range r.Visits {
		if r.Visits[i].CustomerID == customerID {
			return &r.Visits[i], true
		}
	}
	return nil, false
}

// NextStop returns the first pending visit in route order.
func (r *Route) NextStop() (*Visit, bool) {
	for i := range r.Visits {
		if r.Visits[i].Status == VisitPending {
			return &r.Visits[i], true
		}
	}
	return nil, false
}

// OdometerDistance is end minus start; it is unknown until the route has an
// end reading.
func (r *Route) OdometerDistance() (int, bool) {
	if r.EndOdometer == nil {
		return 0, false
	}
	return *r.EndOdometer - r.StartOdometer, true
}

// End records the closing odometer reading. The reading may not go below the
// start reading and the end time may not precede the start time.
func (r *Route) End(endOdometer int, photo PhotoRef, at time.Time) error {
	if r.Ended() {
		return ErrRouteEnded
	}
	if endOdometer < r.StartOdometer {
		return fmt.Errorf("end route: %w (start=%d end=%d)", ErrEndBeforeStart, r.StartOdometer, endOdometer)
	}
	if photo.IsZero() {
		return fmt.Errorf("end route: %w", ErrMissingPhoto)
	}
	if at.Before(r.StartTime) {
		return fmt.Errorf("end route: %w", ErrEndTimeBeforeStart)
	}

	end := endOdometer
	t := at
	r.EndOdometer = &end
	r.EndOdometerPhoto = photo
	r.EndTime = &t
	return nil
}

// Clone returns a deep copy so callers can render a route without sharing
// mutable state with its owner.
func (r *Route) Clone() *Route {
	if r == nil {
		return nil
	}
	cp := *r
	if r.EndOdometer != nil {
		v := *r.EndOdometer
		cp.EndOdometer = &v
	}
	if r.EndTime != nil {
		v := *r.EndTime
		cp.EndTime = &v
	}
	if r.CurrentPosition != nil {
		v := *r.CurrentPosition
		cp.CurrentPosition = &v
	}
	cp.Path = append([]Coordinates(nil), r.Path...)
	cp.Visits = make([]Visit, len(r.Visits))
	for i, v := range r.Visits {
		if v.VisitTime != nil {
			t := *v.VisitTime
			v.VisitTime = &t
		}
		if v.LastVisit != nil {
			lv := *v.LastVisit
			v.LastVisit = &lv
		}
		cp.Visits[i] = v
	}
	return &cp
}
