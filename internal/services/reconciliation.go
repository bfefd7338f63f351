package services

import (
	"math"
	"time"

	"field-workflow-service/internal/domain"

	"github.com/paulmach/orb/geo"
)

// Discrepancy thresholds in kilometers.
const (
	NoDiscrepancyMaxKm    = 0.5
	MinorDiscrepancyMaxKm = 2.0
)

type DiscrepancySeverity string

const (
	DiscrepancyNone        DiscrepancySeverity = "none"
	DiscrepancyMinor       DiscrepancySeverity = "minor"
	DiscrepancySignificant DiscrepancySeverity = "significant"
)

// Rank orders severities so callers can compare them.
func (s DiscrepancySeverity) Rank() int {
	switch s {
	case DiscrepancyNone:
		return 0
	case DiscrepancyMinor:
		return 1
	case DiscrepancySignificant:
		return 2
	}
	return -1
}

// SegmentDistanceKm is the great-circle distance between two positions.
// Non-finite results collapse to 0 so a bad sample cannot poison a total.
func SegmentDistanceKm(a, b domain.Coordinates) float64 {
	d := geo.DistanceHaversine(a.Point(), b.Point()) / 1000
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return d
}

// AccumulateGpsSample applies one location update to the route. Samples must
// be applied in arrival order: each increment is measured from the previous
// path point.
func AccumulateGpsSample(route *domain.Route, pos domain.Coordinates) {
	if n := len(route.Path); n > 0 {
		route.GPSDistance += SegmentDistanceKm(route.Path[n-1], pos)
	}
	route.Path = append(route.Path, pos)

	cur := pos
	route.CurrentPosition = &cur

	RefreshVisitDistances(route)
}

// RefreshVisitDistances recomputes the distance to every pending visit from
// the route's current position. Without a position it is a no-op.
func RefreshVisitDistances(route *domain.Route) {
	if route.CurrentPosition == nil {
		return
	}
	for i := range route.Visits {
		v := &route.Visits[i]
		if v.Status != domain.VisitPending {
			continue
		}
		v.DistanceFromCurrent = SegmentDistanceKm(*route.CurrentPosition, v.Coordinates)
	}
}

// ElapsedTime is now minus start while the route runs, or end minus start
// once it has ended. Clock skew may make it negative.
func ElapsedTime(route *domain.Route, now time.Time) Elapsed {
	end := now
	if route.EndTime != nil {
		end = *route.EndTime
	}
	return Elapsed{Duration: end.Sub(route.StartTime)}
}

// ComputeOdometerDistance is end minus start odometer; ok is false until the
// end reading is set.
func ComputeOdometerDistance(route *domain.Route) (km int, ok bool) {
	return route.OdometerDistance()
}

// ComputeDiscrepancy is |odometer distance − GPS distance|; ok is false until
// the odometer distance is known.
func ComputeDiscrepancy(route *domain.Route) (km float64, ok bool) {
	odo, ok := ComputeOdometerDistance(route)
	if !ok {
		return 0, false
	}
	return math.Abs(float64(odo) - route.GPSDistance), true
}

// ClassifyDiscrepancy maps a discrepancy to a warning tier. It never rejects:
// a significant result is a warning the agent may accept. NaN is treated as
// significant.
func ClassifyDiscrepancy(km float64) DiscrepancySeverity {
	switch {
	case math.IsNaN(km):
		return DiscrepancySignificant
	case km <= NoDiscrepancyMaxKm:
		return DiscrepancyNone
	case km <= MinorDiscrepancyMaxKm:
		return DiscrepancyMinor
	default:
		return DiscrepancySignificant
	}
}

type VisitStats struct {
	Visited int `json:"visited"`
	Pending int `json:"pending"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
	// Percentage of visits completed, 0..100.
	CompletionPercent float64 `json:"completion_percent"`
}

func VisitStatistics(route *domain.Route) VisitStats {
	var s VisitStats
	for _, v := range route.Visits {
		switch v.Status {
		case domain.VisitVisited:
			s.Visited++
		case domain.VisitPending:
			s.Pending++
		case domain.VisitSkipped:
			s.Skipped++
		}
	}
	s.Total = len(route.Visits)
	if s.Total > 0 {
		s.CompletionPercent = float64(s.Visited) / float64(s.Total) * 100
	}
	return s
}

// RouteSummary is what the summary screen shows once a route has ended.
type RouteSummary struct {
	Elapsed          time.Duration       `json:"-"`
	ElapsedSeconds   int64               `json:"elapsed_seconds"`
	TotalTime        string              `json:"total_time"`
	OdometerDistance *int                `json:"odometer_distance,omitempty"`
	GPSDistance      float64             `json:"gps_distance"`
	Discrepancy      *float64            `json:"discrepancy,omitempty"`
	Severity         DiscrepancySeverity `json:"severity,omitempty"`
	Visits           VisitStats          `json:"visits"`
	AverageSpeedKmh  float64             `json:"average_speed_kmh"`
}

func SummarizeRoute(route *domain.Route, now time.Time) RouteSummary {
	el := ElapsedTime(route, now)
	sum := RouteSummary{
		Elapsed:        el.Duration,
		ElapsedSeconds: int64(el.clamped() / time.Second),
		TotalTime:      "0h 0m",
		GPSDistance:    route.GPSDistance,
		Visits:         VisitStatistics(route),
	}
	if route.EndTime != nil {
		sum.TotalTime = FormatDuration(el.Duration)
	}
	if odo, ok := ComputeOdometerDistance(route); ok {
		sum.OdometerDistance = &odo
	}
	if d, ok := ComputeDiscrepancy(route); ok {
		sum.Discrepancy = &d
		sum.Severity = ClassifyDiscrepancy(d)
	}
	if hours := el.Duration.Hours(); hours > 0 {
		sum.AverageSpeedKmh = route.GPSDistance / hours
	}
	return sum
}
