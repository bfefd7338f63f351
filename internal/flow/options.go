package flow

import (
	"field-workflow-service/internal/platform/logger"
	"field-workflow-service/internal/platform/metrics"
	"field-workflow-service/internal/ports"
)

type Option func(*Controller)

func WithClock(clock ports.Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithETAEstimator(eta ports.ETAEstimator) Option {
	return func(c *Controller) {
		if eta != nil {
			c.eta = eta
		}
	}
}

// WithSchedule sets where route visits come from. Without one a route starts
// with no visits.
func WithSchedule(schedule ports.VisitSchedule) Option {
	return func(c *Controller) { c.schedule = schedule }
}

// WithLocationSharer publishes positions of routes started with sharing on.
func WithLocationSharer(sharer ports.LocationSharer) Option {
	return func(c *Controller) { c.sharer = sharer }
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

func WithMetrics(m *metrics.FlowMetrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithRouteIDs replaces the route id generator.
func WithRouteIDs(next func() string) Option {
	return func(c *Controller) {
		if next != nil {
			c.newRouteID = next
		}
	}
}

// WithLegacyCameraGrant marks the camera as granted whenever the location
// onboarding step completes, whatever the answer.
func WithLegacyCameraGrant() Option {
	return func(c *Controller) { c.legacyCameraGrant = true }
}

// WithNearestVisitOrder reorders the planned visits nearest-first from the
// start position. Without a start position the schedule order is kept.
func WithNearestVisitOrder() Option {
	return func(c *Controller) { c.nearestFirst = true }
}
