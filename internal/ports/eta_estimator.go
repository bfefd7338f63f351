package ports

import "time"

// Best-effort delivery scheduling; not a guarantee.
type ETAEstimator interface {
	EstimateDeliveryETA(now time.Time) time.Time
}

type ETAEstimatorFunc func(now time.Time) time.Time

func (f ETAEstimatorFunc) EstimateDeliveryETA(now time.Time) time.Time { return f(now) }
