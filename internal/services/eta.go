package services

import (
	"math/rand/v2"
	"time"
)

// RandomETAEstimator picks a delivery date uniformly between MinDays and
// MaxDays (inclusive) after now.
type RandomETAEstimator struct {
	MinDays int
	MaxDays int
}

func NewRandomETAEstimator(minDays, maxDays int) *RandomETAEstimator {
	if minDays < 0 {
		minDays = 0
	}
	if maxDays < minDays {
		maxDays = minDays
	}
	return &RandomETAEstimator{MinDays: minDays, MaxDays: maxDays}
}

func (e *RandomETAEstimator) EstimateDeliveryETA(now time.Time) time.Time {
	days := e.MinDays + rand.IntN(e.MaxDays-e.MinDays+1)
	return now.AddDate(0, 0, days)
}

// FormatETA renders a delivery date the way the confirmation screen shows it.
func FormatETA(t time.Time) string {
	return t.Format("Mon, Jan 2")
}
