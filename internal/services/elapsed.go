package services

import (
	"fmt"
	"time"
)

// Elapsed wraps a route duration with the split used for display.
type Elapsed struct {
	Duration time.Duration
}

func (e Elapsed) clamped() time.Duration {
	if e.Duration < 0 {
		return 0
	}
	return e.Duration
}

func (e Elapsed) Hours() int   { return int(e.clamped() / time.Hour) }
func (e Elapsed) Minutes() int { return int(e.clamped() % time.Hour / time.Minute) }
func (e Elapsed) Seconds() int { return int(e.clamped() % time.Minute / time.Second) }

// Clock renders HH:MM:SS for the running route timer.
func (e Elapsed) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", e.Hours(), e.Minutes(), e.Seconds())
}

// FormatDuration renders "Xh Ym" for the route summary.
func FormatDuration(d time.Duration) string {
	e := Elapsed{Duration: d}
	return fmt.Sprintf("%dh %dm", e.Hours(), e.Minutes())
}
