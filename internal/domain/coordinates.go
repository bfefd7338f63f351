package domain

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Immutable geographic coordinates (latitude, longitude) in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point returns the coordinates as an orb.Point, which is ordered [lng, lat].
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lng, c.Lat} }

// Validate rejects coordinates outside the WGS84 range or containing NaN.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return fmt.Errorf("coordinates: NaN component (lat=%v lng=%v)", c.Lat, c.Lng)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("coordinates: latitude %v out of range", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("coordinates: longitude %v out of range", c.Lng)
	}
	return nil
}
