// Package geo computes great-circle distances between geographical points.
// All distances are expressed in meters.
package geo

import (
	"math"

	"github.com/antennaproject/proximity/internal/models"
)

// EarthRadiusMeters is the mean Earth radius used by the spherical model.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two points,
// using the haversine formula on a sphere of EarthRadiusMeters.
//
// Both points are validated before any arithmetic; an error wrapping
// models.ErrInvalidCoordinate is returned for out-of-range or non-finite
// coordinates. The result is symmetric in its arguments, deterministic,
// and exactly 0 for identical points.
func Distance(a, b models.GeoPoint) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}

	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0, nil
	}

	latA := toRadians(a.Latitude)
	latB := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLon*sinLon

	// min clamp guards against floating-point overshoot near antipodal
	// points producing a domain error in Asin.
	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h))), nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
