package models

import (
	"errors"
	"fmt"
	"math"
)

// Coordinate validity bounds in degrees (WGS 84).
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrInvalidCoordinate is returned when a latitude or longitude is non-finite
// or outside its valid range. It is raised at construction time so invalid
// data cannot reach distance arithmetic.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// GeoPoint represents a geographical point defined by its latitude and longitude.
// The optional ID carries the source record identifier (support number, parcel
// reference) for diagnostics and reporting.
//
// A GeoPoint is a value object: construct it with NewGeoPoint and do not
// mutate it afterwards.
type GeoPoint struct {
	Latitude  float64 // Latitude of the geographical point, degrees.
	Longitude float64 // Longitude of the geographical point, degrees.
	ID        string  // ID is the source record identifier, may be empty.
}

// NewGeoPoint validates the given coordinates and returns a GeoPoint.
// It returns an error wrapping ErrInvalidCoordinate if either value is
// non-finite or out of range; the error message includes the record
// identifier when one was provided.
func NewGeoPoint(latitude, longitude float64, id string) (GeoPoint, error) {
	point := GeoPoint{Latitude: latitude, Longitude: longitude, ID: id}
	if err := point.Validate(); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks that both coordinates are finite and within valid ranges.
func (p GeoPoint) Validate() error {
	if !isFinite(p.Latitude) || p.Latitude < MinLatitude || p.Latitude > MaxLatitude {
		return fmt.Errorf("%w: latitude %v out of range [%v, %v]%s",
			ErrInvalidCoordinate, p.Latitude, MinLatitude, MaxLatitude, recordSuffix(p.ID))
	}
	if !isFinite(p.Longitude) || p.Longitude < MinLongitude || p.Longitude > MaxLongitude {
		return fmt.Errorf("%w: longitude %v out of range [%v, %v]%s",
			ErrInvalidCoordinate, p.Longitude, MinLongitude, MaxLongitude, recordSuffix(p.ID))
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func recordSuffix(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf(" (record %q)", id)
}
