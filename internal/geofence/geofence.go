// Package geofence decides whether a reported device position is close enough
// to the office to allow an attendance clock-in or clock-out.
package geofence

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// Default office location and radius.
const (
	DefaultOfficeLatitude  = -8.7877102
	DefaultOfficeLongitude = 115.2068142
	DefaultMaxDistanceKm   = 0.1
)

// Point is a position in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Decision is the outcome of a geofence check.
type Decision struct {
	Allowed       bool    `json:"allowed"`
	DistanceKm    float64 `json:"distance_km"`
	MaxDistanceKm float64 `json:"max_distance_km"`
}

// Validator checks points against a circular boundary around Office.
type Validator struct {
	Office        Point
	MaxDistanceKm float64
}

// NewValidator creates a validator for the given office and radius in km.
func NewValidator(office Point, maxDistanceKm float64) *Validator {
	return &Validator{Office: office, MaxDistanceKm: maxDistanceKm}
}

// Default returns the validator for the default office location.
func Default() *Validator {
	return NewValidator(Point{Latitude: DefaultOfficeLatitude, Longitude: DefaultOfficeLongitude}, DefaultMaxDistanceKm)
}

// Check computes the distance from the office to p and whether it is inside
// the allowed radius. The boundary itself counts as inside.
func (v *Validator) Check(p Point) Decision {
	d := CalculateDistance(v.Office.Latitude, v.Office.Longitude, p.Latitude, p.Longitude)
	return Decision{
		Allowed:       d <= v.MaxDistanceKm,
		DistanceKm:    d,
		MaxDistanceKm: v.MaxDistanceKm,
	}
}

// IsWithinOfficeLocation reports whether (lat, lon) is inside the radius.
func (v *Validator) IsWithinOfficeLocation(lat, lon float64) bool {
	return v.Check(Point{Latitude: lat, Longitude: lon}).Allowed
}

// IsWithinOfficeLocation checks (lat, lon) against the default office.
func IsWithinOfficeLocation(lat, lon float64) bool {
	return Default().IsWithinOfficeLocation(lat, lon)
}

// CalculateDistance returns the great-circle distance in kilometres between
// two points given in decimal degrees.
func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*sinLon*sinLon

	// Rounding can push a fractionally past 1 for near-antipodal points.
	a = math.Min(math.Max(a, 0), 1)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// ValidatePoint rejects coordinates that are not finite or out of range.
func ValidatePoint(p Point) error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) || p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %v", p.Latitude)
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %v", p.Longitude)
	}
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
