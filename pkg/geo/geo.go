// Package geo provides coordinate values and great-circle distance math.
package geo

import "math"

// EarthRadiusMeters is the mean spherical Earth radius used by DistanceMeters.
const EarthRadiusMeters = 6371000.0

// Coordinate is an immutable WGS84 point. Latitude is in [-90, 90],
// longitude in [-180, 180]; callers validate at the ingestion boundary.
type Coordinate struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// DistanceMeters returns the haversine great-circle distance between a and b
// on a spherical Earth model. Symmetric, and zero for identical points.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}
