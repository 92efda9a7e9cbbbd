package geo

import (
	"math"

	"reliefCoordination/models"
)

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0
	// CompletionRadiusMeters is the default distance below which a task may be completed.
	CompletionRadiusMeters = 500.0
)

// HaversineMeters calculates the great-circle distance between two points in meters.
func HaversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c * 1000
}

// Distance returns the distance between two positions in meters.
// A missing position yields +Inf.
func Distance(a, b *models.Position) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}
	return HaversineMeters(a.Lat, a.Lng, b.Lat, b.Lng)
}

// CanComplete reports whether rescuer and target are strictly closer than radiusMeters.
func CanComplete(rescuer, target *models.Position, radiusMeters float64) bool {
	return Distance(rescuer, target) < radiusMeters
}
