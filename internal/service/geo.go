package service

import (
	"fmt"
	"math"

	"github.com/zamontech/yaqinbot/internal/entity"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(a, b entity.LatLng) float64 {
	dLat := radians(b.Latitude - a.Latitude)
	dLng := radians(b.Longitude - a.Longitude)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(radians(a.Latitude))*math.Cos(radians(b.Latitude))*math.Pow(math.Sin(dLng/2), 2)
	return earthRadiusKm * 2 * math.Asin(math.Sqrt(h))
}

// FormatDistanceKm renders a distance for display: meters below 1 km, one
// decimal below 10 km, whole kilometers beyond.
func FormatDistanceKm(km float64) string {
	switch {
	case km < 1.0:
		return fmt.Sprintf("%d m", int(km*1000))
	case km < 10:
		return fmt.Sprintf("%.1f km", km)
	default:
		return fmt.Sprintf("%d km", int(math.Round(km)))
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
