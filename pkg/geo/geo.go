package geo

import "math"

// Point is a [longitude, latitude] pair, matching the coordinate order used
// throughout the API.
type Point [2]float64

func (p Point) Lon() float64 { return p[0] }
func (p Point) Lat() float64 { return p[1] }

const earthRadiusKm = 6371

// DistanceKm returns the haversine great-circle distance between two points
// in kilometers.
func DistanceKm(a, b Point) float64 {
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLon := (b.Lon() - a.Lon()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat()*math.Pi/180)*math.Cos(b.Lat()*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// RoundKm rounds a distance to 2 decimal places, the precision stored on
// delivery routes.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
