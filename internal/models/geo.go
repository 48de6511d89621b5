package models

import "math"

const earthRadiusKm = 6371.0

// DistanceKm is the haversine great-circle distance to o.
func (c Coordinates) DistanceKm(o Coordinates) float64 {
	dLat := radians(o.Lat - c.Lat)
	dLon := radians(o.Lon - c.Lon)
	sinLat, sinLon := math.Sin(dLat/2), math.Sin(dLon/2)
	a := sinLat*sinLat + sinLon*sinLon*math.Cos(radians(c.Lat))*math.Cos(radians(o.Lat))
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(d float64) float64 { return d * math.Pi / 180 }
