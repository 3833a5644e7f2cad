package geo

import "math"

const earthRadiusMeters = 6371000

// Fence is a circular allowed region around a reference coordinate.
// A disabled fence accepts every coordinate.
type Fence struct {
	Enabled      bool
	Lat          float64
	Lng          float64
	RadiusMeters float64
}

type CheckResult struct {
	Valid          bool    `json:"valid"`
	DistanceMeters float64 `json:"distanceMeters"`
}

func (f Fence) Check(lat, lng float64) CheckResult {
	if !f.Enabled {
		return CheckResult{Valid: true}
	}
	distance := Distance(lat, lng, f.Lat, f.Lng)
	return CheckResult{Valid: distance <= f.RadiusMeters, DistanceMeters: distance}
}

// Distance returns the great-circle distance in meters between two
// coordinates, using the haversine formula.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
