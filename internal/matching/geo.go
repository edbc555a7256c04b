package matching

import (
	"math"

	"github.com/jonathan/ojt-matcher/internal/types"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Proximity bands for the candidate strategy.
const (
	NearDistanceKm = 10.0
	FarDistanceKm  = 30.0
)

// Haversine returns the great-circle distance in kilometres between two points
// given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceKm returns the distance between a student and a company, or nil when
// either side has no pinned location.
func DistanceKm(student *types.StudentProfile, company *types.Company) *float64 {
	if student == nil || company == nil || !student.HasLocation() || !company.HasLocation() {
		return nil
	}
	d := Haversine(*student.Latitude, *student.Longitude, *company.Latitude, *company.Longitude)
	return &d
}

// proximityCredit maps a distance to 1.0 (near), 0.5 (within reach) or 0.
func proximityCredit(distanceKm *float64) float64 {
	if distanceKm == nil {
		return 0
	}
	switch {
	case *distanceKm <= NearDistanceKm:
		return 1.0
	case *distanceKm <= FarDistanceKm:
		return 0.5
	default:
		return 0
	}
}

// roundTo rounds v to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
