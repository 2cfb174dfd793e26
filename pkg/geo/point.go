package geo

import (
	"fmt"
	"math"
)

//EarthRadiusKm is the mean earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

//Point is the common geolocation shape shared by vantage points, replica
//sites and resolved anycast sites
type Point struct {
	Lat         float64 `json:"lat" bson:"lat"`
	Lon         float64 `json:"lon" bson:"lon"`
	CountryCode string  `json:"countryCode" bson:"country_code"`
	City        string  `json:"city" bson:"city"`
}

//Key returns "<city>_<countryCode>", the label used to group sites by place
func (p Point) Key() string {
	return fmt.Sprintf("%s_%s", p.City, p.CountryCode)
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

//Distance returns the great-circle distance between two points in kilometers
func Distance(a, b Point) float64 {
	phi1 := toRadians(a.Lat)
	phi2 := toRadians(b.Lat)
	deltaPhi := toRadians(b.Lat - a.Lat)
	deltaLambda := toRadians(b.Lon - a.Lon)

	h := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

//WithinRTT reports whether b is reachable from a inside rttMs at speed km/ms
func WithinRTT(a, b Point, rttMs, speed float64) bool {
	return Distance(a, b) <= rttMs*speed
}
