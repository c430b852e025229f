package domain

import "math"

const earthRadiusM = 6371000.0

// Point is a WGS-84 coordinate with an optional altitude in meters.
type Point struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	AltitudeM float64 `json:"altitude_m"`
}

// Geometry is the derived firing-point-to-target geometry for a range.
type Geometry struct {
	DistanceM         float64 `json:"distance_m"` // slant distance, ground + altitude delta
	AzimuthDeg        float64 `json:"azimuth_deg"`
	ElevationAngleDeg float64 `json:"elevation_angle_deg"`
}

// RangeGeometry computes distance, initial bearing, and elevation angle from
// a firing point to a target. Great-circle (haversine) math is accurate well
// past any rifle range distance.
func RangeGeometry(firing, target Point) Geometry {
	ground := haversineM(firing.Lat, firing.Lon, target.Lat, target.Lon)
	rise := target.AltitudeM - firing.AltitudeM

	g := Geometry{
		DistanceM:  math.Sqrt(ground*ground + rise*rise),
		AzimuthDeg: initialBearingDeg(firing.Lat, firing.Lon, target.Lat, target.Lon),
	}
	if ground > 0 || rise != 0 {
		g.ElevationAngleDeg = math.Atan2(rise, ground) * 180 / math.Pi
	}
	return g
}

// haversineM returns the great-circle ground distance in meters.
func haversineM(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	dφ := (lat2 - lat1) * math.Pi / 180
	dλ := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dφ/2)*math.Sin(dφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(dλ/2)*math.Sin(dλ/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// initialBearingDeg returns the initial compass bearing in [0, 360).
func initialBearingDeg(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	dλ := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(dλ)
	θ := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(θ+360, 360)
}
