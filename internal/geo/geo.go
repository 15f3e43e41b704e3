// Great-circle math and arc interpolation for threat trajectories.
package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used for haversine distances.
	EarthRadiusKm = 6371.0

	// DefaultArcSegments is the number of interpolation segments for a full arc.
	DefaultArcSegments = 64
)

// Point3D is one sample of an interpolated trajectory. Alt is a unitless
// vertical offset for rendering, not a geodetic altitude.
type Point3D struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	Alt float64 `json:"alt"`
}

// DistanceKm returns the haversine distance in kilometers between two
// lat/lng points.
func DistanceKm(latA, lngA, latB, lngB float64) float64 {
	dLat := (latB - latA) * math.Pi / 180
	dLng := (lngB - lngA) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA*math.Pi/180)*math.Cos(latB*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Bearing returns the initial great-circle bearing in degrees [0,360)
// from point A towards point B.
func Bearing(latA, lngA, latB, lngB float64) float64 {
	la := latA * math.Pi / 180
	lb := latB * math.Pi / 180
	dLng := (lngB - lngA) * math.Pi / 180
	y := math.Sin(dLng) * math.Cos(lb)
	x := math.Cos(la)*math.Sin(lb) - math.Sin(la)*math.Cos(lb)*math.Cos(dLng)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// ArcPoints interpolates the flown part of a trajectory from origin to
// destination. Lat/lng are linearly interpolated at t=i/segments for
// i in [0, floor(segments*progress)]; the vertical offset follows
// sin(t*pi)*arcHeight, a deliberately parabolic (ballistic-looking)
// shape rather than a geodesic arc. The slice is rebuilt on every call
// because progress may jump backwards when a threat wave restarts.
func ArcPoints(originLat, originLng, destLat, destLng, progress, altitudeScale float64) []Point3D {
	return ArcPointsN(originLat, originLng, destLat, destLng, progress, altitudeScale, DefaultArcSegments)
}

// ArcPointsN is ArcPoints with an explicit segment count.
func ArcPointsN(originLat, originLng, destLat, destLng, progress, altitudeScale float64, segments int) []Point3D {
	if segments <= 0 {
		segments = DefaultArcSegments
	}
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	arcHeight := altitudeScale
	if arcHeight < 0 {
		arcHeight = 0
	}
	last := int(math.Floor(float64(segments) * progress))
	points := make([]Point3D, 0, last+1)
	for i := 0; i <= last; i++ {
		t := float64(i) / float64(segments)
		points = append(points, Point3D{
			Lat: originLat + (destLat-originLat)*t,
			Lng: originLng + (destLng-originLng)*t,
			Alt: math.Sin(t*math.Pi) * arcHeight,
		})
	}
	return points
}
