package geodesy

import "math"

// Ellipsoid describes a reference ellipsoid by semi-major axis and inverse flattening
type Ellipsoid struct {
	Name string
	A    float64
	InvF float64
}

var (
	// Bessel1841 underlies the Korea 1985 (Tokyo-based) datum
	Bessel1841 = Ellipsoid{Name: "bessel", A: 6377397.155, InvF: 299.1528128}
	// GRS80 underlies the Korea 2000 datum
	GRS80 = Ellipsoid{Name: "GRS80", A: 6378137.0, InvF: 298.257222101}
	// WGS84 is the target ellipsoid of every reprojection
	WGS84 = Ellipsoid{Name: "WGS84", A: 6378137.0, InvF: 298.257223563}
)

// Es returns the first eccentricity squared
func (e Ellipsoid) Es() float64 {
	f := 1 / e.InvF
	return 2*f - f*f
}

// toGeocentric converts geodetic radians (height 0) to earth-centered cartesian metres
func (e Ellipsoid) toGeocentric(lat, lng float64) (x, y, z float64) {
	es := e.Es()
	sinLat := math.Sin(lat)
	n := e.A / math.Sqrt(1-es*sinLat*sinLat)
	x = n * math.Cos(lat) * math.Cos(lng)
	y = n * math.Cos(lat) * math.Sin(lng)
	z = n * (1 - es) * sinLat
	return x, y, z
}

// fromGeocentric converts cartesian metres back to geodetic radians by fixed-point iteration
func (e Ellipsoid) fromGeocentric(x, y, z float64) (lat, lng float64) {
	es := e.Es()
	lng = math.Atan2(y, x)
	p := math.Hypot(x, y)
	lat = math.Atan2(z, p*(1-es))
	for i := 0; i < 10; i++ {
		sinLat := math.Sin(lat)
		n := e.A / math.Sqrt(1-es*sinLat*sinLat)
		next := math.Atan2(z+es*n*sinLat, p)
		if math.Abs(next-lat) < 1e-14 {
			return next, lng
		}
		lat = next
	}
	return lat, lng
}
