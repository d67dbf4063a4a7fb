package geodesy

import (
	"errors"
	"fmt"
	"math"
)

// maxOffset bounds easting/northing distance from the false origin; beyond it the
// TM series diverge and the input is treated as out of domain.
const maxOffset = 1e7

// ErrOutOfBounds is returned when a reprojected point falls outside the accepted box
var ErrOutOfBounds = errors.New("geodesy: point outside bounds")

// DomainError reports projected input the inverse cannot handle
type DomainError struct {
	X, Y   float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("geodesy: invalid projected coordinate (%g, %g): %s", e.X, e.Y, e.Reason)
}

// Projection is a Transverse Mercator grid on a source ellipsoid with an optional
// datum shift to WGS-84.
type Projection struct {
	Name       string
	EPSG       int
	Lat0       float64 // degrees
	Lon0       float64 // degrees
	K0         float64
	FalseEast  float64
	FalseNorth float64
	Ellipsoid  Ellipsoid
	ToWGS84    *Helmert
}

// Inverse converts easting/northing to WGS-84 latitude/longitude in degrees
func (p Projection) Inverse(x, y float64) (lat, lng float64, err error) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, &DomainError{X: x, Y: y, Reason: "non-finite input"}
	}
	if math.Abs(x-p.FalseEast) > maxOffset || math.Abs(y-p.FalseNorth) > maxOffset {
		return 0, 0, &DomainError{X: x, Y: y, Reason: "too far from false origin"}
	}

	phi, lam := p.inverseTM(x, y)
	if math.IsNaN(phi) || math.IsNaN(lam) || math.Abs(phi) > math.Pi/2 {
		return 0, 0, &DomainError{X: x, Y: y, Reason: "inverse did not converge"}
	}

	if p.ToWGS84 != nil {
		gx, gy, gz := p.Ellipsoid.toGeocentric(phi, lam)
		gx, gy, gz = p.ToWGS84.apply(gx, gy, gz)
		phi, lam = WGS84.fromGeocentric(gx, gy, gz)
	}

	return phi * 180 / math.Pi, lam * 180 / math.Pi, nil
}

// inverseTM is the Snyder footpoint-latitude inverse (USGS PP 1395, eqs 8-12..8-18)
func (p Projection) inverseTM(x, y float64) (phi, lam float64) {
	a := p.Ellipsoid.A
	es := p.Ellipsoid.Es()
	e4 := es * es
	e6 := e4 * es
	ep2 := es / (1 - es)

	m0 := meridianArc(a, es, p.Lat0*math.Pi/180)
	m := m0 + (y-p.FalseNorth)/p.K0
	mu := m / (a * (1 - es/4 - 3*e4/64 - 5*e6/256))

	sq := math.Sqrt(1 - es)
	e1 := (1 - sq) / (1 + sq)
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sinPhi, cosPhi, tanPhi := math.Sin(phi1), math.Cos(phi1), math.Tan(phi1)
	c1 := ep2 * cosPhi * cosPhi
	t1 := tanPhi * tanPhi
	n1 := a / math.Sqrt(1-es*sinPhi*sinPhi)
	r1 := a * (1 - es) / math.Pow(1-es*sinPhi*sinPhi, 1.5)
	d := (x - p.FalseEast) / (n1 * p.K0)

	phi = phi1 - (n1*tanPhi/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lam = p.Lon0*math.Pi/180 + (d-
		(1+2*t1+c1)*math.Pow(d, 3)/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cosPhi
	return phi, lam
}

// meridianArc is the distance along the meridian from the equator to phi
func meridianArc(a, es, phi float64) float64 {
	e4 := es * es
	e6 := e4 * es
	return a * ((1-es/4-3*e4/64-5*e6/256)*phi -
		(3*es/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}
