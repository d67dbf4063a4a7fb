package geodesy

import (
	"fmt"
	"sort"
)

const (
	ModifiedCentralBelt = "modified-central-belt"
	CentralBelt         = "central-belt"
	CentralGRS80        = "central-grs80"
	// Auto tries every known projection in AutoOrder and keeps the first in-bounds result
	Auto = "auto"
)

var projections = map[string]Projection{
	ModifiedCentralBelt: {
		Name: ModifiedCentralBelt, EPSG: 2097,
		Lat0: 38, Lon0: 127, K0: 1,
		FalseEast: 200000, FalseNorth: 500000,
		Ellipsoid: Bessel1841, ToWGS84: Korea1985ToWGS84,
	},
	CentralBelt: {
		Name: CentralBelt, EPSG: 5174,
		Lat0: 38, Lon0: 127.0028902777778, K0: 1,
		FalseEast: 200000, FalseNorth: 500000,
		Ellipsoid: Bessel1841, ToWGS84: Korea1985ToWGS84,
	},
	CentralGRS80: {
		Name: CentralGRS80, EPSG: 5186,
		Lat0: 38, Lon0: 127, K0: 1,
		FalseEast: 200000, FalseNorth: 600000,
		Ellipsoid: GRS80,
	},
}

// AutoOrder is the candidate order used by the auto projection
var AutoOrder = []string{ModifiedCentralBelt, CentralBelt, CentralGRS80}

// Lookup returns the named projection
func Lookup(name string) (Projection, error) {
	p, ok := projections[name]
	if !ok {
		return Projection{}, fmt.Errorf("geodesy: unknown projection %q (known: %v)", name, Names())
	}
	return p, nil
}

// Names lists every selectable projection name, including auto
func Names() []string {
	names := make([]string, 0, len(projections)+1)
	for name := range projections {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, Auto)
}

// Bounds is an inclusive latitude/longitude box in degrees
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// KoreaBounds is the approximate bounding box accepted for output records
var KoreaBounds = Bounds{MinLat: 33, MaxLat: 39, MinLng: 124, MaxLng: 132}

// Contains reports whether the point lies inside the box
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// Point is a WGS-84 coordinate in degrees
type Point struct {
	Lat float64
	Lng float64
	// Projection names the grid that produced the point
	Projection string
}

// Reprojector converts projected pairs and rejects results outside its bounds
type Reprojector struct {
	candidates []Projection
	bounds     Bounds
}

// NewReprojector builds a reprojector for a projection name, or every known
// projection when name is Auto.
func NewReprojector(name string, bounds Bounds) (*Reprojector, error) {
	var names []string
	if name == Auto {
		names = AutoOrder
	} else {
		names = []string{name}
	}

	r := &Reprojector{bounds: bounds}
	for _, n := range names {
		p, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		r.candidates = append(r.candidates, p)
	}
	return r, nil
}

// Reproject returns the first candidate result inside bounds. A *DomainError is
// returned for unusable input and ErrOutOfBounds when nothing lands in the box.
func (r *Reprojector) Reproject(x, y float64) (Point, error) {
	for _, p := range r.candidates {
		lat, lng, err := p.Inverse(x, y)
		if err != nil {
			return Point{}, err
		}
		if r.bounds.Contains(lat, lng) {
			return Point{Lat: lat, Lng: lng, Projection: p.Name}, nil
		}
	}
	return Point{}, ErrOutOfBounds
}
