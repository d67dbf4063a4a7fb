package geodesy

import "math"

const arcSecond = math.Pi / (180 * 3600)

// Helmert is a seven-parameter position-vector datum shift to WGS-84.
// Translations are metres, rotations arc-seconds, scale parts per million.
type Helmert struct {
	DX, DY, DZ float64
	RX, RY, RZ float64
	PPM        float64
}

// Korea1985ToWGS84 is the published towgs84 set for the Bessel-based Korean belts
var Korea1985ToWGS84 = &Helmert{
	DX: -115.80, DY: 474.99, DZ: 674.11,
	RX: 1.16, RY: -2.31, RZ: -1.63,
	PPM: 6.43,
}

// apply shifts a geocentric point from the source datum into WGS-84
func (h *Helmert) apply(x, y, z float64) (float64, float64, float64) {
	rx, ry, rz := h.RX*arcSecond, h.RY*arcSecond, h.RZ*arcSecond
	m := 1 + h.PPM/1e6
	xo := m*(x-rz*y+ry*z) + h.DX
	yo := m*(rz*x+y-rx*z) + h.DY
	zo := m*(-ry*x+rx*y+z) + h.DZ
	return xo, yo, zo
}
