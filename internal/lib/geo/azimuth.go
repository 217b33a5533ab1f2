package geo

import (
	"fmt"
	"math"
)

// Azimuth is the compass direction between an ordered pair of coordinates
type Azimuth struct {
	from Coordinate
	to   Coordinate
}

// NewAzimuth creates the azimuth from one coordinate towards another
func NewAzimuth(from, to Coordinate) Azimuth {
	return Azimuth{from: from, to: to}
}

// Forward returns the initial great-circle bearing in [0, 360), clockwise from north
func (a Azimuth) Forward() Angle {
	return NewAngle(initialBearing(a.from, a.to))
}

// Reverse returns the forward azimuth turned around, (forward + 180) mod 360
func (a Azimuth) Reverse() Angle {
	return NewAngle(wrap360(initialBearing(a.from, a.to) + 180))
}

// Bearing describes travel from a start to an end coordinate
type Bearing struct {
	start Coordinate
	end   Coordinate
}

// NewBearing creates the bearing for travel from start to end
func NewBearing(start, end Coordinate) Bearing {
	return Bearing{start: start, end: end}
}

// Initial returns the heading when leaving start
func (b Bearing) Initial() Angle {
	return NewAzimuth(b.start, b.end).Forward()
}

// Final returns the reverse azimuth of the same pair
func (b Bearing) Final() Angle {
	return NewAzimuth(b.start, b.end).Reverse()
}

// Arrival returns the heading when reaching end along the great circle. It
// differs from Final whenever the path is not a meridian or the equator.
func (b Bearing) Arrival() Angle {
	return NewAngle(wrap360(initialBearing(b.end, b.start) + 180))
}

func (b Bearing) String() string {
	return fmt.Sprintf("Bearing(%s → %s)", b.start, b.end)
}

// initialBearing returns the bearing in degrees [0, 360) from one coordinate
// to another. Coincident points yield 0.
func initialBearing(from, to Coordinate) float64 {
	φ1 := from.LatitudeRadians()
	φ2 := to.LatitudeRadians()
	Δλ := (to.lon - from.lon) * degToRad

	y := math.Sin(Δλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	θ := math.Atan2(y, x)

	return wrap360(θ * radToDeg)
}
