package geo

import (
	"math"

	"github.com/golang/geo/r3"
)

// Point is the radian-pair view of a Coordinate used by the trigonometric
// code. X carries longitude and Y latitude, both in radians; every consumer
// relies on that axis order.
type Point struct {
	X float64
	Y float64
}

// PointFromCoordinate maps a Coordinate into its radian pair
func PointFromCoordinate(c Coordinate) Point {
	return Point{X: c.LongitudeRadians(), Y: c.LatitudeRadians()}
}

// CoordinateFromPoint is the inverse of PointFromCoordinate
func CoordinateFromPoint(p Point) (Coordinate, error) {
	return CoordinateFromRadians(p.Y, p.X)
}

// CoordinateSystem is the seam between geographic coordinates and the radian
// pairs the trigonometric code works on. The zero value is ready to use.
type CoordinateSystem struct{}

// FromCoordinate maps c into its radian pair
func (CoordinateSystem) FromCoordinate(c Coordinate) Point {
	return PointFromCoordinate(c)
}

// FromPoint re-derives the coordinate of p
func (CoordinateSystem) FromPoint(p Point) (Coordinate, error) {
	return CoordinateFromPoint(p)
}

// Vector returns the unit cartesian vector for the point. The z axis runs
// through the north pole and x through (0°, 0°).
func (p Point) Vector() r3.Vector {
	cosLat := math.Cos(p.Y)
	return r3.Vector{
		X: cosLat * math.Cos(p.X),
		Y: cosLat * math.Sin(p.X),
		Z: math.Sin(p.Y),
	}
}

func (c Coordinate) vector() r3.Vector {
	return PointFromCoordinate(c).Vector()
}

// coordinateFromVector converts any non-zero vector back to a Coordinate.
// At the poles the longitude collapses to 0.
func coordinateFromVector(v r3.Vector) Coordinate {
	lat := math.Atan2(v.Z, math.Hypot(v.X, v.Y))
	lon := math.Atan2(v.Y, v.X)
	return coordinateOf(lat*radToDeg, lon*radToDeg)
}
