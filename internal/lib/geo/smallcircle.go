package geo

import (
	"fmt"
	"math"
)

// SmallCircle is the set of points at a fixed surface distance from a center
type SmallCircle struct {
	center Coordinate
	radius Distance
	sphere Sphere
}

// NewSmallCircle creates a circle of the given surface radius about center.
// The radius must be positive and no longer than half a great circle.
func NewSmallCircle(center Coordinate, radius Distance, opts ...Option) (SmallCircle, error) {
	o := buildOptions(opts)
	if radius.meters <= 0 {
		return SmallCircle{}, validationError("radius", radius.meters, "must be positive")
	}
	if radius.meters > math.Pi*o.sphere.radiusMeters() {
		return SmallCircle{}, validationError("radius", radius.meters, "must not exceed half the great-circle circumference")
	}
	return SmallCircle{center: center, radius: radius, sphere: o.sphere}, nil
}

// Center returns the circle center
func (c SmallCircle) Center() Coordinate { return c.center }

// Radius returns the surface radius
func (c SmallCircle) Radius() Distance { return c.radius }

// Sphere returns the sphere the circle lies on
func (c SmallCircle) Sphere() Sphere { return c.sphere }

// AngularRadius returns radius / sphereRadius as an angle
func (c SmallCircle) AngularRadius() Angle {
	return AngleFromRadians(c.angularRadius())
}

func (c SmallCircle) angularRadius() float64 {
	return c.radius.meters / c.sphere.radiusMeters()
}

// Circumference returns 2πR·sin(ρ)
func (c SmallCircle) Circumference() Distance {
	return Distance{meters: 2 * math.Pi * c.sphere.radiusMeters() * math.Sin(c.angularRadius())}
}

// Area returns the enclosed cap area 2πR²(1 − cos ρ) in square meters
func (c SmallCircle) Area() float64 {
	r := c.sphere.radiusMeters()
	// 1 − cos ρ written as 2·hav(ρ) to keep precision for small circles
	return 2 * math.Pi * r * r * 2 * hav(c.angularRadius())
}

// AreaKm2 returns the enclosed area in square kilometers
func (c SmallCircle) AreaKm2() float64 {
	return c.Area() / 1e6
}

// Contains reports whether p lies on or inside the circle
func (c SmallCircle) Contains(p Coordinate) bool {
	return centralAngle(c.center, p) <= c.angularRadius()
}

// GeneratePoints returns n points evenly spaced by bearing around the circle,
// starting due north of the center and turning clockwise. Longitudes are
// wrapped into [-180, 180] so circles may straddle the antimeridian.
func (c SmallCircle) GeneratePoints(n int) ([]Coordinate, error) {
	if n <= 0 {
		return nil, validationError("numPoints", n, "must be positive")
	}
	ρ := c.angularRadius()
	points := make([]Coordinate, n)
	for i := 0; i < n; i++ {
		θ := 2 * math.Pi * float64(i) / float64(n)
		points[i] = destination(c.center, θ, ρ)
	}
	return points, nil
}

func (c SmallCircle) String() string {
	return fmt.Sprintf("SmallCircle(center %s, radius %s)", c.center, c.radius)
}
