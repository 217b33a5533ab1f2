package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// DefaultPointCount is the number of segments GeneratePoints produces when
// neither a spacing nor a minimum is requested.
const DefaultPointCount = 100

// GreatCircle is the geodesic between two fixed coordinates
type GreatCircle struct {
	start  Coordinate
	end    Coordinate
	sphere Sphere
}

// PointOptions selects how many points GeneratePoints samples. Spacing wins
// over MinPoints, which wins over DefaultPointCount; MaxPoints caps the
// result when positive.
type PointOptions struct {
	Spacing   Distance
	MinPoints int
	MaxPoints int
}

// NewGreatCircle creates the geodesic from start to end
func NewGreatCircle(start, end Coordinate, opts ...Option) GreatCircle {
	o := buildOptions(opts)
	return GreatCircle{start: start, end: end, sphere: o.sphere}
}

// Start returns the first endpoint
func (g GreatCircle) Start() Coordinate { return g.start }

// End returns the second endpoint
func (g GreatCircle) End() Coordinate { return g.end }

// Sphere returns the sphere the geodesic is measured on
func (g GreatCircle) Sphere() Sphere { return g.sphere }

// Arc returns the same geodesic as an Arc
func (g GreatCircle) Arc() Arc {
	return ArcBetween(g.start, g.end, WithSphere(g.sphere))
}

// Distance returns the great-circle distance (haversine)
func (g GreatCircle) Distance() Distance {
	return Distance{meters: g.sphere.radiusMeters() * centralAngle(g.start, g.end)}
}

// CentralAngle returns the angle subtended by the two endpoints
func (g GreatCircle) CentralAngle() Angle {
	return AngleFromRadians(centralAngle(g.start, g.end))
}

// Interpolate returns the point at fraction ∈ [0, 1] along the geodesic
func (g GreatCircle) Interpolate(fraction float64) (Coordinate, error) {
	return interpolate(g.start, g.end, fraction)
}

// Midpoint returns the point halfway along the geodesic
func (g GreatCircle) Midpoint() (Coordinate, error) {
	return g.Interpolate(0.5)
}

// InitialBearing returns the heading when leaving start
func (g GreatCircle) InitialBearing() Angle {
	return NewBearing(g.start, g.end).Initial()
}

// FinalBearing returns the heading when arriving at end
func (g GreatCircle) FinalBearing() Angle {
	return NewBearing(g.start, g.end).Arrival()
}

// PointCount resolves the number of segments GeneratePoints will produce
func (g GreatCircle) PointCount(opts PointOptions) (int, error) {
	if opts.MinPoints < 0 {
		return 0, validationError("minPoints", opts.MinPoints, "must not be negative")
	}
	if opts.MaxPoints < 0 {
		return 0, validationError("maxPoints", opts.MaxPoints, "must not be negative")
	}

	count := DefaultPointCount
	switch {
	case !opts.Spacing.IsZero():
		count = int(math.Ceil(g.Distance().meters / opts.Spacing.meters))
	case opts.MinPoints > 0:
		count = opts.MinPoints
	}
	if opts.MaxPoints > 0 && count > opts.MaxPoints {
		count = opts.MaxPoints
	}
	if count < 1 {
		count = 1
	}
	return count, nil
}

// GeneratePoints samples the geodesic at uniform fractions and returns
// count+1 coordinates, start and end included.
func (g GreatCircle) GeneratePoints(opts PointOptions) ([]Coordinate, error) {
	count, err := g.PointCount(opts)
	if err != nil {
		return nil, err
	}

	points := make([]Coordinate, 0, count+1)
	for i := 0; i <= count; i++ {
		p, err := g.Interpolate(float64(i) / float64(count))
		if err != nil {
			return nil, fmt.Errorf("failed to sample point %d: %w", i, err)
		}
		points = append(points, p)
	}
	return points, nil
}

// Extend projects the geodesic past end by distance and returns the great
// circle from start to the projected point.
func (g GreatCircle) Extend(distance Distance) (GreatCircle, error) {
	δ := centralAngle(g.start, g.end)
	if δ < coincidentAngle {
		return GreatCircle{}, validationError("great circle", g.start, "start and end coincide; direction is undefined")
	}
	fraction := 1 + distance.meters/g.Distance().meters
	projected := slerp(g.start, g.end, δ, fraction)
	return GreatCircle{start: g.start, end: projected, sphere: g.sphere}, nil
}

// CrossTrackDistance returns how far p lies from the full great circle
// through start and end.
func (g GreatCircle) CrossTrackDistance(p Coordinate) (Distance, error) {
	n, err := g.pole()
	if err != nil {
		return Distance{}, err
	}
	xt := math.Asin(clamp(p.vector().Dot(n), -1, 1))
	return Distance{meters: math.Abs(xt) * g.sphere.radiusMeters()}, nil
}

// AlongTrackDistance returns the distance from start to the foot of the
// perpendicular dropped from p onto the great circle.
func (g GreatCircle) AlongTrackDistance(p Coordinate) (Distance, error) {
	along, _, err := g.project(p)
	if err != nil {
		return Distance{}, err
	}
	return Distance{meters: math.Abs(along) * g.sphere.radiusMeters()}, nil
}

// IsWithinDistance reports whether p lies within d of the great circle
func (g GreatCircle) IsWithinDistance(p Coordinate, d Distance) (bool, error) {
	xt, err := g.CrossTrackDistance(p)
	if err != nil {
		return false, err
	}
	return xt.meters <= d.meters, nil
}

func (g GreatCircle) String() string {
	return fmt.Sprintf("GreatCircle(%s → %s)", g.start, g.end)
}

// pole returns the unit normal of the plane holding the great circle
func (g GreatCircle) pole() (r3.Vector, error) {
	n := g.start.vector().Cross(g.end.vector())
	if n.Norm() < 1e-12 {
		return r3.Vector{}, validationError("great circle", g.String(), "endpoints are coincident or antipodal; the circle is not unique")
	}
	return n.Normalize(), nil
}

// project returns the signed along-track angle from start to the foot of p
// on the great circle and the signed cross-track angle, both in radians.
func (g GreatCircle) project(p Coordinate) (along, cross float64, err error) {
	n, err := g.pole()
	if err != nil {
		return 0, 0, err
	}
	v := p.vector()
	cross = math.Asin(clamp(v.Dot(n), -1, 1))

	foot := v.Sub(n.Mul(v.Dot(n)))
	if foot.Norm() < 1e-12 {
		// p is a pole of the circle, every foot is equally near
		return 0, cross, nil
	}
	s := g.start.vector()
	along = math.Atan2(s.Cross(foot).Dot(n), s.Dot(foot))
	return along, cross, nil
}
