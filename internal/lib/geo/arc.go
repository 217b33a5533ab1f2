package geo

import (
	"math"

	"github.com/golang/geo/r3"
)

// coincidentAngle is the central angle (radians) below which two points are
// treated as the same place.
const coincidentAngle = 1e-10

type arcMode int

const (
	arcEndpoints arcMode = iota
	arcCentralAngle
	arcFullCircle
)

// Arc is a piece of a great circle, described either by its two endpoints,
// by a central angle, or by nothing at all (the full circumference).
type Arc struct {
	mode   arcMode
	start  Coordinate
	end    Coordinate
	angle  Angle
	sphere Sphere
}

// ArcBetween creates the shorter great-circle arc joining start and end
func ArcBetween(start, end Coordinate, opts ...Option) Arc {
	o := buildOptions(opts)
	return Arc{mode: arcEndpoints, start: start, end: end, sphere: o.sphere}
}

// ArcFromAngle creates an arc subtending the given central angle
func ArcFromAngle(angle Angle, opts ...Option) Arc {
	o := buildOptions(opts)
	return Arc{mode: arcCentralAngle, angle: angle, sphere: o.sphere}
}

// ArcOnSphere creates an arc covering a whole great circle
func ArcOnSphere(opts ...Option) Arc {
	o := buildOptions(opts)
	return Arc{mode: arcFullCircle, sphere: o.sphere}
}

// Sphere returns the sphere the arc lies on
func (a Arc) Sphere() Sphere { return a.sphere }

// Endpoints returns the arc endpoints; ok is false for arcs built from an
// angle or covering the full circle.
func (a Arc) Endpoints() (start, end Coordinate, ok bool) {
	if a.mode != arcEndpoints {
		return Coordinate{}, Coordinate{}, false
	}
	return a.start, a.end, true
}

// CentralAngle returns the angle the arc subtends at the sphere's center
func (a Arc) CentralAngle() Angle {
	switch a.mode {
	case arcEndpoints:
		return AngleFromRadians(centralAngle(a.start, a.end))
	case arcCentralAngle:
		return NewAngle(math.Abs(a.angle.Degrees()))
	}
	return NewAngle(360)
}

// Length returns the arc length along the sphere's surface
func (a Arc) Length() Distance {
	r := a.sphere.radiusMeters()
	switch a.mode {
	case arcEndpoints:
		return Distance{meters: r * centralAngle(a.start, a.end)}
	case arcCentralAngle:
		return Distance{meters: r * math.Abs(a.angle.Radians())}
	}
	return Distance{meters: 2 * math.Pi * r}
}

// Interpolate returns the point at the given fraction of the way from start
// to end by spherical linear interpolation. fraction must be in [0, 1].
func (a Arc) Interpolate(fraction float64) (Coordinate, error) {
	if a.mode != arcEndpoints {
		return Coordinate{}, validationError("arc", "no endpoints", "only arcs between two coordinates can be interpolated")
	}
	return interpolate(a.start, a.end, fraction)
}

func interpolate(start, end Coordinate, fraction float64) (Coordinate, error) {
	if !(fraction >= 0 && fraction <= 1) {
		return Coordinate{}, validationError("fraction", fraction, "must be between 0 and 1")
	}
	if fraction == 0 {
		return start, nil
	}
	if fraction == 1 {
		return end, nil
	}
	d := centralAngle(start, end)
	if d < coincidentAngle {
		return start, nil
	}
	return slerp(start, end, d, fraction), nil
}

// centralAngle returns the angle in radians between two coordinates using
// the haversine formula.
func centralAngle(p1, p2 Coordinate) float64 {
	φ1 := p1.LatitudeRadians()
	φ2 := p2.LatitudeRadians()
	Δφ := φ2 - φ1
	Δλ := (p2.lon - p1.lon) * degToRad

	a := hav(Δφ) + math.Cos(φ1)*math.Cos(φ2)*hav(Δλ)
	a = clamp(a, 0, 1)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// slerp walks fraction·δ along the great circle from start towards end.
// Fractions above 1 extrapolate past end. δ must be the central angle
// between the two points and larger than coincidentAngle.
func slerp(start, end Coordinate, δ, fraction float64) Coordinate {
	v1 := start.vector()
	v2 := end.vector()

	sinδ := math.Sin(δ)
	if sinδ < 1e-9 {
		// antipodal: every great circle through start reaches end, pick one
		// deterministically and rotate within its plane
		u := perpendicular(v1)
		θ := fraction * δ
		return coordinateFromVector(v1.Mul(math.Cos(θ)).Add(u.Mul(math.Sin(θ))))
	}

	a := math.Sin((1-fraction)*δ) / sinδ
	b := math.Sin(fraction*δ) / sinδ
	return coordinateFromVector(v1.Mul(a).Add(v2.Mul(b)))
}

// perpendicular returns a unit vector orthogonal to v, preferring the
// direction of the north pole so that antipodal paths run along a meridian.
func perpendicular(v r3.Vector) r3.Vector {
	ref := r3.Vector{X: 0, Y: 0, Z: 1}
	if math.Abs(v.Z) > 0.9 {
		ref = r3.Vector{X: 1, Y: 0, Z: 0}
	}
	u := ref.Sub(v.Mul(v.Dot(ref)))
	return u.Normalize()
}

// destination returns the point reached from start after travelling the
// central angle δ on the initial bearing θ (both radians).
func destination(start Coordinate, θ, δ float64) Coordinate {
	φ1 := start.LatitudeRadians()
	λ1 := start.LongitudeRadians()

	sinφ2 := math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ)
	φ2 := math.Asin(clamp(sinφ2, -1, 1))
	λ2 := λ1 + math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1), math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))

	return coordinateOf(φ2*radToDeg, λ2*radToDeg)
}
