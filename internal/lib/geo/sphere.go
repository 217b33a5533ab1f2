package geo

import "math"

// EarthRadiusMeters is the mean planetary radius used when no sphere is given
const EarthRadiusMeters = 6371000.0

// Sphere is the reference body every shape is measured on. The zero value
// behaves like Earth().
type Sphere struct {
	radius Distance
}

// Earth returns the default sphere with a 6371 km radius
func Earth() Sphere {
	return Sphere{radius: Distance{meters: EarthRadiusMeters}}
}

// NewSphere creates a sphere with the given radius, which must be positive
func NewSphere(radius Distance) (Sphere, error) {
	if radius.meters <= 0 {
		return Sphere{}, validationError("sphere radius", radius.meters, "must be positive")
	}
	return Sphere{radius: radius}, nil
}

// Radius returns the sphere radius
func (s Sphere) Radius() Distance {
	return Distance{meters: s.radiusMeters()}
}

func (s Sphere) radiusMeters() float64 {
	if s.radius.meters == 0 {
		return EarthRadiusMeters
	}
	return s.radius.meters
}

// Circumference returns the length of any great circle, 2πr
func (s Sphere) Circumference() Distance {
	return Distance{meters: 2 * math.Pi * s.radiusMeters()}
}

// SurfaceArea returns 4πr² in square meters
func (s Sphere) SurfaceArea() float64 {
	r := s.radiusMeters()
	return 4 * math.Pi * r * r
}

// SurfaceAreaKm2 returns the surface area in square kilometers
func (s Sphere) SurfaceAreaKm2() float64 {
	return s.SurfaceArea() / 1e6
}

// Volume returns (4/3)πr³ in cubic meters
func (s Sphere) Volume() float64 {
	r := s.radiusMeters()
	return 4.0 / 3.0 * math.Pi * r * r * r
}

// VolumeKm3 returns the volume in cubic kilometers
func (s Sphere) VolumeKm3() float64 {
	return s.Volume() / 1e9
}

// Option customizes the sphere a shape is built on
type Option func(*options)

type options struct {
	sphere Sphere
}

// WithSphere measures the shape on s instead of Earth
func WithSphere(s Sphere) Option {
	return func(o *options) {
		o.sphere = s
	}
}

func buildOptions(opts []Option) options {
	o := options{sphere: Earth()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
