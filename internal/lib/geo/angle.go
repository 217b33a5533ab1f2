package geo

import (
	"fmt"
	"math"
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Angle is a rotation measured in degrees. Negative values and values past a
// full turn are legal; Normalize maps them into [0, 360).
type Angle struct {
	degrees float64
}

// NewAngle creates an Angle from degrees
func NewAngle(degrees float64) Angle {
	return Angle{degrees: degrees}
}

// AngleFromRadians creates an Angle from radians
func AngleFromRadians(radians float64) Angle {
	return Angle{degrees: radians * radToDeg}
}

// Degrees returns the angle in degrees
func (a Angle) Degrees() float64 {
	return a.degrees
}

// Radians returns the angle in radians
func (a Angle) Radians() float64 {
	return a.degrees * degToRad
}

// Normalize maps the angle into [0, 360)
func (a Angle) Normalize() Angle {
	return Angle{degrees: wrap360(a.degrees)}
}

// Add returns the sum of two angles, without normalization
func (a Angle) Add(b Angle) Angle {
	return Angle{degrees: a.degrees + b.degrees}
}

func (a Angle) String() string {
	return fmt.Sprintf("%g°", a.degrees)
}

// DefineAngleFromSides returns the angle opposite side c of the spherical
// triangle with sides a, b and c (spherical law of cosines). The half-angle
// form is used so that triangles a few meters across keep full precision.
func DefineAngleFromSides(a, b, c Distance, opts ...Option) (Angle, error) {
	o := buildOptions(opts)
	sa, sb, sc, err := arcSides(o.sphere, a, b, c)
	if err != nil {
		return Angle{}, err
	}
	if err := checkTriangleInequality(sa, sb, sc); err != nil {
		return Angle{}, err
	}
	_, _, angleC, err := anglesFromSides(sa, sb, sc)
	if err != nil {
		return Angle{}, err
	}
	return AngleFromRadians(angleC), nil
}

// DefineAngleFromSines returns the angle opposite side a, given a known angle
// and the side b opposite it (spherical law of sines):
//
//	sin A = sin(known) · sin(a) / sin(b)
//
// Only the acute solution of the ambiguous case is returned.
func DefineAngleFromSines(a, b Distance, known Angle, opts ...Option) (Angle, error) {
	o := buildOptions(opts)
	r := o.sphere.radiusMeters()
	arcA, err := arcSide("side a", a, r)
	if err != nil {
		return Angle{}, err
	}
	arcB, err := arcSide("side b", b, r)
	if err != nil {
		return Angle{}, err
	}

	sinA := math.Sin(known.Radians()) * math.Sin(arcA) / math.Sin(arcB)
	if math.IsNaN(sinA) || math.Abs(sinA) > 1+trigTolerance {
		return Angle{}, validationError("law of sines", sinA, "sine must lie within [-1, 1]; no triangle has these measurements")
	}
	return AngleFromRadians(math.Asin(clamp(sinA, -1, 1))), nil
}

// wrap360 maps degrees into [0, 360)
func wrap360(deg float64) float64 {
	if deg >= 0 && deg < 360 {
		return deg
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -1e-15 + 360 rounds to 360
	if deg >= 360 {
		deg = 0
	}
	return deg
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
