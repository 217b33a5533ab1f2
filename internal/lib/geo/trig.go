package geo

import "math"

// trigTolerance absorbs rounding when a sine or cosine argument lands just
// outside [-1, 1].
const trigTolerance = 1e-12

// LawOfCosines returns the third side c of a spherical triangle given sides a
// and b and the included angle C:
//
//	cos c = cos a·cos b + sin a·sin b·cos C
//
// evaluated in haversine form so that short sides do not lose precision.
func LawOfCosines(a, b Distance, included Angle, opts ...Option) (Distance, error) {
	o := buildOptions(opts)
	r := o.sphere.radiusMeters()
	arcA, err := arcSide("side a", a, r)
	if err != nil {
		return Distance{}, err
	}
	arcB, err := arcSide("side b", b, r)
	if err != nil {
		return Distance{}, err
	}
	return Distance{meters: thirdSide(arcA, arcB, included.Radians()) * r}, nil
}

// LawOfSines returns the side opposite angle B, given angle A and its
// opposite side a:
//
//	sin b = sin a · sin B / sin A
//
// Only the solution shorter than a quarter circumference is returned.
func LawOfSines(angleA, angleB Angle, a Distance, opts ...Option) (Distance, error) {
	o := buildOptions(opts)
	r := o.sphere.radiusMeters()
	arcA, err := arcSide("side a", a, r)
	if err != nil {
		return Distance{}, err
	}
	sinA := math.Sin(angleA.Radians())
	if math.Abs(sinA) < 1e-15 {
		return Distance{}, validationError("angle A", angleA.Degrees(), "sine is zero; the law of sines has no solution")
	}
	sinB := math.Sin(arcA) * math.Sin(angleB.Radians()) / sinA
	if math.Abs(sinB) > 1+trigTolerance {
		return Distance{}, validationError("law of sines", sinB, "sine must lie within [-1, 1]; no triangle has these measurements")
	}
	return Distance{meters: math.Abs(math.Asin(clamp(sinB, -1, 1))) * r}, nil
}

// hav is the haversine function sin²(θ/2)
func hav(theta float64) float64 {
	s := math.Sin(theta / 2)
	return s * s
}

// thirdSide solves the haversine law of cosines for the side opposite C
func thirdSide(a, b, c float64) float64 {
	h := hav(a-b) + math.Sin(a)*math.Sin(b)*hav(c)
	return 2 * math.Asin(math.Sqrt(clamp(h, 0, 1)))
}

// arcSide converts a side length into its central angle, rejecting sides
// that are not strictly between zero and half a great circle.
func arcSide(name string, d Distance, radius float64) (float64, error) {
	arc := d.meters / radius
	if !(arc > 0) {
		return 0, validationError(name, d.meters, "must be positive")
	}
	if arc >= math.Pi {
		return 0, validationError(name, d.meters, "must be shorter than half the great-circle circumference (%.0f m)", math.Pi*radius)
	}
	return arc, nil
}

func arcSides(s Sphere, a, b, c Distance) (float64, float64, float64, error) {
	r := s.radiusMeters()
	arcA, err := arcSide("side a", a, r)
	if err != nil {
		return 0, 0, 0, err
	}
	arcB, err := arcSide("side b", b, r)
	if err != nil {
		return 0, 0, 0, err
	}
	arcC, err := arcSide("side c", c, r)
	if err != nil {
		return 0, 0, 0, err
	}
	return arcA, arcB, arcC, nil
}

// checkTriangleInequality enforces the strict spherical triangle inequality
// and that the perimeter stays below a full great circle.
func checkTriangleInequality(a, b, c float64) error {
	if a+b <= c || b+c <= a || c+a <= b {
		return validationError("sides", [3]float64{a, b, c}, "must satisfy the spherical triangle inequality")
	}
	if a+b+c >= 2*math.Pi {
		return validationError("sides", [3]float64{a, b, c}, "perimeter must be shorter than a great circle")
	}
	return nil
}

// anglesFromSides returns the three interior angles (radians) of the
// triangle with arc sides a, b, c using the half-angle formulas
//
//	tan(A/2) = √( sin(s−b)·sin(s−c) / (sin s·sin(s−a)) )
//
// which stay accurate for triangles only meters across, where the plain law
// of cosines cancels catastrophically.
func anglesFromSides(a, b, c float64) (float64, float64, float64, error) {
	s := (a + b + c) / 2
	sinS := math.Sin(s)
	sa, sb, sc := math.Sin(s-a), math.Sin(s-b), math.Sin(s-c)
	if !(sinS > 0 && sa > 0 && sb > 0 && sc > 0) {
		return 0, 0, 0, validationError("sides", [3]float64{a, b, c}, "do not form a spherical triangle")
	}
	angleA := 2 * math.Atan2(math.Sqrt(sb*sc), math.Sqrt(sinS*sa))
	angleB := 2 * math.Atan2(math.Sqrt(sc*sa), math.Sqrt(sinS*sb))
	angleC := 2 * math.Atan2(math.Sqrt(sa*sb), math.Sqrt(sinS*sc))
	return angleA, angleB, angleC, nil
}

// sphericalExcess returns E = A + B + C − π from the sides alone
// (L'Huilier's theorem), which keeps its precision for tiny triangles.
func sphericalExcess(a, b, c float64) float64 {
	s := (a + b + c) / 2
	t := math.Tan(s/2) * math.Tan((s-a)/2) * math.Tan((s-b)/2) * math.Tan((s-c)/2)
	return 4 * math.Atan(math.Sqrt(math.Max(0, t)))
}
