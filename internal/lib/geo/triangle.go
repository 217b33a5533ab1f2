package geo

import (
	"fmt"
	"math"
)

// Triangle is a spherical triangle. Side i is opposite angle i and vertex i,
// so sides are (a, b, c) = (|BC|, |CA|, |AB|).
type Triangle struct {
	vertices [3]Coordinate
	sides    [3]Distance
	angles   [3]Angle
	excess   float64
	sphere   Sphere
}

// TriangleFromSAS builds a triangle from two sides and the angle between them
func TriangleFromSAS(sideA Distance, angleC Angle, sideB Distance, opts ...Option) (Triangle, error) {
	o := buildOptions(opts)
	r := o.sphere.radiusMeters()
	if err := checkInteriorAngle("angle C", angleC); err != nil {
		return Triangle{}, err
	}
	a, err := arcSide("side a", sideA, r)
	if err != nil {
		return Triangle{}, err
	}
	b, err := arcSide("side b", sideB, r)
	if err != nil {
		return Triangle{}, err
	}
	c := thirdSide(a, b, angleC.Radians())
	return solveFromSides(a, b, c, o.sphere)
}

// TriangleFromSSS builds a triangle from its three sides
func TriangleFromSSS(sideA, sideB, sideC Distance, opts ...Option) (Triangle, error) {
	o := buildOptions(opts)
	a, b, c, err := arcSides(o.sphere, sideA, sideB, sideC)
	if err != nil {
		return Triangle{}, err
	}
	return solveFromSides(a, b, c, o.sphere)
}

// TriangleFromAAS builds a triangle from angles A and B and side c, the side
// joining their vertices.
func TriangleFromAAS(angleA, angleB Angle, sideC Distance, opts ...Option) (Triangle, error) {
	o := buildOptions(opts)
	if err := checkInteriorAngle("angle A", angleA); err != nil {
		return Triangle{}, err
	}
	if err := checkInteriorAngle("angle B", angleB); err != nil {
		return Triangle{}, err
	}
	c, err := arcSide("side c", sideC, o.sphere.radiusMeters())
	if err != nil {
		return Triangle{}, err
	}
	angleC, a, b, err := solveIncludedSide(angleA.Radians(), angleB.Radians(), c)
	if err != nil {
		return Triangle{}, err
	}
	return newTriangle(a, b, c, angleA.Radians(), angleB.Radians(), angleC, o.sphere)
}

// TriangleFromASA builds a triangle from angles A and C and the side b
// between them.
func TriangleFromASA(angleA Angle, sideB Distance, angleC Angle, opts ...Option) (Triangle, error) {
	o := buildOptions(opts)
	if err := checkInteriorAngle("angle A", angleA); err != nil {
		return Triangle{}, err
	}
	if err := checkInteriorAngle("angle C", angleC); err != nil {
		return Triangle{}, err
	}
	b, err := arcSide("side b", sideB, o.sphere.radiusMeters())
	if err != nil {
		return Triangle{}, err
	}
	angleB, a, c, err := solveIncludedSide(angleA.Radians(), angleC.Radians(), b)
	if err != nil {
		return Triangle{}, err
	}
	return newTriangle(a, b, c, angleA.Radians(), angleB, angleC.Radians(), o.sphere)
}

// TriangleFromVertices builds the triangle with the given corners
func TriangleFromVertices(vA, vB, vC Coordinate, opts ...Option) (Triangle, error) {
	o := buildOptions(opts)
	r := o.sphere.radiusMeters()
	a, b, c, err := arcSides(o.sphere,
		Distance{meters: centralAngle(vB, vC) * r},
		Distance{meters: centralAngle(vC, vA) * r},
		Distance{meters: centralAngle(vA, vB) * r},
	)
	if err != nil {
		return Triangle{}, err
	}
	if err := checkTriangleInequality(a, b, c); err != nil {
		return Triangle{}, err
	}
	angleA, angleB, angleC, err := anglesFromSides(a, b, c)
	if err != nil {
		return Triangle{}, err
	}
	t, err := buildTriangle(a, b, c, angleA, angleB, angleC, o.sphere)
	if err != nil {
		return Triangle{}, err
	}
	t.vertices = [3]Coordinate{vA, vB, vC}
	return t, nil
}

// Vertices returns the corners A, B, C
func (t Triangle) Vertices() [3]Coordinate { return t.vertices }

// Sides returns a, b, c
func (t Triangle) Sides() [3]Distance { return t.sides }

// Angles returns the interior angles A, B, C
func (t Triangle) Angles() [3]Angle { return t.angles }

// Sphere returns the sphere the triangle lies on
func (t Triangle) Sphere() Sphere { return t.sphere }

// SphericalExcess returns A + B + C − 180°
func (t Triangle) SphericalExcess() Angle {
	return AngleFromRadians(t.excess)
}

// Area returns the enclosed area E·R² in square meters
func (t Triangle) Area() float64 {
	r := t.sphere.radiusMeters()
	return t.excess * r * r
}

// AreaKm2 returns the enclosed area in square kilometers
func (t Triangle) AreaKm2() float64 {
	return t.Area() / 1e6
}

// Perimeter returns a + b + c
func (t Triangle) Perimeter() Distance {
	return t.sides[0].Add(t.sides[1]).Add(t.sides[2])
}

func (t Triangle) String() string {
	return fmt.Sprintf("Triangle(%s, %s, %s)", t.vertices[0], t.vertices[1], t.vertices[2])
}

func checkInteriorAngle(name string, a Angle) error {
	if !(a.Degrees() > 0 && a.Degrees() < 180) {
		return validationError(name, a.Degrees(), "must be strictly between 0° and 180°")
	}
	return nil
}

func solveFromSides(a, b, c float64, s Sphere) (Triangle, error) {
	if err := checkTriangleInequality(a, b, c); err != nil {
		return Triangle{}, err
	}
	angleA, angleB, angleC, err := anglesFromSides(a, b, c)
	if err != nil {
		return Triangle{}, err
	}
	return newTriangle(a, b, c, angleA, angleB, angleC, s)
}

// solveIncludedSide solves the triangle with angles α and β at the two ends of
// side s. It returns the third angle γ (polar law of cosines) and the sides
// opposite α and β.
func solveIncludedSide(α, β, s float64) (γ, oppα, oppβ float64, err error) {
	cosγ := -math.Cos(α)*math.Cos(β) + math.Sin(α)*math.Sin(β)*math.Cos(s)
	if math.Abs(cosγ) > 1+trigTolerance {
		return 0, 0, 0, validationError("angles", [2]float64{α * radToDeg, β * radToDeg}, "cosine of the third angle leaves [-1, 1]")
	}
	γ = math.Acos(clamp(cosγ, -1, 1))
	if γ <= 0 || γ >= math.Pi {
		return 0, 0, 0, validationError("angles", [2]float64{α * radToDeg, β * radToDeg}, "do not close a triangle on side %g rad", s)
	}

	// sin a = sin s·sin α / sin γ and cos a = (cos α + cos β·cos γ) / (sin β·sin γ),
	// both scaled by sin β·sin γ > 0
	oppα = math.Atan2(math.Sin(s)*math.Sin(α)*math.Sin(β), math.Cos(α)+math.Cos(β)*math.Cos(γ))
	oppβ = math.Atan2(math.Sin(s)*math.Sin(β)*math.Sin(α), math.Cos(β)+math.Cos(α)*math.Cos(γ))
	return γ, oppα, oppβ, nil
}

// newTriangle validates the solved triangle and places its vertices: A at the
// origin, C on the equator at longitude b, B at distance c from A with
// interior angle A.
func newTriangle(a, b, c, angleA, angleB, angleC float64, s Sphere) (Triangle, error) {
	r := s.radiusMeters()
	if _, _, _, err := arcSides(s, Distance{meters: a * r}, Distance{meters: b * r}, Distance{meters: c * r}); err != nil {
		return Triangle{}, err
	}
	if err := checkTriangleInequality(a, b, c); err != nil {
		return Triangle{}, err
	}
	t, err := buildTriangle(a, b, c, angleA, angleB, angleC, s)
	if err != nil {
		return Triangle{}, err
	}

	vA := coordinateOf(0, 0)
	vC := coordinateOf(0, b*radToDeg)
	latB := math.Asin(clamp(math.Sin(c)*math.Sin(angleA), -1, 1))
	lonB := math.Atan2(math.Sin(c)*math.Cos(angleA), math.Cos(c))
	vB := coordinateOf(latB*radToDeg, lonB*radToDeg)

	t.vertices = [3]Coordinate{vA, vB, vC}
	return t, nil
}

// buildTriangle fills sides, angles and excess and checks the angle sum. The excess
// comes from the sides (L'Huilier) so that triangles only meters across keep a
// positive excess. The returned angles must also sum to more than 180°, which
// rejects triangles too small for float64 angles to resolve their excess.
func buildTriangle(a, b, c, angleA, angleB, angleC float64, s Sphere) (Triangle, error) {
	angles := [3]Angle{AngleFromRadians(angleA), AngleFromRadians(angleB), AngleFromRadians(angleC)}
	sum := angles[0].Degrees() + angles[1].Degrees() + angles[2].Degrees()
	excess := sphericalExcess(a, b, c)
	if !(excess > 0 && excess < 2*math.Pi) || !(sum > 180 && sum < 540) {
		return Triangle{}, validationError("angle sum", sum, "must be strictly between 180° and 540°")
	}
	r := s.radiusMeters()
	return Triangle{
		sides:  [3]Distance{{meters: a * r}, {meters: b * r}, {meters: c * r}},
		angles: angles,
		excess: excess,
		sphere: s,
	}, nil
}
