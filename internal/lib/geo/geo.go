package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/twpayne/go-polyline"
)

// overlapSampleSpacing bounds the gap between samples when comparing paths
const overlapSampleSpacing = 25.0

// geoUtils implements the GeoUtils interface
type geoUtils struct {
	sphere Sphere
}

// NewGeoUtils creates a new GeoUtils measuring on Earth unless WithSphere is given
func NewGeoUtils(opts ...Option) GeoUtils {
	o := buildOptions(opts)
	return &geoUtils{sphere: o.sphere}
}

func (g *geoUtils) radius() float64 {
	return g.sphere.radiusMeters()
}

// PointToPoint returns the haversine distance between two points
func (g *geoUtils) PointToPoint(p1, p2 Coordinate) Distance {
	return Distance{meters: centralAngle(p1, p2) * g.radius()}
}

// PointToPolyline returns the distance from point to the nearest segment
func (g *geoUtils) PointToPolyline(point Coordinate, polyline Polyline) (Distance, error) {
	points, err := g.points(polyline)
	if err != nil {
		return Distance{}, err
	}
	if len(points) == 1 {
		return g.PointToPoint(point, points[0]), nil
	}

	minDistance := math.Inf(1)
	for i := 0; i < len(points)-1; i++ {
		_, d := projectOnSegment(point, points[i], points[i+1])
		minDistance = math.Min(minDistance, d)
	}
	return Distance{meters: minDistance * g.radius()}, nil
}

// ClosestPointOnPolyline returns the point on the polyline nearest to point
func (g *geoUtils) ClosestPointOnPolyline(point Coordinate, polyline Polyline) (Coordinate, error) {
	points, err := g.points(polyline)
	if err != nil {
		return Coordinate{}, err
	}
	if len(points) == 1 {
		return points[0], nil
	}

	var closest Coordinate
	minDistance := math.Inf(1)
	for i := 0; i < len(points)-1; i++ {
		c, d := projectOnSegment(point, points[i], points[i+1])
		if d < minDistance {
			minDistance = d
			closest = c
		}
	}
	return closest, nil
}

// PolylineLength returns the sum of the great-circle segment lengths
func (g *geoUtils) PolylineLength(polyline Polyline) (Distance, error) {
	points, err := g.points(polyline)
	if err != nil {
		return Distance{}, err
	}
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += centralAngle(points[i], points[i+1])
	}
	return Distance{meters: total * g.radius()}, nil
}

// PolylinesOverlap checks every segment pair by sampling one against the other
func (g *geoUtils) PolylinesOverlap(polyline1, polyline2 Polyline, threshold Distance) (bool, []OverlapSegment, error) {
	points1, err := g.points(polyline1)
	if err != nil {
		return false, nil, err
	}
	points2, err := g.points(polyline2)
	if err != nil {
		return false, nil, err
	}
	if len(points1) < 2 || len(points2) < 2 {
		return false, nil, errors.New("both polylines must have at least 2 points")
	}

	limit := threshold.meters / g.radius()
	var segments []OverlapSegment
	for i := 0; i < len(points1)-1; i++ {
		for j := 0; j < len(points2)-1; j++ {
			a1, b1 := points1[i], points1[i+1]
			a2, b2 := points2[j], points2[j+1]
			if !g.segmentWithin(a1, b1, a2, b2, limit) && !g.segmentWithin(a2, b2, a1, b1, limit) {
				continue
			}
			start, _ := projectOnSegment(a1, a2, b2)
			end, _ := projectOnSegment(b1, a2, b2)
			segments = append(segments, OverlapSegment{
				Start:  start,
				End:    end,
				Length: g.PointToPoint(start, end),
			})
		}
	}
	return len(segments) > 0, segments, nil
}

// PolylineOverlapPercentage samples polyline1 and weights each segment by the
// share of its samples lying within threshold of polyline2
func (g *geoUtils) PolylineOverlapPercentage(polyline1, polyline2 Polyline, threshold Distance) (float64, error) {
	points1, err := g.points(polyline1)
	if err != nil {
		return 0, err
	}
	points2, err := g.points(polyline2)
	if err != nil {
		return 0, err
	}
	if len(points1) < 2 || len(points2) < 2 {
		return 0, errors.New("both polylines must have at least 2 points")
	}

	other := Polyline{Points: points2}
	total, overlapping := 0.0, 0.0
	for i := 0; i < len(points1)-1; i++ {
		samples := g.sample(points1[i], points1[i+1], 2)
		hits := 0
		for _, p := range samples {
			d, err := g.PointToPolyline(p, other)
			if err != nil {
				return 0, err
			}
			if d.meters <= threshold.meters {
				hits++
			}
		}
		length := centralAngle(points1[i], points1[i+1])
		total += length
		overlapping += length * float64(hits) / float64(len(samples))
	}
	if total == 0 {
		return 0, nil
	}
	return overlapping / total * 100, nil
}

// FilterPointsByDistance keeps the points within maxDistance of center
func (g *geoUtils) FilterPointsByDistance(points []Coordinate, center Coordinate, maxDistance Distance) []Coordinate {
	var filtered []Coordinate
	for _, p := range points {
		if g.PointToPoint(center, p).meters <= maxDistance.meters {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Centroid returns the normalized mean of the points' unit vectors
func (g *geoUtils) Centroid(points []Coordinate) (Coordinate, error) {
	if len(points) == 0 {
		return Coordinate{}, validationError("points", 0, "centroid needs at least one point")
	}
	var sum r3.Vector
	for _, p := range points {
		sum = sum.Add(p.vector())
	}
	if sum.Norm() < 1e-12 {
		return Coordinate{}, validationError("points", len(points), "points are balanced around the sphere; centroid is undefined")
	}
	return coordinateFromVector(sum), nil
}

// RingArea fans the ring into triangles from its first vertex and sums their
// signed excess (Van Oosterom–Strackee). The smaller of the two regions the
// ring bounds is reported.
func (g *geoUtils) RingArea(ring []Coordinate) (float64, error) {
	if n := len(ring); n > 1 && ring[0].Equal(ring[n-1]) {
		ring = ring[:n-1]
	}
	if len(ring) < 3 {
		return 0, validationError("ring", len(ring), "needs at least 3 distinct vertices")
	}

	a := ring[0].vector()
	sum := 0.0
	for i := 1; i < len(ring)-1; i++ {
		b := ring[i].vector()
		c := ring[i+1].vector()
		num := a.Dot(b.Cross(c))
		den := 1 + a.Dot(b) + b.Dot(c) + c.Dot(a)
		sum += 2 * math.Atan2(num, den)
	}

	excess := math.Abs(sum)
	if excess > 2*math.Pi {
		excess = 4*math.Pi - excess
	}
	r := g.radius()
	return excess * r * r, nil
}

// EncodePolyline encodes points with the Google polyline algorithm
func (g *geoUtils) EncodePolyline(points []Coordinate) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.lat, p.lon}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline decodes a Google polyline string, validating every point
func (g *geoUtils) DecodePolyline(encoded string) ([]Coordinate, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}

	points := make([]Coordinate, len(coords))
	for i, coord := range coords {
		p, err := NewCoordinate(coord[0], coord[1])
		if err != nil {
			return nil, fmt.Errorf("decoded polyline point %d: %w", i, err)
		}
		points[i] = p
	}
	return points, nil
}

// points returns the polyline's coordinates, decoding the encoded form when
// no points are attached
func (g *geoUtils) points(p Polyline) ([]Coordinate, error) {
	if len(p.Points) > 0 {
		return p.Points, nil
	}
	if p.Encoded == "" {
		return nil, errors.New("polyline has no points")
	}
	return g.DecodePolyline(p.Encoded)
}

// sample returns points along the geodesic start→end no further apart than
// overlapSampleSpacing, with at least minSamples samples
func (g *geoUtils) sample(start, end Coordinate, minSamples int) []Coordinate {
	δ := centralAngle(start, end)
	n := int(math.Max(float64(minSamples), math.Ceil(δ*g.radius()/overlapSampleSpacing)+1))
	out := make([]Coordinate, n)
	for i := range out {
		f := float64(i) / float64(n-1)
		if δ < coincidentAngle {
			out[i] = start
			continue
		}
		out[i] = slerp(start, end, δ, f)
	}
	out[0], out[n-1] = start, end
	return out
}

// segmentWithin reports whether any sample of segment 1 lies within limit
// radians of segment 2
func (g *geoUtils) segmentWithin(a1, b1, a2, b2 Coordinate, limit float64) bool {
	for _, p := range g.sample(a1, b1, 3) {
		if _, d := projectOnSegment(p, a2, b2); d <= limit {
			return true
		}
	}
	return false
}

// projectOnSegment returns the point of segment a→b closest to p and its
// distance in radians. Feet falling outside the segment snap to the nearer
// endpoint.
func projectOnSegment(p, a, b Coordinate) (Coordinate, float64) {
	δ := centralAngle(a, b)
	toA := centralAngle(p, a)
	toB := centralAngle(p, b)
	nearest, nearestDist := a, toA
	if toB < toA {
		nearest, nearestDist = b, toB
	}
	if δ < coincidentAngle {
		return nearest, nearestDist
	}

	along, cross, err := NewGreatCircle(a, b).project(p)
	if err != nil || along < 0 || along > δ {
		return nearest, nearestDist
	}
	foot := slerp(a, b, δ, along/δ)
	return foot, math.Abs(cross)
}
