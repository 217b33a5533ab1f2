package geo

// Polyline is a path of coordinates with its Google encoded form, either of
// which may be empty.
type Polyline struct {
	Encoded string       `json:"encoded_polyline,omitempty"`
	Points  []Coordinate `json:"-"`
}

// OverlapSegment is a stretch where two polylines run within a threshold of
// each other
type OverlapSegment struct {
	Start  Coordinate
	End    Coordinate
	Length Distance
}

// GeoUtils groups the path-level calculations built on the shape types
type GeoUtils interface {
	// Great-circle distance between two points
	PointToPoint(p1, p2 Coordinate) Distance

	// Minimum distance from a point to any segment of the polyline
	PointToPolyline(point Coordinate, polyline Polyline) (Distance, error)

	// Closest point on the polyline, projected onto the segment geodesic
	ClosestPointOnPolyline(point Coordinate, polyline Polyline) (Coordinate, error)

	// Sum of the segment lengths
	PolylineLength(polyline Polyline) (Distance, error)

	// Whether two polylines come within threshold of each other, and where
	PolylinesOverlap(polyline1, polyline2 Polyline, threshold Distance) (bool, []OverlapSegment, error)

	// Share of polyline1's length that lies within threshold of polyline2, in percent
	PolylineOverlapPercentage(polyline1, polyline2 Polyline, threshold Distance) (float64, error)

	// Points no further than maxDistance from center, in input order
	FilterPointsByDistance(points []Coordinate, center Coordinate, maxDistance Distance) []Coordinate

	// Geographic centroid (normalized mean of unit vectors)
	Centroid(points []Coordinate) (Coordinate, error)

	// Area enclosed by a ring in square meters, open or closed
	RingArea(ring []Coordinate) (float64, error)

	// Google polyline encoding with 5 decimal places
	EncodePolyline(points []Coordinate) string
	DecodePolyline(encoded string) ([]Coordinate, error)
}
