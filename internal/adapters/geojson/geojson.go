package geojson

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	orbjson "github.com/paulmach/orb/geojson"

	"github.com/dpup/spherical/internal/lib/geo"
)

// DefaultCircleSegments is the number of ring vertices used for a small circle.
const DefaultCircleSegments = 64

// Converter turns shapes into features and back. The zero value is not
// usable; create one with NewConverter.
type Converter struct {
	pathPoints     geo.PointOptions
	circleSegments int
	geoOpts        []geo.Option
}

// Option configures a Converter
type Option func(*Converter)

// WithPathPoints controls how great circles are sampled into LineStrings
func WithPathPoints(opts geo.PointOptions) Option {
	return func(c *Converter) { c.pathPoints = opts }
}

// WithCircleSegments sets the number of vertices of a small-circle ring
func WithCircleSegments(n int) Option {
	return func(c *Converter) { c.circleSegments = n }
}

// WithSphere sets the sphere shapes are rebuilt on when reading features
func WithSphere(s geo.Sphere) Option {
	return func(c *Converter) { c.geoOpts = append(c.geoOpts, geo.WithSphere(s)) }
}

// NewConverter creates a converter sampling paths with DefaultPointCount
// segments and circles with DefaultCircleSegments vertices.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		pathPoints:     geo.PointOptions{MinPoints: geo.DefaultPointCount},
		circleSegments: DefaultCircleSegments,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultConverter = NewConverter()

// ToFeature converts a shape with the default converter
func ToFeature(s Shape) (*orbjson.Feature, error) { return defaultConverter.ToFeature(s) }

// FromFeature converts a feature with the default converter
func FromFeature(f *orbjson.Feature) (Shape, error) { return defaultConverter.FromFeature(f) }

// ToFeatureCollection converts shapes with the default converter
func ToFeatureCollection(shapes ...Shape) (*orbjson.FeatureCollection, error) {
	return defaultConverter.ToFeatureCollection(shapes...)
}

// FromFeatureCollection converts features with the default converter
func FromFeatureCollection(fc *orbjson.FeatureCollection) ([]Shape, error) {
	return defaultConverter.FromFeatureCollection(fc)
}

// Marshal encodes shapes as a FeatureCollection with the default converter
func Marshal(shapes ...Shape) ([]byte, error) { return defaultConverter.Marshal(shapes...) }

// Unmarshal decodes a Feature or FeatureCollection with the default converter
func Unmarshal(data []byte) ([]Shape, error) { return defaultConverter.Unmarshal(data) }

// ToFeature renders a shape as a GeoJSON feature. Every feature carries a
// "type" property naming the shape; lengths are in meters and areas in
// square meters.
func (c *Converter) ToFeature(s Shape) (*orbjson.Feature, error) {
	switch v := s.(type) {
	case Point:
		f := orbjson.NewFeature(orb.Point(v.ToGeoJSON()))
		if alt, ok := v.Altitude(); ok {
			f.Properties["altitude"] = alt
		}
		return withKind(f, v), nil

	case Path:
		points, err := v.GeneratePoints(c.pathPoints)
		if err != nil {
			return nil, conversionError(string(KindGreatCircle), "LineString", err)
		}
		line := make(orb.LineString, len(points))
		for i, p := range points {
			line[i] = orb.Point(p.ToGeoJSON())
		}
		f := orbjson.NewFeature(line)
		f.Properties["distance"] = v.Distance().InMeters()
		f.Properties["initialBearing"] = v.InitialBearing().Degrees()
		f.Properties["finalBearing"] = v.FinalBearing().Degrees()
		return withKind(f, v), nil

	case Circle:
		points, err := v.GeneratePoints(c.circleSegments)
		if err != nil {
			return nil, conversionError(string(KindSmallCircle), "Polygon", err)
		}
		ring := closedRing(points)
		// generated clockwise, GeoJSON exteriors run counterclockwise
		ring.Reverse()
		f := orbjson.NewFeature(orb.Polygon{ring})
		f.Properties["center"] = v.Center().ToGeoJSON()
		f.Properties["radius"] = v.Radius().InMeters()
		f.Properties["area"] = v.Area()
		return withKind(f, v), nil

	case Triangle:
		vertices := v.Vertices()
		ring := closedRing(vertices[:])
		if ring.Orientation() == orb.CW {
			ring.Reverse()
		}
		angles := v.Angles()
		f := orbjson.NewFeature(orb.Polygon{ring})
		f.Properties["area"] = v.Area()
		f.Properties["perimeter"] = v.Perimeter().InMeters()
		f.Properties["angles"] = []float64{angles[0].Degrees(), angles[1].Degrees(), angles[2].Degrees()}
		return withKind(f, v), nil

	case nil:
		return nil, conversionError("nil", "Feature", errors.New("no shape"))

	default:
		return nil, conversionError(fmt.Sprintf("%T", s), "Feature", errors.New("unsupported shape"))
	}
}

// FromFeature rebuilds a shape from a feature. Points become coordinates and
// LineStrings become the great circle between their first and last
// positions. Polygons marked as small circles are rebuilt from their center
// and radius, any other four-position ring is read as a triangle.
func (c *Converter) FromFeature(f *orbjson.Feature) (Shape, error) {
	if f == nil || f.Geometry == nil {
		return nil, conversionError("Feature", "shape", errors.New("feature has no geometry"))
	}

	switch g := f.Geometry.(type) {
	case orb.Point:
		coord, err := geo.CoordinateFromGeoJSON([2]float64(g))
		if err != nil {
			return nil, conversionError("Point", string(KindCoordinate), err)
		}
		if alt, ok := number(f.Properties, "altitude"); ok {
			coord, err = geo.NewCoordinateWithAltitude(coord.Latitude(), coord.Longitude(), alt)
			if err != nil {
				return nil, conversionError("Point", string(KindCoordinate), err)
			}
		}
		return Point{coord}, nil

	case orb.LineString:
		if len(g) < 2 {
			return nil, conversionError("LineString", string(KindGreatCircle), fmt.Errorf("need at least 2 positions, got %d", len(g)))
		}
		start, err := geo.CoordinateFromGeoJSON([2]float64(g[0]))
		if err != nil {
			return nil, conversionError("LineString", string(KindGreatCircle), err)
		}
		end, err := geo.CoordinateFromGeoJSON([2]float64(g[len(g)-1]))
		if err != nil {
			return nil, conversionError("LineString", string(KindGreatCircle), err)
		}
		return Path{geo.NewGreatCircle(start, end, c.geoOpts...)}, nil

	case orb.Polygon:
		if len(g) == 0 || len(g[0]) < 4 {
			return nil, conversionError("Polygon", "shape", errors.New("polygon has no closed exterior ring"))
		}
		if kindOf(f) == KindSmallCircle {
			return c.circleFromFeature(f, g[0])
		}
		return c.triangleFromRing(g[0])

	default:
		return nil, conversionError(f.Geometry.GeoJSONType(), "shape", errors.New("unsupported geometry type"))
	}
}

// ToFeatureCollection renders shapes in order
func (c *Converter) ToFeatureCollection(shapes ...Shape) (*orbjson.FeatureCollection, error) {
	fc := orbjson.NewFeatureCollection()
	for i, s := range shapes {
		f, err := c.ToFeature(s)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		fc.Append(f)
	}
	return fc, nil
}

// FromFeatureCollection rebuilds every feature, failing on the first that cannot be read
func (c *Converter) FromFeatureCollection(fc *orbjson.FeatureCollection) ([]Shape, error) {
	if fc == nil {
		return nil, conversionError("FeatureCollection", "shapes", errors.New("no collection"))
	}
	shapes := make([]Shape, 0, len(fc.Features))
	for i, f := range fc.Features {
		s, err := c.FromFeature(f)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// Marshal encodes shapes as a FeatureCollection
func (c *Converter) Marshal(shapes ...Shape) ([]byte, error) {
	fc, err := c.ToFeatureCollection(shapes...)
	if err != nil {
		return nil, err
	}
	return fc.MarshalJSON()
}

// Unmarshal decodes either a FeatureCollection or a single Feature
func (c *Converter) Unmarshal(data []byte) ([]Shape, error) {
	fc, err := orbjson.UnmarshalFeatureCollection(data)
	if err == nil {
		return c.FromFeatureCollection(fc)
	}

	f, ferr := orbjson.UnmarshalFeature(data)
	if ferr != nil {
		return nil, conversionError("JSON", "FeatureCollection", err)
	}
	s, err := c.FromFeature(f)
	if err != nil {
		return nil, err
	}
	return []Shape{s}, nil
}

func (c *Converter) circleFromFeature(f *orbjson.Feature, ring orb.Ring) (Shape, error) {
	radius, ok := number(f.Properties, "radius")
	if !ok {
		return nil, conversionError("Polygon", string(KindSmallCircle), errors.New("missing radius property"))
	}
	r, err := geo.Meters(radius)
	if err != nil {
		return nil, conversionError("Polygon", string(KindSmallCircle), err)
	}

	var center geo.Coordinate
	if position, ok := pair(f.Properties, "center"); ok {
		center, err = geo.CoordinateFromGeoJSON(position)
	} else {
		center, err = c.ringCentroid(ring)
	}
	if err != nil {
		return nil, conversionError("Polygon", string(KindSmallCircle), err)
	}

	circle, err := geo.NewSmallCircle(center, r, c.geoOpts...)
	if err != nil {
		return nil, conversionError("Polygon", string(KindSmallCircle), err)
	}
	return Circle{circle}, nil
}

func (c *Converter) triangleFromRing(ring orb.Ring) (Shape, error) {
	if len(ring) != 4 {
		return nil, conversionError("Polygon", string(KindTriangle), fmt.Errorf("ring has %d positions, want 4", len(ring)))
	}
	var vertices [3]geo.Coordinate
	for i := range vertices {
		v, err := geo.CoordinateFromGeoJSON([2]float64(ring[i]))
		if err != nil {
			return nil, conversionError("Polygon", string(KindTriangle), err)
		}
		vertices[i] = v
	}
	tri, err := geo.TriangleFromVertices(vertices[0], vertices[1], vertices[2], c.geoOpts...)
	if err != nil {
		return nil, conversionError("Polygon", string(KindTriangle), err)
	}
	return Triangle{tri}, nil
}

func (c *Converter) ringCentroid(ring orb.Ring) (geo.Coordinate, error) {
	points := make([]geo.Coordinate, 0, len(ring))
	for _, p := range ring[:len(ring)-1] {
		coord, err := geo.CoordinateFromGeoJSON([2]float64(p))
		if err != nil {
			return geo.Coordinate{}, err
		}
		points = append(points, coord)
	}
	return geo.NewGeoUtils(c.geoOpts...).Centroid(points)
}

func withKind(f *orbjson.Feature, s Shape) *orbjson.Feature {
	f.Properties["type"] = string(s.Kind())
	return f
}

func kindOf(f *orbjson.Feature) Kind {
	s, _ := f.Properties["type"].(string)
	return Kind(s)
}

func closedRing(points []geo.Coordinate) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point(p.ToGeoJSON()))
	}
	return append(ring, ring[0])
}

// number reads a numeric property. Decoded JSON yields float64; properties
// set in code may still hold ints.
func number(props orbjson.Properties, key string) (float64, bool) {
	switch v := props[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func pair(props orbjson.Properties, key string) ([2]float64, bool) {
	switch v := props[key].(type) {
	case [2]float64:
		return v, true
	case []float64:
		if len(v) == 2 {
			return [2]float64{v[0], v[1]}, true
		}
	case []interface{}:
		if len(v) == 2 {
			lon, ok1 := v[0].(float64)
			lat, ok2 := v[1].(float64)
			if ok1 && ok2 {
				return [2]float64{lon, lat}, true
			}
		}
	}
	return [2]float64{}, false
}
