// Package kml renders spherical shapes as KML placemarks and reads point and
// line placemarks back.
package kml

import (
	"fmt"
	"io"
	"strconv"

	gokml "github.com/twpayne/go-kml"

	"github.com/dpup/spherical/internal/adapters/geojson"
	"github.com/dpup/spherical/internal/lib/geo"
)

const schemaID = "spherical"

// Writer renders shapes as KML. The zero value samples paths with
// geo.DefaultPointCount segments and circles with
// geojson.DefaultCircleSegments vertices.
type Writer struct {
	PathPoints     geo.PointOptions
	CircleSegments int
}

// Write renders shapes with the zero Writer
func Write(w io.Writer, name string, shapes ...geojson.Shape) error {
	return Writer{}.Write(w, name, shapes...)
}

// Write renders shapes as a single KML document. Paths become tessellated
// line strings, circles and triangles become polygons. Each placemark carries
// its measurements as schema data.
func (kw Writer) Write(w io.Writer, name string, shapes ...geojson.Shape) error {
	children := []gokml.Element{
		gokml.Name(name),
		gokml.Schema(schemaID, schemaID,
			gokml.SimpleField("type", "string"),
			gokml.SimpleField("distance", "double"),
			gokml.SimpleField("radius", "double"),
			gokml.SimpleField("area", "double"),
			gokml.SimpleField("perimeter", "double"),
		),
	}
	for i, s := range shapes {
		placemark, err := kw.placemarkFor(s)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		children = append(children, placemark)
	}

	doc := gokml.KML(gokml.Document(children...))
	if err := doc.WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}

func (kw Writer) placemarkFor(s geojson.Shape) (gokml.Element, error) {
	switch v := s.(type) {
	case geojson.Point:
		return gokml.Placemark(
			gokml.Name(v.String()),
			schemaData(v.Kind()),
			gokml.Point(gokml.Coordinates(toKML(v.Coordinate))),
		), nil

	case geojson.Path:
		points, err := v.GeneratePoints(kw.PathPoints)
		if err != nil {
			return nil, conversionError(v.Kind(), err)
		}
		return gokml.Placemark(
			gokml.Name(v.String()),
			schemaData(v.Kind(), gokml.SimpleData("distance", formatFloat(v.Distance().InMeters()))),
			gokml.LineString(
				gokml.Tessellate(true),
				gokml.Coordinates(toKMLAll(points)...),
			),
		), nil

	case geojson.Circle:
		segments := kw.CircleSegments
		if segments == 0 {
			segments = geojson.DefaultCircleSegments
		}
		points, err := v.GeneratePoints(segments)
		if err != nil {
			return nil, conversionError(v.Kind(), err)
		}
		return gokml.Placemark(
			gokml.Name(v.String()),
			schemaData(v.Kind(),
				gokml.SimpleData("radius", formatFloat(v.Radius().InMeters())),
				gokml.SimpleData("area", formatFloat(v.Area())),
			),
			polygon(points),
		), nil

	case geojson.Triangle:
		vertices := v.Vertices()
		return gokml.Placemark(
			gokml.Name(v.String()),
			schemaData(v.Kind(),
				gokml.SimpleData("area", formatFloat(v.Area())),
				gokml.SimpleData("perimeter", formatFloat(v.Perimeter().InMeters())),
			),
			polygon(vertices[:]),
		), nil

	case nil:
		return nil, &geojson.ConversionError{Source: "nil", Target: "Placemark", Err: fmt.Errorf("no shape")}

	default:
		return nil, &geojson.ConversionError{Source: fmt.Sprintf("%T", s), Target: "Placemark", Err: fmt.Errorf("unsupported shape")}
	}
}

func polygon(points []geo.Coordinate) gokml.Element {
	ring := append(toKMLAll(points), toKML(points[0]))
	return gokml.Polygon(
		gokml.Tessellate(true),
		gokml.OuterBoundaryIs(gokml.LinearRing(gokml.Coordinates(ring...))),
	)
}

func schemaData(kind geojson.Kind, fields ...gokml.Element) gokml.Element {
	children := append([]gokml.Element{gokml.SimpleData("type", string(kind))}, fields...)
	return gokml.ExtendedData(gokml.SchemaData("#"+schemaID, children...))
}

func toKML(c geo.Coordinate) gokml.Coordinate {
	alt, _ := c.Altitude()
	return gokml.Coordinate{Lon: c.Longitude(), Lat: c.Latitude(), Alt: alt}
}

func toKMLAll(points []geo.Coordinate) []gokml.Coordinate {
	coords := make([]gokml.Coordinate, len(points))
	for i, p := range points {
		coords[i] = toKML(p)
	}
	return coords
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func conversionError(kind geojson.Kind, err error) error {
	return &geojson.ConversionError{Source: string(kind), Target: "Placemark", Err: err}
}
