// Package geojson converts spherical shapes to and from GeoJSON features.
package geojson

import (
	"fmt"

	"github.com/dpup/spherical/internal/lib/geo"
)

// Kind names a shape in the "type" property of every feature this package writes.
type Kind string

const (
	KindCoordinate  Kind = "coordinate"
	KindGreatCircle Kind = "greatCircle"
	KindSmallCircle Kind = "smallCircle"
	KindTriangle    Kind = "triangle"
)

// Shape is one of Point, Path, Circle or Triangle. The set is closed: the
// unexported method keeps other packages from adding members.
type Shape interface {
	Kind() Kind
	shape()
}

// Point wraps a single coordinate
type Point struct{ geo.Coordinate }

// Path wraps a great-circle segment
type Path struct{ geo.GreatCircle }

// Circle wraps a small circle
type Circle struct{ geo.SmallCircle }

// Triangle wraps a spherical triangle
type Triangle struct{ geo.Triangle }

func (Point) Kind() Kind    { return KindCoordinate }
func (Path) Kind() Kind     { return KindGreatCircle }
func (Circle) Kind() Kind   { return KindSmallCircle }
func (Triangle) Kind() Kind { return KindTriangle }

func (Point) shape()    {}
func (Path) shape()     {}
func (Circle) shape()   {}
func (Triangle) shape() {}

// ConversionError reports a value that could not be turned into the target
// representation. Err carries the underlying cause, often a geo.ValidationError.
type ConversionError struct {
	Source string
	Target string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to convert %s to %s: %v", e.Source, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func conversionError(source, target string, err error) error {
	return &ConversionError{Source: source, Target: target, Err: err}
}
