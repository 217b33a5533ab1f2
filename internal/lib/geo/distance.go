package geo

import (
	"fmt"
	"math"
	"strings"
)

// Conversion factors from one meter
const (
	metersToMiles         = 0.000621371
	metersToNauticalMiles = 0.000539957
	metersToFeet          = 3.28084
	metersToYards         = 1.09361
)

// Unit names a length unit accepted by Distance.In and Distance.Format
type Unit string

const (
	UnitMeters        Unit = "m"
	UnitKilometers    Unit = "km"
	UnitCentimeters   Unit = "cm"
	UnitMiles         Unit = "mi"
	UnitNauticalMiles Unit = "nm"
	UnitFeet          Unit = "ft"
	UnitYards         Unit = "yd"
)

// Distance is a non-negative length stored in meters.
type Distance struct {
	meters float64
}

// Meters creates a Distance. Negative, NaN and infinite lengths are rejected.
func Meters(m float64) (Distance, error) {
	if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
		return Distance{}, validationError("distance", m, "must be a finite, non-negative number of meters")
	}
	return Distance{meters: m}, nil
}

// Kilometers creates a Distance from kilometers
func Kilometers(km float64) (Distance, error) {
	return Meters(km * 1000)
}

// Miles creates a Distance from statute miles
func Miles(mi float64) (Distance, error) {
	return Meters(mi / metersToMiles)
}

// NauticalMiles creates a Distance from nautical miles
func NauticalMiles(nm float64) (Distance, error) {
	return Meters(nm / metersToNauticalMiles)
}

// Feet creates a Distance from feet
func Feet(ft float64) (Distance, error) {
	return Meters(ft / metersToFeet)
}

// Yards creates a Distance from yards
func Yards(yd float64) (Distance, error) {
	return Meters(yd / metersToYards)
}

// NewDistance creates a Distance from a value expressed in unit
func NewDistance(value float64, unit Unit) (Distance, error) {
	switch unit {
	case UnitMeters:
		return Meters(value)
	case UnitKilometers:
		return Kilometers(value)
	case UnitCentimeters:
		return Meters(value / 100)
	case UnitMiles:
		return Miles(value)
	case UnitNauticalMiles:
		return NauticalMiles(value)
	case UnitFeet:
		return Feet(value)
	case UnitYards:
		return Yards(value)
	}
	return Distance{}, validationError("unit", unit, "unknown length unit")
}

// MustDistance panics if err is non-nil. Intended for constants and fixtures:
//
//	geo.MustDistance(geo.Kilometers(1))
func MustDistance(d Distance, err error) Distance {
	if err != nil {
		panic(err)
	}
	return d
}

// ParseUnit parses a unit name such as "km" or "miles"
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "meter", "meters":
		return UnitMeters, nil
	case "km", "kilometer", "kilometers":
		return UnitKilometers, nil
	case "cm", "centimeter", "centimeters":
		return UnitCentimeters, nil
	case "mi", "mile", "miles":
		return UnitMiles, nil
	case "nm", "nmi", "nautical", "nautical-miles":
		return UnitNauticalMiles, nil
	case "ft", "foot", "feet":
		return UnitFeet, nil
	case "yd", "yard", "yards":
		return UnitYards, nil
	}
	return "", validationError("unit", s, "unknown length unit")
}

func (d Distance) InMeters() float64        { return d.meters }
func (d Distance) InKilometers() float64    { return d.meters / 1000 }
func (d Distance) InCentimeters() float64   { return d.meters * 100 }
func (d Distance) InMiles() float64         { return d.meters * metersToMiles }
func (d Distance) InNauticalMiles() float64 { return d.meters * metersToNauticalMiles }
func (d Distance) InFeet() float64          { return d.meters * metersToFeet }
func (d Distance) InYards() float64         { return d.meters * metersToYards }

// In returns the distance expressed in unit. Unknown units fall back to meters.
func (d Distance) In(unit Unit) float64 {
	switch unit {
	case UnitKilometers:
		return d.InKilometers()
	case UnitCentimeters:
		return d.InCentimeters()
	case UnitMiles:
		return d.InMiles()
	case UnitNauticalMiles:
		return d.InNauticalMiles()
	case UnitFeet:
		return d.InFeet()
	case UnitYards:
		return d.InYards()
	}
	return d.meters
}

// Add returns the sum of two distances
func (d Distance) Add(other Distance) Distance {
	return Distance{meters: d.meters + other.meters}
}

// IsZero reports whether the distance is exactly zero
func (d Distance) IsZero() bool {
	return d.meters == 0
}

// Format renders the distance with two decimals in unit, e.g. "343.56 km"
func (d Distance) Format(unit Unit) string {
	if unit == "" {
		unit = UnitMeters
	}
	return fmt.Sprintf("%.2f %s", d.In(unit), unit)
}

func (d Distance) String() string {
	return d.Format(UnitKilometers)
}
