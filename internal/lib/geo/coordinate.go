package geo

import (
	"fmt"
	"math"
)

// Coordinate is a validated geographic position in degrees with an optional
// altitude in meters.
type Coordinate struct {
	lat    float64
	lon    float64
	alt    float64
	hasAlt bool
}

// NewCoordinate creates a Coordinate from latitude and longitude in degrees.
// Latitude must be in [-90, 90] and longitude in [-180, 180].
func NewCoordinate(latitude, longitude float64) (Coordinate, error) {
	if err := validateDegrees(latitude, longitude); err != nil {
		return Coordinate{}, err
	}
	return Coordinate{lat: latitude, lon: longitude}, nil
}

// NewCoordinateWithAltitude creates a Coordinate carrying an altitude in meters
func NewCoordinateWithAltitude(latitude, longitude, altitude float64) (Coordinate, error) {
	if err := validateDegrees(latitude, longitude); err != nil {
		return Coordinate{}, err
	}
	if math.IsNaN(altitude) || math.IsInf(altitude, 0) {
		return Coordinate{}, validationError("altitude", altitude, "must be finite")
	}
	return Coordinate{lat: latitude, lon: longitude, alt: altitude, hasAlt: true}, nil
}

// CoordinateFromRadians creates a Coordinate from latitude in [-π/2, π/2] and
// longitude in [-π, π] radians.
func CoordinateFromRadians(latitude, longitude float64) (Coordinate, error) {
	// rounding slack so that degree bounds survive the round trip
	const slack = 1e-12
	if !(latitude >= -math.Pi/2-slack && latitude <= math.Pi/2+slack) {
		return Coordinate{}, validationError("latitude", latitude, "must be between -π/2 and π/2 radians")
	}
	if !(longitude >= -math.Pi-slack && longitude <= math.Pi+slack) {
		return Coordinate{}, validationError("longitude", longitude, "must be between -π and π radians")
	}
	return Coordinate{
		lat: clamp(latitude*radToDeg, -90, 90),
		lon: clamp(longitude*radToDeg, -180, 180),
	}, nil
}

// MustCoordinate is like NewCoordinate but panics on invalid input. Use it
// for fixed, known-good positions only.
func MustCoordinate(latitude, longitude float64) Coordinate {
	c, err := NewCoordinate(latitude, longitude)
	if err != nil {
		panic(err)
	}
	return c
}

// CoordinateFromGeoJSON builds a Coordinate from a GeoJSON [longitude, latitude] pair
func CoordinateFromGeoJSON(position [2]float64) (Coordinate, error) {
	return NewCoordinate(position[1], position[0])
}

func validateDegrees(latitude, longitude float64) error {
	if !(latitude >= -90 && latitude <= 90) {
		return validationError("latitude", latitude, "must be between -90 and 90 degrees")
	}
	if !(longitude >= -180 && longitude <= 180) {
		return validationError("longitude", longitude, "must be between -180 and 180 degrees")
	}
	return nil
}

// coordinateOf builds a Coordinate from computed values, folding rounding
// overshoot back into range instead of failing.
func coordinateOf(latitude, longitude float64) Coordinate {
	return Coordinate{lat: clamp(latitude, -90, 90), lon: wrapLongitude(longitude)}
}

// Latitude returns the latitude in degrees
func (c Coordinate) Latitude() float64 { return c.lat }

// Longitude returns the longitude in degrees
func (c Coordinate) Longitude() float64 { return c.lon }

// LatitudeRadians returns the latitude in radians
func (c Coordinate) LatitudeRadians() float64 { return c.lat * degToRad }

// LongitudeRadians returns the longitude in radians
func (c Coordinate) LongitudeRadians() float64 { return c.lon * degToRad }

// Altitude returns the altitude in meters and whether one was set
func (c Coordinate) Altitude() (float64, bool) {
	return c.alt, c.hasAlt
}

// ToGeoJSON returns the GeoJSON position [longitude, latitude]
func (c Coordinate) ToGeoJSON() [2]float64 {
	return [2]float64{c.lon, c.lat}
}

// Equal compares latitude, longitude and altitude exactly
func (c Coordinate) Equal(other Coordinate) bool {
	return c.lat == other.lat &&
		c.lon == other.lon &&
		c.hasAlt == other.hasAlt &&
		c.alt == other.alt
}

func (c Coordinate) String() string {
	if c.hasAlt {
		return fmt.Sprintf("(%g°, %g°, %gm)", c.lat, c.lon, c.alt)
	}
	return fmt.Sprintf("(%g°, %g°)", c.lat, c.lon)
}

// wrapLongitude maps degrees into [-180, 180]
func wrapLongitude(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
