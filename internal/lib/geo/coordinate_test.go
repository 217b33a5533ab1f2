package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinate_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{"origin", 0, 0, false},
		{"north pole", 90, 0, false},
		{"south pole", -90, 0, false},
		{"antimeridian east", 0, 180, false},
		{"antimeridian west", 0, -180, false},
		{"latitude too high", 90.0001, 0, true},
		{"latitude too low", -90.0001, 0, true},
		{"longitude too high", 0, 180.0001, true},
		{"longitude too low", 0, -180.0001, true},
		{"NaN latitude", math.NaN(), 0, true},
		{"infinite longitude", 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCoordinate(tt.lat, tt.lon)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lat, c.Latitude())
			assert.Equal(t, tt.lon, c.Longitude())
		})
	}
}

func TestCoordinate_Altitude(t *testing.T) {
	c, err := NewCoordinateWithAltitude(38.0675, -120.5436, 450)
	require.NoError(t, err)

	alt, ok := c.Altitude()
	assert.True(t, ok)
	assert.Equal(t, 450.0, alt)

	_, ok = angelsCamp.Altitude()
	assert.False(t, ok)

	assert.False(t, c.Equal(angelsCamp), "Altitude participates in equality")
	assert.True(t, angelsCamp.Equal(MustCoordinate(38.0675, -120.5436)))

	_, err = NewCoordinateWithAltitude(0, 0, math.NaN())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCoordinate_GeoJSON(t *testing.T) {
	pos := murphys.ToGeoJSON()
	assert.Equal(t, [2]float64{-120.4561, 38.1391}, pos, "GeoJSON positions are [lon, lat]")

	c, err := CoordinateFromGeoJSON(pos)
	require.NoError(t, err)
	assert.True(t, c.Equal(murphys))

	_, err = CoordinateFromGeoJSON([2]float64{38.1391, -120.4561})
	assert.Error(t, err, "Swapped axes put latitude out of range")
}

func TestCoordinateFromRadians(t *testing.T) {
	c, err := CoordinateFromRadians(math.Pi/2, -math.Pi)
	require.NoError(t, err)
	assert.Equal(t, 90.0, c.Latitude())
	assert.Equal(t, -180.0, c.Longitude())

	_, err = CoordinateFromRadians(math.Pi, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = CoordinateFromRadians(0, 4)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPointFromCoordinate_RoundTrip(t *testing.T) {
	fixtures := []Coordinate{
		angelsCamp,
		murphys,
		MustCoordinate(90, 0),
		MustCoordinate(-90, 180),
		MustCoordinate(-33.8688, 151.2093),
		MustCoordinate(0, -180),
		MustCoordinate(64.1466, -21.9426),
	}

	for _, c := range fixtures {
		p := PointFromCoordinate(c)
		assert.InDelta(t, c.LongitudeRadians(), p.X, 1e-15, "X carries longitude")
		assert.InDelta(t, c.LatitudeRadians(), p.Y, 1e-15, "Y carries latitude")

		back, err := CoordinateFromPoint(p)
		require.NoError(t, err)
		assert.InDelta(t, c.Latitude(), back.Latitude(), 1e-7)
		assert.InDelta(t, c.Longitude(), back.Longitude(), 1e-7)
	}
}

func TestCoordinateSystem_RoundTrip(t *testing.T) {
	var cs CoordinateSystem
	p := cs.FromCoordinate(murphys)
	assert.Equal(t, PointFromCoordinate(murphys), p)

	back, err := cs.FromPoint(p)
	require.NoError(t, err)
	assert.InDelta(t, murphys.Latitude(), back.Latitude(), 1e-7)
	assert.InDelta(t, murphys.Longitude(), back.Longitude(), 1e-7)

	_, err = cs.FromPoint(Point{X: 0, Y: 2})
	assert.True(t, IsValidationError(err), "latitude beyond π/2 is rejected")
}

func TestPoint_Vector(t *testing.T) {
	v := PointFromCoordinate(MustCoordinate(0, 0)).Vector()
	assert.InDelta(t, 1, v.X, 1e-15)
	assert.InDelta(t, 0, v.Y, 1e-15)
	assert.InDelta(t, 0, v.Z, 1e-15)

	v = PointFromCoordinate(MustCoordinate(90, 45)).Vector()
	assert.InDelta(t, 1, v.Z, 1e-15)

	v = PointFromCoordinate(murphys).Vector()
	assert.InDelta(t, 1, v.Norm(), 1e-15)

	back := coordinateFromVector(v.Mul(3))
	assert.InDelta(t, murphys.Latitude(), back.Latitude(), 1e-12)
	assert.InDelta(t, murphys.Longitude(), back.Longitude(), 1e-12)
}

func TestWrapLongitude(t *testing.T) {
	assert.Equal(t, 170.0, wrapLongitude(170))
	assert.InDelta(t, -170, wrapLongitude(190), 1e-12)
	assert.InDelta(t, 170, wrapLongitude(-190), 1e-12)
	assert.InDelta(t, 0, wrapLongitude(720), 1e-12)
	assert.Equal(t, 180.0, wrapLongitude(180))
}
